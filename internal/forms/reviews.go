package forms

import "Storefront/internal/catalog"

type ReviewStats struct {
	AverageRating float64 `json:"averageRating"`
	TotalReviews  int     `json:"totalReviews"`
}

type HomeReviews struct {
	Reviews []catalog.Review `json:"reviews"`
	Stats   ReviewStats      `json:"stats"`
}

// homeReviews are the curated testimonials shown on the landing page.
var homeReviews = HomeReviews{
	Reviews: []catalog.Review{
		{
			ID:           "home-review-1",
			Author:       "sarahj_nyc",
			Avatar:       "https://i.ibb.co/4w8W5qG8/icon-7797704-640.png",
			Rating:       5,
			Date:         "2025-01-15",
			Title:        "Solid camera, not perfect but worth it",
			Content:      "Wasn’t sure about buying used tbh, but this G7X Mark III surprised me. There’s a tiny nick on the corner (not a big deal), but the pics are sharp and it fits in my jacket pocket. Battery life’s good, camera quality’s dope. Shipping was fast too. Would buy again, honestly.",
			Helpful:      17,
			Verified:     true,
			Location:     "New York, NY",
			PurchaseDate: "January 2025",
			Images: []string{
				"https://images.unsplash.com/photo-1606983340126-99ab4feaa64a?w=400&h=400&fit=crop&auto=format&q=80",
				"https://images.unsplash.com/photo-1526170375885-4d8ecf77b99f?w=400&h=400&fit=crop&auto=format&q=80",
			},
		},
		{
			ID:           "home-review-2",
			Author:       "daveT",
			Avatar:       "https://i.ibb.co/ZzZm6PT2/avatars-000652081152-ddbg70-t500x500.jpg",
			Rating:       5,
			Date:         "2025-02-10",
			Title:        "Drone is a beast (DJI Mavic 2 Pro)",
			Content:      "This thing rips. Camera is super crisp, and the controls are way smoother than my old Phantom. Obstacle avoidance actually saved me from crashing into a tree lol. Only thing is, the app glitched once, but reboot fixed it. Battery lasts longer than I expected. Would recommend for anyone into aerial shots.",
			Helpful:      22,
			Verified:     true,
			Location:     "Seattle, WA",
			PurchaseDate: "February 2025",
			Images: []string{
				"https://i.ibb.co/vCq3Gd7h/s-l1600-18.webp",
				"https://i.ibb.co/pvtFkydF/s-l1600-19.webp",
			},
		},
		{
			ID:           "home-review-3",
			Author:       "Jessica M.",
			Avatar:       "https://i.ibb.co/4w8W5qG8/icon-7797704-640.png",
			Rating:       5,
			Date:         "2025-03-22",
			Title:        "Game changer for summer parties!",
			Content:      "I bought the Ninja SLUSHi for my daughter's birthday party and it was a total hit. We made blue raspberry slushies and frozen lemonade all afternoon. The 72oz pitcher is huge, enough for a dozen kids at once. I love that the parts are dishwasher safe because cleanup was a breeze after a sticky day.",
			Helpful:      18,
			Verified:     true,
			Location:     "Austin, TX",
			PurchaseDate: "March 2025",
			Images: []string{
				"https://i.ibb.co/PZLLSbFW/s-l1600-21.webp",
				"https://i.ibb.co/twZpCnsP/s-l1600-20.webp",
			},
		},
		{
			ID:           "home-review-4",
			Author:       "ashleyj_gold",
			Avatar:       "https://i.ibb.co/whhmMqhv/2219349473-huge.jpg",
			Rating:       5,
			Date:         "2025-04-18",
			Title:        "Sleep tracking is actually fun now",
			Content:      "I was skeptical about wearing a ring to bed, but the Oura Ring is so light I forget it's on. The sleep insights are wild, turns out my '8 hours' was more like 6.5 of real sleep. The gold finish is gorgeous and matches my other jewelry. Battery lasts me 5 days, and the charger is super compact.",
			Helpful:      9,
			Verified:     true,
			Location:     "Portland, OR",
			PurchaseDate: "April 2025",
			Images: []string{
				"https://i.ibb.co/RGYHKDMg/s-l1600-22.webp",
				"https://i.ibb.co/WW8DJ95q/s-l1600-23.webp",
			},
		},
		{
			ID:           "home-review-5",
			Author:       "MikeC87",
			Avatar:       "https://i.ibb.co/4w8W5qG8/icon-7797704-640.png",
			Rating:       4,
			Date:         "2025-05-05",
			Title:        "Camera works, but not a fan of the color",
			Content:      "The camera does what it’s supposed to and the pics are sharp. There’s some scratches on the screen and the silver color isn’t really my thing, but it’s fine for the price. 256GB card is a nice extra. Not perfect, but gets the job done.",
			Helpful:      23,
			Verified:     true,
			Location:     "Los Angeles, CA",
			PurchaseDate: "May 2025",
			Images: []string{
				"https://images.unsplash.com/photo-1502920917128-1aa500764cbd?w=400&h=400&fit=crop&auto=format&q=80",
			},
		},
	},
	Stats: ReviewStats{AverageRating: 4.8, TotalReviews: 156},
}
