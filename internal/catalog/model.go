package catalog

import "maps"

const DefaultCurrency = "USD"

type Product struct {
	ID           string   `json:"id"`
	Slug         string   `json:"slug"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Price        float64  `json:"price"`
	Rating       float64  `json:"rating"`
	ReviewCount  int      `json:"reviewCount"`
	Images       []string `json:"images"`
	Condition    string   `json:"condition"`
	Category     string   `json:"category"`
	Brand        string   `json:"brand"`
	PayeeEmail   string   `json:"payeeEmail"`
	Currency     string   `json:"currency"`
	CheckoutLink string   `json:"checkoutLink"`
	Reviews      []Review `json:"reviews"`
	Meta         Meta     `json:"meta"`
}

type Review struct {
	ID           string   `json:"id"`
	Author       string   `json:"author"`
	Avatar       string   `json:"avatar,omitempty"`
	Rating       int      `json:"rating"`
	Date         string   `json:"date"`
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	Helpful      int      `json:"helpful,omitempty"`
	Verified     bool     `json:"verified,omitempty"`
	Location     string   `json:"location,omitempty"`
	PurchaseDate string   `json:"purchaseDate,omitempty"`
	Images       []string `json:"images,omitempty"`
}

// Meta carries presentation overrides (title, description, og/twitter tags).
// The service never interprets it.
type Meta map[string]any

// CoverImage is the first image, which the descriptor guarantees exists.
func (p Product) CoverImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// Clone returns a copy that shares no slices or maps with p.
// Nested values inside Meta are shared.
func (p Product) Clone() Product {
	out := p
	out.Images = cloneStrings(p.Images)
	if p.Reviews != nil {
		out.Reviews = make([]Review, len(p.Reviews))
		for i, r := range p.Reviews {
			r.Images = cloneStrings(r.Images)
			out.Reviews[i] = r
		}
	}
	if p.Meta != nil {
		out.Meta = maps.Clone(p.Meta)
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneProducts(in []Product) []Product {
	out := make([]Product, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}
