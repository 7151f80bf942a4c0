package notify

import (
	"fmt"
	"html"
	"strings"
	"time"
)

const unknown = "Unknown"

// Visit is one page view reported by the browser.
type Visit struct {
	URL         string
	IP          string
	Device      string
	DeviceType  string
	Fingerprint string
	Location    Location
	At          time.Time
}

// CountryFlag turns an ISO 3166 alpha-2 code into its regional indicator emoji.
func CountryFlag(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 2 {
		return ""
	}

	var b strings.Builder
	for _, c := range code {
		if c < 'A' || c > 'Z' {
			return ""
		}
		b.WriteRune(0x1F1E6 + (c - 'A'))
	}
	return b.String()
}

func DeviceEmoji(deviceType string) string {
	switch deviceType {
	case "Mobile":
		return "📱"
	case "Tablet":
		return "💻"
	default:
		return "🖥️"
	}
}

// FormatVisit renders v as a Telegram HTML message. User supplied values are escaped.
func FormatVisit(v Visit) string {
	ip := v.IP
	if ip == "" {
		ip = unknown
	}

	country := v.Location.Country
	if country == "" {
		country = unknown
	}
	if flag := CountryFlag(v.Location.CountryCode); flag != "" {
		country = flag + " " + html.EscapeString(country)
	} else {
		country = html.EscapeString(country)
	}

	u := html.EscapeString(v.URL)

	lines := []string{
		"👀 <b>New Website Visit</b> 🚀",
		fmt.Sprintf(`🔗 <b>URL:</b> <a href="%s">%s</a>`, u, u),
		fmt.Sprintf("🔎 <b>IP:</b> <code>%s</code>", html.EscapeString(ip)),
		fmt.Sprintf("🏳️ <b>Country:</b> %s", country),
		fmt.Sprintf("%s <b>Device:</b> %s <code>%s</code>",
			DeviceEmoji(v.DeviceType), html.EscapeString(v.DeviceType), html.EscapeString(v.Device)),
		fmt.Sprintf("🆔 <b>Fingerprint:</b> <code>%s</code>", html.EscapeString(v.Fingerprint)),
		fmt.Sprintf("📅 <b>Date:</b> <code>%s</code>", v.At.Format("1/2/2006")),
		fmt.Sprintf("⏰ <b>Time:</b> <code>%s</code>", v.At.Format("3:04:05 PM")),
	}
	return strings.Join(lines, "\n")
}
