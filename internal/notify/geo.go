package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const DefaultIPWhoIsURL = "https://ipwho.is"

var ErrLookupFailed = errors.New("geolocation lookup failed")

type Location struct {
	Country     string
	CountryCode string
}

type GeoLocator interface {
	Locate(ctx context.Context, ip string) (Location, error)
}

// IPWhoIs resolves an IP through the ipwho.is JSON API.
type IPWhoIs struct {
	client  *Client
	baseURL string
}

func NewIPWhoIs(client *Client, baseURL string) *IPWhoIs {
	if baseURL == "" {
		baseURL = DefaultIPWhoIsURL
	}
	return &IPWhoIs{client: client, baseURL: strings.TrimSuffix(baseURL, "/")}
}

type ipWhoIsResponse struct {
	Success     bool   `json:"success"`
	Country     string `json:"country"`
	CountryCode string `json:"country_code"`
	Message     string `json:"message"`
}

func (g *IPWhoIs) Locate(ctx context.Context, ip string) (Location, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/"+url.PathEscape(ip), http.NoBody)
	if err != nil {
		return Location{}, fmt.Errorf("build geo request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return Location{}, fmt.Errorf("geo lookup %s: %w", ip, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Location{}, fmt.Errorf("%w: status %d", ErrLookupFailed, resp.StatusCode)
	}

	var body ipWhoIsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Location{}, fmt.Errorf("decode geo response: %w", err)
	}
	if !body.Success {
		return Location{}, fmt.Errorf("%w: %s", ErrLookupFailed, body.Message)
	}

	return Location{Country: body.Country, CountryCode: body.CountryCode}, nil
}
