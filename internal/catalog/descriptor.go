package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrMalformed = errors.New("malformed product descriptor")

// DecodeDescriptor parses a product.json document into the canonical Product shape.
// Every source goes through it, so a product looks the same whichever way it was read.
func DecodeDescriptor(data []byte) (Product, error) {
	var p Product
	if err := json.Unmarshal(data, &p); err != nil {
		return Product{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if err := validate(p); err != nil {
		return Product{}, err
	}

	p.ID = p.Slug
	if strings.TrimSpace(p.Currency) == "" {
		p.Currency = DefaultCurrency
	}
	if p.Reviews == nil {
		p.Reviews = []Review{}
	}
	if p.Meta == nil {
		p.Meta = Meta{}
	}
	return p, nil
}

func validate(p Product) error {
	switch {
	case strings.TrimSpace(p.Slug) == "":
		return fmt.Errorf("%w: missing slug", ErrMalformed)
	case !validID(p.Slug):
		return fmt.Errorf("%w: slug %q is not a valid identifier", ErrMalformed, p.Slug)
	case len(p.Images) == 0:
		return fmt.Errorf("%w: %s: no images", ErrMalformed, p.Slug)
	case p.Price < 0:
		return fmt.Errorf("%w: %s: negative price", ErrMalformed, p.Slug)
	case p.Rating < 0 || p.Rating > 5:
		return fmt.Errorf("%w: %s: rating %v outside [0,5]", ErrMalformed, p.Slug, p.Rating)
	case p.ReviewCount < 0:
		return fmt.Errorf("%w: %s: negative review count", ErrMalformed, p.Slug)
	}
	return nil
}
