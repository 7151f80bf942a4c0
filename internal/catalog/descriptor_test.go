package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cameraDescriptor = `{
	"slug": "g7x-camera",
	"title": "Canon PowerShot G7 X Mark III",
	"description": "Compact camera for vlogging",
	"price": 450,
	"rating": 4.7,
	"reviewCount": 38,
	"images": ["/images/g7x/1.jpg", "/images/g7x/2.jpg"],
	"condition": "Used - Like New",
	"category": "Cameras",
	"brand": "Canon",
	"payeeEmail": "payments@example.com",
	"currency": "",
	"checkoutLink": "https://pay.example.com/g7x"
}`

func TestDecodeDescriptor_Defaults(t *testing.T) {
	p, err := DecodeDescriptor([]byte(cameraDescriptor))
	require.NoError(t, err)

	assert.Equal(t, "g7x-camera", p.ID)
	assert.Equal(t, "g7x-camera", p.Slug)
	assert.Equal(t, 450.0, p.Price)
	assert.Equal(t, DefaultCurrency, p.Currency)
	assert.NotNil(t, p.Reviews)
	assert.Empty(t, p.Reviews)
	assert.NotNil(t, p.Meta)
	assert.Empty(t, p.Meta)
	assert.Equal(t, "/images/g7x/1.jpg", p.CoverImage())
}

func TestDecodeDescriptor_IDAlwaysFollowsSlug(t *testing.T) {
	p, err := DecodeDescriptor([]byte(`{"id":"other","slug":"lens","images":["a.jpg"],"currency":"EUR"}`))
	require.NoError(t, err)

	assert.Equal(t, "lens", p.ID)
	assert.Equal(t, "EUR", p.Currency)
}

func TestDecodeDescriptor_KeepsReviewsAndMeta(t *testing.T) {
	p, err := DecodeDescriptor([]byte(`{
		"slug": "lens",
		"images": ["a.jpg"],
		"reviews": [{"id": "r1", "author": "Ann", "rating": 5, "date": "2024-05-01", "title": "Sharp", "content": "Love it", "verified": true}],
		"meta": {"title": "Lens override", "ogImage": "/og.jpg"}
	}`))
	require.NoError(t, err)

	require.Len(t, p.Reviews, 1)
	assert.Equal(t, "Ann", p.Reviews[0].Author)
	assert.True(t, p.Reviews[0].Verified)
	assert.Equal(t, "Lens override", p.Meta["title"])
}

func TestDecodeDescriptor_Malformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "not json", doc: `{"slug":`},
		{name: "missing slug", doc: `{"images":["a.jpg"]}`},
		{name: "blank slug", doc: `{"slug":"  ","images":["a.jpg"]}`},
		{name: "slug with separator", doc: `{"slug":"a/b","images":["a.jpg"]}`},
		{name: "no images", doc: `{"slug":"x","images":[]}`},
		{name: "images missing", doc: `{"slug":"x"}`},
		{name: "negative price", doc: `{"slug":"x","images":["a"],"price":-1}`},
		{name: "rating too high", doc: `{"slug":"x","images":["a"],"rating":5.1}`},
		{name: "negative rating", doc: `{"slug":"x","images":["a"],"rating":-0.5}`},
		{name: "negative review count", doc: `{"slug":"x","images":["a"],"reviewCount":-3}`},
		{name: "wrong type", doc: `{"slug":"x","images":["a"],"price":"cheap"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeDescriptor([]byte(tt.doc))
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestProductClone_SharesNothing(t *testing.T) {
	p, err := DecodeDescriptor([]byte(`{
		"slug": "lens",
		"images": ["a.jpg"],
		"reviews": [{"id": "r1", "images": ["r.jpg"]}],
		"meta": {"title": "x"}
	}`))
	require.NoError(t, err)

	c := p.Clone()
	c.Images[0] = "changed"
	c.Reviews[0].Images[0] = "changed"
	c.Meta["title"] = "changed"

	assert.Equal(t, "a.jpg", p.Images[0])
	assert.Equal(t, "r.jpg", p.Reviews[0].Images[0])
	assert.Equal(t, "x", p.Meta["title"])
}
