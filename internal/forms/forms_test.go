package forms

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Storefront/internal/catalog"
	"Storefront/internal/notify"
	"Storefront/pkg/kit"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []notify.Message
	err  error
}

func (m *fakeMailer) Send(_ context.Context, msg notify.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type fakeGeo struct {
	calls []string
	loc   notify.Location
	err   error
}

func (g *fakeGeo) Locate(_ context.Context, ip string) (notify.Location, error) {
	g.calls = append(g.calls, ip)
	return g.loc, g.err
}

type fakeVisits struct {
	visits []notify.Visit
	err    error
}

func (v *fakeVisits) LogVisit(_ context.Context, visit notify.Visit) error {
	v.visits = append(v.visits, visit)
	return v.err
}

type harness struct {
	mailer *fakeMailer
	geo    *fakeGeo
	visits *fakeVisits
	router http.Handler
}

func newHarness(t *testing.T, limiter *kit.IPRateLimiter) *harness {
	t.Helper()

	src := catalog.NewMemorySource()
	src.Put("g7x-camera", []byte(`{"slug":"g7x-camera","title":"Canon G7X","price":450,"images":["/g7x.jpg"],"checkoutLink":"https://pay.example.com/g7x"}`))

	h := &harness{
		mailer: &fakeMailer{},
		geo:    &fakeGeo{loc: notify.Location{Country: "Germany", CountryCode: "DE"}},
		visits: &fakeVisits{},
	}

	s := &Server{
		Products: catalog.NewStore(src),
		Mailer:   h.mailer,
		Visits:   h.visits,
		Geo:      h.geo,
		Limiter:  limiter,
		SiteURL:  "https://shop.example.com/",
		now:      func() time.Time { return time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC) },
	}

	r := chi.NewRouter()
	r.Route("/api", s.Register)
	h.router = r
	return h
}

func (h *harness) post(path, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestNewsletter(t *testing.T) {
	h := newHarness(t, nil)

	rec := h.post("/api/newsletter", `{"email":"fan@example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["success"])

	require.Len(t, h.mailer.sent, 1)
	assert.Equal(t, "New Newsletter Subscription", h.mailer.sent[0].Subject)
	assert.Equal(t, "fan@example.com", h.mailer.sent[0].ReplyTo)
	assert.Contains(t, h.mailer.sent[0].HTML, "fan@example.com")
	assert.Contains(t, h.mailer.sent[0].HTML, "6/1/2025, 9:30:00 AM")
}

func TestNewsletter_Invalid(t *testing.T) {
	h := newHarness(t, nil)

	for _, body := range []string{`{"email":"nope"}`, `{}`, `{"email":`, `{"email":"a@b.co"} trailing`} {
		rec := h.post("/api/newsletter", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
	assert.Empty(t, h.mailer.sent)

	rec := h.post("/api/newsletter", `{"email":"nope"}`)
	body := decodeBody(t, rec)
	assert.Equal(t, "validation failed", body["error"])
	assert.Equal(t, map[string]any{"email": "must be a valid email address"}, body["details"])
}

func TestNewsletter_MailFailure(t *testing.T) {
	h := newHarness(t, nil)
	h.mailer.err = errors.New("relay refused")

	rec := h.post("/api/newsletter", `{"email":"fan@example.com"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "failed to send email", body["error"])
	assert.Equal(t, "relay refused", body["details"])
}

const shippingBody = `{
	"shippingData": {"streetAddress": "1 Main St", "city": "Springfield", "state": "IL", "zipCode": "62701", "email": "buyer@example.com"},
	"product": {"slug": "g7x-camera", "title": "ignored, the catalog is authoritative"}
}`

func TestShipping(t *testing.T) {
	h := newHarness(t, nil)

	rec := h.post("/api/send-shipping-email", shippingBody)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "https://pay.example.com/g7x", body["checkoutLink"])

	require.Len(t, h.mailer.sent, 1)
	msg := h.mailer.sent[0]
	assert.Equal(t, "New Order - Canon G7X", msg.Subject)
	assert.Contains(t, msg.HTML, "$450.00")
	assert.Contains(t, msg.HTML, "https://shop.example.com/products/g7x-camera")
	assert.Contains(t, msg.HTML, "Not provided")
}

func TestShipping_UnknownProduct(t *testing.T) {
	h := newHarness(t, nil)

	rec := h.post("/api/send-shipping-email", strings.Replace(shippingBody, `"g7x-camera"`, `"missing"`, 1))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, h.mailer.sent)
}

func TestShipping_Validation(t *testing.T) {
	h := newHarness(t, nil)

	rec := h.post("/api/send-shipping-email", `{"shippingData":{"city":"x"},"product":{"slug":"g7x-camera"}}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	details := decodeBody(t, rec)["details"].(map[string]any)
	assert.Equal(t, "is required", details["shippingData.streetAddress"])
	assert.Equal(t, "is required", details["shippingData.email"])
}

func TestReview(t *testing.T) {
	h := newHarness(t, nil)

	rec := h.post("/api/submit-review",
		`{"name":"Ann","rating":4,"title":"Great <b>lens</b>","content":"Sharp"}`,
		"Origin", "https://shop.example.com", "X-Forwarded-For", "203.0.113.9")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["id"])

	require.Len(t, h.mailer.sent, 1)
	msg := h.mailer.sent[0]
	assert.Equal(t, "New Customer Review: Great <b>lens</b> (4/5 stars)", msg.Subject)
	assert.Contains(t, msg.HTML, "★★★★☆")
	assert.Contains(t, msg.HTML, "Great &lt;b&gt;lens&lt;/b&gt;", "user input is escaped in the body")
	assert.Contains(t, msg.HTML, "203.0.113.9")
	assert.Contains(t, msg.HTML, body["id"].(string))
}

func TestReview_RatingBounds(t *testing.T) {
	h := newHarness(t, nil)

	for _, rating := range []string{"0", "6", "-1"} {
		rec := h.post("/api/submit-review", `{"name":"Ann","rating":`+rating+`,"title":"t","content":"c"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code, rating)
	}
	assert.Empty(t, h.mailer.sent)
}

func TestContact(t *testing.T) {
	h := newHarness(t, nil)

	rec := h.post("/api/send-contact-email", `{"name":"Bo","email":"bo@example.com","subject":"Shipping?","message":"When?"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, h.mailer.sent, 1)
	assert.Equal(t, "Contact Form: Shipping?", h.mailer.sent[0].Subject)
	assert.Contains(t, h.mailer.sent[0].HTML, "https://shop.example.com/", "site url is the fallback domain")
}

func TestNotifyVisit(t *testing.T) {
	h := newHarness(t, nil)

	rec := h.post("/api/notify-visit",
		`{"device":"iPhone","deviceType":"Mobile","fingerprint":"fp-1","url":"https://shop.example.com/"}`,
		"X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["ok"])

	assert.Equal(t, []string{"203.0.113.9"}, h.geo.calls)
	require.Len(t, h.visits.visits, 1)
	v := h.visits.visits[0]
	assert.Equal(t, "203.0.113.9", v.IP)
	assert.Equal(t, "Germany", v.Location.Country)
	assert.Equal(t, "Mobile", v.DeviceType)
}

func TestNotifyVisit_LoopbackSkipsGeo(t *testing.T) {
	h := newHarness(t, nil)

	for _, ip := range []string{"127.0.0.1", "::1"} {
		rec := h.post("/api/notify-visit", `{"url":"/"}`, "X-Forwarded-For", ip)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	assert.Empty(t, h.geo.calls)
	require.Len(t, h.visits.visits, 2)
	assert.Equal(t, "", h.visits.visits[0].IP)
}

func TestNotifyVisit_SwallowsFailures(t *testing.T) {
	h := newHarness(t, nil)
	h.geo.err = errors.New("geo down")
	h.geo.loc = notify.Location{}
	h.visits.err = errors.New("telegram down")

	rec := h.post("/api/notify-visit", `{"url":"/"}`, "X-Forwarded-For", "203.0.113.9")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["ok"])

	rec = h.post("/api/notify-visit", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, decodeBody(t, rec)["ok"])
}

func TestHomeReviews(t *testing.T) {
	h := newHarness(t, nil)

	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/home-reviews", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got HomeReviews
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got.Reviews, 5)
	assert.Equal(t, 4.8, got.Stats.AverageRating)
	assert.Equal(t, 156, got.Stats.TotalReviews)
}

func TestFormsAreRateLimited(t *testing.T) {
	h := newHarness(t, kit.NewIPRateLimiter(2, time.Minute))

	for i := 0; i < 2; i++ {
		rec := h.post("/api/newsletter", `{"email":"fan@example.com"}`, "X-Forwarded-For", "198.51.100.4")
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := h.post("/api/newsletter", `{"email":"fan@example.com"}`, "X-Forwarded-For", "198.51.100.4")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	get := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/home-reviews", nil)
	req.Header.Set("X-Forwarded-For", "198.51.100.4")
	h.router.ServeHTTP(get, req)
	assert.Equal(t, http.StatusOK, get.Code, "reads are not limited")
}

func TestProductURL_EscapesSlug(t *testing.T) {
	s := &Server{SiteURL: "https://shop.example.com/"}
	assert.Equal(t, "https://shop.example.com/products/g7x-camera", s.productURL("g7x-camera"))
	assert.Equal(t, "https://shop.example.com/products/lens%20kit%3Fv2", s.productURL("lens kit?v2"))
}

func TestReviewEmail_Stars(t *testing.T) {
	assert.Equal(t, "★★★★★", reviewEmail{Rating: 5}.Stars())
	assert.Equal(t, "★☆☆☆☆", reviewEmail{Rating: 1}.Stars())
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "$450.00", formatPrice(450, "USD"))
	assert.Equal(t, "19.99 EUR", formatPrice(19.99, "EUR"))
}
