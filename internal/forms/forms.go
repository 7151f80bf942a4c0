// Package forms serves the storefront's write-side endpoints: newsletter
// signup, order hand-off, reviews, contact and visit logging. Each one turns
// a form post into a notification to the shop owner.
package forms

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"Storefront/internal/catalog"
	"Storefront/internal/notify"
	"Storefront/pkg/kit"
)

const visitTimeout = 5 * time.Second

type ProductLookup interface {
	GetBySlug(ctx context.Context, slug string) (catalog.Product, bool)
}

type Server struct {
	Products ProductLookup
	Mailer   notify.Mailer
	Visits   notify.VisitLogger
	Geo      notify.GeoLocator
	Limiter  *kit.IPRateLimiter
	Log      *zap.Logger
	SiteURL  string

	now      func() time.Time
	validate *validator.Validate
}

func (s *Server) init() {
	if s.Log == nil {
		s.Log = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.validate == nil {
		s.validate = newValidator()
	}
}

// Register mounts the form endpoints on r. Posts go through the rate limiter when one is set.
func (s *Server) Register(r chi.Router) {
	s.init()

	r.Group(func(rr chi.Router) {
		if s.Limiter != nil {
			rr.Use(s.Limiter.Middleware)
		}
		rr.Post("/newsletter", s.handleNewsletter)
		rr.Post("/send-shipping-email", s.handleShipping)
		rr.Post("/submit-review", s.handleReview)
		rr.Post("/send-contact-email", s.handleContact)
		rr.Post("/notify-visit", s.handleVisit)
	})

	r.Get("/home-reviews", s.handleHomeReviews)
}

type newsletterRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ShippingData struct {
	StreetAddress string `json:"streetAddress" validate:"required,max=200"`
	City          string `json:"city" validate:"required,max=100"`
	State         string `json:"state" validate:"required,max=100"`
	ZipCode       string `json:"zipCode" validate:"required,max=20"`
	Email         string `json:"email" validate:"required,email"`
	PhoneNumber   string `json:"phoneNumber" validate:"max=40"`
}

type shippingRequest struct {
	ShippingData ShippingData `json:"shippingData" validate:"required"`
	Product      struct {
		Slug string `json:"slug" validate:"required"`
	} `json:"product" validate:"required"`
}

type reviewRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content" validate:"required,max=5000"`
}

type contactRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

type visitRequest struct {
	Device      string `json:"device"`
	DeviceType  string `json:"deviceType"`
	Fingerprint string `json:"fingerprint"`
	URL         string `json:"url"`
}

func (s *Server) handleNewsletter(w http.ResponseWriter, r *http.Request) {
	var req newsletterRequest
	if !s.decode(w, r, &req) {
		return
	}

	msg, err := newsletterEmail{Email: req.Email, At: s.timestamp()}.message()
	if !s.send(w, r, msg, err) {
		return
	}

	kit.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Subscription email sent successfully",
	})
}

func (s *Server) handleShipping(w http.ResponseWriter, r *http.Request) {
	var req shippingRequest
	if !s.decode(w, r, &req) {
		return
	}

	p, ok := s.Products.GetBySlug(r.Context(), req.Product.Slug)
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "product not found", map[string]any{"slug": req.Product.Slug})
		return
	}

	msg, err := orderEmail{
		Title:      p.Title,
		Price:      formatPrice(p.Price, p.Currency),
		ProductURL: s.productURL(p.Slug),
		Shipping:   req.ShippingData,
		At:         s.timestamp(),
	}.message()
	if !s.send(w, r, msg, err) {
		return
	}

	s.Log.Info("order hand-off", zap.String("slug", p.Slug))
	kit.WriteJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"checkoutLink": p.CheckoutLink,
	})
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if !s.decode(w, r, &req) {
		return
	}

	id := uuid.NewString()
	msg, err := reviewEmail{
		ID:      id,
		Name:    req.Name,
		Rating:  req.Rating,
		Title:   req.Title,
		Content: req.Content,
		Domain:  s.domain(r),
		IP:      requestIP(r),
		At:      s.timestamp(),
	}.message()
	if !s.send(w, r, msg, err) {
		return
	}

	kit.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"id":      id,
		"message": "Review submitted successfully and notification sent",
	})
}

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if !s.decode(w, r, &req) {
		return
	}

	msg, err := contactEmail{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
		Domain:  s.domain(r),
		At:      s.timestamp(),
	}.message()
	if !s.send(w, r, msg, err) {
		return
	}

	kit.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

// handleVisit never reports notification failures to the browser.
func (s *Server) handleVisit(w http.ResponseWriter, r *http.Request) {
	var req visitRequest
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "invalid JSON body"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), visitTimeout)
	defer cancel()

	v := notify.Visit{
		URL:         req.URL,
		IP:          visitorIP(r),
		Device:      req.Device,
		DeviceType:  req.DeviceType,
		Fingerprint: req.Fingerprint,
		At:          s.now(),
	}

	if v.IP != "" && s.Geo != nil {
		loc, err := s.Geo.Locate(ctx, v.IP)
		if err != nil {
			s.Log.Debug("geolocation failed", zap.String("ip", v.IP), zap.Error(err))
		}
		v.Location = loc
	}

	if s.Visits != nil {
		if err := s.Visits.LogVisit(ctx, v); err != nil {
			s.Log.Warn("visit notification failed", zap.Error(err))
		}
	}

	kit.WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleHomeReviews(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, homeReviews)
}

// decode reads and validates the body, answering 400 itself on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := kit.DecodeJSON(w, r, dst); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "invalid JSON body", nil)
		return false
	}

	if err := s.validate.Struct(dst); err != nil {
		if fields, ok := fieldErrors(err); ok {
			kit.WriteError(w, r, http.StatusBadRequest, "validation failed", fields)
			return false
		}
		s.Log.Error("validate request", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return false
	}
	return true
}

func (s *Server) send(w http.ResponseWriter, r *http.Request, msg notify.Message, renderErr error) bool {
	err := renderErr
	if err == nil {
		err = s.Mailer.Send(r.Context(), msg)
	}
	if err != nil {
		s.Log.Error("send email failed", zap.String("subject", msg.Subject), zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "failed to send email", err.Error())
		return false
	}
	return true
}

func (s *Server) timestamp() string {
	return s.now().Format(timestampLayout)
}

func (s *Server) productURL(slug string) string {
	return strings.TrimSuffix(s.SiteURL, "/") + "/products/" + url.PathEscape(slug)
}

// domain is where the form was submitted from.
func (s *Server) domain(r *http.Request) string {
	for _, v := range []string{r.Header.Get("Origin"), r.Header.Get("Referer"), s.SiteURL} {
		if v != "" {
			return v
		}
	}
	return "Unknown"
}

func requestIP(r *http.Request) string {
	for _, v := range []string{r.Header.Get("X-Forwarded-For"), r.Header.Get("X-Real-IP")} {
		if v != "" {
			return v
		}
	}
	return "Unknown"
}

// visitorIP is the client address, or empty for loopback and unparseable values.
func visitorIP(r *http.Request) string {
	ip := net.ParseIP(kit.ClientIP(r))
	if ip == nil || ip.IsLoopback() {
		return ""
	}
	return ip.String()
}
