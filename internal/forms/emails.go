package forms

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"Storefront/internal/notify"
)

const timestampLayout = "1/2/2006, 3:04:05 PM"

var emailTemplates = template.Must(template.New("emails").Parse(`
{{define "newsletter"}}<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #0046be;">New Newsletter Subscription</h2>
  <p><strong>Email:</strong> {{.Email}}</p>
  <p><strong>Date:</strong> {{.At}}</p>
  <p><strong>Source:</strong> Website newsletter form</p>
</div>{{end}}

{{define "order"}}<h2>New Order Shipping Information</h2>
<h3>Product Details:</h3>
<ul>
  <li><strong>Product:</strong> {{.Title}}</li>
  <li><strong>Price:</strong> {{.Price}}</li>
  <li><strong>Product URL:</strong> {{.ProductURL}}</li>
</ul>
<h3>Shipping Address:</h3>
<ul>
  <li><strong>Street Address:</strong> {{.Shipping.StreetAddress}}</li>
  <li><strong>City:</strong> {{.Shipping.City}}</li>
  <li><strong>State/Province:</strong> {{.Shipping.State}}</li>
  <li><strong>Zip Code:</strong> {{.Shipping.ZipCode}}</li>
  <li><strong>Email:</strong> {{.Shipping.Email}}</li>
  <li><strong>Phone Number:</strong> {{with .Shipping.PhoneNumber}}{{.}}{{else}}Not provided{{end}}</li>
</ul>
<p><strong>Order Date:</strong> {{.At}}</p>{{end}}

{{define "review"}}<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #0046be;">New Customer Review Submitted</h2>
  <ul style="list-style: none; padding: 0;">
    <li><strong>Customer Name:</strong> {{.Name}}</li>
    <li><strong>Rating:</strong> {{.Stars}} ({{.Rating}}/5)</li>
    <li><strong>Review Title:</strong> {{.Title}}</li>
    <li><strong>Review Content:</strong></li>
  </ul>
  <div style="background-color: white; padding: 15px; border-left: 4px solid #0046be;">"{{.Content}}"</div>
  <h4 style="color: #0046be;">Submission Information:</h4>
  <ul style="list-style: none; padding: 0;">
    <li><strong>Review ID:</strong> {{.ID}}</li>
    <li><strong>Submitted At:</strong> {{.At}}</li>
    <li><strong>Domain:</strong> {{.Domain}}</li>
    <li><strong>IP Address:</strong> {{.IP}}</li>
  </ul>
</div>{{end}}

{{define "contact"}}<h2>New Contact Form Submission</h2>
<ul>
  <li><strong>Name:</strong> {{.Name}}</li>
  <li><strong>Email:</strong> {{.Email}}</li>
  <li><strong>Subject:</strong> {{.Subject}}</li>
  <li><strong>Message:</strong> {{.Message}}</li>
  <li><strong>Domain:</strong> {{.Domain}}</li>
</ul>
<p><strong>Submitted At:</strong> {{.At}}</p>{{end}}
`))

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := emailTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s email: %w", name, err)
	}
	return buf.String(), nil
}

type newsletterEmail struct {
	Email string
	At    string
}

func (e newsletterEmail) message() (notify.Message, error) {
	body, err := render("newsletter", e)
	return notify.Message{Subject: "New Newsletter Subscription", HTML: body, ReplyTo: e.Email}, err
}

type orderEmail struct {
	Title      string
	Price      string
	ProductURL string
	Shipping   ShippingData
	At         string
}

func (e orderEmail) message() (notify.Message, error) {
	body, err := render("order", e)
	return notify.Message{Subject: "New Order - " + e.Title, HTML: body, ReplyTo: e.Shipping.Email}, err
}

type reviewEmail struct {
	ID      string
	Name    string
	Rating  int
	Title   string
	Content string
	Domain  string
	IP      string
	At      string
}

func (e reviewEmail) Stars() string {
	r := min(max(e.Rating, 0), 5)
	return strings.Repeat("★", r) + strings.Repeat("☆", 5-r)
}

func (e reviewEmail) message() (notify.Message, error) {
	body, err := render("review", e)
	subject := fmt.Sprintf("New Customer Review: %s (%d/5 stars)", e.Title, e.Rating)
	return notify.Message{Subject: subject, HTML: body}, err
}

type contactEmail struct {
	Name    string
	Email   string
	Subject string
	Message string
	Domain  string
	At      string
}

func (e contactEmail) message() (notify.Message, error) {
	body, err := render("contact", e)
	return notify.Message{Subject: "Contact Form: " + e.Subject, HTML: body, ReplyTo: e.Email}, err
}

func formatPrice(amount float64, currency string) string {
	if currency == "" || currency == "USD" {
		return fmt.Sprintf("$%.2f", amount)
	}
	return fmt.Sprintf("%.2f %s", amount, currency)
}
