package notifications

import (
	"bytes"
	htmltemplate "html/template"
	texttemplate "text/template"
)

type pair struct {
	html *htmltemplate.Template
	text *texttemplate.Template
}

func mustPair(name, html, text string) pair {
	return pair{
		html: htmltemplate.Must(htmltemplate.New(name).Parse(html)),
		text: texttemplate.Must(texttemplate.New(name).Parse(text)),
	}
}

func (p pair) render(data any) (string, string, error) {
	var h, t bytes.Buffer
	if err := p.html.Execute(&h, data); err != nil {
		return "", "", err
	}
	if err := p.text.Execute(&t, data); err != nil {
		return "", "", err
	}
	return h.String(), t.String(), nil
}

// ======================================================
// APPOINTMENT
// ======================================================

type appointmentData struct {
	Name          string
	ServiceName   string
	Date          string
	Time          string
	Duration      int
	Price         string
	Status        string
	AppointmentID uint
}

var appointmentConfirmationTmpl = mustPair("appointment_confirmation", `<!DOCTYPE html>
<html>
<body>
  <p>Hi {{.Name}},</p>
  <p>Your booking has been received. Here are the details:</p>
  <ul>
    <li>Service: {{.ServiceName}}</li>
    <li>Date: {{.Date}}</li>
    <li>Time: {{.Time}}</li>
    <li>Duration: {{.Duration}} minutes</li>
    <li>Price: {{.Price}}</li>
    <li>Status: {{.Status}}</li>
    <li>Booking number: {{.AppointmentID}}</li>
  </ul>
  <p>Thank you.</p>
</body>
</html>`, `Hi {{.Name}},

Your booking has been received.

Service: {{.ServiceName}}
Date: {{.Date}}
Time: {{.Time}}
Duration: {{.Duration}} minutes
Price: {{.Price}}
Status: {{.Status}}
Booking number: {{.AppointmentID}}
`)

// ======================================================
// ORDER / PAYMENT
// ======================================================

type orderLine struct {
	Name     string
	Quantity int
	Subtotal string
}

type orderData struct {
	Name        string
	OrderNumber string
	Lines       []orderLine
	Subtotal    string
	Tax         string
	Shipping    string
	Discount    string
	Total       string
	Reference   string
}

var orderConfirmationTmpl = mustPair("order_confirmation", `<!DOCTYPE html>
<html>
<body>
  <p>Hi {{.Name}},</p>
  <p>Thanks for your order {{.OrderNumber}}.</p>
  <ul>
  {{- range .Lines}}
    <li>{{.Quantity}} x {{.Name}}: {{.Subtotal}}</li>
  {{- end}}
  </ul>
  <p>Subtotal: {{.Subtotal}}<br>Tax: {{.Tax}}<br>Shipping: {{.Shipping}}<br>Discount: {{.Discount}}</p>
  <p><strong>Total: {{.Total}}</strong></p>
</body>
</html>`, `Hi {{.Name}},

Thanks for your order {{.OrderNumber}}.
{{range .Lines}}
{{.Quantity}} x {{.Name}}: {{.Subtotal}}{{end}}

Subtotal: {{.Subtotal}}
Tax: {{.Tax}}
Shipping: {{.Shipping}}
Discount: {{.Discount}}
Total: {{.Total}}
`)

var paymentReceiptTmpl = mustPair("payment_receipt", `<!DOCTYPE html>
<html>
<body>
  <p>Hi {{.Name}},</p>
  <p>We received your payment of {{.Total}} for order {{.OrderNumber}}.</p>
  <p>Payment reference: {{.Reference}}</p>
</body>
</html>`, `Hi {{.Name}},

We received your payment of {{.Total}} for order {{.OrderNumber}}.
Payment reference: {{.Reference}}
`)

var refundNoticeTmpl = mustPair("refund_notice", `<!DOCTYPE html>
<html>
<body>
  <p>Hi {{.Name}},</p>
  <p>Your payment of {{.Total}} for order {{.OrderNumber}} has been refunded.</p>
  <p>Depending on your bank it can take a few days to show up.</p>
</body>
</html>`, `Hi {{.Name}},

Your payment of {{.Total}} for order {{.OrderNumber}} has been refunded.
Depending on your bank it can take a few days to show up.
`)
