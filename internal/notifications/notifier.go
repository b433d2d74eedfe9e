package notifications

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/smallbiz/booking-core/internal/models"
)

type Sender interface {
	Send(ctx context.Context, e Email) (SendResult, error)
}

// Notifier renders the transactional emails of the booking and payment flows.
type Notifier struct {
	sender Sender
	loc    *time.Location
}

func NewNotifier(sender Sender, loc *time.Location) *Notifier {
	if loc == nil {
		loc = time.Local
	}
	return &Notifier{sender: sender, loc: loc}
}

func (n *Notifier) AppointmentConfirmation(
	ctx context.Context,
	customer *models.Customer,
	ap *models.Appointment,
	svc *models.Service,
) error {
	start := ap.AppointmentDate.In(n.loc)
	data := appointmentData{
		Name:          customer.Name,
		ServiceName:   svc.Name,
		Date:          start.Format("2006-01-02"),
		Time:          start.Format("15:04"),
		Duration:      ap.DurationMin,
		Price:         money(ap.Price, ""),
		Status:        ap.Status,
		AppointmentID: ap.ID,
	}

	html, text, err := appointmentConfirmationTmpl.render(data)
	if err != nil {
		return err
	}

	id := ap.ID
	_, err = n.sender.Send(ctx, Email{
		To:            customer.Email,
		ToName:        customer.Name,
		Subject:       fmt.Sprintf("Booking confirmation - %s", svc.Name),
		HTML:          html,
		Text:          text,
		Type:          TypeAppointmentConfirmation,
		AppointmentID: &id,
	})
	return err
}

func (n *Notifier) OrderConfirmation(ctx context.Context, customer *models.Customer, o *models.Order) error {
	return n.sendOrder(ctx, customer, o, nil, TypeOrderConfirmation,
		fmt.Sprintf("Order confirmation - %s", o.OrderNumber), orderConfirmationTmpl)
}

func (n *Notifier) PaymentReceipt(ctx context.Context, customer *models.Customer, o *models.Order, p *models.Payment) error {
	return n.sendOrder(ctx, customer, o, p, TypePaymentReceipt,
		fmt.Sprintf("Payment receipt - %s", o.OrderNumber), paymentReceiptTmpl)
}

func (n *Notifier) RefundNotice(ctx context.Context, customer *models.Customer, o *models.Order, p *models.Payment) error {
	return n.sendOrder(ctx, customer, o, p, TypeRefundNotice,
		fmt.Sprintf("Refund issued - %s", o.OrderNumber), refundNoticeTmpl)
}

func (n *Notifier) sendOrder(
	ctx context.Context,
	customer *models.Customer,
	o *models.Order,
	p *models.Payment,
	emailType string,
	subject string,
	tmpl pair,
) error {
	data := orderData{
		Name:        customer.Name,
		OrderNumber: o.OrderNumber,
		Subtotal:    money(o.Subtotal, o.Currency),
		Tax:         money(o.Tax, o.Currency),
		Shipping:    money(o.Shipping, o.Currency),
		Discount:    money(o.Discount, o.Currency),
		Total:       money(o.Total, o.Currency),
	}
	for _, it := range o.Items {
		data.Lines = append(data.Lines, orderLine{
			Name:     it.ProductName,
			Quantity: it.Quantity,
			Subtotal: money(it.Subtotal, o.Currency),
		})
	}
	if p != nil {
		data.Total = money(p.Amount, p.Currency)
		if p.TransactionID != nil {
			data.Reference = *p.TransactionID
		}
	}

	html, text, err := tmpl.render(data)
	if err != nil {
		return err
	}

	id := o.ID
	_, err = n.sender.Send(ctx, Email{
		To:      customer.Email,
		ToName:  customer.Name,
		Subject: subject,
		HTML:    html,
		Text:    text,
		Type:    emailType,
		OrderID: &id,
	})
	return err
}

func money(d decimal.Decimal, currency string) string {
	if currency == "" {
		return d.StringFixed(2)
	}
	return d.StringFixed(2) + " " + strings.ToUpper(currency)
}
