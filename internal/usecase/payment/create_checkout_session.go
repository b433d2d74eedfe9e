package payment

import (
	"context"
	"errors"
	"strings"

	"github.com/smallbiz/booking-core/internal/domain/appointment"
	domain "github.com/smallbiz/booking-core/internal/domain/payment"
	"github.com/smallbiz/booking-core/internal/httperr"
	"github.com/smallbiz/booking-core/internal/models"
)

type CheckoutInput struct {
	Items         []domain.CheckoutItem
	SuccessURL    string
	CancelURL     string
	CustomerID    *uint
	AppointmentID *uint
	CustomerEmail string
	Metadata      map[string]string
}

type CheckoutOutput struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

type CreateCheckoutSession struct {
	repo     domain.Repository
	provider domain.Provider
	currency string
}

func NewCreateCheckoutSession(
	repo domain.Repository,
	provider domain.Provider,
	currency string,
) *CreateCheckoutSession {
	return &CreateCheckoutSession{
		repo:     repo,
		provider: provider,
		currency: strings.ToLower(currency),
	}
}

func (uc *CreateCheckoutSession) Execute(
	ctx context.Context,
	in CheckoutInput,
) (*CheckoutOutput, error) {

	if err := domain.ValidateItems(in.Items); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 1. Customer / appointment references
	// --------------------------------------------------
	if in.CustomerID != nil {
		if _, err := uc.repo.GetCustomer(ctx, *in.CustomerID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, httperr.ErrNotFound("customer_not_found")
			}
			return nil, err
		}
	}

	var booked *models.Appointment
	if in.AppointmentID != nil {
		ap, err := uc.repo.GetAppointment(ctx, *in.AppointmentID)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrNotFound("appointment_not_found")
		}
		if err != nil {
			return nil, err
		}
		if appointment.Status(ap.Status) != appointment.StatusPending {
			return nil, httperr.ErrInvalidState("appointment_not_payable")
		}
		if !domain.CoversService(in.Items, ap.ServiceID) {
			return nil, httperr.ErrValidation("appointment_service_missing")
		}
		booked = ap
	}

	// --------------------------------------------------
	// 2. Prices come from the catalog, never the client
	// --------------------------------------------------
	lines := make([]domain.LineItem, 0, len(in.Items))
	for _, it := range in.Items {
		line, err := uc.lineFor(ctx, it)
		if err != nil {
			return nil, err
		}
		// the booked service is charged at the price locked on the appointment
		if booked != nil && it.Type == domain.ItemTypeService && it.ID == booked.ServiceID {
			line.UnitAmount = domain.ToMinor(booked.Price)
		}
		lines = append(lines, line)
	}

	// --------------------------------------------------
	// 3. Metadata the webhook rebuilds the purchase from
	// --------------------------------------------------
	meta, err := domain.CheckoutMetadata{
		CustomerID:    in.CustomerID,
		AppointmentID: in.AppointmentID,
		Items:         in.Items,
	}.Encode()
	if err != nil {
		return nil, err
	}

	merged := make(map[string]string, len(in.Metadata)+len(meta))
	for k, v := range in.Metadata {
		if domain.IsReservedMetaKey(k) {
			continue
		}
		merged[k] = v
	}
	for k, v := range meta {
		merged[k] = v
	}

	session, err := uc.provider.CreateCheckoutSession(ctx, domain.SessionRequest{
		Currency:      uc.currency,
		LineItems:     lines,
		SuccessURL:    in.SuccessURL,
		CancelURL:     in.CancelURL,
		CustomerEmail: strings.TrimSpace(in.CustomerEmail),
		Metadata:      merged,
	})
	if err != nil {
		return nil, httperr.ErrProvider("checkout_session_failed", err)
	}

	return &CheckoutOutput{SessionID: session.ID, URL: session.URL}, nil
}

func (uc *CreateCheckoutSession) lineFor(ctx context.Context, it domain.CheckoutItem) (domain.LineItem, error) {
	switch it.Type {
	case domain.ItemTypeProduct:
		p, err := uc.repo.GetProduct(ctx, it.ID)
		if errors.Is(err, domain.ErrNotFound) || (err == nil && !p.Active) {
			return domain.LineItem{}, httperr.ErrNotFound("product_not_found")
		}
		if err != nil {
			return domain.LineItem{}, err
		}
		return domain.LineItem{Name: p.Name, UnitAmount: domain.ToMinor(p.Price), Quantity: int64(it.Quantity)}, nil

	default:
		s, err := uc.repo.GetService(ctx, it.ID)
		if errors.Is(err, domain.ErrNotFound) || (err == nil && !s.Active) {
			return domain.LineItem{}, httperr.ErrNotFound("service_not_found")
		}
		if err != nil {
			return domain.LineItem{}, err
		}
		return domain.LineItem{Name: s.Name, UnitAmount: domain.ToMinor(s.Price), Quantity: int64(it.Quantity)}, nil
	}
}
