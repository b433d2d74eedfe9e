package payment

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/smallbiz/booking-core/internal/httperr"
)

const (
	ItemTypeProduct = "product"
	ItemTypeService = "service"
)

// metadata keys written on the checkout session and read back by the webhook
const (
	MetaCustomerID    = "customerId"
	MetaAppointmentID = "appointmentId"
	MetaItems         = "items"
)

// IsReservedMetaKey reports whether only the server may set the key.
func IsReservedMetaKey(k string) bool {
	return k == MetaCustomerID || k == MetaAppointmentID || k == MetaItems
}

type CheckoutItem struct {
	Type     string `json:"type"`
	ID       uint   `json:"id"`
	Quantity int    `json:"quantity"`
}

type CheckoutMetadata struct {
	CustomerID    *uint
	AppointmentID *uint
	Items         []CheckoutItem
}

// Encode flattens the metadata into provider string pairs.
func (m CheckoutMetadata) Encode() (map[string]string, error) {
	out := map[string]string{}

	if m.CustomerID != nil {
		out[MetaCustomerID] = strconv.FormatUint(uint64(*m.CustomerID), 10)
	}
	if m.AppointmentID != nil {
		out[MetaAppointmentID] = strconv.FormatUint(uint64(*m.AppointmentID), 10)
	}
	if len(m.Items) > 0 {
		b, err := json.Marshal(m.Items)
		if err != nil {
			return nil, err
		}
		out[MetaItems] = string(b)
	}

	return out, nil
}

func DecodeMetadata(raw map[string]string) (CheckoutMetadata, error) {
	var m CheckoutMetadata

	if v := raw[MetaCustomerID]; v != "" {
		id, err := parseID(v)
		if err != nil {
			return m, fmt.Errorf("metadata %s: %w", MetaCustomerID, err)
		}
		m.CustomerID = &id
	}

	if v := raw[MetaAppointmentID]; v != "" {
		id, err := parseID(v)
		if err != nil {
			return m, fmt.Errorf("metadata %s: %w", MetaAppointmentID, err)
		}
		m.AppointmentID = &id
	}

	if v := raw[MetaItems]; v != "" {
		if err := json.Unmarshal([]byte(v), &m.Items); err != nil {
			return m, fmt.Errorf("metadata %s: %w", MetaItems, err)
		}
	}

	return m, nil
}

// ValidateItems checks the shape of a checkout request before any lookup.
func ValidateItems(items []CheckoutItem) error {
	if len(items) == 0 {
		return httperr.ErrValidation("empty_cart")
	}

	for _, it := range items {
		if it.Type != ItemTypeProduct && it.Type != ItemTypeService {
			return httperr.ErrValidation("invalid_item_type")
		}
		if it.ID == 0 {
			return httperr.ErrValidation("invalid_item_id")
		}
		if it.Quantity <= 0 {
			return httperr.ErrValidation("invalid_quantity")
		}
	}

	return nil
}

// CoversService reports whether the cart pays for the given service.
func CoversService(items []CheckoutItem, serviceID uint) bool {
	for _, it := range items {
		if it.Type == ItemTypeService && it.ID == serviceID {
			return true
		}
	}
	return false
}

func parseID(v string) (uint, error) {
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(n), nil
}
