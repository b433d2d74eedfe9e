package payment

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallbiz/booking-core/internal/httperr"
	"github.com/smallbiz/booking-core/internal/models"
)

func TestCanRefund(t *testing.T) {
	assert.NoError(t, CanRefund(StatusCompleted))
	assert.Equal(t, "payment_already_refunded", httperr.CodeOf(CanRefund(StatusRefunded)))
	assert.Equal(t, "payment_not_refundable", httperr.CodeOf(CanRefund(StatusPending)))
	assert.Equal(t, "payment_not_refundable", httperr.CodeOf(CanRefund(StatusFailed)))
}

func TestTransitions(t *testing.T) {
	p := &models.Payment{Status: string(StatusPending)}
	require.NoError(t, Complete(p))
	assert.Equal(t, string(StatusCompleted), p.Status)

	assert.Error(t, Fail(p))
	assert.Error(t, Complete(p))

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	assert.True(t, MarkRefunded(p, now))
	assert.Equal(t, string(StatusRefunded), p.Status)
	assert.Equal(t, now, *p.RefundedAt)
	assert.False(t, MarkRefunded(p, now.Add(time.Hour)))
	assert.Equal(t, now, *p.RefundedAt)
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, "40.00", FromMinor(4000).StringFixed(2))
	assert.Equal(t, "0.05", FromMinor(5).StringFixed(2))
	assert.Equal(t, int64(2000), ToMinor(decimal.RequireFromString("20.00")))
	assert.Equal(t, int64(1999), ToMinor(decimal.RequireFromString("19.99")))
	assert.Equal(t, int64(1000), ToMinor(decimal.RequireFromString("9.995")))
}

func TestMetadataRoundTrip(t *testing.T) {
	customer := uint(3)
	in := CheckoutMetadata{
		CustomerID: &customer,
		Items:      []CheckoutItem{{Type: ItemTypeProduct, ID: 7, Quantity: 2}},
	}

	raw, err := in.Encode()
	require.NoError(t, err)
	assert.Equal(t, "3", raw[MetaCustomerID])
	assert.NotContains(t, raw, MetaAppointmentID)

	out, err := DecodeMetadata(raw)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDecodeMetadataRejectsGarbage(t *testing.T) {
	_, err := DecodeMetadata(map[string]string{MetaItems: "not-json"})
	assert.Error(t, err)

	_, err = DecodeMetadata(map[string]string{MetaCustomerID: "abc"})
	assert.Error(t, err)
}

func TestValidateItems(t *testing.T) {
	assert.Equal(t, "empty_cart", httperr.CodeOf(ValidateItems(nil)))
	assert.Equal(t, "invalid_item_type", httperr.CodeOf(ValidateItems([]CheckoutItem{{Type: "gift", ID: 1, Quantity: 1}})))
	assert.Equal(t, "invalid_quantity", httperr.CodeOf(ValidateItems([]CheckoutItem{{Type: ItemTypeProduct, ID: 1}})))
	assert.NoError(t, ValidateItems([]CheckoutItem{{Type: ItemTypeService, ID: 1, Quantity: 1}}))
}
