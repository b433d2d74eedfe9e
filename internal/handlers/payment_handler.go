package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smallbiz/booking-core/internal/domain/payment"
	"github.com/smallbiz/booking-core/internal/httperr"
	ucPayment "github.com/smallbiz/booking-core/internal/usecase/payment"
)

type PaymentHandler struct {
	checkout CheckoutUseCase
	refund   RefundUseCase
}

func NewPaymentHandler(checkout CheckoutUseCase, refund RefundUseCase) *PaymentHandler {
	return &PaymentHandler{checkout: checkout, refund: refund}
}

// ======================================================
// REQUESTS
// ======================================================

type CheckoutItemRequest struct {
	Type     string `json:"type" binding:"required,item_type"`
	ID       uint   `json:"id" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1,max=100"`
}

type CheckoutRequest struct {
	Items         []CheckoutItemRequest `json:"items" binding:"required,min=1,dive"`
	SuccessURL    string                `json:"successUrl" binding:"required,url"`
	CancelURL     string                `json:"cancelUrl" binding:"required,url"`
	AppointmentID *uint                 `json:"appointmentId"`
	CustomerEmail string                `json:"customerEmail" binding:"omitempty,email"`
	Metadata      map[string]string     `json:"metadata"`
}

type RefundRequest struct {
	PaymentID *uint `json:"paymentId"`
	OrderID   *uint `json:"orderId"`
}

// ======================================================
// CHECKOUT
// ======================================================

func (h *PaymentHandler) CreateCheckoutSession(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid checkout data.")
		return
	}

	items := make([]payment.CheckoutItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, payment.CheckoutItem{
			Type:     it.Type,
			ID:       it.ID,
			Quantity: it.Quantity,
		})
	}

	out, err := h.checkout.Execute(c.Request.Context(), ucPayment.CheckoutInput{
		Items:         items,
		SuccessURL:    req.SuccessURL,
		CancelURL:     req.CancelURL,
		AppointmentID: req.AppointmentID,
		CustomerEmail: req.CustomerEmail,
		Metadata:      req.Metadata,
	})
	if err != nil {
		httperr.FromError(c, err, "checkout_failed", "Could not start the payment. Please try again.")
		return
	}

	c.JSON(http.StatusOK, out)
}

// ======================================================
// REFUND (ADMIN)
// ======================================================

func (h *PaymentHandler) Refund(c *gin.Context) {
	var req RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid refund request.")
		return
	}

	h.runRefund(c, ucPayment.RefundInput{PaymentID: req.PaymentID, OrderID: req.OrderID})
}

func (h *PaymentHandler) RefundByID(c *gin.Context) {
	id, ok := idParam(c, "paymentId")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid payment id.")
		return
	}

	h.runRefund(c, ucPayment.RefundInput{PaymentID: &id})
}

func (h *PaymentHandler) runRefund(c *gin.Context, in ucPayment.RefundInput) {
	p, err := h.refund.Execute(c.Request.Context(), actorID(c), in)
	if err != nil {
		httperr.FromError(c, err, "refund_failed", "Refund could not be processed.")
		return
	}

	c.JSON(http.StatusOK, p)
}
