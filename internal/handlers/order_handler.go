package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smallbiz/booking-core/internal/httperr"
)

type OrderHandler struct {
	get          GetOrderUseCase
	updateStatus UpdateOrderStatusUseCase
}

func NewOrderHandler(get GetOrderUseCase, updateStatus UpdateOrderStatusUseCase) *OrderHandler {
	return &OrderHandler{get: get, updateStatus: updateStatus}
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid order id.")
		return
	}

	o, err := h.get.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.FromError(c, err, "failed_to_load_order", "Failed to load order.")
		return
	}

	c.JSON(http.StatusOK, o)
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid order id.")
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "status is required.")
		return
	}

	o, err := h.updateStatus.Execute(c.Request.Context(), actorID(c), id, req.Status)
	if err != nil {
		httperr.FromError(c, err, "failed_to_update_order", "Failed to update order.")
		return
	}

	c.JSON(http.StatusOK, o)
}
