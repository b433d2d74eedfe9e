package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/smallbiz/booking-core/internal/domain/appointment"
	"github.com/smallbiz/booking-core/internal/httperr"
	"github.com/smallbiz/booking-core/internal/httpresp"
	"github.com/smallbiz/booking-core/internal/timezone"
	ucAppointment "github.com/smallbiz/booking-core/internal/usecase/appointment"
)

const msgBookingRetry = "Could not complete the booking. Please try again."

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	availability AvailabilityUseCase
	create       CreateAppointmentUseCase
	cancel       AppointmentAction
	complete     AppointmentAction
	noShow       AppointmentAction
	listByDate   ListByDateUseCase
	listByMonth  ListByMonthUseCase
	loc          *time.Location
}

func NewAppointmentHandler(
	availability AvailabilityUseCase,
	create CreateAppointmentUseCase,
	cancel AppointmentAction,
	complete AppointmentAction,
	noShow AppointmentAction,
	listByDate ListByDateUseCase,
	listByMonth ListByMonthUseCase,
	loc *time.Location,
) *AppointmentHandler {
	return &AppointmentHandler{
		availability: availability,
		create:       create,
		cancel:       cancel,
		complete:     complete,
		noShow:       noShow,
		listByDate:   listByDate,
		listByMonth:  listByMonth,
		loc:          loc,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ServiceID     uint   `json:"serviceId" binding:"required"`
	CustomerName  string `json:"customerName" binding:"max=100"`
	CustomerEmail string `json:"customerEmail" binding:"omitempty,email"`
	CustomerPhone string `json:"customerPhone" binding:"max=20"`
	Date          string `json:"date" binding:"required,isodate"`
	Time          string `json:"time" binding:"required,clock"`
	Notes         string `json:"notes" binding:"max=1000"`
}

// ======================================================
// PUBLIC
// ======================================================

func (h *AppointmentHandler) Availability(c *gin.Context) {
	serviceID, err := strconv.ParseUint(c.Query("serviceId"), 10, 64)
	if err != nil || serviceID == 0 {
		httperr.BadRequest(c, "invalid_service_id", "serviceId is required.")
		return
	}

	date, err := timezone.ParseDate(c.Query("date"), h.loc)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "date must be YYYY-MM-DD.")
		return
	}

	out, err := h.availability.Execute(c.Request.Context(), domain.AvailabilityInput{
		ServiceID: uint(serviceID),
		Date:      date,
	})
	if err != nil {
		httperr.FromError(c, err, "availability_failed", "Could not load availability. Please try again.")
		return
	}

	c.JSON(http.StatusOK, out)
}

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid booking data.")
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		ServiceID:     req.ServiceID,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerEmail: strings.TrimSpace(req.CustomerEmail),
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		Date:          req.Date,
		Time:          req.Time,
		Notes:         req.Notes,
	})
	if err != nil {
		httperr.FromError(c, err, "failed_to_create_appointment", msgBookingRetry)
		return
	}

	httpresp.Created(c, ap)
}

// ======================================================
// ADMIN
// ======================================================

// List answers ?date=YYYY-MM-DD or ?year=&month=.
func (h *AppointmentHandler) List(c *gin.Context) {
	if dateStr := c.Query("date"); dateStr != "" {
		date, err := timezone.ParseDate(dateStr, h.loc)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Invalid date.")
			return
		}

		out, err := h.listByDate.Execute(c.Request.Context(), date)
		if err != nil {
			httperr.FromError(c, err, "failed_to_list_appointments", "Failed to list appointments.")
			return
		}
		httpresp.List(c, out)
		return
	}

	yearStr, monthStr := c.Query("year"), c.Query("month")
	if yearStr == "" || monthStr == "" {
		httperr.BadRequest(c, "missing_date", "date or year and month are required.")
		return
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 2000 || year > 2100 {
		httperr.BadRequest(c, "invalid_year", "Invalid year.")
		return
	}

	month, err := strconv.Atoi(monthStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_month", "Invalid month.")
		return
	}

	out, err := h.listByMonth.Execute(c.Request.Context(), year, month)
	if err != nil {
		httperr.FromError(c, err, "failed_to_list_appointments", "Failed to list appointments.")
		return
	}

	httpresp.OK(c, gin.H{
		"year":         year,
		"month":        month,
		"appointments": out,
	})
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	h.runAction(c, h.cancel)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	h.runAction(c, h.complete)
}

func (h *AppointmentHandler) NoShow(c *gin.Context) {
	h.runAction(c, h.noShow)
}

func (h *AppointmentHandler) runAction(c *gin.Context, action AppointmentAction) {
	id, ok := idParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return
	}

	ap, err := action.Execute(c.Request.Context(), actorID(c), id)
	if err != nil {
		httperr.FromError(c, err, "appointment_update_failed", "Failed to update appointment.")
		return
	}

	httpresp.OK(c, ap)
}
