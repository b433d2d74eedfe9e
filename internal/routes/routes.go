package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/smallbiz/booking-core/internal/audit"
	"github.com/smallbiz/booking-core/internal/config"
	domainAppointment "github.com/smallbiz/booking-core/internal/domain/appointment"
	"github.com/smallbiz/booking-core/internal/events"
	"github.com/smallbiz/booking-core/internal/handlers"
	infraRepo "github.com/smallbiz/booking-core/internal/infra/repository"
	"github.com/smallbiz/booking-core/internal/infra/stripeclient"
	"github.com/smallbiz/booking-core/internal/middleware"
	"github.com/smallbiz/booking-core/internal/notifications"
	ucAppointment "github.com/smallbiz/booking-core/internal/usecase/appointment"
	ucOrder "github.com/smallbiz/booking-core/internal/usecase/order"
	ucPayment "github.com/smallbiz/booking-core/internal/usecase/payment"
)

// Infra holds the process-lifetime collaborators main owns and closes.
type Infra struct {
	DB        *gorm.DB
	Stripe    *stripeclient.Provider
	Deduper   handlers.EventDeduper
	Publisher events.Publisher
	Mail      notifications.Transport
	Audit     *audit.Dispatcher
	AuditLog  *audit.Logger
	Location  *time.Location
	Log       *zap.Logger
}

func RegisterRoutes(r *gin.Engine, cfg *config.Config, infra Infra) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(infra.Log),
		middleware.CORSMiddleware(cfg.FrontendOrigin),
	)

	// ======================================================
	// INFRA
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(infra.DB)
	paymentRepo := infraRepo.NewPaymentGormRepository(infra.DB)
	emailLogRepo := infraRepo.NewEmailLogGormRepository(infra.DB)

	mailer := notifications.NewMailer(infra.Mail, emailLogRepo, infra.Log)
	notifier := notifications.NewNotifier(mailer, infra.Location)

	hours := domainAppointment.DefaultBusinessHours

	// ======================================================
	// USE CASES: APPOINTMENTS
	// ======================================================
	availabilityUC := ucAppointment.NewGetAvailability(appointmentRepo, hours)

	createAppointmentUC := ucAppointment.NewCreateAppointment(
		appointmentRepo,
		infra.Publisher,
		notifier,
		hours,
		infra.Location,
		infra.Log,
	)

	cancelAppointmentUC := ucAppointment.NewCancelAppointment(
		appointmentRepo,
		infra.Audit,
		infra.Publisher,
		infra.Log,
	)

	completeAppointmentUC := ucAppointment.NewCompleteAppointment(appointmentRepo, infra.Audit)
	noShowUC := ucAppointment.NewMarkNoShow(appointmentRepo, infra.Audit)

	listAppointmentsByDateUC := ucAppointment.NewListAppointmentsByDate(appointmentRepo, infra.Location)
	listAppointmentsByMonthUC := ucAppointment.NewListAppointmentsByMonth(appointmentRepo, infra.Location)

	// ======================================================
	// USE CASES: PAYMENTS / ORDERS
	// ======================================================
	checkoutUC := ucPayment.NewCreateCheckoutSession(paymentRepo, infra.Stripe, cfg.Currency)

	lifecycle := ucPayment.NewLifecycle(
		ucPayment.NewHandleCheckoutCompleted(paymentRepo, notifier, infra.Publisher, infra.Log),
		ucPayment.NewHandlePaymentSucceeded(paymentRepo, infra.Log),
		ucPayment.NewHandlePaymentFailed(paymentRepo, infra.Publisher, infra.Log),
		ucPayment.NewHandleChargeRefunded(paymentRepo, infra.Publisher, infra.Log),
		infra.Log,
	)

	refundUC := ucPayment.NewRefundPayment(
		paymentRepo,
		infra.Stripe,
		notifier,
		infra.Publisher,
		infra.Audit,
		infra.Log,
	)

	getOrderUC := ucOrder.NewGetOrder(paymentRepo)
	updateOrderStatusUC := ucOrder.NewUpdateOrderStatus(paymentRepo, infra.Audit, infra.Publisher, infra.Log)

	// ======================================================
	// HANDLERS
	// ======================================================
	appointmentHandler := handlers.NewAppointmentHandler(
		availabilityUC,
		createAppointmentUC,
		cancelAppointmentUC,
		completeAppointmentUC,
		noShowUC,
		listAppointmentsByDateUC,
		listAppointmentsByMonthUC,
		infra.Location,
	)

	paymentHandler := handlers.NewPaymentHandler(checkoutUC, refundUC)
	webhookHandler := handlers.NewWebhookHandler(infra.Stripe, infra.Deduper, lifecycle, infra.Log)
	orderHandler := handlers.NewOrderHandler(getOrderUC, updateOrderStatusUC)
	auditLogsHandler := handlers.NewAuditLogsHandler(infra.AuditLog, infra.Location)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		api.GET("/appointments/availability", appointmentHandler.Availability)
		api.POST("/appointments", appointmentHandler.Create)
		api.POST("/payments/create-checkout-session", paymentHandler.CreateCheckoutSession)
		api.POST("/webhooks/stripe", webhookHandler.Stripe)

		// ------------------------------
		// ADMIN
		// ------------------------------
		admin := api.Group("/")
		admin.Use(middleware.AuthMiddleware(cfg), middleware.RequireRole(middleware.RoleAdmin))
		{
			admin.POST("/payments/refund", paymentHandler.Refund)
			admin.POST("/payments/refund/:paymentId", paymentHandler.RefundByID)

			admin.GET("/admin/appointments", appointmentHandler.List)
			admin.PATCH("/admin/appointments/:id/cancel", appointmentHandler.Cancel)
			admin.PATCH("/admin/appointments/:id/complete", appointmentHandler.Complete)
			admin.PATCH("/admin/appointments/:id/no-show", appointmentHandler.NoShow)

			admin.GET("/admin/orders/:id", orderHandler.Get)
			admin.PATCH("/admin/orders/:id/status", orderHandler.UpdateStatus)

			admin.GET("/admin/audit-logs", auditLogsHandler.List)
		}
	}
}
