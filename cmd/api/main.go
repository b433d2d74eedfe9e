package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/smallbiz/booking-core/internal/audit"
	"github.com/smallbiz/booking-core/internal/config"
	dbpkg "github.com/smallbiz/booking-core/internal/db"
	"github.com/smallbiz/booking-core/internal/events"
	"github.com/smallbiz/booking-core/internal/handlers"
	"github.com/smallbiz/booking-core/internal/infra/redisstore"
	"github.com/smallbiz/booking-core/internal/infra/stripeclient"
	"github.com/smallbiz/booking-core/internal/logger"
	"github.com/smallbiz/booking-core/internal/notifications"
	"github.com/smallbiz/booking-core/internal/routes"
	"github.com/smallbiz/booking-core/internal/timezone"
	"github.com/smallbiz/booking-core/internal/validators"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := validators.Register(); err != nil {
		return err
	}

	db, err := dbpkg.NewDB(cfg, log)
	if err != nil {
		return err
	}

	// --------------------------------------------------
	// Optional collaborators
	// --------------------------------------------------
	var deduper handlers.EventDeduper = redisstore.NoopDeduper{}
	if cfg.RedisEnabled() {
		client, err := redisstore.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Warn("redis unavailable, webhook dedup disabled", zap.Error(err))
		} else {
			defer client.Close()
			deduper = redisstore.NewEventDeduper(client)
		}
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.KafkaEnabled() {
		kp := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, log)
		defer kp.Close()
		publisher = kp
	}

	var transport notifications.Transport
	if cfg.MailEnabled() {
		transport = notifications.NewBrevoClient(cfg.BrevoAPIKey, cfg.MailSenderEmail, cfg.MailSenderName, cfg.MailSandbox)
	} else {
		log.Warn("mail transport not configured, emails are only logged")
	}

	if cfg.StripeSecretKey == "" || cfg.StripeWebhookSecret == "" {
		log.Warn("stripe keys missing, checkout and webhooks will fail")
	}

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger, log)
	defer auditDispatcher.Close()

	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, cfg, routes.Infra{
		DB:        db,
		Stripe:    stripeclient.New(cfg.StripeSecretKey, cfg.StripeWebhookSecret),
		Deduper:   deduper,
		Publisher: publisher,
		Mail:      transport,
		Audit:     auditDispatcher,
		AuditLog:  auditLogger,
		Location:  timezone.Location(cfg.BusinessTimezone),
		Log:       log,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server running", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
