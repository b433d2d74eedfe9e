package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/smallbiz/booking-core/internal/httperr"
)

const (
	maxWebhookBody     = 64 << 10
	claimUpdateTimeout = 3 * time.Second
)

type WebhookHandler struct {
	parser    WebhookParser
	deduper   EventDeduper
	lifecycle WebhookDispatcher
	log       *zap.Logger
}

func NewWebhookHandler(
	parser WebhookParser,
	deduper EventDeduper,
	lifecycle WebhookDispatcher,
	log *zap.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		parser:    parser,
		deduper:   deduper,
		lifecycle: lifecycle,
		log:       log,
	}
}

func (h *WebhookHandler) Stripe(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody)

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httperr.Write(c, http.StatusRequestEntityTooLarge, "payload_too_large", "Payload too large.")
			return
		}
		httperr.BadRequest(c, "invalid_payload", "Could not read payload.")
		return
	}

	// --------------------------------------------------
	// 1. Nothing is trusted before the signature check
	// --------------------------------------------------
	ev, err := h.parser.ParseWebhook(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		h.log.Warn("webhook rejected", zap.Error(err))
		httperr.BadRequest(c, "invalid_signature", "Webhook verification failed.")
		return
	}

	log := h.log.With(zap.String("event_id", ev.ID), zap.String("event_type", string(ev.Type)))
	ctx := c.Request.Context()

	// --------------------------------------------------
	// 2. Event-id claim
	// --------------------------------------------------
	claimed, err := h.deduper.Claim(ctx, ev.ID)
	if err != nil {
		// the handlers are idempotent on their own
		log.Warn("webhook dedup unavailable", zap.Error(err))
		claimed = true
	}
	if !claimed {
		log.Info("webhook duplicate delivery")
		c.JSON(http.StatusOK, gin.H{"received": true, "duplicate": true})
		return
	}

	// --------------------------------------------------
	// 3. Dispatch
	// --------------------------------------------------
	done := false
	defer func() {
		if !done {
			h.release(ctx, log, ev.ID)
		}
	}()

	if err := h.lifecycle.Dispatch(ctx, ev); err != nil {
		log.Error("webhook processing failed", zap.Error(err))
		httperr.Internal(c, "webhook_processing_failed", "Webhook processing failed.")
		return
	}
	done = true

	markCtx, cancel := detached(ctx)
	defer cancel()
	if err := h.deduper.MarkDone(markCtx, ev.ID); err != nil {
		log.Warn("webhook claim mark done failed", zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// release frees the claim even when the request context is already gone.
func (h *WebhookHandler) release(ctx context.Context, log *zap.Logger, eventID string) {
	relCtx, cancel := detached(ctx)
	defer cancel()
	if err := h.deduper.Release(relCtx, eventID); err != nil {
		log.Warn("webhook claim release failed", zap.Error(err))
	}
}

func detached(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), claimUpdateTimeout)
}
