package service

import (
	"context"
	"errors"
	"net/http"

	auditdomain "github.com/eventlane/eventlane/internal/audit/domain"
	checkoutdomain "github.com/eventlane/eventlane/internal/checkout/domain"
	"github.com/eventlane/eventlane/internal/observability/metrics"
	paymentdomain "github.com/eventlane/eventlane/internal/payment/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Adapter  paymentdomain.PaymentAdapter
	Checkout checkoutdomain.Service
	Audit    auditdomain.Service
	Metrics  *metrics.Metrics `optional:"true"`
}

type Service struct {
	log      *zap.Logger
	adapter  paymentdomain.PaymentAdapter
	checkout checkoutdomain.Service
	audit    auditdomain.Service
	metrics  *metrics.Metrics
}

func New(p Params) paymentdomain.Service {
	return &Service{
		log:      p.Log.Named("payment.webhook"),
		adapter:  p.Adapter,
		checkout: p.Checkout,
		audit:    p.Audit,
		metrics:  p.Metrics,
	}
}

func (s *Service) HandleWebhook(ctx context.Context, payload []byte, headers http.Header) error {
	if err := s.adapter.Verify(ctx, payload, headers); err != nil {
		s.metrics.RecordWebhookEvent("invalid_signature")
		s.log.Warn("webhook signature verification failed", zap.Error(err))
		_ = s.audit.AuditLog(ctx, "payment.webhook.rejected", "webhook", nil, map[string]any{
			"reason": "invalid_signature",
		})
		return paymentdomain.ErrInvalidSignature
	}

	event, err := s.adapter.Parse(ctx, payload)
	if err != nil {
		if errors.Is(err, paymentdomain.ErrEventIgnored) {
			s.metrics.RecordWebhookEvent("ignored")
			return nil
		}
		s.metrics.RecordWebhookEvent("invalid_payload")
		s.log.Warn("webhook payload rejected", zap.Error(err))
		return err
	}

	switch event.Type {
	case paymentdomain.EventTypeSessionCompleted:
		if err := s.checkout.Complete(ctx, event.ProviderSessionID, event.ConfirmationID); err != nil {
			s.metrics.RecordWebhookEvent("error")
			return err
		}
		s.metrics.RecordWebhookEvent("completed")
	case paymentdomain.EventTypeSessionExpired:
		if err := s.checkout.Expire(ctx, event.ProviderSessionID); err != nil {
			s.metrics.RecordWebhookEvent("error")
			return err
		}
		s.metrics.RecordWebhookEvent("expired")
	default:
		s.metrics.RecordWebhookEvent("ignored")
	}

	s.log.Debug("webhook processed",
		zap.String("event_id", event.ProviderEventID),
		zap.String("event_type", event.Type),
		zap.String("provider_session_id", event.ProviderSessionID),
	)
	return nil
}
