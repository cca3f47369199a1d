package domain

import (
	"context"
	"errors"
	"net/http"
	"time"
)

const (
	EventTypeSessionCompleted = "session.completed"
	EventTypeSessionExpired   = "session.expired"
)

// WebhookEvent is a provider-neutral payment event extracted from a signed
// webhook delivery.
type WebhookEvent struct {
	Provider          string
	ProviderEventID   string
	Type              string
	ProviderSessionID string
	ConfirmationID    string
	OccurredAt        time.Time
	RawPayload        []byte
}

// PaymentAdapter verifies and decodes one provider's webhook format.
// Verify must run against the raw body before any parsing.
type PaymentAdapter interface {
	Verify(ctx context.Context, payload []byte, headers http.Header) error
	Parse(ctx context.Context, payload []byte) (*WebhookEvent, error)
}

type Service interface {
	// HandleWebhook verifies, decodes and dispatches one delivery.
	// ErrEventIgnored from the adapter is not an error to the caller.
	HandleWebhook(ctx context.Context, payload []byte, headers http.Header) error
}

var (
	ErrInvalidSignature = errors.New("invalid_signature")
	ErrInvalidPayload   = errors.New("invalid_payload")
	ErrInvalidEvent     = errors.New("invalid_event")
	ErrEventIgnored     = errors.New("event_ignored")
)
