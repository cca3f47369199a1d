package domain

import (
	"context"
	"errors"
)

// SessionState is the provider-side lifecycle of a hosted checkout session.
type SessionState string

const (
	SessionStateOpen     SessionState = "open"
	SessionStateComplete SessionState = "complete"
	SessionStateExpired  SessionState = "expired"
)

// Session is the provider's view of a hosted checkout session.
type Session struct {
	ID              string
	URL             string
	State           SessionState
	PaymentIntentID string
	AmountTotal     int64
}

type LineItem struct {
	Name        string
	Description string
	Amount      int64 // minor units, per unit
	Quantity    int64
}

type CreateSessionRequest struct {
	ReferenceID   string
	Currency      string
	CustomerEmail string
	LineItems     []LineItem
	Metadata      map[string]string
	SuccessURL    string
	CancelURL     string
}

// Processor creates and inspects hosted checkout sessions at the payment
// provider. Implementations must not persist anything locally.
type Processor interface {
	CreateSession(ctx context.Context, req CreateSessionRequest) (*Session, error)
	GetSession(ctx context.Context, id string) (*Session, error)
}

var (
	ErrMissingCredentials = errors.New("payment_provider_missing_credentials")
	ErrUnreachable        = errors.New("payment_provider_unreachable")
	ErrSessionNotFound    = errors.New("payment_provider_session_not_found")
)
