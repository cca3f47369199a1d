package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	taxdomain "github.com/eventlane/eventlane/internal/tax/domain"
)

type CreateSessionRequest struct {
	CustomerID snowflake.ID

	// ClientTaxBreakdown is an optional breakdown precomputed by the caller
	// for UX. It is trusted for display totals only; the amounts sent to the
	// payment processor are always built server side from the snapshot.
	ClientTaxBreakdown []taxdomain.Line
	ClientTaxTotal     *int64
}

type CreateSessionResponse struct {
	Session      *CheckoutSession
	CheckoutURL  string
	TaxBreakdown []taxdomain.Line
}

// Service drives the checkout lifecycle: creating hosted sessions from the
// customer's cart and settling them when the provider reports an outcome.
type Service interface {
	CreateSession(ctx context.Context, req CreateSessionRequest) (*CreateSessionResponse, error)
	// Complete settles a session after payment. Replays and late arrivals
	// on a non-pending session are no-ops.
	Complete(ctx context.Context, providerSessionID, confirmationID string) error
	// Expire closes an abandoned session. No-op when already settled.
	Expire(ctx context.Context, providerSessionID string) error
	GetByProviderSessionID(ctx context.Context, providerSessionID string) (*CheckoutSession, error)
}

type Repository interface {
	Insert(ctx context.Context, session *CheckoutSession) error
	FindByProviderSessionID(ctx context.Context, providerSessionID string) (*CheckoutSession, error)
	// MarkCompleted flips pending to completed in one guarded update and
	// reports whether this call won the transition.
	MarkCompleted(ctx context.Context, providerSessionID, confirmationID string, completedAt time.Time) (bool, error)
	MarkExpired(ctx context.Context, providerSessionID string, now time.Time) (bool, error)
	// ListStalePending returns pending sessions created before the cutoff,
	// oldest first, for the reconciliation sweep.
	ListStalePending(ctx context.Context, cutoff time.Time, limit int) ([]*CheckoutSession, error)
}
