package repository

import (
	"context"
	"time"

	"github.com/eventlane/eventlane/internal/checkout/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) Insert(ctx context.Context, session *domain.CheckoutSession) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO checkout_sessions
			(id, customer_id, provider_session_id, checkout_url, currency,
			 subtotal, tax_total, total, tax_breakdown, cart_snapshot,
			 status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID,
		session.CustomerID,
		session.ProviderSessionID,
		session.CheckoutURL,
		session.Currency,
		session.Subtotal,
		session.TaxTotal,
		session.Total,
		session.TaxBreakdown,
		session.CartSnapshot,
		session.Status,
		session.CreatedAt,
		session.UpdatedAt,
	).Error
}

func (r *repo) FindByProviderSessionID(ctx context.Context, providerSessionID string) (*domain.CheckoutSession, error) {
	var session domain.CheckoutSession
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, customer_id, provider_session_id, checkout_url, currency,
			subtotal, tax_total, total, tax_breakdown, cart_snapshot,
			status, payment_confirmation_id, completed_at, created_at, updated_at
		 FROM checkout_sessions WHERE provider_session_id = ?`,
		providerSessionID,
	).Scan(&session).Error
	if err != nil {
		return nil, err
	}
	if session.ID == 0 {
		return nil, nil
	}
	return &session, nil
}

// MarkCompleted is the single write that settles a session. The status guard
// makes concurrent and replayed webhooks race safely: exactly one caller sees
// a row flip.
func (r *repo) MarkCompleted(ctx context.Context, providerSessionID, confirmationID string, completedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Exec(
		`UPDATE checkout_sessions
		 SET status = ?, payment_confirmation_id = ?, completed_at = ?, updated_at = ?
		 WHERE provider_session_id = ? AND status = ?`,
		domain.StatusCompleted,
		confirmationID,
		completedAt,
		completedAt,
		providerSessionID,
		domain.StatusPending,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repo) MarkExpired(ctx context.Context, providerSessionID string, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Exec(
		`UPDATE checkout_sessions
		 SET status = ?, updated_at = ?
		 WHERE provider_session_id = ? AND status = ?`,
		domain.StatusExpired,
		now,
		providerSessionID,
		domain.StatusPending,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repo) ListStalePending(ctx context.Context, cutoff time.Time, limit int) ([]*domain.CheckoutSession, error) {
	var sessions []*domain.CheckoutSession
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, customer_id, provider_session_id, checkout_url, currency,
			subtotal, tax_total, total, tax_breakdown, cart_snapshot,
			status, payment_confirmation_id, completed_at, created_at, updated_at
		 FROM checkout_sessions
		 WHERE status = ? AND created_at < ?
		 ORDER BY created_at
		 LIMIT ?`,
		domain.StatusPending,
		cutoff,
		limit,
	).Scan(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}
