package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/eventlane/eventlane/internal/booking/domain"
	"github.com/eventlane/eventlane/pkg/db/pagination"
	"gorm.io/gorm"
)

const selectColumns = `id, customer_id, vendor_id, listing_id, checkout_session_id, status,
	event_date, event_time, attendees,
	payment_provider, provider_session_id, payment_confirmation_id,
	amount_paid, tax_paid, currency, paid_at,
	customer_snapshot, listing_snapshot, pricing_snapshot,
	created_at, updated_at`

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) InsertAll(ctx context.Context, bookings []*domain.Booking) error {
	if len(bookings) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, b := range bookings {
			err := tx.Exec(
				`INSERT INTO bookings
					(id, customer_id, vendor_id, listing_id, checkout_session_id, status,
					 event_date, event_time, attendees,
					 payment_provider, provider_session_id, payment_confirmation_id,
					 amount_paid, tax_paid, currency, paid_at,
					 customer_snapshot, listing_snapshot, pricing_snapshot,
					 created_at, updated_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				b.ID,
				b.CustomerID,
				b.VendorID,
				b.ListingID,
				b.CheckoutSessionID,
				b.Status,
				b.EventDate,
				b.EventTime,
				b.Attendees,
				b.PaymentProvider,
				b.ProviderSessionID,
				b.PaymentConfirmationID,
				b.AmountPaid,
				b.TaxPaid,
				b.Currency,
				b.PaidAt,
				b.CustomerSnapshot,
				b.ListingSnapshot,
				b.PricingSnapshot,
				b.CreatedAt,
				b.UpdatedAt,
			).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *repo) FindByID(ctx context.Context, id snowflake.ID) (*domain.Booking, error) {
	var booking domain.Booking
	err := r.db.WithContext(ctx).Raw(
		`SELECT `+selectColumns+` FROM bookings WHERE id = ?`,
		id,
	).Scan(&booking).Error
	if err != nil {
		return nil, err
	}
	if booking.ID == 0 {
		return nil, nil
	}
	return &booking, nil
}

// FindByCustomer pages newest first. Snowflake ids are time ordered, so the
// id alone is a stable cursor.
func (r *repo) FindByCustomer(ctx context.Context, customerID snowflake.ID, cursor *pagination.Cursor, limit int) ([]*domain.Booking, error) {
	query := `SELECT ` + selectColumns + ` FROM bookings WHERE customer_id = ?`
	args := []interface{}{customerID}

	if cursor != nil && cursor.ID != "" {
		afterID, err := snowflake.ParseString(cursor.ID)
		if err != nil {
			return nil, err
		}
		query += ` AND id < ?`
		args = append(args, afterID)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	var bookings []*domain.Booking
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *repo) FindBySession(ctx context.Context, sessionID snowflake.ID) ([]*domain.Booking, error) {
	var bookings []*domain.Booking
	err := r.db.WithContext(ctx).Raw(
		`SELECT `+selectColumns+` FROM bookings WHERE checkout_session_id = ? ORDER BY id`,
		sessionID,
	).Scan(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *repo) UpdateStatus(ctx context.Context, id snowflake.ID, next domain.Status) (int64, error) {
	res := r.db.WithContext(ctx).Exec(
		`UPDATE bookings SET status = ?, updated_at = ? WHERE id = ?`,
		next,
		time.Now().UTC(),
		id,
	)
	return res.RowsAffected, res.Error
}
