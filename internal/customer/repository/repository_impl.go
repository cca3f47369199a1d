package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/eventlane/eventlane/internal/customer/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) FindCustomer(ctx context.Context, id snowflake.ID) (*domain.Customer, error) {
	var customer domain.Customer
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, name, email, postal_code, created_at, updated_at
		 FROM customers WHERE id = ?`,
		id,
	).Scan(&customer).Error
	if err != nil {
		return nil, err
	}
	if customer.ID == 0 {
		return nil, nil
	}
	return &customer, nil
}

func (r *repo) InsertLine(ctx context.Context, line *domain.CartLine) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO cart_lines
			(id, customer_id, listing_id, pricing_kind, option_id, name,
			 event_date, event_time, attendees, price_amount, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		line.ID,
		line.CustomerID,
		line.ListingID,
		line.PricingKind,
		line.OptionID,
		line.Name,
		line.EventDate,
		line.EventTime,
		line.Attendees,
		line.PriceAmount,
		line.CreatedAt,
		line.UpdatedAt,
	).Error
}

func (r *repo) FindLines(ctx context.Context, customerID snowflake.ID) ([]*domain.CartLine, error) {
	var lines []*domain.CartLine
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, customer_id, listing_id, pricing_kind, option_id, name,
			event_date, event_time, attendees, price_amount, created_at, updated_at
		 FROM cart_lines WHERE customer_id = ? ORDER BY created_at, id`,
		customerID,
	).Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *repo) DeleteLine(ctx context.Context, customerID, lineID snowflake.ID) (int64, error) {
	res := r.db.WithContext(ctx).Exec(
		`DELETE FROM cart_lines WHERE id = ? AND customer_id = ?`,
		lineID,
		customerID,
	)
	return res.RowsAffected, res.Error
}

func (r *repo) DeleteLines(ctx context.Context, customerID snowflake.ID, lineIDs []snowflake.ID) (int64, error) {
	if len(lineIDs) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Exec(
		`DELETE FROM cart_lines WHERE customer_id = ? AND id IN ?`,
		customerID,
		lineIDs,
	)
	return res.RowsAffected, res.Error
}
