package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	checkoutdomain "github.com/eventlane/eventlane/internal/checkout/domain"
	"github.com/eventlane/eventlane/pkg/db/pagination"
)

// Materializer turns a completed checkout session into bookings, one per
// snapshot line. It runs exactly once per session; the caller holds the
// completion guard.
type Materializer interface {
	Materialize(ctx context.Context, session *checkoutdomain.CheckoutSession) ([]*Booking, error)
}

type ListRequest struct {
	CustomerID snowflake.ID
	Pagination pagination.Pagination
}

type Service interface {
	Materializer
	Get(ctx context.Context, id snowflake.ID) (*Booking, error)
	ListForCustomer(ctx context.Context, req ListRequest) ([]*Booking, *pagination.PageInfo, error)
	UpdateStatus(ctx context.Context, id snowflake.ID, next Status) (*Booking, error)
}

type Repository interface {
	InsertAll(ctx context.Context, bookings []*Booking) error
	FindByID(ctx context.Context, id snowflake.ID) (*Booking, error)
	FindByCustomer(ctx context.Context, customerID snowflake.ID, cursor *pagination.Cursor, limit int) ([]*Booking, error)
	FindBySession(ctx context.Context, sessionID snowflake.ID) ([]*Booking, error)
	UpdateStatus(ctx context.Context, id snowflake.ID, next Status) (int64, error)
}
