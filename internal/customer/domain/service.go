package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	listingdomain "github.com/eventlane/eventlane/internal/listing/domain"
)

type AddLineRequest struct {
	CustomerID  snowflake.ID
	ListingID   snowflake.ID
	PricingKind listingdomain.PricingKind
	OptionID    *snowflake.ID
	EventDate   string
	EventTime   string
	Attendees   int
}

type Service interface {
	GetCustomer(ctx context.Context, id snowflake.ID) (*Customer, error)
	// AddLine validates the pricing selection against the catalog and
	// captures the resolved price on the new line.
	AddLine(ctx context.Context, req AddLineRequest) (*CartLine, error)
	ListLines(ctx context.Context, customerID snowflake.ID) ([]*CartLine, error)
	RemoveLine(ctx context.Context, customerID, lineID snowflake.ID) error
	// RemoveLines deletes the given lines for the customer in one statement.
	RemoveLines(ctx context.Context, customerID snowflake.ID, lineIDs []snowflake.ID) error
}

type Repository interface {
	FindCustomer(ctx context.Context, id snowflake.ID) (*Customer, error)
	InsertLine(ctx context.Context, line *CartLine) error
	FindLines(ctx context.Context, customerID snowflake.ID) ([]*CartLine, error)
	DeleteLine(ctx context.Context, customerID, lineID snowflake.ID) (int64, error)
	DeleteLines(ctx context.Context, customerID snowflake.ID, lineIDs []snowflake.ID) (int64, error)
}
