package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	listingdomain "github.com/eventlane/eventlane/internal/listing/domain"
)

type Customer struct {
	ID         snowflake.ID `json:"id" gorm:"primaryKey"`
	Name       string       `json:"name" gorm:"type:text;not null"`
	Email      string       `json:"email" gorm:"type:text;not null"`
	PostalCode string       `json:"postal_code" gorm:"type:text"`
	CreatedAt  time.Time    `json:"created_at" gorm:"not null"`
	UpdatedAt  time.Time    `json:"updated_at" gorm:"not null"`
}

func (Customer) TableName() string { return "customers" }

// CartLine is one priced selection in a customer's cart. PriceAmount is
// captured at add time and is what checkout charges, even if the catalog
// price moves afterwards.
type CartLine struct {
	ID          snowflake.ID              `json:"id" gorm:"primaryKey"`
	CustomerID  snowflake.ID              `json:"customer_id" gorm:"not null;index"`
	ListingID   snowflake.ID              `json:"listing_id" gorm:"not null"`
	PricingKind listingdomain.PricingKind `json:"pricing_kind" gorm:"type:text;not null"`
	OptionID    *snowflake.ID             `json:"option_id"`
	Name        string                    `json:"name" gorm:"type:text;not null"`
	EventDate   string                    `json:"event_date" gorm:"type:text;not null"`
	EventTime   string                    `json:"event_time" gorm:"type:text"`
	Attendees   int                       `json:"attendees" gorm:"not null;default:1"`
	PriceAmount int64                     `json:"price_amount" gorm:"not null"`
	CreatedAt   time.Time                 `json:"created_at" gorm:"not null"`
	UpdatedAt   time.Time                 `json:"updated_at" gorm:"not null"`
}

func (CartLine) TableName() string { return "cart_lines" }

var (
	ErrCustomerNotFound = errors.New("customer_not_found")
	ErrCartLineNotFound = errors.New("cart_line_not_found")
	ErrDuplicateLine    = errors.New("duplicate_cart_line")
)
