package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Status is the local lifecycle of a checkout session. Transitions out of
// pending happen exactly once, guarded at the database.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusExpired   Status = "expired"
)

// CheckoutSession records one handoff to the hosted payment page. The cart
// snapshot and tax breakdown are frozen at creation and never rewritten.
type CheckoutSession struct {
	ID                snowflake.ID   `json:"id" gorm:"primaryKey"`
	CustomerID        snowflake.ID   `json:"customer_id" gorm:"not null;index"`
	ProviderSessionID string         `json:"provider_session_id" gorm:"type:text;not null;uniqueIndex"`
	CheckoutURL       string         `json:"checkout_url" gorm:"type:text;not null"`
	Currency          string         `json:"currency" gorm:"type:text;not null"`
	Subtotal          int64          `json:"subtotal" gorm:"not null"`
	TaxTotal          int64          `json:"tax_total" gorm:"not null"`
	Total             int64          `json:"total" gorm:"not null"`
	TaxBreakdown      datatypes.JSON `json:"tax_breakdown" gorm:"type:jsonb"`
	CartSnapshot      datatypes.JSON `json:"cart_snapshot" gorm:"type:jsonb;not null"`
	Status            Status         `json:"status" gorm:"type:text;not null;default:pending"`

	PaymentConfirmationID *string    `json:"payment_confirmation_id" gorm:"type:text"`
	CompletedAt           *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null"`
}

func (CheckoutSession) TableName() string { return "checkout_sessions" }

// LineSnapshot is one cart line frozen into the session's cart snapshot.
// IDs are serialized as strings; snowflake values do not survive a trip
// through JSON numbers.
type LineSnapshot struct {
	LineID       string `json:"line_id"`
	ListingID    string `json:"listing_id"`
	VendorID     string `json:"vendor_id"`
	OptionID     string `json:"option_id,omitempty"`
	PricingKind  string `json:"pricing_kind"`
	Name         string `json:"name"`
	ListingTitle string `json:"listing_title"`
	VendorName   string `json:"vendor_name"`
	PostalCode   string `json:"postal_code"`
	EventDate    string `json:"event_date"`
	EventTime    string `json:"event_time,omitempty"`
	Attendees    int    `json:"attendees"`
	PriceAmount  int64  `json:"price_amount"`
}

var (
	ErrEmptyCart                = errors.New("empty_cart")
	ErrListingUnavailable       = errors.New("listing_unavailable")
	ErrPricingOptionUnavailable = errors.New("pricing_option_unavailable")
	ErrSessionNotFound          = errors.New("checkout_session_not_found")
	ErrProcessorUnavailable     = errors.New("payment_processor_unavailable")
)
