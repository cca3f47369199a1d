package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Status string

const (
	StatusPending   Status = "Pending"
	StatusConfirmed Status = "Confirmed"
	StatusCancelled Status = "Cancelled"
	StatusCompleted Status = "Completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	default:
		return false
	}
}

// CanTransition reports whether a booking may move from s to next. Settled
// states are terminal.
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCompleted || next == StatusCancelled
	default:
		return false
	}
}

// Booking is one vendor engagement materialized from a paid checkout
// session. The snapshot columns are immutable once written.
type Booking struct {
	ID                snowflake.ID `json:"id" gorm:"primaryKey"`
	CustomerID        snowflake.ID `json:"customer_id" gorm:"not null;index"`
	VendorID          snowflake.ID `json:"vendor_id" gorm:"not null;index"`
	ListingID         snowflake.ID `json:"listing_id" gorm:"not null"`
	CheckoutSessionID snowflake.ID `json:"checkout_session_id" gorm:"not null;index"`
	Status            Status       `json:"status" gorm:"type:text;not null"`

	EventDate string `json:"event_date" gorm:"type:text;not null"`
	EventTime string `json:"event_time" gorm:"type:text"`
	Attendees int    `json:"attendees" gorm:"not null;default:1"`

	PaymentProvider       string     `json:"payment_provider" gorm:"type:text;not null"`
	ProviderSessionID     string     `json:"provider_session_id" gorm:"type:text;not null"`
	PaymentConfirmationID string     `json:"payment_confirmation_id" gorm:"type:text"`
	AmountPaid            int64      `json:"amount_paid" gorm:"not null"`
	TaxPaid               int64      `json:"tax_paid" gorm:"not null"`
	Currency              string     `json:"currency" gorm:"type:text;not null"`
	PaidAt                *time.Time `json:"paid_at"`

	CustomerSnapshot datatypes.JSON `json:"customer_snapshot" gorm:"type:jsonb"`
	ListingSnapshot  datatypes.JSON `json:"listing_snapshot" gorm:"type:jsonb"`
	PricingSnapshot  datatypes.JSON `json:"pricing_snapshot" gorm:"type:jsonb;not null"`

	CreatedAt time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null"`
}

func (Booking) TableName() string { return "bookings" }

// CustomerSnapshotData freezes who booked, as of payment time.
type CustomerSnapshotData struct {
	CustomerID string `json:"customer_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
}

// ListingSnapshotData freezes what was booked, as of payment time.
type ListingSnapshotData struct {
	ListingID  string `json:"listing_id"`
	VendorID   string `json:"vendor_id"`
	Title      string `json:"title"`
	ImageURL   string `json:"image_url,omitempty"`
	VendorName string `json:"vendor_name"`
	PostalCode string `json:"postal_code"`
}

// PricingSnapshotData freezes what was paid. It is copied from the checkout
// session's cart snapshot, never recomputed.
type PricingSnapshotData struct {
	PricingKind string `json:"pricing_kind"`
	OptionID    string `json:"option_id,omitempty"`
	Name        string `json:"name"`
	PriceAmount int64  `json:"price_amount"`
	TaxAmount   int64  `json:"tax_amount"`
	Currency    string `json:"currency"`
}

var (
	ErrBookingNotFound     = errors.New("booking_not_found")
	ErrInvalidStatus       = errors.New("invalid_booking_status")
	ErrInvalidTransition   = errors.New("invalid_booking_transition")
	ErrNothingToMaterialize = errors.New("nothing_to_materialize")
)
