package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// PricingKind identifies which kind of pricing option a cart line or booking
// refers to.
type PricingKind string

const (
	PricingKindPackage PricingKind = "package" // fixed catalog package
	PricingKindCustom  PricingKind = "custom"  // vendor-issued, customer-scoped package
	PricingKindFlat    PricingKind = "flat"    // listing flat price
)

func (k PricingKind) Valid() bool {
	switch k {
	case PricingKindPackage, PricingKindCustom, PricingKindFlat:
		return true
	default:
		return false
	}
}

type Vendor struct {
	ID          snowflake.ID `json:"id" gorm:"primaryKey"`
	DisplayName string       `json:"display_name" gorm:"type:text;not null"`
	Email       string       `json:"email" gorm:"type:text;not null"`
	CreatedAt   time.Time    `json:"created_at" gorm:"not null"`
	UpdatedAt   time.Time    `json:"updated_at" gorm:"not null"`
}

func (Vendor) TableName() string { return "vendors" }

type Listing struct {
	ID              snowflake.ID `json:"id" gorm:"primaryKey"`
	VendorID        snowflake.ID `json:"vendor_id" gorm:"not null;index"`
	Title           string       `json:"title" gorm:"type:text;not null"`
	Description     string       `json:"description" gorm:"type:text"`
	ImageURL        string       `json:"image_url" gorm:"type:text"`
	PostalCode      string       `json:"postal_code" gorm:"type:text;not null"`
	FlatPriceAmount *int64       `json:"flat_price_amount"`
	FlatPriceActive bool         `json:"flat_price_active" gorm:"not null;default:false"`
	IsActive        bool         `json:"is_active" gorm:"not null"`
	CreatedAt       time.Time    `json:"created_at" gorm:"not null"`
	UpdatedAt       time.Time    `json:"updated_at" gorm:"not null"`
}

func (Listing) TableName() string { return "listings" }

type ListingPackage struct {
	ID          snowflake.ID `json:"id" gorm:"primaryKey"`
	ListingID   snowflake.ID `json:"listing_id" gorm:"not null;index"`
	Name        string       `json:"name" gorm:"type:text;not null"`
	Description string       `json:"description" gorm:"type:text"`
	PriceAmount int64        `json:"price_amount" gorm:"not null"`
	IsActive    bool         `json:"is_active" gorm:"not null"`
	CreatedAt   time.Time    `json:"created_at" gorm:"not null"`
	UpdatedAt   time.Time    `json:"updated_at" gorm:"not null"`
}

func (ListingPackage) TableName() string { return "listing_packages" }

type CustomPackage struct {
	ID          snowflake.ID `json:"id" gorm:"primaryKey"`
	ListingID   snowflake.ID `json:"listing_id" gorm:"not null;index"`
	CustomerID  snowflake.ID `json:"customer_id" gorm:"not null;index"`
	Name        string       `json:"name" gorm:"type:text;not null"`
	Description string       `json:"description" gorm:"type:text"`
	PriceAmount int64        `json:"price_amount" gorm:"not null"`
	IsActive    bool         `json:"is_active" gorm:"not null"`
	CreatedAt   time.Time    `json:"created_at" gorm:"not null"`
	UpdatedAt   time.Time    `json:"updated_at" gorm:"not null"`
}

func (CustomPackage) TableName() string { return "custom_packages" }

var (
	ErrListingNotFound       = errors.New("listing_not_found")
	ErrVendorNotFound        = errors.New("vendor_not_found")
	ErrPricingOptionNotFound = errors.New("pricing_option_not_found")
	ErrInvalidPricingKind    = errors.New("invalid_pricing_kind")
)
