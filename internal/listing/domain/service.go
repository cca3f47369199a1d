package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// ResolvePricingRequest resolves one pricing option for a specific customer.
// CustomerID scopes custom-package lookups; it is ignored for the other kinds.
type ResolvePricingRequest struct {
	ListingID  snowflake.ID
	CustomerID snowflake.ID
	Kind       PricingKind
	OptionID   *snowflake.ID
}

// ResolvedPricing is the priced, displayable result of a pricing lookup.
type ResolvedPricing struct {
	Kind        PricingKind
	OptionID    *snowflake.ID
	PriceAmount int64
	Name        string
	Description string
}

// Catalog is the listing/catalog lookup surface consumed by the cart and
// checkout pipeline.
type Catalog interface {
	// GetActiveListing returns the listing only when it still exists and is
	// active; ErrListingNotFound otherwise.
	GetActiveListing(ctx context.Context, id snowflake.ID) (*Listing, error)
	// GetListing returns the listing regardless of its active flag, for
	// display refresh; nil result means the row is gone.
	GetListing(ctx context.Context, id snowflake.ID) (*Listing, error)
	GetVendor(ctx context.Context, id snowflake.ID) (*Vendor, error)
	ResolvePricing(ctx context.Context, req ResolvePricingRequest) (*ResolvedPricing, error)
}

type Repository interface {
	FindListing(ctx context.Context, id snowflake.ID) (*Listing, error)
	FindVendor(ctx context.Context, id snowflake.ID) (*Vendor, error)
	FindPackage(ctx context.Context, listingID, id snowflake.ID) (*ListingPackage, error)
	FindCustomPackage(ctx context.Context, listingID, customerID, id snowflake.ID) (*CustomPackage, error)
}
