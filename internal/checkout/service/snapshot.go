package service

import (
	"context"
	"errors"

	"github.com/eventlane/eventlane/internal/checkout/domain"
	customerdomain "github.com/eventlane/eventlane/internal/customer/domain"
	listingdomain "github.com/eventlane/eventlane/internal/listing/domain"
	taxdomain "github.com/eventlane/eventlane/internal/tax/domain"
)

// CartSnapshot is the priced, display-ready freeze of a cart, built once at
// session creation.
type CartSnapshot struct {
	Lines    []domain.LineSnapshot
	Groups   []taxdomain.Group
	Subtotal int64
}

type snapshotBuilder struct {
	catalog listingdomain.Catalog
}

// build validates every cart line against the live catalog and freezes the
// result. Any line that no longer resolves fails the whole build; a checkout
// must never reach the payment page with a dead line in it.
func (b *snapshotBuilder) build(ctx context.Context, lines []*customerdomain.CartLine) (*CartSnapshot, error) {
	if len(lines) == 0 {
		return nil, domain.ErrEmptyCart
	}

	snap := &CartSnapshot{
		Lines: make([]domain.LineSnapshot, 0, len(lines)),
	}
	for _, line := range lines {
		listing, err := b.catalog.GetActiveListing(ctx, line.ListingID)
		if err != nil {
			if errors.Is(err, listingdomain.ErrListingNotFound) {
				return nil, domain.ErrListingUnavailable
			}
			return nil, err
		}

		vendor, err := b.catalog.GetVendor(ctx, listing.VendorID)
		if err != nil {
			return nil, err
		}
		if vendor == nil {
			return nil, domain.ErrListingUnavailable
		}

		// The option must still resolve, but the price charged is the one
		// captured when the line was added.
		if _, err := b.catalog.ResolvePricing(ctx, listingdomain.ResolvePricingRequest{
			ListingID:  line.ListingID,
			CustomerID: line.CustomerID,
			Kind:       line.PricingKind,
			OptionID:   line.OptionID,
		}); err != nil {
			if errors.Is(err, listingdomain.ErrPricingOptionNotFound) || errors.Is(err, listingdomain.ErrInvalidPricingKind) {
				return nil, domain.ErrPricingOptionUnavailable
			}
			if errors.Is(err, listingdomain.ErrListingNotFound) {
				return nil, domain.ErrListingUnavailable
			}
			return nil, err
		}

		ls := domain.LineSnapshot{
			LineID:       line.ID.String(),
			ListingID:    listing.ID.String(),
			VendorID:     vendor.ID.String(),
			PricingKind:  string(line.PricingKind),
			Name:         line.Name,
			ListingTitle: listing.Title,
			VendorName:   vendor.DisplayName,
			PostalCode:   listing.PostalCode,
			EventDate:    line.EventDate,
			EventTime:    line.EventTime,
			Attendees:    line.Attendees,
			PriceAmount:  line.PriceAmount,
		}
		if line.OptionID != nil {
			ls.OptionID = line.OptionID.String()
		}
		snap.Lines = append(snap.Lines, ls)
		snap.Groups = append(snap.Groups, taxdomain.Group{
			PostalCode: listing.PostalCode,
			Subtotal:   line.PriceAmount,
		})
		snap.Subtotal += line.PriceAmount
	}
	return snap, nil
}
