package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/eventlane/eventlane/internal/listing/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) FindListing(ctx context.Context, id snowflake.ID) (*domain.Listing, error) {
	var listing domain.Listing
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, vendor_id, title, description, image_url, postal_code,
			flat_price_amount, flat_price_active, is_active, created_at, updated_at
		 FROM listings WHERE id = ?`,
		id,
	).Scan(&listing).Error
	if err != nil {
		return nil, err
	}
	if listing.ID == 0 {
		return nil, nil
	}
	return &listing, nil
}

func (r *repo) FindVendor(ctx context.Context, id snowflake.ID) (*domain.Vendor, error) {
	var vendor domain.Vendor
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, display_name, email, created_at, updated_at
		 FROM vendors WHERE id = ?`,
		id,
	).Scan(&vendor).Error
	if err != nil {
		return nil, err
	}
	if vendor.ID == 0 {
		return nil, nil
	}
	return &vendor, nil
}

func (r *repo) FindPackage(ctx context.Context, listingID, id snowflake.ID) (*domain.ListingPackage, error) {
	var pkg domain.ListingPackage
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, listing_id, name, description, price_amount, is_active, created_at, updated_at
		 FROM listing_packages WHERE id = ? AND listing_id = ?`,
		id,
		listingID,
	).Scan(&pkg).Error
	if err != nil {
		return nil, err
	}
	if pkg.ID == 0 {
		return nil, nil
	}
	return &pkg, nil
}

func (r *repo) FindCustomPackage(ctx context.Context, listingID, customerID, id snowflake.ID) (*domain.CustomPackage, error) {
	var pkg domain.CustomPackage
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, listing_id, customer_id, name, description, price_amount, is_active, created_at, updated_at
		 FROM custom_packages WHERE id = ? AND listing_id = ? AND customer_id = ?`,
		id,
		listingID,
		customerID,
	).Scan(&pkg).Error
	if err != nil {
		return nil, err
	}
	if pkg.ID == 0 {
		return nil, nil
	}
	return &pkg, nil
}
