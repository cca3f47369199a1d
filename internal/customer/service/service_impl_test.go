package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/eventlane/eventlane/internal/clock"
	"github.com/eventlane/eventlane/internal/customer/domain"
	customerrepo "github.com/eventlane/eventlane/internal/customer/repository"
	customerservice "github.com/eventlane/eventlane/internal/customer/service"
	listingdomain "github.com/eventlane/eventlane/internal/listing/domain"
	listingrepo "github.com/eventlane/eventlane/internal/listing/repository"
	listingservice "github.com/eventlane/eventlane/internal/listing/service"
	"go.uber.org/zap"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type fixture struct {
	db        *gorm.DB
	node      *snowflake.Node
	clock     *clock.FakeClock
	customers domain.Service
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("raw db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	schema := []string{
		`CREATE TABLE customers (
			id BIGINT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			postal_code TEXT,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE vendors (
			id BIGINT PRIMARY KEY,
			display_name TEXT NOT NULL,
			email TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE listings (
			id BIGINT PRIMARY KEY,
			vendor_id BIGINT NOT NULL,
			title TEXT NOT NULL,
			description TEXT,
			image_url TEXT,
			postal_code TEXT NOT NULL,
			flat_price_amount BIGINT,
			flat_price_active BOOLEAN NOT NULL DEFAULT FALSE,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE listing_packages (
			id BIGINT PRIMARY KEY,
			listing_id BIGINT NOT NULL,
			name TEXT NOT NULL,
			description TEXT,
			price_amount BIGINT NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE custom_packages (
			id BIGINT PRIMARY KEY,
			listing_id BIGINT NOT NULL,
			customer_id BIGINT NOT NULL,
			name TEXT NOT NULL,
			description TEXT,
			price_amount BIGINT NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE cart_lines (
			id BIGINT PRIMARY KEY,
			customer_id BIGINT NOT NULL,
			listing_id BIGINT NOT NULL,
			pricing_kind TEXT NOT NULL,
			option_id BIGINT,
			name TEXT NOT NULL,
			event_date TEXT NOT NULL,
			event_time TEXT,
			attendees INT NOT NULL DEFAULT 1,
			price_amount BIGINT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
	}
	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()

	db := setupTestDB(t)
	node, err := snowflake.NewNode(13)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	fakeClock := clock.NewFakeClock(time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC))

	catalog := listingservice.New(listingservice.Params{
		Log:  zap.NewNop(),
		Repo: listingrepo.Provide(db),
	})
	customers := customerservice.New(customerservice.Params{
		Log:     zap.NewNop(),
		GenID:   node,
		Clock:   fakeClock,
		Repo:    customerrepo.Provide(db),
		Catalog: catalog,
	})

	return &fixture{db: db, node: node, clock: fakeClock, customers: customers}
}

func (f *fixture) seedCustomer(t *testing.T) snowflake.ID {
	t.Helper()
	id := f.node.Generate()
	now := f.clock.Now()
	err := f.db.Exec(
		`INSERT INTO customers (id, name, email, postal_code, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, "Dana Fields", "dana@example.com", "90210", now, now,
	).Error
	if err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return id
}

func (f *fixture) seedListing(t *testing.T, flatPrice *int64) snowflake.ID {
	t.Helper()
	vendorID := f.node.Generate()
	listingID := f.node.Generate()
	now := f.clock.Now()
	err := f.db.Exec(
		`INSERT INTO vendors (id, display_name, email, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		vendorID, "Golden Hour Photography", "vendor@example.com", now, now,
	).Error
	if err != nil {
		t.Fatalf("seed vendor: %v", err)
	}
	active := flatPrice != nil
	err = f.db.Exec(
		`INSERT INTO listings (id, vendor_id, title, description, image_url, postal_code, flat_price_amount, flat_price_active, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, TRUE, ?, ?)`,
		listingID, vendorID, "Wedding Photography", "", "", "90210", flatPrice, active, now, now,
	).Error
	if err != nil {
		t.Fatalf("seed listing: %v", err)
	}
	return listingID
}

func (f *fixture) seedPackage(t *testing.T, listingID snowflake.ID, name string, price int64) snowflake.ID {
	t.Helper()
	id := f.node.Generate()
	now := f.clock.Now()
	err := f.db.Exec(
		`INSERT INTO listing_packages (id, listing_id, name, description, price_amount, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, '', ?, TRUE, ?, ?)`,
		id, listingID, name, price, now, now,
	).Error
	if err != nil {
		t.Fatalf("seed package: %v", err)
	}
	return id
}

func int64Ptr(v int64) *int64 { return &v }

func TestAddLineCapturesResolvedPackagePrice(t *testing.T) {
	ctx := context.Background()
	f := setupFixture(t)

	customerID := f.seedCustomer(t)
	listingID := f.seedListing(t, nil)
	packageID := f.seedPackage(t, listingID, "Gold Package", 25000)

	line, err := f.customers.AddLine(ctx, domain.AddLineRequest{
		CustomerID:  customerID,
		ListingID:   listingID,
		PricingKind: listingdomain.PricingKindPackage,
		OptionID:    &packageID,
		EventDate:   "2026-09-12",
		EventTime:   "18:30",
		Attendees:   4,
	})
	if err != nil {
		t.Fatalf("add line: %v", err)
	}
	if line.PriceAmount != 25000 {
		t.Fatalf("expected captured price 25000, got %d", line.PriceAmount)
	}
	if line.Name != "Gold Package" {
		t.Fatalf("expected package name, got %q", line.Name)
	}
	if line.EventDate != "2026-09-12" || line.EventTime != "18:30" || line.Attendees != 4 {
		t.Fatalf("event details not captured: %q %q %d", line.EventDate, line.EventTime, line.Attendees)
	}

	// The captured price is what checkout charges even after a reprice.
	if err := f.db.Exec(`UPDATE listing_packages SET price_amount = 99000 WHERE id = ?`, packageID).Error; err != nil {
		t.Fatalf("reprice package: %v", err)
	}
	lines, err := f.customers.ListLines(ctx, customerID)
	if err != nil {
		t.Fatalf("list lines: %v", err)
	}
	if len(lines) != 1 || lines[0].PriceAmount != 25000 {
		t.Fatalf("expected frozen cart price 25000, got %+v", lines)
	}
}

func TestAddLineFlatPricing(t *testing.T) {
	ctx := context.Background()
	f := setupFixture(t)

	customerID := f.seedCustomer(t)
	listingID := f.seedListing(t, int64Ptr(10000))

	line, err := f.customers.AddLine(ctx, domain.AddLineRequest{
		CustomerID:  customerID,
		ListingID:   listingID,
		PricingKind: listingdomain.PricingKindFlat,
	})
	if err != nil {
		t.Fatalf("add line: %v", err)
	}
	if line.PriceAmount != 10000 {
		t.Fatalf("expected flat price 10000, got %d", line.PriceAmount)
	}
	if line.Attendees != 1 {
		t.Fatalf("expected attendee floor of 1, got %d", line.Attendees)
	}
}

func TestAddLineRejectsInvalidKind(t *testing.T) {
	ctx := context.Background()
	f := setupFixture(t)

	customerID := f.seedCustomer(t)
	listingID := f.seedListing(t, int64Ptr(10000))

	_, err := f.customers.AddLine(ctx, domain.AddLineRequest{
		CustomerID:  customerID,
		ListingID:   listingID,
		PricingKind: listingdomain.PricingKind("subscription"),
	})
	if !errors.Is(err, listingdomain.ErrInvalidPricingKind) {
		t.Fatalf("expected ErrInvalidPricingKind, got %v", err)
	}
}

func TestAddLineRejectsUnknownOption(t *testing.T) {
	ctx := context.Background()
	f := setupFixture(t)

	customerID := f.seedCustomer(t)
	listingID := f.seedListing(t, nil)
	missing := f.node.Generate()

	_, err := f.customers.AddLine(ctx, domain.AddLineRequest{
		CustomerID:  customerID,
		ListingID:   listingID,
		PricingKind: listingdomain.PricingKindPackage,
		OptionID:    &missing,
	})
	if !errors.Is(err, listingdomain.ErrPricingOptionNotFound) {
		t.Fatalf("expected ErrPricingOptionNotFound, got %v", err)
	}
}

func TestAddLineRejectsUnknownCustomer(t *testing.T) {
	ctx := context.Background()
	f := setupFixture(t)

	listingID := f.seedListing(t, int64Ptr(10000))

	_, err := f.customers.AddLine(ctx, domain.AddLineRequest{
		CustomerID:  f.node.Generate(),
		ListingID:   listingID,
		PricingKind: listingdomain.PricingKindFlat,
	})
	if !errors.Is(err, domain.ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}
}

func TestRemoveLine(t *testing.T) {
	ctx := context.Background()
	f := setupFixture(t)

	customerID := f.seedCustomer(t)
	listingID := f.seedListing(t, int64Ptr(10000))

	line, err := f.customers.AddLine(ctx, domain.AddLineRequest{
		CustomerID:  customerID,
		ListingID:   listingID,
		PricingKind: listingdomain.PricingKindFlat,
	})
	if err != nil {
		t.Fatalf("add line: %v", err)
	}

	if err := f.customers.RemoveLine(ctx, customerID, line.ID); err != nil {
		t.Fatalf("remove line: %v", err)
	}
	if err := f.customers.RemoveLine(ctx, customerID, line.ID); !errors.Is(err, domain.ErrCartLineNotFound) {
		t.Fatalf("expected ErrCartLineNotFound, got %v", err)
	}
}

func TestRemoveLineScopedToCustomer(t *testing.T) {
	ctx := context.Background()
	f := setupFixture(t)

	customerID := f.seedCustomer(t)
	otherID := f.seedCustomer(t)
	listingID := f.seedListing(t, int64Ptr(10000))

	line, err := f.customers.AddLine(ctx, domain.AddLineRequest{
		CustomerID:  customerID,
		ListingID:   listingID,
		PricingKind: listingdomain.PricingKindFlat,
	})
	if err != nil {
		t.Fatalf("add line: %v", err)
	}

	if err := f.customers.RemoveLine(ctx, otherID, line.ID); !errors.Is(err, domain.ErrCartLineNotFound) {
		t.Fatalf("another customer must not remove the line, got %v", err)
	}
	lines, err := f.customers.ListLines(ctx, customerID)
	if err != nil {
		t.Fatalf("list lines: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("line should survive, got %d", len(lines))
	}
}
