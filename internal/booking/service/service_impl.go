package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/eventlane/eventlane/internal/booking/domain"
	checkoutdomain "github.com/eventlane/eventlane/internal/checkout/domain"
	"github.com/eventlane/eventlane/internal/clock"
	customerdomain "github.com/eventlane/eventlane/internal/customer/domain"
	listingdomain "github.com/eventlane/eventlane/internal/listing/domain"
	"github.com/eventlane/eventlane/internal/providers/email"
	taxdomain "github.com/eventlane/eventlane/internal/tax/domain"
	taxservice "github.com/eventlane/eventlane/internal/tax/service"
	"github.com/eventlane/eventlane/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const paymentProvider = "stripe"

type Params struct {
	fx.In

	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Repo      domain.Repository
	Customers customerdomain.Service
	Catalog   listingdomain.Catalog
	Email     email.Provider
}

type Service struct {
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	repo      domain.Repository
	customers customerdomain.Service
	catalog   listingdomain.Catalog
	email     email.Provider
}

func New(p Params) domain.Service {
	return &Service{
		log:       p.Log.Named("booking.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		repo:      p.Repo,
		customers: p.Customers,
		catalog:   p.Catalog,
		email:     p.Email,
	}
}

// Materialize creates one Confirmed booking per snapshot line. Prices and
// tax come from the frozen session, only display fields are refreshed. Cart
// cleanup and email dispatch run after the insert and never fail the call.
func (s *Service) Materialize(ctx context.Context, session *checkoutdomain.CheckoutSession) ([]*domain.Booking, error) {
	var lines []checkoutdomain.LineSnapshot
	if err := json.Unmarshal(session.CartSnapshot, &lines); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, domain.ErrNothingToMaterialize
	}

	rates := taxRatesByPostalCode(session.TaxBreakdown)
	customerSnap := s.buildCustomerSnapshot(ctx, session.CustomerID)

	confirmationID := ""
	if session.PaymentConfirmationID != nil {
		confirmationID = *session.PaymentConfirmationID
	}

	now := s.clock.Now()
	bookings := make([]*domain.Booking, 0, len(lines))
	cartLineIDs := make([]snowflake.ID, 0, len(lines))
	for _, line := range lines {
		listingID, err := snowflake.ParseString(line.ListingID)
		if err != nil {
			return nil, err
		}
		vendorID, err := snowflake.ParseString(line.VendorID)
		if err != nil {
			return nil, err
		}
		if lineID, err := snowflake.ParseString(line.LineID); err == nil {
			cartLineIDs = append(cartLineIDs, lineID)
		}

		listingSnap := s.buildListingSnapshot(ctx, listingID, vendorID, line)
		taxPaid := taxservice.TaxAmount(line.PriceAmount, rates[line.PostalCode])

		pricingSnap, err := json.Marshal(domain.PricingSnapshotData{
			PricingKind: line.PricingKind,
			OptionID:    line.OptionID,
			Name:        line.Name,
			PriceAmount: line.PriceAmount,
			TaxAmount:   taxPaid,
			Currency:    session.Currency,
		})
		if err != nil {
			return nil, err
		}
		listingJSON, err := json.Marshal(listingSnap)
		if err != nil {
			return nil, err
		}
		customerJSON, err := json.Marshal(customerSnap)
		if err != nil {
			return nil, err
		}

		bookings = append(bookings, &domain.Booking{
			ID:                s.genID.Generate(),
			CustomerID:        session.CustomerID,
			VendorID:          vendorID,
			ListingID:         listingID,
			CheckoutSessionID: session.ID,
			Status:            domain.StatusConfirmed,

			EventDate: line.EventDate,
			EventTime: line.EventTime,
			Attendees: line.Attendees,

			PaymentProvider:       paymentProvider,
			ProviderSessionID:     session.ProviderSessionID,
			PaymentConfirmationID: confirmationID,
			AmountPaid:            line.PriceAmount,
			TaxPaid:               taxPaid,
			Currency:              session.Currency,
			PaidAt:                session.CompletedAt,

			CustomerSnapshot: datatypes.JSON(customerJSON),
			ListingSnapshot:  datatypes.JSON(listingJSON),
			PricingSnapshot:  datatypes.JSON(pricingSnap),

			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	if err := s.repo.InsertAll(ctx, bookings); err != nil {
		return nil, err
	}

	// Bookings are the authoritative side effect. Cart cleanup is cosmetic.
	if err := s.customers.RemoveLines(ctx, session.CustomerID, cartLineIDs); err != nil {
		s.log.Warn("failed to clear consumed cart lines",
			zap.Int64("customer_id", int64(session.CustomerID)),
			zap.Error(err),
		)
	}

	s.sendConfirmations(ctx, bookings, customerSnap, lines)
	return bookings, nil
}

func (s *Service) buildCustomerSnapshot(ctx context.Context, customerID snowflake.ID) domain.CustomerSnapshotData {
	snap := domain.CustomerSnapshotData{CustomerID: customerID.String()}
	customer, err := s.customers.GetCustomer(ctx, customerID)
	if err != nil {
		s.log.Warn("customer lookup failed during materialization",
			zap.Int64("customer_id", int64(customerID)),
			zap.Error(err),
		)
		return snap
	}
	snap.Name = customer.Name
	snap.Email = customer.Email
	return snap
}

// buildListingSnapshot refreshes display fields from the live catalog and
// falls back to the frozen line when the row is gone.
func (s *Service) buildListingSnapshot(ctx context.Context, listingID, vendorID snowflake.ID, line checkoutdomain.LineSnapshot) domain.ListingSnapshotData {
	snap := domain.ListingSnapshotData{
		ListingID:  line.ListingID,
		VendorID:   line.VendorID,
		Title:      line.ListingTitle,
		VendorName: line.VendorName,
		PostalCode: line.PostalCode,
	}
	if listing, err := s.catalog.GetListing(ctx, listingID); err == nil && listing != nil {
		snap.Title = listing.Title
		snap.ImageURL = listing.ImageURL
	}
	if vendor, err := s.catalog.GetVendor(ctx, vendorID); err == nil && vendor != nil {
		snap.VendorName = vendor.DisplayName
	}
	return snap
}

func (s *Service) sendConfirmations(ctx context.Context, bookings []*domain.Booking, customer domain.CustomerSnapshotData, lines []checkoutdomain.LineSnapshot) {
	if customer.Email == "" {
		return
	}
	for i, b := range bookings {
		data := map[string]interface{}{
			"customer_name": customer.Name,
			"listing_title": lines[i].ListingTitle,
			"package_name":  lines[i].Name,
			"vendor_name":   lines[i].VendorName,
			"booking_id":    b.ID.String(),
			"event_date":    b.EventDate,
			"event_time":    b.EventTime,
			"amount":        formatAmount(b.AmountPaid),
			"currency":      b.Currency,
		}
		if err := s.email.SendTemplate(ctx, []string{customer.Email}, "booking_confirmed", data); err != nil {
			s.log.Warn("booking confirmation email failed",
				zap.String("booking_id", b.ID.String()),
				zap.Error(err),
			)
		}
	}
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*domain.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, domain.ErrBookingNotFound
	}
	return booking, nil
}

func (s *Service) ListForCustomer(ctx context.Context, req domain.ListRequest) ([]*domain.Booking, *pagination.PageInfo, error) {
	limit := req.Pagination.PageSize
	if limit <= 0 {
		limit = 10
	}

	var cursor *pagination.Cursor
	if req.Pagination.PageToken != "" {
		decoded, err := pagination.DecodeCursor(req.Pagination.PageToken)
		if err != nil {
			return nil, nil, err
		}
		cursor = decoded
	}

	bookings, err := s.repo.FindByCustomer(ctx, req.CustomerID, cursor, limit+1)
	if err != nil {
		return nil, nil, err
	}

	pageInfo := pagination.BuildCursorPageInfo(bookings, limit, func(b *domain.Booking) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{ID: b.ID.String()})
		if err != nil {
			return ""
		}
		return token
	})
	if len(bookings) > limit {
		bookings = bookings[:limit]
	}
	return bookings, pageInfo, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id snowflake.ID, next domain.Status) (*domain.Booking, error) {
	if !next.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	booking, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !booking.Status.CanTransition(next) {
		return nil, domain.ErrInvalidTransition
	}
	if _, err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		return nil, err
	}
	booking.Status = next
	return booking, nil
}

func taxRatesByPostalCode(breakdown datatypes.JSON) map[string]float64 {
	rates := make(map[string]float64)
	if len(breakdown) == 0 {
		return rates
	}
	var lines []taxdomain.Line
	if err := json.Unmarshal(breakdown, &lines); err != nil {
		return rates
	}
	for _, line := range lines {
		rates[line.PostalCode] = line.Rate
	}
	return rates
}

func formatAmount(minor int64) string {
	return fmt.Sprintf("%d.%02d", minor/100, minor%100)
}
