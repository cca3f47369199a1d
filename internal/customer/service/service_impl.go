package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/eventlane/eventlane/internal/clock"
	"github.com/eventlane/eventlane/internal/customer/domain"
	listingdomain "github.com/eventlane/eventlane/internal/listing/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Repo    domain.Repository
	Catalog listingdomain.Catalog
}

type Service struct {
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    domain.Repository
	catalog listingdomain.Catalog
}

func New(p Params) domain.Service {
	return &Service{
		log:     p.Log.Named("customer.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		catalog: p.Catalog,
	}
}

func (s *Service) GetCustomer(ctx context.Context, id snowflake.ID) (*domain.Customer, error) {
	customer, err := s.repo.FindCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrCustomerNotFound
	}
	return customer, nil
}

func (s *Service) AddLine(ctx context.Context, req domain.AddLineRequest) (*domain.CartLine, error) {
	if !req.PricingKind.Valid() {
		return nil, listingdomain.ErrInvalidPricingKind
	}
	if _, err := s.GetCustomer(ctx, req.CustomerID); err != nil {
		return nil, err
	}

	pricing, err := s.catalog.ResolvePricing(ctx, listingdomain.ResolvePricingRequest{
		ListingID:  req.ListingID,
		CustomerID: req.CustomerID,
		Kind:       req.PricingKind,
		OptionID:   req.OptionID,
	})
	if err != nil {
		return nil, err
	}

	attendees := req.Attendees
	if attendees < 1 {
		attendees = 1
	}

	now := s.clock.Now()
	line := &domain.CartLine{
		ID:          s.genID.Generate(),
		CustomerID:  req.CustomerID,
		ListingID:   req.ListingID,
		PricingKind: pricing.Kind,
		OptionID:    pricing.OptionID,
		Name:        pricing.Name,
		EventDate:   req.EventDate,
		EventTime:   req.EventTime,
		Attendees:   attendees,
		PriceAmount: pricing.PriceAmount,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.InsertLine(ctx, line); err != nil {
		return nil, err
	}

	s.log.Info("cart line added",
		zap.Int64("customer_id", int64(line.CustomerID)),
		zap.Int64("listing_id", int64(line.ListingID)),
		zap.String("pricing_kind", string(line.PricingKind)),
		zap.Int64("price_amount", line.PriceAmount),
	)
	return line, nil
}

func (s *Service) ListLines(ctx context.Context, customerID snowflake.ID) ([]*domain.CartLine, error) {
	return s.repo.FindLines(ctx, customerID)
}

func (s *Service) RemoveLine(ctx context.Context, customerID, lineID snowflake.ID) error {
	affected, err := s.repo.DeleteLine(ctx, customerID, lineID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrCartLineNotFound
	}
	return nil
}

func (s *Service) RemoveLines(ctx context.Context, customerID snowflake.ID, lineIDs []snowflake.ID) error {
	_, err := s.repo.DeleteLines(ctx, customerID, lineIDs)
	return err
}
