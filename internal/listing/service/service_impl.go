package service

import (
	"context"

	"github.com/eventlane/eventlane/internal/listing/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Catalog {
	return &Service{
		log:  p.Log.Named("listing.service"),
		repo: p.Repo,
	}
}

func (s *Service) GetActiveListing(ctx context.Context, id snowflake.ID) (*domain.Listing, error) {
	listing, err := s.repo.FindListing(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing == nil || !listing.IsActive {
		return nil, domain.ErrListingNotFound
	}
	return listing, nil
}

func (s *Service) GetListing(ctx context.Context, id snowflake.ID) (*domain.Listing, error) {
	return s.repo.FindListing(ctx, id)
}

func (s *Service) GetVendor(ctx context.Context, id snowflake.ID) (*domain.Vendor, error) {
	return s.repo.FindVendor(ctx, id)
}

func (s *Service) ResolvePricing(ctx context.Context, req domain.ResolvePricingRequest) (*domain.ResolvedPricing, error) {
	listing, err := s.GetActiveListing(ctx, req.ListingID)
	if err != nil {
		return nil, err
	}

	switch req.Kind {
	case domain.PricingKindPackage:
		if req.OptionID == nil {
			return nil, domain.ErrPricingOptionNotFound
		}
		pkg, err := s.repo.FindPackage(ctx, listing.ID, *req.OptionID)
		if err != nil {
			return nil, err
		}
		if pkg == nil || !pkg.IsActive {
			return nil, domain.ErrPricingOptionNotFound
		}
		return &domain.ResolvedPricing{
			Kind:        domain.PricingKindPackage,
			OptionID:    &pkg.ID,
			PriceAmount: pkg.PriceAmount,
			Name:        pkg.Name,
			Description: pkg.Description,
		}, nil

	case domain.PricingKindCustom:
		if req.OptionID == nil {
			return nil, domain.ErrPricingOptionNotFound
		}
		pkg, err := s.repo.FindCustomPackage(ctx, listing.ID, req.CustomerID, *req.OptionID)
		if err != nil {
			return nil, err
		}
		if pkg == nil || !pkg.IsActive {
			return nil, domain.ErrPricingOptionNotFound
		}
		return &domain.ResolvedPricing{
			Kind:        domain.PricingKindCustom,
			OptionID:    &pkg.ID,
			PriceAmount: pkg.PriceAmount,
			Name:        pkg.Name,
			Description: pkg.Description,
		}, nil

	case domain.PricingKindFlat:
		if !listing.FlatPriceActive || listing.FlatPriceAmount == nil {
			return nil, domain.ErrPricingOptionNotFound
		}
		return &domain.ResolvedPricing{
			Kind:        domain.PricingKindFlat,
			PriceAmount: *listing.FlatPriceAmount,
			Name:        listing.Title,
			Description: listing.Description,
		}, nil

	default:
		return nil, domain.ErrInvalidPricingKind
	}
}
