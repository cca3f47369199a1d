package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/eventlane/eventlane/internal/audit/domain"
	bookingdomain "github.com/eventlane/eventlane/internal/booking/domain"
	"github.com/eventlane/eventlane/internal/checkout/domain"
	"github.com/eventlane/eventlane/internal/clock"
	"github.com/eventlane/eventlane/internal/config"
	customerdomain "github.com/eventlane/eventlane/internal/customer/domain"
	listingdomain "github.com/eventlane/eventlane/internal/listing/domain"
	"github.com/eventlane/eventlane/internal/observability/metrics"
	providerdomain "github.com/eventlane/eventlane/internal/providers/payment/domain"
	taxdomain "github.com/eventlane/eventlane/internal/tax/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type Params struct {
	fx.In

	Log          *zap.Logger
	GenID        *snowflake.Node
	Clock        clock.Clock
	Config       config.Config
	Repo         domain.Repository
	Customers    customerdomain.Service
	Catalog      listingdomain.Catalog
	Tax          taxdomain.Service
	Processor    providerdomain.Processor
	Materializer bookingdomain.Materializer
	Audit        auditdomain.Service
	Metrics      *metrics.Metrics `optional:"true"`
}

type Service struct {
	log          *zap.Logger
	genID        *snowflake.Node
	clock        clock.Clock
	cfg          config.Config
	repo         domain.Repository
	customers    customerdomain.Service
	builder      *snapshotBuilder
	tax          taxdomain.Service
	processor    providerdomain.Processor
	materializer bookingdomain.Materializer
	audit        auditdomain.Service
	metrics      *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		log:          p.Log.Named("checkout.service"),
		genID:        p.GenID,
		clock:        p.Clock,
		cfg:          p.Config,
		repo:         p.Repo,
		customers:    p.Customers,
		builder:      &snapshotBuilder{catalog: p.Catalog},
		tax:          p.Tax,
		processor:    p.Processor,
		materializer: p.Materializer,
		audit:        p.Audit,
		metrics:      p.Metrics,
	}
}

func (s *Service) CreateSession(ctx context.Context, req domain.CreateSessionRequest) (*domain.CreateSessionResponse, error) {
	customer, err := s.customers.GetCustomer(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	lines, err := s.customers.ListLines(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	snap, err := s.builder.build(ctx, lines)
	if err != nil {
		return nil, err
	}

	taxLines, taxTotal, err := s.resolveTax(ctx, req, snap)
	if err != nil {
		return nil, err
	}
	total := snap.Subtotal + taxTotal

	items := make([]providerdomain.LineItem, 0, len(snap.Lines)+1)
	for _, ls := range snap.Lines {
		items = append(items, providerdomain.LineItem{
			Name:        ls.Name,
			Description: fmt.Sprintf("%s by %s", ls.ListingTitle, ls.VendorName),
			Amount:      ls.PriceAmount,
			Quantity:    1,
		})
	}
	if taxTotal > 0 {
		items = append(items, providerdomain.LineItem{
			Name:     "Sales tax",
			Amount:   taxTotal,
			Quantity: 1,
		})
	}

	id := s.genID.Generate()
	providerSess, err := s.processor.CreateSession(ctx, providerdomain.CreateSessionRequest{
		ReferenceID:   id.String(),
		Currency:      s.cfg.Currency,
		CustomerEmail: customer.Email,
		LineItems:     items,
		Metadata:      buildSessionMetadata(customer.ID.String(), taxTotal, taxLines),
		SuccessURL:    s.cfg.CheckoutSuccessURL,
		CancelURL:     s.cfg.CheckoutCancelURL,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProcessorUnavailable, err)
	}

	snapshotJSON, err := json.Marshal(snap.Lines)
	if err != nil {
		return nil, err
	}
	breakdownJSON, err := json.Marshal(taxLines)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	session := &domain.CheckoutSession{
		ID:                id,
		CustomerID:        customer.ID,
		ProviderSessionID: providerSess.ID,
		CheckoutURL:       providerSess.URL,
		Currency:          s.cfg.Currency,
		Subtotal:          snap.Subtotal,
		TaxTotal:          taxTotal,
		Total:             total,
		TaxBreakdown:      datatypes.JSON(breakdownJSON),
		CartSnapshot:      datatypes.JSON(snapshotJSON),
		Status:            domain.StatusPending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.repo.Insert(ctx, session); err != nil {
		// The provider session exists with no local record. The sweep cannot
		// find it, so surface it loudly for manual reconciliation.
		s.log.Error("checkout session persisted at provider but not locally",
			zap.String("provider_session_id", providerSess.ID),
			zap.Int64("customer_id", int64(customer.ID)),
			zap.Error(err),
		)
		targetID := providerSess.ID
		_ = s.audit.AuditLog(ctx, "checkout.session.orphaned", "checkout_session", &targetID, map[string]any{
			"customer_id": customer.ID.String(),
			"total":       total,
		})
		return nil, err
	}

	s.metrics.RecordSessionCreated()
	targetID := session.ID.String()
	_ = s.audit.AuditLog(ctx, "checkout.session.created", "checkout_session", &targetID, map[string]any{
		"customer_id":         customer.ID.String(),
		"provider_session_id": providerSess.ID,
		"subtotal":            snap.Subtotal,
		"tax_total":           taxTotal,
		"total":               total,
	})
	s.log.Info("checkout session created",
		zap.String("session_id", targetID),
		zap.String("provider_session_id", providerSess.ID),
		zap.Int64("total", total),
	)

	return &domain.CreateSessionResponse{
		Session:      session,
		CheckoutURL:  providerSess.URL,
		TaxBreakdown: taxLines,
	}, nil
}

// resolveTax always computes the charged tax from the snapshot lines
// grouped by listing postal code. A caller-precomputed breakdown is kept
// for display only, and only when its total agrees with the computed one.
func (s *Service) resolveTax(ctx context.Context, req domain.CreateSessionRequest, snap *CartSnapshot) ([]taxdomain.Line, int64, error) {
	lines, total, err := s.tax.ComputeBreakdown(ctx, snap.Groups)
	if err != nil {
		return nil, 0, err
	}
	if len(req.ClientTaxBreakdown) > 0 {
		clientTotal := int64(0)
		for _, line := range req.ClientTaxBreakdown {
			clientTotal += line.TaxAmount
		}
		if req.ClientTaxTotal != nil {
			clientTotal = *req.ClientTaxTotal
		}
		if clientTotal == total {
			lines = req.ClientTaxBreakdown
		} else {
			s.log.Warn("client tax breakdown disagrees with computed total",
				zap.Int64("client_total", clientTotal),
				zap.Int64("computed_total", total),
			)
		}
	}
	return lines, total, nil
}

func (s *Service) Complete(ctx context.Context, providerSessionID, confirmationID string) error {
	now := s.clock.Now()
	won, err := s.repo.MarkCompleted(ctx, providerSessionID, confirmationID, now)
	if err != nil {
		return err
	}
	if !won {
		session, err := s.repo.FindByProviderSessionID(ctx, providerSessionID)
		if err != nil {
			return err
		}
		switch {
		case session == nil:
			s.log.Warn("completion event for unknown session",
				zap.String("provider_session_id", providerSessionID))
		case session.Status == domain.StatusCompleted:
			s.log.Debug("duplicate completion event ignored",
				zap.String("provider_session_id", providerSessionID))
		default:
			s.log.Warn("completion event for settled session ignored",
				zap.String("provider_session_id", providerSessionID),
				zap.String("status", string(session.Status)))
		}
		return nil
	}

	session, err := s.repo.FindByProviderSessionID(ctx, providerSessionID)
	if err != nil {
		return err
	}
	if session == nil {
		return domain.ErrSessionNotFound
	}

	bookings, err := s.materializer.Materialize(ctx, session)
	if err != nil {
		s.log.Error("booking materialization failed",
			zap.String("provider_session_id", providerSessionID),
			zap.Error(err),
		)
		return err
	}

	s.metrics.RecordBookingsMaterialized(len(bookings))
	targetID := session.ID.String()
	_ = s.audit.AuditLog(ctx, "checkout.session.completed", "checkout_session", &targetID, map[string]any{
		"provider_session_id":     providerSessionID,
		"payment_confirmation_id": confirmationID,
		"bookings":                len(bookings),
	})
	s.log.Info("checkout session completed",
		zap.String("session_id", targetID),
		zap.String("provider_session_id", providerSessionID),
		zap.Int("bookings", len(bookings)),
	)
	return nil
}

func (s *Service) Expire(ctx context.Context, providerSessionID string) error {
	won, err := s.repo.MarkExpired(ctx, providerSessionID, s.clock.Now())
	if err != nil {
		return err
	}
	if !won {
		s.log.Debug("expiry event ignored for settled or unknown session",
			zap.String("provider_session_id", providerSessionID))
		return nil
	}

	targetID := providerSessionID
	_ = s.audit.AuditLog(ctx, "checkout.session.expired", "checkout_session", &targetID, nil)
	s.log.Info("checkout session expired",
		zap.String("provider_session_id", providerSessionID))
	return nil
}

func (s *Service) GetByProviderSessionID(ctx context.Context, providerSessionID string) (*domain.CheckoutSession, error) {
	session, err := s.repo.FindByProviderSessionID(ctx, providerSessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}
