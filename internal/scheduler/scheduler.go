package scheduler

import (
	"context"
	"errors"
	"time"

	checkoutdomain "github.com/eventlane/eventlane/internal/checkout/domain"
	"github.com/eventlane/eventlane/internal/clock"
	"github.com/eventlane/eventlane/internal/config"
	providerdomain "github.com/eventlane/eventlane/internal/providers/payment/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const sweepBatchSize = 100

type Params struct {
	fx.In

	Log         *zap.Logger
	Config      config.Config
	Clock       clock.Clock
	CheckoutSvc checkoutdomain.Service
	Repo        checkoutdomain.Repository
	Processor   providerdomain.Processor
}

// Scheduler reconciles checkout sessions whose webhook never arrived. It
// asks the provider for the real outcome of old pending sessions and settles
// them through the same guarded transitions the webhook path uses.
type Scheduler struct {
	log         *zap.Logger
	clock       clock.Clock
	checkoutSvc checkoutdomain.Service
	repo        checkoutdomain.Repository
	processor   providerdomain.Processor
	interval    time.Duration
	minAge      time.Duration
}

func New(p Params) *Scheduler {
	return &Scheduler{
		log:         p.Log.Named("scheduler"),
		clock:       p.Clock,
		checkoutSvc: p.CheckoutSvc,
		repo:        p.Repo,
		processor:   p.Processor,
		interval:    time.Duration(p.Config.ReconcileIntervalMinutes) * time.Minute,
		minAge:      time.Duration(p.Config.ReconcileMinAgeMinutes) * time.Minute,
	}
}

func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.ReconcileStaleSessions(ctx); err != nil {
				s.log.Error("reconciliation sweep failed", zap.Error(err))
			}
		}
	}
}

// ReconcileStaleSessions settles pending sessions older than the configured
// minimum age. Per-session failures are logged and skipped so one bad
// session cannot wedge the sweep.
func (s *Scheduler) ReconcileStaleSessions(ctx context.Context) error {
	cutoff := s.clock.Now().Add(-s.minAge)
	sessions, err := s.repo.ListStalePending(ctx, cutoff, sweepBatchSize)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		return nil
	}

	s.log.Info("reconciling stale pending sessions", zap.Int("count", len(sessions)))
	for _, session := range sessions {
		if err := s.reconcileOne(ctx, session); err != nil {
			if errors.Is(err, providerdomain.ErrMissingCredentials) {
				return err
			}
			s.log.Warn("failed to reconcile session",
				zap.String("provider_session_id", session.ProviderSessionID),
				zap.Error(err),
			)
		}
	}
	return nil
}

func (s *Scheduler) reconcileOne(ctx context.Context, session *checkoutdomain.CheckoutSession) error {
	providerSess, err := s.processor.GetSession(ctx, session.ProviderSessionID)
	if err != nil {
		if errors.Is(err, providerdomain.ErrSessionNotFound) {
			// The provider no longer knows the session; it can never complete.
			return s.checkoutSvc.Expire(ctx, session.ProviderSessionID)
		}
		return err
	}

	switch providerSess.State {
	case providerdomain.SessionStateComplete:
		return s.checkoutSvc.Complete(ctx, session.ProviderSessionID, providerSess.PaymentIntentID)
	case providerdomain.SessionStateExpired:
		return s.checkoutSvc.Expire(ctx, session.ProviderSessionID)
	default:
		// Still open at the provider; leave it for the next sweep.
		return nil
	}
}
