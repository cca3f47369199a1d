package stripe

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/eventlane/eventlane/internal/config"
	"github.com/eventlane/eventlane/internal/providers/payment/domain"
	stripe "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log    *zap.Logger
	Config config.Config
}

// Processor talks to Stripe's hosted Checkout. The API client is initialized
// lazily so the app can boot without credentials; calls fail with
// ErrMissingCredentials instead.
type Processor struct {
	log *zap.Logger
	key string

	once    sync.Once
	api     *client.API
	initErr error
}

func New(p Params) domain.Processor {
	return &Processor{
		log: p.Log.Named("providers.stripe"),
		key: p.Config.StripeSecretKey,
	}
}

func (p *Processor) client() (*client.API, error) {
	p.once.Do(func() {
		if p.key == "" {
			p.initErr = domain.ErrMissingCredentials
			return
		}
		api := &client.API{}
		api.Init(p.key, nil)
		p.api = api
	})
	return p.api, p.initErr
}

func (p *Processor) CreateSession(ctx context.Context, req domain.CreateSessionRequest) (*domain.Session, error) {
	api, err := p.client()
	if err != nil {
		return nil, err
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		ClientReferenceID: stripe.String(req.ReferenceID),
		SuccessURL:        stripe.String(req.SuccessURL),
		CancelURL:         stripe.String(req.CancelURL),
	}
	params.Context = ctx
	if req.Currency != "" {
		params.Currency = stripe.String(req.Currency)
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	for _, item := range req.LineItems {
		priceData := &stripe.CheckoutSessionLineItemPriceDataParams{
			Currency:   stripe.String(req.Currency),
			UnitAmount: stripe.Int64(item.Amount),
			ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
				Name: stripe.String(item.Name),
			},
		}
		if item.Description != "" {
			priceData.ProductData.Description = stripe.String(item.Description)
		}
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: priceData,
			Quantity:  stripe.Int64(item.Quantity),
		})
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	sess, err := api.CheckoutSessions.New(params)
	if err != nil {
		p.log.Error("stripe checkout session create failed", zap.Error(err))
		return nil, wrapStripeErr(err)
	}
	return fromStripe(sess), nil
}

func (p *Processor) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	api, err := p.client()
	if err != nil {
		return nil, err
	}

	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	sess, err := api.CheckoutSessions.Get(id, params)
	if err != nil {
		return nil, wrapStripeErr(err)
	}
	return fromStripe(sess), nil
}

func fromStripe(sess *stripe.CheckoutSession) *domain.Session {
	out := &domain.Session{
		ID:          sess.ID,
		URL:         sess.URL,
		AmountTotal: sess.AmountTotal,
	}
	switch sess.Status {
	case stripe.CheckoutSessionStatusComplete:
		out.State = domain.SessionStateComplete
	case stripe.CheckoutSessionStatusExpired:
		out.State = domain.SessionStateExpired
	default:
		out.State = domain.SessionStateOpen
	}
	if sess.PaymentIntent != nil {
		out.PaymentIntentID = sess.PaymentIntent.ID
	}
	return out
}

func wrapStripeErr(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		if stripeErr.HTTPStatusCode == 404 {
			return domain.ErrSessionNotFound
		}
	}
	return fmt.Errorf("%w: %v", domain.ErrUnreachable, err)
}
