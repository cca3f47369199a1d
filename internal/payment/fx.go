package payment

import (
	"github.com/eventlane/eventlane/internal/config"
	stripeadapter "github.com/eventlane/eventlane/internal/payment/adapters/stripe"
	paymentdomain "github.com/eventlane/eventlane/internal/payment/domain"
	"github.com/eventlane/eventlane/internal/payment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payment.webhook",
	fx.Provide(func(cfg config.Config) (paymentdomain.PaymentAdapter, error) {
		return stripeadapter.NewAdapter(cfg.StripeWebhookSecret)
	}),
	fx.Provide(service.New),
)
