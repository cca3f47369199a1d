package payment

import (
	"github.com/eventlane/eventlane/internal/providers/payment/stripe"
	"go.uber.org/fx"
)

var Module = fx.Module("providers.payment",
	fx.Provide(stripe.New),
)
