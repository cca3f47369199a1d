package checkout

import (
	"github.com/eventlane/eventlane/internal/checkout/repository"
	"github.com/eventlane/eventlane/internal/checkout/service"
	"go.uber.org/fx"
)

var Module = fx.Module("checkout.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
