package customer

import (
	"github.com/eventlane/eventlane/internal/customer/repository"
	"github.com/eventlane/eventlane/internal/customer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("customer.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
