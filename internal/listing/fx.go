package listing

import (
	"github.com/eventlane/eventlane/internal/listing/repository"
	"github.com/eventlane/eventlane/internal/listing/service"
	"go.uber.org/fx"
)

var Module = fx.Module("listing.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
