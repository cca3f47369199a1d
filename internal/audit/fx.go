package audit

import (
	"github.com/eventlane/eventlane/internal/audit/repository"
	"github.com/eventlane/eventlane/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
