package booking

import (
	bookingdomain "github.com/eventlane/eventlane/internal/booking/domain"
	"github.com/eventlane/eventlane/internal/booking/repository"
	"github.com/eventlane/eventlane/internal/booking/service"
	"go.uber.org/fx"
)

var Module = fx.Module("booking.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
	fx.Provide(func(svc bookingdomain.Service) bookingdomain.Materializer { return svc }),
)
