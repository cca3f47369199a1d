package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/eventlane/eventlane/internal/audit"
	"github.com/eventlane/eventlane/internal/booking"
	bookingdomain "github.com/eventlane/eventlane/internal/booking/domain"
	"github.com/eventlane/eventlane/internal/checkout"
	checkoutdomain "github.com/eventlane/eventlane/internal/checkout/domain"
	"github.com/eventlane/eventlane/internal/clock"
	"github.com/eventlane/eventlane/internal/config"
	"github.com/eventlane/eventlane/internal/customer"
	customerdomain "github.com/eventlane/eventlane/internal/customer/domain"
	"github.com/eventlane/eventlane/internal/listing"
	"github.com/eventlane/eventlane/internal/observability"
	obsmiddleware "github.com/eventlane/eventlane/internal/observability/logger"
	obsmetrics "github.com/eventlane/eventlane/internal/observability/metrics"
	obstracing "github.com/eventlane/eventlane/internal/observability/tracing"
	"github.com/eventlane/eventlane/internal/payment"
	paymentdomain "github.com/eventlane/eventlane/internal/payment/domain"
	"github.com/eventlane/eventlane/internal/providers/email"
	paymentprovider "github.com/eventlane/eventlane/internal/providers/payment"
	"github.com/eventlane/eventlane/internal/ratelimit"
	"github.com/eventlane/eventlane/internal/tax"
	taxdomain "github.com/eventlane/eventlane/internal/tax/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	config.Module,
	clock.Module,
	fx.Provide(registerGin),
	audit.Module,
	listing.Module,
	customer.Module,
	tax.Module,
	email.Module,
	paymentprovider.Module,
	checkout.Module,
	booking.Module,
	payment.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(log, obsmiddleware.MiddlewareConfig{
		Debug: obsCfg.Debug(),
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger, obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(log, obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	log         *zap.Logger
	genID       *snowflake.Node
	customerSvc customerdomain.Service
	checkoutSvc checkoutdomain.Service
	bookingSvc  bookingdomain.Service
	taxSvc      taxdomain.Service
	webhookSvc  paymentdomain.Service
	bucket      *ratelimit.TokenBucket
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	Log         *zap.Logger
	GenID       *snowflake.Node
	CustomerSvc customerdomain.Service
	CheckoutSvc checkoutdomain.Service
	BookingSvc  bookingdomain.Service
	TaxSvc      taxdomain.Service
	WebhookSvc  paymentdomain.Service
	Bucket      *ratelimit.TokenBucket `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		log:         p.Log.Named("http.server"),
		genID:       p.GenID,
		customerSvc: p.CustomerSvc,
		checkoutSvc: p.CheckoutSvc,
		bookingSvc:  p.BookingSvc,
		taxSvc:      p.TaxSvc,
		webhookSvc:  p.WebhookSvc,
		bucket:      p.Bucket,
	}

	svc.registerPaymentRoutes()
	svc.registerCartRoutes()
	svc.registerBookingRoutes()
	svc.registerTaxRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerPaymentRoutes() {
	payments := s.engine.Group("/payments")

	payments.POST("/checkout",
		s.CustomerAuthRequired(),
		ratelimit.GinMiddleware(s.bucket, s.log, "checkout", 1, 5),
		s.CreateCheckoutSession,
	)
	payments.POST("/webhook", s.HandlePaymentWebhook)
}

func (s *Server) registerCartRoutes() {
	cart := s.engine.Group("/cart", s.CustomerAuthRequired())

	cart.GET("", s.ListCartLines)
	cart.POST("", s.AddCartLine)
	cart.DELETE("/:id", s.RemoveCartLine)
}

func (s *Server) registerBookingRoutes() {
	bookings := s.engine.Group("/bookings", s.CustomerAuthRequired())

	bookings.GET("", s.ListBookings)
	bookings.GET("/:id", s.GetBookingByID)
	bookings.PATCH("/:id/status", s.UpdateBookingStatus)
}

func (s *Server) registerTaxRoutes() {
	s.engine.GET("/tax/calculate",
		ratelimit.GinMiddleware(s.bucket, s.log, "tax", 5, 20),
		s.CalculateTax,
	)
}
