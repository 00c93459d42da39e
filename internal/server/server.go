package server

import (
	"context"
	"fmt"

	"github.com/dmhouse/wallet-api/internal/config"
	"github.com/dmhouse/wallet-api/internal/handler"
	"github.com/dmhouse/wallet-api/internal/middleware"
	"github.com/dmhouse/wallet-api/internal/service"
	"github.com/dmhouse/wallet-api/pkg/logger"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

type Server struct {
	echo                 *echo.Echo
	cfg                  *config.Config
	logger               *logger.Logger
	authService          service.AuthService
	authHandler          *handler.AuthHandler
	activityHandler      *handler.ActivityHandler
	paymentMethodHandler *handler.PaymentMethodHandler
	transactionHandler   *handler.TransactionHandler
	healthHandler        *handler.HealthHandler
}

func New(
	cfg *config.Config,
	log *logger.Logger,
	authService service.AuthService,
	authHandler *handler.AuthHandler,
	activityHandler *handler.ActivityHandler,
	paymentMethodHandler *handler.PaymentMethodHandler,
	transactionHandler *handler.TransactionHandler,
	healthHandler *handler.HealthHandler,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	return &Server{
		echo:                 e,
		cfg:                  cfg,
		logger:               log,
		authService:          authService,
		authHandler:          authHandler,
		activityHandler:      activityHandler,
		paymentMethodHandler: paymentMethodHandler,
		transactionHandler:   transactionHandler,
		healthHandler:        healthHandler,
	}
}

func (s *Server) Start() error {
	s.setupMiddleware()
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%s", s.cfg.Server.Host, s.cfg.Server.Port)
	s.logger.Info(context.Background(), "Starting HTTP server",
		"address", addr,
	)

	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "Shutting down HTTP server")
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupMiddleware() {
	s.echo.Use(echoMiddleware.Recover())
	s.echo.Use(echoMiddleware.CORS())
	s.echo.Use(middleware.RequestID())
	s.echo.Use(middleware.Logging(s.logger))
}

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthHandler.Check)

	s.echo.POST("/auth/register", s.authHandler.Register)
	s.echo.POST("/auth/login", s.authHandler.Login)

	api := s.echo.Group("/api", middleware.Auth(s.authService, s.logger))

	api.GET("/profile", s.authHandler.GetProfile)
	api.PATCH("/profile/alias", s.authHandler.UpdateAlias)

	api.GET("/activity", s.activityHandler.List)
	api.GET("/activity/:id", s.activityHandler.Get)

	api.GET("/cards", s.paymentMethodHandler.List)
	api.POST("/cards", s.paymentMethodHandler.Add)
	api.DELETE("/cards/:id", s.paymentMethodHandler.Remove)
	api.PUT("/cards/:id/default", s.paymentMethodHandler.SetDefault)

	api.GET("/services", s.transactionHandler.ListServices)
	api.POST("/deposits", s.transactionHandler.Deposit)
	api.POST("/payments", s.transactionHandler.PayService)
	api.POST("/transfers", s.transactionHandler.Transfer)
}

// Handler exposes the configured echo instance for tests.
func (s *Server) Handler() *echo.Echo {
	s.setupMiddleware()
	s.setupRoutes()
	return s.echo
}
