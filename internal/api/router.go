package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/portfoliotracker/backoffice-api/internal/api/handler"
	"github.com/portfoliotracker/backoffice-api/internal/api/middleware"
	"github.com/portfoliotracker/backoffice-api/internal/core/service"
	"github.com/portfoliotracker/backoffice-api/internal/infrastructure/config"
	mongorepo "github.com/portfoliotracker/backoffice-api/internal/infrastructure/db/mongo"
	redisinfra "github.com/portfoliotracker/backoffice-api/internal/infrastructure/db/redis"
	"github.com/portfoliotracker/backoffice-api/internal/infrastructure/http/handlers"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("portfolio"))

	// --- Dependencies ---
	userRepo := mongorepo.NewUserRepository(db)
	customerRepo := mongorepo.NewCustomerRepository(db)
	portfolioRepo := mongorepo.NewPortfolioRepository(db)
	replayGuard := redisinfra.NewReplayGuard(rdb)

	authService := service.NewAuthService(
		userRepo, customerRepo,
		cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience, cfg.JWT.TokenTTL,
		log,
	)
	customerService := service.NewCustomerService(customerRepo, userRepo, log)
	portfolioService := service.NewPortfolioService(portfolioRepo, customerRepo, replayGuard, log)

	authHandler := handler.NewAuthHandler(authService)
	customerHandler := handler.NewCustomerHandler(customerService)
	portfolioHandler := handler.NewPortfolioHandler(portfolioService)
	backofficeHandler := handler.NewBackofficeHandler(portfolioService)

	authn := middleware.Auth(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience)

	// --- Auth routes ---
	e.POST("/api/auth/login", authHandler.Login)

	// --- Customer routes ---
	// Signup is public; everything else carries a token. Ownership of a
	// specific record is enforced in the service layer, so the route guard
	// only requires the floor role.
	e.POST("/api/customers", customerHandler.Register)

	customers := e.Group("/api/customers", authn)
	customers.GET("", customerHandler.List, middleware.RequireAdmin())
	customers.GET("/:id", customerHandler.Get, middleware.RequireCustomer())
	customers.PUT("/:id", customerHandler.Update, middleware.RequireCustomer())
	customers.PATCH("/:id", customerHandler.Patch, middleware.RequireCustomer())

	// --- Portfolio routes ---
	portfolios := customers.Group("/:customerId/portfolios")
	portfolios.POST("", portfolioHandler.Create, middleware.RequireAdmin())
	portfolios.GET("", portfolioHandler.List, middleware.RequireCustomer())
	portfolios.GET("/:portfolioId", portfolioHandler.Get, middleware.RequireCustomer())
	portfolios.PATCH("/:portfolioId", portfolioHandler.Patch, middleware.RequireCustomer())
	portfolios.PUT("/:portfolioId/balances/:currency", portfolioHandler.SetCashBalance, middleware.RequireAdmin())
	portfolios.GET("/:portfolioId/balances", portfolioHandler.ListCashBalances, middleware.RequireCustomer())

	// --- Back-office routes ---
	bo := e.Group("/bo/api", authn, middleware.RequireAdmin())
	bo.GET("/portfolios", backofficeHandler.ListPortfolios)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
