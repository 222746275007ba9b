package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/inverland/estate-crm/docs"
	"github.com/inverland/estate-crm/internal/api/handler"
	"github.com/inverland/estate-crm/internal/api/middleware"
	"github.com/inverland/estate-crm/internal/core/domain"
)

// RouterDeps carries everything the router needs; construction of services
// and handlers happens in main so the wiring stays in one place.
type RouterDeps struct {
	JWTSecret  string
	Log        zerolog.Logger
	Auth       *handler.AuthHandler
	Users      *handler.UserHandler
	Properties *handler.PropertyHandler
	Clients    *handler.ClientHandler
	Campaigns  *handler.CampaignHandler
	Health     *handler.HealthHandler
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps RouterDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("inverland"))

	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Health probes (no auth required) ---
	e.GET("/health", deps.Health.Liveness)
	e.GET("/health/ready", deps.Health.Readiness)

	// --- Public catalog ---
	e.GET("/properties", deps.Properties.PublicList)
	e.GET("/properties/:id", deps.Properties.PublicGet)

	// --- Auth routes ---
	auth := middleware.Auth(deps.JWTSecret)
	e.POST("/auth/login", deps.Auth.Login)
	e.POST("/auth/register", deps.Auth.Register)
	e.POST("/auth/logout", deps.Auth.Logout, auth)

	// --- Back office ---
	v1 := e.Group("/v1", auth)

	users := v1.Group("/users", middleware.RBAC(domain.RoleAdmin))
	users.GET("", deps.Users.List)
	users.POST("", deps.Users.Create)
	users.PUT("/:id", deps.Users.Update)
	users.DELETE("/:id", deps.Users.Delete)
	users.POST("/deduplicate", deps.Users.Deduplicate)

	crm := middleware.RBAC(domain.RoleAdmin, domain.RoleAgent)

	properties := v1.Group("/properties", crm)
	properties.GET("", deps.Properties.List)
	properties.POST("", deps.Properties.Create)
	properties.GET("/:id", deps.Properties.Get)
	properties.PUT("/:id", deps.Properties.Update)
	properties.DELETE("/:id", deps.Properties.Delete)
	properties.POST("/assign", deps.Properties.AssignToAgent)
	properties.PUT("/:id/client", deps.Properties.AssignClient)
	properties.POST("/:id/activities", deps.Properties.AddActivity)

	clients := v1.Group("/clients", crm)
	clients.GET("", deps.Clients.List)
	clients.POST("", deps.Clients.Create)
	clients.GET("/:id", deps.Clients.Get)
	clients.PUT("/:id", deps.Clients.Update)
	clients.DELETE("/:id", deps.Clients.Delete)
	clients.POST("/:id/activities", deps.Clients.AddActivity)

	campaigns := v1.Group("/campaigns", crm)
	campaigns.GET("", deps.Campaigns.List)
	campaigns.POST("", deps.Campaigns.Create)
	campaigns.GET("/:id", deps.Campaigns.Get)
	campaigns.PUT("/:id", deps.Campaigns.Update)
	campaigns.DELETE("/:id", deps.Campaigns.Delete)
	campaigns.POST("/:id/send", deps.Campaigns.Send)

	return e
}
