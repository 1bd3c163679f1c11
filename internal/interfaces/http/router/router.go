// Package router assembles the gin engine of the report API.
package router

import (
	"net/http"

	"github.com/erp/ledgerreport/internal/infrastructure/auth"
	"github.com/erp/ledgerreport/internal/infrastructure/config"
	"github.com/erp/ledgerreport/internal/infrastructure/logger"
	"github.com/erp/ledgerreport/internal/infrastructure/telemetry"
	"github.com/erp/ledgerreport/internal/interfaces/http/dto"
	"github.com/erp/ledgerreport/internal/interfaces/http/handler"
	"github.com/erp/ledgerreport/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a RouteRegistrar to be registered later
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup registers all routes under /api/<version>
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// DomainGroup is a prefixed set of read-only routes sharing middleware
type DomainGroup struct {
	name       string
	prefix     string
	routes     []routeDefinition
	middleware []gin.HandlerFunc
}

type routeDefinition struct {
	path     string
	handlers []gin.HandlerFunc
}

// NewDomainGroup creates a new domain-specific route group
func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{name: name, prefix: prefix}
}

// Use adds middleware to this group
func (dg *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	dg.middleware = append(dg.middleware, middleware...)
	return dg
}

// GET registers a GET route
func (dg *DomainGroup) GET(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, routeDefinition{path: path, handlers: handlers})
	return dg
}

// RegisterRoutes implements RouteRegistrar interface
func (dg *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(dg.prefix)
	if len(dg.middleware) > 0 {
		group.Use(dg.middleware...)
	}
	for _, route := range dg.routes {
		group.GET(route.path, route.handlers...)
	}
}

// Name returns the group name
func (dg *DomainGroup) Name() string {
	return dg.name
}

// Prefix returns the group prefix
func (dg *DomainGroup) Prefix() string {
	return dg.prefix
}

// Dependencies are the collaborators of the engine
type Dependencies struct {
	Config *config.Config
	Logger *zap.Logger
	// JWT validates bearer tokens; nil leaves the reports open
	JWT           *auth.JWTService
	MeterProvider *telemetry.MeterProvider
	Reports       *handler.ReportHandler
	System        *handler.SystemHandler
}

// NewEngine builds the gin engine: global middleware, /health and the
// report routes under /api/v1/reports.
func NewEngine(deps Dependencies) (*gin.Engine, error) {
	cfg := deps.Config
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, err
	}

	tracingCfg := middleware.DefaultTracingConfig()
	tracingCfg.Enabled = cfg.Telemetry.Enabled
	if cfg.Telemetry.ServiceName != "" {
		tracingCfg.ServiceName = cfg.Telemetry.ServiceName
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		middleware.TracingWithConfig(tracingCfg),
		middleware.SpanErrorMarker(),
		logger.GinMiddleware(log),
		middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
			MeterProvider: deps.MeterProvider,
			Enabled:       cfg.Telemetry.MetricsEnabled,
		}),
		middleware.Secure(),
		middleware.CORSWithConfig(corsCfg),
	)

	engine.GET("/health", deps.System.Health)
	engine.NoRoute(func(c *gin.Context) {
		deps.System.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, "Route not found")
	})

	reports := NewDomainGroup("reports", "/reports")
	if deps.JWT != nil {
		reports.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
			JWTService: deps.JWT,
			Logger:     log,
		}), middleware.RequireCompanyAccess())
	}
	reports.Use(
		middleware.TracingAttributeInjector(),
		middleware.Profiling(cfg.Telemetry.ProfilingEnabled),
	)
	reports.
		GET("/account-cost-center", deps.Reports.AccountByCostCenter).
		GET("/cost-center-account", deps.Reports.CostCenterByAccount).
		GET("/project-balance", deps.Reports.ProjectBalance)

	system := NewDomainGroup("system", "/system").GET("/info", deps.System.GetSystemInfo)

	NewRouter(engine).Register(reports).Register(system).Setup()
	return engine, nil
}
