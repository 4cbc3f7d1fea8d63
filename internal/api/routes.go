// routes.go - Route registration helpers
// This file provides a clean way to register all API routes
package api

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/csv-analyst/backend/internal/store"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Store    store.TableStore
	Profiler Profiler
	Router   QueryRouter
	Version  string
	Log      *logrus.Logger
}

// Handlers holds all handler instances
type Handlers struct {
	Health   HealthHandler
	Analysis AnalysisHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(deps.Version),
		Analysis: NewAnalysisHandler(deps.Store, deps.Profiler, deps.Router, deps.Log),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	// Service identification and health
	e.GET("/", handlers.Health.HandleRoot)
	e.GET("/api/health", handlers.Health.HandleHealth)

	// Dataset analysis routes
	api := e.Group("/api")
	api.POST("/initial-analysis", handlers.Analysis.HandleInitialAnalysis)
	api.POST("/chat-query", handlers.Analysis.HandleChatQuery)
	api.DELETE("/cleanup/:sessionId", handlers.Analysis.HandleCleanup)
}

// SetupMiddleware configures common middleware
func SetupMiddleware(e *echo.Echo, allowOrigins []string, bodyLimit string) {
	e.HTTPErrorHandler = ErrorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/api/health"
		},
	}))

	if len(allowOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: allowOrigins,
			AllowMethods: []string{echo.GET, echo.POST, echo.DELETE, echo.OPTIONS},
		}))
	}

	if bodyLimit != "" {
		e.Use(middleware.BodyLimit(bodyLimit))
	}
}
