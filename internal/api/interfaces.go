// interfaces.go - Handler and collaborator interfaces for clean separation
// of concerns and test mocking
package api

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/csv-analyst/backend/internal/models"
	"github.com/csv-analyst/backend/internal/profile"
)

// AnalysisHandler handles dataset upload, chat queries and session cleanup
type AnalysisHandler interface {
	HandleInitialAnalysis(c echo.Context) error
	HandleChatQuery(c echo.Context) error
	HandleCleanup(c echo.Context) error
}

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
	HandleRoot(c echo.Context) error
}

// Profiler produces the initial analysis for an uploaded table
type Profiler interface {
	Analyze(t *models.Table) profile.Analysis
}

// QueryRouter resolves a chat query against a stored table
type QueryRouter interface {
	Answer(ctx context.Context, t *models.Table, userQuery string, history []models.ConversationTurn) models.QueryResponse
}
