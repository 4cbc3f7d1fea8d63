// handlers_analysis.go - Dataset upload, chat query and cleanup handlers
package api

import (
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/csv-analyst/backend/internal/dataset"
	"github.com/csv-analyst/backend/internal/models"
	"github.com/csv-analyst/backend/internal/store"
)

// AnalysisHandlerImpl implements the AnalysisHandler interface
type AnalysisHandlerImpl struct {
	store    store.TableStore
	profiler Profiler
	router   QueryRouter
	log      *logrus.Logger
}

// NewAnalysisHandler creates a new analysis handler instance
func NewAnalysisHandler(ts store.TableStore, profiler Profiler, router QueryRouter, log *logrus.Logger) AnalysisHandler {
	return &AnalysisHandlerImpl{
		store:    ts,
		profiler: profiler,
		router:   router,
		log:      log,
	}
}

// HandleInitialAnalysis accepts an uploaded CSV/Excel file (multipart/form-data),
// registers a session for it and returns the automatic analysis
func (h *AnalysisHandlerImpl) HandleInitialAnalysis(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return NewBadRequestError("no file provided", err)
	}

	src, err := file.Open()
	if err != nil {
		return NewBadRequestError("failed to open uploaded file", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return NewInternalError("failed to read uploaded file", err)
	}

	table, err := dataset.Load(file.Filename, data)
	if err != nil {
		return fromDomainError(err)
	}

	sessionID, err := h.store.Put(table)
	if err != nil {
		return NewInternalError("failed to store session", err)
	}

	analysis := h.profiler.Analyze(table)

	h.log.WithFields(logrus.Fields{
		"session": sessionID,
		"file":    file.Filename,
		"rows":    table.Rows(),
		"columns": table.Cols(),
	}).Info("initial analysis complete")

	return c.JSON(http.StatusOK, models.InitialAnalysisResponse{
		SessionID:     sessionID,
		Summary:       analysis.Summary,
		Charts:        analysis.Charts,
		DataFrameInfo: analysis.Info,
	})
}

// HandleChatQuery answers a follow-up question against a stored session.
// Missing-column and oracle failures come back as 200 with an error-typed
// payload so the conversation keeps flowing.
func (h *AnalysisHandlerImpl) HandleChatQuery(c echo.Context) error {
	var req models.ChatQueryRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	if strings.TrimSpace(req.SessionID) == "" {
		return NewValidationError("session_id")
	}
	if strings.TrimSpace(req.UserQuery) == "" {
		return NewValidationError("user_query")
	}

	table, err := h.store.Get(req.SessionID)
	if err != nil {
		return fromDomainError(err)
	}

	resp := h.router.Answer(c.Request().Context(), table, req.UserQuery, req.ConversationHistory)

	h.log.WithFields(logrus.Fields{
		"session": req.SessionID,
		"type":    resp.Type,
	}).Info("chat query answered")

	return c.JSON(http.StatusOK, models.ChatResponse{Response: resp})
}

// HandleCleanup discards a session. Unknown sessions succeed so clients can
// retry cleanup safely.
func (h *AnalysisHandlerImpl) HandleCleanup(c echo.Context) error {
	sessionID := c.Param("sessionId")
	if sessionID == "" {
		return NewValidationError("sessionId")
	}

	if err := h.store.Delete(sessionID); err != nil {
		return NewInternalError("failed to clean up session", err)
	}

	h.log.WithField("session", sessionID).Info("session cleaned up")

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Session cleaned up successfully",
	})
}
