// Package query routes chat queries about an uploaded table to either a
// chart template or the text oracle and shapes the result into a response
// payload. Failures inside a route become error-typed payloads, never
// transport errors.
package query

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/csv-analyst/backend/internal/models"
)

// Oracle answers free-form analyst prompts.
type Oracle interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type Router struct {
	oracle Oracle
	log    *logrus.Logger
}

func NewRouter(oracle Oracle, log *logrus.Logger) *Router {
	return &Router{oracle: oracle, log: log}
}

// Answer resolves one chat query against the table.
func (r *Router) Answer(ctx context.Context, t *models.Table, userQuery string, history []models.ConversationTurn) models.QueryResponse {
	intent := DetermineIntent(userQuery)
	r.log.WithFields(logrus.Fields{"intent": intent, "query": userQuery}).Debug("routing chat query")

	if intent == IntentChart {
		return r.chartResponse(t, userQuery)
	}
	return r.textResponse(ctx, t, userQuery, history)
}

func (r *Router) chartResponse(t *models.Table, userQuery string) models.QueryResponse {
	desc, claimed, err := directChart(t, userQuery)
	if !claimed {
		desc, err = fallbackChart(t, userQuery)
	}
	if err != nil {
		r.log.WithError(err).Info("chart request could not be served")
		return errorResponse(err)
	}
	return models.QueryResponse{Type: models.ResponseChart, Chart: desc}
}

func (r *Router) textResponse(ctx context.Context, t *models.Table, userQuery string, history []models.ConversationTurn) models.QueryResponse {
	prompt := BuildPrompt(t, userQuery, history)
	answer, err := r.oracle.Complete(ctx, prompt)
	if err != nil {
		r.log.WithError(err).Warn("oracle call failed")
		return models.QueryResponse{
			Type:  models.ResponseError,
			Error: "Failed to generate text response: " + err.Error(),
		}
	}
	return models.QueryResponse{Type: models.ResponseText, Text: strings.TrimSpace(answer)}
}

// errorResponse turns a routing error into an error-typed payload. Missing
// column failures surface only their user-facing part, without the sentinel
// prefix.
func errorResponse(err error) models.QueryResponse {
	msg := err.Error()
	if errors.Is(err, models.ErrMissingColumn) {
		if i := strings.Index(msg, ": "); i >= 0 {
			msg = msg[i+2:]
		}
	} else if errors.Is(err, errNoChartMatch) {
		msg = "Could not determine what chart to create from your request"
	}
	return models.QueryResponse{Type: models.ResponseError, Error: msg}
}
