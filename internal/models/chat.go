package models

// ResponseType classifies a chat query result.
type ResponseType string

const (
	ResponseText  ResponseType = "text"
	ResponseChart ResponseType = "chart"
	ResponseError ResponseType = "error"
)

// ConversationTurn is one message of the client-owned conversation history.
type ConversationTurn struct {
	Role          string           `json:"role"` // "user" or "assistant"
	Content       string           `json:"content"`
	Type          ResponseType     `json:"type,omitempty"`
	TextResponse  string           `json:"textResponse,omitempty"`
	ChartData     *ChartDescriptor `json:"chartData,omitempty"`
	OriginalQuery string           `json:"originalQuery,omitempty"`
	Timestamp     string           `json:"timestamp,omitempty"`
}

// ChatQueryRequest is the body of POST /api/chat-query.
type ChatQueryRequest struct {
	SessionID           string             `json:"session_id"`
	UserQuery           string             `json:"user_query"`
	ConversationHistory []ConversationTurn `json:"conversation_history"`
}

// QueryResponse is the router's answer to one chat query. Exactly one of
// Text, Chart or Message is set, matching Type.
type QueryResponse struct {
	Type  ResponseType     `json:"type"`
	Text  string           `json:"text_response,omitempty"`
	Chart *ChartDescriptor `json:"chart_json,omitempty"`
	Error string           `json:"error,omitempty"`
}

// ChatResponse wraps a QueryResponse for the wire.
type ChatResponse struct {
	Response QueryResponse `json:"response"`
}

// DataFrameInfo is the structured metadata block returned alongside the
// initial analysis.
type DataFrameInfo struct {
	Shape                  [2]int            `json:"shape"`
	Columns                []string          `json:"columns"`
	Dtypes                 map[string]string `json:"dtypes"`
	NullCounts             map[string]int    `json:"null_counts"`
	DataHealthScore        int               `json:"data_health_score"`
	CompletenessPercentage float64           `json:"completeness_percentage"`
	TotalCells             int               `json:"total_cells"`
	NonNullCells           int               `json:"non_null_cells"`
}

// InitialAnalysisResponse is the body returned by POST /api/initial-analysis.
type InitialAnalysisResponse struct {
	SessionID     string            `json:"session_id"`
	Summary       string            `json:"summary"`
	Charts        []ChartDescriptor `json:"charts"`
	DataFrameInfo DataFrameInfo     `json:"dataframe_info"`
}
