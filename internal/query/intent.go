package query

import "strings"

// Intent classifies what kind of answer a chat query asks for.
type Intent string

const (
	IntentChart Intent = "chart"
	IntentText  Intent = "text"
)

// Keyword tables are checked in order: an explicit chart request wins even
// when the query also contains text keywords ("show me a count of ...").
var chartKeywords = []string{
	"plot", "chart", "graph", "visualize", "visualization", "show me a",
	"create a", "create", "make a", "draw", "histogram", "bar chart",
	"line chart", "scatter plot", "pie chart", "heatmap", "box plot",
	"distribution chart", "survival chart",
}

var textKeywords = []string{
	"how many", "what is", "tell me", "explain", "analyze", "summary",
	"count", "average", "mean", "median", "total", "percentage", "why",
	"who", "when", "where", "which", "describe", "compare without",
}

// DetermineIntent matches keywords as literal substrings of the lower-cased
// query. Queries matching neither table default to text.
func DetermineIntent(userQuery string) Intent {
	q := strings.ToLower(userQuery)
	for _, kw := range chartKeywords {
		if strings.Contains(q, kw) {
			return IntentChart
		}
	}
	for _, kw := range textKeywords {
		if strings.Contains(q, kw) {
			return IntentText
		}
	}
	return IntentText
}
