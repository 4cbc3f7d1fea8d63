package query

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/csv-analyst/backend/internal/models"
)

const (
	promptMaxColumns = 15
	promptMaxSamples = 3
	promptMaxSample  = 30
	historyTurns     = 3
)

// BuildPrompt assembles the analyst prompt for the text path: a dataset
// profile, the question, recent conversation context and fixed instructions.
func BuildPrompt(t *models.Table, userQuery string, history []models.ConversationTurn) string {
	var sb strings.Builder
	sb.WriteString("You are an expert data analyst. Answer the user's question about their dataset using the information provided.\n\n")
	sb.WriteString("DATASET INFORMATION:\n")
	sb.WriteString(datasetProfile(t))
	sb.WriteString("\n\nUSER QUESTION: ")
	sb.WriteString(userQuery)
	sb.WriteString("\n")
	sb.WriteString(conversationContext(history))
	sb.WriteString(`
INSTRUCTIONS:
1. Provide a clear, direct answer to the user's question
2. Use specific numbers and data from the dataset when possible
3. Be concise but informative
4. If you need to perform calculations, describe them clearly
5. Don't suggest creating charts - just answer the question directly
6. Format your response in plain text, not markdown

Analyze the data and provide a direct answer to: `)
	sb.WriteString(userQuery)
	return sb.String()
}

// datasetProfile renders shape, column names and per-column details for up
// to 15 columns, with up to 3 sample values each.
func datasetProfile(t *models.Table) string {
	lines := []string{
		fmt.Sprintf("Shape: %d rows, %d columns", t.Rows(), t.Cols()),
		fmt.Sprintf("Columns: %s", strings.Join(t.ColumnNames(), ", ")),
		"",
		"Column Details:",
	}
	for i := range t.Columns {
		if i >= promptMaxColumns {
			break
		}
		c := &t.Columns[i]
		samples := c.Sample(promptMaxSamples)
		for j, s := range samples {
			samples[j] = truncateSample(s, promptMaxSample)
		}
		lines = append(lines, fmt.Sprintf("- %s (%s): %d non-null, %d null. Sample: %s",
			c.Name, c.Kind, c.NonNull(), c.Nulls(), strings.Join(samples, ", ")))
	}
	return strings.Join(lines, "\n")
}

// truncateSample shortens s to at most max bytes without splitting a rune.
func truncateSample(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}

// conversationContext renders the last three turns, oldest first.
func conversationContext(history []models.ConversationTurn) string {
	if len(history) == 0 {
		return ""
	}
	if len(history) > historyTurns {
		history = history[len(history)-historyTurns:]
	}
	var sb strings.Builder
	sb.WriteString("\nPrevious conversation:\n")
	for _, turn := range history {
		role := turn.Role
		if role != "" {
			role = strings.ToUpper(role[:1]) + role[1:]
		}
		sb.WriteString(role)
		sb.WriteString(": ")
		sb.WriteString(turn.Content)
		sb.WriteString("\n")
	}
	return sb.String()
}
