package profile

import "github.com/csv-analyst/backend/internal/models"

// HealthScore grades a table from 0 to 100. Starting from 100 it subtracts
// the overall missing-cell percentage, half the duplicate-row percentage and
// 5 points per column that is more than half empty, then adds a 5 point
// bonus when the table mixes numeric and categorical columns. The result is
// clamped to [0, 100] and truncated to an integer.
func HealthScore(t *models.Table) int {
	score := 100.0

	if total := t.TotalCells(); total > 0 {
		missing := total - t.NonNullCells()
		score -= float64(missing) / float64(total) * 100
	}

	if rows := t.Rows(); rows > 0 {
		score -= float64(t.DuplicateRows()) / float64(rows) * 100 * 0.5
		for i := range t.Columns {
			if float64(t.Columns[i].Nulls())/float64(rows) > 0.5 {
				score -= 5
			}
		}
	}

	if len(t.NumericColumns()) > 0 && len(t.CategoricalColumns()) > 0 {
		score += 5
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return int(score)
}

// healthColor maps a score to the gauge bar color.
func healthColor(score int) string {
	switch {
	case score >= 80:
		return "#10b981"
	case score >= 60:
		return "#f59e0b"
	default:
		return "#ef4444"
	}
}

// Completeness returns the percentage of non-null cells.
func Completeness(t *models.Table) float64 {
	total := t.TotalCells()
	if total == 0 {
		return 0
	}
	return float64(t.NonNullCells()) / float64(total) * 100
}
