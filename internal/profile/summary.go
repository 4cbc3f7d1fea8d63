package profile

import (
	"fmt"
	"math"
	"strings"

	"github.com/csv-analyst/backend/internal/models"
)

// Summary renders the markdown dataset overview shown after upload.
func Summary(t *models.Table) string {
	var parts []string

	parts = append(parts,
		"## Dataset Overview",
		fmt.Sprintf("Your dataset contains **%d** rows and **%d** columns with **%.1f%%** data completeness.",
			t.Rows(), t.Cols(), Completeness(t)),
		"",
		fmt.Sprintf("### Data Health Score: %d/100", HealthScore(t)),
		"",
	)

	parts = append(parts, featureSection("Numeric Features", t.NumericColumns())...)
	parts = append(parts, featureSection("Categorical Features", t.CategoricalColumns())...)
	parts = append(parts, featureSection("Boolean Features", t.ColumnsOfKind(models.KindBoolean))...)
	parts = append(parts, featureSection("Temporal Features", t.DatetimeColumns())...)

	parts = append(parts, missingSection(t)...)
	parts = append(parts, statisticsSection(t)...)

	return strings.Join(parts, "\n")
}

func featureSection(title string, cols []*models.Column) []string {
	if len(cols) == 0 {
		return nil
	}
	names := make([]string, 0, len(cols))
	for _, c := range cols {
		names = append(names, c.Name)
	}
	ellipsis := ""
	if len(names) > 10 {
		names = names[:10]
		ellipsis = "..."
	}
	return []string{
		fmt.Sprintf("### %s (%d)", title, len(cols)),
		fmt.Sprintf("**%s**%s", strings.Join(names, ", "), ellipsis),
		"",
	}
}

// missingSection lists up to five columns with missing values, tagged by
// severity (high above 50%, medium above 20%, low otherwise).
func missingSection(t *models.Table) []string {
	type gap struct {
		name  string
		count int
	}
	var gaps []gap
	for i := range t.Columns {
		if n := t.Columns[i].Nulls(); n > 0 {
			gaps = append(gaps, gap{name: t.Columns[i].Name, count: n})
		}
	}
	if len(gaps) == 0 {
		return nil
	}

	out := []string{
		"### Data Quality Issues",
		fmt.Sprintf("Found missing values in **%d** features:", len(gaps)),
		"",
	}
	shown := gaps
	if len(shown) > 5 {
		shown = shown[:5]
	}
	for _, g := range shown {
		pct := float64(g.count) / float64(t.Rows()) * 100
		severity := "low"
		switch {
		case pct > 50:
			severity = "high"
		case pct > 20:
			severity = "medium"
		}
		out = append(out, fmt.Sprintf("[%s] **%s**: %d missing (%.1f%%)", severity, g.name, g.count, pct))
	}
	if len(gaps) > 5 {
		out = append(out, fmt.Sprintf("... and %d more", len(gaps)-5))
	}
	return append(out, "")
}

// statisticsSection covers the first three numeric columns.
func statisticsSection(t *models.Table) []string {
	numeric := t.NumericColumns()
	if len(numeric) == 0 {
		return nil
	}
	out := []string{"### Key Statistics", ""}
	for _, c := range numeric[:minInt(3, len(numeric))] {
		xs := c.Float64s()
		if len(xs) == 0 {
			continue
		}
		lo, hi := seriesMinMax(xs)
		m, sd := seriesMeanStd(xs)
		out = append(out,
			fmt.Sprintf("**%s**:", c.Name),
			fmt.Sprintf("- Range: %.2f to %.2f", lo, hi),
			fmt.Sprintf("- Mean: %.2f (±%.2f)", m, sd),
			fmt.Sprintf("- Distribution: %s", describeDistribution(xs)),
			"",
		)
	}
	return out
}

// describeDistribution labels a series by its skewness: within ±0.5 is
// Normal, above is Right-skewed, below is Left-skewed.
func describeDistribution(xs []float64) string {
	skew := seriesSkewness(xs)
	switch {
	case math.Abs(skew) < 0.5:
		return "Normal"
	case skew > 0.5:
		return "Right-skewed"
	default:
		return "Left-skewed"
	}
}

func seriesMeanStd(xs []float64) (mean, sd float64) {
	n := float64(len(xs))
	if n == 0 {
		return 0, 0
	}
	for _, x := range xs {
		mean += x
	}
	mean /= n
	if n < 2 {
		return mean, 0
	}
	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return mean, math.Sqrt(ss / (n - 1))
}

func seriesMinMax(xs []float64) (lo, hi float64) {
	lo, hi = xs[0], xs[0]
	for _, x := range xs[1:] {
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
	}
	return lo, hi
}

// seriesSkewness is the third standardized moment, zero for a flat series.
func seriesSkewness(xs []float64) float64 {
	m, sd := seriesMeanStd(xs)
	if sd == 0 || len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		d := x - m
		sum += d * d * d
	}
	return sum / (float64(len(xs)) * sd * sd * sd)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
