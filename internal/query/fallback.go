package query

import (
	"errors"
	"strconv"
	"strings"

	"github.com/csv-analyst/backend/internal/models"
)

var errNoChartMatch = errors.New("could not determine what chart to create from your request")

// fallbackChart serves chart requests no direct template claimed. Histogram
// wording targets a numeric column (one named in the query, else the first);
// bar/count wording targets a categorical column the same way; anything else
// gets a bar of the first categorical column.
func fallbackChart(t *models.Table, userQuery string) (*models.ChartDescriptor, error) {
	q := strings.ToLower(userQuery)

	if strings.Contains(q, "histogram") || strings.Contains(q, "distribution") {
		if c := namedOrFirst(t.NumericColumns(), q); c != nil {
			return genericHistogram(c), nil
		}
	} else if strings.Contains(q, "bar") || strings.Contains(q, "count") {
		if c := namedOrFirst(t.CategoricalColumns(), q); c != nil {
			return genericBar(c, "#10b981"), nil
		}
	}

	if cats := t.CategoricalColumns(); len(cats) > 0 {
		return genericBar(cats[0], "#8b5cf6"), nil
	}
	return nil, errNoChartMatch
}

// namedOrFirst picks the first column whose lower-cased name appears in the
// query, falling back to the first column.
func namedOrFirst(cols []*models.Column, queryLower string) *models.Column {
	for _, c := range cols {
		if strings.Contains(queryLower, strings.ToLower(c.Name)) {
			return c
		}
	}
	if len(cols) > 0 {
		return cols[0]
	}
	return nil
}

func genericHistogram(c *models.Column) *models.ChartDescriptor {
	return &models.ChartDescriptor{
		Kind:     models.ChartHistogram,
		Category: models.CategoryHistogram,
		Title:    "Distribution of " + c.Name,
		Series: []models.Series{{
			Role:   "values",
			Name:   c.Name,
			Values: c.Float64s(),
			Colors: []string{"#3b82f6"},
		}},
		Layout: models.Layout{Height: 500, Bins: 25, XAxis: c.Name, YAxis: "Count"},
	}
}

func genericBar(c *models.Column, color string) *models.ChartDescriptor {
	counts := c.ValueCounts()
	if len(counts) > 10 {
		counts = counts[:10]
	}
	labels := make([]string, len(counts))
	values := make([]float64, len(counts))
	for i, vc := range counts {
		labels[i] = vc.Value
		values[i] = float64(vc.Count)
	}
	return &models.ChartDescriptor{
		Kind:     models.ChartBar,
		Category: models.CategoryCategorical,
		Title:    "Distribution of " + c.Name,
		Series: []models.Series{{
			Role:   "count",
			Labels: labels,
			Values: values,
			Colors: []string{color},
		}},
		Layout: models.Layout{Height: 500, XAxis: c.Name, YAxis: "Count"},
	}
}

// labelLess orders labels numerically when both parse, lexically otherwise.
func labelLess(a, b string) bool {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		return fa < fb
	}
	return a < b
}
