package query

import (
	"sort"
	"strings"

	"github.com/csv-analyst/backend/internal/models"
)

// directChart serves the well-known chart requests without consulting the
// fallback heuristics. The bool reports whether a template claimed the
// query; a claimed query can still fail with a missing-column error.
func directChart(t *models.Table, userQuery string) (*models.ChartDescriptor, bool, error) {
	q := strings.ToLower(userQuery)

	switch {
	case strings.Contains(q, "survival") && (strings.Contains(q, "chart") || strings.Contains(q, "plot")):
		desc, err := survivalPie(t)
		return desc, true, err
	case strings.Contains(q, "age") && (strings.Contains(q, "distribution") || strings.Contains(q, "chart") || strings.Contains(q, "histogram")):
		desc, err := ageHistogram(t)
		return desc, true, err
	case (strings.Contains(q, "class") || strings.Contains(q, "pclass")) && (strings.Contains(q, "chart") || strings.Contains(q, "bar")):
		desc, err := classBar(t)
		return desc, true, err
	case strings.Contains(q, "gender") || strings.Contains(q, "sex"):
		desc, err := genderPie(t)
		return desc, true, err
	}
	return nil, false, nil
}

func survivalPie(t *models.Table) (*models.ChartDescriptor, error) {
	survived, ok := t.Column("survived")
	if !ok {
		return nil, models.MissingColumnError("Survival")
	}
	alive, dead := survived.TruthyCount()
	return &models.ChartDescriptor{
		Kind:     models.ChartPie,
		Category: models.CategorySurvival,
		Title:    "Passenger Survival Distribution",
		Series: []models.Series{{
			Role:   "share",
			Labels: []string{"Did not survive", "Survived"},
			Values: []float64{float64(dead), float64(alive)},
			Colors: []string{"#ef4444", "#10b981"},
		}},
		Layout: models.Layout{Height: 500, Hole: 0.3, TextInfo: "label+percent+value"},
	}, nil
}

func ageHistogram(t *models.Table) (*models.ChartDescriptor, error) {
	age, ok := t.Column("age")
	if !ok {
		return nil, models.MissingColumnError("Age")
	}
	return &models.ChartDescriptor{
		Kind:     models.ChartHistogram,
		Category: models.CategoryAge,
		Title:    "Age Distribution",
		Series: []models.Series{{
			Role:   "values",
			Name:   "Age Distribution",
			Values: age.Float64s(),
			Colors: []string{"#3b82f6"},
		}},
		Layout: models.Layout{Height: 500, Bins: 30, XAxis: "Age (years)", YAxis: "Count"},
	}, nil
}

func classBar(t *models.Table) (*models.ChartDescriptor, error) {
	class, ok := t.AnyColumn("pclass", "class")
	if !ok {
		return nil, models.MissingColumnError("Passenger class")
	}
	counts := class.ValueCounts()
	sort.Slice(counts, func(i, j int) bool { return labelLess(counts[i].Value, counts[j].Value) })

	labels := make([]string, len(counts))
	values := make([]float64, len(counts))
	for i, vc := range counts {
		labels[i] = "Class " + vc.Value
		values[i] = float64(vc.Count)
	}
	return &models.ChartDescriptor{
		Kind:     models.ChartBar,
		Category: models.CategoryClass,
		Title:    "Passenger Class Distribution",
		Series: []models.Series{{
			Role:   "count",
			Labels: labels,
			Values: values,
			Colors: []string{"#3b82f6", "#10b981", "#f59e0b"},
		}},
		Layout: models.Layout{Height: 500, XAxis: "Passenger Class", YAxis: "Count"},
	}, nil
}

func genderPie(t *models.Table) (*models.ChartDescriptor, error) {
	sex, ok := t.AnyColumn("sex", "gender")
	if !ok {
		return nil, models.MissingColumnError("Gender")
	}
	counts := sex.ValueCounts()
	labels := make([]string, len(counts))
	values := make([]float64, len(counts))
	for i, vc := range counts {
		labels[i] = vc.Value
		values[i] = float64(vc.Count)
	}
	return &models.ChartDescriptor{
		Kind:     models.ChartPie,
		Category: models.CategoryGender,
		Title:    "Gender Distribution",
		Series: []models.Series{{
			Role:   "share",
			Labels: labels,
			Values: values,
			Colors: []string{"#ec4899", "#3b82f6"},
		}},
		Layout: models.Layout{Height: 500, Hole: 0.3, TextInfo: "label+percent+value"},
	}, nil
}
