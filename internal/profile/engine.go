// Package profile derives the initial exploratory analysis of an uploaded
// table: a markdown summary, a catalogue of chart descriptors and a
// structured metadata block.
package profile

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/csv-analyst/backend/internal/insight"
	"github.com/csv-analyst/backend/internal/models"
)

type Engine struct {
	log      *logrus.Logger
	narrator *insight.Narrator
}

func NewEngine(log *logrus.Logger) *Engine {
	return &Engine{log: log, narrator: insight.NewNarrator(log)}
}

// Analysis is the full profiling result for one table.
type Analysis struct {
	Summary string
	Charts  []models.ChartDescriptor
	Info    models.DataFrameInfo
}

func (e *Engine) Analyze(t *models.Table) Analysis {
	return Analysis{
		Summary: Summary(t),
		Charts:  e.Charts(t),
		Info:    DataFrameInfo(t),
	}
}

// DataFrameInfo assembles the technical metadata block: shape, per-column
// types and null counts, health score and completeness.
func DataFrameInfo(t *models.Table) models.DataFrameInfo {
	dtypes := make(map[string]string, t.Cols())
	nulls := make(map[string]int, t.Cols())
	for i := range t.Columns {
		c := &t.Columns[i]
		dtypes[c.Name] = string(c.Kind)
		nulls[c.Name] = c.Nulls()
	}
	return models.DataFrameInfo{
		Shape:                  [2]int{t.Rows(), t.Cols()},
		Columns:                t.ColumnNames(),
		Dtypes:                 dtypes,
		NullCounts:             nulls,
		DataHealthScore:        HealthScore(t),
		CompletenessPercentage: math.Round(Completeness(t)*10) / 10,
		TotalCells:             t.TotalCells(),
		NonNullCells:           t.NonNullCells(),
	}
}
