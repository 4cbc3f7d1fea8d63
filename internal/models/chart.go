package models

// ChartKind identifies the visual form of a chart or panel.
type ChartKind string

const (
	ChartHistogram ChartKind = "histogram"
	ChartBar       ChartKind = "bar"
	ChartPie       ChartKind = "pie"
	ChartBox       ChartKind = "box"
	ChartViolin    ChartKind = "violin"
	ChartHeatmap   ChartKind = "heatmap"
	ChartComposite ChartKind = "composite"
	ChartGauge     ChartKind = "gauge"
)

// ChartCategory tags which narrative/visual template a chart belongs to.
type ChartCategory string

const (
	CategoryOverview    ChartCategory = "overview"
	CategorySurvival    ChartCategory = "survival_analysis"
	CategoryAge         ChartCategory = "age_analysis"
	CategoryGender      ChartCategory = "gender_analysis"
	CategoryClass       ChartCategory = "class_analysis"
	CategoryFare        ChartCategory = "fare_analysis"
	CategoryEmbarkation ChartCategory = "embarkation_analysis"
	CategoryFamily      ChartCategory = "family_analysis"
	CategoryHistogram   ChartCategory = "histogram"
	CategoryCategorical ChartCategory = "categorical"
	CategoryCorrelation ChartCategory = "correlation"
)

// Series is one data series of a chart: a role label plus numeric and/or
// categorical values. Exactly which fields are populated depends on the
// chart kind (labels+values for pies, values for histograms, matrix for
// heatmaps, value for gauges).
type Series struct {
	Role   string      `json:"role"`
	Name   string      `json:"name,omitempty"`
	Labels []string    `json:"labels,omitempty"`
	Values []float64   `json:"values,omitempty"`
	Matrix [][]float64 `json:"matrix,omitempty"`
	Colors []string    `json:"colors,omitempty"`
}

// Layout carries renderer hints: title, axis labels, dimensions and
// per-kind styling knobs.
type Layout struct {
	Title    string  `json:"title,omitempty"`
	XAxis    string  `json:"xaxis,omitempty"`
	YAxis    string  `json:"yaxis,omitempty"`
	Height   int     `json:"height,omitempty"`
	Bins     int     `json:"bins,omitempty"`
	Hole     float64 `json:"hole,omitempty"`
	TextInfo string  `json:"textinfo,omitempty"`
}

// Panel is one sub-chart of a composite (multi-panel) descriptor.
type Panel struct {
	Kind   ChartKind `json:"kind"`
	Title  string    `json:"title"`
	Series []Series  `json:"series"`
	Layout Layout    `json:"layout,omitempty"`
}

// ChartDescriptor is a declarative, renderer-agnostic description of a
// visualization. It is immutable once built; the rendering backend is the
// only consumer.
type ChartDescriptor struct {
	Kind     ChartKind      `json:"kind"`
	Category ChartCategory  `json:"type"`
	Title    string         `json:"title"`
	Series   []Series       `json:"series,omitempty"`
	Panels   []Panel        `json:"panels,omitempty"`
	Layout   Layout         `json:"layout"`
	Insights *InsightBundle `json:"insights,omitempty"`
}

// Significance describes a statistical test outcome in plain language.
// A bundle that performed no test carries the NotComputed marker.
type Significance struct {
	Test           string `json:"test"`
	PValue         string `json:"p_value,omitempty"`
	Result         string `json:"result"`
	Interpretation string `json:"interpretation"`
}

// NotComputedSignificance marks a bundle whose category ran no test.
func NotComputedSignificance(reason string) Significance {
	return Significance{
		Test:           "none",
		Result:         "not computed",
		Interpretation: reason,
	}
}

// InsightBundle is the narrator's structured output for one chart.
type InsightBundle struct {
	KeyFindings             []string     `json:"key_findings"`
	StatisticalSignificance Significance `json:"statistical_significance"`
	Trends                  []string     `json:"trends"`
	Comparisons             []string     `json:"comparisons"`
	BusinessRecommendations []string     `json:"business_recommendations"`
}
