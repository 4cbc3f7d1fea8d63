package profile

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/csv-analyst/backend/internal/insight"
	"github.com/csv-analyst/backend/internal/models"
)

const maxCategories = 15

// missingMatrixSampleRows caps the missing-values heatmap so huge uploads do
// not balloon the overview payload.
const missingMatrixSampleRows = 1000

var primaryColors = []string{"#667eea", "#764ba2", "#f093fb", "#f5576c", "#4facfe", "#00f2fe"}

// Ports keyed by their single-letter embarkation codes.
var portNames = map[string]string{
	"C": "Cherbourg",
	"Q": "Queenstown",
	"S": "Southampton",
}

// Charts builds the catalogue in its fixed order. Builders are fault
// isolated: one that errors is logged and skipped, the rest still run. A
// builder returning (nil, nil) is simply not applicable to this table.
func (e *Engine) Charts(t *models.Table) []models.ChartDescriptor {
	builders := []struct {
		name string
		fn   func(*models.Table) (*models.ChartDescriptor, error)
	}{
		{"overview", e.overviewChart},
		{"survival", e.survivalChart},
		{"age", e.ageChart},
		{"class", e.classChart},
		{"gender", e.genderChart},
		{"fare", e.fareChart},
		{"embarkation", e.embarkationChart},
		{"family", e.familyChart},
	}

	var charts []models.ChartDescriptor
	for _, b := range builders {
		desc, err := b.fn(t)
		if err != nil {
			e.log.WithError(err).WithField("chart", b.name).Warn("chart builder failed, skipping")
			continue
		}
		if desc != nil {
			charts = append(charts, *desc)
		}
	}

	charts = append(charts, e.leftoverHistograms(t)...)
	charts = append(charts, e.leftoverCategoricals(t)...)

	if corr, err := e.correlationChart(t); err != nil {
		e.log.WithError(err).WithField("chart", "correlation").Warn("chart builder failed, skipping")
	} else if corr != nil {
		charts = append(charts, *corr)
	}

	for i := range charts {
		bundle := e.narrator.Insights(t, charts[i].Category)
		charts[i].Insights = &bundle
	}
	return charts
}

func (e *Engine) overviewChart(t *models.Table) (*models.ChartDescriptor, error) {
	if t.Cols() == 0 {
		return nil, fmt.Errorf("table has no columns")
	}

	kindCounts := make(map[models.ColumnKind]int)
	for i := range t.Columns {
		kindCounts[t.Columns[i].Kind]++
	}
	kinds := make([]string, 0, len(kindCounts))
	for k := range kindCounts {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	kindValues := make([]float64, len(kinds))
	for i, k := range kinds {
		kindValues[i] = float64(kindCounts[models.ColumnKind(k)])
	}

	type colPct struct {
		name string
		pct  float64
	}
	completeness := make([]colPct, 0, t.Cols())
	for i := range t.Columns {
		pct := 0.0
		if t.Rows() > 0 {
			pct = float64(t.Columns[i].NonNull()) / float64(t.Rows()) * 100
		}
		completeness = append(completeness, colPct{name: t.Columns[i].Name, pct: pct})
	}
	sort.SliceStable(completeness, func(i, j int) bool { return completeness[i].pct < completeness[j].pct })
	complLabels := make([]string, len(completeness))
	complValues := make([]float64, len(completeness))
	for i, c := range completeness {
		complLabels[i] = c.name
		complValues[i] = c.pct
	}

	panels := []models.Panel{
		{
			Kind:  models.ChartPie,
			Title: "Data Types Distribution",
			Series: []models.Series{{
				Role:   "dtype",
				Labels: kinds,
				Values: kindValues,
				Colors: primaryColors[:minInt(len(kinds), len(primaryColors))],
			}},
			Layout: models.Layout{Hole: 0.3, TextInfo: "label+percent"},
		},
		{
			Kind:  models.ChartBar,
			Title: "Completeness by Column",
			Series: []models.Series{{
				Role:   "completeness",
				Labels: complLabels,
				Values: complValues,
			}},
			Layout: models.Layout{XAxis: "Completeness %"},
		},
	}

	if t.NonNullCells() < t.TotalCells() {
		rows := minInt(t.Rows(), missingMatrixSampleRows)
		matrix := make([][]float64, t.Cols())
		names := make([]string, t.Cols())
		for i := range t.Columns {
			names[i] = t.Columns[i].Name
			row := make([]float64, rows)
			for r := 0; r < rows; r++ {
				if !t.Columns[i].Valid[r] {
					row[r] = 1
				}
			}
			matrix[i] = row
		}
		panels = append(panels, models.Panel{
			Kind:  models.ChartHeatmap,
			Title: "Missing Values Pattern",
			Series: []models.Series{{
				Role:   "missing",
				Labels: names,
				Matrix: matrix,
			}},
		})
	}

	score := HealthScore(t)
	panels = append(panels, models.Panel{
		Kind:  models.ChartGauge,
		Title: "Data Health Metrics",
		Series: []models.Series{{
			Role:   "health",
			Values: []float64{float64(score)},
			Colors: []string{healthColor(score)},
		}},
	})

	return &models.ChartDescriptor{
		Kind:     models.ChartComposite,
		Category: models.CategoryOverview,
		Title:    "Dataset Overview Dashboard",
		Panels:   panels,
		Layout:   models.Layout{Height: 800},
	}, nil
}

func (e *Engine) survivalChart(t *models.Table) (*models.ChartDescriptor, error) {
	survived, ok := t.Column("survived")
	if !ok {
		return nil, nil
	}
	class, ok := t.AnyColumn("pclass", "class")
	if !ok {
		return nil, nil
	}

	byClass := outcomesByGroup(t, class, survived)
	classKeys := sortedGroupKeys(byClass)
	if len(classKeys) == 0 {
		return nil, fmt.Errorf("no overlapping class and survival data")
	}
	classLabels := make([]string, len(classKeys))
	deadByClass := make([]float64, len(classKeys))
	aliveByClass := make([]float64, len(classKeys))
	rateByClass := make([]float64, len(classKeys))
	for i, k := range classKeys {
		o := byClass[k]
		classLabels[i] = "Class " + k
		deadByClass[i] = o.dead
		aliveByClass[i] = o.alive
		if total := o.dead + o.alive; total > 0 {
			rateByClass[i] = o.alive / total * 100
		}
	}

	panels := []models.Panel{{
		Kind:  models.ChartBar,
		Title: "Survival by Class",
		Series: []models.Series{
			{Role: "count", Name: "Did not survive", Labels: classLabels, Values: deadByClass, Colors: []string{"#ef4444"}},
			{Role: "count", Name: "Survived", Labels: classLabels, Values: aliveByClass, Colors: []string{"#10b981"}},
		},
	}}

	if sex, ok := t.AnyColumn("sex", "gender"); ok {
		byGender := outcomesByGroup(t, sex, survived)
		keys := sortedGroupKeys(byGender)
		dead := make([]float64, len(keys))
		alive := make([]float64, len(keys))
		for i, k := range keys {
			dead[i] = byGender[k].dead
			alive[i] = byGender[k].alive
		}
		panels = append(panels, models.Panel{
			Kind:  models.ChartBar,
			Title: "Survival by Gender",
			Series: []models.Series{
				{Role: "count", Name: "Did not survive", Labels: keys, Values: dead, Colors: []string{"#ef4444"}},
				{Role: "count", Name: "Survived", Labels: keys, Values: alive, Colors: []string{"#10b981"}},
			},
		})
	}

	alive, dead := survived.TruthyCount()
	panels = append(panels,
		models.Panel{
			Kind:  models.ChartPie,
			Title: "Overall Survival Rate",
			Series: []models.Series{{
				Role:   "share",
				Labels: []string{"Did not survive", "Survived"},
				Values: []float64{float64(dead), float64(alive)},
				Colors: []string{"#ef4444", "#10b981"},
			}},
			Layout: models.Layout{Hole: 0.3, TextInfo: "label+percent+value"},
		},
		models.Panel{
			Kind:  models.ChartBar,
			Title: "Survival Rate by Class",
			Series: []models.Series{{
				Role:   "rate",
				Labels: classLabels,
				Values: rateByClass,
				Colors: []string{"#3b82f6"},
			}},
			Layout: models.Layout{YAxis: "Survival Rate %"},
		},
	)

	return &models.ChartDescriptor{
		Kind:     models.ChartComposite,
		Category: models.CategorySurvival,
		Title:    "Comprehensive Survival Analysis",
		Panels:   panels,
		Layout:   models.Layout{Height: 800},
	}, nil
}

// Age-group bucket edges and labels; half-open on the right.
var (
	ageGroupEdges  = []float64{0, 12, 18, 35, 60, 100}
	ageGroupLabels = []string{"Child", "Teen", "Young Adult", "Adult", "Senior"}
)

func ageGroupIndex(age float64) int {
	for i := 1; i < len(ageGroupEdges); i++ {
		if age < ageGroupEdges[i] {
			return i - 1
		}
	}
	return -1
}

func (e *Engine) ageChart(t *models.Table) (*models.ChartDescriptor, error) {
	ageCol, ok := t.Column("age")
	if !ok {
		return nil, nil
	}
	ages := ageCol.Float64s()
	if len(ages) == 0 {
		return nil, fmt.Errorf("age column holds no numeric data")
	}

	panels := []models.Panel{{
		Kind:   models.ChartHistogram,
		Title:  "Age Distribution",
		Series: []models.Series{{Role: "values", Name: "Age", Values: ages, Colors: []string{"#3b82f6"}}},
		Layout: models.Layout{Bins: 30},
	}}

	survived, hasSurvived := t.Column("survived")
	if hasSurvived {
		aliveAges, deadAges := splitByOutcome(t, ageCol, survived)
		panels = append(panels, models.Panel{
			Kind:  models.ChartBox,
			Title: "Age vs Survival",
			Series: []models.Series{
				{Role: "values", Name: "Did not survive", Values: deadAges, Colors: []string{"#ef4444"}},
				{Role: "values", Name: "Survived", Values: aliveAges, Colors: []string{"#10b981"}},
			},
		})

		deadGroups := make([]float64, len(ageGroupLabels))
		aliveGroups := make([]float64, len(ageGroupLabels))
		for r := 0; r < t.Rows(); r++ {
			age, ok := ageCol.FloatAt(r)
			if !ok {
				continue
			}
			g := ageGroupIndex(age)
			if g < 0 {
				continue
			}
			switch outcomeAt(survived, r) {
			case outcomeAlive:
				aliveGroups[g]++
			case outcomeDead:
				deadGroups[g]++
			}
		}
		panels = append(panels, models.Panel{
			Kind:  models.ChartBar,
			Title: "Age Groups Analysis",
			Series: []models.Series{
				{Role: "count", Name: "Did not survive", Labels: ageGroupLabels, Values: deadGroups, Colors: []string{"#ef4444"}},
				{Role: "count", Name: "Survived", Labels: ageGroupLabels, Values: aliveGroups, Colors: []string{"#10b981"}},
			},
		})
	}

	if sex, ok := t.AnyColumn("sex", "gender"); ok {
		byGender := splitByGroup(t, ageCol, sex)
		var series []models.Series
		for _, g := range sortedMapKeys(byGender) {
			series = append(series, models.Series{
				Role:   "values",
				Name:   titleCase(g),
				Values: byGender[g],
				Colors: []string{genderColor(g)},
			})
		}
		if len(series) > 0 {
			panels = append(panels, models.Panel{
				Kind:   models.ChartViolin,
				Title:  "Age by Gender",
				Series: series,
			})
		}
	}

	return &models.ChartDescriptor{
		Kind:     models.ChartComposite,
		Category: models.CategoryAge,
		Title:    "Comprehensive Age Analysis",
		Panels:   panels,
		Layout:   models.Layout{Height: 800},
	}, nil
}

func (e *Engine) classChart(t *models.Table) (*models.ChartDescriptor, error) {
	class, ok := t.AnyColumn("pclass", "class")
	if !ok {
		return nil, nil
	}
	counts := class.ValueCounts()
	if len(counts) == 0 {
		return nil, fmt.Errorf("class column holds no data")
	}
	sort.Slice(counts, func(i, j int) bool { return labelLess(counts[i].Value, counts[j].Value) })

	labels := make([]string, len(counts))
	values := make([]float64, len(counts))
	for i, vc := range counts {
		labels[i] = "Class " + vc.Value
		values[i] = float64(vc.Count)
	}

	return &models.ChartDescriptor{
		Kind:     models.ChartPie,
		Category: models.CategoryClass,
		Title:    "Passenger Class Distribution",
		Series: []models.Series{{
			Role:   "share",
			Labels: labels,
			Values: values,
			Colors: primaryColors[:minInt(len(labels), len(primaryColors))],
		}},
		Layout: models.Layout{Height: 500, Hole: 0.4, TextInfo: "label+percent+value"},
	}, nil
}

func (e *Engine) genderChart(t *models.Table) (*models.ChartDescriptor, error) {
	sex, ok := t.AnyColumn("sex", "gender")
	if !ok {
		return nil, nil
	}
	counts := sex.ValueCounts()
	if len(counts) == 0 {
		return nil, fmt.Errorf("gender column holds no data")
	}

	labels := make([]string, len(counts))
	values := make([]float64, len(counts))
	colors := make([]string, len(counts))
	for i, vc := range counts {
		labels[i] = vc.Value
		values[i] = float64(vc.Count)
		colors[i] = genderColor(vc.Value)
	}

	panels := []models.Panel{{
		Kind:   models.ChartPie,
		Title:  "Gender Distribution",
		Series: []models.Series{{Role: "share", Labels: labels, Values: values, Colors: colors}},
		Layout: models.Layout{Hole: 0.3, TextInfo: "label+percent+value"},
	}}

	if survived, ok := t.Column("survived"); ok {
		byGender := outcomesByGroup(t, sex, survived)
		keys := sortedGroupKeys(byGender)
		rates := make([]float64, len(keys))
		rateColors := make([]string, len(keys))
		for i, k := range keys {
			o := byGender[k]
			if total := o.dead + o.alive; total > 0 {
				rates[i] = o.alive / total * 100
			}
			rateColors[i] = genderColor(k)
		}
		panels = append(panels, models.Panel{
			Kind:   models.ChartBar,
			Title:  "Survival Rate by Gender",
			Series: []models.Series{{Role: "rate", Labels: keys, Values: rates, Colors: rateColors}},
			Layout: models.Layout{YAxis: "Survival Rate %"},
		})
	}

	if fare, ok := t.Column("fare"); ok {
		byGender := splitByGroup(t, fare, sex)
		var series []models.Series
		for _, g := range sortedMapKeys(byGender) {
			series = append(series, models.Series{
				Role:   "values",
				Name:   titleCase(g),
				Values: byGender[g],
				Colors: []string{genderColor(g)},
			})
		}
		if len(series) > 0 {
			panels = append(panels, models.Panel{
				Kind:   models.ChartBox,
				Title:  "Fare by Gender",
				Series: series,
			})
		}
	}

	if class, ok := t.AnyColumn("pclass", "class"); ok {
		classByGender := crossCounts(t, sex, class)
		genders := sortedMapKeysCounts(classByGender)
		var classKeys []string
		seen := make(map[string]struct{})
		for _, byClass := range classByGender {
			for k := range byClass {
				if _, ok := seen[k]; !ok {
					seen[k] = struct{}{}
					classKeys = append(classKeys, k)
				}
			}
		}
		sort.Slice(classKeys, func(i, j int) bool { return labelLess(classKeys[i], classKeys[j]) })
		classLabels := make([]string, len(classKeys))
		for i, k := range classKeys {
			classLabels[i] = "Class " + k
		}

		var series []models.Series
		for _, g := range genders {
			vals := make([]float64, len(classKeys))
			for i, k := range classKeys {
				vals[i] = float64(classByGender[g][k])
			}
			series = append(series, models.Series{
				Role:   "count",
				Name:   titleCase(g),
				Labels: classLabels,
				Values: vals,
				Colors: []string{genderColor(g)},
			})
		}
		panels = append(panels, models.Panel{
			Kind:   models.ChartBar,
			Title:  "Class Distribution by Gender",
			Series: series,
		})
	}

	return &models.ChartDescriptor{
		Kind:     models.ChartComposite,
		Category: models.CategoryGender,
		Title:    "Comprehensive Gender Analysis",
		Panels:   panels,
		Layout:   models.Layout{Height: 800},
	}, nil
}

func (e *Engine) fareChart(t *models.Table) (*models.ChartDescriptor, error) {
	fare, ok := t.Column("fare")
	if !ok {
		return nil, nil
	}
	fares := fare.Float64s()
	if len(fares) == 0 {
		return nil, fmt.Errorf("fare column holds no numeric data")
	}
	return &models.ChartDescriptor{
		Kind:     models.ChartHistogram,
		Category: models.CategoryFare,
		Title:    "Fare Distribution Analysis",
		Series:   []models.Series{{Role: "values", Name: "Fare", Values: fares, Colors: []string{"#8b5cf6"}}},
		Layout:   models.Layout{Height: 500, Bins: 50, XAxis: "Fare", YAxis: "Number of Passengers"},
	}, nil
}

func (e *Engine) embarkationChart(t *models.Table) (*models.ChartDescriptor, error) {
	embarked, ok := t.Column("embarked")
	if !ok {
		return nil, nil
	}
	counts := embarked.ValueCounts()
	if len(counts) == 0 {
		return nil, fmt.Errorf("embarked column holds no data")
	}
	labels := make([]string, len(counts))
	values := make([]float64, len(counts))
	for i, vc := range counts {
		label := vc.Value
		if name, ok := portNames[strings.ToUpper(label)]; ok {
			label = name
		}
		labels[i] = label
		values[i] = float64(vc.Count)
	}
	return &models.ChartDescriptor{
		Kind:     models.ChartPie,
		Category: models.CategoryEmbarkation,
		Title:    "Embarkation Port Analysis",
		Series: []models.Series{{
			Role:   "share",
			Labels: labels,
			Values: values,
			Colors: primaryColors[:minInt(len(labels), len(primaryColors))],
		}},
		Layout: models.Layout{Height: 500, TextInfo: "label+percent+value"},
	}, nil
}

func (e *Engine) familyChart(t *models.Table) (*models.ChartDescriptor, error) {
	sibsp, ok := t.Column("sibsp")
	if !ok {
		return nil, nil
	}
	parch, ok := t.Column("parch")
	if !ok {
		return nil, nil
	}

	sizeCounts := make(map[int]int)
	for r := 0; r < t.Rows(); r++ {
		s, sok := sibsp.FloatAt(r)
		p, pok := parch.FloatAt(r)
		if !sok || !pok {
			continue
		}
		sizeCounts[int(s)+int(p)+1]++
	}
	if len(sizeCounts) == 0 {
		return nil, fmt.Errorf("no overlapping sibsp and parch data")
	}

	sizes := make([]int, 0, len(sizeCounts))
	for s := range sizeCounts {
		sizes = append(sizes, s)
	}
	sort.Ints(sizes)
	labels := make([]string, len(sizes))
	values := make([]float64, len(sizes))
	for i, s := range sizes {
		labels[i] = strconv.Itoa(s)
		values[i] = float64(sizeCounts[s])
	}

	return &models.ChartDescriptor{
		Kind:     models.ChartBar,
		Category: models.CategoryFamily,
		Title:    "Family Size Distribution",
		Series:   []models.Series{{Role: "count", Labels: labels, Values: values, Colors: []string{"#8b5cf6"}}},
		Layout:   models.Layout{Height: 500, XAxis: "Family Size", YAxis: "Number of Passengers"},
	}, nil
}

// Columns already covered by the dedicated dashboards above.
var (
	coveredNumeric     = map[string]struct{}{"age": {}, "fare": {}, "passengerid": {}, "survived": {}, "pclass": {}}
	coveredCategorical = map[string]struct{}{"sex": {}, "embarked": {}}
)

func (e *Engine) leftoverHistograms(t *models.Table) []models.ChartDescriptor {
	var charts []models.ChartDescriptor
	for i, c := range t.NumericLikeColumns() {
		if _, covered := coveredNumeric[strings.ToLower(c.Name)]; covered {
			continue
		}
		values := c.Float64s()
		if len(values) == 0 {
			continue
		}
		m, _ := seriesMeanStd(values)
		med := seriesMedian(values)
		charts = append(charts, models.ChartDescriptor{
			Kind:     models.ChartHistogram,
			Category: models.CategoryHistogram,
			Title:    "Distribution of " + c.Name,
			Series: []models.Series{
				{Role: "values", Name: c.Name, Values: values, Colors: []string{primaryColors[i%len(primaryColors)]}},
				{Role: "mean", Values: []float64{m}},
				{Role: "median", Values: []float64{med}},
			},
			Layout: models.Layout{Height: 500, Bins: 30, XAxis: c.Name, YAxis: "Frequency"},
		})
	}
	return charts
}

func (e *Engine) leftoverCategoricals(t *models.Table) []models.ChartDescriptor {
	var charts []models.ChartDescriptor
	for _, c := range t.CategoricalColumns() {
		if _, covered := coveredCategorical[strings.ToLower(c.Name)]; covered {
			continue
		}
		if u := c.Unique(); u <= 1 || u > maxCategories {
			continue
		}
		counts := c.ValueCounts()
		if len(counts) > maxCategories {
			counts = counts[:maxCategories]
		}
		labels := make([]string, len(counts))
		values := make([]float64, len(counts))
		for i, vc := range counts {
			labels[i] = vc.Value
			values[i] = float64(vc.Count)
		}
		charts = append(charts, models.ChartDescriptor{
			Kind:     models.ChartPie,
			Category: models.CategoryCategorical,
			Title:    "Distribution of " + c.Name,
			Series: []models.Series{{
				Role:   "share",
				Labels: labels,
				Values: values,
				Colors: primaryColors[:minInt(len(labels), len(primaryColors))],
			}},
			Layout: models.Layout{Height: 500, Hole: 0.4, TextInfo: "label+percent"},
		})
	}
	return charts
}

func (e *Engine) correlationChart(t *models.Table) (*models.ChartDescriptor, error) {
	cols := t.NumericLikeColumns()
	if len(cols) < 3 {
		return nil, nil
	}

	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	matrix := make([][]float64, len(cols))
	for i := range cols {
		matrix[i] = make([]float64, len(cols))
		matrix[i][i] = 1
		for j := 0; j < i; j++ {
			xs, ys := alignedValues(t, cols[i], cols[j])
			r := insight.Pearson(xs, ys)
			matrix[i][j] = r
			matrix[j][i] = r
		}
	}

	return &models.ChartDescriptor{
		Kind:     models.ChartHeatmap,
		Category: models.CategoryCorrelation,
		Title:    "Feature Correlation Matrix",
		Series: []models.Series{{
			Role:   "correlation",
			Labels: names,
			Matrix: matrix,
		}},
		Layout: models.Layout{Height: 600},
	}, nil
}

// --- row aggregation helpers ---

type outcomeCounts struct {
	dead, alive float64
}

type outcomeKind int

const (
	outcomeUnknown outcomeKind = iota
	outcomeDead
	outcomeAlive
)

func outcomeAt(survived *models.Column, row int) outcomeKind {
	if row >= len(survived.Cells) || !survived.Valid[row] {
		return outcomeUnknown
	}
	switch strings.ToLower(strings.TrimSpace(survived.Cells[row])) {
	case "1", "true", "yes", "y":
		return outcomeAlive
	case "0", "false", "no", "n":
		return outcomeDead
	}
	return outcomeUnknown
}

func outcomesByGroup(t *models.Table, group, survived *models.Column) map[string]outcomeCounts {
	out := make(map[string]outcomeCounts)
	for r := 0; r < t.Rows(); r++ {
		if !group.Valid[r] {
			continue
		}
		kind := outcomeAt(survived, r)
		if kind == outcomeUnknown {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(group.Cells[r]))
		o := out[key]
		if kind == outcomeAlive {
			o.alive++
		} else {
			o.dead++
		}
		out[key] = o
	}
	return out
}

func splitByOutcome(t *models.Table, numeric, survived *models.Column) (alive, dead []float64) {
	for r := 0; r < t.Rows(); r++ {
		f, ok := numeric.FloatAt(r)
		if !ok {
			continue
		}
		switch outcomeAt(survived, r) {
		case outcomeAlive:
			alive = append(alive, f)
		case outcomeDead:
			dead = append(dead, f)
		}
	}
	return alive, dead
}

func splitByGroup(t *models.Table, numeric, group *models.Column) map[string][]float64 {
	out := make(map[string][]float64)
	for r := 0; r < t.Rows(); r++ {
		f, ok := numeric.FloatAt(r)
		if !ok || !group.Valid[r] {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(group.Cells[r]))
		out[key] = append(out[key], f)
	}
	return out
}

func crossCounts(t *models.Table, outer, inner *models.Column) map[string]map[string]int {
	out := make(map[string]map[string]int)
	for r := 0; r < t.Rows(); r++ {
		if !outer.Valid[r] || !inner.Valid[r] {
			continue
		}
		ok := strings.ToLower(strings.TrimSpace(outer.Cells[r]))
		ik := strings.ToLower(strings.TrimSpace(inner.Cells[r]))
		if out[ok] == nil {
			out[ok] = make(map[string]int)
		}
		out[ok][ik]++
	}
	return out
}

func alignedValues(t *models.Table, a, b *models.Column) (xs, ys []float64) {
	for r := 0; r < t.Rows(); r++ {
		av, aok := a.FloatAt(r)
		bv, bok := b.FloatAt(r)
		if aok && bok {
			xs = append(xs, av)
			ys = append(ys, bv)
		}
	}
	return xs, ys
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

func sortedGroupKeys(m map[string]outcomeCounts) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return labelLess(keys[i], keys[j]) })
	return keys
}

func sortedMapKeys(m map[string][]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedMapKeysCounts(m map[string]map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func genderColor(g string) string {
	if strings.EqualFold(g, "female") || strings.EqualFold(g, "f") {
		return "#ec4899"
	}
	return "#3b82f6"
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func seriesMedian(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	cp := append([]float64(nil), xs...)
	sort.Float64s(cp)
	mid := len(cp) / 2
	if len(cp)%2 == 1 {
		return cp[mid]
	}
	return (cp[mid-1] + cp[mid]) / 2
}
