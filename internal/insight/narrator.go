// Package insight turns chart categories and table aggregates into
// structured natural-language findings.
package insight

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/csv-analyst/backend/internal/models"
)

const significanceLevel = 0.05

// Narrator produces an InsightBundle for a chart category. Analyzers never
// fail: missing columns yield a narrow bundle naming the requirement.
type Narrator struct {
	log *logrus.Logger
}

func NewNarrator(log *logrus.Logger) *Narrator {
	return &Narrator{log: log}
}

// Insights dispatches on the chart category. Every category is matched
// explicitly; an unrecognized tag falls back to the missing-analyzer bundle
// rather than silently borrowing another category's narrative.
func (n *Narrator) Insights(t *models.Table, cat models.ChartCategory) models.InsightBundle {
	switch cat {
	case models.CategorySurvival:
		return n.survivalInsights(t)
	case models.CategoryAge:
		return n.ageInsights(t)
	case models.CategoryGender:
		return n.genderInsights(t)
	case models.CategoryClass:
		return n.classInsights(t)
	case models.CategoryCorrelation:
		return n.correlationInsights(t)
	case models.CategoryOverview,
		models.CategoryFare,
		models.CategoryEmbarkation,
		models.CategoryFamily,
		models.CategoryHistogram,
		models.CategoryCategorical:
		return n.genericInsights(t, cat)
	default:
		n.log.WithField("category", cat).Warn("no insight analyzer for chart category")
		return missingBundle(fmt.Sprintf("no analyzer for chart category %q", cat))
	}
}

func missingBundle(requirement string) models.InsightBundle {
	return models.InsightBundle{
		KeyFindings: []string{
			requirement,
			"Please check data format and column names",
		},
		StatisticalSignificance: models.NotComputedSignificance("required data unavailable"),
		Trends:                  []string{"Analysis unavailable for this chart"},
		Comparisons:             []string{"Unable to perform comparisons"},
		BusinessRecommendations: []string{"Verify data format and completeness"},
	}
}

func (n *Narrator) survivalInsights(t *models.Table) models.InsightBundle {
	survived, ok := t.Column("survived")
	if !ok {
		return missingBundle("Survival column not found")
	}

	alive, dead := survived.TruthyCount()
	total := alive + dead
	if total == 0 {
		return missingBundle("No survival data available")
	}
	rate := float64(alive) / float64(total) * 100

	findings := []string{
		fmt.Sprintf("Overall survival rate: %.1f%% (%d out of %d passengers)", rate, alive, total),
	}
	var comparisons []string
	significance := models.NotComputedSignificance("class column unavailable for independence test")

	if class, ok := t.AnyColumn("pclass", "class"); ok {
		rates := groupTruthyRates(t, class, survived)
		keys := sortedKeys(rates)
		bestKey, worstKey := "", ""
		best, worst := -1.0, 2.0
		for _, k := range keys {
			r := rates[k].rate()
			findings = append(findings, fmt.Sprintf("Class %s survival rate: %.1f%%", k, r*100))
			if r > best {
				best, bestKey = r, k
			}
			if r < worst {
				worst, worstKey = r, k
			}
		}
		if bestKey != "" && worstKey != "" && bestKey != worstKey {
			comparisons = append(comparisons,
				fmt.Sprintf("Class %s passengers were %.1fx more likely to survive than class %s",
					bestKey, safeRatio(best, worst), worstKey),
				fmt.Sprintf("Survival gap between highest and lowest class: %.1f percentage points",
					(best-worst)*100),
			)
		}

		_, p := chiSquareFromGroups(rates)
		significance = models.Significance{
			Test:           "Chi-square test (Survival vs Class)",
			PValue:         fmt.Sprintf("%.4f", p),
			Result:         significanceWord(p),
			Interpretation: interpretIndependence(p, "Passenger class", "survival chances"),
		}
	}

	if sex, ok := t.AnyColumn("sex", "gender"); ok {
		rates := groupTruthyRates(t, sex, survived)
		if f, m := rates["female"], rates["male"]; f.total() > 0 && m.total() > 0 {
			fr, mr := f.rate()*100, m.rate()*100
			findings = append(findings,
				fmt.Sprintf("Female survival rate: %.1f%%", fr),
				fmt.Sprintf("Male survival rate: %.1f%%", mr),
			)
			comparisons = append(comparisons,
				fmt.Sprintf("Gender survival gap: %.1f percentage points", abs(fr-mr)))
		}
	}

	if len(comparisons) == 0 {
		comparisons = []string{"No grouping column available for survival comparisons"}
	}

	return models.InsightBundle{
		KeyFindings:             findings,
		StatisticalSignificance: significance,
		Trends: []string{
			"Higher passenger classes show better survival rates",
			"Economic status appears to be a strong predictor of survival",
			"Class-based survival differences suggest systematic bias in evacuation procedures",
		},
		Comparisons: comparisons,
		BusinessRecommendations: []string{
			"Safety protocol review: implement class-blind evacuation procedures",
			"Data-driven policy: use survival analysis to improve safety regulations",
			"Equity analysis: investigate systematic factors behind survival disparities",
		},
	}
}

func (n *Narrator) ageInsights(t *models.Table) models.InsightBundle {
	ageCol, ok := t.Column("age")
	if !ok {
		return missingBundle("Age column not found")
	}
	ages := ageCol.Float64s()
	if len(ages) == 0 {
		return missingBundle("No age data available")
	}

	meanAge := mean(ages)
	medAge := median(ages)
	sd := stddev(ages)
	lo, hi := minMax(ages)

	children, adults, elderly := 0, 0, 0
	for _, a := range ages {
		switch {
		case a < 18:
			children++
		case a < 65:
			adults++
		default:
			elderly++
		}
	}
	withAge := len(ages)

	findings := []string{
		fmt.Sprintf("Average passenger age: %.1f years (median: %.1f)", meanAge, medAge),
		fmt.Sprintf("Age range: %.0f to %.0f years (span: %.0f years)", lo, hi, hi-lo),
		fmt.Sprintf("Age groups: %d children (<18), %d adults (18-64), %d elderly (65+)",
			children, adults, elderly),
		fmt.Sprintf("Age data available for %d of %d rows (%.1f%%)",
			withAge, t.Rows(), pct(withAge, t.Rows())),
	}

	if survived, ok := t.Column("survived"); ok {
		alive, dead := splitFloatsByTruthy(t, ageCol, survived)
		if len(alive) > 1 && len(dead) > 1 {
			_, p := welchTTest(alive, dead)
			findings = append(findings,
				fmt.Sprintf("Average age of survivors: %.1f years", mean(alive)),
				fmt.Sprintf("Average age of casualties: %.1f years", mean(dead)),
				fmt.Sprintf("Age difference significance: %s (p=%.4f)", significanceWord(p), p),
			)
		}
	}

	_, normalP := jarqueBera(ages)
	normal := normalP > significanceLevel
	normResult := "Not normally distributed"
	normInterp := "Age distribution shows significant deviation from normal"
	if normal {
		normResult = "Normally distributed"
		normInterp = "Age follows a normal distribution pattern"
	}

	skew := skewness(ages)
	kurt := excessKurtosis(ages)
	tailWord := "normal tail distribution"
	if abs(kurt) > 1 {
		tailWord = "heavy tails (extreme ages)"
	}

	return models.InsightBundle{
		KeyFindings: findings,
		StatisticalSignificance: models.Significance{
			Test:           "Skewness-kurtosis normality test (Jarque-Bera)",
			PValue:         fmt.Sprintf("%.4f", normalP),
			Result:         normResult,
			Interpretation: normInterp,
		},
		Trends: []string{
			fmt.Sprintf("Distribution is %s", skewWord(skew)),
			fmt.Sprintf("Kurtosis %.2f indicates %s", kurt, tailWord),
			fmt.Sprintf("Standard deviation %.1f years indicates %s age variability",
				sd, variabilityWord(sd)),
		},
		Comparisons: []string{
			fmt.Sprintf("Children represent %.1f%% of rows with age data", pct(children, withAge)),
			fmt.Sprintf("Working-age adults represent %.1f%% of rows with age data", pct(adults, withAge)),
			fmt.Sprintf("Elderly represent %.1f%% of rows with age data", pct(elderly, withAge)),
		},
		BusinessRecommendations: []string{
			"Age-specific safety: develop targeted protocols for different age groups",
			"Demographic planning: use the age distribution for capacity and service planning",
			"Risk stratification: consider age in emergency response prioritization",
		},
	}
}

func (n *Narrator) genderInsights(t *models.Table) models.InsightBundle {
	sex, ok := t.AnyColumn("sex", "gender")
	if !ok {
		return missingBundle("Gender column not found")
	}

	counts := sex.ValueCounts()
	total := 0
	maleN, femaleN := 0, 0
	for _, vc := range counts {
		total += vc.Count
		switch strings.ToLower(vc.Value) {
		case "male", "m":
			maleN += vc.Count
		case "female", "f":
			femaleN += vc.Count
		}
	}
	if total == 0 {
		return missingBundle("No gender data available")
	}

	findings := []string{
		fmt.Sprintf("Gender distribution: %d males (%.1f%%), %d females (%.1f%%)",
			maleN, pct(maleN, total), femaleN, pct(femaleN, total)),
		fmt.Sprintf("Rows with gender data: %d", total),
	}
	if femaleN > 0 {
		findings = append(findings,
			fmt.Sprintf("Gender ratio: %.2f males per female", float64(maleN)/float64(femaleN)))
	}

	significance := models.NotComputedSignificance("survival column unavailable for independence test")
	var comparisons []string

	if survived, ok := t.Column("survived"); ok {
		rates := groupTruthyRates(t, sex, survived)
		f, m := rates["female"], rates["male"]
		if f.total() > 0 && m.total() > 0 {
			fr, mr := f.rate()*100, m.rate()*100
			findings = append(findings,
				fmt.Sprintf("Female survival rate: %.1f%%", fr),
				fmt.Sprintf("Male survival rate: %.1f%%", mr),
			)
			comparisons = append(comparisons,
				fmt.Sprintf("Gender survival gap: %.1f percentage points", abs(fr-mr)))
			if mr > 0 {
				comparisons = append(comparisons,
					fmt.Sprintf("Women were %.1fx more likely to survive than men", fr/mr))
			}
		}
		_, p := chiSquareFromGroups(rates)
		significance = models.Significance{
			Test:           "Chi-square test (Gender vs Survival)",
			PValue:         fmt.Sprintf("%.4f", p),
			Result:         significanceWord(p),
			Interpretation: interpretIndependence(p, "Gender", "survival chances"),
		}
	}

	if age, ok := t.Column("age"); ok {
		byGender := splitFloatsByGroup(t, age, sex)
		if f, m := byGender["female"], byGender["male"]; len(f) > 0 && len(m) > 0 {
			findings = append(findings,
				fmt.Sprintf("Average female age: %.1f years", mean(f)),
				fmt.Sprintf("Average male age: %.1f years", mean(m)),
			)
		}
	}

	if len(comparisons) == 0 {
		comparisons = []string{
			fmt.Sprintf("Gender imbalance: %.1f percentage point difference",
				abs(pct(maleN, total)-pct(femaleN, total))),
		}
	}

	return models.InsightBundle{
		KeyFindings:             findings,
		StatisticalSignificance: significance,
		Trends: []string{
			compositionWord(maleN, femaleN, total) + " passenger composition",
			"Survival patterns show clear gender-based differences",
		},
		Comparisons: comparisons,
		BusinessRecommendations: []string{
			"Equal safety standards: ensure gender-neutral emergency procedures",
			"Demographic insight: use gender distribution for service planning",
		},
	}
}

func (n *Narrator) classInsights(t *models.Table) models.InsightBundle {
	class, ok := t.AnyColumn("pclass", "class")
	if !ok {
		return missingBundle("Class column not found")
	}

	counts := class.ValueCounts()
	if len(counts) == 0 {
		return missingBundle("No class data available")
	}
	total := 0
	for _, vc := range counts {
		total += vc.Count
	}

	sorted := append([]models.ValueCount(nil), counts...)
	sort.Slice(sorted, func(i, j int) bool { return classLess(sorted[i].Value, sorted[j].Value) })

	findings := make([]string, 0, len(sorted)+1)
	findings = append(findings, fmt.Sprintf("Passengers split across %d classes", len(sorted)))
	for _, vc := range sorted {
		findings = append(findings, fmt.Sprintf("Class %s: %d passengers (%.1f%%)",
			vc.Value, vc.Count, pct(vc.Count, total)))
	}

	significance := models.NotComputedSignificance("survival column unavailable for independence test")
	if survived, ok := t.Column("survived"); ok {
		rates := groupTruthyRates(t, class, survived)
		_, p := chiSquareFromGroups(rates)
		significance = models.Significance{
			Test:           "Chi-square test (Class vs Survival)",
			PValue:         fmt.Sprintf("%.4f", p),
			Result:         significanceWord(p),
			Interpretation: interpretIndependence(p, "Passenger class", "survival chances"),
		}
	}

	return models.InsightBundle{
		KeyFindings:             findings,
		StatisticalSignificance: significance,
		Trends: []string{
			"Class sizes reflect the ship's accommodation structure",
			"Class membership correlates with fare and deck location",
		},
		Comparisons: []string{
			fmt.Sprintf("Largest class holds %.1f%% of passengers", pct(counts[0].Count, total)),
		},
		BusinessRecommendations: []string{
			"Capacity planning: align safety resources with class sizes",
		},
	}
}

func (n *Narrator) correlationInsights(t *models.Table) models.InsightBundle {
	cols := t.NumericLikeColumns()
	if len(cols) < 2 {
		return missingBundle("Not enough numeric columns for correlation analysis")
	}

	type pairCorr struct {
		a, b string
		r    float64
	}
	var pairs []pairCorr
	for i := 0; i < len(cols); i++ {
		for j := i + 1; j < len(cols); j++ {
			xs, ys := alignedPairs(t, cols[i], cols[j])
			if len(xs) < 2 {
				continue
			}
			pairs = append(pairs, pairCorr{a: cols[i].Name, b: cols[j].Name, r: Pearson(xs, ys)})
		}
	}
	if len(pairs) == 0 {
		return missingBundle("No overlapping numeric data for correlation analysis")
	}
	sort.Slice(pairs, func(i, j int) bool { return abs(pairs[i].r) > abs(pairs[j].r) })

	findings := []string{
		fmt.Sprintf("Analyzed correlations between %d numeric variables", len(cols)),
		fmt.Sprintf("Strongest correlation: %s and %s (r=%.3f)", pairs[0].a, pairs[0].b, pairs[0].r),
	}
	for _, p := range pairs[:minInt(3, len(pairs))] {
		findings = append(findings, fmt.Sprintf("%s vs %s: %s %s correlation (r=%.3f)",
			p.a, p.b, strengthWord(p.r), directionWord(p.r), p.r))
	}

	meaningful := 0
	positive, negative := 0, 0
	for _, p := range pairs {
		if abs(p.r) > 0.3 {
			meaningful++
			if p.r > 0 {
				positive++
			} else {
				negative++
			}
		}
	}

	return models.InsightBundle{
		KeyFindings: findings,
		StatisticalSignificance: models.Significance{
			Test:           "Pearson correlation coefficients",
			Result:         fmt.Sprintf("%d pairs above |r|=0.3", meaningful),
			Interpretation: "Correlations above 0.3 in absolute value indicate meaningful relationships",
		},
		Trends: []string{
			"Correlation patterns reveal underlying data relationships and potential redundancies",
			"Strong correlations may indicate multicollinearity concerns for predictive modeling",
		},
		Comparisons: []string{
			fmt.Sprintf("Positive correlations above threshold: %d, negative: %d", positive, negative),
		},
		BusinessRecommendations: []string{
			"Feature selection: use correlation insights to identify redundant variables",
			"Relationship mapping: leverage strong correlations to understand drivers",
		},
	}
}

func (n *Narrator) genericInsights(t *models.Table, cat models.ChartCategory) models.InsightBundle {
	label := strings.ReplaceAll(string(cat), "_", " ")
	return models.InsightBundle{
		KeyFindings: []string{
			fmt.Sprintf("Dataset contains %d records across %d variables", t.Rows(), t.Cols()),
			fmt.Sprintf("Chart type: %s", label),
			"Visualization reveals data patterns and distributions",
		},
		StatisticalSignificance: models.NotComputedSignificance(
			"descriptive chart; no hypothesis test applies"),
		Trends: []string{
			"Data distribution reveals underlying patterns in the dataset",
		},
		Comparisons: []string{
			fmt.Sprintf("Data completeness varies by variable across %d observations", t.Rows()),
		},
		BusinessRecommendations: []string{
			"Data exploration: use this visualization to identify areas for deeper analysis",
		},
	}
}

// --- aggregation helpers ---

type truthyGroup struct {
	trueN, falseN int
}

func (g truthyGroup) total() int { return g.trueN + g.falseN }

func (g truthyGroup) rate() float64 {
	if g.total() == 0 {
		return 0
	}
	return float64(g.trueN) / float64(g.total())
}

// groupTruthyRates buckets rows by the group column's lower-cased value and
// counts the boolean column's true/false occurrences per bucket.
func groupTruthyRates(t *models.Table, group, boolean *models.Column) map[string]truthyGroup {
	out := make(map[string]truthyGroup)
	for r := 0; r < t.Rows(); r++ {
		if !group.Valid[r] || !boolean.Valid[r] {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(group.Cells[r]))
		g := out[key]
		switch strings.ToLower(strings.TrimSpace(boolean.Cells[r])) {
		case "1", "true", "yes", "y":
			g.trueN++
		case "0", "false", "no", "n":
			g.falseN++
		default:
			continue
		}
		out[key] = g
	}
	return out
}

func chiSquareFromGroups(groups map[string]truthyGroup) (stat, p float64) {
	table := make([][]float64, 0, len(groups))
	for _, k := range sortedKeys(groups) {
		g := groups[k]
		table = append(table, []float64{float64(g.falseN), float64(g.trueN)})
	}
	return chiSquareTest(table)
}

// splitFloatsByTruthy partitions a numeric column's values by a boolean
// column, row-aligned.
func splitFloatsByTruthy(t *models.Table, numeric, boolean *models.Column) (trues, falses []float64) {
	for r := 0; r < t.Rows(); r++ {
		if !numeric.Valid[r] || !boolean.Valid[r] {
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(numeric.Cells[r]), 64)
		if err != nil {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(boolean.Cells[r])) {
		case "1", "true", "yes", "y":
			trues = append(trues, f)
		case "0", "false", "no", "n":
			falses = append(falses, f)
		}
	}
	return trues, falses
}

func splitFloatsByGroup(t *models.Table, numeric, group *models.Column) map[string][]float64 {
	out := make(map[string][]float64)
	for r := 0; r < t.Rows(); r++ {
		if !numeric.Valid[r] || !group.Valid[r] {
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(numeric.Cells[r]), 64)
		if err != nil {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(group.Cells[r]))
		out[key] = append(out[key], f)
	}
	return out
}


// alignedPairs extracts rows where both columns hold parseable values.
func alignedPairs(t *models.Table, a, b *models.Column) (xs, ys []float64) {
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

// --- phrasing helpers ---

func significanceWord(p float64) string {
	if p < significanceLevel {
		return "Statistically significant"
	}
	return "Not statistically significant"
}

func interpretIndependence(p float64, factor, outcome string) string {
	if p < significanceLevel {
		return fmt.Sprintf("%s significantly affects %s", factor, outcome)
	}
	return fmt.Sprintf("No significant relationship between %s and %s",
		strings.ToLower(factor), outcome)
}

func skewWord(skew float64) string {
	switch {
	case skew > 0.5:
		return "right-skewed (younger bias)"
	case skew < -0.5:
		return "left-skewed (older bias)"
	default:
		return "approximately symmetric"
	}
}

func variabilityWord(sd float64) string {
	if sd > 15 {
		return "high"
	}
	return "moderate"
}

func compositionWord(maleN, femaleN, total int) string {
	switch {
	case pct(maleN, total) > 60:
		return "Male-dominated"
	case pct(femaleN, total) > 60:
		return "Female-dominated"
	default:
		return "Balanced"
	}
}

func strengthWord(r float64) string {
	switch a := abs(r); {
	case a >= 0.7:
		return "strong"
	case a >= 0.5:
		return "moderate"
	case a >= 0.3:
		return "weak"
	default:
		return "very weak"
	}
}

func directionWord(r float64) string {
	if r > 0 {
		return "positive"
	}
	return "negative"
}

// classLess orders class labels numerically when possible, lexically
// otherwise, so "Class 1" precedes "Class 2" regardless of input order.
func classLess(a, b string) bool {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		return fa < fb
	}
	return a < b
}

func sortedKeys(m map[string]truthyGroup) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return classLess(keys[i], keys[j]) })
	return keys
}

func pct(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func safeRatio(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
