package profile

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csv-analyst/backend/internal/models"
)

func testEngine() *Engine {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewEngine(log)
}

func titanicTable(t *testing.T) *models.Table {
	return mustTable(t,
		col("PassengerId", models.KindNumeric, "1", "2", "3", "4", "5", "6"),
		col("Survived", models.KindBoolean, "0", "1", "1", "0", "1", "0"),
		col("Pclass", models.KindNumeric, "3", "1", "1", "3", "2", "3"),
		col("Sex", models.KindCategorical, "male", "female", "female", "male", "female", "male"),
		col("Age", models.KindNumeric, "22", "38", "26", "35", "", "54"),
		col("Fare", models.KindNumeric, "7.25", "71.28", "7.92", "8.05", "13.0", "51.86"),
		col("Embarked", models.KindCategorical, "S", "C", "S", "S", "Q", "S"),
		col("SibSp", models.KindNumeric, "1", "1", "0", "0", "0", "0"),
		col("Parch", models.KindNumeric, "0", "0", "0", "0", "0", "0"),
		col("Deck", models.KindCategorical, "A", "B", "A", "C", "B", "A"),
	)
}

func categoriesOf(charts []models.ChartDescriptor) []models.ChartCategory {
	out := make([]models.ChartCategory, len(charts))
	for i, c := range charts {
		out[i] = c.Category
	}
	return out
}

func TestCatalogueOrderForTitanicTable(t *testing.T) {
	charts := testEngine().Charts(titanicTable(t))

	assert.Equal(t, []models.ChartCategory{
		models.CategoryOverview,
		models.CategorySurvival,
		models.CategoryAge,
		models.CategoryClass,
		models.CategoryGender,
		models.CategoryFare,
		models.CategoryEmbarkation,
		models.CategoryFamily,
		models.CategoryHistogram,   // SibSp
		models.CategoryHistogram,   // Parch
		models.CategoryCategorical, // Deck
		models.CategoryCorrelation,
	}, categoriesOf(charts))

	for _, c := range charts {
		assert.NotNil(t, c.Insights, "chart %s has no insights", c.Category)
	}
}

func TestCatalogueForPlainTable(t *testing.T) {
	tbl := mustTable(t,
		col("amount", models.KindNumeric, "10", "20", "30"),
		col("label", models.KindCategorical, "x", "y", "x"),
	)
	charts := testEngine().Charts(tbl)

	assert.Equal(t, []models.ChartCategory{
		models.CategoryOverview,
		models.CategoryHistogram,
		models.CategoryCategorical,
	}, categoriesOf(charts))
}

func TestSurvivalChartValues(t *testing.T) {
	desc, err := testEngine().survivalChart(titanicTable(t))
	require.NoError(t, err)
	require.NotNil(t, desc)
	require.Len(t, desc.Panels, 4)

	pie := desc.Panels[2]
	assert.Equal(t, models.ChartPie, pie.Kind)
	require.Len(t, pie.Series, 1)
	assert.Equal(t, []string{"Did not survive", "Survived"}, pie.Series[0].Labels)
	assert.Equal(t, []float64{3, 3}, pie.Series[0].Values)
	assert.Equal(t, []string{"#ef4444", "#10b981"}, pie.Series[0].Colors)
	assert.InDelta(t, 0.3, pie.Layout.Hole, 1e-9)

	byClass := desc.Panels[0]
	require.Len(t, byClass.Series, 2)
	assert.Equal(t, []string{"Class 1", "Class 2", "Class 3"}, byClass.Series[0].Labels)
	// class 1: both survived; class 2: survived; class 3: none survived
	assert.Equal(t, []float64{0, 0, 3}, byClass.Series[0].Values)
	assert.Equal(t, []float64{2, 1, 0}, byClass.Series[1].Values)
}

func TestSurvivalChartNotApplicableWithoutClass(t *testing.T) {
	tbl := mustTable(t,
		col("Survived", models.KindBoolean, "0", "1"),
		col("Age", models.KindNumeric, "20", "30"),
	)
	desc, err := testEngine().survivalChart(tbl)
	assert.NoError(t, err)
	assert.Nil(t, desc)
}

func TestClassChartSortedAscending(t *testing.T) {
	tbl := mustTable(t,
		col("Pclass", models.KindNumeric, "3", "3", "3", "1", "2", "2"),
	)
	desc, err := testEngine().classChart(tbl)
	require.NoError(t, err)
	require.NotNil(t, desc)
	require.Len(t, desc.Series, 1)
	assert.Equal(t, []string{"Class 1", "Class 2", "Class 3"}, desc.Series[0].Labels)
	assert.Equal(t, []float64{1, 2, 3}, desc.Series[0].Values)
	assert.InDelta(t, 0.4, desc.Layout.Hole, 1e-9)
}

func TestEmbarkationChartMapsPortNames(t *testing.T) {
	desc, err := testEngine().embarkationChart(titanicTable(t))
	require.NoError(t, err)
	require.NotNil(t, desc)
	// S is most frequent, then C and Q by value
	assert.Equal(t, []string{"Southampton", "Cherbourg", "Queenstown"}, desc.Series[0].Labels)
	assert.Equal(t, []float64{4, 1, 1}, desc.Series[0].Values)
}

func TestFamilyChartSizes(t *testing.T) {
	desc, err := testEngine().familyChart(titanicTable(t))
	require.NoError(t, err)
	require.NotNil(t, desc)
	// four passengers travel alone, two have one sibling/spouse
	assert.Equal(t, []string{"1", "2"}, desc.Series[0].Labels)
	assert.Equal(t, []float64{4, 2}, desc.Series[0].Values)
}

func TestFareChartUsesFiftyBins(t *testing.T) {
	desc, err := testEngine().fareChart(titanicTable(t))
	require.NoError(t, err)
	require.NotNil(t, desc)
	assert.Equal(t, 50, desc.Layout.Bins)
	assert.Equal(t, []string{"#8b5cf6"}, desc.Series[0].Colors)
}

func TestLeftoverHistogramSkipsAllNullColumn(t *testing.T) {
	tbl := mustTable(t,
		col("amount", models.KindNumeric, "1", "2", "3"),
		col("empty", models.KindNumeric, "", "", ""),
	)
	charts := testEngine().leftoverHistograms(tbl)
	require.Len(t, charts, 1)
	assert.Equal(t, "Distribution of amount", charts[0].Title)
}

func TestLeftoverCategoricalBounds(t *testing.T) {
	constant := col("constant", models.KindCategorical, "x", "x", "x")
	varied := col("varied", models.KindCategorical, "a", "b", "c")
	tbl := mustTable(t, constant, varied)

	charts := testEngine().leftoverCategoricals(tbl)
	require.Len(t, charts, 1)
	assert.Equal(t, "Distribution of varied", charts[0].Title)
}

func TestCorrelationChartRequiresThreeNumericLike(t *testing.T) {
	tbl := mustTable(t,
		col("a", models.KindNumeric, "1", "2", "3"),
		col("b", models.KindNumeric, "2", "4", "6"),
	)
	desc, err := testEngine().correlationChart(tbl)
	assert.NoError(t, err)
	assert.Nil(t, desc)
}

func TestCorrelationChartMatrix(t *testing.T) {
	tbl := mustTable(t,
		col("a", models.KindNumeric, "1", "2", "3", "4"),
		col("b", models.KindNumeric, "2", "4", "6", "8"),
		col("c", models.KindNumeric, "4", "3", "2", "1"),
	)
	desc, err := testEngine().correlationChart(tbl)
	require.NoError(t, err)
	require.NotNil(t, desc)

	m := desc.Series[0].Matrix
	require.Len(t, m, 3)
	assert.InDelta(t, 1.0, m[0][0], 1e-9)
	assert.InDelta(t, 1.0, m[0][1], 1e-9)
	assert.InDelta(t, -1.0, m[0][2], 1e-9)
	assert.InDelta(t, m[1][2], m[2][1], 1e-9)
}

func TestOverviewChartPanels(t *testing.T) {
	desc, err := testEngine().overviewChart(titanicTable(t))
	require.NoError(t, err)
	require.NotNil(t, desc)
	// dtype pie, completeness bar, missing matrix (Age has a gap), gauge
	require.Len(t, desc.Panels, 4)
	assert.Equal(t, models.ChartGauge, desc.Panels[3].Kind)

	// least complete column sorts first
	assert.Equal(t, "Age", desc.Panels[1].Series[0].Labels[0])
}

func TestOverviewChartSkipsMissingMatrixWhenComplete(t *testing.T) {
	tbl := mustTable(t,
		col("a", models.KindNumeric, "1", "2"),
		col("b", models.KindCategorical, "x", "y"),
	)
	desc, err := testEngine().overviewChart(tbl)
	require.NoError(t, err)
	require.Len(t, desc.Panels, 3)
}
