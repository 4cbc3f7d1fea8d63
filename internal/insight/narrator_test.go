package insight

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csv-analyst/backend/internal/models"
)

func testNarrator() *Narrator {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewNarrator(log)
}

func col(name string, kind models.ColumnKind, cells ...string) models.Column {
	valid := make([]bool, len(cells))
	for i, c := range cells {
		valid[i] = c != ""
	}
	return models.Column{Name: name, Kind: kind, Cells: cells, Valid: valid}
}

func titanicTable(t *testing.T) *models.Table {
	tbl, err := models.NewTable("titanic.csv", []models.Column{
		col("Survived", models.KindBoolean, "0", "1", "1", "0", "1", "0"),
		col("Pclass", models.KindNumeric, "3", "1", "1", "3", "2", "3"),
		col("Sex", models.KindCategorical, "male", "female", "female", "male", "female", "male"),
		col("Age", models.KindNumeric, "22", "38", "26", "35", "", "54"),
		col("Fare", models.KindNumeric, "7.25", "71.28", "7.92", "8.05", "13.0", "51.86"),
	})
	require.NoError(t, err)
	return tbl
}

func TestSurvivalInsightsReportsRate(t *testing.T) {
	b := testNarrator().Insights(titanicTable(t), models.CategorySurvival)
	require.NotEmpty(t, b.KeyFindings)
	assert.Contains(t, b.KeyFindings[0], "50.0%")
	assert.Contains(t, b.KeyFindings[0], "3 out of 6")
	assert.NotEqual(t, "none", b.StatisticalSignificance.Test)
}

func TestSurvivalInsightsWithoutColumn(t *testing.T) {
	tbl, err := models.NewTable("plain.csv", []models.Column{
		col("value", models.KindNumeric, "1", "2", "3"),
	})
	require.NoError(t, err)

	b := testNarrator().Insights(tbl, models.CategorySurvival)
	assert.Contains(t, b.KeyFindings[0], "Survival column not found")
	assert.Equal(t, "not computed", b.StatisticalSignificance.Result)
}

func TestAgeInsightsStats(t *testing.T) {
	b := testNarrator().Insights(titanicTable(t), models.CategoryAge)
	require.NotEmpty(t, b.KeyFindings)
	// mean of 22, 38, 26, 35, 54 = 35.0
	assert.Contains(t, b.KeyFindings[0], "35.0")
	assert.Contains(t, b.KeyFindings[1], "22 to 54")
}

func TestAgeInsightsWithoutColumn(t *testing.T) {
	tbl, err := models.NewTable("plain.csv", []models.Column{
		col("value", models.KindNumeric, "1", "2"),
	})
	require.NoError(t, err)

	b := testNarrator().Insights(tbl, models.CategoryAge)
	assert.Contains(t, b.KeyFindings[0], "Age column not found")
}

func TestGenderInsightsCountsAndGap(t *testing.T) {
	b := testNarrator().Insights(titanicTable(t), models.CategoryGender)
	require.NotEmpty(t, b.KeyFindings)
	assert.Contains(t, b.KeyFindings[0], "3 males")
	assert.Contains(t, b.KeyFindings[0], "3 females")
	// all three females survived, one of three males survived
	assert.NotEmpty(t, b.Comparisons)
}

func TestClassInsightsOrderedByClass(t *testing.T) {
	b := testNarrator().Insights(titanicTable(t), models.CategoryClass)
	require.GreaterOrEqual(t, len(b.KeyFindings), 4)
	assert.Contains(t, b.KeyFindings[1], "Class 1")
	assert.Contains(t, b.KeyFindings[2], "Class 2")
	assert.Contains(t, b.KeyFindings[3], "Class 3")
}

func TestCorrelationInsightsNeedsTwoNumerics(t *testing.T) {
	tbl, err := models.NewTable("one.csv", []models.Column{
		col("value", models.KindNumeric, "1", "2", "3"),
		col("name", models.KindCategorical, "a", "b", "c"),
	})
	require.NoError(t, err)

	b := testNarrator().Insights(tbl, models.CategoryCorrelation)
	assert.Contains(t, b.KeyFindings[0], "Not enough numeric columns")
}

func TestCorrelationInsightsIncludesBooleans(t *testing.T) {
	b := testNarrator().Insights(titanicTable(t), models.CategoryCorrelation)
	require.NotEmpty(t, b.KeyFindings)
	// Survived (boolean), Pclass, Age, Fare all participate.
	assert.Contains(t, b.KeyFindings[0], "4 numeric variables")
}

func TestGenericInsightsNeverEmpty(t *testing.T) {
	tbl := titanicTable(t)
	for _, cat := range []models.ChartCategory{
		models.CategoryOverview,
		models.CategoryFare,
		models.CategoryEmbarkation,
		models.CategoryFamily,
		models.CategoryHistogram,
		models.CategoryCategorical,
	} {
		b := testNarrator().Insights(tbl, cat)
		assert.NotEmpty(t, b.KeyFindings, "category %s", cat)
		assert.NotEmpty(t, b.Trends, "category %s", cat)
		assert.NotEmpty(t, b.BusinessRecommendations, "category %s", cat)
	}
}

func TestGroupTruthyRates(t *testing.T) {
	tbl := titanicTable(t)
	class, ok := tbl.Column("pclass")
	require.True(t, ok)
	survived, ok := tbl.Column("survived")
	require.True(t, ok)

	rates := groupTruthyRates(tbl, class, survived)
	assert.InDelta(t, 1.0, rates["1"].rate(), 1e-9)
	assert.InDelta(t, 0.0, rates["3"].rate(), 1e-9)
}
