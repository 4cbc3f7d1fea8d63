package insight

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeanAndStddev(t *testing.T) {
	xs := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	assert.InDelta(t, 5.0, mean(xs), 1e-9)
	assert.InDelta(t, 2.138, stddev(xs), 0.001)
}

func TestMedian(t *testing.T) {
	assert.InDelta(t, 3.0, median([]float64{5, 1, 3}), 1e-9)
	assert.InDelta(t, 2.5, median([]float64{4, 1, 2, 3}), 1e-9)
	assert.Equal(t, 0.0, median(nil))
}

func TestSkewnessSymmetric(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5}
	assert.InDelta(t, 0.0, skewness(xs), 1e-9)
}

func TestSkewnessRightTail(t *testing.T) {
	xs := []float64{1, 1, 1, 2, 2, 3, 10, 20}
	assert.Greater(t, skewness(xs), 0.5)
}

func TestPearsonPerfectCorrelation(t *testing.T) {
	xs := []float64{1, 2, 3, 4}
	assert.InDelta(t, 1.0, Pearson(xs, []float64{2, 4, 6, 8}), 1e-9)
	assert.InDelta(t, -1.0, Pearson(xs, []float64{8, 6, 4, 2}), 1e-9)
}

func TestPearsonConstantSeries(t *testing.T) {
	assert.Equal(t, 0.0, Pearson([]float64{1, 2, 3}, []float64{5, 5, 5}))
}

func TestChiSquareTestStrongAssociation(t *testing.T) {
	// Two groups with opposite outcomes should reject independence.
	observed := [][]float64{
		{90, 10},
		{10, 90},
	}
	stat, p := chiSquareTest(observed)
	assert.Greater(t, stat, 10.0)
	assert.Less(t, p, 0.01)
}

func TestChiSquareTestNoAssociation(t *testing.T) {
	observed := [][]float64{
		{50, 50},
		{50, 50},
	}
	_, p := chiSquareTest(observed)
	assert.Greater(t, p, 0.9)
}

func TestWelchTTestSeparatedMeans(t *testing.T) {
	a := []float64{10, 11, 9, 10.5, 10, 9.5, 10.2, 10.8}
	b := []float64{20, 21, 19, 20.5, 20, 19.5, 20.2, 20.8}
	_, p := welchTTest(a, b)
	assert.Less(t, p, 0.01)
}

func TestWelchTTestSameDistribution(t *testing.T) {
	a := []float64{10, 11, 9, 10.5, 10, 9.5}
	b := []float64{10.1, 10.9, 9.2, 10.4, 10, 9.6}
	_, p := welchTTest(a, b)
	assert.Greater(t, p, 0.05)
}

func TestJarqueBeraSmallSample(t *testing.T) {
	_, p := jarqueBera([]float64{1, 2, 3})
	assert.Equal(t, 1.0, p)
}

func TestChiSquareSFBounds(t *testing.T) {
	assert.InDelta(t, 1.0, chiSquareSF(0, 1), 0.01)
	assert.Less(t, chiSquareSF(30, 1), 1e-4)
}
