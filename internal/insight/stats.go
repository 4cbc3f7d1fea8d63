package insight

import (
	"math"
	"sort"
)

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func stddev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	var ss float64
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}

func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	cp := append([]float64(nil), xs...)
	sort.Float64s(cp)
	n := len(cp)
	if n%2 == 1 {
		return cp[n/2]
	}
	return (cp[n/2-1] + cp[n/2]) / 2
}

func minMax(xs []float64) (lo, hi float64) {
	if len(xs) == 0 {
		return 0, 0
	}
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

// skewness is the third standardized moment; 0 when the deviation is 0.
func skewness(xs []float64) float64 {
	n := float64(len(xs))
	if n == 0 {
		return 0
	}
	m := mean(xs)
	sd := stddev(xs)
	if sd == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		d := x - m
		sum += d * d * d
	}
	return sum / (n * sd * sd * sd)
}

// excessKurtosis is the fourth standardized moment minus 3.
func excessKurtosis(xs []float64) float64 {
	n := float64(len(xs))
	if n == 0 {
		return 0
	}
	m := mean(xs)
	sd := stddev(xs)
	if sd == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		d := x - m
		sum += d * d * d * d
	}
	return sum/(n*sd*sd*sd*sd) - 3
}

// normalCDF is the standard normal distribution function.
func normalCDF(z float64) float64 {
	return 0.5 * (1 + math.Erf(z/math.Sqrt2))
}

// chiSquareSF approximates the chi-square survival function via the
// Wilson-Hilferty cube-root normal transform.
func chiSquareSF(x float64, dof int) float64 {
	if dof <= 0 || x <= 0 {
		return 1
	}
	k := float64(dof)
	z := (math.Cbrt(x/k) - (1 - 2/(9*k))) / math.Sqrt(2/(9*k))
	return 1 - normalCDF(z)
}

// chiSquareTest runs a test of independence on a contingency table.
// Returns the statistic and approximate p-value; p=1 when the table is
// degenerate.
func chiSquareTest(observed [][]float64) (stat, p float64) {
	rows := len(observed)
	if rows == 0 {
		return 0, 1
	}
	cols := len(observed[0])
	if cols == 0 {
		return 0, 1
	}

	rowSums := make([]float64, rows)
	colSums := make([]float64, cols)
	total := 0.0
	for i := range observed {
		for j := range observed[i] {
			rowSums[i] += observed[i][j]
			colSums[j] += observed[i][j]
			total += observed[i][j]
		}
	}
	if total == 0 {
		return 0, 1
	}

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			expected := rowSums[i] * colSums[j] / total
			if expected == 0 {
				continue
			}
			d := observed[i][j] - expected
			stat += d * d / expected
		}
	}
	dof := (rows - 1) * (cols - 1)
	return stat, chiSquareSF(stat, dof)
}

// welchTTest compares two sample means; the p-value uses the normal
// approximation, adequate at the sample sizes this service profiles.
func welchTTest(a, b []float64) (t, p float64) {
	if len(a) < 2 || len(b) < 2 {
		return 0, 1
	}
	ma, mb := mean(a), mean(b)
	va := stddev(a) * stddev(a)
	vb := stddev(b) * stddev(b)
	se := math.Sqrt(va/float64(len(a)) + vb/float64(len(b)))
	if se == 0 {
		return 0, 1
	}
	t = (ma - mb) / se
	p = 2 * (1 - normalCDF(math.Abs(t)))
	return t, p
}

// jarqueBera tests for normality from skewness and excess kurtosis;
// the statistic is chi-square with 2 degrees of freedom.
func jarqueBera(xs []float64) (stat, p float64) {
	n := float64(len(xs))
	if n < 8 {
		return 0, 1
	}
	s := skewness(xs)
	k := excessKurtosis(xs)
	stat = n / 6 * (s*s + k*k/4)
	return stat, chiSquareSF(stat, 2)
}

// Pearson computes the correlation coefficient of two equal-length series,
// clamped to [-1, 1]; 0 when degenerate.
func Pearson(xs, ys []float64) float64 {
	n := float64(len(xs))
	if len(xs) != len(ys) || len(xs) < 2 {
		return 0
	}
	var sumX, sumY, sumXX, sumYY, sumXY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXX += xs[i] * xs[i]
		sumYY += ys[i] * ys[i]
		sumXY += xs[i] * ys[i]
	}
	denom := math.Sqrt((n*sumXX - sumX*sumX) * (n*sumYY - sumY*sumY))
	if denom == 0 {
		return 0
	}
	r := (n*sumXY - sumX*sumY) / denom
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}
