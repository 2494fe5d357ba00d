package cleaning

import (
	"cmp"
	"math"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"
)

const (
	iqrFactor    = 1.5
	zScoreCutoff = 3.0
)

// quantile returns the p-quantile of values by linear interpolation between
// the closest order statistics (numpy's default "linear" method). NaN for
// an empty input.
func quantile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

func median(values []float64) float64 {
	return quantile(values, 0.5)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return stat.Mean(values, nil)
}

// iqrBounds returns [Q1 - 1.5·IQR, Q3 + 1.5·IQR].
func iqrBounds(values []float64) (lower, upper float64) {
	q1 := quantile(values, 0.25)
	q3 := quantile(values, 0.75)
	iqr := q3 - q1
	return q1 - iqrFactor*iqr, q3 + iqrFactor*iqr
}

// zScoreKeep returns a predicate keeping values with |z| < 3, using the
// population standard deviation. A constant column has no outliers.
func zScoreKeep(values []float64) func(v float64) bool {
	if len(values) == 0 {
		return func(float64) bool { return false }
	}
	mu, sigma := stat.PopMeanStdDev(values, nil)
	if sigma == 0 || math.IsNaN(sigma) {
		return func(float64) bool { return true }
	}
	return func(v float64) bool {
		return math.Abs((v-mu)/sigma) < zScoreCutoff
	}
}

// modeOf returns the most frequent value; ties go to the smallest value
// under compare. ok is false for an empty input.
func modeOf[T comparable](values []T, compare func(a, b T) int) (mode T, ok bool) {
	counts := make(map[T]int, len(values))
	best := 0
	for _, v := range values {
		counts[v]++
		c := counts[v]
		if c > best || (c == best && compare(v, mode) < 0) {
			best, mode = c, v
		}
	}
	return mode, best > 0
}

func floatMode(values []float64) (float64, bool) {
	return modeOf(values, cmp.Compare[float64])
}

func stringMode(values []string) (string, bool) {
	return modeOf(values, cmp.Compare[string])
}

// timeMode keys on the instant so equal times in different locations count together.
func timeMode(values []time.Time) (time.Time, bool) {
	nanos := make([]int64, len(values))
	byNano := make(map[int64]time.Time, len(values))
	for i, v := range values {
		nanos[i] = v.UnixNano()
		if _, seen := byNano[nanos[i]]; !seen {
			byNano[nanos[i]] = v
		}
	}
	n, ok := modeOf(nanos, cmp.Compare[int64])
	return byNano[n], ok
}
