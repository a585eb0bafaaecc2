package microbench

import (
	"math"
	"sort"
)

// Percentile returns the p-th percentile of an ascending sample, linearly
// interpolating between the two nearest ranks. p is clamped to [0, 100].
// An empty sample or a NaN p yields NaN.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 || math.IsNaN(p) {
		return math.NaN()
	}
	p = math.Max(0, math.Min(100, p))

	rank := p / 100 * float64(len(sorted)-1)
	low := int(math.Floor(rank))
	high := int(math.Ceil(rank))
	weight := rank - float64(low)
	v := sorted[low]*(1-weight) + sorted[high]*weight
	// rounding must not push the result outside its bracketing ranks
	return math.Max(sorted[low], math.Min(sorted[high], v))
}

// Summarize builds a Result from raw per-iteration timings in milliseconds.
// The input slice is not modified.
func Summarize(name string, timings []float64) Result {
	sorted := make([]float64, len(timings))
	copy(sorted, timings)
	sort.Float64s(sorted)

	result := Result{Name: name, Timings: sorted}
	if len(sorted) == 0 {
		return result
	}

	var total float64
	for _, t := range sorted {
		total += t
	}
	result.Avg = total / float64(len(sorted))
	result.Min = sorted[0]
	result.Max = sorted[len(sorted)-1]
	result.IterPerSec = 1000 / result.Avg

	result.StdDev = stdev(sorted, result.Avg)

	result.P75 = Percentile(sorted, 75)
	result.P99 = Percentile(sorted, 99)
	result.P995 = Percentile(sorted, 99.5)
	return result
}

func sortByAvg(results []Result) {
	sort.SliceStable(results, func(i, j int) bool { return results[i].Avg < results[j].Avg })
}

// stdev is the sample standard deviation; a single sample has none.
func stdev(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var numerator float64
	for _, value := range values {
		delta := value - mean
		numerator += delta * delta
	}
	return math.Sqrt(numerator / float64(len(values)-1))
}
