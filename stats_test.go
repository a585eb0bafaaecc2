package microbench

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}

	assert.Equal(t, 4.0, Percentile(sorted, 75))
	assert.Equal(t, 3.0, Percentile(sorted, 50))
	assert.Equal(t, 1.0, Percentile(sorted, 0))
	assert.Equal(t, 5.0, Percentile(sorted, 100))
	assert.InDelta(t, 4.6, Percentile(sorted, 90), 1e-9)
	assert.InDelta(t, 4.98, Percentile(sorted, 99.5), 1e-9)
}

func TestPercentileEdges(t *testing.T) {
	for _, p := range []float64{0, 42, 75, 99, 99.5, 100} {
		assert.Equal(t, 7.5, Percentile([]float64{7.5}, p))
	}

	assert.True(t, math.IsNaN(Percentile(nil, 50)))
	assert.True(t, math.IsNaN(Percentile([]float64{1, 2, 3}, math.NaN())))

	sorted := []float64{2, 4, 8}
	assert.Equal(t, 2.0, Percentile(sorted, -10))
	assert.Equal(t, 8.0, Percentile(sorted, 250))
}

func TestSummarizeOrdering(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for n := 1; n <= 200; n += 13 {
		timings := make([]float64, n)
		for i := range timings {
			timings[i] = rng.ExpFloat64() * 3
		}

		r := Summarize("random", timings)
		require.Len(t, r.Timings, n)
		assert.LessOrEqual(t, r.Min, r.P75)
		assert.LessOrEqual(t, r.P75, r.P99)
		assert.LessOrEqual(t, r.P99, r.P995)
		assert.LessOrEqual(t, r.P995, r.Max)
		assert.LessOrEqual(t, r.Min, r.Avg)
		assert.LessOrEqual(t, r.Avg, r.Max)
		assert.Equal(t, r.Timings[0], r.Min)
		assert.Equal(t, r.Timings[n-1], r.Max)
	}
}

func TestSummarizeSingleSample(t *testing.T) {
	r := Summarize("one", []float64{0.25})

	for _, v := range []float64{r.Min, r.Max, r.Avg, r.P75, r.P99, r.P995} {
		assert.Equal(t, 0.25, v)
	}
	assert.Equal(t, 4000.0, r.IterPerSec)
	assert.Zero(t, r.StdDev)
}

func TestSummarizeAverage(t *testing.T) {
	timings := []float64{9, 2, 4, 4, 5, 5, 7, 4}
	r := Summarize("avg", timings)

	var sum float64
	for _, v := range timings {
		sum += v
	}
	assert.InDelta(t, sum/float64(len(timings)), r.Avg, 1e-12)
	assert.Equal(t, 1000/r.Avg, r.IterPerSec)
	assert.InDelta(t, math.Sqrt(32.0/7), r.StdDev, 1e-9)

	// input order is left alone
	assert.Equal(t, []float64{9, 2, 4, 4, 5, 5, 7, 4}, timings)
	assert.Equal(t, []float64{2, 4, 4, 4, 5, 5, 7, 9}, r.Timings)
}
