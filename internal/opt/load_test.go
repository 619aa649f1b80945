package opt

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptimizeLoad_FractionalScenario(t *testing.T) {
	items := []WeightedItem{{"A", 10, 60}, {"B", 20, 100}, {"C", 30, 120}}
	res, err := OptimizeLoad(items, 50)
	require.NoError(t, err)

	assert.InDelta(t, 240.0, res.TotalValue, 1e-9)
	assert.InDelta(t, 50.0, res.TotalWeight, 1e-9)
	require.Len(t, res.Items, 3)
	assert.Equal(t, LoadItem{ID: "A", Fraction: 1}, res.Items[0])
	assert.Equal(t, LoadItem{ID: "B", Fraction: 1}, res.Items[1])
	assert.Equal(t, "C", res.Items[2].ID)
	assert.InDelta(t, 2.0/3.0, res.Items[2].Fraction, 1e-9)
}

func TestOptimizeLoad_AllFit(t *testing.T) {
	res, err := OptimizeLoad([]WeightedItem{{"A", 10, 60}, {"B", 20, 100}}, 50)
	require.NoError(t, err)
	assert.Equal(t, 160.0, res.TotalValue)
	assert.Equal(t, 30.0, res.TotalWeight)
	assert.Equal(t, []LoadItem{{"A", 1}, {"B", 1}}, res.Items)
}

func TestOptimizeLoad_EmptyResults(t *testing.T) {
	items := []WeightedItem{{"A", 10, 60}, {"B", 20, 100}}
	for _, capacity := range []float64{0, -5, math.Inf(-1)} {
		res, err := OptimizeLoad(items, capacity)
		require.NoError(t, err)
		assert.Zero(t, res.TotalValue)
		assert.Zero(t, res.TotalWeight)
		assert.NotNil(t, res.Items)
		assert.Empty(t, res.Items)
	}

	res, err := OptimizeLoad(nil, 100)
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Zero(t, res.TotalValue)
}

func TestOptimizeLoad_ExactFillStops(t *testing.T) {
	res, err := OptimizeLoad([]WeightedItem{{"A", 10, 60}, {"B", 20, 100}, {"C", 30, 120}}, 30)
	require.NoError(t, err)
	assert.Equal(t, []LoadItem{{"A", 1}, {"B", 1}}, res.Items)
	assert.Equal(t, 30.0, res.TotalWeight)
}

func TestOptimizeLoad_EqualDensityKeepsInputOrder(t *testing.T) {
	res, err := OptimizeLoad([]WeightedItem{{"X", 10, 50}, {"Y", 10, 50}}, 15)
	require.NoError(t, err)
	assert.Equal(t, []LoadItem{{"X", 1}, {"Y", 0.5}}, res.Items)
	assert.Equal(t, 75.0, res.TotalValue)
}

func TestOptimizeLoad_RejectsMalformedInput(t *testing.T) {
	cases := []struct {
		name     string
		items    []WeightedItem
		capacity float64
		field    string
	}{
		{"zero weight", []WeightedItem{{"A", 0, 10}}, 10, "weight"},
		{"negative weight", []WeightedItem{{"A", 5, 10}, {"B", -1, 10}}, 10, "weight"},
		{"infinite value", []WeightedItem{{"A", 5, math.Inf(1)}}, 10, "value"},
		{"nan capacity", []WeightedItem{{"A", 5, 10}}, math.NaN(), "capacity"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := OptimizeLoad(tc.items, tc.capacity)
			require.True(t, errors.Is(err, ErrInvalidInput), "got %v", err)
			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestOptimizeLoad_RejectsOverflowingTotals(t *testing.T) {
	cases := []struct {
		name     string
		items    []WeightedItem
		capacity float64
		field    string
	}{
		{"value sum", []WeightedItem{{"A", 1, 1e308}, {"B", 1, 1e308}}, 10, "value"},
		{"negative value sum", []WeightedItem{{"A", 1, -1e308}, {"B", 1, -1e308}}, 10, "value"},
		{"weight sum", []WeightedItem{{"A", 1e308, 1}, {"B", 1e308, 1}}, math.Inf(1), "weight"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := OptimizeLoad(tc.items, tc.capacity)
			require.True(t, errors.Is(err, ErrInvalidInput), "got %v", err)
			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tc.field, ve.Field)
			assert.Equal(t, -1, ve.Index)
		})
	}
}

func TestOptimizeLoad_DoesNotMutateInput(t *testing.T) {
	in := []WeightedItem{{"C", 30, 120}, {"B", 20, 100}, {"A", 10, 60}}
	snapshot := append([]WeightedItem(nil), in...)
	_, err := OptimizeLoad(in, 50)
	require.NoError(t, err)
	assert.Equal(t, snapshot, in)
}

// lpOptimum solves the fractional knapsack by enumeration: an optimal LP
// vertex takes a subset whole plus at most one partial item.
func lpOptimum(items []WeightedItem, capacity float64) float64 {
	best := 0.0
	for mask := 0; mask < 1<<len(items); mask++ {
		w, v := 0.0, 0.0
		for i, it := range items {
			if mask&(1<<i) != 0 {
				w += it.Weight
				v += it.Value
			}
		}
		if w > capacity {
			continue
		}
		if v > best {
			best = v
		}
		for j, it := range items {
			if mask&(1<<j) != 0 {
				continue
			}
			frac := math.Min(1, (capacity-w)/it.Weight)
			if cand := v + frac*it.Value; cand > best {
				best = cand
			}
		}
	}
	return best
}

func TestOptimizeLoad_MatchesLPRelaxation(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for trial := 0; trial < 300; trial++ {
		items := randomItems(rng, 1+rng.Intn(9))
		capacity := float64(rng.Intn(100))
		res, err := OptimizeLoad(items, capacity)
		require.NoError(t, err)

		values := map[string]WeightedItem{}
		for _, it := range items {
			values[it.ID] = it
		}
		sumValue, sumWeight := 0.0, 0.0
		seen := map[string]bool{}
		for _, li := range res.Items {
			require.False(t, seen[li.ID], "duplicate %s", li.ID)
			seen[li.ID] = true
			require.Greater(t, li.Fraction, 0.0)
			require.LessOrEqual(t, li.Fraction, 1.0)
			sumValue += li.Fraction * values[li.ID].Value
			sumWeight += li.Fraction * values[li.ID].Weight
		}
		require.LessOrEqual(t, res.TotalWeight, capacity+1e-9)
		require.InDelta(t, sumValue, res.TotalValue, 1e-9)
		require.InDelta(t, sumWeight, res.TotalWeight, 1e-9)
		require.InDelta(t, lpOptimum(items, capacity), res.TotalValue, 1e-6, "trial %d: %v cap %v", trial, items, capacity)
	}
}
