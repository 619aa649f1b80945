package opt

import (
	"fmt"
	"math/rand"
)

// randomIntervals builds n positive-length windows on a small integer grid so
// that ties on start and end are common.
func randomIntervals(rng *rand.Rand, n int) []Interval {
	ivs := make([]Interval, n)
	for i := range ivs {
		start := float64(rng.Intn(20))
		ivs[i] = Interval{ID: fmt.Sprintf("d%d", i), Start: start, End: start + float64(1+rng.Intn(6))}
	}
	return ivs
}

func randomItems(rng *rand.Rand, n int) []WeightedItem {
	items := make([]WeightedItem, n)
	for i := range items {
		items[i] = WeightedItem{ID: fmt.Sprintf("p%d", i), Weight: float64(1 + rng.Intn(30)), Value: float64(rng.Intn(150))}
	}
	return items
}

func overlaps(a, b Interval) bool {
	return !(a.End <= b.Start || b.End <= a.Start)
}

func byID(ivs []Interval) map[string]Interval {
	m := make(map[string]Interval, len(ivs))
	for _, iv := range ivs {
		m[iv.ID] = iv
	}
	return m
}
