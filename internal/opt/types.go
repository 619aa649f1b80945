// Package opt implements the greedy planners behind delivery scheduling,
// truck loading and driver assignment.
//
// Every function here is pure: inputs are never mutated and no state is
// shared between calls, so they are safe to call from concurrent handlers.
package opt

// Interval is a time window for a single delivery. Start must not exceed End.
type Interval struct {
	ID    string
	Start float64
	End   float64
}

// WeightedItem is a divisible package with a positive weight and a value
// (priority) that scales linearly with the fraction loaded.
type WeightedItem struct {
	ID     string
	Weight float64
	Value  float64
}

// LoadItem records how much of one package was loaded. Fraction is in (0,1].
type LoadItem struct {
	ID       string
	Fraction float64
}

// LoadResult is the outcome of OptimizeLoad.
type LoadResult struct {
	TotalValue  float64
	TotalWeight float64
	Items       []LoadItem
}

// PartitionResult is the outcome of PartitionIntervals. Assignments[i] holds
// the ids placed on track i, in assignment order.
type PartitionResult struct {
	TrackCount  int
	Assignments [][]string
}

// track is a driver under construction: the end of its latest delivery and
// the ids assigned so far.
type track struct {
	lastEnd float64
	ids     []string
}
