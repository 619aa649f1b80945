package opt

// SelectActivities returns the ids of a set of mutually non-overlapping
// intervals, ordered by end time. Touching windows (next start == previous
// end) do not overlap. For positive-length windows the set has maximum size.
//
// Intervals are scanned by increasing end time with ties kept in input
// order, so equal-end candidates resolve to the one given first. A
// zero-length window given before a longer window with the same end
// blocks it: [{A,3,3},{B,1,3}] selects only A although A and B touch.
func SelectActivities(ivs []Interval) ([]string, error) {
	if err := ValidateIntervals(ivs); err != nil {
		return nil, err
	}
	selected := []string{}
	if len(ivs) == 0 {
		return selected, nil
	}
	order := stableOrder(len(ivs), func(a, b int) bool { return ivs[a].End < ivs[b].End })

	first := ivs[order[0]]
	selected = append(selected, first.ID)
	lastEnd := first.End
	for _, i := range order[1:] {
		if ivs[i].Start >= lastEnd {
			selected = append(selected, ivs[i].ID)
			lastEnd = ivs[i].End
		}
	}
	return selected, nil
}
