package opt

import "sort"

// PartitionIntervals assigns every interval to a track (driver) so that no
// two intervals on a track overlap, using as few tracks as possible.
//
// Intervals are taken by increasing start time (stable) and placed on the
// first track, in creation order, whose last end is <= the interval start.
// For positive-length windows the resulting TrackCount equals MaxOverlap(ivs).
func PartitionIntervals(ivs []Interval) (PartitionResult, error) {
	if err := ValidateIntervals(ivs); err != nil {
		return PartitionResult{}, err
	}
	res := PartitionResult{Assignments: [][]string{}}
	if len(ivs) == 0 {
		return res, nil
	}
	order := stableOrder(len(ivs), func(a, b int) bool { return ivs[a].Start < ivs[b].Start })

	var tracks []*track
	for _, i := range order {
		iv := ivs[i]
		var dst *track
		for _, t := range tracks {
			if t.lastEnd <= iv.Start {
				dst = t
				break
			}
		}
		if dst == nil {
			dst = &track{}
			tracks = append(tracks, dst)
		}
		dst.ids = append(dst.ids, iv.ID)
		dst.lastEnd = iv.End
	}

	res.TrackCount = len(tracks)
	for _, t := range tracks {
		res.Assignments = append(res.Assignments, t.ids)
	}
	return res, nil
}

// MaxOverlap returns the largest number of intervals open at any single
// instant, treating each interval as [Start, End). For positive-length
// windows this is the minimum number of drivers any assignment needs, and
// PartitionIntervals reaches it. Zero-length windows occupy no time; a
// non-empty input always needs at least one driver.
func MaxOverlap(ivs []Interval) int {
	if len(ivs) == 0 {
		return 0
	}
	type event struct {
		at    float64
		delta int
	}
	events := make([]event, 0, 2*len(ivs))
	for _, iv := range ivs {
		if iv.End > iv.Start {
			events = append(events, event{iv.Start, 1}, event{iv.End, -1})
		}
	}
	// ends sort before starts at the same instant so touching windows share a driver
	sort.Slice(events, func(i, j int) bool {
		if events[i].at != events[j].at {
			return events[i].at < events[j].at
		}
		return events[i].delta < events[j].delta
	})
	depth, best := 0, 1
	for _, e := range events {
		depth += e.delta
		if depth > best {
			best = depth
		}
	}
	return best
}
