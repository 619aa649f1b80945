package opt

import "sort"

// stableOrder returns the indices 0..n-1 stably sorted by less. Callers sort
// the permutation rather than their input so the input stays untouched and
// ties keep their original relative order.
func stableOrder(n int, less func(a, b int) bool) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return less(idx[i], idx[j]) })
	return idx
}
