package opt

// OptimizeLoad fills a truck of the given capacity by value density
// (value/weight), taking whole packages while they fit and a fraction of
// the first one that does not. Packages after that point are left out.
//
// Greedy-by-density is optimal only because packages are divisible; it is
// not a solver for the 0/1 variant. Finite inputs whose loaded totals
// overflow float64 are rejected with a ValidationError.
func OptimizeLoad(items []WeightedItem, capacity float64) (LoadResult, error) {
	if err := ValidateItems(items, capacity); err != nil {
		return LoadResult{}, err
	}
	res := LoadResult{Items: []LoadItem{}}
	if len(items) == 0 || capacity <= 0 {
		return res, nil
	}

	density := make([]float64, len(items))
	for i, it := range items {
		density[i] = it.Value / it.Weight
	}
	order := stableOrder(len(items), func(a, b int) bool { return density[a] > density[b] })

	remaining := capacity
	for _, i := range order {
		it := items[i]
		if it.Weight <= remaining {
			res.TotalValue += it.Value
			res.TotalWeight += it.Weight
			remaining -= it.Weight
			res.Items = append(res.Items, LoadItem{ID: it.ID, Fraction: 1})
			if remaining <= 0 {
				break
			}
			continue
		}
		fraction := remaining / it.Weight
		res.TotalValue += fraction * it.Value
		res.TotalWeight += remaining
		res.Items = append(res.Items, LoadItem{ID: it.ID, Fraction: fraction})
		break
	}
	if !finite(res.TotalValue) {
		return LoadResult{}, &ValidationError{Field: "value", Index: -1, Reason: "total value of the load overflows float64"}
	}
	if !finite(res.TotalWeight) {
		return LoadResult{}, &ValidationError{Field: "weight", Index: -1, Reason: "total weight of the load overflows float64"}
	}
	return res, nil
}
