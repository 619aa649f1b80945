package api

import (
	"fmt"

	"deliveryplan/internal/model"
	"deliveryplan/internal/opt"
)

// maxPlanItems bounds a single planning request.
const maxPlanItems = 10000

func validateWindows(field string, ws []model.TimeWindowIn) error {
	if len(ws) > maxPlanItems {
		return fmt.Errorf("%s: at most %d entries allowed, got %d", field, maxPlanItems, len(ws))
	}
	seen := make(map[string]struct{}, len(ws))
	for i, w := range ws {
		if w.DeliveryID == "" {
			return fmt.Errorf("%s[%d]: deliveryId is required", field, i)
		}
		if _, dup := seen[w.DeliveryID]; dup {
			return fmt.Errorf("%s[%d]: duplicate deliveryId %q", field, i, w.DeliveryID)
		}
		seen[w.DeliveryID] = struct{}{}
	}
	return nil
}

func validatePackages(ps []model.PackageIn) error {
	if len(ps) > maxPlanItems {
		return fmt.Errorf("packages: at most %d entries allowed, got %d", maxPlanItems, len(ps))
	}
	seen := make(map[string]struct{}, len(ps))
	for i, p := range ps {
		if p.PackageID == "" {
			return fmt.Errorf("packages[%d]: packageId is required", i)
		}
		if _, dup := seen[p.PackageID]; dup {
			return fmt.Errorf("packages[%d]: duplicate packageId %q", i, p.PackageID)
		}
		seen[p.PackageID] = struct{}{}
	}
	return nil
}

func toIntervals(ws []model.TimeWindowIn) []opt.Interval {
	out := make([]opt.Interval, len(ws))
	for i, w := range ws {
		out[i] = opt.Interval{ID: w.DeliveryID, Start: w.Start, End: w.End}
	}
	return out
}

func toItems(ps []model.PackageIn) []opt.WeightedItem {
	out := make([]opt.WeightedItem, len(ps))
	for i, p := range ps {
		out[i] = opt.WeightedItem{ID: p.PackageID, Weight: p.Weight, Value: p.Priority}
	}
	return out
}
