package model

import (
	"encoding/json"
	"time"
)

// Wire types for the planning API. Field names follow the dispatch domain:
// deliveries carry time windows, packages carry weight and priority.

type TimeWindowIn struct {
	DeliveryID string  `json:"deliveryId"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
}

type PackageIn struct {
	PackageID string  `json:"packageId"`
	Weight    float64 `json:"weight"`
	Priority  float64 `json:"priority"`
}

// ScheduleRequest asks for the largest set of non-overlapping deliveries one
// vehicle can complete.
type ScheduleRequest struct {
	TenantID string         `json:"tenantId,omitempty"`
	Windows  []TimeWindowIn `json:"windows"`
}

type ScheduleResponse struct {
	RunID    string   `json:"runId,omitempty"`
	Selected []string `json:"selected"`
	Count    int      `json:"count"`
	Total    int      `json:"total"`
}

// LoadRequest asks for the highest-priority load within WeightLimit.
type LoadRequest struct {
	TenantID    string      `json:"tenantId,omitempty"`
	WeightLimit float64     `json:"weightLimit"`
	Packages    []PackageIn `json:"packages"`
}

type LoadedPackage struct {
	PackageID string  `json:"packageId"`
	Fraction  float64 `json:"fraction"`
}

type LoadResponse struct {
	RunID         string          `json:"runId,omitempty"`
	TotalPriority float64         `json:"totalPriority"`
	TotalWeight   float64         `json:"totalWeight"`
	Packages      []LoadedPackage `json:"packages"`
}

// AssignRequest asks for the fewest drivers covering every delivery.
type AssignRequest struct {
	TenantID   string         `json:"tenantId,omitempty"`
	Deliveries []TimeWindowIn `json:"deliveries"`
}

type AssignResponse struct {
	RunID       string     `json:"runId,omitempty"`
	NumDrivers  int        `json:"numDrivers"`
	MaxOverlap  int        `json:"maxOverlap"`
	Assignments [][]string `json:"assignments"`
}

// Algorithm names used for run records, metrics and events.
const (
	AlgoSchedule = "schedule"
	AlgoLoad     = "load"
	AlgoAssign   = "assign"
)

// Run is the persisted record of one planning call.
type Run struct {
	ID         string          `json:"id"`
	TenantID   string          `json:"tenantId"`
	Algorithm  string          `json:"algorithm"`
	InputSize  int             `json:"inputSize"`
	DurationUs int64           `json:"durationUs"`
	Summary    map[string]any  `json:"summary,omitempty"`
	Result     json.RawMessage `json:"result"`
	CreatedAt  time.Time       `json:"createdAt"`
}

type SubscriptionRequest struct {
	TenantID string   `json:"tenantId"`
	URL      string   `json:"url"`
	Events   []string `json:"events"`
	Secret   string   `json:"secret"`
}

type Subscription struct {
	ID       string   `json:"id"`
	TenantID string   `json:"tenantId"`
	URL      string   `json:"url"`
	Events   []string `json:"events"`
	Secret   string   `json:"secret,omitempty"`
}

// EventRunCompleted is published after every successful planning call.
const EventRunCompleted = "run.completed"
