//go:build postgres_integration

package store

import (
	"encoding/json"
	"errors"
	"os"
	"testing"

	"deliveryplan/internal/model"
)

func TestPostgresRunsRoundTrip(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping integration test")
	}
	p, err := NewPostgres(dsn)
	if err != nil {
		t.Fatalf("NewPostgres: %v", err)
	}
	defer p.Close()
	if err := p.Ping(t.Context()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if err := p.Migrate(t.Context()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	tenant := "t_it_" + t.Name()
	saved, err := p.SaveRun(t.Context(), model.Run{TenantID: tenant, Algorithm: model.AlgoSchedule, InputSize: 3, Result: json.RawMessage(`{"selected":["A","C"]}`)})
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	got, err := p.GetRun(t.Context(), tenant, saved.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.Algorithm != model.AlgoSchedule || got.InputSize != 3 {
		t.Fatalf("unexpected run %+v", got)
	}
	if _, err := p.GetRun(t.Context(), "other", saved.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-tenant read should be not found, got %v", err)
	}
	items, _, err := p.ListRuns(t.Context(), tenant, "", "", 10)
	if err != nil || len(items) == 0 {
		t.Fatalf("ListRuns: %v (%d items)", err, len(items))
	}
}
