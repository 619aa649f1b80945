package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"deliveryplan/internal/model"
)

func TestMemoryRunsPagination(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		algo := model.AlgoSchedule
		if i%2 == 1 {
			algo = model.AlgoLoad
		}
		if _, err := m.SaveRun(ctx, model.Run{ID: fmt.Sprintf("r%d", i), TenantID: "t1", Algorithm: algo}); err != nil {
			t.Fatal(err)
		}
	}
	_, _ = m.SaveRun(ctx, model.Run{ID: "other", TenantID: "t2", Algorithm: model.AlgoAssign})

	page, next, err := m.ListRuns(ctx, "t1", "", "", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 2 || page[0].ID != "r4" || page[1].ID != "r3" || next != "r3" {
		t.Fatalf("first page: %+v next=%q", page, next)
	}
	page, next, _ = m.ListRuns(ctx, "t1", "", next, 2)
	if len(page) != 2 || page[0].ID != "r2" || next != "r1" {
		t.Fatalf("second page: %+v next=%q", page, next)
	}
	page, next, _ = m.ListRuns(ctx, "t1", "", next, 2)
	if len(page) != 1 || page[0].ID != "r0" || next != "" {
		t.Fatalf("last page: %+v next=%q", page, next)
	}

	page, _, _ = m.ListRuns(ctx, "t1", model.AlgoLoad, "", 10)
	if len(page) != 2 || page[0].ID != "r3" || page[1].ID != "r1" {
		t.Fatalf("filtered: %+v", page)
	}
}

func TestMemoryGetRunTenantScoped(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	r, _ := m.SaveRun(ctx, model.Run{TenantID: "t1", Algorithm: model.AlgoAssign})
	if r.ID == "" || r.CreatedAt.IsZero() {
		t.Fatalf("id and createdAt should be assigned: %+v", r)
	}
	if _, err := m.GetRun(ctx, "t1", r.ID); err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if _, err := m.GetRun(ctx, "t2", r.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestMemorySubscriptions(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	a, _ := m.CreateSubscription(ctx, model.SubscriptionRequest{TenantID: "t1", URL: "https://a", Events: []string{model.EventRunCompleted}})
	_, _ = m.CreateSubscription(ctx, model.SubscriptionRequest{TenantID: "t1", URL: "https://b", Events: []string{"*"}})
	_, _ = m.CreateSubscription(ctx, model.SubscriptionRequest{TenantID: "t1", URL: "https://c", Events: []string{"other"}})

	subs, _ := m.GetSubscriptionsForEvent(ctx, "t1", model.EventRunCompleted)
	if len(subs) != 2 {
		t.Fatalf("want 2 matching subscriptions (exact + wildcard), got %d", len(subs))
	}
	if err := m.DeleteSubscription(ctx, "t1", a.ID); err != nil {
		t.Fatal(err)
	}
	if err := m.DeleteSubscription(ctx, "t1", a.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete should be not found, got %v", err)
	}
	items, next, _ := m.ListSubscriptions(ctx, "t1", "", 1)
	if len(items) != 1 || next == "" {
		t.Fatalf("paging: %+v next=%q", items, next)
	}
}

func TestMemoryWebhookLifecycle(t *testing.T) {
	m := NewMemory()
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }
	ctx := context.Background()

	id, _ := m.EnqueueWebhook(ctx, "t1", "sub", model.EventRunCompleted, "https://x", "k", []byte(`{}`))
	due, _ := m.FetchDueWebhookDeliveries(ctx, 10)
	if len(due) != 1 || due[0].ID != id {
		t.Fatalf("due: %+v", due)
	}

	next := clock.Add(time.Minute)
	if err := m.MarkWebhookDelivery(ctx, id, false, &next, "boom", 500, 3); err != nil {
		t.Fatal(err)
	}
	if due, _ = m.FetchDueWebhookDeliveries(ctx, 10); len(due) != 0 {
		t.Fatalf("retry should not be due yet: %+v", due)
	}
	clock = clock.Add(2 * time.Minute)
	if due, _ = m.FetchDueWebhookDeliveries(ctx, 10); len(due) != 1 || due[0].Attempts != 1 {
		t.Fatalf("retry should be due with 1 attempt: %+v", due)
	}
	if err := m.FailWebhookDelivery(ctx, id, "boom", 500, 3); err != nil {
		t.Fatal(err)
	}
	items, _ := m.ListWebhookDeliveries(ctx, "t1", "failed", 10)
	if len(items) != 1 || items[0]["lastError"] != "boom" {
		t.Fatalf("failed list: %+v", items)
	}
	if err := m.MarkWebhookDelivery(ctx, "missing", true, nil, "", 200, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
