package webhooks

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"deliveryplan/internal/model"
	"deliveryplan/internal/store"
)

type recordStore struct {
	*store.Memory
	mu    sync.Mutex
	marks []MarkRec
	fails []FailRec
}
type MarkRec struct {
	ID            string
	Success       bool
	Code, Latency int
	LastErr       string
}
type FailRec struct {
	ID            string
	Code, Latency int
	LastErr       string
}

func (r *recordStore) MarkWebhookDelivery(ctx context.Context, id string, success bool, nextAttemptAt *time.Time, lastError string, responseCode int, latencyMs int) error {
	r.mu.Lock()
	r.marks = append(r.marks, MarkRec{ID: id, Success: success, Code: responseCode, Latency: latencyMs, LastErr: lastError})
	r.mu.Unlock()
	return r.Memory.MarkWebhookDelivery(ctx, id, success, nextAttemptAt, lastError, responseCode, latencyMs)
}
func (r *recordStore) FailWebhookDelivery(ctx context.Context, id string, lastError string, responseCode int, latencyMs int) error {
	r.mu.Lock()
	r.fails = append(r.fails, FailRec{ID: id, Code: responseCode, Latency: latencyMs, LastErr: lastError})
	r.mu.Unlock()
	return r.Memory.FailWebhookDelivery(ctx, id, lastError, responseCode, latencyMs)
}

func newTestWorker(rs *recordStore, client *http.Client, maxAttempts int) *Worker {
	w := NewWorker(rs, maxAttempts, time.Second, zerolog.Nop())
	w.HTTP = client
	return w
}

func TestWorkerProcessOnce_SuccessAndSignature(t *testing.T) {
	var gotSig, gotType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSig = r.Header.Get(SignatureHeader)
		gotType = r.Header.Get("X-Event-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(200)
	}))
	defer srv.Close()

	rs := &recordStore{Memory: store.NewMemory()}
	w := newTestWorker(rs, srv.Client(), 3)
	id, err := rs.Memory.EnqueueWebhook(context.Background(), "t1", "", model.EventRunCompleted, srv.URL, "secret", []byte(`{"id":"evt1"}`))
	if err != nil || id == "" {
		t.Fatalf("enqueue failed: %v", err)
	}

	w.processOnce(context.Background())

	if gotType != model.EventRunCompleted {
		t.Fatalf("missing event type header: %q", gotType)
	}
	if !VerifyHMAC("secret", gotBody, gotSig) {
		t.Fatalf("signature %q does not verify", gotSig)
	}
	if len(rs.marks) == 0 || !rs.marks[0].Success {
		t.Fatalf("expected mark success, got: %+v", rs.marks)
	}
}

func TestWorkerProcessOnce_RetryThenFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(500) }))
	defer srv.Close()

	rs := &recordStore{Memory: store.NewMemory()}
	w := newTestWorker(rs, srv.Client(), 2)
	_, _ = rs.Memory.EnqueueWebhook(context.Background(), "t1", "", model.EventRunCompleted, srv.URL, "", []byte(`{}`))

	w.processOnce(context.Background())
	if len(rs.marks) != 1 || rs.marks[0].Success || rs.marks[0].Code != 500 {
		t.Fatalf("expected one retry mark, got %+v", rs.marks)
	}
	if len(rs.fails) != 0 {
		t.Fatalf("should not dead-letter on first attempt: %+v", rs.fails)
	}

	// second attempt is the last one allowed; call deliver directly instead of
	// waiting out the backoff
	due := store.WebhookDelivery{ID: rs.marks[0].ID, EventType: model.EventRunCompleted, URL: srv.URL, Payload: []byte(`{}`), Attempts: 1}
	w.deliver(context.Background(), due)
	if len(rs.fails) != 1 || rs.fails[0].Code != 500 {
		t.Fatalf("expected dead-letter, got %+v", rs.fails)
	}
}

func TestSignVerifyHMAC(t *testing.T) {
	body := []byte(`{"a":1}`)
	sig := SignHMAC("k", body)
	if !VerifyHMAC("k", body, sig) {
		t.Fatal("signature should verify")
	}
	if VerifyHMAC("other", body, sig) || VerifyHMAC("k", body, "zz") {
		t.Fatal("bad key or malformed signature must not verify")
	}
}

func TestPublisherEmit(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()
	_, _ = m.CreateSubscription(ctx, model.SubscriptionRequest{TenantID: "t1", URL: "https://a", Events: []string{model.EventRunCompleted}})
	_, _ = m.CreateSubscription(ctx, model.SubscriptionRequest{TenantID: "t1", URL: "https://b", Events: []string{"other"}})

	n, err := NewPublisher(m).Emit(ctx, "t1", model.EventRunCompleted, map[string]any{"runId": "r1"})
	if err != nil || n != 1 {
		t.Fatalf("Emit: n=%d err=%v", n, err)
	}
	due, _ := m.FetchDueWebhookDeliveries(ctx, 10)
	if len(due) != 1 || due[0].URL != "https://a" {
		t.Fatalf("due: %+v", due)
	}
}

func TestNextBackoff(t *testing.T) {
	if nextBackoff(0) != time.Second || nextBackoff(3) != 8*time.Second {
		t.Fatal("unexpected backoff progression")
	}
	if nextBackoff(50) != 1024*time.Second {
		t.Fatalf("attempts should be capped at 10, got %v", nextBackoff(50))
	}
}

func TestNewWorkerTagsComponentOnce(t *testing.T) {
	var buf bytes.Buffer
	w := NewWorker(store.NewMemory(), 3, time.Second, zerolog.New(&buf))
	w.Log.Info().Msg("tick")
	line := buf.String()
	if n := strings.Count(line, `"component"`); n != 1 {
		t.Fatalf("component key appears %d times: %s", n, line)
	}
	if !strings.Contains(line, `"component":"webhook-worker"`) {
		t.Fatalf("missing component tag: %s", line)
	}
}
