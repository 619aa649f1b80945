package api

import (
	"sync"
)

// RunEvent is a notification pushed to run stream subscribers.
type RunEvent struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

// Broker fans run events out to in-process subscribers, keyed by tenant.
type Broker struct {
	mu   sync.Mutex
	subs map[string]map[chan RunEvent]struct{} // tenant -> set of channels
}

func NewBroker() *Broker {
	return &Broker{subs: map[string]map[chan RunEvent]struct{}{}}
}

func (b *Broker) Subscribe(tenant string) chan RunEvent {
	ch := make(chan RunEvent, 8)
	b.mu.Lock()
	if b.subs[tenant] == nil {
		b.subs[tenant] = map[chan RunEvent]struct{}{}
	}
	b.subs[tenant][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) Unsubscribe(tenant string, ch chan RunEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	m := b.subs[tenant]
	if _, ok := m[ch]; !ok {
		return
	}
	delete(m, ch)
	if len(m) == 0 {
		delete(b.subs, tenant)
	}
	close(ch)
}

// Publish never blocks; slow subscribers drop events.
func (b *Broker) Publish(tenant string, evt RunEvent) {
	b.mu.Lock()
	for ch := range b.subs[tenant] {
		select {
		case ch <- evt:
		default:
		}
	}
	b.mu.Unlock()
}
