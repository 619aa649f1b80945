// Package main runs a demo WebSocket client for planning run events.
package main

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/gorilla/websocket"
)

type runEvent struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	base := fmt.Sprintf("http://localhost:%s", port)

	u := url.URL{Scheme: "ws", Host: "localhost:" + port, Path: "/v1/runs/stream"}
	hdr := http.Header{}
	hdr.Set("X-Tenant-Id", "t_demo")
	hdr.Set("X-Role", "dispatcher")
	c, _, err := websocket.DefaultDialer.Dial(u.String(), hdr)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer func() { _ = c.Close() }()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var m runEvent
			if err := c.ReadJSON(&m); err != nil {
				log.Printf("read: %v", err)
				return
			}
			log.Printf("WS <- %s: %v", m.Type, m.Data)
		}
	}()

	// Trigger one run of each planner
	calls := []struct{ path, body string }{
		{"/v1/deliveries/schedule", `{"windows":[{"deliveryId":"A","start":1,"end":4},{"deliveryId":"B","start":3,"end":5},{"deliveryId":"C","start":5,"end":7}]}`},
		{"/v1/loads/optimize", `{"weightLimit":50,"packages":[{"packageId":"P1","weight":10,"priority":60},{"packageId":"P2","weight":20,"priority":100},{"packageId":"P3","weight":30,"priority":120}]}`},
		{"/v1/drivers/assign", `{"deliveries":[{"deliveryId":"A","start":1,"end":4},{"deliveryId":"B","start":2,"end":5},{"deliveryId":"C","start":4,"end":6}]}`},
	}
	time.Sleep(200 * time.Millisecond)
	for _, call := range calls {
		req, _ := http.NewRequest(http.MethodPost, base+call.path, bytes.NewReader([]byte(call.body)))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Tenant-Id", "t_demo")
		req.Header.Set("X-Role", "dispatcher")
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("POST %s -> %s", call.path, resp.Status)
		_ = resp.Body.Close()
	}

	// Wait briefly to receive the events
	select {
	case <-time.After(2 * time.Second):
	case <-done:
	}
}
