package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	streamPongWait   = 60 * time.Second
	streamPingPeriod = 20 * time.Second
	streamWriteWait  = 5 * time.Second
)

var upgrader = websocket.Upgrader{CheckOrigin: func(_ *http.Request) bool { return true }}

// RunStreamHandler handles GET /v1/runs/stream. After the upgrade the server
// sends {"type":"connection_ack"} followed by one message per completed run
// for the caller's tenant. Client messages are read only to detect close.
func (s *Server) RunStreamHandler(w http.ResponseWriter, r *http.Request) {
	p, ok := s.requirePrincipal(w, r, Principal.CanPlan, "dispatcher or admin")
	if !ok {
		return
	}
	tenant := tenantFor(p, r.URL.Query().Get("tenantId"))
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		s.Log.Debug().Err(err).Msg("run stream upgrade")
		return
	}
	defer func() { _ = conn.Close() }()

	ch := s.Broker.Subscribe(tenant)
	defer s.Broker.Unsubscribe(tenant, ch)

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(4096)
		_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(streamPongWait))
		})
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	write := func(v any) error {
		_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
		return conn.WriteJSON(v)
	}
	if err := write(RunEvent{Type: "connection_ack", Data: map[string]any{"tenantId": tenant}}); err != nil {
		return
	}
	s.Log.Debug().Str("tenant", tenant).Msg("run stream opened")

	ticker := time.NewTicker(streamPingPeriod)
	defer ticker.Stop()
	for {
		select {
		case evt, ok := <-ch:
			if !ok {
				return
			}
			if err := write(evt); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(streamWriteWait)); err != nil {
				return
			}
		case <-closed:
			s.Log.Debug().Str("tenant", tenant).Msg("run stream closed")
			return
		case <-r.Context().Done():
			return
		}
	}
}
