package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	streamSize = 4
)

// handleStream upgrades to a websocket and pushes a snapshot after every
// state refresh. The current snapshot, if any, is sent first.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.allow(r) {
		s.metrics.rateLimited.Inc()
		writeError(w, http.StatusTooManyRequests, errRateLimited)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	s.metrics.streamClients.Inc()
	defer s.metrics.streamClients.Dec()

	updates, unsubscribe := s.state.Subscribe(streamSize)
	defer unsubscribe()

	// The reader notices the client going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if snap := s.state.Snapshot(); snap.Almanac != nil {
		if err := s.writeSnapshot(conn, newSnapshot(snap)); err != nil {
			return
		}
	}

	ping := time.NewTicker(s.cfg.StreamInterval)
	defer ping.Stop()
	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case snap, ok := <-updates:
			if !ok {
				return
			}
			if err := s.writeSnapshot(conn, newSnapshot(snap)); err != nil {
				s.log.Debug("stream write: %v", err)
				return
			}
		case <-ping.C:
			deadline := time.Now().Add(writeWait)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		}
	}
}

func (s *Server) writeSnapshot(conn *websocket.Conn, v snapshotJSON) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(v)
}
