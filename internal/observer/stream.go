package observer

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/talgya/worldfabric/internal/ecs"
	"github.com/talgya/worldfabric/internal/event"
)

// maxStreamConns bounds concurrent delta-stream clients, grounded on
// internal/api/server.go's maxSSEConns connection cap — here applied to
// a websocket upgrade instead of an SSE response writer.
const maxStreamConns = 2

// Delta is one tick's worth of observer-facing state change, per
// spec.md §6's engine/observer boundary list.
type Delta struct {
	Tick            uint64            `json:"tick"`
	Events          []event.WorldEvent `json:"events"`
	ChangedEntities []EntityChange    `json:"changedEntities"`
	RemovedEntities []ecs.EntityID    `json:"removedEntities"`
}

// EntityChange names one component kind's new serialized value for one
// entity, part of a Delta's changedEntities list.
type EntityChange struct {
	EntityID ecs.EntityID `json:"entityId"`
	Kind     string       `json:"kind"`
	Data     any          `json:"data"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Stream fans Deltas out to connected websocket clients. Publish is
// called once per tick by the caller driving Engine.Run; clients that
// fall behind are dropped rather than allowed to block Publish.
type Stream struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]chan Delta
}

// NewStream returns an empty delta stream.
func NewStream() *Stream {
	return &Stream{clients: make(map[*websocket.Conn]chan Delta)}
}

// Publish fans d out to every connected client's buffered channel.
// A client whose buffer is full is disconnected rather than blocked on.
func (s *Stream) Publish(d Delta) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn, ch := range s.clients {
		select {
		case ch <- d:
		default:
			delete(s.clients, conn)
			close(ch)
			conn.Close()
		}
	}
}

// ServeHTTP upgrades the connection to a websocket and streams Deltas
// to it until the client disconnects or the connection count would
// exceed maxStreamConns.
func (s *Stream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	if len(s.clients) >= maxStreamConns {
		s.mu.Unlock()
		http.Error(w, "too many stream connections", http.StatusServiceUnavailable)
		return
	}
	s.mu.Unlock()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("observer: websocket upgrade failed", "error", err)
		return
	}

	ch := make(chan Delta, 64)
	s.mu.Lock()
	s.clients[conn] = ch
	s.mu.Unlock()

	slog.Info("observer: stream client connected")
	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
		conn.Close()
	}()

	heartbeat := time.NewTicker(15 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case d, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteJSON(d); err != nil {
				slog.Warn("observer: stream write failed, dropping client", "error", err)
				return
			}
		case <-heartbeat.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
