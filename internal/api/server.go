// Package api provides a local, read-only HTTP observer surface over a
// running simulation.Engine: status, snapshot export, and an event feed,
// plus a websocket delta stream. Grounded on this repository's earlier
// Agent/Settlement/Faction-specific endpoint set — same
// net/http.ServeMux routing, CORS middleware, and admin-bearer-token
// pattern, generalized to the ECS's component kinds and the event
// fabric's categories instead of fixed domain types. This is a local
// observer surface, not network-transparent RPC over the simulation's
// write path: every GET is read-only and the only POST is an
// operator-gated snapshot export.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/talgya/worldfabric/internal/ecs"
	"github.com/talgya/worldfabric/internal/observer"
	"github.com/talgya/worldfabric/internal/persistence"
	"github.com/talgya/worldfabric/internal/simulation"
	"github.com/talgya/worldfabric/internal/snapshot"
)

// Server serves simulation state over HTTP.
type Server struct {
	Engine   *simulation.Engine
	Observer *observer.Observer
	Stream   *observer.Stream
	DB       *persistence.DB
	Seed     uint32
	Port     int
	AdminKey string // Bearer token for the snapshot-export endpoint. Empty disables it.

	limiter *SnapshotLimiter
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	mux := http.NewServeMux()
	s.limiter = NewRateLimiter(6, time.Minute)

	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/events", s.handleEvents)
	mux.HandleFunc("/api/v1/entities", s.handleEntities)
	mux.HandleFunc("/api/v1/entity/", s.handleEntityDetail)
	mux.HandleFunc("/api/v1/stream", s.Stream.ServeHTTP)
	mux.HandleFunc("/api/v1/snapshot", RateLimitMiddleware(s.limiter, s.adminOnly(s.handleSnapshot)))

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	go func() {
		handler := corsMiddleware(mux)
		if err := http.ListenAndServe(addr, handler); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// corsMiddleware allows localhost dev servers plus any origin named in
// CORS_ORIGINS, matching this repository's prior convention.
func corsMiddleware(next http.Handler) http.Handler {
	allowed := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:4173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				allowed[origin] = true
			}
		}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowed[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// adminOnly requires a bearer token matching AdminKey. If AdminKey is
// empty the endpoint is disabled entirely.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.AdminKey == "" {
			http.Error(w, "endpoint disabled (no admin key configured)", http.StatusForbidden)
			return
		}
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") != s.AdminKey {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("api: failed to encode response", "error", err)
	}
}

type statusResponse struct {
	Tick         uint64 `json:"tick"`
	Time         string `json:"time"`
	EntityCount  int    `json:"entityCount"`
	EventCount   int    `json:"eventCount"`
	Speed        string `json:"speed"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	t := s.Engine.Clock.CurrentTime()
	writeJSON(w, statusResponse{
		Tick:        s.Engine.Clock.CurrentTick(),
		Time:        fmt.Sprintf("year %d, month %d, day %d", t.Year, t.Month, t.Day),
		EntityCount: s.Engine.World.EntityCount(),
		EventCount:  s.Engine.Log.Len(),
		Speed:       fmt.Sprintf("%d", s.Observer.Speed()),
	})
}

// handleEvents returns events in an optional [from,to] tick range, or
// the full log if unspecified.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Has("from") || q.Has("to") {
		from, _ := strconv.ParseUint(q.Get("from"), 10, 64)
		to, err := strconv.ParseUint(q.Get("to"), 10, 64)
		if err != nil {
			to = s.Engine.Clock.CurrentTick()
		}
		writeJSON(w, s.Engine.Log.GetByTimeRange(from, to))
		return
	}
	writeJSON(w, s.Engine.Log.All())
}

// handleEntities lists every alive entity id.
func (s *Server) handleEntities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Engine.World.AliveEntities())
}

type entityDetail struct {
	ID         ecs.EntityID   `json:"id"`
	Components map[string]any `json:"components"`
}

// handleEntityDetail returns every component a single entity carries,
// serialized via each component's own Serialize projection.
func (s *Server) handleEntityDetail(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/api/v1/entity/")
	raw, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		http.Error(w, "invalid entity id", http.StatusBadRequest)
		return
	}
	id := ecs.EntityID(raw)
	if !s.Engine.World.IsAlive(id) {
		http.Error(w, "entity not found", http.StatusNotFound)
		return
	}

	components := make(map[string]any)
	for _, kind := range s.Engine.World.RegisteredKinds() {
		if !s.Engine.World.HasComponent(id, kind) {
			continue
		}
		if serialized, ok := serializeComponent(s.Engine.World, id, kind); ok {
			components[kind] = serialized
		}
	}
	writeJSON(w, entityDetail{ID: id, Components: components})
}

// handleSnapshot captures the current simulation state and persists it
// via s.DB, returning the snapshot id. It is the one POST endpoint and
// requires an admin bearer token.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	label := r.URL.Query().Get("label")
	snap := snapshot.NewManager().Capture(s.Engine.World, s.Engine.Clock, s.Engine.Log, label)
	if err := s.DB.SaveSnapshot(snap, s.Seed); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"id": snap.ID, "tick": snap.Tick})
}
