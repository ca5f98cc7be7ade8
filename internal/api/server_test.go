package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/talgya/worldfabric/internal/ecs"
	"github.com/talgya/worldfabric/internal/event"
	"github.com/talgya/worldfabric/internal/observer"
	"github.com/talgya/worldfabric/internal/persistence"
	"github.com/talgya/worldfabric/internal/rng"
	"github.com/talgya/worldfabric/internal/scheduler"
	"github.com/talgya/worldfabric/internal/simulation"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	world := ecs.NewWorld()
	ecs.RegisterComponent[ecs.Position](world, ecs.KindPosition)
	ecs.RegisterComponent[ecs.Health](world, ecs.KindHealth)

	id := world.CreateEntity()
	ecs.AddComponent(world, id, ecs.KindPosition, ecs.Position{X: 1, Y: 2})
	ecs.AddComponent(world, id, ecs.KindHealth, ecs.Health{Value: 0.5})

	clock := simulation.NewClock()
	bus := event.NewBus()
	log := event.NewLog()
	cascade := event.NewCascade(3, rng.New(1).Fork(1, "cascade"))
	registry := scheduler.NewRegistry()

	engine := simulation.New(world, clock, bus, log, registry, cascade, 1)
	if err := engine.Initialize(); err != nil {
		t.Fatal(err)
	}

	db, err := persistence.Open(filepath.Join(t.TempDir(), "world.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	return &Server{
		Engine:   engine,
		Observer: observer.New(),
		Stream:   observer.NewStream(),
		DB:       db,
		Seed:     1,
		Port:     0,
		AdminKey: "secret",
	}
}

func TestHandleStatusReportsTick(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	w := httptest.NewRecorder()
	s.handleStatus(w, req)

	var resp statusResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Tick != s.Engine.Clock.CurrentTick() {
		t.Fatalf("expected tick %d, got %d", s.Engine.Clock.CurrentTick(), resp.Tick)
	}
	if resp.EntityCount != 1 {
		t.Fatalf("expected 1 entity, got %d", resp.EntityCount)
	}
}

func TestHandleEntityDetailReturnsComponents(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/entity/1", nil)
	w := httptest.NewRecorder()
	s.handleEntityDetail(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var detail entityDetail
	if err := json.NewDecoder(w.Body).Decode(&detail); err != nil {
		t.Fatal(err)
	}
	if _, ok := detail.Components[ecs.KindPosition]; !ok {
		t.Fatalf("expected position component in response, got %+v", detail.Components)
	}
}

func TestHandleEntityDetailMissingEntity(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/entity/999", nil)
	w := httptest.NewRecorder()
	s.handleEntityDetail(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestAdminOnlyRejectsMissingToken(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/snapshot", nil)
	w := httptest.NewRecorder()
	s.adminOnly(s.handleSnapshot)(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAdminOnlyAcceptsValidToken(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/snapshot?label=test", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w := httptest.NewRecorder()
	s.adminOnly(s.handleSnapshot)(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAdminOnlyDisabledWithoutKey(t *testing.T) {
	s := newTestServer(t)
	s.AdminKey = ""
	req := httptest.NewRequest(http.MethodPost, "/api/v1/snapshot", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w := httptest.NewRecorder()
	s.adminOnly(s.handleSnapshot)(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}
