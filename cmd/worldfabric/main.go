// Command worldfabric runs the deterministic world simulation: it builds
// an ECS world, registers the reference domain systems, restores a save
// file if one exists, then drives the tick loop on a cron schedule while
// serving the HTTP observer API.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/robfig/cron/v3"

	"github.com/talgya/worldfabric/internal/api"
	"github.com/talgya/worldfabric/internal/domain"
	"github.com/talgya/worldfabric/internal/ecs"
	"github.com/talgya/worldfabric/internal/event"
	"github.com/talgya/worldfabric/internal/observer"
	"github.com/talgya/worldfabric/internal/persistence"
	"github.com/talgya/worldfabric/internal/rng"
	"github.com/talgya/worldfabric/internal/scheduler"
	"github.com/talgya/worldfabric/internal/simulation"
	"github.com/talgya/worldfabric/internal/snapshot"
	"github.com/talgya/worldfabric/internal/world"
)

// config is read once at startup from the environment, matching the
// teacher's bare os.Getenv style rather than a flags/viper layer.
type config struct {
	seed     uint32
	dbPath   string
	apiPort  int
	adminKey string
	tickCron string
}

func loadConfig() config {
	cfg := config{
		seed:     42,
		dbPath:   "data/worldfabric.db",
		apiPort:  8080,
		tickCron: "@every 1s",
	}
	if v := os.Getenv("WORLDFABRIC_SEED"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			cfg.seed = uint32(n)
		}
	}
	if v := os.Getenv("WORLDFABRIC_DB"); v != "" {
		cfg.dbPath = v
	}
	if v := os.Getenv("WORLDFABRIC_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.apiPort = n
		}
	}
	if v := os.Getenv("WORLDFABRIC_TICK_CRON"); v != "" {
		cfg.tickCron = v
	}
	cfg.adminKey = os.Getenv("WORLDFABRIC_ADMIN_KEY")
	return cfg
}

func main() {
	handlerOpts := &slog.HandlerOptions{Level: slog.LevelInfo}
	var handler slog.Handler
	if isatty.IsTerminal(os.Stdout.Fd()) {
		handler = slog.NewTextHandler(os.Stdout, handlerOpts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, handlerOpts)
	}
	slog.SetDefault(slog.New(handler))

	cfg := loadConfig()
	slog.Info("worldfabric starting", "seed", cfg.seed, "db", cfg.dbPath, "port", cfg.apiPort)

	if err := os.MkdirAll("data", 0755); err != nil {
		slog.Error("failed to create data directory", "error", err)
		os.Exit(1)
	}

	db, err := persistence.Open(cfg.dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	worldState := ecs.NewWorld()
	ecs.RegisterComponent[ecs.Position](worldState, ecs.KindPosition)
	ecs.RegisterComponent[ecs.Health](worldState, ecs.KindHealth)
	ecs.RegisterComponent[ecs.Population](worldState, ecs.KindPopulation)

	clock := simulation.NewClock()
	bus := event.NewBus()
	log := event.NewLog()

	seedStream := rng.New(cfg.seed)
	cascade := event.NewCascade(3, seedStream.Fork(cfg.seed, "cascade"))

	registry := scheduler.NewRegistry()
	book := domain.NewGrudgeBook()
	systems := []scheduler.System{
		domain.NewWeather(seedStream.Fork(cfg.seed, "weather")),
		domain.NewCharacterAI(seedStream.Fork(cfg.seed, "character")),
		domain.NewPopulation(seedStream.Fork(cfg.seed, "population")),
		domain.NewEconomy(seedStream.Fork(cfg.seed, "economic")),
		domain.NewRelationships(seedStream.Fork(cfg.seed, "faction"), book),
	}
	for _, s := range systems {
		if err := registry.Register(s); err != nil {
			slog.Error("failed to register system", "system", s.Name(), "error", err)
			os.Exit(1)
		}
	}

	engine := simulation.New(worldState, clock, bus, log, registry, cascade, cfg.seed)

	loaded, seed, err := db.LoadSnapshot()
	if err != nil {
		slog.Info("no saved world state found, generating a fresh one", "reason", err)
		seedWorld(worldState, cfg.seed)
		if err := engine.Initialize(); err != nil {
			slog.Error("engine initialization failed", "error", err)
			os.Exit(1)
		}
	} else {
		slog.Info("restoring saved world state", "tick", loaded.Tick, "seed", seed)
		restoredWorld, restoredClock, restoredLog, err := snapshot.NewManager().Restore(loaded)
		if err != nil {
			slog.Error("failed to restore snapshot", "error", err)
			os.Exit(1)
		}
		worldState = restoredWorld
		log = restoredLog
		clock.RestoreTick(restoredClock.CurrentTick())
		engine = simulation.New(worldState, clock, bus, restoredLog, registry, cascade, cfg.seed)
		if err := engine.Initialize(); err != nil {
			slog.Error("engine re-initialization failed", "error", err)
			os.Exit(1)
		}
	}

	obs := observer.New()
	stream := observer.NewStream()
	bus.OnAny(func(ev event.WorldEvent) {
		obs.Notify(ev)
		if ev.Significance >= 70 {
			stream.Publish(observer.Delta{
				Tick:   clock.CurrentTick(),
				Events: []event.WorldEvent{ev},
			})
		}
	})

	if cfg.adminKey == "" {
		slog.Warn("WORLDFABRIC_ADMIN_KEY not set — snapshot export endpoint disabled")
	}
	apiServer := &api.Server{
		Engine:   engine,
		Observer: obs,
		Stream:   stream,
		DB:       db,
		Seed:     cfg.seed,
		Port:     cfg.apiPort,
		AdminKey: cfg.adminKey,
	}
	apiServer.Start()

	c := cron.New(cron.WithSeconds())
	_, err = c.AddFunc(cfg.tickCron, func() {
		ticksPerStep := obs.Speed().TicksPerStep()
		if ticksPerStep == 0 {
			return
		}
		if err := engine.Run(ticksPerStep); err != nil {
			slog.Error("tick run faulted", "error", err)
			return
		}
		if clock.CurrentTick()%30 == 0 {
			snap := snapshot.NewManager().Capture(worldState, clock, log, "auto")
			if err := db.SaveSnapshot(snap, cfg.seed); err != nil {
				slog.Error("autosave failed", "error", err)
			}
		}
	})
	if err != nil {
		slog.Error("failed to schedule tick pump", "error", err)
		os.Exit(1)
	}
	c.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	fmt.Printf("worldfabric running: tick %d, %d entities\n", clock.CurrentTick(), worldState.EntityCount())
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", cfg.apiPort)

	sig := <-sigCh
	slog.Info("received signal, shutting down", "signal", sig)
	c.Stop()

	snap := snapshot.NewManager().Capture(worldState, clock, log, "shutdown")
	if err := db.SaveSnapshot(snap, cfg.seed); err != nil {
		slog.Error("final save failed", "error", err)
	}
	fmt.Println("worldfabric stopped. world state saved.")
}

// seedWorld populates a fresh world with terrain-backed Position
// components for a starting population, grounded on the teacher's
// world.Generate + settlement-seed placement.
func seedWorld(w *ecs.World, seed uint32) {
	cfg := world.DefaultGenConfig()
	cfg.Seed = int64(seed)
	terrain := world.Generate(cfg)
	seeds := world.PlaceSettlements(terrain, int64(seed))

	for _, s := range seeds {
		id := w.CreateEntity()
		ecs.AddComponent(w, id, ecs.KindPosition, ecs.Position{X: float64(s.Coord.Q), Y: float64(s.Coord.R)})
		ecs.AddComponent(w, id, ecs.KindHealth, ecs.Health{Value: 1.0})
		ecs.AddComponent(w, id, ecs.KindPopulation, ecs.Population{Count: 100})
	}
}
