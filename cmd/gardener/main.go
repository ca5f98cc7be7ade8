// Command gardener runs one offline analysis pass over a saved world:
// it observes the live simulation through its HTTP API, triages recent
// events, proposes branch divergences worth exploring, and runs each
// against the last saved snapshot to see how it plays out.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/talgya/worldfabric/internal/domain"
	"github.com/talgya/worldfabric/internal/ecs"
	"github.com/talgya/worldfabric/internal/event"
	"github.com/talgya/worldfabric/internal/gardener"
	"github.com/talgya/worldfabric/internal/llm"
	"github.com/talgya/worldfabric/internal/persistence"
	"github.com/talgya/worldfabric/internal/rng"
	"github.com/talgya/worldfabric/internal/scheduler"
	"github.com/talgya/worldfabric/internal/simulation"
	"github.com/talgya/worldfabric/internal/snapshot"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	apiURL := envOrDefault("WORLDFABRIC_API_URL", "http://localhost:8080")
	dbPath := envOrDefault("WORLDFABRIC_DB", "data/worldfabric.db")
	branchTicks := uint64(envIntOrDefault("GARDENER_BRANCH_TICKS", 30))

	slog.Info("gardener starting", "api_url", apiURL, "db", dbPath)

	db, err := persistence.Open(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	snap, seed, err := db.LoadSnapshot()
	if err != nil {
		slog.Error("no saved world state to branch from", "error", err)
		os.Exit(1)
	}

	memory := gardener.LoadMemory()

	obs := gardener.NewObserver(apiURL)
	report, err := obs.Observe()
	if err != nil {
		slog.Error("observation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("observation complete",
		"tick", report.Status.Tick,
		"entities", report.Status.EntityCount,
		"events", len(report.RecentEvents),
	)

	health := gardener.Triage(report)
	slog.Info("triage complete",
		"crisis_level", health.CrisisLevel,
		"disasters", health.DisasterCount,
		"warfare", health.WarfareCount,
		"high_significance", len(health.HighSignificance),
	)

	proposals := gardener.Decide(health)
	if len(proposals) == 0 {
		fmt.Println("gardener: world healthy, nothing to branch on")
		memory.Record(gardener.CycleRecord{
			Tick:        report.Status.Tick,
			Label:       "no proposals",
			CrisisLevel: health.CrisisLevel,
			EventCount:  len(report.RecentEvents),
		})
		memory.Save()
		return
	}

	runner := snapshot.NewRunner(snapshot.NewManager())
	results := gardener.Act(runner, snap, proposals, branchTicks, seed, branchEngineFactory)

	llmClient := llm.NewClient(os.Getenv("ANTHROPIC_API_KEY"))
	results = gardener.Narrate(llmClient, results)

	fmt.Printf("gardener: explored %d branch(es) from tick %d\n", len(results), report.Status.Tick)
	for _, r := range results {
		if r.Err != nil {
			fmt.Printf("  - %s: FAILED: %v\n", r.Label, r.Err)
			slog.Error("branch failed", "label", r.Label, "error", r.Err)
			continue
		}
		fmt.Printf("  - %s: %d events over %d ticks\n", r.Label, len(r.Events), branchTicks)
		if r.Narration != "" {
			fmt.Printf("    %s\n", r.Narration)
		}
		memory.Record(gardener.CycleRecord{
			Tick:        report.Status.Tick,
			Label:       r.Label,
			CrisisLevel: health.CrisisLevel,
			EventCount:  len(r.Events),
		})
	}
	memory.Save()

	fmt.Println()
	fmt.Println("recent gardener history:")
	fmt.Print(memory.FormatSummary())
}

// branchEngineFactory builds a branch engine registering the same
// reference domain systems worldfabric runs, each forked fresh from the
// branch seed — a branch explores "what if this event hadn't happened",
// not "what if the systems behaved differently".
func branchEngineFactory(world *ecs.World, clock *simulation.Clock, bus *event.Bus, log *event.Log, seed uint32) *simulation.Engine {
	registry := scheduler.NewRegistry()
	book := domain.NewGrudgeBook()
	seedStream := rng.New(seed)
	systems := []scheduler.System{
		domain.NewWeather(seedStream.Fork(seed, "weather")),
		domain.NewCharacterAI(seedStream.Fork(seed, "character")),
		domain.NewPopulation(seedStream.Fork(seed, "population")),
		domain.NewEconomy(seedStream.Fork(seed, "economic")),
		domain.NewRelationships(seedStream.Fork(seed, "faction"), book),
	}
	for _, s := range systems {
		registry.Register(s)
	}

	cascade := event.NewCascade(3, seedStream.Fork(seed, "cascade"))
	return simulation.New(world, clock, bus, log, registry, cascade, seed)
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envIntOrDefault(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}
