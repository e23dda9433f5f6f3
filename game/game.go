// Package game wires the ECS world, systems and telemetry into the tick
// loop, and draws it when a window is open.
package game

import (
	"context"
	"log/slog"
	"math/rand"

	"github.com/google/uuid"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/creatures/camera"
	"github.com/pthm-cable/creatures/components"
	"github.com/pthm-cable/creatures/config"
	"github.com/pthm-cable/creatures/population"
	"github.com/pthm-cable/creatures/storage"
	"github.com/pthm-cable/creatures/systems"
	"github.com/pthm-cable/creatures/telemetry"
)

// Options configures a Game.
type Options struct {
	Config         *config.Config // nil uses config.Cfg()
	Seed           int64
	RunID          uuid.UUID // uuid.Nil generates one
	Headless       bool
	StepsPerUpdate int
	LogStats       bool
	Output         *telemetry.OutputManager
	Store          storage.Store // initialized lineage archive, may be nil
	Context        context.Context
	StatsCallback  func(telemetry.WindowStats)
}

type creatureMapper = ecs.Map6[
	components.Position,
	components.Behavior,
	components.Vigor,
	components.Genes,
	components.Timers,
	components.Organism,
]

type creatureFilter = ecs.Filter6[
	components.Position,
	components.Behavior,
	components.Vigor,
	components.Genes,
	components.Timers,
	components.Organism,
]

// Game holds the complete simulation state.
type Game struct {
	cfg   *config.Config
	world *ecs.World
	rng   *rand.Rand
	runID uuid.UUID
	ctx   context.Context

	mapper *creatureMapper
	filter *creatureFilter

	// Individual component mappers for lookups
	posMap   *ecs.Map[components.Position]
	behMap   *ecs.Map[components.Behavior]
	vigorMap *ecs.Map[components.Vigor]
	genesMap *ecs.Map[components.Genes]
	orgMap   *ecs.Map[components.Organism]

	pop *population.Controller

	// Systems
	grid     *systems.SpatialGrid
	overlaps *systems.OverlapTracker
	pairs    []systems.Pair
	behavior *systems.BehaviorSystem
	breeding *systems.BreedingSystem
	parallel *parallelState

	// Telemetry
	collector     *telemetry.Collector
	lifetimes     *telemetry.LifetimeTracker
	perf          *telemetry.PerfCollector
	output        *telemetry.OutputManager
	store         storage.Store
	logStats      bool
	statsCallback func(telemetry.WindowStats)

	// Clock
	tick    int32
	now     float64 // scaled simulation seconds
	nextID  uint32
	extinct bool

	totalBirths int
	totalDeaths int

	// Viewer state
	headless       bool
	paused         bool
	stepsPerUpdate int
	camera         *camera.Camera
	selected       ecs.Entity
	hasSelection   bool
	showTargets    bool
	screenW        float32
	screenH        float32
}

// NewGameWithOptions creates a game and spawns the founders.
func NewGameWithOptions(opts Options) *Game {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	runID := opts.RunID
	if runID == uuid.Nil {
		runID = uuid.New()
	}
	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	world := ecs.NewWorld()
	rng := rand.New(rand.NewSource(opts.Seed))
	half := float32(cfg.Arena.HalfExtent)

	g := &Game{
		cfg:   cfg,
		world: world,
		rng:   rng,
		runID: runID,
		ctx:   ctx,

		mapper: ecs.NewMap6[
			components.Position,
			components.Behavior,
			components.Vigor,
			components.Genes,
			components.Timers,
			components.Organism,
		](world),
		filter: ecs.NewFilter6[
			components.Position,
			components.Behavior,
			components.Vigor,
			components.Genes,
			components.Timers,
			components.Organism,
		](world),
		posMap:   ecs.NewMap[components.Position](world),
		behMap:   ecs.NewMap[components.Behavior](world),
		vigorMap: ecs.NewMap[components.Vigor](world),
		genesMap: ecs.NewMap[components.Genes](world),
		orgMap:   ecs.NewMap[components.Organism](world),

		pop: population.New(cfg.Population.TimeScale, cfg.Population.Ceiling),

		grid:     systems.NewSpatialGrid(half, float32(cfg.Physics.GridCellSize)),
		overlaps: systems.NewOverlapTracker(),
		behavior: systems.NewBehaviorSystem(world,
			systems.Wanderer{
				Radius:        float32(cfg.Arena.WanderRadius),
				ArriveEpsilon: float32(cfg.Physics.ArriveEpsilon),
			},
			systems.Engagement{
				Threshold: cfg.Engagement.Threshold,
				Metric:    cfg.Derived.Metric,
			},
			rng),
		breeding: systems.NewBreedingSystem(world, cfg.Mutation,
			float32(cfg.Reproduction.SpawnRadius), half, rng),
		parallel: newParallelState(cfg.Parallel.Workers),

		collector:     telemetry.NewCollector(cfg.Derived.TicksPerStat),
		lifetimes:     telemetry.NewLifetimeTracker(),
		perf:          telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		output:        opts.Output,
		store:         opts.Store,
		logStats:      opts.LogStats,
		statsCallback: opts.StatsCallback,

		nextID:         1,
		headless:       opts.Headless,
		stepsPerUpdate: steps,
		showTargets:    true,
		screenW:        float32(cfg.Screen.Width),
		screenH:        float32(cfg.Screen.Height),
	}
	g.behavior.SetObserver(combatHooks{g})

	if !g.headless {
		g.camera = camera.New(g.screenW, g.screenH, half)
	}

	g.spawnFounders()

	slog.Info("game_created",
		"run_id", g.runID,
		"seed", opts.Seed,
		"founders", g.pop.Count(),
		"ceiling", g.pop.Ceiling(),
		"metric", cfg.Derived.Metric,
	)
	return g
}

// config returns the game configuration.
func (g *Game) config() *config.Config {
	return g.cfg
}

// Update runs stepsPerUpdate ticks unless paused. Used by the viewer.
func (g *Game) Update() {
	g.handleInput()
	if g.paused {
		return
	}
	g.UpdateHeadless()
}

// UpdateHeadless runs stepsPerUpdate ticks without touching input.
func (g *Game) UpdateHeadless() {
	dt := g.config().Physics.DT
	for i := 0; i < g.stepsPerUpdate; i++ {
		if !g.Step(dt) {
			return
		}
	}
}

// Unload releases workers and flushes outputs.
func (g *Game) Unload() {
	g.stopParallelWorkers()
	if g.output != nil {
		if err := g.output.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
	}
}

// Tick returns the number of completed ticks.
func (g *Game) Tick() int32 {
	return g.tick
}

// Now returns the scaled simulation clock in seconds.
func (g *Game) Now() float64 {
	return g.now
}

// Population returns the number of live creatures.
func (g *Game) Population() int {
	return g.pop.Count()
}

// Extinct reports whether the population died out.
func (g *Game) Extinct() bool {
	return g.extinct
}

// RunID returns the run identifier used for telemetry and lineage records.
func (g *Game) RunID() uuid.UUID {
	return g.runID
}
