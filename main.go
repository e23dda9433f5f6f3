package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/cheggaaa/pb"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/google/uuid"

	"github.com/pthm-cable/creatures/config"
	"github.com/pthm-cable/creatures/game"
	"github.com/pthm-cable/creatures/storage"
	"github.com/pthm-cable/creatures/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	lineageDB := flag.String("lineage-db", "", "SQLite file for the lineage archive (empty = in memory)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call (higher = faster headless runs)")
	progress := flag.Bool("progress", false, "Show a progress bar for headless runs with -max-ticks")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *statsWindow > 0 {
		cfg.SetStatsWindow(*statsWindow)
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}
	runID := uuid.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	storeKind := "memory"
	if *lineageDB != "" {
		storeKind = "sqlite"
	}
	store, err := storage.NewStore(storeKind, *lineageDB)
	if err != nil {
		slog.Error("failed to create lineage store", "error", err)
		os.Exit(1)
	}
	if err := store.Init(ctx); err != nil {
		slog.Error("failed to initialize lineage store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := storage.CloseIfSupported(store); err != nil {
			slog.Error("failed to close lineage store", "error", err)
		}
	}()

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	if output != nil {
		if err := output.WriteConfig(cfg); err != nil {
			slog.Error("failed to write config", "error", err)
		}
		err := output.WriteRunInfo(telemetry.RunInfo{
			ID:        runID,
			Seed:      rngSeed,
			Headless:  *headless,
			StartedAt: time.Now().UTC(),
			Config:    *configPath,
			LineageDB: *lineageDB,
		})
		if err != nil {
			slog.Error("failed to write run info", "error", err)
		}
	}

	opts := game.Options{
		Config:         cfg,
		Seed:           rngSeed,
		RunID:          runID,
		Headless:       *headless,
		StepsPerUpdate: *stepsPerUpdate,
		LogStats:       *logStats,
		Output:         output,
		Store:          store,
		Context:        ctx,
	}

	if *headless {
		runHeadless(ctx, opts, *maxTicks, *progress)
		return
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Affinity Creatures")
	defer rl.CloseWindow()
	rl.SetExitKey(0)
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g := game.NewGameWithOptions(opts)
	defer g.Unload()

	for !rl.WindowShouldClose() && ctx.Err() == nil {
		g.Update()
		g.Draw()

		if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
			break
		}
	}
	g.LogSummary()
}

// runHeadless steps the simulation until max ticks, extinction or interrupt.
func runHeadless(ctx context.Context, opts game.Options, maxTicks int, progress bool) {
	g := game.NewGameWithOptions(opts)
	defer g.Unload()

	slog.Info("starting headless simulation",
		"run_id", g.RunID(),
		"seed", opts.Seed,
		"max_ticks", maxTicks,
		"steps_per_update", opts.StepsPerUpdate,
	)

	var bar *pb.ProgressBar
	if progress && maxTicks > 0 {
		bar = pb.New(maxTicks)
		bar.Output = os.Stderr
		bar.SetWidth(80)
		bar.Start()
		defer bar.Finish()
	}

	for ctx.Err() == nil {
		g.UpdateHeadless()
		if bar != nil {
			bar.Set(min(int(g.Tick()), maxTicks))
		}

		if g.Extinct() {
			break
		}
		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick())
			break
		}
	}
	if ctx.Err() != nil {
		slog.Info("interrupted", "tick", g.Tick())
	}
	g.LogSummary()
}
