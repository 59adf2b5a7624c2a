// Command aces-demo runs one co-evolution from the built-in default
// configuration against the standard corporate network topology, streaming
// generation progress to the terminal and writing results to output_dir.
// It takes no flags — config is whatever config.DefaultConfig() returns,
// unless the ACES_CONFIG environment variable names a YAML file to load.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redqueen-labs/aces/internal/config"
	"github.com/redqueen-labs/aces/internal/coevolution"
	"github.com/redqueen-labs/aces/internal/core"
	"github.com/redqueen-labs/aces/internal/logger"
	"github.com/redqueen-labs/aces/internal/resultstore"
	"github.com/redqueen-labs/aces/internal/stream"
	"github.com/redqueen-labs/aces/internal/worker"
	"github.com/redqueen-labs/aces/pkg/attck"
	"github.com/redqueen-labs/aces/pkg/network"
	"github.com/redqueen-labs/aces/pkg/simulate"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "aces-demo:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.DefaultConfig()
	if path := os.Getenv("ACES_CONFIG"); path != "" {
		loaded, err := config.LoadYAML(path)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	log, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync()

	registry := attck.NewRegistry()
	net := network.CorporateMedium()

	sim := simulate.NewEngine(registry)
	dispatcher := worker.NewMatchupDispatcher(sim, cfg.Seed, log)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := dispatcher.Start(ctx, cfg.Worker.Count); err != nil {
		return fmt.Errorf("start matchup dispatcher: %w", err)
	}
	defer dispatcher.Stop()

	store, err := resultstore.NewStore(cfg.OutputDir)
	if err != nil {
		return fmt.Errorf("create result store: %w", err)
	}

	sink := connectMetricsSink(ctx, cfg, log)
	if sink != nil {
		defer sink.Close()
	}

	engine := coevolution.NewEngine(cfg, coevolution.Dependencies{
		Registry:   registry,
		Network:    net,
		Dispatcher: dispatcher,
		Sink:       sink,
		Store:      store,
		Logger:     log,
	})

	result, err := engine.Run(ctx)
	if err != nil {
		return fmt.Errorf("run co-evolution: %w", err)
	}

	fmt.Printf("run %s complete: %d generations, results in %s\n",
		result.RunID, result.GenerationsRun, store.Dir())
	fmt.Printf("  attacker hall of fame: %d entries\n", result.AttackerHOF.Len())
	fmt.Printf("  defender hall of fame: %d entries\n", result.DefenderHOF.Len())
	return nil
}

// connectMetricsSink attempts to wire the best-effort Redis metrics stream.
// A connection failure is logged and demoted to "no sink" rather than
// failing the run — the stream is an external collaborator, not a
// dependency the co-evolution loop needs to function. The return type is
// the core.MetricsSink interface, not *stream.Broadcaster: a typed nil
// assigned to an interface field is not itself nil, which would defeat
// coevolution.Engine's "sink == nil" check on connection failure.
func connectMetricsSink(ctx context.Context, cfg *config.Config, log *logger.Logger) core.MetricsSink {
	broadcaster, err := stream.NewBroadcaster(cfg.Redis, cfg.Worker.Count*4, log)
	if err != nil {
		log.LogError(ctx, err, "metrics_sink_connect")
		return nil
	}
	return broadcaster
}
