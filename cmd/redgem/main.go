package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/12rambau/pytfa/pkg/config"
	"github.com/12rambau/pytfa/pkg/logging"
	"github.com/12rambau/pytfa/pkg/modelio"
	"github.com/12rambau/pytfa/pkg/output"
	"github.com/12rambau/pytfa/pkg/reduction"
	"github.com/12rambau/pytfa/pkg/watcher"
	"github.com/12rambau/pytfa/pkg/web"
	flag "github.com/spf13/pflag"
)

func main() {
	f := flag.NewFlagSet("redgem", flag.ExitOnError)
	f.String("model", "", "Path to the JSON model file")
	f.StringSlice("core-subsystems", nil, "Subsystems always retained in the reduced model")
	f.StringSlice("subsystems", nil, "Subsystems searched pairwise (defaults to core subsystems)")
	f.Float64("carbon-uptake", 0, "Carbon uptake rate carried into the reduced model")
	f.StringSlice("cofactor-pairs", nil, "Cofactor metabolite IDs excluded from the graph")
	f.StringSlice("small-metabolites", nil, "Small metabolite IDs excluded from the graph")
	f.StringSlice("inorganics", nil, "Inorganic metabolite IDs excluded from the graph")
	f.StringSlice("extracellular", nil, "Extracellular metabolite IDs")
	f.Int("depth", 1, "Maximum inter-subsystem search depth")
	f.Int("extracellular-depth", 0, "Maximum extracellular search depth")
	f.Int("max-paths", 0, "Per-search path enumeration budget (0 = unlimited)")
	f.Bool("web", false, "Start web server instead of printing to console")
	f.Int("port", 8080, "Port for web server (only used with --web)")
	f.Bool("watch", false, "Re-run the reduction whenever the model file changes")
	f.Bool("verbose", false, "Enable verbose logging and list removed reactions")
	f.String("output", "", "Path to write the reduced model to")
	if err := f.Parse(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if cfg.Verbose {
		logging.SetLevel(slog.LevelDebug)
	}
	if cfg.Model == "" {
		fmt.Fprintln(os.Stderr, "Error: --model is required")
		os.Exit(1)
	}

	if cfg.Web {
		runServer(cfg)
		return
	}

	_, result, err := runReduction(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	report(cfg, result)

	if cfg.Watch {
		watchAndRerun(cfg, nil)
	}
}

// runReduction loads the model and runs one full reduction
func runReduction(cfg *config.Config) (*reduction.Reducer, *reduction.Result, error) {
	network, err := modelio.Load(cfg.Model)
	if err != nil {
		return nil, nil, fmt.Errorf("loading model: %w", err)
	}
	logging.Info("loaded model", "name", network.Name,
		"reactions", len(network.Reactions), "metabolites", len(network.Metabolites))

	reducer, err := reduction.NewReducer(network, reduction.Params{
		CoreSubsystems:     cfg.CoreSubsystems,
		Subsystems:         cfg.Subsystems,
		CarbonUptake:       cfg.CarbonUptake,
		CofactorPairs:      cfg.CofactorPairs,
		SmallMetabolites:   cfg.SmallMetabolites,
		Inorganics:         cfg.Inorganics,
		Depth:              cfg.Depth,
		Extracellular:      cfg.Extracellular,
		ExtracellularDepth: cfg.ExtracellularDepth,
		MaxPaths:           cfg.MaxPaths,
	})
	if err != nil {
		return nil, nil, err
	}

	result, err := reducer.Run()
	if err != nil {
		return nil, nil, err
	}

	if cfg.Output != "" {
		if err := modelio.Save(cfg.Output, result.Network); err != nil {
			return nil, nil, fmt.Errorf("writing reduced model: %w", err)
		}
		logging.Info("wrote reduced model", "path", cfg.Output)
	}

	return reducer, result, nil
}

func report(cfg *config.Config, result *reduction.Result) {
	subsystems := cfg.Subsystems
	if len(subsystems) == 0 {
		subsystems = cfg.CoreSubsystems
	}
	output.PrintReductionReport(cfg.Model, subsystems, result)
	if cfg.Verbose {
		output.PrintRemovedReactions(result)
	}
}

// runServer starts the web server, runs the reduction in the background, and
// optionally keeps re-running it on model file changes
func runServer(cfg *config.Config) {
	server := web.NewServer()

	go func() {
		if err := server.Start(cfg.Port); err != nil {
			logging.Fatal("failed to start server", "error", err)
		}
	}()

	go func() {
		server.PublishStatus("loading", fmt.Sprintf("loading %s", cfg.Model))
		reducer, result, err := runReduction(cfg)
		if err != nil {
			server.PublishStatus("failed", err.Error())
			logging.Error("reduction failed", "error", err)
			return
		}
		subsystems := cfg.Subsystems
		if len(subsystems) == 0 {
			subsystems = cfg.CoreSubsystems
		}
		server.SetResult(cfg.Model, subsystems, cfg.Depth, reducer, result)
		server.PublishStatus("ready", "reduction complete")
	}()

	if cfg.Watch {
		watchAndRerun(cfg, server)
	} else {
		select {}
	}
}

// watchAndRerun blocks, re-running the reduction every time the model file
// settles after a change
func watchAndRerun(cfg *config.Config, server *web.Server) {
	ctx := context.Background()

	mw, err := watcher.NewModelWatcher(cfg.Model)
	if err != nil {
		logging.Fatal("failed to create watcher", "error", err)
	}
	if err := mw.Start(ctx); err != nil {
		logging.Fatal("failed to start watcher", "error", err)
	}

	debouncer := watcher.NewDebouncer(mw.Events(), 500*time.Millisecond, 5*time.Second)
	debouncer.Start(ctx)

	for event := range debouncer.Output() {
		logging.Info("model changed, re-running reduction", "paths", event.Paths)
		if server != nil {
			server.PublishStatus("loading", "model changed, re-running")
		}

		reducer, result, err := runReduction(cfg)
		if err != nil {
			logging.Error("reduction failed", "error", err)
			if server != nil {
				server.PublishStatus("failed", err.Error())
			}
			continue
		}

		if server != nil {
			subsystems := cfg.Subsystems
			if len(subsystems) == 0 {
				subsystems = cfg.CoreSubsystems
			}
			server.SetResult(cfg.Model, subsystems, cfg.Depth, reducer, result)
			server.PublishStatus("ready", "reduction complete")
		} else {
			report(cfg, result)
		}
	}
}
