// Command depengine ingests a directory of service-unit declarations,
// resolves the dependency graph, and reports the result.
//
// Configuration is read from environment variables (optionally preloaded
// from a .env file in the working directory):
//
//	DEPENGINE_UNITS_DIR   - Directory of *.yaml unit files (default: ./units)
//	DEPENGINE_MODE        - "once" (default) or "watch"
//	DEPENGINE_INTERVAL    - Watch-mode re-resolution interval (default: 30s)
//	DEPENGINE_LOG_LEVEL   - Log level: debug, info, warn, error (default: info)
//	DEPENGINE_QUERY       - JMESPath expression evaluated against the report
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/svcinit/depengine/internal/config"
	"github.com/svcinit/depengine/internal/diagnostics"
	"github.com/svcinit/depengine/internal/ingest"
	"github.com/svcinit/depengine/internal/rcd"
	"github.com/svcinit/depengine/internal/report"
	"github.com/svcinit/depengine/internal/service"
)

// Version is set via ldflags at build time.
var Version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "depengine: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	unitsDir := flag.String("units", "", "directory of service-unit declarations (overrides DEPENGINE_UNITS_DIR)")
	mode := flag.String("mode", "", `run mode: "once" or "watch" (overrides DEPENGINE_MODE)`)
	query := flag.String("query", "", "JMESPath expression evaluated against the report (overrides DEPENGINE_QUERY)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *unitsDir != "" {
		cfg.Units = *unitsDir
	}
	if *mode != "" {
		cfg.Mode = *mode
	}
	if *query != "" {
		cfg.Query = *query
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))

	logger.Info("starting depengine", "version", Version, "units_dir", cfg.Units, "mode", cfg.Mode)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	registry := service.NewRegistry()
	if err := ingest.LoadDir(registry, cfg.Units); err != nil {
		return fmt.Errorf("ingesting service units: %w", err)
	}

	sink := diagnostics.NewSlogSink(logger)
	resolver := service.NewResolver(registry, sink)

	switch cfg.Mode {
	case "watch":
		return runWatch(ctx, resolver, registry, logger, cfg.Interval, cfg.Query)
	default:
		if err := resolver.ResolveAll(); err != nil {
			return fmt.Errorf("resolving dependency graph: %w", err)
		}
		return printOutput(os.Stdout, registry, cfg.Query)
	}
}

func runWatch(ctx context.Context, resolver *service.Resolver, registry *service.Registry, logger *slog.Logger, interval time.Duration, query string) error {
	watcher := rcd.NewWatcher(resolver, logger, interval)
	if err := watcher.Resolve(); err != nil {
		return fmt.Errorf("resolving dependency graph: %w", err)
	}
	if err := printOutput(os.Stdout, registry, query); err != nil {
		return err
	}

	go watcher.Run(ctx)
	<-ctx.Done()
	watcher.Stop()
	return nil
}

// printOutput renders the resolved graph to w. With no query, it prints the
// plain-text relation report; with one, it evaluates the query against the
// JSON report and prints the matched result.
func printOutput(w *os.File, registry *service.Registry, query string) error {
	if query == "" {
		printReport(w, registry)
		return nil
	}

	entries := report.Build(registry)
	result, err := report.Query(query, entries)
	if err != nil {
		return fmt.Errorf("running query: %w", err)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// printReport renders every resolved service and its relation sets, in
// name order, to w. The format is deliberately simple — a downstream
// consumer scripting against it does so on a best-effort basis; this is a
// reporting convenience, not a serialization contract. Callers that need
// structured output should use -query instead.
func printReport(w *os.File, registry *service.Registry) {
	for _, rec := range registry.Enumerate() {
		fmt.Fprintf(w, "%s\n", rec.Name)
		printRelation(w, "  need", rec.Relations(service.Need))
		printRelation(w, "  use", rec.Relations(service.Use))
		printRelation(w, "  before", rec.Relations(service.Before))
		printRelation(w, "  after", rec.Relations(service.After))
		printRelation(w, "  broken", rec.Relations(service.Broken))
	}
}

func printRelation(w *os.File, label string, peers []string) {
	if len(peers) == 0 {
		return
	}
	fmt.Fprintf(w, "%s: %s\n", label, strings.Join(peers, ", "))
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
