// Package main is the entry point for the companion.
//
// companion is the desktop helper for the game proxy: it keeps the reference
// tables (rooms, items, monsters, spells) cached in memory for the viewer
// panels and stores the automated healing/curing/buffing configuration the
// dialogs edit. Configuration is read from CLI flags and settings.yaml.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/mudproxy/companion/internal/autoaction"
	"github.com/mudproxy/companion/internal/refdata"
	"github.com/mudproxy/companion/internal/settings"
	"github.com/mudproxy/companion/internal/watch"
)

func main() {
	if err := mainImpl(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "companion: %v\n", err)
		os.Exit(1)
	}
}

func mainImpl() error {
	version := flag.Bool("version", false, "Print version and exit")
	configPath := flag.String("config", "settings.yaml", "Path to the settings file")
	dataDir := flag.String("data-dir", "", "Data directory (overrides settings)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error; overrides settings)")
	show := flag.String("show", "", "Load one reference table, print its rows, and exit")
	flag.Parse()
	if len(flag.Args()) > 0 {
		return fmt.Errorf("unknown arguments: %v", flag.Args())
	}

	if *version {
		printVersion()
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()
	ll := &slog.LevelVar{}
	ll.Set(slog.LevelInfo)
	logger := slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
		Level:      ll,
		TimeFormat: "15:04:05.000", // Like time.TimeOnly plus milliseconds.
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	}))
	slog.SetDefault(logger)

	cfg, err := settings.Load(*configPath)
	if err != nil {
		return err
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	switch cfg.LogLevel {
	case "debug":
		ll.Set(slog.LevelDebug)
	case "info":
	case "warn":
		ll.Set(slog.LevelWarn)
	case "error":
		ll.Set(slog.LevelError)
	default:
		return fmt.Errorf("unknown log level: %q", cfg.LogLevel)
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil { //nolint:gosec // G301: 0o755 is intentional for data directories
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	refDir := filepath.Join(cfg.DataDir, "refdata")
	cache := refdata.New(refdata.NewDirSource(refDir))
	defer cache.Subscribe(refdata.ObserverFuncs{
		OnTableLoaded: func(name string) {
			slog.InfoContext(ctx, "Reference table ready", "table", name)
		},
		OnAllTablesLoaded: func() {
			slog.InfoContext(ctx, "All reference tables loaded", "tables", len(cache.LoadedNames()))
		},
		OnLoadError: func(name string, err error) {
			slog.WarnContext(ctx, "Reference table unavailable", "table", name, "err", err)
		},
	})()

	if *show != "" {
		return showTable(ctx, cache, *show)
	}

	profile, err := autoaction.NewProfile(filepath.Join(cfg.DataDir, "autoaction"))
	if err != nil {
		return fmt.Errorf("failed to load automation profile: %w", err)
	}
	slog.InfoContext(ctx, "Automation profile loaded",
		"heals", len(profile.Heals()), "cures", len(profile.Cures()), "buffs", len(profile.Buffs()))

	// Re-imports rewrite the table files behind our back; watch and
	// invalidate so the viewer never shows stale data.
	if _, err := os.Stat(refDir); err == nil {
		if err := watch.Dir(ctx, refDir, time.Second, func() {
			slog.InfoContext(ctx, "Reference data changed, invalidating cache")
			cache.InvalidateAll()
			cache.StartPreload(ctx)
		}); err != nil {
			return fmt.Errorf("failed to watch reference data: %w", err)
		}
	}

	if cfg.PreloadOnStart {
		cache.StartPreload(ctx)
	}
	if cfg.ProxyAddr != "" {
		slog.InfoContext(ctx, "Attaching to proxy", "addr", cfg.ProxyAddr)
	}

	<-ctx.Done()
	slog.InfoContext(ctx, "Shutting down")
	return nil
}

func showTable(ctx context.Context, cache *refdata.Cache, name string) error {
	table, err := cache.EnsureLoaded(ctx, name)
	if err != nil {
		if refdata.CodeOf(err) == refdata.ErrorCodeNotFound {
			return fmt.Errorf("no such table: %s", name)
		}
		return err
	}
	for row := range table.All() {
		first := true
		for field, v := range row.Fields() {
			if !first {
				fmt.Print("  ")
			}
			first = false
			fmt.Printf("%s=%s", field, v)
		}
		fmt.Println()
	}
	fmt.Printf("%d rows\n", table.Len())
	return nil
}

func printVersion() {
	version, goVersion, revision, dirty := getBuildInfo()
	fmt.Printf("companion %s\n", version)
	fmt.Printf("  Go version: %s\n", goVersion)
	fmt.Printf("  Revision:   %s\n", revision)
	if dirty {
		fmt.Printf("  Modified:   true\n")
	}
}

func getBuildInfo() (version, goVersion, revision string, dirty bool) {
	version = "unknown"
	goVersion = "unknown"
	revision = "unknown"
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	version = info.Main.Version
	if version == "" || version == "(devel)" {
		version = "dev"
	}
	goVersion = info.GoVersion
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	return
}
