package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pders01/nyhet/internal/config"
	"github.com/pders01/nyhet/internal/debuglog"
	"github.com/pders01/nyhet/internal/feed"
	"github.com/pders01/nyhet/internal/scheduler"
	"github.com/pders01/nyhet/internal/search"
	"github.com/pders01/nyhet/internal/server"
	"github.com/pders01/nyhet/internal/storage"
)

var (
	flagAddr    string
	flagDB      string
	flagNoFetch bool
	flagForce   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Collect feeds and serve the news API",
	RunE:  runServe,
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Collect every configured feed once and exit",
	RunE:  runFetch,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "listen address (overrides config)")
	serveCmd.Flags().StringVar(&flagDB, "db", "", "path to database file (overrides config)")
	serveCmd.Flags().BoolVar(&flagNoFetch, "no-fetch", false, "serve stored articles without collecting feeds")

	fetchCmd.Flags().StringVar(&flagDB, "db", "", "path to database file (overrides config)")
	fetchCmd.Flags().BoolVar(&flagForce, "force", false, "ignore ETag/Last-Modified and refetch every feed")
}

// setupServerLogging logs to stderr. Without an explicit level the backend
// logs at info even when the config turns browsing logs off.
func setupServerLogging(cfg *config.Config) {
	level := debuglog.ParseLogLevel(cfg.Log.Level)
	if flagLogLevel == "" && level == debuglog.LevelOff {
		level = debuglog.LevelInfo
	}
	debuglog.SetupWriter(level, os.Stderr)
}

func openStore(cfg *config.Config) (*storage.Store, error) {
	path := cfg.Server.DBPath
	if flagDB != "" {
		path = flagDB
	}
	store, err := storage.NewStore(path)
	if err != nil {
		return nil, fmt.Errorf("opening store %s: %w", path, err)
	}
	return store, nil
}

// newSearcher builds the configured search backend. The bleve index lives in
// memory, so it is filled from the store before serving.
func newSearcher(backend string, store *storage.Store) (search.Searcher, []search.UpdateListener, func(), error) {
	switch backend {
	case "scan":
		return search.NewScanner(store), nil, func() {}, nil
	case "bleve", "":
		idx, err := search.NewBleveIndex()
		if err != nil {
			return nil, nil, nil, err
		}
		articles, err := store.All()
		if err != nil {
			idx.Close()
			return nil, nil, nil, err
		}
		if err := idx.Index(articles); err != nil {
			idx.Close()
			return nil, nil, nil, err
		}
		debuglog.Infof("Indexed %d stored articles", len(articles))
		return idx, []search.UpdateListener{idx}, func() { idx.Close() }, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown search backend %q (want bleve or scan)", backend)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	setupServerLogging(cfg)

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	searcher, listeners, closeSearcher, err := newSearcher(cfg.Server.SearchBackend, store)
	if err != nil {
		return err
	}
	defer closeSearcher()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sched backgroundRunner
	if !flagNoFetch {
		sched = scheduler.New(feed.NewCollector(store, cfg), cfg.Server.FetchInterval, listeners...)
	}

	addr := cfg.Server.Addr
	if flagAddr != "" {
		addr = flagAddr
	}
	srv := server.New(store, searcher, debuglog.Slog())
	return serveWithScheduler(ctx, sched, func(ctx context.Context) error {
		return srv.ListenAndServe(ctx, addr)
	})
}

type backgroundRunner interface {
	Run(ctx context.Context) error
}

// serveWithScheduler runs sched alongside serve and returns only after both
// have stopped, so the store and index are not closed under a running
// collection. A nil sched serves alone.
func serveWithScheduler(ctx context.Context, sched backgroundRunner, serve func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	if sched != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := sched.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				debuglog.Errorf("Scheduler stopped: %v", err)
			}
		}()
	}

	err := serve(ctx)
	cancel()
	wg.Wait()
	return err
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	setupServerLogging(cfg)

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	collector := feed.NewCollector(store, cfg)
	collector.SetForceRefresh(flagForce)
	added, err := scheduler.New(collector, cfg.Server.FetchInterval).RunOnce(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Collected %d new articles from %d feeds\n", added, len(collector.Sources()))
	return nil
}
