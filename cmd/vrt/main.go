package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/erazemk/vrt/internal/api"
	"github.com/erazemk/vrt/internal/config"
	"github.com/erazemk/vrt/internal/garden"
	"github.com/erazemk/vrt/internal/kv"
	"github.com/erazemk/vrt/internal/store"
	"github.com/erazemk/vrt/internal/web"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	configPath string
	flags      config.Config

	cfg      config.Config
	kv       kv.Store
	garden   *garden.Garden
	closeLog func()
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "vrt",
		Short:         "vrt - keep track of your plants, their watering and photos",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "YAML config file")
	pf.StringVarP(&a.flags.Addr, "addr", "a", "", "listen address (default :8080)")
	pf.StringVar(&a.flags.Store, "store", "", "storage backend: sqlite, redis or memory (default sqlite)")
	pf.StringVarP(&a.flags.DSN, "dsn", "d", "", "SQLite database path or redis:// URL (default vrt.sqlite3 for sqlite, redis://localhost:6379/0 for redis)")
	pf.StringVarP(&a.flags.LogPath, "log", "l", "", "log file path (default: stdout/stderr only)")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Serve the web UI and JSON API",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.serve(cmd.Context())
			},
		},
		newPlantsCmd(a),
		newTipCmd(a),
	)

	return root
}

// open resolves configuration, sets up logging and loads the garden.
func (a *app) open(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Addr = a.flags.Addr
	}
	if flags.Changed("store") {
		cfg.Store = a.flags.Store
	}
	if flags.Changed("dsn") {
		cfg.DSN = a.flags.DSN
	}
	if flags.Changed("log") {
		cfg.LogPath = a.flags.LogPath
	}
	// Validated only now, so a flag can fix a bad file or env value.
	cfg, err = cfg.Finalize()
	if err != nil {
		return err
	}
	a.cfg = cfg

	// Set up structured logging: INFO/WARN → stdout, ERROR → stderr.
	a.closeLog, err = setupLogger(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg.LogPath)
	if err != nil {
		return err
	}

	a.kv, err = kv.Open(cfg.Store, cfg.DSN)
	if err != nil {
		return fmt.Errorf("opening %s store: %w", cfg.Store, err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a.garden = garden.New(ctx, store.NewPlants(a.kv))
	return nil
}

func (a *app) close() error {
	var err error
	if a.kv != nil {
		err = a.kv.Close()
	}
	if a.closeLog != nil {
		a.closeLog()
	}
	return err
}

func (a *app) serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	slog.Info("storage ready", "store", a.cfg.Store, "plants", a.garden.Len())

	webRouter, err := web.NewRouter(a.garden)
	if err != nil {
		return fmt.Errorf("setting up web router: %w", err)
	}

	// Combine: API routes take priority, web routes handle the rest.
	mux := http.NewServeMux()
	mux.Handle("/api/", api.NewRouter(a.garden))
	mux.Handle("/", webRouter)

	server := &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           api.LoggingMiddleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", a.cfg.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("server stopped, closing storage")
	return nil
}
