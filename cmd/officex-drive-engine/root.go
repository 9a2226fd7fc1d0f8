package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	bolt "go.etcd.io/bbolt"

	"github.com/OfficeXApp/drive-engine/internal/config"
	"github.com/OfficeXApp/drive-engine/internal/engine"
	"github.com/OfficeXApp/drive-engine/internal/ids"
	"github.com/OfficeXApp/drive-engine/internal/live"
	"github.com/OfficeXApp/drive-engine/internal/persist"
	"github.com/OfficeXApp/drive-engine/internal/webhook"
)

// Persistent flags, bound in newRootCmd.
var (
	flagConfigPath   string
	flagListenAddr   string
	flagDatabasePath string
	flagDriveID      string
	flagOwnerID      string
	flagLogLevel     string
)

// skipEngineAnnotation marks commands that build their own state instead
// of the shared PersistentPreRunE wiring (none currently; kept for parity
// with the teacher's skipConfigAnnotation pattern in case a future
// subcommand needs it).
const skipEngineAnnotation = "skipEngine"

// CLIContext bundles everything a subcommand's RunE needs: the resolved
// config, a logger, the wired Engine, and the underlying persist.Store and
// bbolt handle so PersistentPostRunE can close them cleanly.
type CLIContext struct {
	Cfg     *config.Config
	Logger  *slog.Logger
	Engine  *engine.Engine
	Persist *persist.Store
	Hub     *live.Hub
	outbox  *bolt.DB
}

type cliContextKey struct{}

func cliContextFrom(ctx context.Context) *CLIContext {
	cc, _ := ctx.Value(cliContextKey{}).(*CLIContext)
	return cc
}

func mustCLIContext(ctx context.Context) *CLIContext {
	cc := cliContextFrom(ctx)
	if cc == nil {
		panic("BUG: CLIContext not found in context — ensure the command " +
			"does not skip engine setup (no skipEngineAnnotation)")
	}

	return cc
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "officex-drive-engine",
		Short:         "Organization drive engine",
		Long:          "Runs and inspects one organization drive's content-addressed filesystem, permissions, and state-diff log.",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[skipEngineAnnotation] == "true" {
				return nil
			}

			return setupEngine(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			cc := cliContextFrom(cmd.Context())
			if cc == nil {
				return nil
			}

			if cc.outbox != nil {
				cc.outbox.Close()
			}
			if cc.Persist != nil {
				return cc.Persist.Close()
			}

			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "config file path")
	cmd.PersistentFlags().StringVar(&flagListenAddr, "listen-addr", "", "HTTP listen address")
	cmd.PersistentFlags().StringVar(&flagDatabasePath, "database-path", "", "state-diff log database path")
	cmd.PersistentFlags().StringVar(&flagDriveID, "drive-id", "", "this engine instance's drive id")
	cmd.PersistentFlags().StringVar(&flagOwnerID, "owner-id", "", "this drive's initial owner user id")
	cmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newSnapshotCmd())
	cmd.AddCommand(newReplayCmd())

	return cmd
}

// setupEngine runs the four-layer config resolution, opens the durable
// persist.Store and webhook outbox, bootstraps a fresh Engine from
// whatever state was already on disk, and attaches the result to the
// command's context (teacher's root.go loadConfig, generalized to also
// construct the domain object every subcommand here operates on).
func setupEngine(cmd *cobra.Command) error {
	logger := buildLogger(flagLogLevel)

	env := config.LoadEnv()
	cli := config.CLIOverrides{
		ListenAddr:   flagListenAddr,
		DatabasePath: flagDatabasePath,
		DriveID:      flagDriveID,
		OwnerID:      flagOwnerID,
		LogLevel:     flagLogLevel,
	}

	path := config.ResolveConfigPath(os.Getenv("DRIVE_ENGINE_CONFIG"), flagConfigPath)

	cfg, err := config.Resolve(path, env, cli, logger)
	if err != nil {
		return fmt.Errorf("resolving config: %w", err)
	}

	logger = buildLogger(cfg.LogLevel)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	store, err := persist.Open(ctx, cfg.DatabasePath, logger)
	if err != nil {
		return fmt.Errorf("opening state-diff log: %w", err)
	}

	db, err := bolt.Open(cfg.DatabasePath+".outbox", 0o600, nil)
	if err != nil {
		store.Close()
		return fmt.Errorf("opening webhook outbox: %w", err)
	}

	outbox, err := webhook.OpenOutbox(db)
	if err != nil {
		db.Close()
		store.Close()
		return fmt.Errorf("opening webhook outbox bucket: %w", err)
	}

	registry := ids.NewRegistry()
	hub := live.NewHub(logger)

	e := engine.NewEngine(engine.Config{
		DriveID:    cfg.DriveID,
		OwnerID:    cfg.OwnerID,
		Registry:   registry,
		Clock:      ids.SystemClock{},
		Logger:     logger,
		Outbox:     outbox,
		HTTPClient: &http.Client{Timeout: cfg.WebhookDispatchTimeout},
		Persist:    store,
		Live:       hub,
	})

	if !cfg.PersistClaimedIDs {
		e.Persist = nil
	} else if err := e.Bootstrap(ctx); err != nil {
		db.Close()
		store.Close()
		return fmt.Errorf("replaying state-diff log: %w", err)
	}

	cc := &CLIContext{Cfg: cfg, Logger: logger, Engine: e, Persist: store, Hub: hub, outbox: db}
	cmd.SetContext(context.WithValue(ctx, cliContextKey{}, cc))

	return nil
}

func buildLogger(level string) *slog.Logger {
	var lvl slog.Level

	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
