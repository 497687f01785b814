// ABOUTME: Root Cobra command for the nexusfit CLI.
// ABOUTME: Handles config, logger, storage, and store lifecycle via PersistentPre/PostRunE.
package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/harperreed/nexusfit/internal/ai"
	"github.com/harperreed/nexusfit/internal/config"
	"github.com/harperreed/nexusfit/internal/editor"
	"github.com/harperreed/nexusfit/internal/library"
	"github.com/harperreed/nexusfit/internal/storage"
	"github.com/harperreed/nexusfit/internal/store"
	plansync "github.com/harperreed/nexusfit/internal/sync"
)

// skipStoreAnnotation marks commands that manage storage themselves.
const skipStoreAnnotation = "nexusfit/skip-store"

var (
	cfg    *config.Config
	logger *zap.Logger
	repo   storage.Repository
	st     *store.Store

	verbose     bool
	backendFlag string
	dataDirFlag string
)

var rootCmd = &cobra.Command{
	Use:   "nexusfit",
	Short: "AI fitness coach: weekly training and nutrition plans",
	Long: `Nexusfit keeps a weekly training and nutrition plan generated from your
profile, lets you edit meals, and records the workouts you complete.

QUICK START:

  $ nexusfit onboard --file profile.yaml   # Save your profile and generate a plan
  $ nexusfit plan show                     # Week overview
  $ nexusfit plan show --day monday        # One day in detail
  $ nexusfit workout start monday          # Guided workout, recorded on finish
  $ nexusfit dashboard                     # Calorie targets and progress

NUTRITION:

  $ nexusfit nutrition show --day 0                     # Meals and options
  $ nexusfit nutrition set 0 1 0 food "Grilled chicken"  # Edit a field
  $ nexusfit nutrition calc 0 1 0                        # Fill macros with AI
  $ nexusfit nutrition add-option 0 1                    # Add an alternative
  $ nexusfit nutrition remove-option 0 1 2               # Remove one

LIBRARY:

  $ nexusfit library                      # List categories
  $ nexusfit library kettlebell            # Exercises grouped by muscle

AI CONFIGURATION:

  Plan generation, nutrition calculation and the library use Gemini.
  Set GEMINI_API_KEY (or GOOGLE_API_KEY), or api_key in the config file
  at ~/.config/nexusfit/config.json. Everything else works offline.

MCP INTEGRATION:

  Run 'nexusfit mcp' to serve the plan over the Model Context Protocol.

  {
    "mcpServers": {
      "nexusfit": { "command": "nexusfit", "args": ["mcp"] }
    }
  }

DATA STORAGE:

  State is kept in SQLite at ~/.local/share/nexusfit/nexusfit.db by default.
  Use --backend (sqlite, kv, file) or NEXUSFIT_BACKEND to choose another.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger, err = newLogger(cfg.GetLogLevel(), verbose)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}

		if cmd.Annotations[skipStoreAnnotation] != "" {
			return nil
		}

		repo, err = config.OpenBackend(backend(), dataDir())
		if err != nil {
			return fmt.Errorf("failed to open storage: %w", err)
		}
		if db, ok := repo.(*storage.DB); ok && cfg.KeepRevisions > 0 {
			db.SetKeepRevisions(cfg.KeepRevisions)
		}
		st = store.Open(repo, logger)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeResources()
	},
}

// closeResources releases storage and flushes the logger. Cobra skips
// PersistentPostRunE when RunE fails, so Execute calls this as well.
func closeResources() error {
	var err error
	if repo != nil {
		err = repo.Close()
		repo = nil
		st = nil
	}
	if logger != nil {
		_ = logger.Sync()
	}
	return err
}

// Execute runs the root command and always releases resources.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if cerr := closeResources(); err == nil {
		err = cerr
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "storage backend: sqlite, kv, or file")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "data directory (default: ~/.local/share/nexusfit)")
}

func backend() string {
	if backendFlag != "" {
		return backendFlag
	}
	return cfg.GetBackend()
}

func dataDir() string {
	if dataDirFlag != "" {
		return config.ExpandPath(dataDirFlag)
	}
	return cfg.GetDataDir()
}

// newLogger builds a console logger on stderr so command output on stdout stays clean.
func newLogger(level string, debug bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if debug {
		lvl = zapcore.DebugLevel
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.Encoding = "console"
	zc.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	return zc.Build()
}

// aiClient returns a Gemini client, or an error explaining how to configure one.
func aiClient(ctx context.Context) (*ai.Client, error) {
	client, err := ai.New(ctx, ai.Config{
		APIKey:    cfg.GetAPIKey(),
		PlanModel: cfg.PlanModel,
		FastModel: cfg.FastModel,
		Logger:    logger,
	})
	if errors.Is(err, ai.ErrNoAPIKey) {
		return nil, fmt.Errorf("%w: set %s or api_key in %s", err, config.EnvGeminiAPIKey, config.GetConfigPath())
	}
	return client, err
}

func newOrchestrator(gen plansync.Generator, opts ...plansync.Option) (*plansync.Orchestrator, error) {
	timeout, err := cfg.GetRequestTimeout()
	if err != nil {
		return nil, err
	}
	opts = append([]plansync.Option{plansync.WithTimeout(timeout), plansync.WithLogger(logger)}, opts...)
	return plansync.New(st, gen, opts...), nil
}

// newEditor wires the calculator only when a client is available.
func newEditor(client *ai.Client) *editor.Editor {
	opts := []editor.Option{editor.WithLogger(logger)}
	if timeout, err := cfg.GetRequestTimeout(); err == nil {
		opts = append(opts, editor.WithTimeout(timeout))
	}
	if client == nil {
		return editor.New(st, nil, opts...)
	}
	return editor.New(st, client, opts...)
}

func newLibrary(client *ai.Client) *library.Service {
	return library.New(client, library.WithLogger(logger))
}
