package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/coolbeans/lagref/pkg/config"
	"github.com/coolbeans/lagref/pkg/ingest"
	"github.com/coolbeans/lagref/pkg/logging"
	"github.com/coolbeans/lagref/pkg/store"
)

var version = "0.1.0"

// app holds state shared by all subcommands once configuration is loaded.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     config.Config
	cfgUsed string
	logger  *zap.Logger
}

func main() {
	a := &app{v: viper.New(), logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:   "lagref",
		Short: "Swedish legal citation parser and resolver",
		Long: `Lagref parses and validates Swedish legal citations, segments statutes
into provisions, extracts cross references and EU references, and resolves
provisions as they read on a given date.

Configuration hierarchy (highest to lowest priority):
  1. CLI flags
  2. Environment variables (LAGREF_*, also read from .env)
  3. Config file (~/.lagref/config.yaml)
  4. Defaults`,
		Version:           version,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.init,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: $HOME/.lagref/config.yaml)")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.String("log-format", "console", "Log format (console, json)")
	flags.String("database-dsn", "", "PostgreSQL DSN; empty uses an in-memory store")
	_ = a.v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("log.format", flags.Lookup("log-format"))
	_ = a.v.BindPFlag("database.dsn", flags.Lookup("database-dsn"))

	rootCmd.AddCommand(parseCmd())
	rootCmd.AddCommand(formatCmd())
	rootCmd.AddCommand(validateCmd(a))
	rootCmd.AddCommand(statutesCmd())
	rootCmd.AddCommand(segmentCmd())
	rootCmd.AddCommand(refsCmd())
	rootCmd.AddCommand(eurefsCmd())
	rootCmd.AddCommand(resolveCmd(a))
	rootCmd.AddCommand(ingestCmd(a))
	rootCmd.AddCommand(migrateCmd(a))
	rootCmd.AddCommand(configCmd(a))
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	_ = a.logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// init loads .env, configuration and the logger before any subcommand runs.
func (a *app) init(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	cfg, used, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.cfgUsed = used

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	a.logger = logger
	if used != "" {
		logger.Debug("using config file", zap.String("path", used))
	}
	return nil
}

// openStore returns the configured store: PostgreSQL when a DSN is set,
// otherwise an empty in-memory store.
func (a *app) openStore(ctx context.Context) (store.Store, error) {
	if a.cfg.Database.DSN == "" {
		a.logger.Debug("no database configured, using in-memory store")
		return store.NewMemoryStore(), nil
	}
	return store.OpenPostgres(ctx, store.PostgresConfig{
		DSN:             a.cfg.Database.DSN,
		MaxConns:        a.cfg.Database.MaxConns,
		MinConns:        a.cfg.Database.MinConns,
		MaxConnIdleTime: a.cfg.Database.MaxConnIdleTime,
		QueryDebug:      a.cfg.Database.QueryDebug,
	}, a.logger)
}

// lookups wraps s in the lookup cache when it is enabled. The returned
// options keep the cache in step with documents ingested afterwards.
func (a *app) lookups(s store.Reader) (store.Reader, []ingest.Option) {
	if !a.cfg.Cache.Enabled {
		return s, nil
	}
	cr := store.NewCachedReader(s, a.cfg.Cache.TTL, a.cfg.Cache.CleanupInterval)
	return cr, []ingest.Option{ingest.WithInvalidator(cr)}
}

// seed ingests a manifest into s, for commands that work against an
// in-memory store.
func (a *app) seed(ctx context.Context, s store.Store, manifest string, opts ...ingest.Option) error {
	if manifest == "" {
		return nil
	}
	docs, err := ingest.LoadManifest(manifest)
	if err != nil {
		return err
	}
	opts = append([]ingest.Option{ingest.WithLogger(a.logger), ingest.WithWorkers(a.cfg.Ingest.Workers)}, opts...)
	pipeline := ingest.NewPipeline(s, opts...)
	summary, err := pipeline.IngestBatch(ctx, docs)
	if err != nil {
		return err
	}
	if len(summary.Failures) > 0 {
		return fmt.Errorf("%d of %d manifest documents failed to ingest", len(summary.Failures), len(docs))
	}
	return nil
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func readSource(cmd *cobra.Command) (string, error) {
	source, _ := cmd.Flags().GetString("source")
	if source == "" {
		return "", fmt.Errorf("--source flag is required")
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return "", fmt.Errorf("failed to read source: %w", err)
	}
	return string(data), nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("lagref v%s\n", version)
		},
	}
}
