package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/coolbeans/lagref/pkg/ingest"
	"github.com/coolbeans/lagref/pkg/query"
	"github.com/coolbeans/lagref/pkg/store"
	"github.com/coolbeans/lagref/pkg/types"
)

func resolveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <document-id> <provision-ref>",
		Short: "Show a provision as it read on a date",
		Long: `Resolve a provision against its version history. Without --as-of the
current text is shown.

Example:
  lagref resolve 2018:218 2:2 --as-of 2019-06-01
  lagref resolve 2018:218 "1:5 a"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatStr, _ := cmd.Flags().GetString("format")
			asOfStr, _ := cmd.Flags().GetString("as-of")
			manifest, _ := cmd.Flags().GetString("manifest")
			ctx := cmd.Context()

			asOf := types.None[types.Date]()
			if asOfStr != "" {
				d, err := types.ParseDate(asOfStr)
				if err != nil {
					return err
				}
				asOf = types.Some(d)
			}

			s, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()
			if err := a.seed(ctx, s, manifest); err != nil {
				return err
			}

			res, err := query.NewResolver(s).Resolve(ctx, args[0], types.NormalizeProvisionRef(args[1]), asOf)
			if err != nil {
				return err
			}

			if formatStr == "json" {
				return printJSON(res)
			}
			fmt.Printf("%s %s: %s\n", res.DocumentID, res.ProvisionRef, res.Outcome)
			if !res.Found() {
				return nil
			}
			if title, ok := res.Title.Get(); ok {
				fmt.Printf("  %s\n", title)
			}
			if from, ok := res.Validity.From.Get(); ok {
				fmt.Printf("  valid from %s", from)
				if to, ok := res.Validity.To.Get(); ok {
					fmt.Printf(" to %s", to)
				}
				fmt.Println()
			}
			fmt.Printf("\n%s\n", res.Content)
			return nil
		},
	}
	cmd.Flags().String("as-of", "", "Date (YYYY-MM-DD) to resolve at")
	cmd.Flags().String("manifest", "", "Ingest this manifest before resolving")
	cmd.Flags().StringP("format", "f", "text", "Output format (text, json)")
	return cmd
}

func ingestCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Ingest documents listed in a manifest",
		Long: `Segment and extract every document listed in a YAML manifest and
write the results to the configured store.

Example:
  lagref ingest --manifest corpus.yaml --database-dsn postgres://localhost/lagref`,
		RunE: func(cmd *cobra.Command, args []string) error {
			manifest, _ := cmd.Flags().GetString("manifest")
			workers, _ := cmd.Flags().GetInt("workers")
			formatStr, _ := cmd.Flags().GetString("format")
			ctx := cmd.Context()

			if manifest == "" {
				return fmt.Errorf("--manifest flag is required")
			}
			if workers <= 0 {
				workers = a.cfg.Ingest.Workers
			}

			docs, err := ingest.LoadManifest(manifest)
			if err != nil {
				return err
			}

			s, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()
			if _, ok := s.(*store.MemoryStore); ok {
				a.logger.Warn("no database configured; ingested documents are discarded on exit")
			}

			pipeline := ingest.NewPipeline(s, ingest.WithLogger(a.logger), ingest.WithWorkers(workers))
			summary, err := pipeline.IngestBatch(ctx, docs)
			if err != nil {
				return err
			}

			if formatStr == "json" {
				if err := printJSON(summary); err != nil {
					return err
				}
			} else {
				data, err := yaml.Marshal(summary)
				if err != nil {
					return fmt.Errorf("error marshaling summary: %w", err)
				}
				fmt.Print(string(data))
			}

			if len(summary.Failures) > 0 {
				a.logger.Warn("some documents failed", zap.Int("failed", len(summary.Failures)))
			}
			return nil
		},
	}
	cmd.Flags().String("manifest", "", "YAML manifest listing documents (required)")
	cmd.Flags().Int("workers", 0, "Parallel documents (default from config)")
	cmd.Flags().StringP("format", "f", "yaml", "Output format (yaml, json)")
	return cmd
}

func migrateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate <up|down|status|version>",
		Short: "Manage the database schema",
		Args:  cobra.ExactArgs(1),
		ValidArgs: []string{
			"up", "down", "status", "version",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if a.cfg.Database.DSN == "" {
				return fmt.Errorf("migrate needs a database: set --database-dsn or LAGREF_DATABASE_DSN")
			}

			s, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()
			pg, ok := s.(*store.PostgresStore)
			if !ok {
				return fmt.Errorf("migrate needs a PostgreSQL store")
			}
			m := store.NewMigrator(pg.DB().DB, a.logger)

			switch args[0] {
			case "up":
				return m.Up(ctx)
			case "down":
				return m.Down(ctx)
			case "status":
				return m.Status(ctx)
			case "version":
				v, err := m.Version(ctx)
				if err != nil {
					return err
				}
				fmt.Println(v)
				return nil
			}
			return fmt.Errorf("unknown migrate command %q", args[0])
		},
	}
	return cmd
}

func configCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage lagref configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfgUsed != "" {
				fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", a.cfgUsed)
			} else {
				fmt.Fprintf(os.Stderr, "No configuration file found (using defaults)\n\n")
			}

			data, err := yaml.Marshal(a.cfg)
			if err != nil {
				return fmt.Errorf("error marshaling config: %w", err)
			}
			fmt.Print(string(data))
			return nil
		},
	})
	return cmd
}
