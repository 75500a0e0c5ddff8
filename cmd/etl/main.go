// Command etl runs the pipeline from the shell: extract legacy entities into
// staging, promote staged entities into the core tables, or both in
// dependency order. Useful for the initial migration and for cron-driven
// re-syncs without going through the HTTP queue.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gvanzela/nexcore-erp/internal/config"
	"github.com/gvanzela/nexcore-erp/internal/etl"
	"github.com/gvanzela/nexcore-erp/internal/etl/extract"
	"github.com/gvanzela/nexcore-erp/internal/infra"
)

var sourceSystem string

// runAllOrder is the dependency order for a full sync: parties and catalog
// first, then documents that resolve against them.
var runAllOrder = []string{
	extract.EntityClients,
	extract.EntitySuppliers,
	extract.EntityProductCatalog,
	extract.EntityProducts,
	extract.EntityOrderHeader,
	extract.EntityOrderItem,
	extract.EntityInventoryInitial,
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	root := &cobra.Command{
		Use:           "etl",
		Short:         "Run legacy extraction and promotion jobs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&sourceSystem, "source-system", "", "override the configured source system tag")

	root.AddCommand(
		&cobra.Command{
			Use:   "extract <entity>",
			Short: "Mirror one legacy entity into staging",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				runner, err := buildRunner(true)
				if err != nil {
					return err
				}
				res, err := runner.Extract(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Printf("extracted %d rows (%d skipped) for %s\n", res.Extracted, res.Skipped, res.SourceEntity)
				return nil
			},
		},
		&cobra.Command{
			Use:   "promote <entity>",
			Short: "Promote staged rows for one entity into the core tables",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				runner, err := buildRunner(false)
				if err != nil {
					return err
				}
				report, err := runner.Promote(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Printf("promoted=%d failed=%d skipped=%d for %s\n", report.Promoted, report.Failed, report.Skipped, report.Entity)
				return nil
			},
		},
		&cobra.Command{
			Use:   "run-all",
			Short: "Extract and promote every entity in dependency order",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				runner, err := buildRunner(true)
				if err != nil {
					return err
				}
				for _, entity := range runAllOrder {
					res, err := runner.Extract(cmd.Context(), entity)
					if err != nil {
						return fmt.Errorf("extract %s: %w", entity, err)
					}
					fmt.Printf("extracted %d rows (%d skipped) for %s\n", res.Extracted, res.Skipped, entity)
				}
				for _, entity := range runAllOrder {
					if entity == extract.EntityOrderItem {
						// Items are promoted with their headers.
						continue
					}
					report, err := runner.Promote(cmd.Context(), entity)
					if err != nil {
						return fmt.Errorf("promote %s: %w", entity, err)
					}
					fmt.Printf("promoted=%d failed=%d skipped=%d for %s\n", report.Promoted, report.Failed, report.Skipped, entity)
				}
				return nil
			},
		},
	)

	if err := root.Execute(); err != nil {
		log.Fatal().Err(err).Msg("etl command failed")
	}
}

// buildRunner connects the stores and assembles the pipeline. The legacy
// connection is required only for commands that extract.
func buildRunner(needLegacy bool) (*etl.Runner, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if sourceSystem != "" {
		cfg.SourceSystem = sourceSystem
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	legacy, err := infra.NewLegacyDB(cfg.LegacyDatabaseURL)
	if err != nil {
		if needLegacy {
			return nil, fmt.Errorf("connect legacy source: %w", err)
		}
		legacy = nil
	}

	// No locker here: CLI runs are operator-driven and assumed exclusive.
	return etl.BuildRunner(db, legacy, nil, cfg.SourceSystem), nil
}
