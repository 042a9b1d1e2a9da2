package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/urbanecon/mexmetro/internal/chart"
	"github.com/urbanecon/mexmetro/internal/ingest"
	"github.com/urbanecon/mexmetro/internal/migration"
)

var migrationCmd = &cobra.Command{
	Use:   "migration",
	Short: "Compute five-year net migration rates per metro area",
	Long: `Reads the person-level extract, resolves current and five-years-ago
residence to metro areas, aggregates survey-weighted directed flows, and
writes the net migration rate chart colored by peer group.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		log := zap.L().With(zap.String("command", "migration"))

		norm, err := loadNormalizer()
		if err != nil {
			return err
		}

		persons, err := ingest.ReadPersons(cfg.Inputs.Persons, ingest.SurveyOptions{})
		if err != nil {
			return eris.Wrap(err, "migration: read persons")
		}

		groups := migration.NewGroups(
			cfg.Migration.FocalMetro,
			cfg.Migration.SameRegion,
			cfg.Migration.Aspirational,
			cfg.Migration.Peers,
		)
		rates := migration.ComputeNetRates(persons, norm, groups, migration.FlowOptions{
			MinAge: cfg.Migration.MinAge,
		})

		outDir, png := outputOptions(cmd)
		if err := chart.RenderMigration(rates, outDir, png); err != nil {
			return eris.Wrap(err, "migration: render charts")
		}

		log.Info("done", zap.Int("metros", len(rates)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrationCmd)
}
