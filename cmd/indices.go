package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/urbanecon/mexmetro/internal/chart"
	"github.com/urbanecon/mexmetro/internal/econ"
	"github.com/urbanecon/mexmetro/internal/geo"
	"github.com/urbanecon/mexmetro/internal/ingest"
)

var indicesCmd = &cobra.Command{
	Use:   "indices",
	Short: "Build composite relative-price indices per metro area",
	Long: `Reads the survey and census extracts, aggregates wages, rents and
establishment totals to metro-area level, computes every variant of the
relative-price (RER) index over the metros passing the employment
threshold, and writes the index charts.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		log := zap.L().With(zap.String("command", "indices"))

		norm, err := loadNormalizer()
		if err != nil {
			return err
		}

		persons, err := ingest.ReadPersons(cfg.Inputs.Persons, ingest.SurveyOptions{})
		if err != nil {
			return eris.Wrap(err, "indices: read persons")
		}
		housing, err := ingest.ReadHousingRecords(cfg.Inputs.Housing, ingest.SurveyOptions{})
		if err != nil {
			return eris.Wrap(err, "indices: read housing")
		}
		estabs, err := ingest.ReadEstablishments(cfg.Inputs.Establishments, ingest.SurveyOptions{})
		if err != nil {
			return eris.Wrap(err, "indices: read establishments")
		}

		wages := econ.AggregateWages(persons, norm, econ.WageOptions{
			ExcludeCoverage: cfg.Wages.ExcludeCoverage,
			IncomeSentinel:  cfg.Wages.IncomeSentinel,
		})
		rents := econ.AggregateRents(housing, norm, econ.RentOptions{Bedrooms: cfg.Rents.Bedrooms})
		estabAggs := econ.AggregateEstablishments(estabs, norm, econ.EstabOptions{Activity: cfg.Census.Activity})

		economies := econ.BuildMetroEconomies(wages, rents, estabAggs, norm)
		indices := econ.BuildCompositeIndices(economies, econ.IndexOptions{MinEmployment: cfg.Indices.MinEmployment})

		baseline := econ.BuildNationalBaseline(estabs, housing, econ.EstabOptions{Activity: cfg.Census.Activity})
		log.Info("national baseline",
			zap.Float64("unitLaborCost", baseline.UnitLaborCost),
			zap.Float64("medianRent", baseline.MedianRent),
			zap.Float64("rer", baseline.RER))

		outDir, png := outputOptions(cmd)
		if err := chart.RenderIndices(indices, outDir, png); err != nil {
			return eris.Wrap(err, "indices: render charts")
		}

		log.Info("done", zap.Int("metros", len(indices)))
		return nil
	},
}

// loadNormalizer reads the metro mapping and builds the shared geocode
// normalizer with the configured name overrides.
func loadNormalizer() (*geo.Normalizer, error) {
	mapping, err := ingest.ReadMetroMapping(cfg.Inputs.MetroMapping, ingest.MetroMapOptions{})
	if err != nil {
		return nil, eris.Wrap(err, "cmd: read metro mapping")
	}
	return geo.NewNormalizer(mapping, cfg.Geo.Overrides()), nil
}

func init() {
	rootCmd.AddCommand(indicesCmd)
}
