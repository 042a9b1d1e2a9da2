package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/urbanecon/mexmetro/internal/chart"
	"github.com/urbanecon/mexmetro/internal/growth"
	"github.com/urbanecon/mexmetro/internal/ingest"
)

var panelCmd = &cobra.Command{
	Use:   "panel",
	Short: "Compile the city quarterly panel and render the growth dashboard",
	Long: `Joins the employment, salary and population series with the SHF
housing index into a (city, quarter) panel, derives yearly growth rates
and CAGR over the configured window, and writes the eight dashboard
figures.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		log := zap.L().With(zap.String("command", "panel"))

		employment, err := ingest.ReadSeriesTable(cfg.Inputs.EmploymentRate, ingest.HTMLTableOptions{})
		if err != nil {
			return eris.Wrap(err, "panel: read employment series")
		}
		salary, err := ingest.ReadSeriesTable(cfg.Inputs.HourlySalary, ingest.HTMLTableOptions{})
		if err != nil {
			return eris.Wrap(err, "panel: read salary series")
		}
		population, err := ingest.ReadSeriesTable(cfg.Inputs.Population, ingest.HTMLTableOptions{})
		if err != nil {
			return eris.Wrap(err, "panel: read population series")
		}
		housingIndex, err := ingest.ReadHousingIndex(cfg.Inputs.HousingIndex)
		if err != nil {
			return eris.Wrap(err, "panel: read housing index")
		}

		panel := growth.CompilePanel(growth.PanelInputs{
			Employment:   employment,
			HourlySalary: salary,
			Population:   population,
			HousingIndex: housingIndex,
		})

		city, _ := cmd.Flags().GetString("city")
		if city == "" {
			city = cfg.Panel.City
		}
		startYear, _ := cmd.Flags().GetInt("start-year")
		if startYear == 0 {
			startYear = cfg.Panel.StartYear
		}
		endYear, _ := cmd.Flags().GetInt("end-year")
		if endYear == 0 {
			endYear = cfg.Panel.EndYear
		}

		yearly := growth.YearlyGrowth(panel)
		cagrs := growth.CAGR(panel, startYear, endYear)

		outDir, png := outputOptions(cmd)
		err = chart.RenderDashboard(panel, yearly, cagrs, chart.DashboardOptions{
			City:      city,
			StartYear: startYear,
			EndYear:   endYear,
			OutDir:    outDir,
			PNG:       png,
		})
		if err != nil {
			return eris.Wrap(err, "panel: render dashboard")
		}

		log.Info("done",
			zap.Int("panelRows", len(panel)),
			zap.Int("yearlyRows", len(yearly)),
			zap.Int("cagrRows", len(cagrs)))
		return nil
	},
}

func init() {
	panelCmd.Flags().String("city", "", "city to highlight (overrides config)")
	panelCmd.Flags().Int("start-year", 0, "analysis window start year (overrides config)")
	panelCmd.Flags().Int("end-year", 0, "analysis window end year (overrides config)")
	rootCmd.AddCommand(panelCmd)
}
