package growth

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbanecon/mexmetro/internal/ingest"
	"github.com/urbanecon/mexmetro/internal/model"
)

func seriesTable(timePoints []string, cities map[string]map[string]float64) *ingest.SeriesTable {
	return &ingest.SeriesTable{TimePoints: timePoints, Cities: cities}
}

func TestCompilePanel(t *testing.T) {
	tps := []string{"2019Q3", "2019Q4"}
	in := PanelInputs{
		Employment: seriesTable(tps, map[string]map[string]float64{
			"Ciudad de Monterrey": {"2019Q3": 58.0, "2019Q4": 59.0},
		}),
		HourlySalary: seriesTable(tps, map[string]map[string]float64{
			"Ciudad de Monterrey": {"2019Q3": 40.0, "2019Q4": 42.0},
		}),
		Population: seriesTable(tps, map[string]map[string]float64{
			"Ciudad de Monterrey": {"2019Q3": 4.0e6, "2019Q4": 4.1e6},
		}),
		HousingIndex: map[string]map[string]float64{
			"Monterrey": {"2019Q3": 128.0},
		},
	}

	panel := CompilePanel(in)
	require.Len(t, panel, 2)

	first := panel[0]
	assert.Equal(t, "Ciudad de Monterrey", first.City)
	assert.Equal(t, 2019, first.Year)
	assert.Equal(t, 3, first.Quarter)
	assert.InDelta(t, 58.0, first.EmploymentRate, 1e-9)
	assert.InDelta(t, 40.0*160, first.MonthlySalary, 1e-9)
	assert.InDelta(t, 128.0, first.HousingIndex, 1e-9)
	assert.InDelta(t, 40.0*160/128.0, first.RealWage, 1e-9)

	// No housing index for Q4: real wage is missing, the row is not.
	second := panel[1]
	assert.True(t, math.IsNaN(second.HousingIndex))
	assert.True(t, math.IsNaN(second.RealWage))
	assert.InDelta(t, 42.0*160, second.MonthlySalary, 1e-9)
}

func TestCompilePanelHousingNameFallback(t *testing.T) {
	tps := []string{"2019Q3"}
	emp := map[string]map[string]float64{
		"Ciudad de Monterrey": {"2019Q3": 58.0},
		"Torreón":             {"2019Q3": 55.0},
	}
	in := PanelInputs{
		Employment:   seriesTable(tps, emp),
		HourlySalary: seriesTable(tps, nil),
		Population:   seriesTable(tps, nil),
		HousingIndex: map[string]map[string]float64{
			"Monterrey": {"2019Q3": 128.0}, // simplified-name match
			"Torreón":   {"2019Q3": 101.0}, // full-name match
		},
	}

	panel := CompilePanel(in)
	require.Len(t, panel, 2)

	byCity := make(map[string]model.CityObservation)
	for _, obs := range panel {
		byCity[obs.City] = obs
	}
	assert.InDelta(t, 128.0, byCity["Ciudad de Monterrey"].HousingIndex, 1e-9)
	assert.InDelta(t, 101.0, byCity["Torreón"].HousingIndex, 1e-9)
}

func quarterly(city string, year int, pop, monthly, real float64) []model.CityObservation {
	var out []model.CityObservation
	for q := 1; q <= 4; q++ {
		out = append(out, model.CityObservation{
			City: city, Year: year, Quarter: q,
			Population:    pop,
			MonthlySalary: monthly,
			RealWage:      real,
			HousingIndex:  math.NaN(),
		})
	}
	return out
}

func TestYearlyGrowthFirstYearMissing(t *testing.T) {
	var panel []model.CityObservation
	panel = append(panel, quarterly("Monterrey", 2018, 4.0e6, 6400, 50)...)
	panel = append(panel, quarterly("Monterrey", 2019, 4.2e6, 6720, 52)...)

	out := YearlyGrowth(panel)
	require.Len(t, out, 2)

	first := out[0]
	assert.Equal(t, 2018, first.Year)
	assert.InDelta(t, 4.0e6, first.AvgPopulation, 1e-3)
	assert.True(t, math.IsNaN(first.PopulationGrowth))
	assert.True(t, math.IsNaN(first.RealWageGrowth))
	assert.True(t, math.IsNaN(first.NominalWageGrowth))

	second := out[1]
	assert.InDelta(t, 5.0, second.PopulationGrowth, 1e-9)
	assert.InDelta(t, 5.0, second.NominalWageGrowth, 1e-9)
	assert.InDelta(t, 4.0, second.RealWageGrowth, 1e-9)
}

func TestYearlyGrowthCityBoundary(t *testing.T) {
	var panel []model.CityObservation
	panel = append(panel, quarterly("Aguascalientes", 2019, 1.0e6, 6000, 48)...)
	panel = append(panel, quarterly("Monterrey", 2019, 4.0e6, 6400, 50)...)

	out := YearlyGrowth(panel)
	require.Len(t, out, 2)

	// Each city's single year is a first year: no growth leaks across the
	// city boundary.
	for _, row := range out {
		assert.True(t, math.IsNaN(row.PopulationGrowth), row.City)
	}
}

func TestYearlyGrowthNonPositivePrevious(t *testing.T) {
	var panel []model.CityObservation
	panel = append(panel, quarterly("Monterrey", 2018, 0, 6400, 50)...)
	panel = append(panel, quarterly("Monterrey", 2019, 4.0e6, 6720, 52)...)

	out := YearlyGrowth(panel)
	require.Len(t, out, 2)
	assert.True(t, math.IsNaN(out[1].PopulationGrowth))
	assert.False(t, math.IsNaN(out[1].NominalWageGrowth))
}

func TestCAGRIdentity(t *testing.T) {
	var panel []model.CityObservation
	panel = append(panel, quarterly("Monterrey", 2015, 100, 100, 100)...)
	panel = append(panel, quarterly("Monterrey", 2020, 121, 121, 121)...)

	out := CAGR(panel, 2015, 2020)
	require.Len(t, out, 1)

	c := out[0]
	assert.Equal(t, 5, c.Years)
	assert.InDelta(t, 100, c.StartPopulation, 1e-9)
	assert.InDelta(t, 121, c.EndPopulation, 1e-9)

	want := (math.Pow(121.0/100.0, 1.0/5) - 1) * 100 // ~3.9%
	assert.InDelta(t, want, c.PopulationCAGR, 1e-9)
	assert.InDelta(t, want, c.RealWageCAGR, 1e-9)
	assert.InDelta(t, 3.9, c.PopulationCAGR, 0.05)
}

func TestCAGRTolerantOfMissingBoundaryYears(t *testing.T) {
	// Window 2014-2021, observations only at 2015 and 2020: the first and
	// last observed years inside the window drive the values, the divisor
	// stays the requested window length.
	var panel []model.CityObservation
	panel = append(panel, quarterly("Monterrey", 2015, 100, 100, 100)...)
	panel = append(panel, quarterly("Monterrey", 2020, 121, 121, 121)...)

	out := CAGR(panel, 2014, 2021)
	require.Len(t, out, 1)

	c := out[0]
	assert.Equal(t, 7, c.Years)
	assert.InDelta(t, math.Pow(1.21, 1.0/7)*100-100, c.PopulationCAGR, 1e-6)
}

func TestCAGRSkipsSingleObservationCities(t *testing.T) {
	panel := quarterly("Monterrey", 2018, 100, 100, 100)
	out := CAGR(panel, 2015, 2020)
	assert.Empty(t, out)
}
