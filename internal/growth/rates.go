package growth

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/urbanecon/mexmetro/internal/model"
	"github.com/urbanecon/mexmetro/internal/stats"
)

// yearlyMeans averages the quarterly panel into one row per (city, year).
type yearlyMeans struct {
	city string
	year int

	employmentRate float64
	monthlySalary  float64
	realWage       float64
	population     float64
	housingIndex   float64
}

func averageByYear(panel []model.CityObservation) []yearlyMeans {
	type key struct {
		city string
		year int
	}
	groups := make(map[key][]model.CityObservation)
	for _, obs := range panel {
		k := key{city: obs.City, year: obs.Year}
		groups[k] = append(groups[k], obs)
	}

	out := make([]yearlyMeans, 0, len(groups))
	for k, rows := range groups {
		var emp, sal, rw, pop, hi []float64
		for _, r := range rows {
			emp = append(emp, r.EmploymentRate)
			sal = append(sal, r.MonthlySalary)
			rw = append(rw, r.RealWage)
			pop = append(pop, r.Population)
			hi = append(hi, r.HousingIndex)
		}
		out = append(out, yearlyMeans{
			city:           k.city,
			year:           k.year,
			employmentRate: stats.Mean(emp),
			monthlySalary:  stats.Mean(sal),
			realWage:       stats.Mean(rw),
			population:     stats.Mean(pop),
			housingIndex:   stats.Mean(hi),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].city != out[j].city {
			return out[i].city < out[j].city
		}
		return out[i].year < out[j].year
	})
	return out
}

// growthPct is the year-over-year percentage change, NaN when the previous
// value is missing or non-positive.
func growthPct(cur, prev float64) float64 {
	return (stats.SafeRatio(cur, prev) - 1) * 100
}

// YearlyGrowth reduces the quarterly panel to yearly means with
// year-over-year growth for population, real wage and nominal wage. The
// first observed year per city keeps its averages but carries missing
// growth, never zero.
func YearlyGrowth(panel []model.CityObservation) []model.YearlyCityStats {
	means := averageByYear(panel)

	out := make([]model.YearlyCityStats, 0, len(means))
	for i, cur := range means {
		row := model.YearlyCityStats{
			City:              cur.city,
			Year:              cur.year,
			AvgEmploymentRate: cur.employmentRate,
			AvgMonthlySalary:  cur.monthlySalary,
			AvgRealWage:       cur.realWage,
			AvgPopulation:     cur.population,
			AvgHousingIndex:   cur.housingIndex,
			PopulationGrowth:  math.NaN(),
			RealWageGrowth:    math.NaN(),
			NominalWageGrowth: math.NaN(),
		}
		if i > 0 && means[i-1].city == cur.city {
			prev := means[i-1]
			row.PopulationGrowth = growthPct(cur.population, prev.population)
			row.RealWageGrowth = growthPct(cur.realWage, prev.realWage)
			row.NominalWageGrowth = growthPct(cur.monthlySalary, prev.monthlySalary)
		}
		out = append(out, row)
	}

	zap.L().Info("growth: computed yearly growth", zap.Int("rows", len(out)))
	return out
}

// cagr is the compound annual growth rate between two values over the
// given number of years, NaN when the start value is missing or
// non-positive.
func cagr(start, end float64, years int) float64 {
	r := stats.SafeRatio(end, start)
	if math.IsNaN(r) {
		return math.NaN()
	}
	return math.Pow(r, 1/float64(years)) - 1
}

// CAGR computes compound annual growth per city over [startYear, endYear].
// The divisor is the requested window length (minimum 1); start and end
// values are the first and last chronologically observed yearly means
// inside the window, tolerant of missing boundary years. Cities with fewer
// than two observed years in the window are skipped. Results are
// percentages.
func CAGR(panel []model.CityObservation, startYear, endYear int) []model.CityCAGR {
	years := endYear - startYear
	if years < 1 {
		years = 1
	}

	means := averageByYear(panel)

	byCity := make(map[string][]yearlyMeans)
	var cities []string
	for _, m := range means {
		if m.year < startYear || m.year > endYear {
			continue
		}
		if _, ok := byCity[m.city]; !ok {
			cities = append(cities, m.city)
		}
		byCity[m.city] = append(byCity[m.city], m)
	}
	sort.Strings(cities)

	var out []model.CityCAGR
	for _, city := range cities {
		rows := byCity[city]
		if len(rows) < 2 {
			continue
		}
		first, last := rows[0], rows[len(rows)-1]

		out = append(out, model.CityCAGR{
			City:             city,
			StartYear:        startYear,
			EndYear:          endYear,
			Years:            years,
			StartPopulation:  first.population,
			EndPopulation:    last.population,
			StartRealWage:    first.realWage,
			EndRealWage:      last.realWage,
			StartNominalWage: first.monthlySalary,
			EndNominalWage:   last.monthlySalary,
			PopulationCAGR:   cagr(first.population, last.population, years) * 100,
			RealWageCAGR:     cagr(first.realWage, last.realWage, years) * 100,
			NominalWageCAGR:  cagr(first.monthlySalary, last.monthlySalary, years) * 100,
		})
	}

	zap.L().Info("growth: computed cagr",
		zap.Int("startYear", startYear),
		zap.Int("endYear", endYear),
		zap.Int("cities", len(out)))
	return out
}
