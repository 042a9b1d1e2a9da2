// Package growth compiles the quarterly city panel and derives yearly
// growth rates and CAGR from it.
package growth

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/urbanecon/mexmetro/internal/ingest"
	"github.com/urbanecon/mexmetro/internal/model"
	"github.com/urbanecon/mexmetro/internal/stats"
)

// Monthly salary assumes a 160-hour working month.
const hoursPerMonth = 160

var timePointRe = regexp.MustCompile(`^(\d{4})Q(\d)$`)

// PanelInputs are the per-indicator city series feeding the compile.
// Employment carries the canonical time-point ordering; the housing index
// is keyed by the SHF zone names rather than the series' city names.
type PanelInputs struct {
	Employment   *ingest.SeriesTable
	HourlySalary *ingest.SeriesTable
	Population   *ingest.SeriesTable
	HousingIndex map[string]map[string]float64
}

// CompilePanel joins the indicator series into one row per (city, time
// point). Cities come from the union of the three series; the housing
// index is matched by the simplified city name (without the "Ciudad de "
// prefix) first, the full name second. Derived columns: monthly salary
// (hourly x 160) and the real wage (monthly over housing index), both
// NaN-safe.
func CompilePanel(in PanelInputs) []model.CityObservation {
	cities := make(map[string]bool)
	for _, t := range []*ingest.SeriesTable{in.Employment, in.HourlySalary, in.Population} {
		if t == nil {
			continue
		}
		for city := range t.Cities {
			cities[city] = true
		}
	}

	ordered := make([]string, 0, len(cities))
	for city := range cities {
		ordered = append(ordered, city)
	}
	sort.Strings(ordered)

	var out []model.CityObservation
	for _, city := range ordered {
		housing := housingSeries(in.HousingIndex, city)
		for _, tp := range in.Employment.TimePoints {
			m := timePointRe.FindStringSubmatch(tp)
			if m == nil {
				continue
			}

			obs := model.CityObservation{
				City:           city,
				TimePoint:      tp,
				Year:           ingest.ParseInt(m[1]),
				Quarter:        ingest.ParseInt(m[2]),
				EmploymentRate: seriesValue(in.Employment, city, tp),
				HourlySalary:   seriesValue(in.HourlySalary, city, tp),
				Population:     seriesValue(in.Population, city, tp),
				HousingIndex:   math.NaN(),
			}
			if housing != nil {
				if v, ok := housing[tp]; ok {
					obs.HousingIndex = v
				}
			}
			obs.MonthlySalary = obs.HourlySalary * hoursPerMonth
			obs.RealWage = stats.SafeDiv(obs.MonthlySalary, obs.HousingIndex)
			out = append(out, obs)
		}
	}

	zap.L().Info("growth: compiled panel", zap.Int("cities", len(ordered)), zap.Int("rows", len(out)))
	return out
}

func seriesValue(t *ingest.SeriesTable, city, tp string) float64 {
	if t == nil {
		return math.NaN()
	}
	return t.Value(city, tp)
}

// housingSeries resolves the housing index series for a city: the
// simplified name wins, the full name is the fallback.
func housingSeries(index map[string]map[string]float64, city string) map[string]float64 {
	simple := strings.TrimPrefix(city, "Ciudad de ")
	if s, ok := index[simple]; ok {
		return s
	}
	return index[city]
}
