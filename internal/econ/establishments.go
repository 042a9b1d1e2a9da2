package econ

import (
	"sort"

	"go.uber.org/zap"

	"github.com/urbanecon/mexmetro/internal/geo"
	"github.com/urbanecon/mexmetro/internal/model"
	"github.com/urbanecon/mexmetro/internal/stats"
)

// Monetary census columns are in millions of pesos while employee counts
// are raw head counts; per-employee ratios scale the numerator back up.
const millions = 1_000_000

// EstabOptions filters establishment records before aggregation.
type EstabOptions struct {
	Activity string // activity code to keep (sector total)
}

// usable reports whether an establishment row enters the aggregation:
// a real municipality (not the "000" state total), the configured activity
// code, and positive gross value added. Non-positive value added is
// excluded row by row, before any ratio, so a zero never reaches a
// denominator.
func (o EstabOptions) usable(e model.EstablishmentRecord) bool {
	if e.Municipio == "000" || e.Municipio == "" {
		return false
	}
	if o.Activity != "" && e.Activity != o.Activity {
		return false
	}
	return e.ValueAdded > 0
}

// AggregateEstablishments sums census rows per metro area and derives the
// per-employee ratios from the sums, never from row-level ratios.
func AggregateEstablishments(records []model.EstablishmentRecord, norm *geo.Normalizer, opts EstabOptions) []model.EstabAggregate {
	sums := make(map[int]*model.EstabAggregate)

	for _, e := range records {
		if !opts.usable(e) {
			continue
		}
		m, ok := norm.Resolve(geo.Geocode(e.Entidad, e.Municipio))
		if !ok {
			continue
		}
		agg := sums[m.CodeZM]
		if agg == nil {
			agg = &model.EstabAggregate{CodeZM: m.CodeZM}
			sums[m.CodeZM] = agg
		}
		agg.GrossProduction += orZero(e.GrossProduction)
		agg.ValueAdded += orZero(e.ValueAdded)
		agg.Employment += orZero(e.Employment)
		agg.Payroll += orZero(e.Payroll)
	}

	out := make([]model.EstabAggregate, 0, len(sums))
	for _, agg := range sums {
		deriveRatios(agg)
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CodeZM < out[j].CodeZM })

	zap.L().Info("econ: aggregated establishments", zap.Int("rows", len(records)), zap.Int("metros", len(out)))
	return out
}

// NationalEstablishments is the no-grouping variant of the establishment
// reduction, feeding the national baseline.
func NationalEstablishments(records []model.EstablishmentRecord, opts EstabOptions) model.EstabAggregate {
	var agg model.EstabAggregate
	for _, e := range records {
		if !opts.usable(e) {
			continue
		}
		agg.GrossProduction += orZero(e.GrossProduction)
		agg.ValueAdded += orZero(e.ValueAdded)
		agg.Employment += orZero(e.Employment)
		agg.Payroll += orZero(e.Payroll)
	}
	deriveRatios(&agg)
	return agg
}

// BuildNationalBaseline combines the ungrouped establishment and rent
// reductions into the single national reference row.
func BuildNationalBaseline(records []model.EstablishmentRecord, housing []model.HousingRecord, opts EstabOptions) model.NationalBaseline {
	agg := NationalEstablishments(records, opts)
	medianRent, meanRent := NationalRents(housing)
	return model.NationalBaseline{
		UnitLaborCost: agg.UnitLaborCost,
		MedianRent:    medianRent,
		MeanRent:      meanRent,
		RER:           stats.SafeLog(agg.UnitLaborCost) - stats.SafeLog(medianRent),
	}
}

func deriveRatios(agg *model.EstabAggregate) {
	agg.Productivity = stats.SafeDiv(agg.GrossProduction*millions, agg.Employment)
	agg.VAPerEmployee = stats.SafeDiv(agg.ValueAdded*millions, agg.Employment)
	agg.WagePerEmployee = stats.SafeDiv(agg.Payroll*millions, agg.Employment)
	agg.UnitLaborCost = stats.SafeDiv(agg.Payroll, agg.ValueAdded)
}

func orZero(x float64) float64 {
	if stats.IsMissing(x) {
		return 0
	}
	return x
}
