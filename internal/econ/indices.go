package econ

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/urbanecon/mexmetro/internal/geo"
	"github.com/urbanecon/mexmetro/internal/model"
	"github.com/urbanecon/mexmetro/internal/stats"
)

// BuildMetroEconomies outer-joins the wage, rent and establishment
// aggregates on the metro code. A metro missing from one of the inputs
// keeps NaN for that input's columns.
func BuildMetroEconomies(wages []model.WageAggregate, rents []model.RentAggregate, estabs []model.EstabAggregate, norm *geo.Normalizer) []model.MetroEconomy {
	byCode := make(map[int]*model.MetroEconomy)

	get := func(code int) *model.MetroEconomy {
		if e, ok := byCode[code]; ok {
			return e
		}
		e := &model.MetroEconomy{
			CodeZM:          code,
			MeanIncome:      math.NaN(),
			MedianIncome:    math.NaN(),
			MedianRent:      math.NaN(),
			MeanRent:        math.NaN(),
			GrossProduction: math.NaN(),
			ValueAdded:      math.NaN(),
			Employment:      math.NaN(),
			Payroll:         math.NaN(),
			Productivity:    math.NaN(),
			VAPerEmployee:   math.NaN(),
			WagePerEmployee: math.NaN(),
			UnitLaborCost:   math.NaN(),
		}
		if name, ok := norm.NameByCode(code); ok {
			e.ZM = name
		}
		byCode[code] = e
		return e
	}

	for _, w := range wages {
		e := get(w.CodeZM)
		e.MeanIncome = w.MeanIncome
		e.MedianIncome = w.MedianIncome
	}
	for _, r := range rents {
		e := get(r.CodeZM)
		e.MedianRent = r.MedianRent
		e.MeanRent = r.MeanRent
	}
	for _, a := range estabs {
		e := get(a.CodeZM)
		e.GrossProduction = a.GrossProduction
		e.ValueAdded = a.ValueAdded
		e.Employment = a.Employment
		e.Payroll = a.Payroll
		e.Productivity = a.Productivity
		e.VAPerEmployee = a.VAPerEmployee
		e.WagePerEmployee = a.WagePerEmployee
		e.UnitLaborCost = a.UnitLaborCost
	}

	out := make([]model.MetroEconomy, 0, len(byCode))
	for _, e := range byCode {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CodeZM < out[j].CodeZM })
	return out
}

// IndexOptions configures the composite index set.
type IndexOptions struct {
	MinEmployment float64 // minimum-scale inclusion threshold
}

// BuildCompositeIndices computes every relative-price index variant over
// the metros passing the employment threshold. The variants coexist; none
// supersedes the others. Normalization statistics (means, the sample
// standard deviation for the z-score) are computed over exactly the
// post-filter set, so membership changes every area's normalized value.
func BuildCompositeIndices(economies []model.MetroEconomy, opts IndexOptions) []model.CompositeIndex {
	var included []model.MetroEconomy
	for _, e := range economies {
		if e.Employment >= opts.MinEmployment {
			included = append(included, e)
		}
	}

	medianRents := make([]float64, len(included))
	productivities := make([]float64, len(included))
	for i, e := range included {
		medianRents[i] = e.MedianRent
		productivities[i] = e.Productivity
	}
	meanMedianRent := stats.Mean(medianRents)
	meanProductivity := stats.Mean(productivities)

	out := make([]model.CompositeIndex, len(included))
	rer3s := make([]float64, len(included))
	for i, e := range included {
		ntPrice := stats.SafeDiv(e.MedianRent, meanMedianRent)
		tIndex := stats.SafeDiv(e.Productivity, meanProductivity)
		housingToWage := stats.SafeDiv(e.MeanRent, e.WagePerEmployee)
		rer3 := stats.SafeDiv(e.Productivity*e.MedianRent*12, e.WagePerEmployee)
		rer3s[i] = rer3

		out[i] = model.CompositeIndex{
			CodeZM:        e.CodeZM,
			ZM:            e.ZM,
			NTPrice:       ntPrice,
			TIndex:        tIndex,
			RER:           stats.SafeDiv(ntPrice, tIndex),
			UnitLaborCost: e.UnitLaborCost,
			HousingToWage: housingToWage,
			RER2:          e.UnitLaborCost * math.Sqrt(housingToWage),
			RER3:          rer3,
		}
	}

	zs := stats.ZScores(rer3s)
	meanRER3 := stats.Mean(rer3s)
	for i := range out {
		out[i].RERNormalized = zs[i]
		out[i].RERScaled = stats.SafeDiv(rer3s[i], meanRER3)
	}

	zap.L().Info("econ: built composite indices",
		zap.Int("metros", len(economies)),
		zap.Int("included", len(out)),
		zap.Float64("minEmployment", opts.MinEmployment))
	return out
}
