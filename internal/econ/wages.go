// Package econ reduces survey and census extracts to metro-area economic
// indicators and builds the composite relative-price indices on top of
// them.
package econ

import (
	"sort"

	"go.uber.org/zap"

	"github.com/urbanecon/mexmetro/internal/geo"
	"github.com/urbanecon/mexmetro/internal/model"
	"github.com/urbanecon/mexmetro/internal/stats"
)

// WageOptions filters person records before income aggregation.
type WageOptions struct {
	ExcludeCoverage int     // coverage flag marking unreported income
	IncomeSentinel  float64 // "unknown income" code
}

// AggregateWages reduces person records to mean and median income per metro
// area. Records with the excluded coverage flag, a non-positive income or
// the sentinel code are dropped; records outside any metro area are
// dropped with the rest of the strictness left to the caller's join.
func AggregateWages(persons []model.PersonRecord, norm *geo.Normalizer, opts WageOptions) []model.WageAggregate {
	incomes := make(map[int][]float64)
	names := make(map[int]string)

	kept := 0
	for _, p := range persons {
		if p.Coverage == opts.ExcludeCoverage {
			continue
		}
		if !(p.Income > 0) || p.Income == opts.IncomeSentinel {
			continue
		}
		m, ok := norm.Resolve(geo.Geocode(p.Entidad, p.Municipio))
		if !ok {
			continue
		}
		incomes[m.CodeZM] = append(incomes[m.CodeZM], p.Income)
		names[m.CodeZM] = m.ZM
		kept++
	}

	out := make([]model.WageAggregate, 0, len(incomes))
	for code, xs := range incomes {
		out = append(out, model.WageAggregate{
			CodeZM:       code,
			MeanIncome:   stats.Mean(xs),
			MedianIncome: stats.Median(xs),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CodeZM < out[j].CodeZM })

	zap.L().Info("econ: aggregated wages",
		zap.Int("persons", len(persons)),
		zap.Int("kept", kept),
		zap.Int("metros", len(out)))
	return out
}
