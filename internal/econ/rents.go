package econ

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/urbanecon/mexmetro/internal/geo"
	"github.com/urbanecon/mexmetro/internal/model"
	"github.com/urbanecon/mexmetro/internal/stats"
)

// RentOptions filters housing records before rent aggregation.
type RentOptions struct {
	Bedrooms int // room-count stratum, 0 = no stratification
}

// unitRent prefers the reported rent, falling back to the estimated
// payment when rent is absent.
func unitRent(h model.HousingRecord) float64 {
	if !math.IsNaN(h.Rent) {
		return h.Rent
	}
	return h.EstPayment
}

// AggregateRents reduces housing records to median and survey-weighted mean
// rent per metro area, restricted to the configured bedroom stratum.
func AggregateRents(housing []model.HousingRecord, norm *geo.Normalizer, opts RentOptions) []model.RentAggregate {
	rents := make(map[int][]float64)
	weights := make(map[int][]float64)

	for _, h := range housing {
		if opts.Bedrooms != 0 && h.Bedrooms != opts.Bedrooms {
			continue
		}
		r := unitRent(h)
		if math.IsNaN(r) {
			continue
		}
		m, ok := norm.Resolve(geo.Geocode(h.Entidad, h.Municipio))
		if !ok {
			continue
		}
		rents[m.CodeZM] = append(rents[m.CodeZM], r)
		weights[m.CodeZM] = append(weights[m.CodeZM], h.Weight)
	}

	out := make([]model.RentAggregate, 0, len(rents))
	for code, xs := range rents {
		out = append(out, model.RentAggregate{
			CodeZM:     code,
			MedianRent: stats.Median(xs),
			MeanRent:   stats.WeightedMean(xs, weights[code]),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CodeZM < out[j].CodeZM })

	zap.L().Info("econ: aggregated rents", zap.Int("metros", len(out)), zap.Int("bedrooms", opts.Bedrooms))
	return out
}

// NationalRents is the unstratified no-grouping rent reduction: every
// housing record with a usable rent, regardless of metro area or room
// count. Kept parallel to AggregateRents for the national baseline.
func NationalRents(housing []model.HousingRecord) (medianRent, meanRent float64) {
	var rents, weights []float64
	for _, h := range housing {
		r := unitRent(h)
		if math.IsNaN(r) {
			continue
		}
		rents = append(rents, r)
		weights = append(weights, h.Weight)
	}
	return stats.Median(rents), stats.WeightedMean(rents, weights)
}
