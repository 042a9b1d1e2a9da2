// Package migration derives five-year metro-to-metro migration flows and
// net migration rates from person-level residence-history fields.
package migration

import (
	"sort"

	"go.uber.org/zap"

	"github.com/urbanecon/mexmetro/internal/geo"
	"github.com/urbanecon/mexmetro/internal/model"
	"github.com/urbanecon/mexmetro/internal/stats"
)

// FlowOptions configures the flow computation.
type FlowOptions struct {
	MinAge int // minimum age for the migration universe (default 16)
}

// edgeKey groups directed flows. Destination is the current metro, origin
// the metro of residence five years ago.
type edgeKey struct {
	dest   int
	origin int
}

// ComputeFlows aggregates survey-weighted directed flow edges. The current
// and prior municipality pass through the same normalizer under their own
// key extraction; self-loops and edges with an unresolved origin are
// dropped.
func ComputeFlows(persons []model.PersonRecord, norm *geo.Normalizer, opts FlowOptions) []model.MigrationEdge {
	minAge := opts.MinAge
	if minAge == 0 {
		minAge = 16
	}

	flows := make(map[edgeKey]float64)
	for _, p := range persons {
		if p.Age < minAge {
			continue
		}
		dest, ok := norm.Resolve(geo.Geocode(p.Entidad, p.Municipio))
		if !ok {
			continue
		}
		origin, ok := norm.Resolve(geo.PriorGeocode(p.ResEnt5A, p.ResMun5A))
		if !ok {
			continue
		}
		if origin.CodeZM == dest.CodeZM {
			continue
		}
		flows[edgeKey{dest: dest.CodeZM, origin: origin.CodeZM}] += p.Weight
	}

	out := make([]model.MigrationEdge, 0, len(flows))
	for k, w := range flows {
		out = append(out, model.MigrationEdge{DestZM: k.dest, OriginZM: k.origin, Flow: w})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DestZM != out[j].DestZM {
			return out[i].DestZM < out[j].DestZM
		}
		return out[i].OriginZM < out[j].OriginZM
	})

	zap.L().Info("migration: computed flow edges", zap.Int("persons", len(persons)), zap.Int("edges", len(out)))
	return out
}

// populations sums survey weights per metro, once keyed by current
// residence and once by residence five years ago, over the same
// age-restricted universe as the edges.
func populations(persons []model.PersonRecord, norm *geo.Normalizer, minAge int) (popDest, popOrigin map[int]float64) {
	popDest = make(map[int]float64)
	popOrigin = make(map[int]float64)
	for _, p := range persons {
		if p.Age < minAge {
			continue
		}
		if m, ok := norm.Resolve(geo.Geocode(p.Entidad, p.Municipio)); ok {
			popDest[m.CodeZM] += p.Weight
		}
		if m, ok := norm.Resolve(geo.PriorGeocode(p.ResEnt5A, p.ResMun5A)); ok {
			popOrigin[m.CodeZM] += p.Weight
		}
	}
	return popDest, popOrigin
}

// ComputeNetRates merges two independently computed totals, the
// destination-side inbound sum and the origin-side outbound sum, onto the
// destination-side metro key.
//
// The destination-side keys drive the result: a metro appearing only as an
// origin has no destination row and is excluded entirely. Metros with zero
// inbound and zero outbound flow are dropped as unsampled.
func ComputeNetRates(persons []model.PersonRecord, norm *geo.Normalizer, groups *Groups, opts FlowOptions) []model.MetroMigration {
	minAge := opts.MinAge
	if minAge == 0 {
		minAge = 16
	}

	edges := ComputeFlows(persons, norm, opts)

	// Two separate reduction passes over the same edge set.
	totalDest := make(map[int]float64)
	totalOrigin := make(map[int]float64)
	for _, e := range edges {
		totalDest[e.DestZM] += e.Flow
		totalOrigin[e.OriginZM] += e.Flow
	}

	popDest, popOrigin := populations(persons, norm, minAge)

	out := make([]model.MetroMigration, 0, len(totalDest))
	for code, inbound := range totalDest {
		outbound := totalOrigin[code]
		if inbound == 0 && outbound == 0 {
			continue
		}
		netFlow := inbound - outbound
		m := model.MetroMigration{
			CodeZM:           code,
			TotalDestination: inbound,
			TotalOrigin:      outbound,
			PopDestination:   popDest[code],
			PopOrigin:        popOrigin[code],
			NetFlow:          netFlow,
			NetRate:          stats.SafeDiv(netFlow*1000, popDest[code]),
		}
		if name, ok := norm.NameByCode(code); ok {
			m.ZM = name
		}
		if groups != nil {
			m.Group = groups.Classify(code)
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CodeZM < out[j].CodeZM })

	zap.L().Info("migration: computed net rates", zap.Int("metros", len(out)))
	return out
}
