package chart

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/urbanecon/mexmetro/internal/migration"
	"github.com/urbanecon/mexmetro/internal/model"
	"github.com/urbanecon/mexmetro/internal/stats"
)

const (
	highlightColor = "red"
	baseColor      = "blue"
	medianColor    = "gray"
)

// DashboardOptions configures the eight-figure city dashboard.
type DashboardOptions struct {
	City      string // highlighted city
	StartYear int
	EndYear   int
	OutDir    string
	PNG       bool // also render static rasters
}

// RenderDashboard writes the eight numbered dashboard figures for the city
// growth analysis.
func RenderDashboard(panel []model.CityObservation, yearly []model.YearlyCityStats, cagrs []model.CityCAGR, opts DashboardOptions) error {
	figures := []struct {
		name  string
		build func() *Plot
	}{
		{"1_employment_vs_population.html", func() *Plot {
			return EmploymentVsPopulation(panel, opts.City, opts.StartYear, opts.EndYear)
		}},
		{"2_population_growth_boxplot.html", func() *Plot {
			return PopulationGrowthBoxplot(yearly, opts.City)
		}},
		{"3_population_growth_vs_real_wages.html", func() *Plot {
			return GrowthVsRealWages(yearly, opts.City)
		}},
		{"4_cagr_real_wages_vs_population.html", func() *Plot {
			return CAGRScatter(cagrs, opts.City, realWageCAGR,
				"Population CAGR (%)", "Real Wage CAGR (%)",
				fmt.Sprintf("Real Wage CAGR vs. Population CAGR (%d-%d)", opts.StartYear, opts.EndYear))
		}},
		{"5_cagr_nominal_wages_vs_population.html", func() *Plot {
			return CAGRScatter(cagrs, opts.City, nominalWageCAGR,
				"Population CAGR (%)", "Nominal Wage CAGR (%)",
				fmt.Sprintf("Nominal Wage CAGR vs. Population CAGR (%d-%d)", opts.StartYear, opts.EndYear))
		}},
		{"6_nominal_wages_time_series.html", func() *Plot {
			return TimeSeries(panel, opts.City, nominalWage, "Monthly Salary (MXN)", "Nominal Wages Over Time")
		}},
		{"7_real_wages_time_series.html", func() *Plot {
			return TimeSeries(panel, opts.City, realWage, "Real Wage (Monthly Salary / Housing Index)", "Real Wages Over Time")
		}},
		{"8_housing_cost_time_series.html", func() *Plot {
			return TimeSeries(panel, opts.City, housingIndex, "Housing Cost Index", "Housing Costs Over Time")
		}},
	}

	for _, f := range figures {
		p := f.build()
		path := filepath.Join(opts.OutDir, f.name)
		p.SaveHTML(path)
		if opts.PNG {
			if err := savePNGScatter(p, pngPath(path)); err != nil {
				return eris.Wrap(err, "chart: render png")
			}
		}
	}

	zap.L().Info("chart: rendered dashboard", zap.String("dir", opts.OutDir), zap.Int("figures", len(figures)))
	return nil
}

// EmploymentVsPopulation is figure 1: each city's latest observed year in
// the window, employment rate against population, the selected city
// highlighted.
func EmploymentVsPopulation(panel []model.CityObservation, city string, startYear, endYear int) *Plot {
	type cityYear struct {
		year       int
		employment []float64
		population []float64
	}
	latest := make(map[string]*cityYear)
	for _, obs := range panel {
		if obs.Year < startYear || obs.Year > endYear {
			continue
		}
		cur := latest[obs.City]
		if cur == nil || obs.Year > cur.year {
			cur = &cityYear{year: obs.Year}
			latest[obs.City] = cur
		}
		if obs.Year == cur.year {
			cur.employment = append(cur.employment, obs.EmploymentRate)
			cur.population = append(cur.population, obs.Population)
		}
	}

	cities := make([]string, 0, len(latest))
	for c := range latest {
		cities = append(cities, c)
	}
	sort.Strings(cities)

	var xs, ys []float64
	var labels []string
	var hx, hy []float64
	var hl []string
	for _, c := range cities {
		cy := latest[c]
		x := stats.Mean(cy.population)
		y := stats.Mean(cy.employment)
		xs = append(xs, x)
		ys = append(ys, y)
		labels = append(labels, c)
		if c == city {
			hx, hy, hl = []float64{x}, []float64{y}, []string{c}
		}
	}

	p := NewPlot(
		WithTitle(fmt.Sprintf("Employment Rate vs. Population (%d-%d)", startYear, endYear)),
		WithXlabel("Population"),
		WithYlabel("Employment Rate (%)"),
	)
	p.AddScatter("Cities", xs, ys, labels, baseColor)
	if hx != nil {
		p.AddScatter(city, hx, hy, hl, highlightColor)
	}
	return p
}

// PopulationGrowthBoxplot is figure 2: one box per year over every city's
// population growth, a red marker for the selected city's value.
func PopulationGrowthBoxplot(yearly []model.YearlyCityStats, city string) *Plot {
	byYear := make(map[int][]float64)
	selected := make(map[int]float64)
	var years []int
	for _, row := range yearly {
		if _, ok := byYear[row.Year]; !ok {
			years = append(years, row.Year)
		}
		byYear[row.Year] = append(byYear[row.Year], row.PopulationGrowth)
		if row.City == city {
			selected[row.Year] = row.PopulationGrowth
		}
	}
	sort.Ints(years)

	p := NewPlot(
		WithTitle(fmt.Sprintf("Population Growth Rate Distributions by Year with %s highlighted", city)),
		WithXlabel("Year"),
		WithYlabel("Population Growth Rate (%)"),
	)
	for _, year := range years {
		label := fmt.Sprintf("%d", year)
		p.AddBox(label, byYear[year])
		if v, ok := selected[year]; ok && !stats.IsMissing(v) {
			p.AddCategoryMarkers(city, []string{label}, []float64{v}, highlightColor)
		}
	}
	return p
}

// GrowthVsRealWages is figure 3: yearly population growth against the real
// wage across all cities and years, selected city highlighted.
func GrowthVsRealWages(yearly []model.YearlyCityStats, city string) *Plot {
	var xs, ys []float64
	var labels []string
	var hx, hy []float64
	for _, row := range yearly {
		xs = append(xs, row.PopulationGrowth)
		ys = append(ys, row.AvgRealWage)
		labels = append(labels, row.City)
		if row.City == city {
			hx = append(hx, row.PopulationGrowth)
			hy = append(hy, row.AvgRealWage)
		}
	}

	p := NewPlot(
		WithTitle(fmt.Sprintf("Population Growth vs. Real Wages with %s highlighted", city)),
		WithXlabel("Population Growth (%)"),
		WithYlabel("Real Wage (Monthly Salary / Housing Index)"),
	)
	p.AddScatter("Cities", xs, ys, labels, baseColor)
	if hx != nil {
		p.AddScatter(city, hx, hy, nil, highlightColor)
	}
	return p
}

// y-variable selectors for the CAGR scatters and time series.
func realWageCAGR(c model.CityCAGR) float64    { return c.RealWageCAGR }
func nominalWageCAGR(c model.CityCAGR) float64 { return c.NominalWageCAGR }

func nominalWage(o model.CityObservation) float64  { return o.MonthlySalary }
func realWage(o model.CityObservation) float64     { return o.RealWage }
func housingIndex(o model.CityObservation) float64 { return o.HousingIndex }

// CAGRScatter is figures 4 and 5: a wage CAGR variant against population
// CAGR, city labels on every point.
func CAGRScatter(cagrs []model.CityCAGR, city string, yVar func(model.CityCAGR) float64, xLabel, yLabel, title string) *Plot {
	var xs, ys []float64
	var labels []string
	var hx, hy []float64
	var hl []string
	for _, c := range cagrs {
		xs = append(xs, c.PopulationCAGR)
		ys = append(ys, yVar(c))
		labels = append(labels, c.City)
		if c.City == city {
			hx, hy, hl = []float64{c.PopulationCAGR}, []float64{yVar(c)}, []string{c.City}
		}
	}

	p := NewPlot(WithTitle(title), WithXlabel(xLabel), WithYlabel(yLabel))
	p.AddScatter("Cities", xs, ys, labels, baseColor)
	p.AddZeroLines(xs, ys)
	if hx != nil {
		p.AddScatter(city, hx, hy, hl, highlightColor)
	}
	return p
}

// TimeSeries is figures 6 through 8: the selected city's series against
// the per-quarter median of all cities.
func TimeSeries(panel []model.CityObservation, city string, value func(model.CityObservation) float64, yLabel, title string) *Plot {
	byTP := make(map[string][]float64)
	var order []string
	var cityX []string
	var cityY []float64
	for _, obs := range panel {
		if _, ok := byTP[obs.TimePoint]; !ok {
			order = append(order, obs.TimePoint)
		}
		byTP[obs.TimePoint] = append(byTP[obs.TimePoint], value(obs))
		if obs.City == city {
			cityX = append(cityX, obs.TimePoint)
			cityY = append(cityY, value(obs))
		}
	}
	sort.Strings(order)
	sort.Strings(cityX) // "YYYYQn" sorts chronologically

	medians := make([]float64, len(order))
	for i, tp := range order {
		medians[i] = stats.Median(byTP[tp])
	}

	p := NewPlot(WithTitle(title), WithXlabel("Time Period"), WithYlabel(yLabel))
	p.AddCategoryLine("Median of All Cities", order, medians, medianColor)
	p.AddCategoryLine(city, cityX, cityY, highlightColor)
	return p
}

// RenderIndices writes the composite-index charts: the relative-price
// index against productivity, and the scaled index ranking.
func RenderIndices(indices []model.CompositeIndex, outDir string, png bool) error {
	var rers, tIndexes, scaled []float64
	var names []string
	for _, ix := range indices {
		rers = append(rers, ix.RER)
		tIndexes = append(tIndexes, ix.TIndex)
		scaled = append(scaled, ix.RERScaled)
		names = append(names, ix.ZM)
	}

	scatter := NewPlot(
		WithTitle("Relative Price Index vs. Tradable Productivity"),
		WithXlabel("Productivity Index"),
		WithYlabel("RER"),
	)
	scatter.AddScatter("Metro areas", tIndexes, rers, names, baseColor)
	scatterPath := filepath.Join(outDir, "rer_vs_productivity.html")
	scatter.SaveHTML(scatterPath)

	// Ranking bar: scaled index sorted descending.
	idx := make([]int, len(indices))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return scaled[idx[a]] > scaled[idx[b]] })
	var barX []string
	var barY []float64
	for _, i := range idx {
		barX = append(barX, names[i])
		barY = append(barY, scaled[i])
	}

	bar := NewPlot(
		WithTitle("Scaled Relative Price Index by Metro Area"),
		WithYlabel("RER (scaled, mean = 1)"),
	)
	bar.AddBar("rer_scaled", barX, barY, baseColor)
	barPath := filepath.Join(outDir, "rer_scaled_ranking.html")
	bar.SaveHTML(barPath)

	if png {
		if err := savePNGScatter(scatter, pngPath(scatterPath)); err != nil {
			return eris.Wrap(err, "chart: render indices png")
		}
	}
	return nil
}

// RenderMigration writes the net migration rate chart, one bar trace per
// peer group so group coloring lands in the legend.
func RenderMigration(rates []model.MetroMigration, outDir string, png bool) error {
	groupColors := map[string]string{
		migration.GroupFocal:        "red",
		migration.GroupSameRegion:   "orange",
		migration.GroupAspirational: "green",
		migration.GroupPeer:         "blue",
		migration.GroupOther:        "lightgray",
	}

	sorted := make([]model.MetroMigration, len(rates))
	copy(sorted, rates)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].NetRate > sorted[j].NetRate })

	byGroup := make(map[string][]model.MetroMigration)
	for _, m := range sorted {
		byGroup[m.Group] = append(byGroup[m.Group], m)
	}

	p := NewPlot(
		WithTitle("Net Migration Rate by Metro Area (per 1,000 residents, 5-year window)"),
		WithYlabel("Net migration rate"),
		WithLegend(true),
	)
	for _, group := range []string{
		migration.GroupFocal, migration.GroupSameRegion,
		migration.GroupAspirational, migration.GroupPeer, migration.GroupOther,
	} {
		rows := byGroup[group]
		if len(rows) == 0 {
			continue
		}
		var xs []string
		var ys []float64
		for _, m := range rows {
			xs = append(xs, m.ZM)
			ys = append(ys, m.NetRate)
		}
		p.AddBar(group, xs, ys, groupColors[group])
	}

	path := filepath.Join(outDir, "net_migration_rate.html")
	p.SaveHTML(path)

	if png {
		if err := savePNGBars(sorted, pngPath(path)); err != nil {
			return eris.Wrap(err, "chart: render migration png")
		}
	}
	return nil
}

func pngPath(htmlPath string) string {
	return htmlPath[:len(htmlPath)-len(filepath.Ext(htmlPath))] + ".png"
}
