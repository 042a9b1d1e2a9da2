package chart

import (
	"math"

	grob "github.com/MetalBlueberry/go-plotly/graph_objects"
	"github.com/rotisserie/eris"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/urbanecon/mexmetro/internal/model"
)

// savePNGScatter renders the scatter traces of an HTML figure as a static
// raster. Non-scatter traces and non-numeric axes are skipped; the PNG is
// a companion artifact, not a faithful re-render.
func savePNGScatter(src *Plot, path string) error {
	p := plot.New()
	p.Title.Text = layoutTitle(src)
	p.Add(plotter.NewGrid())

	for _, tr := range src.Fig.Data {
		sc, ok := tr.(*grob.Scatter)
		if !ok {
			continue
		}
		xs := floatSeries(sc.X)
		ys := floatSeries(sc.Y)
		if xs == nil || ys == nil {
			continue
		}
		labels, _ := sc.Text.([]string)

		var pts plotter.XYs
		var kept []string
		for i := range xs {
			if i >= len(ys) || math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
				continue
			}
			pts = append(pts, plotter.XY{X: xs[i], Y: ys[i]})
			if labels != nil && i < len(labels) {
				kept = append(kept, labels[i])
			}
		}
		if len(pts) == 0 {
			continue
		}

		scatter, err := plotter.NewScatter(pts)
		if err != nil {
			return eris.Wrap(err, "chart: build scatter")
		}
		scatter.GlyphStyle.Radius = vg.Points(3)
		p.Add(scatter)

		if len(kept) == len(pts) && len(kept) > 0 {
			lbls, err := plotter.NewLabels(plotter.XYLabels{XYs: pts, Labels: kept})
			if err != nil {
				return eris.Wrap(err, "chart: build labels")
			}
			p.Add(lbls)
		}
	}

	if err := p.Save(12*vg.Inch, 9*vg.Inch, path); err != nil {
		return eris.Wrap(err, "chart: save png")
	}
	return nil
}

// savePNGBars renders the net migration ranking as a static bar chart.
func savePNGBars(rows []model.MetroMigration, path string) error {
	p := plot.New()
	p.Title.Text = "Net Migration Rate by Metro Area"
	p.Y.Label.Text = "Net migrants per 1,000 residents"

	values := make(plotter.Values, 0, len(rows))
	names := make([]string, 0, len(rows))
	for _, m := range rows {
		if math.IsNaN(m.NetRate) {
			continue
		}
		values = append(values, m.NetRate)
		names = append(names, m.ZM)
	}

	bars, err := plotter.NewBarChart(values, vg.Points(14))
	if err != nil {
		return eris.Wrap(err, "chart: build bar chart")
	}
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = math.Pi / 2

	if err := p.Save(16*vg.Inch, 8*vg.Inch, path); err != nil {
		return eris.Wrap(err, "chart: save png")
	}
	return nil
}

// floatSeries recovers a numeric series from a trace field, whether it was
// stored as raw floats or as the null-padded wire form. Nulls come back as
// NaN; non-numeric series return nil.
func floatSeries(v interface{}) []float64 {
	switch s := v.(type) {
	case []float64:
		return s
	case []interface{}:
		out := make([]float64, len(s))
		for i, e := range s {
			f, ok := e.(float64)
			if !ok {
				f = math.NaN()
			}
			out[i] = f
		}
		return out
	default:
		return nil
	}
}

func layoutTitle(src *Plot) string {
	if src.Lay == nil || src.Lay.Title == nil {
		return ""
	}
	if s, ok := src.Lay.Title.Text.(string); ok {
		return s
	}
	return ""
}
