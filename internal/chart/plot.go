// Package chart renders the derived datasets as standalone interactive
// HTML files, with an optional static PNG variant. Charts are the
// pipeline's terminal artifact; there is no machine-readable output.
package chart

import (
	"math"

	grob "github.com/MetalBlueberry/go-plotly/graph_objects"
	"github.com/MetalBlueberry/go-plotly/offline"
	"go.uber.org/zap"
)

// Plot wraps a plotly figure under construction.
type Plot struct {
	Fig *grob.Fig
	Lay *grob.Layout
}

// Opt mutates a plot at construction time.
type Opt func(p *Plot) *Plot

// NewPlot builds an empty figure and applies the options.
func NewPlot(opt ...Opt) *Plot {
	fig := &grob.Fig{}
	lay := &grob.Layout{}
	fig.Layout = lay
	p := &Plot{Fig: fig, Lay: lay}
	for _, o := range opt {
		o(p)
	}
	return p
}

// WithTitle sets the figure title.
func WithTitle(title string) Opt {
	return func(p *Plot) *Plot {
		p.Lay.Title = &grob.LayoutTitle{Text: title}
		return p
	}
}

// WithSize sets the figure dimensions in pixels.
func WithSize(w, h float64) Opt {
	return func(p *Plot) *Plot {
		p.Lay.Width = w
		p.Lay.Height = h
		return p
	}
}

// WithXlabel sets the x axis title.
func WithXlabel(label string) Opt {
	return func(p *Plot) *Plot {
		if p.Lay.Xaxis == nil {
			p.Lay.Xaxis = &grob.LayoutXaxis{}
		}
		p.Lay.Xaxis.Title = &grob.LayoutXaxisTitle{Text: label}
		return p
	}
}

// WithYlabel sets the y axis title.
func WithYlabel(label string) Opt {
	return func(p *Plot) *Plot {
		if p.Lay.Yaxis == nil {
			p.Lay.Yaxis = &grob.LayoutYaxis{}
		}
		p.Lay.Yaxis.Title = &grob.LayoutYaxisTitle{Text: label}
		return p
	}
}

// WithLegend toggles the legend.
func WithLegend(show bool) Opt {
	return func(p *Plot) *Plot {
		if show {
			p.Lay.Showlegend = grob.True
		} else {
			p.Lay.Showlegend = grob.False
		}
		return p
	}
}

// nullable converts a series to the wire representation: missing values
// become JSON nulls. Plotly treats null as a gap, and encoding/json
// rejects NaN outright.
func nullable(xs []float64) []interface{} {
	out := make([]interface{}, len(xs))
	for i, x := range xs {
		if math.IsNaN(x) {
			out[i] = nil
		} else {
			out[i] = x
		}
	}
	return out
}

// AddScatter adds a labeled marker trace. labels may be nil for plain
// markers; color may be empty for the plotly default.
func (p *Plot) AddScatter(name string, x, y []float64, labels []string, color string) {
	tr := &grob.Scatter{
		Name: name,
		X:    nullable(x),
		Y:    nullable(y),
		Mode: grob.ScatterMode("markers"),
	}
	if labels != nil {
		tr.Mode = grob.ScatterMode("markers+text")
		tr.Text = labels
		tr.Textposition = grob.ScatterTextposition("top center")
	}
	if color != "" {
		tr.Marker = &grob.ScatterMarker{Color: color}
	}
	p.Fig.AddTraces(tr)
}

// AddLine adds a line trace.
func (p *Plot) AddLine(name string, x []float64, y []float64, color string) {
	tr := &grob.Scatter{
		Name: name,
		X:    nullable(x),
		Y:    nullable(y),
		Mode: grob.ScatterModeLines,
	}
	if color != "" {
		tr.Line = &grob.ScatterLine{Color: color}
	}
	p.Fig.AddTraces(tr)
}

// AddCategoryLine adds a line trace over categorical x values (time
// points, years as labels).
func (p *Plot) AddCategoryLine(name string, x []string, y []float64, color string) {
	tr := &grob.Scatter{
		Name: name,
		X:    x,
		Y:    nullable(y),
		Mode: grob.ScatterModeLines,
	}
	if color != "" {
		tr.Line = &grob.ScatterLine{Color: color}
	}
	p.Fig.AddTraces(tr)
}

// AddCategoryMarkers adds a marker trace over categorical x values.
func (p *Plot) AddCategoryMarkers(name string, x []string, y []float64, color string) {
	tr := &grob.Scatter{
		Name: name,
		X:    x,
		Y:    nullable(y),
		Mode: grob.ScatterMode("markers"),
	}
	if color != "" {
		tr.Marker = &grob.ScatterMarker{Color: color}
	}
	p.Fig.AddTraces(tr)
}

// AddBox adds one box trace for a named category.
func (p *Plot) AddBox(name string, y []float64) {
	p.Fig.AddTraces(&grob.Box{Name: name, Y: nullable(y)})
}

// AddBar adds a bar trace.
func (p *Plot) AddBar(name string, x []string, y []float64, color string) {
	tr := &grob.Bar{Name: name, X: x, Y: nullable(y)}
	if color != "" {
		tr.Marker = &grob.BarMarker{Color: color}
	}
	p.Fig.AddTraces(tr)
}

// AddZeroLines overlays dashed reference lines at x=0 and y=0 spanning
// the data range.
func (p *Plot) AddZeroLines(xs, ys []float64) {
	xmin, xmax := bounds(xs)
	ymin, ymax := bounds(ys)
	dash := &grob.ScatterLine{Color: "gray", Dash: "dash"}

	p.Fig.AddTraces(&grob.Scatter{
		X: []float64{xmin, xmax}, Y: []float64{0, 0},
		Mode: grob.ScatterModeLines, Line: dash,
		Showlegend: grob.False,
	})
	p.Fig.AddTraces(&grob.Scatter{
		X: []float64{0, 0}, Y: []float64{ymin, ymax},
		Mode: grob.ScatterModeLines, Line: dash,
		Showlegend: grob.False,
	})
}

// TraceCount reports the number of traces added so far.
func (p *Plot) TraceCount() int {
	return len(p.Fig.Data)
}

// SaveHTML writes the figure as a standalone HTML file.
func (p *Plot) SaveHTML(path string) {
	offline.ToHtml(p.Fig, path)
	zap.L().Info("chart: wrote html", zap.String("path", path), zap.Int("traces", p.TraceCount()))
}

func bounds(xs []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, x := range xs {
		if math.IsNaN(x) {
			continue
		}
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
	}
	if math.IsInf(lo, 1) {
		return 0, 0
	}
	return lo, hi
}
