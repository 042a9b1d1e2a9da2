package ingest

import (
	"io"
	"math"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// SeriesTable is a quarterly indicator table: one series per city, indexed
// by time points of the form "2019Q3".
type SeriesTable struct {
	TimePoints []string
	Cities     map[string]map[string]float64
}

// Series returns the series for a city, nil when the city is absent.
func (t *SeriesTable) Series(city string) map[string]float64 {
	return t.Cities[city]
}

// Value returns the value for (city, timePoint), NaN when absent.
func (t *SeriesTable) Value(city, timePoint string) float64 {
	if s, ok := t.Cities[city]; ok {
		if v, ok := s[timePoint]; ok {
			return v
		}
	}
	return math.NaN()
}

// HTMLTableOptions configures the quarterly-series table reader. The
// defaults match the statistics office export layout.
type HTMLTableOptions struct {
	YearRow    int    // row carrying year labels (default 6, zero-based)
	QuarterRow int    // row carrying quarter labels (default YearRow+1)
	DataRow    int    // first data row (default QuarterRow+1)
	SkipLabel  string // row label to drop (default "Áreas metropolitanas")
}

func (o *HTMLTableOptions) defaults() {
	if o.YearRow == 0 {
		o.YearRow = 6
	}
	if o.QuarterRow == 0 {
		o.QuarterRow = o.YearRow + 1
	}
	if o.DataRow == 0 {
		o.DataRow = o.QuarterRow + 1
	}
	if o.SkipLabel == "" {
		o.SkipLabel = "Áreas metropolitanas"
	}
}

// ReadSeriesTable parses a quarterly city series from a spreadsheet file
// that is actually an HTML document. The first cell of each data row is the
// city name; the paired year/quarter header rows become "YYYYQn" time
// points.
func ReadSeriesTable(path string, opts HTMLTableOptions) (*SeriesTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "htmltable: open file")
	}
	defer f.Close()

	table, err := ParseSeriesTable(latin1Reader(f), opts)
	if err != nil {
		return nil, err
	}
	zap.L().Info("htmltable: parsed series table",
		zap.String("path", path),
		zap.Int("cities", len(table.Cities)),
		zap.Int("timePoints", len(table.TimePoints)))
	return table, nil
}

// ParseSeriesTable is ReadSeriesTable over an already-decoded reader.
func ParseSeriesTable(r io.Reader, opts HTMLTableOptions) (*SeriesTable, error) {
	opts.defaults()

	rows, err := tableRows(r)
	if err != nil {
		return nil, eris.Wrap(err, "htmltable: parse document")
	}
	if len(rows) <= opts.QuarterRow {
		return nil, eris.Errorf("htmltable: document has %d rows, header expected at row %d", len(rows), opts.QuarterRow)
	}

	years := rows[opts.YearRow]
	quarters := rows[opts.QuarterRow]

	// Time points pair year and quarter labels column by column, skipping
	// the leading city-name column. Quarter cells may carry footnote text
	// after the number; only the first token counts.
	var timePoints []string
	n := len(years)
	if len(quarters) < n {
		n = len(quarters)
	}
	for i := 1; i < n; i++ {
		y := strings.TrimSpace(years[i])
		q := strings.TrimSpace(quarters[i])
		if y == "" || q == "" {
			continue
		}
		timePoints = append(timePoints, y+"Q"+strings.Fields(q)[0])
	}

	table := &SeriesTable{
		TimePoints: timePoints,
		Cities:     make(map[string]map[string]float64),
	}
	for _, row := range rows[opts.DataRow:] {
		if len(row) < 2 {
			continue
		}
		city := strings.TrimSpace(row[0])
		if city == "" || city == opts.SkipLabel {
			continue
		}
		// Ragged rows (subtotals, footers) do not align with the header.
		if len(row)-1 != len(timePoints) {
			continue
		}
		series := make(map[string]float64, len(timePoints))
		for i, tp := range timePoints {
			series[tp] = ParseNumber(row[i+1])
		}
		table.Cities[city] = series
	}

	return table, nil
}

// tableRows flattens every <tr> in the document into its cell texts.
func tableRows(r io.Reader) ([][]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			rows = append(rows, rowCells(n))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return rows, nil
}

func rowCells(tr *html.Node) []string {
	var cells []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "td" || n.Data == "th") {
			cells = append(cells, nodeText(n))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(tr)
	return cells
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}
