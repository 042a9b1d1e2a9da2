// Package ingest parses the pipeline's heterogeneous inputs: quarterly city
// series published as HTML tables with an .xls extension, the SHF housing
// index CSV, delimited survey and census extracts, and the metro-area
// mapping workbook.
//
// Parsing is permissive at the cell level: a value that cannot be read
// becomes NaN and the row survives. Errors are reserved for inputs that
// cannot be opened or decoded at all.
package ingest

import (
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// missing markers used by the statistical publications.
var missingMarkers = map[string]bool{
	"":          true,
	"No aplica": true,
	"ND":        true,
	"N/D":       true,
	"n.d.":      true,
}

// latin1Reader decodes ISO 8859-1 input, the encoding every source file in
// this pipeline ships with.
func latin1Reader(r io.Reader) io.Reader {
	return charmap.ISO8859_1.NewDecoder().Reader(r)
}

// ParseNumber converts a cell to a float64, NaN for anything unusable.
// Handles the publications' decimal comma and thousands separators.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if missingMarkers[s] {
		return math.NaN()
	}
	if strings.Contains(s, ",") {
		if strings.Contains(s, ".") {
			// "1.234,56" — dot is the thousands separator.
			s = strings.ReplaceAll(s, ".", "")
		}
		s = strings.ReplaceAll(s, ",", ".")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// ParseInt converts a cell to an int, 0 for anything unusable.
func ParseInt(s string) int {
	s = strings.TrimSpace(s)
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}
