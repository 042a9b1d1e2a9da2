package ingest

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// shfNameRewrites maps the SHF zone labels that differ from the city names
// used by the quarterly series.
var shfNameRewrites = map[string]string{
	"Valle México": "Ciudad de México",
	"PueblaTlax":   "Ciudad de Puebla",
}

// ReadHousingIndex parses the SHF housing price index CSV (semicolon
// delimited, Latin-1). Only metropolitan-zone rows (Global prefixed with
// "ZM ") are kept; the prefix is stripped and known label variants rewritten
// to the series' city names. Result: city -> (timePoint -> index).
func ReadHousingIndex(path string) (map[string]map[string]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "shf: open file")
	}
	defer f.Close()

	out, err := ParseHousingIndex(latin1Reader(f))
	if err != nil {
		return nil, err
	}
	zap.L().Info("shf: parsed housing index", zap.String("path", path), zap.Int("zones", len(out)))
	return out, nil
}

// ParseHousingIndex is ReadHousingIndex over an already-decoded reader.
func ParseHousingIndex(r io.Reader) (map[string]map[string]float64, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, eris.Wrap(err, "shf: read header")
	}
	col := headerIndex(header)
	for _, name := range []string{"Global", "Año", "Trimestre", "Indice"} {
		if _, ok := col[name]; !ok {
			return nil, eris.Errorf("shf: missing column %q", name)
		}
	}

	out := make(map[string]map[string]float64)
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "shf: read row")
		}

		zone := strings.TrimSpace(rec[col["Global"]])
		if !strings.HasPrefix(zone, "ZM") {
			continue
		}
		city := strings.TrimSpace(strings.TrimPrefix(zone, "ZM"))
		if rewritten, ok := shfNameRewrites[city]; ok {
			city = rewritten
		}

		tp := strings.TrimSpace(rec[col["Año"]]) + "Q" + strings.TrimSpace(rec[col["Trimestre"]])
		if out[city] == nil {
			out[city] = make(map[string]float64)
		}
		out[city][tp] = ParseNumber(rec[col["Indice"]])
	}

	return out, nil
}

// headerIndex maps trimmed column names to their positions.
func headerIndex(header []string) map[string]int {
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	return col
}
