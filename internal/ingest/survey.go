package ingest

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/urbanecon/mexmetro/internal/model"
)

// SurveyOptions configures the delimited survey/census extract readers.
// Column lookup is by header name so exports drop in regardless of column
// order; names follow the census extract vocabulary and are overrideable.
type SurveyOptions struct {
	Delimiter rune // default ','
	Latin1    bool // decode ISO 8859-1 instead of UTF-8

	// Column name overrides; zero value uses the extract defaults.
	Columns map[string]string
}

func (o *SurveyOptions) column(key, fallback string) string {
	if name, ok := o.Columns[key]; ok {
		return name
	}
	return fallback
}

func (o *SurveyOptions) open(path string) (*os.File, *csv.Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, eris.Wrap(err, "survey: open file")
	}
	var r io.Reader = f
	if o.Latin1 {
		r = latin1Reader(f)
	}
	reader := csv.NewReader(r)
	if o.Delimiter != 0 {
		reader.Comma = o.Delimiter
	}
	reader.FieldsPerRecord = -1
	return f, reader, nil
}

// field returns the named column from a record, "" when the column is
// absent or the record too short.
func field(rec []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// ReadPersons reads the person-level survey extract: geography, survey
// weight, monthly income, income coverage flag, age and the
// residence-five-years-ago codes.
func ReadPersons(path string, opts SurveyOptions) ([]model.PersonRecord, error) {
	f, reader, err := opts.open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	header, err := reader.Read()
	if err != nil {
		return nil, eris.Wrap(err, "survey: read person header")
	}
	col := headerIndex(header)

	var (
		entCol  = opts.column("entidad", "ENT")
		munCol  = opts.column("municipio", "MUN")
		wgtCol  = opts.column("weight", "FACTOR")
		incCol  = opts.column("income", "INGTRMEN")
		covCol  = opts.column("coverage", "COBERTURA")
		ageCol  = opts.column("age", "EDAD")
		rEntCol = opts.column("res_ent_5a", "ENT_PAIS_RES_5A")
		rMunCol = opts.column("res_mun_5a", "MUN_RES_5A")
	)

	var out []model.PersonRecord
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "survey: read person row")
		}
		out = append(out, model.PersonRecord{
			Entidad:   field(rec, col, entCol),
			Municipio: field(rec, col, munCol),
			Weight:    ParseNumber(field(rec, col, wgtCol)),
			Income:    ParseNumber(field(rec, col, incCol)),
			Coverage:  ParseInt(field(rec, col, covCol)),
			Age:       ParseInt(field(rec, col, ageCol)),
			ResEnt5A:  field(rec, col, rEntCol),
			ResMun5A:  field(rec, col, rMunCol),
		})
	}

	zap.L().Info("survey: read person extract", zap.String("path", path), zap.Int("rows", len(out)))
	return out, nil
}

// ReadHousingRecords reads the dwelling-level survey extract.
func ReadHousingRecords(path string, opts SurveyOptions) ([]model.HousingRecord, error) {
	f, reader, err := opts.open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	header, err := reader.Read()
	if err != nil {
		return nil, eris.Wrap(err, "survey: read housing header")
	}
	col := headerIndex(header)

	var (
		entCol  = opts.column("entidad", "ENT")
		munCol  = opts.column("municipio", "MUN")
		bedCol  = opts.column("bedrooms", "RECAMARAS")
		rentCol = opts.column("rent", "RENTA")
		estCol  = opts.column("est_payment", "PAGO_ESTIM")
		wgtCol  = opts.column("weight", "FACTOR")
	)

	var out []model.HousingRecord
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "survey: read housing row")
		}
		out = append(out, model.HousingRecord{
			Entidad:    field(rec, col, entCol),
			Municipio:  field(rec, col, munCol),
			Bedrooms:   ParseInt(field(rec, col, bedCol)),
			Rent:       ParseNumber(field(rec, col, rentCol)),
			EstPayment: ParseNumber(field(rec, col, estCol)),
			Weight:     ParseNumber(field(rec, col, wgtCol)),
		})
	}

	zap.L().Info("survey: read housing extract", zap.String("path", path), zap.Int("rows", len(out)))
	return out, nil
}

// ReadEstablishments reads the economic-census municipal aggregate extract.
// Monetary columns are in millions of pesos.
func ReadEstablishments(path string, opts SurveyOptions) ([]model.EstablishmentRecord, error) {
	f, reader, err := opts.open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	header, err := reader.Read()
	if err != nil {
		return nil, eris.Wrap(err, "survey: read establishment header")
	}
	col := headerIndex(header)

	var (
		entCol  = opts.column("entidad", "ENTIDAD")
		munCol  = opts.column("municipio", "MUNICIPIO")
		actCol  = opts.column("activity", "CODIGO")
		prodCol = opts.column("production", "A111A")
		vaCol   = opts.column("value_added", "A131A")
		empCol  = opts.column("employment", "H001A")
		payCol  = opts.column("payroll", "J000A")
	)

	var out []model.EstablishmentRecord
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "survey: read establishment row")
		}
		out = append(out, model.EstablishmentRecord{
			Entidad:         field(rec, col, entCol),
			Municipio:       field(rec, col, munCol),
			Activity:        field(rec, col, actCol),
			GrossProduction: ParseNumber(field(rec, col, prodCol)),
			ValueAdded:      ParseNumber(field(rec, col, vaCol)),
			Employment:      ParseNumber(field(rec, col, empCol)),
			Payroll:         ParseNumber(field(rec, col, payCol)),
		})
	}

	zap.L().Info("survey: read establishment extract", zap.String("path", path), zap.Int("rows", len(out)))
	return out, nil
}
