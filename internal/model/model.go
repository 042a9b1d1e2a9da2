// Package model holds the row types flowing through the pipeline. Every
// table is an ordered slice of one of these structs; missing numeric values
// are NaN.
package model

// MetroMapping is one row of the municipality -> metropolitan area mapping
// table. Geocode is the 5-character entity+municipality concatenation.
type MetroMapping struct {
	Geocode string
	CodeZM  int
	ZM      string
	Entidad string
}

// PersonRecord is one person-level survey row. Geography codes stay as
// zero-padded strings; the 5-years-ago residence fields keep their raw
// fixed-width form and are offset-extracted during flow computation.
type PersonRecord struct {
	Entidad   string
	Municipio string
	Weight    float64
	Income    float64
	Coverage  int
	Age       int

	// Residence five years ago, raw fixed-width fields.
	ResEnt5A string
	ResMun5A string
}

// HousingRecord is one dwelling-level survey row.
type HousingRecord struct {
	Entidad    string
	Municipio  string
	Bedrooms   int
	Rent       float64 // reported rent, NaN when absent
	EstPayment float64 // estimated payment fallback, NaN when absent
	Weight     float64
}

// EstablishmentRecord is one economic-census establishment aggregate row.
// Monetary columns are in millions of currency units; Employment is a raw
// head count.
type EstablishmentRecord struct {
	Entidad         string
	Municipio       string
	Activity        string
	GrossProduction float64
	ValueAdded      float64
	Employment      float64
	Payroll         float64
}

// WageAggregate holds per-metro income statistics.
type WageAggregate struct {
	CodeZM       int
	MeanIncome   float64
	MedianIncome float64
}

// RentAggregate holds per-metro rent statistics for one stratum.
type RentAggregate struct {
	CodeZM     int
	MedianRent float64
	MeanRent   float64 // survey-weighted
}

// EstabAggregate holds per-metro establishment sums and derived ratios.
// Per-employee ratios carry the x1e6 scaling (source values in millions).
type EstabAggregate struct {
	CodeZM          int
	GrossProduction float64
	ValueAdded      float64
	Employment      float64
	Payroll         float64

	Productivity    float64 // gross production per employee
	VAPerEmployee   float64
	WagePerEmployee float64
	UnitLaborCost   float64 // payroll / value added, unscaled
}

// MetroEconomy merges the wage, rent and establishment aggregates for one
// metro area. Absent parts are NaN.
type MetroEconomy struct {
	CodeZM int
	ZM     string

	MeanIncome   float64
	MedianIncome float64

	MedianRent float64
	MeanRent   float64

	GrossProduction float64
	ValueAdded      float64
	Employment      float64
	Payroll         float64
	Productivity    float64
	VAPerEmployee   float64
	WagePerEmployee float64
	UnitLaborCost   float64
}

// CompositeIndex holds every real-exchange-rate variant for one metro area.
// The variants coexist for comparison; none supersedes the others.
type CompositeIndex struct {
	CodeZM int
	ZM     string

	NTPrice       float64 // median rent / national mean of metro median rents
	TIndex        float64 // productivity / cross-metro mean productivity
	RER           float64 // NTPrice / TIndex
	UnitLaborCost float64
	HousingToWage float64
	RER2          float64 // ULC * sqrt(housing-to-wage)
	RER3          float64 // productivity * median rent * 12 / wage per employee
	RERNormalized float64 // z-score of RER3 over the included set
	RERScaled     float64 // RER3 / mean(RER3)
}

// NationalBaseline is the single-row no-grouping reference aggregate.
type NationalBaseline struct {
	UnitLaborCost float64
	MedianRent    float64
	MeanRent      float64
	RER           float64 // log(ULC) - log(median rent)
}

// MigrationEdge is a directed survey-weighted flow between two metro areas.
type MigrationEdge struct {
	DestZM   int
	OriginZM int
	Flow     float64
}

// MetroMigration is the per-metro net migration result.
type MetroMigration struct {
	CodeZM int
	ZM     string

	TotalDestination float64
	TotalOrigin      float64
	PopDestination   float64
	PopOrigin        float64
	NetFlow          float64
	NetRate          float64 // net migrants per 1,000 residents
	Group            string  // peer-group tag for chart coloring
}

// CityObservation is one (city, year, quarter) row of the compiled panel.
type CityObservation struct {
	City      string
	TimePoint string
	Year      int
	Quarter   int

	EmploymentRate float64
	HourlySalary   float64
	Population     float64
	HousingIndex   float64
	MonthlySalary  float64
	RealWage       float64
}

// YearlyCityStats is one (city, year) row of yearly means with
// year-over-year growth. Growth columns are NaN for the first observed year.
type YearlyCityStats struct {
	City string
	Year int

	AvgEmploymentRate float64
	AvgMonthlySalary  float64
	AvgRealWage       float64
	AvgPopulation     float64
	AvgHousingIndex   float64

	PopulationGrowth  float64
	RealWageGrowth    float64
	NominalWageGrowth float64
}

// CityCAGR is the compound annual growth result for one city over a window.
// CAGR values are percentages.
type CityCAGR struct {
	City      string
	StartYear int
	EndYear   int
	Years     int

	StartPopulation  float64
	EndPopulation    float64
	StartRealWage    float64
	EndRealWage      float64
	StartNominalWage float64
	EndNominalWage   float64

	PopulationCAGR  float64
	RealWageCAGR    float64
	NominalWageCAGR float64
}
