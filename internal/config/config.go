package config

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Inputs    InputsConfig    `yaml:"inputs" mapstructure:"inputs"`
	Geo       GeoConfig       `yaml:"geo" mapstructure:"geo"`
	Wages     WagesConfig     `yaml:"wages" mapstructure:"wages"`
	Rents     RentsConfig     `yaml:"rents" mapstructure:"rents"`
	Census    CensusConfig    `yaml:"census" mapstructure:"census"`
	Indices   IndicesConfig   `yaml:"indices" mapstructure:"indices"`
	Migration MigrationConfig `yaml:"migration" mapstructure:"migration"`
	Panel     PanelConfig     `yaml:"panel" mapstructure:"panel"`
	Output    OutputConfig    `yaml:"output" mapstructure:"output"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// InputsConfig holds the source file paths.
type InputsConfig struct {
	MetroMapping   string `yaml:"metro_mapping" mapstructure:"metro_mapping"`
	Persons        string `yaml:"persons" mapstructure:"persons"`
	Housing        string `yaml:"housing" mapstructure:"housing"`
	Establishments string `yaml:"establishments" mapstructure:"establishments"`
	EmploymentRate string `yaml:"employment_rate" mapstructure:"employment_rate"`
	HourlySalary   string `yaml:"hourly_salary" mapstructure:"hourly_salary"`
	Population     string `yaml:"population" mapstructure:"population"`
	HousingIndex   string `yaml:"housing_index" mapstructure:"housing_index"`
}

// GeoConfig configures the metro-area normalizer. NameOverrides replaces
// mapped metro names post-join, keyed by the metro code. Keys are strings
// because viper lowercases and stringifies map keys; Overrides converts.
type GeoConfig struct {
	NameOverrides map[string]string `yaml:"name_overrides" mapstructure:"name_overrides"`
}

// Overrides returns the name override table keyed by metro code. Entries
// with non-numeric keys are dropped.
func (g GeoConfig) Overrides() map[int]string {
	out := make(map[int]string, len(g.NameOverrides))
	for k, v := range g.NameOverrides {
		code, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		out[code] = v
	}
	return out
}

// WagesConfig configures the income filter.
type WagesConfig struct {
	ExcludeCoverage int     `yaml:"exclude_coverage" mapstructure:"exclude_coverage"`
	IncomeSentinel  float64 `yaml:"income_sentinel" mapstructure:"income_sentinel"`
}

// RentsConfig configures the rent stratum.
type RentsConfig struct {
	Bedrooms int `yaml:"bedrooms" mapstructure:"bedrooms"`
}

// CensusConfig configures the establishment filter.
type CensusConfig struct {
	Activity string `yaml:"activity" mapstructure:"activity"`
}

// IndicesConfig configures the composite index set.
type IndicesConfig struct {
	MinEmployment float64 `yaml:"min_employment" mapstructure:"min_employment"`
}

// MigrationConfig configures the flow computation and the peer-group
// membership lists used for chart coloring. Membership is configuration
// data so it stays auditable away from chart code.
type MigrationConfig struct {
	MinAge       int   `yaml:"min_age" mapstructure:"min_age"`
	FocalMetro   int   `yaml:"focal_metro" mapstructure:"focal_metro"`
	SameRegion   []int `yaml:"same_region" mapstructure:"same_region"`
	Aspirational []int `yaml:"aspirational" mapstructure:"aspirational"`
	Peers        []int `yaml:"peers" mapstructure:"peers"`
}

// PanelConfig configures the city growth pipeline.
type PanelConfig struct {
	City      string `yaml:"city" mapstructure:"city"`
	StartYear int    `yaml:"start_year" mapstructure:"start_year"`
	EndYear   int    `yaml:"end_year" mapstructure:"end_year"`
}

// OutputConfig configures where charts land.
type OutputConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
	PNG bool   `yaml:"png" mapstructure:"png"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("MEXMETRO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("output.dir", ".")
	v.SetDefault("output.png", false)
	v.SetDefault("geo.name_overrides", map[string]string{"5": "Saltillo", "37": "San Luis Potosí"})
	v.SetDefault("wages.exclude_coverage", 4)
	v.SetDefault("wages.income_sentinel", 999999)
	v.SetDefault("rents.bedrooms", 2)
	v.SetDefault("census.activity", "11-99")
	v.SetDefault("indices.min_employment", 50000)
	v.SetDefault("migration.min_age", 16)
	v.SetDefault("migration.focal_metro", 31)
	v.SetDefault("migration.same_region", []int{5, 37, 25})
	v.SetDefault("migration.aspirational", []int{13, 21})
	v.SetDefault("migration.peers", []int{24, 28, 32, 41})
	v.SetDefault("panel.city", "Ciudad de Monterrey")
	v.SetDefault("panel.start_year", 2015)
	v.SetDefault("panel.end_year", 2020)
	v.SetDefault("inputs.metro_mapping", "data/metro_mapping.xlsx")
	v.SetDefault("inputs.persons", "data/persons.csv")
	v.SetDefault("inputs.housing", "data/housing.csv")
	v.SetDefault("inputs.establishments", "data/establishments.csv")
	v.SetDefault("inputs.employment_rate", "data/Employment rate by city.xls")
	v.SetDefault("inputs.hourly_salary", "data/Mean hourly salary by city.xls")
	v.SetDefault("inputs.population", "data/Population by city.xls")
	v.SetDefault("inputs.housing_index", "data/Indice SHF datos abiertos.csv")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
