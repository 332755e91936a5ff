package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/faskes-equity/internal/dataset"
)

// Config holds the full application configuration.
type Config struct {
	Model   ModelConfig   `yaml:"model" mapstructure:"model"`
	Dataset DatasetConfig `yaml:"dataset" mapstructure:"dataset"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// ModelConfig points at the persisted scaler and cluster model artifacts.
type ModelConfig struct {
	ScalerPath string `yaml:"scaler_path" mapstructure:"scaler_path"`
	ModelPath  string `yaml:"model_path" mapstructure:"model_path"`
}

// DatasetConfig configures the reference table source.
type DatasetConfig struct {
	Driver      string          `yaml:"driver" mapstructure:"driver"`
	Path        string          `yaml:"path" mapstructure:"path"`
	DatabaseURL string          `yaml:"database_url" mapstructure:"database_url"`
	Table       string          `yaml:"table" mapstructure:"table"`
	Sheet       string          `yaml:"sheet" mapstructure:"sheet"`
	Columns     dataset.Columns `yaml:"columns" mapstructure:"columns"`

	ConnectAttempts int `yaml:"connect_attempts" mapstructure:"connect_attempts"`
}

// Source converts the config into a dataset.Source.
func (d DatasetConfig) Source() dataset.Source {
	return dataset.Source{
		Driver:      d.Driver,
		Path:        d.Path,
		DatabaseURL: d.DatabaseURL,
		Table:       d.Table,
		Sheet:       d.Sheet,
		Columns:     d.Columns,

		ConnectAttempts: d.ConnectAttempts,
	}
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
	RateLimit   float64  `yaml:"rate_limit" mapstructure:"rate_limit"` // requests per second, 0 = unlimited
	RateBurst   int      `yaml:"rate_burst" mapstructure:"rate_burst"`
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
	v.SetEnvPrefix("FASKES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	cols := dataset.DefaultColumns()
	v.SetDefault("model.scaler_path", "scaler.yaml")
	v.SetDefault("model.model_path", "model_clustering.yaml")
	v.SetDefault("dataset.driver", "")
	v.SetDefault("dataset.path", "fitur.csv")
	v.SetDefault("dataset.database_url", "")
	v.SetDefault("dataset.table", "")
	v.SetDefault("dataset.sheet", "")
	v.SetDefault("dataset.connect_attempts", 3)
	v.SetDefault("dataset.columns.province", cols.Province)
	v.SetDefault("dataset.columns.cluster", cols.Cluster)
	v.SetDefault("dataset.columns.facility_count", cols.FacilityCount)
	v.SetDefault("dataset.columns.visit_count", cols.VisitCount)
	v.SetDefault("dataset.columns.mean_facility_weight", cols.MeanFacilityWeight)
	v.SetDefault("dataset.columns.total_facility_weight", cols.TotalFacilityWeight)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.rate_limit", 20.0)
	v.SetDefault("server.rate_burst", 40)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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

// Validate checks the settings required by mode: "classify" needs the model
// artifacts, "summary" needs the dataset, "serve" and "check" need both.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "classify":
		errs = append(errs, c.validateModel()...)
	case "summary":
		errs = append(errs, c.validateDataset()...)
	case "check":
		errs = append(errs, c.validateModel()...)
		errs = append(errs, c.validateDataset()...)
	case "serve":
		errs = append(errs, c.validateModel()...)
		errs = append(errs, c.validateDataset()...)
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, fmt.Sprintf("server.port must be between 1 and 65535, got %d", c.Server.Port))
		}
		if c.Server.RateLimit < 0 {
			errs = append(errs, "server.rate_limit must be >= 0")
		}
		if c.Server.RateLimit > 0 && c.Server.RateBurst < 1 {
			errs = append(errs, "server.rate_burst must be >= 1 when rate_limit is set")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (c *Config) validateModel() []string {
	var errs []string
	if c.Model.ScalerPath == "" {
		errs = append(errs, "model.scaler_path is required")
	}
	if c.Model.ModelPath == "" {
		errs = append(errs, "model.model_path is required")
	}
	return errs
}

func (c *Config) validateDataset() []string {
	var errs []string
	d := c.Dataset
	switch d.Driver {
	case "", dataset.DriverCSV, dataset.DriverXLSX:
		if d.Path == "" {
			errs = append(errs, "dataset.path is required")
		}
	case dataset.DriverSQLite:
		if d.Path == "" {
			errs = append(errs, "dataset.path is required")
		}
		if d.Table == "" {
			errs = append(errs, "dataset.table is required for sqlite")
		}
	case dataset.DriverPostgres:
		if d.DatabaseURL == "" {
			errs = append(errs, "dataset.database_url is required for postgres")
		}
		if d.Table == "" {
			errs = append(errs, "dataset.table is required for postgres")
		}
		if d.ConnectAttempts < 0 {
			errs = append(errs, "dataset.connect_attempts must be >= 0")
		}
	default:
		errs = append(errs, fmt.Sprintf("dataset.driver %q is not one of csv, xlsx, sqlite, postgres", d.Driver))
	}
	return errs
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
