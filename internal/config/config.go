package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"time"
	_ "time/tzdata" // exchange zones must resolve on hosts without a zoneinfo database

	"gopkg.in/yaml.v3"

	"github.com/rxtech-lab/intraday-dataset/pkg/errors"
	"github.com/rxtech-lab/intraday-dataset/pkg/utils"
)

// Config is the updater configuration file.
type Config struct {
	LogLevel string         `yaml:"log_level" json:"log_level,omitempty" jsonschema:"title=Log Level,enum=debug,enum=info,enum=warn,enum=error" validate:"oneof=debug info warn error"`
	Dataset  DatasetConfig  `yaml:"dataset" json:"dataset" jsonschema:"title=Dataset"`
	Market   MarketConfig   `yaml:"market" json:"market" jsonschema:"title=Market Data"`
	Host     HostConfig     `yaml:"host" json:"host,omitempty" jsonschema:"title=Dataset Host"`
	Upload   UploadConfig   `yaml:"upload" json:"upload,omitempty" jsonschema:"title=Upload"`
	Exports  []ExportConfig `yaml:"exports" json:"exports,omitempty" jsonschema:"title=Exports,description=Extra formats written after a successful update" validate:"dive"`
}

// DatasetConfig locates the dataset on the host and on disk.
type DatasetConfig struct {
	ID          string        `yaml:"id" json:"id" jsonschema:"title=Dataset ID,description=owner/slug on the dataset host" validate:"required"`
	Dir         string        `yaml:"dir" json:"dir,omitempty" jsonschema:"title=Directory,description=Local download directory" validate:"required"`
	File        string        `yaml:"file" json:"file,omitempty" jsonschema:"title=File,description=CSV file name inside the directory" validate:"required"`
	LockTimeout time.Duration `yaml:"lock_timeout" json:"lock_timeout,omitempty" jsonschema:"title=Lock Timeout,description=How long to wait for the dataset lock (e.g. 30s)" validate:"min=0"`
}

// MarketConfig selects the instrument and the provider bars are fetched from.
//
// The defaults name the NSE NIFTY index the published dataset tracks. Neither polygon nor
// binance serves NSE bars, so a run with the default market section fetches nothing and
// leaves the dataset unchanged. Point Symbol and Provider at an instrument the provider
// lists (for example AAPL on polygon or BTCUSDT on binance) together with a matching
// dataset file.
type MarketConfig struct {
	Provider      string `yaml:"provider" json:"provider,omitempty" jsonschema:"title=Provider,enum=polygon,enum=binance" validate:"oneof=polygon binance"`
	Symbol        string `yaml:"symbol" json:"symbol" jsonschema:"title=Symbol" validate:"required"`
	Exchange      string `yaml:"exchange" json:"exchange" jsonschema:"title=Exchange" validate:"required"`
	Interval      string `yaml:"interval" json:"interval,omitempty" jsonschema:"title=Interval,description=Bar interval (e.g. 1m)" validate:"required"`
	LookbackDays  int    `yaml:"lookback_days" json:"lookback_days,omitempty" jsonschema:"title=Lookback Days,minimum=1" validate:"min=1"`
	BarsPerDay    int    `yaml:"bars_per_day" json:"bars_per_day,omitempty" jsonschema:"title=Bars Per Day,description=Bars in one trading session,minimum=1" validate:"min=1"`
	Timezone      string `yaml:"timezone" json:"timezone,omitempty" jsonschema:"title=Timezone,description=IANA zone of the exchange session" validate:"required"`
	PolygonAPIKey string `yaml:"polygon_api_key" json:"polygon_api_key,omitempty" jsonschema:"title=Polygon API Key,description=Also read from POLYGON_API_KEY" validate:"required_if=Provider polygon"`
}

// HostConfig configures the dataset host client.
type HostConfig struct {
	BaseURL      string        `yaml:"base_url" json:"base_url,omitempty" jsonschema:"title=Base URL" validate:"required,url"`
	Timeout      time.Duration `yaml:"timeout" json:"timeout,omitempty" jsonschema:"title=Timeout,description=Per request timeout (e.g. 5m)" validate:"min=0"`
	SkipDownload bool          `yaml:"skip_download" json:"skip_download,omitempty" jsonschema:"title=Skip Download,description=Use the local dataset file as is"`
}

// UploadConfig controls publishing the updated dataset as a new version.
type UploadConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled,omitempty" jsonschema:"title=Enabled"`
	Notes   string `yaml:"notes" json:"notes,omitempty" jsonschema:"title=Version Notes"`
}

// ExportConfig is one extra output written from the merged dataset.
type ExportConfig struct {
	Format string `yaml:"format" json:"format" jsonschema:"title=Format,enum=duckdb,enum=parquet,enum=sqlite" validate:"oneof=duckdb parquet sqlite"`
	Path   string `yaml:"path" json:"path" jsonschema:"title=Path" validate:"required"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	var c Config
	c.applyDefaults()

	return c
}

// Load reads the YAML file at path, applies defaults and environment overrides and validates
// the result. An empty path yields the defaults.
func Load(path string) (Config, error) {
	var c Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config %s", path)
		}

		if err := decode(data, &c); err != nil {
			return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to parse config %s", path)
		}
	}

	c.applyDefaults()
	c.applyEnv(os.Getenv)

	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

func decode(data []byte, c *Config) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(c); err != nil && err != io.EOF {
		return err
	}

	return nil
}

// DatasetPath is the CSV file the updater maintains.
func (c Config) DatasetPath() string {
	return filepath.Join(c.Dataset.Dir, c.Dataset.File)
}

// BarCount is the number of bars fetched per run.
func (c Config) BarCount() int {
	return c.Market.LookbackDays * c.Market.BarsPerDay
}

// Location returns the exchange time zone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Market.Timezone)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "unknown timezone %q", c.Market.Timezone)
	}

	return loc, nil
}

// Schema returns the JSON schema of the configuration file.
func Schema() (string, error) {
	//nolint:exhaustruct // Empty struct is intentional for schema generation
	return utils.GetSchemaFromConfig(Config{})
}
