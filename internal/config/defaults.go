package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultLogLevel     = "info"
	DefaultDatasetID    = "endgamelama/intraday-dataset"
	DefaultDatasetDir   = "upload"
	DefaultDatasetFile  = "nifty_1min_data.csv"
	DefaultLockTimeout  = 30 * time.Second
	DefaultProvider     = "polygon" // does not serve DefaultExchange, see MarketConfig
	DefaultSymbol       = "NIFTY"
	DefaultExchange     = "NSE"
	DefaultInterval     = "1m"
	DefaultLookbackDays = 20
	DefaultBarsPerDay   = 375
	DefaultTimezone     = "Asia/Kolkata"
	DefaultHostBaseURL  = "https://www.kaggle.com/api/v1"
	DefaultHostTimeout  = 5 * time.Minute
	DefaultUploadNotes  = "Automated update with latest 1-minute bars"
)

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}

	// Dataset defaults
	if c.Dataset.ID == "" {
		c.Dataset.ID = DefaultDatasetID
	}
	if c.Dataset.Dir == "" {
		c.Dataset.Dir = DefaultDatasetDir
	}
	if c.Dataset.File == "" {
		c.Dataset.File = DefaultDatasetFile
	}
	if c.Dataset.LockTimeout == 0 {
		c.Dataset.LockTimeout = DefaultLockTimeout
	}

	// Market defaults
	if c.Market.Provider == "" {
		c.Market.Provider = DefaultProvider
	}
	if c.Market.Symbol == "" {
		c.Market.Symbol = DefaultSymbol
	}
	if c.Market.Exchange == "" {
		c.Market.Exchange = DefaultExchange
	}
	if c.Market.Interval == "" {
		c.Market.Interval = DefaultInterval
	}
	if c.Market.LookbackDays == 0 {
		c.Market.LookbackDays = DefaultLookbackDays
	}
	if c.Market.BarsPerDay == 0 {
		c.Market.BarsPerDay = DefaultBarsPerDay
	}
	if c.Market.Timezone == "" {
		c.Market.Timezone = DefaultTimezone
	}

	// Host defaults
	if c.Host.BaseURL == "" {
		c.Host.BaseURL = DefaultHostBaseURL
	}
	if c.Host.Timeout == 0 {
		c.Host.Timeout = DefaultHostTimeout
	}

	if c.Upload.Notes == "" {
		c.Upload.Notes = DefaultUploadNotes
	}
}

// applyEnv overrides secrets from the environment.
func (c *Config) applyEnv(getenv func(string) string) {
	if key := getenv("POLYGON_API_KEY"); key != "" {
		c.Market.PolygonAPIKey = key
	}
}
