// Package config assembles runtime settings for the Tracklight CLI from
// defaults, an optional JSON file, environment variables, and command-line
// flags — later sources override earlier ones.
package config

import "time"

// Config holds runtime settings for the Tracklight CLI.
//
// Fields:
//   - BaseAPIURL: root URL of the backend REST API.
//   - SessionFile: path of the durable session record.
//   - CacheDB: path of the local sqlite cache of completed entries.
//   - SettleDelay: how long the session gate waits before first render.
//   - TickInterval: cadence of the elapsed-time counter.
type Config struct {
	BaseAPIURL   string
	SessionFile  string
	CacheDB      string
	SettleDelay  time.Duration
	TickInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseAPIURL = "http://localhost:8000"
	c.SessionFile = "session.json"
	c.CacheDB = "tracklight.db"
	c.SettleDelay = 0
	c.TickInterval = time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if a config file was given), the environment, and finally
// command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
