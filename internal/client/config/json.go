package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/avolkov/tracklight/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations
// are given in milliseconds so the file stays plain JSON numbers; values
// are copied into the runtime Config afterwards.
type JsonConfig struct {
	BaseAPIURL    string `json:"base_api_url"`
	SessionFile   string `json:"session_file"`
	CacheDB       string `json:"cache_db"`
	SettleDelayMs int    `json:"settle_delay_ms"`
}

// parseJson overlays cfg with values from the JSON file named by -c/-config.
// When no file is given the function returns without touching cfg. Read or
// unmarshal errors panic, matching the other loaders: a config file that
// exists but cannot be used is a startup defect, not a runtime condition.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.BaseAPIURL != "" {
		cfg.BaseAPIURL = jc.BaseAPIURL
	}
	if jc.SessionFile != "" {
		cfg.SessionFile = jc.SessionFile
	}
	if jc.CacheDB != "" {
		cfg.CacheDB = jc.CacheDB
	}
	if jc.SettleDelayMs > 0 {
		cfg.SettleDelay = time.Duration(jc.SettleDelayMs) * time.Millisecond
	}
}
