package config

import "os"

// parseEnv overlays cfg with environment variables. The deployment surface
// is deliberately small: the API root and the session record location.
func parseEnv(cfg *Config) {
	if v := os.Getenv("TRACKLIGHT_API_URL"); v != "" {
		cfg.BaseAPIURL = v
	}
	if v := os.Getenv("TRACKLIGHT_SESSION_FILE"); v != "" {
		cfg.SessionFile = v
	}
}
