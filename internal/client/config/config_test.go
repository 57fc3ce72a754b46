package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func resetArgs(t *testing.T, args ...string) {
	t.Helper()
	orig := os.Args
	os.Args = append([]string{"tracklight"}, args...)
	t.Cleanup(func() { os.Args = orig })
}

func TestLoadConfig_Defaults(t *testing.T) {
	resetArgs(t)

	cfg := LoadConfig()

	require.Equal(t, "http://localhost:8000", cfg.BaseAPIURL)
	require.Equal(t, "session.json", cfg.SessionFile)
	require.Equal(t, "tracklight.db", cfg.CacheDB)
	require.Equal(t, time.Duration(0), cfg.SettleDelay)
	require.Equal(t, time.Second, cfg.TickInterval)
}

func TestLoadConfig_EnvOverridesDefaults(t *testing.T) {
	resetArgs(t)
	t.Setenv("TRACKLIGHT_API_URL", "https://api.example.com")
	t.Setenv("TRACKLIGHT_SESSION_FILE", "/tmp/s.json")

	cfg := LoadConfig()

	require.Equal(t, "https://api.example.com", cfg.BaseAPIURL)
	require.Equal(t, "/tmp/s.json", cfg.SessionFile)
}

func TestLoadConfig_FlagsOverrideEnv(t *testing.T) {
	resetArgs(t, "-a", "http://flagged:9000", "-s", "flag.json", "-d", "flag.db")
	t.Setenv("TRACKLIGHT_API_URL", "https://env.example.com")

	cfg := LoadConfig()

	require.Equal(t, "http://flagged:9000", cfg.BaseAPIURL)
	require.Equal(t, "flag.json", cfg.SessionFile)
	require.Equal(t, "flag.db", cfg.CacheDB)
}

func TestLoadConfig_JsonFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "conf.json")
	body := `{"base_api_url":"http://json:8001","session_file":"json.json","settle_delay_ms":150}`
	require.NoError(t, os.WriteFile(file, []byte(body), 0o600))

	resetArgs(t, "-c", file)

	cfg := LoadConfig()

	require.Equal(t, "http://json:8001", cfg.BaseAPIURL)
	require.Equal(t, "json.json", cfg.SessionFile)
	require.Equal(t, 150*time.Millisecond, cfg.SettleDelay)
	require.Equal(t, "tracklight.db", cfg.CacheDB, "fields absent from JSON keep defaults")
}

func TestLoadConfig_FlagsOverrideJson(t *testing.T) {
	file := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"base_api_url":"http://json:8001"}`), 0o600))

	resetArgs(t, "-c", file, "-a", "http://flagged:9000")

	cfg := LoadConfig()
	require.Equal(t, "http://flagged:9000", cfg.BaseAPIURL)
}

func TestParseJson_MalformedFilePanics(t *testing.T) {
	file := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(file, []byte("{oops"), 0o600))

	resetArgs(t, "-c", file)

	require.Panics(t, func() { LoadConfig() })
}
