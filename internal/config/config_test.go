package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"DEPENGINE_UNITS_DIR", "DEPENGINE_MODE", "DEPENGINE_LOG_LEVEL", "DEPENGINE_INTERVAL", "DEPENGINE_QUERY"} {
		// t.Setenv registers the restore; Unsetenv then removes the key so
		// godotenv.Load, which never overrides a variable that is already
		// set (even to ""), can fill it from a .env file.
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

// runInEmptyDir chdirs into a fresh temp directory for the duration of the
// test, so Load's godotenv.Load() never picks up a stray .env file from the
// repo root or the test binary's working directory.
func runInEmptyDir(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	runInEmptyDir(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "./units", cfg.Units)
	require.Equal(t, "once", cfg.Mode)
	require.Equal(t, 30*time.Second, cfg.Interval)
	require.Equal(t, "info", cfg.LogLevel)
	require.Empty(t, cfg.Query)
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	runInEmptyDir(t)

	t.Setenv("DEPENGINE_UNITS_DIR", "/srv/units")
	t.Setenv("DEPENGINE_MODE", "watch")
	t.Setenv("DEPENGINE_INTERVAL", "5s")
	t.Setenv("DEPENGINE_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "/srv/units", cfg.Units)
	require.Equal(t, "watch", cfg.Mode)
	require.Equal(t, 5*time.Second, cfg.Interval)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadFromDotEnvFile(t *testing.T) {
	clearEnv(t)
	runInEmptyDir(t)

	require.NoError(t, os.WriteFile(".env", []byte("DEPENGINE_UNITS_DIR=/from/dotenv\nDEPENGINE_MODE=watch\n"), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "/from/dotenv", cfg.Units)
	require.Equal(t, "watch", cfg.Mode)
}

func TestValidateRejectsBadMode(t *testing.T) {
	cfg := &Config{Units: "./units", Mode: "sometimes", Interval: time.Second}
	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid run mode")
}

func TestValidateRejectsEmptyUnitsDir(t *testing.T) {
	cfg := &Config{Units: "", Mode: "once"}
	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "units directory")
}

func TestValidateRejectsNonPositiveWatchInterval(t *testing.T) {
	cfg := &Config{Units: "./units", Mode: "watch", Interval: 0}
	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "interval")
}
