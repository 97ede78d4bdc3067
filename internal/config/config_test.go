package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Data:   DataConfig{BasePath: "/tmp/otr-data"},
		Auth:   AuthConfig{TokenDuration: 24 * time.Hour},
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})

	t.Run("missing environment", func(t *testing.T) {
		cfg := validConfig()
		cfg.App.Environment = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("unknown environment", func(t *testing.T) {
		cfg := validConfig()
		cfg.App.Environment = "qa"
		assert.Error(t, cfg.Validate())
	})

	t.Run("bad log level", func(t *testing.T) {
		cfg := validConfig()
		cfg.Logger.Level = "verbose"
		assert.Error(t, cfg.Validate())
	})

	t.Run("empty data path", func(t *testing.T) {
		cfg := validConfig()
		cfg.Data.BasePath = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("empty music path is allowed", func(t *testing.T) {
		cfg := validConfig()
		cfg.Library.MusicPath = ""
		assert.NoError(t, cfg.Validate())
	})

	t.Run("zero token duration", func(t *testing.T) {
		cfg := validConfig()
		cfg.Auth.TokenDuration = 0
		assert.Error(t, cfg.Validate())
	})
}

func TestIsProduction(t *testing.T) {
	cfg := validConfig()
	assert.False(t, cfg.IsProduction())

	cfg.App.Environment = "production"
	assert.True(t, cfg.IsProduction())
}

func TestDerivedPaths(t *testing.T) {
	cfg := validConfig()

	assert.Equal(t, filepath.Join("/tmp/otr-data", "otr.db"), cfg.DatabasePath())
	assert.Equal(t, filepath.Join("/tmp/otr-data", "cache", "streams"), cfg.StreamCachePath())
}

func TestExpandPath(t *testing.T) {
	t.Run("empty uses default", func(t *testing.T) {
		got, err := expandPath("", "/default")
		require.NoError(t, err)
		assert.Equal(t, "/default", got)
	})

	t.Run("tilde expands to home", func(t *testing.T) {
		home, err := os.UserHomeDir()
		require.NoError(t, err)

		got, err := expandPath("~/music", "")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, "music"), got)
	})

	t.Run("relative becomes absolute", func(t *testing.T) {
		got, err := expandPath("music", "")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(got))
	})
}

func TestSplitOrigins(t *testing.T) {
	assert.Nil(t, splitOrigins(""))
	assert.Equal(t,
		[]string{"https://off-the-record.42web.io", "http://localhost:3000"},
		splitOrigins("https://off-the-record.42web.io, http://localhost:3000,"))
}

func TestGetValue_Precedence(t *testing.T) {
	t.Setenv("OTR_TEST_KEY", "from-env")

	assert.Equal(t, "from-flag", getValue("from-flag", "OTR_TEST_KEY", "default"))
	assert.Equal(t, "from-env", getValue("", "OTR_TEST_KEY", "default"))
	assert.Equal(t, "default", getValue("", "OTR_TEST_MISSING", "default"))
}

func TestGetBoolValue(t *testing.T) {
	t.Setenv("OTR_TEST_BOOL", "yes")
	assert.True(t, getBoolValue("", "OTR_TEST_BOOL", false))

	t.Setenv("OTR_TEST_BOOL", "no")
	assert.False(t, getBoolValue("", "OTR_TEST_BOOL", true))

	assert.True(t, getBoolValue("", "OTR_TEST_BOOL_MISSING", true))
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment\nOTR_TEST_FILE_KEY=hello\nOTR_TEST_QUOTED=\"quoted\"\nnot-a-pair\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	// Register cleanup so values set by loadEnvFile are restored.
	t.Setenv("OTR_TEST_FILE_KEY", "")
	t.Setenv("OTR_TEST_QUOTED", "")

	require.NoError(t, loadEnvFile(path))

	assert.Equal(t, "hello", os.Getenv("OTR_TEST_FILE_KEY"))
	assert.Equal(t, "quoted", os.Getenv("OTR_TEST_QUOTED"))
}
