package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp moves into an empty directory so no stray config.yaml is picked up.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", dir)
	return dir
}

func TestInitializeConfig_Defaults(t *testing.T) {
	chdirTemp(t)

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, "consume", config.General.InputDir)
	assert.Equal(t, "exports", config.General.ExportDir)
	assert.Equal(t, "trans_db.sql", config.General.DatabaseFile)
	assert.Equal(t, 2, config.General.LookbackYears)
	assert.Equal(t, "", config.General.CategoriesFile)
	assert.Equal(t, "Local", config.General.Timezone)
	assert.Equal(t, "https://app.revolut.com", config.API.BaseURL)
	assert.Equal(t, 500, config.API.PageSize)
	assert.Equal(t, 30, config.API.TimeoutSeconds)
	assert.Equal(t, 2.0, config.API.RequestsPerSecond)
	assert.Equal(t, "xlsx", config.Export.Format)
	assert.Equal(t, ',', config.Delimiter())
	assert.Equal(t, 30*time.Second, config.Timeout())
	assert.Empty(t, config.Categories)
	assert.Equal(t, time.Local, config.Location())
}

func TestInitializeConfig_EnvironmentVariables(t *testing.T) {
	chdirTemp(t)

	testEnvVars := map[string]string{
		"REVOLVER_LOG_LEVEL":               "debug",
		"REVOLVER_LOG_FORMAT":              "json",
		"REVOLVER_GENERAL_LOOKBACK_YEARS":  "3",
		"REVOLVER_GENERAL_TIMEZONE":        "Europe/Zurich",
		"REVOLVER_API_PAGE_SIZE":           "100",
		"REVOLVER_EXPORT_FORMAT":           "csv",
		"REVOLVER_EXPORT_CSV_DELIMITER":    ";",
		"REVOLVER_GENERAL_DATABASE_FILE":   "other.db",
		"REVOLVER_API_REQUESTS_PER_SECOND": "0.5",
	}
	for key, value := range testEnvVars {
		t.Setenv(key, value)
	}

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, 3, config.General.LookbackYears)
	assert.Equal(t, 100, config.API.PageSize)
	assert.Equal(t, "csv", config.Export.Format)
	assert.Equal(t, ';', config.Delimiter())
	assert.Equal(t, "other.db", config.General.DatabaseFile)
	assert.Equal(t, 0.5, config.API.RequestsPerSecond)
	assert.Equal(t, "Europe/Zurich", config.Location().String())
}

func TestInitializeConfig_ConfigFile(t *testing.T) {
	dir := chdirTemp(t)

	content := `
log:
  level: warn
general:
  input_dir: inbox
  categories_file: categories.yaml
categories:
  6F1D2C3B-4A5E-4F60-8A7B-9C0D1E2F3A4B: Hobbies
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0600))

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "warn", config.Log.Level)
	assert.Equal(t, "inbox", config.General.InputDir)
	assert.Equal(t, "categories.yaml", config.General.CategoriesFile)
	assert.Equal(t, "exports", config.General.ExportDir)
	assert.Equal(t, map[string]string{"6f1d2c3b-4a5e-4f60-8a7b-9c0d1e2f3a4b": "Hobbies"}, config.Categories)
}

func TestLoadConfigFile(t *testing.T) {
	chdirTemp(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("export:\n  format: csv\n"), 0600))

	config, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "csv", config.Export.Format)

	_, err = LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestInitializeConfig_InvalidFile(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log: [unclosed"), 0600))

	_, err := InitializeConfig()
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		c := &Config{}
		c.Log.Level = "info"
		c.Log.Format = "text"
		c.General.LookbackYears = 2
		c.General.Timezone = "UTC"
		c.API.PageSize = 500
		c.API.TimeoutSeconds = 30
		c.Export.Format = "xlsx"
		c.Export.CSVDelimiter = ","
		return c
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "zero lookback", mutate: func(c *Config) { c.General.LookbackYears = 0 }},
		{name: "bad level", mutate: func(c *Config) { c.Log.Level = "loud" }, wantErr: "invalid log level"},
		{name: "bad format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: "invalid log format"},
		{name: "negative lookback", mutate: func(c *Config) { c.General.LookbackYears = -1 }, wantErr: "lookback_years"},
		{name: "lookback too large", mutate: func(c *Config) { c.General.LookbackYears = 21 }, wantErr: "lookback_years"},
		{name: "page size zero", mutate: func(c *Config) { c.API.PageSize = 0 }, wantErr: "page_size"},
		{name: "page size too large", mutate: func(c *Config) { c.API.PageSize = 501 }, wantErr: "page_size"},
		{name: "timeout zero", mutate: func(c *Config) { c.API.TimeoutSeconds = 0 }, wantErr: "timeout_seconds"},
		{name: "export format", mutate: func(c *Config) { c.Export.Format = "ods" }, wantErr: "invalid export format"},
		{name: "delimiter", mutate: func(c *Config) { c.Export.CSVDelimiter = ";;" }, wantErr: "single character"},
		{name: "timezone", mutate: func(c *Config) { c.General.Timezone = "Mars/Olympus" }, wantErr: "invalid timezone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := validateConfig(c)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				assert.Equal(t, time.UTC, c.Location())
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	c := &Config{}
	c.Log.Level = "debug"
	c.Log.Format = "json"

	logger := ConfigureLoggingFromConfig(c)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)

	c.Log.Level = "nope"
	c.Log.Format = "text"
	logger = ConfigureLoggingFromConfig(c)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
}

func TestGetEnv(t *testing.T) {
	t.Setenv("REVOLVER_TEST_VALUE", "set")
	assert.Equal(t, "set", GetEnv("REVOLVER_TEST_VALUE", "fallback"))
	assert.Equal(t, "fallback", GetEnv("REVOLVER_TEST_UNSET_VALUE", "fallback"))
}
