package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Len(t, cfg.Instruments, 3)
	assert.Equal(t, 800, cfg.Chart.Width)
	assert.Equal(t, "0 */5 * * * *", cfg.Schedule.RefreshCron)
	assert.Equal(t, 15*time.Second, cfg.DataSource.Timeout)
	assert.Equal(t, "LME-TIN", cfg.Chart.ForecastInstrument)
	assert.True(t, cfg.UseMock())
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
instruments:
  - {code: TIN, label: TIN, color: "#FFA500"}
chart:
  height: 400
data_source:
  base_url: http://file.example
  timeout: 3s
`)
	t.Setenv("METAL_API_BASE_URL", "http://env.example")
	t.Setenv("CHART_SEED", "99")
	t.Setenv("CRON_REFRESH", "@every 1m")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "http://env.example", cfg.DataSource.BaseURL)
	assert.Equal(t, uint64(99), cfg.Chart.Seed)
	assert.Equal(t, 400, cfg.Chart.Height)
	assert.Equal(t, 3*time.Second, cfg.DataSource.Timeout)
	assert.Equal(t, "TIN", cfg.Chart.ForecastInstrument)
	assert.False(t, cfg.UseMock())

	cc := cfg.ChartConfig()
	assert.Equal(t, 400, cc.Height)
	assert.Equal(t, uint64(99), cc.Seed)
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "instruments: [oops"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"duplicate code", func(c *Config) { c.Instruments[1].Code = c.Instruments[0].Code }, "duplicated"},
		{"reserved code", func(c *Config) { c.Instruments[0].Code = "all" }, "reserved"},
		{"bad color", func(c *Config) { c.Instruments[0].Color = "blue" }, "color"},
		{"unknown forecast instrument", func(c *Config) { c.Chart.ForecastInstrument = "GOLD" }, "forecast_instrument"},
		{"margins too wide", func(c *Config) { c.Chart.Margins.Left = 900 }, "margins"},
		{"bad cron", func(c *Config) { c.Schedule.RefreshCron = "every now and then" }, "refresh_cron"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
			require.NoError(t, err)
			cfg.Instruments = append(cfg.Instruments[:0:0], cfg.Instruments...)
			tt.mutate(cfg)
			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
