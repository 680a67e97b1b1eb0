package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"MetalCharts/internal/chart"
	"MetalCharts/internal/layout"
	"MetalCharts/internal/model"
	"MetalCharts/internal/render"
)

// DefaultPath is used when CONFIG_PATH is unset.
const DefaultPath = "configs/config.yaml"

// DefaultInstruments are the tracked metals in drawing and legend order.
var DefaultInstruments = []model.Instrument{
	{Code: "LME-TIN", Label: "LME TIN", Color: "#2196F3"},
	{Code: "TIN", Label: "TIN", Color: "#FFA500"},
	{Code: "TIN3M", Label: "TIN 3M", Color: "#FF4444"},
}

// Config holds all application configuration.
type Config struct {
	Instruments []model.Instrument `yaml:"instruments"`
	Chart       struct {
		Width              int            `yaml:"width"`
		Height             int            `yaml:"height"`
		ForecastHeight     int            `yaml:"forecast_height"`
		Margins            layout.Margins `yaml:"margins"`
		MinRangeWidth      float64        `yaml:"min_range_width"`
		HitRadius          float64        `yaml:"hit_radius"`
		Seed               uint64         `yaml:"seed"`
		ForecastInstrument string         `yaml:"forecast_instrument"`
	} `yaml:"chart"`
	DataSource struct {
		BaseURL        string        `yaml:"base_url"`
		APIKey         string        `yaml:"api_key"`
		PricesPath     string        `yaml:"prices_path"`
		ForecastPath   string        `yaml:"forecast_path"`
		HistoricalPath string        `yaml:"historical_path"`
		Timeout        time.Duration `yaml:"timeout"`
	} `yaml:"data_source"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Output struct {
		Dir string `yaml:"dir"`
	} `yaml:"output"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Log struct {
		File       string `yaml:"file"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Path returns CONFIG_PATH or DefaultPath.
func Path() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return DefaultPath
}

// Load reads a .env file if present, then the YAML file at path, then
// applies environment variable overrides and defaults. A missing file is
// not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[WARN] Load .env: %v", err)
	}

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("METAL_API_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("METAL_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CRON_REFRESH"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		cfg.Output.Dir = v
	}
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("CHART_SEED"); v != "" {
		if seed, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Chart.Seed = seed
		} else {
			log.Printf("[WARN] Ignoring CHART_SEED=%q: %v", v, err)
		}
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if len(c.Instruments) == 0 {
		c.Instruments = append([]model.Instrument(nil), DefaultInstruments...)
	}
	if c.Chart.Width == 0 {
		c.Chart.Width = chart.DefaultWidth
	}
	if c.Chart.Height == 0 {
		c.Chart.Height = chart.DefaultHeight
	}
	if c.Chart.ForecastHeight == 0 {
		c.Chart.ForecastHeight = chart.DefaultForecastHeight
	}
	if c.Chart.Margins == (layout.Margins{}) {
		c.Chart.Margins = layout.DefaultMargins
	}
	if c.Chart.MinRangeWidth == 0 {
		c.Chart.MinRangeWidth = layout.DefaultMinRangeWidth
	}
	if c.Chart.ForecastInstrument == "" {
		c.Chart.ForecastInstrument = c.Instruments[0].Code
	}
	if c.DataSource.PricesPath == "" {
		c.DataSource.PricesPath = "/api/metal-prices"
	}
	if c.DataSource.ForecastPath == "" {
		c.DataSource.ForecastPath = "/api/predictions"
	}
	if c.DataSource.HistoricalPath == "" {
		c.DataSource.HistoricalPath = "/api/historical-prices"
	}
	if c.DataSource.Timeout == 0 {
		c.DataSource.Timeout = 15 * time.Second
	}
	if c.Schedule.RefreshCron == "" {
		c.Schedule.RefreshCron = "0 */5 * * * *"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/metal_charts.db"
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "data/charts"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = "127.0.0.1:8088"
	}
	if c.Log.File == "" {
		c.Log.File = "logs/chartd.log"
	}
	if c.Log.MaxSizeMB == 0 {
		c.Log.MaxSizeMB = 25
	}
	if c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = 10
	}
	if c.Log.MaxAgeDays == 0 {
		c.Log.MaxAgeDays = 14
	}
}

// Validate checks that all required fields are set and consistent.
func (c *Config) Validate() error {
	if len(c.Instruments) == 0 {
		return fmt.Errorf("instruments: at least one is required")
	}
	seen := make(map[string]bool, len(c.Instruments))
	for i, inst := range c.Instruments {
		if inst.Code == "" {
			return fmt.Errorf("instruments[%d].code is required", i)
		}
		if inst.Code == model.FilterAll {
			return fmt.Errorf("instruments[%d].code %q is reserved", i, inst.Code)
		}
		if seen[inst.Code] {
			return fmt.Errorf("instruments[%d].code %q is duplicated", i, inst.Code)
		}
		seen[inst.Code] = true
		if _, err := render.ParseHexColor(inst.Color); err != nil {
			return fmt.Errorf("instruments[%d].color: %w", i, err)
		}
	}
	if !seen[c.Chart.ForecastInstrument] {
		return fmt.Errorf("chart.forecast_instrument %q is not a configured instrument", c.Chart.ForecastInstrument)
	}
	if c.Chart.Width <= 0 || c.Chart.Height <= 0 || c.Chart.ForecastHeight <= 0 {
		return fmt.Errorf("chart dimensions must be positive")
	}
	m := c.Chart.Margins
	if m.Left+m.Right >= float64(c.Chart.Width) || m.Top+m.Bottom >= float64(min(c.Chart.Height, c.Chart.ForecastHeight)) {
		return fmt.Errorf("chart.margins leave no room for the plot")
	}
	if c.Chart.MinRangeWidth <= 0 {
		return fmt.Errorf("chart.min_range_width must be positive")
	}
	if _, err := cron.NewParser(cronFields).Parse(c.Schedule.RefreshCron); err != nil {
		return fmt.Errorf("schedule.refresh_cron: %w", err)
	}
	return nil
}

// cronFields matches the scheduler's seconds-first cron format.
const cronFields = cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor

// ChartConfig returns the settings the chart views are built from.
func (c *Config) ChartConfig() chart.Config {
	return chart.Config{
		Instruments:        c.Instruments,
		Width:              c.Chart.Width,
		Height:             c.Chart.Height,
		ForecastHeight:     c.Chart.ForecastHeight,
		Margins:            c.Chart.Margins,
		MinRangeWidth:      c.Chart.MinRangeWidth,
		HitRadius:          c.Chart.HitRadius,
		Seed:               c.Chart.Seed,
		ForecastInstrument: c.Chart.ForecastInstrument,
	}
}

// UseMock reports whether no upstream is configured and payloads should be generated locally.
func (c *Config) UseMock() bool { return c.DataSource.BaseURL == "" }
