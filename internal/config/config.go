package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"TradeScout/internal/model"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		BaseURL        string  `yaml:"base_url"`
		FetchLimit     int     `yaml:"fetch_limit"`
		RateLimitDelay float64 `yaml:"rate_limit_delay"` // seconds between requests
	} `yaml:"data_source"`
	Discord struct {
		WebhookURL          string  `yaml:"webhook_url"`
		RoleID              string  `yaml:"role_id"`
		AlertThreshold      int     `yaml:"alert_threshold"`
		ConfidenceThreshold float64 `yaml:"confidence_threshold"`
	} `yaml:"discord"`
	Scoring struct {
		Weights      model.ScoringWeights `yaml:"weights"`
		StrategyMode string               `yaml:"strategy_mode"`
	} `yaml:"scoring"`
	Scan struct {
		Cron          string  `yaml:"cron"`
		ComboCount    int     `yaml:"combo_count"`
		MinGain       int     `yaml:"min_gain"`
		MinConfidence float64 `yaml:"min_confidence"`
	} `yaml:"scan"`
	Cache struct {
		Dir         string `yaml:"dir"`
		MaxAgeHours int    `yaml:"max_age_hours"`
	} `yaml:"cache"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	HTTP struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"http"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error; defaults apply.
func Load(path string) (*Config, error) {
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
	if v := os.Getenv("DATA_SOURCE_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("DISCORD_WEBHOOK_URL"); v != "" {
		cfg.Discord.WebhookURL = v
	}
	if v := os.Getenv("DISCORD_ROLE_ID"); v != "" {
		cfg.Discord.RoleID = v
	}
	if v := os.Getenv("STRATEGY_MODE"); v != "" {
		cfg.Scoring.StrategyMode = v
	}
	if v := os.Getenv("SCAN_CRON"); v != "" {
		cfg.Scan.Cron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("CACHE_DIR"); v != "" {
		cfg.Cache.Dir = v
	}
	if v := os.Getenv("HTTP_LISTEN_ADDR"); v != "" {
		cfg.HTTP.ListenAddr = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("ALERT_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Discord.AlertThreshold = n
		}
	}
	if v := os.Getenv("FETCH_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.DataSource.FetchLimit = n
		}
	}

	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.DataSource.BaseURL == "" {
		cfg.DataSource.BaseURL = "https://www.rolimons.com/api"
	}
	if cfg.DataSource.FetchLimit == 0 {
		cfg.DataSource.FetchLimit = 500
	}
	if cfg.DataSource.RateLimitDelay == 0 {
		cfg.DataSource.RateLimitDelay = 1.0
	}
	if cfg.Discord.AlertThreshold == 0 {
		cfg.Discord.AlertThreshold = 3500
	}
	if cfg.Discord.ConfidenceThreshold == 0 {
		cfg.Discord.ConfidenceThreshold = 0.9
	}
	zero := model.ScoringWeights{}
	if cfg.Scoring.Weights == zero {
		cfg.Scoring.Weights = model.DefaultWeights()
	}
	if cfg.Scoring.StrategyMode == "" {
		cfg.Scoring.StrategyMode = string(model.StrategySniper)
	}
	if cfg.Scan.Cron == "" {
		cfg.Scan.Cron = "0 0 * * * *" // hourly
	}
	if cfg.Scan.ComboCount == 0 {
		cfg.Scan.ComboCount = 10
	}
	if cfg.Scan.MinGain == 0 {
		cfg.Scan.MinGain = 1000
	}
	if cfg.Scan.MinConfidence == 0 {
		cfg.Scan.MinConfidence = 0.7
	}
	if cfg.Cache.Dir == "" {
		cfg.Cache.Dir = "cache"
	}
	if cfg.Cache.MaxAgeHours == 0 {
		cfg.Cache.MaxAgeHours = 24
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/tradescout.db"
	}
	if cfg.HTTP.ListenAddr == "" {
		cfg.HTTP.ListenAddr = ":8000"
	}
}

// Validate checks that all required fields are set and well formed.
// An invalid strategy mode is rejected here, before any scan runs.
func (c *Config) Validate() error {
	if c.DataSource.BaseURL == "" {
		return fmt.Errorf("data_source.base_url is required")
	}
	if c.DataSource.FetchLimit <= 0 {
		return fmt.Errorf("data_source.fetch_limit must be positive")
	}
	if _, err := model.ParseStrategyMode(c.Scoring.StrategyMode); err != nil {
		return fmt.Errorf("scoring.strategy_mode: %w", err)
	}
	w := c.Scoring.Weights
	for name, v := range map[string]float64{
		"roi": w.ROI, "demand": w.Demand, "volume": w.Volume,
		"volatility": w.Volatility, "engagement": w.Engagement, "trait": w.Trait,
	} {
		if v < 0 {
			return fmt.Errorf("scoring.weights.%s must be non-negative", name)
		}
	}
	if c.Scan.MinConfidence < 0 || c.Scan.MinConfidence > 1 {
		return fmt.Errorf("scan.min_confidence must be in [0,1]")
	}
	if c.Cache.MaxAgeHours <= 0 {
		return fmt.Errorf("cache.max_age_hours must be positive")
	}
	return nil
}

// StrategyMode returns the validated strategy mode. Call Validate first.
func (c *Config) StrategyMode() model.StrategyMode {
	mode, err := model.ParseStrategyMode(c.Scoring.StrategyMode)
	if err != nil {
		return model.StrategySniper
	}
	return mode
}
