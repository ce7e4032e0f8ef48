package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds settings shared by the server and terminal binaries
type Config struct {
	Addr      string `json:"addr"`
	StaticDir string `json:"static_dir"`
	// AI seats wait a random delay in [AIDelayMinMs, AIDelayMaxMs] before playing
	AIDelayMinMs int `json:"ai_delay_min_ms"`
	AIDelayMaxMs int `json:"ai_delay_max_ms"`
	// Seed fixes the shuffle; 0 means a random seed per process
	Seed     int64  `json:"seed"`
	LogLevel string `json:"log_level"`
	DevLog   bool   `json:"dev_log"`
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		Addr:         ":8080",
		StaticDir:    "static",
		AIDelayMinMs: 700,
		AIDelayMaxMs: 2200,
		LogLevel:     "info",
	}
}

// Load reads a JSON config file over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overrides fields from SUECA_* environment variables
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("SUECA_STATIC_DIR"); v != "" {
		c.StaticDir = v
	}
	if v := os.Getenv("SUECA_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("SUECA_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid SUECA_SEED %q: %w", v, err)
		}
		c.Seed = seed
	}
	return c.Validate()
}

// Validate checks that the AI delay range makes sense
func (c Config) Validate() error {
	if c.AIDelayMinMs < 0 || c.AIDelayMaxMs < 0 {
		return fmt.Errorf("ai delay must not be negative (min %d, max %d)", c.AIDelayMinMs, c.AIDelayMaxMs)
	}
	if c.AIDelayMinMs > c.AIDelayMaxMs {
		return fmt.Errorf("ai delay min %dms exceeds max %dms", c.AIDelayMinMs, c.AIDelayMaxMs)
	}
	return nil
}

// AIDelayMin returns the shortest AI pause
func (c Config) AIDelayMin() time.Duration {
	return time.Duration(c.AIDelayMinMs) * time.Millisecond
}

// AIDelayMax returns the longest AI pause
func (c Config) AIDelayMax() time.Duration {
	return time.Duration(c.AIDelayMaxMs) * time.Millisecond
}
