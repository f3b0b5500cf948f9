// Package config handles configuration loading and validation for the
// outreach workflow tool. It supports YAML configuration files with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the outreach workflow tool
type Config struct {
	Collect   CollectConfig   `yaml:"collect"`
	Probe     ProbeConfig     `yaml:"probe"`
	Pacing    PacingConfig    `yaml:"pacing"`
	Browser   BrowserConfig   `yaml:"browser"`
	Generator GeneratorConfig `yaml:"generator"`
	LeadStore LeadStoreConfig `yaml:"lead_store"`
	Notify    NotifyConfig    `yaml:"notify"`
	Storage   StorageConfig   `yaml:"storage"`

	// Loaded from environment only
	LogLevel string `yaml:"-"`
}

// CollectConfig holds collection parameters
type CollectConfig struct {
	Keywords       []string `yaml:"keywords"`
	StartURL       string   `yaml:"start_url"`
	MaxPages       int      `yaml:"max_pages"`
	ScanIntervalMs int      `yaml:"scan_interval_ms"`
	PageRetries    int      `yaml:"page_retries"`
}

// ProbeConfig holds the retry policy for DOM probing. These are explicit
// parameters rather than embedded constants so timing behavior is testable.
type ProbeConfig struct {
	Attempts      int     `yaml:"attempts"`
	IntervalMs    int     `yaml:"interval_ms"`
	JitterPercent float64 `yaml:"jitter_percent"`
}

// PacingConfig holds the human-pacing delays. The values are anti-detection
// heuristics tuned empirically; they are configuration, not code.
type PacingConfig struct {
	TypingTotalMs        int `yaml:"typing_total_ms"`         // total time to type one message, split across words
	SettleDelayMs        int `yaml:"settle_delay_ms"`         // pause after fill before send
	InterProfileMinSec   int `yaml:"inter_profile_min_sec"`   // delay between profiles
	InterProfileMaxSec   int `yaml:"inter_profile_max_sec"`
	PageLoadTimeoutSec   int `yaml:"page_load_timeout_sec"`
	SendVerifyTimeoutSec int `yaml:"send_verify_timeout_sec"`
	CompletionDelaySec   int `yaml:"completion_delay_sec"` // pause before returning to the collection page
}

// BrowserConfig holds browser settings
type BrowserConfig struct {
	Headless       bool   `yaml:"headless"`
	UserDataDir    string `yaml:"user_data_dir"`
	ViewportWidth  int    `yaml:"viewport_width"`
	ViewportHeight int    `yaml:"viewport_height"`
}

// GeneratorConfig holds the message-generation collaborator settings
type GeneratorConfig struct {
	Endpoint   string `yaml:"endpoint"`
	TimeoutSec int    `yaml:"timeout_sec"`
	AuthToken  string `yaml:"-"` // env only
}

// LeadStoreConfig holds the message/profile-store collaborator settings
type LeadStoreConfig struct {
	Endpoint   string `yaml:"endpoint"`
	TimeoutSec int    `yaml:"timeout_sec"`
	AuthToken  string `yaml:"-"` // env only
}

// NotifyConfig holds the fire-and-forget notification channel settings
type NotifyConfig struct {
	Endpoint string `yaml:"endpoint"`
}

// StorageConfig holds persistence paths
type StorageConfig struct {
	StatePath   string `yaml:"state_path"`
	ArchivePath string `yaml:"archive_path"`
	CookiesPath string `yaml:"cookies_path"`
}

// Load reads configuration from YAML file and environment variables
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		Collect: CollectConfig{
			StartURL:       "https://www.linkedin.com/search/results/people/",
			MaxPages:       5,
			ScanIntervalMs: 800,
			PageRetries:    3,
		},
		Probe: ProbeConfig{
			Attempts:      10,
			IntervalMs:    300,
			JitterPercent: 0.2,
		},
		Pacing: PacingConfig{
			TypingTotalMs:        6000,
			SettleDelayMs:        1500,
			InterProfileMinSec:   8,
			InterProfileMaxSec:   25,
			PageLoadTimeoutSec:   20,
			SendVerifyTimeoutSec: 8,
			CompletionDelaySec:   3,
		},
		Browser: BrowserConfig{
			Headless:       false,
			UserDataDir:    "./data/browser",
			ViewportWidth:  1920,
			ViewportHeight: 1080,
		},
		Generator: GeneratorConfig{
			TimeoutSec: 15,
		},
		LeadStore: LeadStoreConfig{
			TimeoutSec: 10,
		},
		Storage: StorageConfig{
			StatePath:   "./data/workflow_state.json",
			ArchivePath: "./data/outreach.db",
			CookiesPath: "./data/cookies.json",
		},
		LogLevel: "info",
	}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			// File doesn't exist, use defaults
		} else {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	cfg.loadEnvOverrides()

	return cfg, nil
}

// loadEnvOverrides applies environment variable overrides to config
func (c *Config) loadEnvOverrides() {
	c.Generator.AuthToken = os.Getenv("GENERATOR_AUTH_TOKEN")
	c.LeadStore.AuthToken = os.Getenv("LEADSTORE_AUTH_TOKEN")

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = strings.ToLower(v)
	}

	if v := os.Getenv("HEADLESS"); v != "" {
		c.Browser.Headless = strings.ToLower(v) == "true"
	}

	if v := os.Getenv("GENERATOR_ENDPOINT"); v != "" {
		c.Generator.Endpoint = v
	}

	if v := os.Getenv("LEADSTORE_ENDPOINT"); v != "" {
		c.LeadStore.Endpoint = v
	}

	if v := os.Getenv("NOTIFY_ENDPOINT"); v != "" {
		c.Notify.Endpoint = v
	}

	if v := os.Getenv("STATE_PATH"); v != "" {
		c.Storage.StatePath = v
	}

	if v := os.Getenv("ARCHIVE_PATH"); v != "" {
		c.Storage.ArchivePath = v
	}

	if v := os.Getenv("MAX_PAGES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Collect.MaxPages = n
		}
	}
}
