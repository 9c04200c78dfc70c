// ============================================================================
// EchoVerse - Tone-Aware Audiobook Generator
// ============================================================================
//
// Package:     config
// Description: Layered configuration: defaults, TOML file, .env, environment
// Author:      Mike Stoffels with Claude
// Created:     2026-08-15
// License:     MIT
// ============================================================================

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	MinTemperature = 0.0
	MaxTemperature = 1.5
	MinMaxTokens   = 64
	MaxMaxTokens   = 2048
)

// Config holds the complete application configuration
type Config struct {
	Model       string  `toml:"model" env:"OLLAMA_MODEL"`
	OllamaURL   string  `toml:"ollama_url" env:"OLLAMA_URL"`
	Lang        string  `toml:"lang" env:"ECHOVERSE_LANG"`
	Voice       string  `toml:"voice" env:"ECHOVERSE_VOICE"`
	Temperature float64 `toml:"temperature" env:"ECHOVERSE_TEMPERATURE"`
	MaxTokens   int     `toml:"max_tokens" env:"ECHOVERSE_MAX_TOKENS"`
	PiperBinary string  `toml:"piper_binary" env:"ECHOVERSE_PIPER_BINARY"`
	PiperModel  string  `toml:"piper_model" env:"ECHOVERSE_PIPER_MODEL"`
	OutputsDir  string  `toml:"outputs_dir" env:"ECHOVERSE_OUTPUTS_DIR"`
	OutPrefix   string  `toml:"out_prefix" env:"ECHOVERSE_OUT_PREFIX"`
	LogLevel    string  `toml:"log_level" env:"ECHOVERSE_LOG_LEVEL"`

	Web WebConfig `toml:"web"`
}

// WebConfig holds browser front-end settings
type WebConfig struct {
	Host string `toml:"host" env:"ECHOVERSE_WEB_HOST"`
	Port int    `toml:"port" env:"ECHOVERSE_WEB_PORT"`
}

// Addr returns the listen address
func (w WebConfig) Addr() string {
	return fmt.Sprintf("%s:%d", w.Host, w.Port)
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Model:       "gemma3:4b",
		OllamaURL:   "http://localhost:11434",
		Lang:        "en",
		Voice:       "Eric (US)",
		Temperature: 0.7,
		MaxTokens:   512,
		PiperBinary: "piper",
		OutputsDir:  "outputs",
		OutPrefix:   "speech",
		LogLevel:    "info",
		Web: WebConfig{
			Host: "127.0.0.1",
			Port: 8501,
		},
	}
}

// DefaultPath returns the user config file location
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "echoverse", "config.toml")
}

// VoicesPath returns the user voice presets file location
func VoicesPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "echoverse", "voices.yaml")
}

// Load builds the configuration in precedence order: defaults, then the
// TOML file, then a .env in the working directory, then environment
// variables. An empty path means the default location, where a missing
// file is fine; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		} else if explicit {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
	}

	// already-set variables win over .env entries
	_ = godotenv.Load()

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	cfg.Clamp()
	return cfg, nil
}

// Clamp bounds the sampling parameters to their valid ranges
func (c *Config) Clamp() {
	if c.Temperature < MinTemperature {
		c.Temperature = MinTemperature
	}
	if c.Temperature > MaxTemperature {
		c.Temperature = MaxTemperature
	}
	if c.MaxTokens < MinMaxTokens {
		c.MaxTokens = MinMaxTokens
	}
	if c.MaxTokens > MaxMaxTokens {
		c.MaxTokens = MaxMaxTokens
	}
}
