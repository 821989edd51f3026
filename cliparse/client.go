// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ClientConfig configures surveyctl. Read from a YAML file, then
// overridden by SURVEY_* environment variables, then by CLI flags.
type ClientConfig struct {
	BaseURL   string `yaml:"base_url"`
	StorePath string `yaml:"store"`
	UserID    int64  `yaml:"user_id"`
	Token     string `yaml:"token,omitempty"`
}

// DefaultClientConfigPath returns ~/.config/dairy-survey/surveyctl.yaml
func DefaultClientConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "surveyctl.yaml"
	}
	return filepath.Join(dir, "dairy-survey", "surveyctl.yaml")
}

// LoadClientConfig reads path if it exists and applies env overrides.
// A missing file yields defaults.
func LoadClientConfig(path string) (ClientConfig, error) {
	cfg := ClientConfig{
		BaseURL:   "http://localhost:8081",
		StorePath: "surveyctl.db",
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return ClientConfig{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return ClientConfig{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if v := os.Getenv("SURVEY_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("SURVEY_STORE"); v != "" {
		cfg.StorePath = v
	}
	if v := os.Getenv("SURVEY_USER_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return ClientConfig{}, errors.New("invalid SURVEY_USER_ID env variable")
		}
		cfg.UserID = id
	}
	if v := os.Getenv("SURVEY_TOKEN"); v != "" {
		cfg.Token = v
	}

	if cfg.BaseURL == "" {
		return ClientConfig{}, errors.New("base URL required (base_url or SURVEY_BASE_URL)")
	}
	return cfg, nil
}

// SaveClientConfig writes cfg to path, creating parent directories.
func SaveClientConfig(path string, cfg ClientConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode client config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}
