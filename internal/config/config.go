package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// VocabularyConfig points at the frequency-ranked word list.
type VocabularyConfig struct {
	Path string `yaml:"path"`
	Size int    `yaml:"size"`
}

// EncoderConfig configures the text encoder.
type EncoderConfig struct {
	MaxLength int `yaml:"max_length"`
}

// LinearModelConfig locates a linear weights artifact.
type LinearModelConfig struct {
	Path string `yaml:"path"`
}

// ServingModelConfig holds connection details for a TensorFlow Serving endpoint.
type ServingModelConfig struct {
	URL         string `yaml:"url"`
	Model       string `yaml:"model"`
	Signature   string `yaml:"signature,omitempty"`
	APIKeyEnv   string `yaml:"api_key_env,omitempty"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	MaxRetries  *int   `yaml:"max_retries,omitempty"`
}

// DefaultMaxRetries applies when max_retries is left out. An explicit 0 disables retries.
const DefaultMaxRetries = 3

// Retries resolves MaxRetries, falling back to DefaultMaxRetries when unset.
func (s *ServingModelConfig) Retries() int {
	if s == nil || s.MaxRetries == nil {
		return DefaultMaxRetries
	}
	return *s.MaxRetries
}

// ModelConfig selects and configures the classifier implementation.
type ModelConfig struct {
	Type    string              `yaml:"type"`
	Linear  *LinearModelConfig  `yaml:"linear,omitempty"`
	Serving *ServingModelConfig `yaml:"serving,omitempty"`
}

// CacheConfig bounds the prediction cache. Zero disables it.
type CacheConfig struct {
	Capacity int `yaml:"capacity"`
}

// LogConfig directs log output while the TUI owns the terminal.
type LogConfig struct {
	File string `yaml:"file"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Vocabulary VocabularyConfig `yaml:"vocabulary"`
	Encoder    EncoderConfig    `yaml:"encoder"`
	Model      ModelConfig      `yaml:"model"`
	Cache      CacheConfig      `yaml:"cache"`
	Log        LogConfig        `yaml:"log"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/review-sentiment/config.yaml.
// If neither exists, it writes defaults to the user path and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "review-sentiment", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Vocabulary: VocabularyConfig{Path: "imdb_word_index.json", Size: 10000},
		Encoder:    EncoderConfig{MaxLength: 500},
		Model: ModelConfig{
			Type:   "linear",
			Linear: &LinearModelConfig{Path: "imdb_model.yaml"},
		},
		Cache: CacheConfig{Capacity: 256},
	}
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Vocabulary.Size == 0 {
		cfg.Vocabulary.Size = 10000
	}
	if cfg.Encoder.MaxLength == 0 {
		cfg.Encoder.MaxLength = 500
	}
	if cfg.Model.Type == "" {
		cfg.Model.Type = "linear"
	}
	if cfg.Model.Type == "linear" && cfg.Model.Linear == nil {
		cfg.Model.Linear = &LinearModelConfig{Path: "imdb_model.yaml"}
	}
	if cfg.Model.Type == "serving" {
		if cfg.Model.Serving == nil {
			cfg.Model.Serving = &ServingModelConfig{}
		}
		if cfg.Model.Serving.URL == "" {
			cfg.Model.Serving.URL = "http://localhost:8501"
		}
		if cfg.Model.Serving.Model == "" {
			cfg.Model.Serving.Model = "imdb"
		}
		if cfg.Model.Serving.TimeoutSecs == 0 {
			cfg.Model.Serving.TimeoutSecs = 30
		}
		if cfg.Model.Serving.MaxRetries == nil {
			n := DefaultMaxRetries
			cfg.Model.Serving.MaxRetries = &n
		}
	}
}
