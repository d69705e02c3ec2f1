package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"attrdoc/internal/synthesizer"
)

type Config struct {
	// Tool is the analysis tool tags are written for: "", "phpstan" or "psalm".
	Tool       string   `yaml:"tool"`
	Root       string   `yaml:"root"`
	Extensions []string `yaml:"extensions"`
	Ignore     []string `yaml:"ignore"`
	Workers    int      `yaml:"workers"`
	DB         string   `yaml:"db"`
	Log        struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"log"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{
		Root:       ".",
		Extensions: []string{".php"},
		Ignore:     []string{".git", "vendor", "node_modules"},
		Workers:    runtime.GOMAXPROCS(0),
		DB:         "attrdoc.db",
	}
	cfg.Log.Level = "info"
	return cfg
}

// LoadConfig reads path over the defaults. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	// 2. Load YAML config
	cfg := Default()
	file, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	// 3. Override with Environment Variables if present
	if tool, ok := os.LookupEnv("ATTRDOC_TOOL"); ok {
		cfg.Tool = tool
	}
	if level := os.Getenv("ATTRDOC_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if db := os.Getenv("ATTRDOC_DB"); db != "" {
		cfg.DB = db
	}
	if workers := os.Getenv("ATTRDOC_WORKERS"); workers != "" {
		n, err := strconv.Atoi(workers)
		if err != nil {
			return nil, fmt.Errorf("invalid ATTRDOC_WORKERS %q: %w", workers, err)
		}
		cfg.Workers = n
	}

	return cfg, nil
}

// Validate checks the values LoadConfig cannot check while decoding.
func (c *Config) Validate() error {
	if _, err := synthesizer.ParseMode(c.Tool); err != nil {
		return err
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if len(c.Extensions) == 0 {
		return errors.New("no file extensions configured")
	}
	return nil
}

// Mode returns the configured tool as a synthesizer mode.
func (c *Config) Mode() (synthesizer.Mode, error) {
	return synthesizer.ParseMode(c.Tool)
}
