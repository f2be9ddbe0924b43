package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// APIKeyEnv is the only environment variable the service reads
const APIKeyEnv = "GEMINI_API_KEY"

const multipartHeadroomMB = 1

// Config represents the application configuration
type Config struct {
	Server struct {
		Port int    `yaml:"port"`
		Host string `yaml:"host"`
	} `yaml:"server"`

	Gemini struct {
		APIKey                string  `yaml:"-"`
		Model                 string  `yaml:"model"`
		Temperature           float32 `yaml:"temperature"`
		BaseURL               string  `yaml:"base_url"`
		RequestTimeoutSeconds int     `yaml:"request_timeout_seconds"`
	} `yaml:"gemini"`

	Workers struct {
		Count int `yaml:"count"`
	} `yaml:"workers"`

	Sessions struct {
		SweepIntervalMinutes int `yaml:"sweep_interval_minutes"`
		MaxIdleHours         int `yaml:"max_idle_hours"`
	} `yaml:"sessions"`

	Limits struct {
		MaxFileSizeMB int `yaml:"max_file_size_mb"`
	} `yaml:"limits"`

	Log struct {
		Development bool `yaml:"development"`
	} `yaml:"log"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 8080
	cfg.Gemini.Model = "gemini-2.5-flash"
	cfg.Gemini.Temperature = 0.2
	cfg.Gemini.RequestTimeoutSeconds = 300
	cfg.Workers.Count = 2
	cfg.Sessions.SweepIntervalMinutes = 10
	cfg.Sessions.MaxIdleHours = 2
	cfg.Limits.MaxFileSizeMB = 200
	return cfg
}

// Load reads the YAML file at path over the defaults and picks up the API
// key from the environment. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	cfg.Gemini.APIKey = strings.TrimSpace(os.Getenv(APIKeyEnv))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnv loads the first .env file found; it never overrides variables
// already set in the process environment.
func LoadEnv(paths ...string) (string, error) {
	if len(paths) == 0 {
		paths = []string{".env", ".env.local"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return "", fmt.Errorf("error loading %s file: %w", p, err)
		}
		return p, nil
	}
	return "", nil
}

// Validate checks ranges. The API key is deliberately not required here:
// its absence is reported when a transcription is triggered.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Gemini.Model == "" {
		return errors.New("gemini.model is required")
	}
	if c.Gemini.Temperature < 0 || c.Gemini.Temperature > 2 {
		return fmt.Errorf("gemini.temperature out of range: %v", c.Gemini.Temperature)
	}
	if c.Workers.Count <= 0 {
		return fmt.Errorf("workers.count must be positive: %d", c.Workers.Count)
	}
	if c.Limits.MaxFileSizeMB <= 0 {
		return fmt.Errorf("limits.max_file_size_mb must be positive: %d", c.Limits.MaxFileSizeMB)
	}
	if c.Sessions.SweepIntervalMinutes <= 0 || c.Sessions.MaxIdleHours <= 0 {
		return errors.New("sessions.sweep_interval_minutes and sessions.max_idle_hours must be positive")
	}
	return nil
}

// HasCredential reports whether an API key is configured
func (c *Config) HasCredential() bool {
	return c.Gemini.APIKey != ""
}

// Addr returns host:port for the listener
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// RequestTimeout is the per-job deadline for the Gemini call
func (c *Config) RequestTimeout() time.Duration {
	if c.Gemini.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Gemini.RequestTimeoutSeconds) * time.Second
}

// BodyLimit is the maximum request body accepted by the server, in bytes.
// It leaves room for multipart framing above the file size limit so the
// upload handler reports oversize files itself.
func (c *Config) BodyLimit() int {
	return (c.Limits.MaxFileSizeMB + multipartHeadroomMB) * 1024 * 1024
}
