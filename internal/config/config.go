package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Source names the DataSource implementation the browser reads from.
const (
	SourceMemory = "memory"
	SourceHTTP   = "http"
)

// Config holds the settings shared by shelf and shelfd.
type Config struct {
	Source       string
	APIBind      string
	LogFile      string
	LogLevel     string
	FetchTimeout time.Duration
	Debounce     time.Duration
	RetryBase    time.Duration
	PageSize     int
	Memory       MemoryConfig
	Server       ServerConfig
}

// MemoryConfig configures the in-process source.
type MemoryConfig struct {
	Latency time.Duration
	Jitter  time.Duration
	Dataset string
}

// ServerConfig configures shelfd.
type ServerConfig struct {
	Listen      string
	Latency     time.Duration
	Jitter      time.Duration
	FailureRate float64
	Dataset     string
	Metrics     bool
	RateLimit   float64
	RateBurst   int
	LogFile     string
}

const (
	defaultConfigPath   = "~/.config/shelf/config.toml"
	defaultLogFile      = "~/.local/state/shelf/shelf.log"
	defaultAPIBind      = "127.0.0.1:7490"
	defaultLogLevel     = "info"
	defaultFetchTimeout = 5 * time.Second
	defaultDebounce     = 300 * time.Millisecond
	defaultRetryBase    = 2 * time.Second
	defaultPageSize     = 10
	defaultLatency      = 500 * time.Millisecond
	defaultJitter       = 250 * time.Millisecond
	defaultRateLimit    = 50
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Source:       SourceMemory,
		APIBind:      defaultAPIBind,
		LogFile:      mustExpand(defaultLogFile),
		LogLevel:     defaultLogLevel,
		FetchTimeout: defaultFetchTimeout,
		Debounce:     defaultDebounce,
		RetryBase:    defaultRetryBase,
		PageSize:     defaultPageSize,
		Memory: MemoryConfig{
			Latency: defaultLatency,
			Jitter:  defaultJitter,
		},
		Server: ServerConfig{
			Listen:    defaultAPIBind,
			Latency:   defaultLatency,
			Jitter:    defaultJitter,
			Metrics:   true,
			RateLimit: defaultRateLimit,
		},
	}
}

type rawConfig struct {
	Source       string  `toml:"source"`
	APIBind      string  `toml:"api_bind"`
	LogFile      *string `toml:"log_file"`
	LogLevel     string  `toml:"log_level"`
	FetchTimeout string  `toml:"fetch_timeout"`
	Debounce     string  `toml:"debounce"`
	RetryBase    string  `toml:"retry_base"`
	PageSize     int     `toml:"page_size"`
	Memory       struct {
		Latency string `toml:"latency"`
		Jitter  string `toml:"jitter"`
		Dataset string `toml:"dataset"`
	} `toml:"memory"`
	Server struct {
		Listen      string   `toml:"listen"`
		Latency     string   `toml:"latency"`
		Jitter      string   `toml:"jitter"`
		FailureRate float64  `toml:"failure_rate"`
		Dataset     string   `toml:"dataset"`
		Metrics     *bool    `toml:"metrics"`
		RateLimit   *float64 `toml:"rate_limit"`
		RateBurst   int      `toml:"rate_burst"`
		LogFile     string   `toml:"log_file"`
	} `toml:"server"`
}

// Load locates and parses the shelf config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.apply(raw); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) apply(raw rawConfig) error {
	if s := strings.ToLower(strings.TrimSpace(raw.Source)); s != "" {
		if s != SourceMemory && s != SourceHTTP {
			return fmt.Errorf("source %q: want %q or %q", raw.Source, SourceMemory, SourceHTTP)
		}
		c.Source = s
	}
	if v := strings.TrimSpace(raw.APIBind); v != "" {
		c.APIBind = v
	}
	if raw.LogFile != nil {
		c.LogFile = expandOptional(*raw.LogFile)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if raw.PageSize > 0 {
		c.PageSize = raw.PageSize
	}

	durations := []struct {
		key   string
		value string
		dest  *time.Duration
	}{
		{"fetch_timeout", raw.FetchTimeout, &c.FetchTimeout},
		{"debounce", raw.Debounce, &c.Debounce},
		{"retry_base", raw.RetryBase, &c.RetryBase},
		{"memory.latency", raw.Memory.Latency, &c.Memory.Latency},
		{"memory.jitter", raw.Memory.Jitter, &c.Memory.Jitter},
		{"server.latency", raw.Server.Latency, &c.Server.Latency},
		{"server.jitter", raw.Server.Jitter, &c.Server.Jitter},
	}
	for _, d := range durations {
		if err := parseDuration(d.key, d.value, d.dest); err != nil {
			return err
		}
	}

	c.Memory.Dataset = expandOptional(raw.Memory.Dataset)

	if v := strings.TrimSpace(raw.Server.Listen); v != "" {
		c.Server.Listen = v
	}
	if raw.Server.FailureRate < 0 || raw.Server.FailureRate > 1 {
		return fmt.Errorf("server.failure_rate %v outside [0,1]", raw.Server.FailureRate)
	}
	c.Server.FailureRate = raw.Server.FailureRate
	c.Server.Dataset = expandOptional(raw.Server.Dataset)
	if raw.Server.Metrics != nil {
		c.Server.Metrics = *raw.Server.Metrics
	}
	if raw.Server.RateLimit != nil {
		if *raw.Server.RateLimit < 0 {
			return fmt.Errorf("server.rate_limit %v is negative", *raw.Server.RateLimit)
		}
		c.Server.RateLimit = *raw.Server.RateLimit
	}
	if raw.Server.RateBurst > 0 {
		c.Server.RateBurst = raw.Server.RateBurst
	}
	c.Server.LogFile = expandOptional(raw.Server.LogFile)
	return nil
}

func parseDuration(key, value string, dest *time.Duration) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if d < 0 {
		return fmt.Errorf("%s: negative duration %s", key, value)
	}
	*dest = d
	return nil
}

// DefaultPath returns the config file consulted when no path is given.
func DefaultPath() string {
	return mustExpand(defaultConfigPath)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

// expandOptional expands a possibly empty path; empty stays empty.
func expandOptional(path string) string {
	if strings.TrimSpace(path) == "" {
		return ""
	}
	return mustExpand(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
