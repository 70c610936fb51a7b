package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Source != SourceMemory {
		t.Fatalf("Source = %q, want %q", cfg.Source, SourceMemory)
	}
	if cfg.APIBind != defaultAPIBind {
		t.Fatalf("APIBind = %q, want %q", cfg.APIBind, defaultAPIBind)
	}
	if cfg.FetchTimeout != defaultFetchTimeout || cfg.Debounce != defaultDebounce || cfg.RetryBase != defaultRetryBase {
		t.Fatalf("durations = %s/%s/%s, want defaults", cfg.FetchTimeout, cfg.Debounce, cfg.RetryBase)
	}
	if cfg.PageSize != defaultPageSize {
		t.Fatalf("PageSize = %d, want %d", cfg.PageSize, defaultPageSize)
	}
	if !strings.HasPrefix(cfg.LogFile, home) {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}
	if !cfg.Server.Metrics {
		t.Fatalf("Server.Metrics = false, want true by default")
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeConfig(t, `
source = " HTTP "
api_bind = "  10.0.0.5:9999  "
log_file = "  ~/logs/shelf.log  "
log_level = "DEBUG"
fetch_timeout = "2s"
debounce = "150ms"
retry_base = "0s"
page_size = 25

[memory]
latency = "10ms"
jitter = "0s"
dataset = "~/catalog.yaml"

[server]
listen = ":8080"
failure_rate = 0.25
metrics = false
rate_limit = 0.0
rate_burst = 4
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Source != SourceHTTP {
		t.Fatalf("Source = %q, want %q", cfg.Source, SourceHTTP)
	}
	if cfg.APIBind != "10.0.0.5:9999" {
		t.Fatalf("APIBind = %q, want %q", cfg.APIBind, "10.0.0.5:9999")
	}
	if cfg.LogFile != filepath.Join(home, "logs", "shelf.log") {
		t.Fatalf("LogFile = %q", cfg.LogFile)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.FetchTimeout != 2*time.Second || cfg.Debounce != 150*time.Millisecond || cfg.RetryBase != 0 {
		t.Fatalf("durations = %s/%s/%s", cfg.FetchTimeout, cfg.Debounce, cfg.RetryBase)
	}
	if cfg.PageSize != 25 {
		t.Fatalf("PageSize = %d, want 25", cfg.PageSize)
	}
	if cfg.Memory.Latency != 10*time.Millisecond || cfg.Memory.Jitter != 0 {
		t.Fatalf("Memory = %+v", cfg.Memory)
	}
	if cfg.Memory.Dataset != filepath.Join(home, "catalog.yaml") {
		t.Fatalf("Memory.Dataset = %q", cfg.Memory.Dataset)
	}
	if cfg.Server.Listen != ":8080" || cfg.Server.FailureRate != 0.25 || cfg.Server.Metrics {
		t.Fatalf("Server = %+v", cfg.Server)
	}
	if cfg.Server.RateLimit != 0 || cfg.Server.RateBurst != 4 {
		t.Fatalf("rate = %v/%d, want 0/4", cfg.Server.RateLimit, cfg.Server.RateBurst)
	}
	if cfg.Server.Latency != defaultLatency {
		t.Fatalf("Server.Latency = %s, want default %s", cfg.Server.Latency, defaultLatency)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := writeConfig(t, `
source = ""
api_bind = "   "
fetch_timeout = ""
page_size = 0
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	want := Default()
	if cfg.Source != want.Source || cfg.APIBind != want.APIBind {
		t.Fatalf("cfg = %+v, want defaults", cfg)
	}
	if cfg.FetchTimeout != want.FetchTimeout || cfg.PageSize != want.PageSize {
		t.Fatalf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoad_EmptyLogFileDisablesFileLogging(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(writeConfig(t, `log_file = ""`))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LogFile != "" {
		t.Fatalf("LogFile = %q, want empty", cfg.LogFile)
	}
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown source", `source = "grpc"`, "source"},
		{"bad duration", `debounce = "soon"`, "debounce"},
		{"negative duration", `fetch_timeout = "-1s"`, "fetch_timeout"},
		{"nested duration", "[memory]\nlatency = \"x\"", "memory.latency"},
		{"failure rate high", "[server]\nfailure_rate = 1.5", "failure_rate"},
		{"failure rate low", "[server]\nfailure_rate = -0.1", "failure_rate"},
		{"negative rate limit", "[server]\nrate_limit = -1.0", "rate_limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HOME", t.TempDir())
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatalf("Load returned nil error, want %s error", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Load error = %q, want it to mention %q", err.Error(), tt.want)
			}
		})
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	_, err := Load(writeConfig(t, `api_bind = [`))
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}

func TestDefaultPath_UnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got := DefaultPath()
	if !strings.HasPrefix(got, home) || !strings.HasSuffix(got, filepath.FromSlash("/shelf/config.toml")) {
		t.Fatalf("DefaultPath = %q", got)
	}
}
