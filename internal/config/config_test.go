package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/diogo/sierrachat/internal/models"
)

// setupHome points HOME at a temp dir so tests never touch the real config
func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{"BASE_URL", "TRANSPORT", "TIMEOUT_SECONDS", "LOG_LEVEL", "VERBOSE"} {
		t.Setenv(EnvPrefix+"_"+key, "")
	}
	return home
}

func writeConfigFile(t *testing.T, home string, content map[string]interface{}) string {
	t.Helper()
	dir := filepath.Join(home, ".sierrachat")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	data, err := json.Marshal(content)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.BaseURL != models.DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.BaseURL, models.DefaultBaseURL)
	}
	if cfg.TransportMode() != models.TransportHeader {
		t.Errorf("TransportMode() = %q, want header", cfg.TransportMode())
	}
	if cfg.ChatPath != "/api/ping" || cfg.HealthPath != "/api/health" {
		t.Errorf("unexpected endpoints %q %q", cfg.ChatPath, cfg.HealthPath)
	}
	if cfg.Timeout() != 120*time.Second {
		t.Errorf("Timeout() = %v", cfg.Timeout())
	}
	if len(cfg.Suggestions) != 4 {
		t.Errorf("expected 4 default suggestions, got %d", len(cfg.Suggestions))
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestGetConfigPath(t *testing.T) {
	home := setupHome(t)

	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() returned error: %v", err)
	}
	want := filepath.Join(home, ".sierrachat", "config.json")
	if path != want {
		t.Errorf("GetConfigPath() = %s, want %s", path, want)
	}
}

func TestLoadConfig_FileNotExists(t *testing.T) {
	setupHome(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.BaseURL != models.DefaultBaseURL {
		t.Errorf("expected defaults, got BaseURL %q", cfg.BaseURL)
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	home := setupHome(t)
	writeConfigFile(t, home, map[string]interface{}{
		"base_url":        "https://chat.example.com",
		"transport":       "body",
		"timeout_seconds": 30,
		"markdown":        map[string]interface{}{"style": "light"},
	})

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.BaseURL != "https://chat.example.com" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.TransportMode() != models.TransportBody {
		t.Errorf("TransportMode() = %q", cfg.TransportMode())
	}
	if cfg.TimeoutSeconds != 30 {
		t.Errorf("TimeoutSeconds = %d", cfg.TimeoutSeconds)
	}
	if cfg.Markdown.Style != "light" {
		t.Errorf("Markdown.Style = %q", cfg.Markdown.Style)
	}
	// Untouched nested keys keep their defaults
	if !cfg.Markdown.EnableEmoji {
		t.Error("Markdown.EnableEmoji should keep its default")
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	home := setupHome(t)
	writeConfigFile(t, home, map[string]interface{}{"base_url": "https://file.example.com"})
	t.Setenv("SIERRACHAT_BASE_URL", "https://env.example.com")
	t.Setenv("SIERRACHAT_LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.BaseURL != "https://env.example.com" {
		t.Errorf("env should override file, got %q", cfg.BaseURL)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("nested env override failed, got %q", cfg.Log.Level)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content map[string]interface{}
	}{
		{"bad transport", map[string]interface{}{"transport": "carrier-pigeon"}},
		{"negative timeout", map[string]interface{}{"timeout_seconds": -1}},
		{"empty base url", map[string]interface{}{"base_url": "  "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := setupHome(t)
			writeConfigFile(t, home, tt.content)

			if _, err := LoadConfig(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	home := setupHome(t)
	dir := filepath.Join(home, ".sierrachat")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig()
	if err == nil {
		t.Fatal("expected error for malformed file")
	}
	if cfg.BaseURL != models.DefaultBaseURL {
		t.Error("malformed file should fall back to defaults")
	}
}

func TestSetValue(t *testing.T) {
	home := setupHome(t)

	if err := SetValue("base_url", "https://set.example.com"); err != nil {
		t.Fatalf("SetValue() error = %v", err)
	}
	if err := SetValue("timeout_seconds", "15"); err != nil {
		t.Fatalf("SetValue() error = %v", err)
	}
	if err := SetValue("suggestions", "one|two"); err != nil {
		t.Fatalf("SetValue() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(home, ".sierrachat", "config.json")); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.BaseURL != "https://set.example.com" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.TimeoutSeconds != 15 {
		t.Errorf("TimeoutSeconds = %d", cfg.TimeoutSeconds)
	}
	if len(cfg.Suggestions) != 2 || cfg.Suggestions[1] != "two" {
		t.Errorf("Suggestions = %v", cfg.Suggestions)
	}
}

func TestSetValue_Rejects(t *testing.T) {
	setupHome(t)

	if err := SetValue("no_such_key", "x"); err == nil {
		t.Error("expected error for unknown key")
	}
	if err := SetValue("transport", "smoke-signals"); err == nil {
		t.Error("expected error for invalid transport")
	}
}

func TestKeysIncludeNested(t *testing.T) {
	keys := strings.Join(Keys(), ",")
	for _, want := range []string{"base_url", "log.level", "markdown.style"} {
		if !strings.Contains(keys, want) {
			t.Errorf("Keys() missing %q: %s", want, keys)
		}
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	cfg := DefaultConfig()
	cfg.Log.Format = "json"
	logger := cfg.NewLogger(&buf)
	logger.Debug("hidden")
	logger.Info("shown", "key", "value")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug output should be filtered at info level")
	}
	if !strings.Contains(out, `"key":"value"`) {
		t.Errorf("expected JSON output, got %s", out)
	}

	buf.Reset()
	cfg.Verbose = true
	cfg.NewLogger(&buf).Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Error("verbose should enable debug logging")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestOpenLogFile(t *testing.T) {
	home := setupHome(t)

	cfg := DefaultConfig()
	f, err := cfg.OpenLogFile()
	if err != nil {
		t.Fatalf("OpenLogFile() error = %v", err)
	}
	defer f.Close()

	want := filepath.Join(home, ".sierrachat", "sierrachat.log")
	if f.Name() != want {
		t.Errorf("log file = %s, want %s", f.Name(), want)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("SIERRACHAT_DOTENV_TEST=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SIERRACHAT_DOTENV_TEST", "")
	os.Unsetenv("SIERRACHAT_DOTENV_TEST")

	if err := LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv() error = %v", err)
	}
	if got := os.Getenv("SIERRACHAT_DOTENV_TEST"); got != "from-file" {
		t.Errorf("env var = %q, want from-file", got)
	}
}

func TestLoadDotEnv_NoFiles(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "nope.env")); err != nil {
		t.Errorf("missing files should be skipped, got %v", err)
	}
}
