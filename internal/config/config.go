// Package config handles configuration loading for sierrachat.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/diogo/sierrachat/internal/models"
)

// EnvPrefix is the prefix for environment overrides (SIERRACHAT_BASE_URL, ...)
const EnvPrefix = "SIERRACHAT"

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `mapstructure:"style" json:"style"`                           // "dark", "sierra", "light", "dracula", "notty", "ascii" or a JSON style file
	EnableEmoji      bool   `mapstructure:"enable_emoji" json:"enable_emoji"`             // Convert :emoji: to unicode
	PreserveNewLines bool   `mapstructure:"preserve_newlines" json:"preserve_newlines"`   // Preserve original line breaks
	TableWrap        bool   `mapstructure:"table_wrap" json:"table_wrap"`                 // Enable word wrap in table cells
	InlineTableLinks bool   `mapstructure:"inline_table_links" json:"inline_table_links"` // Render links inline in tables
}

// LogConfig configures the slog logger
type LogConfig struct {
	Level  string `mapstructure:"level" json:"level"`   // debug, info, warn, error
	Format string `mapstructure:"format" json:"format"` // text, json
	File   string `mapstructure:"file" json:"file"`     // Log file used while the TUI owns the terminal
}

// Config represents the user configuration
type Config struct {
	BaseURL    string `mapstructure:"base_url" json:"base_url"`
	Transport  string `mapstructure:"transport" json:"transport"` // "header" or "body"
	ChatPath   string `mapstructure:"chat_path" json:"chat_path"`
	HealthPath string `mapstructure:"health_path" json:"health_path"`
	// TimeoutSeconds bounds a single request. Zero disables the timeout.
	TimeoutSeconds int `mapstructure:"timeout_seconds" json:"timeout_seconds"`
	// TopK is forwarded as top_k in body transport. Zero omits the field.
	TopK            int            `mapstructure:"top_k" json:"top_k"`
	Verbose         bool           `mapstructure:"verbose" json:"verbose"`
	CopyToClipboard bool           `mapstructure:"copy_to_clipboard" json:"copy_to_clipboard"`
	Hyperlinks      bool           `mapstructure:"hyperlinks" json:"hyperlinks"`
	TUITheme        string         `mapstructure:"tui_theme" json:"tui_theme"`
	Suggestions     []string       `mapstructure:"suggestions" json:"suggestions"`
	Log             LogConfig      `mapstructure:"log" json:"log"`
	Markdown        MarkdownConfig `mapstructure:"markdown" json:"markdown"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		BaseURL:         models.DefaultBaseURL,
		Transport:       string(models.TransportHeader),
		ChatPath:        models.EndpointChat,
		HealthPath:      models.EndpointHealth,
		TimeoutSeconds:  120,
		TopK:            0,
		Verbose:         false,
		CopyToClipboard: false,
		Hyperlinks:      true,
		TUITheme:        "sierra",
		Suggestions:     models.DefaultSuggestions(),
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Markdown: DefaultMarkdownConfig(),
	}
}

// Timeout returns the request timeout as a duration
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// TransportMode returns the parsed transport, defaulting to header mode
func (c Config) TransportMode() models.Transport {
	if t, ok := models.ParseTransport(c.Transport); ok {
		return t
	}
	return models.TransportHeader
}

// Validate checks values that cannot be corrected silently
func (c Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return fmt.Errorf("base_url must not be empty")
	}
	if _, ok := models.ParseTransport(c.Transport); !ok {
		return fmt.Errorf("invalid transport %q (want %q or %q)", c.Transport, models.TransportHeader, models.TransportBody)
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must be >= 0, got %d", c.TimeoutSeconds)
	}
	if c.TopK < 0 {
		return fmt.Errorf("top_k must be >= 0, got %d", c.TopK)
	}
	return nil
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".sierrachat"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// NewViper returns a viper instance with defaults, the config file location
// and SIERRACHAT_* environment overrides registered. Callers may bind flags
// on it before calling Load.
func NewViper() (*viper.Viper, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(configDir)

	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("base_url", cfg.BaseURL)
	v.SetDefault("transport", cfg.Transport)
	v.SetDefault("chat_path", cfg.ChatPath)
	v.SetDefault("health_path", cfg.HealthPath)
	v.SetDefault("timeout_seconds", cfg.TimeoutSeconds)
	v.SetDefault("top_k", cfg.TopK)
	v.SetDefault("verbose", cfg.Verbose)
	v.SetDefault("copy_to_clipboard", cfg.CopyToClipboard)
	v.SetDefault("hyperlinks", cfg.Hyperlinks)
	v.SetDefault("tui_theme", cfg.TUITheme)
	v.SetDefault("suggestions", cfg.Suggestions)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("log.file", cfg.Log.File)
	v.SetDefault("markdown.style", cfg.Markdown.Style)
	v.SetDefault("markdown.enable_emoji", cfg.Markdown.EnableEmoji)
	v.SetDefault("markdown.preserve_newlines", cfg.Markdown.PreserveNewLines)
	v.SetDefault("markdown.table_wrap", cfg.Markdown.TableWrap)
	v.SetDefault("markdown.inline_table_links", cfg.Markdown.InlineTableLinks)
}

// readConfig reads the config file, tolerating its absence
func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return nil
}

// Load reads the config file (if any) into v and decodes the merged result
func Load(v *viper.Viper) (Config, error) {
	if err := readConfig(v); err != nil {
		return DefaultConfig(), err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// LoadConfig loads the configuration from disk and environment
func LoadConfig() (Config, error) {
	v, err := NewViper()
	if err != nil {
		return DefaultConfig(), err
	}
	return Load(v)
}

// Keys returns every configuration key in dotted form
func Keys() []string {
	v := viper.New()
	setDefaults(v, DefaultConfig())
	keys := v.AllKeys()
	sort.Strings(keys)
	return keys
}

// SetValue persists a single key to the config file.
// Values are strings as typed on the command line; suggestions are split on "|".
func SetValue(key, value string) error {
	key = strings.ToLower(strings.TrimSpace(key))

	known := false
	for _, k := range Keys() {
		if k == key {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown config key %q", key)
	}

	v, err := NewViper()
	if err != nil {
		return err
	}
	if err := readConfig(v); err != nil {
		return err
	}

	if key == "suggestions" {
		v.Set(key, strings.Split(value, "|"))
	} else {
		v.Set(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	if err := v.WriteConfigAs(filepath.Join(configDir, "config.json")); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
