package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const appName = "hinglish"

// DefaultSelectors are the problem-description containers tried in order.
var DefaultSelectors = []string{
	".content__u3I1.question-content__JfgR",
	".description__2b0c",
	".not-prose",
	".elfjS",
	".question-description",
}

// applyDefaults seeds Viper with defaults defined in GetConfigOptions.
func applyDefaults(v *viper.Viper) {
	for _, o := range GetConfigOptions() {
		v.SetDefault(o.Key, o.Default)
	}
}

// Load resolves configuration with precedence: defaults < file < .env < env.
// The provided Viper instance is mutated with defaults, file contents, and env.
func Load(ctx context.Context, v *viper.Viper) error {
	if v.ConfigFileUsed() == "" {
		v.SetConfigName("config")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, appName))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", appName))
		}
		v.AddConfigPath(".")
	}

	applyDefaults(v)

	_ = v.ReadInConfig()

	// .env never overrides variables that are already set.
	_ = godotenv.Load()

	// Environment variables: HINGLISH_* (highest among these sources)
	v.SetEnvPrefix(appName)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if v.GetString("data_dir") == "" {
		v.Set("data_dir", defaultDataDir())
	}
	if strings.TrimSpace(v.GetString("target_language")) == "" {
		v.Set("target_language", DefaultLanguage)
	}

	// Allow comma-separated env override for extract.selectors
	if s := strings.TrimSpace(os.Getenv("HINGLISH_EXTRACT_SELECTORS")); s != "" {
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if t := strings.TrimSpace(p); t != "" {
				out = append(out, t)
			}
		}
		if len(out) > 0 {
			v.Set("extract.selectors", out)
		}
	}
	return nil
}

// defaultDataDir resolves default data dir: $XDG_DATA_HOME/hinglish or ~/.local/share/hinglish
func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", appName)
}

// DefaultConfigPath resolves the standard config.toml location.
func DefaultConfigPath() string {
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		home, _ := os.UserHomeDir()
		xdg = filepath.Join(home, ".config")
	}
	return filepath.Join(xdg, appName, "config.toml")
}

type ConfigOption struct {
	Key     string
	Default any
	Comment string
}

// GetConfigOptions returns the default configuration options and their meanings.
// This is the single source of truth for default values and generator output.
func GetConfigOptions() []ConfigOption {
	return []ConfigOption{
		{Key: "target_language", Default: DefaultLanguage, Comment: "Mixed language problem descriptions are translated into"},
		{Key: "data_dir", Default: defaultDataDir(), Comment: "Directory for local state; cache DB is data_dir/hinglish.db"},
		{Key: "http_addr", Default: "127.0.0.1:7465", Comment: "HTTP listen address for the daemon"},

		{Key: "log.level", Default: "info", Comment: "Log level: debug, info, warn, error"},
		{Key: "log.format", Default: "console", Comment: "Log encoding: console or json"},

		{Key: "gemini.endpoint", Default: "https://generativelanguage.googleapis.com/v1beta", Comment: "Generative Language API base URL"},
		{Key: "gemini.model", Default: "gemini-2.5-flash-preview-05-20", Comment: "Model used for translation"},
		{Key: "gemini.max_retries", Default: 3, Comment: "Total attempts when the API answers 429"},
		{Key: "gemini.base_delay", Default: time.Second, Comment: "First retry delay; doubled on each attempt"},
		{Key: "gemini.timeout", Default: 60 * time.Second, Comment: "Timeout of a single translation request"},
		{Key: "gemini.validate_timeout", Default: 5 * time.Second, Comment: "Timeout of the key validation ping"},
		{Key: "gemini.rps", Default: 0.0, Comment: "Client-side request rate limit per second (0 disables)"},

		{Key: "keys.provider", Default: "keyring", Comment: "Where the API key lives: keyring, config or env"},
		{Key: "keys.api_key", Default: "", Comment: "API key when keys.provider = \"config\" (stored in plain text)"},
		{Key: "keys.env_var", Default: "GEMINI_API_KEY", Comment: "Environment variable read when keys.provider = \"env\""},

		{Key: "extract.selectors", Default: append([]string(nil), DefaultSelectors...), Comment: "CSS selectors tried in order to find the problem description"},
		{Key: "extract.min_text", Default: 50, Comment: "Minimum text length for a matching container"},

		{Key: "render.sanitize", Default: false, Comment: "Sanitize rendered HTML with bluemonday before output"},
		{Key: "render.style", Default: "dracula", Comment: "glamour style for terminal output"},

		{Key: "cache.enabled", Default: true, Comment: "Cache translations in the local database"},
		{Key: "cache.ttl", Default: 7 * 24 * time.Hour, Comment: "Age after which cached translations are ignored"},
	}
}

// ResolveCachePath returns the sqlite DB file path under data_dir.
func ResolveCachePath(v *viper.Viper) string {
	dir := v.GetString("data_dir")
	if dir == "" {
		dir = defaultDataDir()
	}
	// Expand ~ for convenience
	if len(dir) > 0 && dir[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, dir[1:])
		}
	}
	return filepath.Join(dir, appName+".db")
}
