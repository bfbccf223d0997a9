package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

var (
	validProviders = []string{"keyring", "config", "env"}
	validLevels    = []string{"debug", "info", "warn", "error"}
	validFormats   = []string{"console", "json"}
)

// CheckConfigValidity reports every problem found in v as a single error.
func CheckConfigValidity(v *viper.Viper) error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if strings.TrimSpace(v.GetString("target_language")) == "" {
		add("target_language is required")
	}
	if strings.TrimSpace(v.GetString("data_dir")) == "" {
		add("data_dir is required")
	}
	if addr := v.GetString("http_addr"); addr != "" {
		if _, _, err := net.SplitHostPort(addr); err != nil {
			add("http_addr %q is not host:port", addr)
		}
	}

	if lvl := v.GetString("log.level"); lvl != "" && !oneOf(lvl, validLevels) {
		add("log.level must be one of %s", strings.Join(validLevels, ", "))
	}
	if f := v.GetString("log.format"); f != "" && !oneOf(f, validFormats) {
		add("log.format must be one of %s", strings.Join(validFormats, ", "))
	}

	if ep := v.GetString("gemini.endpoint"); ep != "" {
		u, err := url.Parse(ep)
		if err != nil || u.Scheme == "" || u.Host == "" {
			add("gemini.endpoint has invalid url")
		}
	}
	if strings.TrimSpace(v.GetString("gemini.model")) == "" {
		add("gemini.model is required")
	}
	if v.GetInt("gemini.max_retries") <= 0 {
		add("gemini.max_retries must be greater than 0")
	}
	if v.GetDuration("gemini.base_delay") <= 0 {
		add("gemini.base_delay must be greater than 0")
	}
	if v.GetDuration("gemini.timeout") <= 0 {
		add("gemini.timeout must be greater than 0")
	}
	if v.GetFloat64("gemini.rps") < 0 {
		add("gemini.rps must not be negative")
	}

	provider := v.GetString("keys.provider")
	if !oneOf(provider, validProviders) {
		add("keys.provider must be one of %s", strings.Join(validProviders, ", "))
	}
	if provider == "env" && strings.TrimSpace(v.GetString("keys.env_var")) == "" {
		add("keys.env_var is required when keys.provider is env")
	}

	if len(v.GetStringSlice("extract.selectors")) == 0 {
		add("extract.selectors must not be empty")
	}
	if v.GetInt("extract.min_text") < 0 {
		add("extract.min_text must not be negative")
	}

	if v.GetBool("cache.enabled") && v.GetDuration("cache.ttl") <= 0 {
		add("cache.ttl must be greater than 0")
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("invalid config:\n  - %s", strings.Join(problems, "\n  - "))
}

func oneOf(s string, set []string) bool {
	for _, x := range set {
		if strings.EqualFold(s, x) {
			return true
		}
	}
	return false
}
