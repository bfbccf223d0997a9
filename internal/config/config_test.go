package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckConfigValidityValid(t *testing.T) {
	v := viper.New()
	applyDefaults(v)
	v.Set("data_dir", "/tmp/hinglish")

	if err := CheckConfigValidity(v); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestCheckConfigValidityInvalid(t *testing.T) {
	v := viper.New()
	v.Set("target_language", " ")
	v.Set("data_dir", "")
	v.Set("http_addr", "nocolon")
	v.Set("log.level", "loud")
	v.Set("gemini.endpoint", "not a url")
	v.Set("gemini.model", "")
	v.Set("gemini.max_retries", 0)
	v.Set("gemini.base_delay", "0s")
	v.Set("gemini.timeout", "0s")
	v.Set("gemini.rps", -1)
	v.Set("keys.provider", "vault")
	v.Set("extract.selectors", []string{})
	v.Set("cache.enabled", true)
	v.Set("cache.ttl", "0s")

	err := CheckConfigValidity(v)
	if err == nil {
		t.Fatalf("expected error for invalid config")
	}

	msg := err.Error()
	expected := []string{
		"target_language is required",
		"data_dir is required",
		`http_addr "nocolon" is not host:port`,
		"log.level must be one of",
		"gemini.endpoint has invalid url",
		"gemini.model is required",
		"gemini.max_retries must be greater than 0",
		"gemini.base_delay must be greater than 0",
		"gemini.timeout must be greater than 0",
		"gemini.rps must not be negative",
		"keys.provider must be one of keyring, config, env",
		"extract.selectors must not be empty",
		"cache.ttl must be greater than 0",
	}
	for _, want := range expected {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected error to contain %q, got %q", want, msg)
		}
	}
}

func TestCheckConfigValidityEnvProviderNeedsVar(t *testing.T) {
	v := viper.New()
	applyDefaults(v)
	v.Set("keys.provider", "env")
	v.Set("keys.env_var", "")
	err := CheckConfigValidity(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "keys.env_var is required")
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("target_language = \"Tanglish\"\n[gemini]\nmax_retries = 5\n"), 0o600))
	t.Setenv("HINGLISH_GEMINI_MAX_RETRIES", "7")
	t.Setenv("HINGLISH_EXTRACT_SELECTORS", " .a , ,.b ")
	t.Setenv("XDG_DATA_HOME", dir)

	v := viper.New()
	v.SetConfigFile(cfg)
	require.NoError(t, Load(context.Background(), v))

	assert.Equal(t, "Tanglish", v.GetString("target_language"))
	assert.Equal(t, 7, v.GetInt("gemini.max_retries"))
	assert.Equal(t, []string{".a", ".b"}, v.GetStringSlice("extract.selectors"))
	assert.Equal(t, time.Second, v.GetDuration("gemini.base_delay"))
	assert.Equal(t, filepath.Join(dir, "hinglish"), v.GetString("data_dir"))
	assert.Equal(t, filepath.Join(dir, "hinglish", "hinglish.db"), ResolveCachePath(v))
}

func TestRenderDefaultTOMLRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfg, []byte(RenderDefaultTOML()), 0o600))

	v := viper.New()
	v.SetConfigFile(cfg)
	require.NoError(t, v.ReadInConfig())

	assert.Equal(t, DefaultLanguage, v.GetString("target_language"))
	assert.Equal(t, 168*time.Hour, v.GetDuration("cache.ttl"))
	assert.Equal(t, DefaultSelectors, v.GetStringSlice("extract.selectors"))
	assert.Equal(t, "keyring", v.GetString("keys.provider"))
	assert.InDelta(t, 0.0, v.GetFloat64("gemini.rps"), 0)
}

func TestUpdateTOML(t *testing.T) {
	in := "target_language = \"Banglish\"\nlegacy = 1\n[gemini]\nmodel = \"m\"\n"
	out, changed := UpdateTOML(in)
	require.True(t, changed)
	assert.Contains(t, out, "target_language = \"Banglish\"")
	assert.Contains(t, out, "# OUTDATED: option removed from config schema\n# legacy = 1")
	assert.Contains(t, out, "model = \"m\"")
	assert.Contains(t, out, "# Added by config update")
	assert.Contains(t, out, "[cache]")
	assert.NotContains(t, out, "model = \"gemini-2.5")

	again, changed := UpdateTOML(RenderDefaultTOML())
	assert.False(t, changed)
	assert.Equal(t, RenderDefaultTOML(), again)
}

func TestSetOption(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		key      string
		value    any
		want     string
	}{
		{"Empty", "", "target_language", "Tanglish", `target_language = "Tanglish"`},
		{"EmptySection", "", "keys.api_key", "k", "[keys]\napi_key = \"k\""},
		{
			"ReplaceInSection",
			"[keys]\nprovider = \"keyring\"\napi_key = \"old\"\n",
			"keys.api_key", "new",
			"[keys]\nprovider = \"keyring\"\napi_key = \"new\"\n",
		},
		{
			"InsertIntoSection",
			"[keys]\nprovider = \"config\"\n[cache]\nenabled = true",
			"keys.api_key", "k",
			"[keys]\napi_key = \"k\"\nprovider = \"config\"\n[cache]\nenabled = true",
		},
		{
			"TopLevelBeforeFirstHeader",
			"# c\n[gemini]\nmodel = \"m\"",
			"target_language", "Manglish",
			"# c\ntarget_language = \"Manglish\"\n[gemini]\nmodel = \"m\"",
		},
		{
			"SameKeyOtherSection",
			"[gemini]\ntimeout = \"1s\"",
			"cache.ttl", time.Hour,
			"[gemini]\ntimeout = \"1s\"\n\n[cache]\nttl = \"1h0m0s\"",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SetOption(tc.existing, tc.key, tc.value))
		})
	}
}

func TestResolveLanguage(t *testing.T) {
	tests := map[string]string{
		"":          DefaultLanguage,
		"  ":        DefaultLanguage,
		"tanglish":  "Tanglish",
		"BANGLISH":  "Banglish",
		" Hinglish": "Hinglish",
	}
	for in, want := range tests {
		got, err := ResolveLanguage(in)
		require.NoError(t, err, "ResolveLanguage(%q)", in)
		assert.Equal(t, want, got, "ResolveLanguage(%q)", in)
	}
}

func TestResolveLanguageSuggests(t *testing.T) {
	_, err := ResolveLanguage("tangl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did you mean Tanglish")

	_, err = ResolveLanguage("Klingon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "known: Hinglish")
}
