package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// SupportedLanguages lists the language tags the embedded datasets ship
// tables for. Used by [Validate] to warn about unrecognised languages;
// unknown languages still work at runtime by falling back to the default
// language's tables.
var SupportedLanguages = []string{"english", "hindi", "kannada"}

// Load reads the YAML configuration file at path and returns a validated [Config].
// It is a convenience wrapper around [LoadFromReader] and [Validate].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// Useful in tests where configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a [Config] with every default applied, as if an empty YAML
// document had been loaded.
func Default() *Config {
	cfg := &Config{}
	// Validate on a zero config only applies defaults, it cannot fail.
	if err := Validate(cfg); err != nil {
		panic("config: validate zero config: " + err.Error())
	}
	return cfg
}

// Validate checks that cfg contains a coherent set of values and applies
// defaults to unset fields. It returns a joined error listing all validation
// failures found.
func Validate(cfg *Config) error {
	var errs []error

	// Server
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = LogInfo
	}
	if !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}

	// Languages
	if cfg.Language.Default == "" {
		cfg.Language.Default = "english"
	}
	if cfg.Language.Vendor == "" {
		cfg.Language.Vendor = cfg.Language.Default
	}
	warnUnknownLanguage("language.default", cfg.Language.Default)
	warnUnknownLanguage("language.vendor", cfg.Language.Vendor)

	// Response
	if cfg.Response.DisplayCap == 0 {
		cfg.Response.DisplayCap = 300
	}
	if cfg.Response.DisplayCap < 0 {
		errs = append(errs, fmt.Errorf("response.display_cap %d must be positive", cfg.Response.DisplayCap))
	}

	// Dataset overrides must exist when set.
	for _, ds := range []struct{ key, path string }{
		{"datasets.lexicon", cfg.Datasets.Lexicon},
		{"datasets.prices", cfg.Datasets.Prices},
		{"datasets.phrases", cfg.Datasets.Phrases},
		{"datasets.templates", cfg.Datasets.Templates},
	} {
		if ds.path == "" {
			continue
		}
		if _, err := os.Stat(ds.path); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", ds.key, err))
		}
	}

	return errors.Join(errs...)
}

// warnUnknownLanguage logs a warning if lang is not in [SupportedLanguages].
// Unknown languages are not an error: lookups fall back to the default
// language's tables at runtime.
func warnUnknownLanguage(key, lang string) {
	for _, known := range SupportedLanguages {
		if lang == known {
			return
		}
	}
	slog.Warn("unsupported language — lookups will fall back to the default language",
		"key", key,
		"language", lang,
		"supported", SupportedLanguages,
	)
}
