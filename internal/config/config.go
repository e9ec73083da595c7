// Package config provides the configuration schema, loader, and validation
// for the linguabridge trade assistant.
package config

// LogLevel controls log verbosity for the linguabridge process.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Config is the root configuration structure for linguabridge.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
// The zero value is fully usable: every field has a working default applied
// by [Validate].
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Language LanguageConfig `yaml:"language"`
	Response ResponseConfig `yaml:"response"`
	Pricing  PricingConfig  `yaml:"pricing"`
	Datasets DatasetsConfig `yaml:"datasets"`
}

// ServerConfig holds network and logging settings.
type ServerConfig struct {
	// ListenAddr is the TCP address the metrics/health HTTP server listens on
	// (e.g., ":9090"). Empty disables the HTTP server entirely.
	ListenAddr string `yaml:"listen_addr"`

	// LogLevel controls verbosity. Defaults to "info".
	LogLevel LogLevel `yaml:"log_level"`
}

// LanguageConfig selects the languages the assistant operates in.
type LanguageConfig struct {
	// Default is the language assumed for utterances that arrive without a
	// language tag. Defaults to "english".
	Default string `yaml:"default"`

	// Vendor is the language utterances are translated into for the vendor's
	// benefit. Defaults to the same value as Default.
	Vendor string `yaml:"vendor"`
}

// ResponseConfig tunes response synthesis.
type ResponseConfig struct {
	// DisplayCap is the maximum length of a rendered response in runes.
	// Longer responses are truncated at a sentence boundary. Defaults to 300.
	DisplayCap int `yaml:"display_cap"`
}

// PricingConfig tunes the price discovery engine.
type PricingConfig struct {
	// Seasonal enables seasonal price adjustment. Nil means enabled.
	Seasonal *bool `yaml:"seasonal"`

	// TrendSeed seeds the deterministic market-trend derivation. The same
	// seed always produces the same trend for a given product and month.
	TrendSeed int64 `yaml:"trend_seed"`
}

// DatasetsConfig holds optional on-disk overrides for the embedded YAML
// datasets. An empty path means the embedded copy is used.
type DatasetsConfig struct {
	// Lexicon overrides the embedded keyword/phrase/product tables.
	Lexicon string `yaml:"lexicon"`

	// Prices overrides the embedded product price table.
	Prices string `yaml:"prices"`

	// Phrases overrides the embedded translation templates and dictionary.
	Phrases string `yaml:"phrases"`

	// Templates overrides the embedded response template bundles.
	Templates string `yaml:"templates"`
}

// SeasonalEnabled resolves the Seasonal tri-state to a concrete bool.
func (p PricingConfig) SeasonalEnabled() bool {
	return p.Seasonal == nil || *p.Seasonal
}
