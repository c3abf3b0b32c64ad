package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds spiraldrift configuration.
type Config struct {
	Markers MarkersConfig `yaml:"markers"`
	Scoring ScoringConfig `yaml:"scoring"`
	Session SessionConfig `yaml:"session"`
	Report  ReportConfig  `yaml:"report"`
	Logging LoggingConfig `yaml:"logging"`
}

type MarkersConfig struct {
	Path string `yaml:"path"` // marker taxonomy YAML; empty uses the embedded default
}

type ScoringConfig struct {
	Mode string `yaml:"mode"` // presence | frequency
}

type SessionConfig struct {
	Workers int `yaml:"workers"` // concurrent scoring workers; 0 uses GOMAXPROCS
}

type ReportConfig struct {
	MaxEventsPerKind int  `yaml:"max_events_per_kind"`
	ExcerptLength    int  `yaml:"excerpt_length"`
	Redact           bool `yaml:"redact"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug | info | warn | error
}

// Load reads configuration from a YAML file.
// If the file doesn't exist, it returns a default config and no error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Scoring: ScoringConfig{
			Mode: "presence",
		},
		Report: ReportConfig{
			MaxEventsPerKind: 3,
			ExcerptLength:    100,
			Redact:           true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Scoring.Mode == "" {
		cfg.Scoring.Mode = "presence"
	}
	if cfg.Report.MaxEventsPerKind == 0 {
		cfg.Report.MaxEventsPerKind = 3
	}
	if cfg.Report.ExcerptLength == 0 {
		cfg.Report.ExcerptLength = 100
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}
