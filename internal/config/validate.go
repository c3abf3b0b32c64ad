package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Validate checks the loaded config for required fields and safe values.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	if path := strings.TrimSpace(cfg.Markers.Path); path != "" {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("markers.path %q: %w", path, err)
		}
		if info.IsDir() {
			return fmt.Errorf("markers.path %q is a directory", path)
		}
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Scoring.Mode)) {
	case "", "presence", "frequency":
	default:
		return fmt.Errorf("scoring.mode must be presence or frequency, got %q", cfg.Scoring.Mode)
	}

	if cfg.Session.Workers < 0 {
		return fmt.Errorf("session.workers must not be negative, got %d", cfg.Session.Workers)
	}

	if cfg.Report.MaxEventsPerKind < 0 {
		return fmt.Errorf("report.max_events_per_kind must not be negative, got %d", cfg.Report.MaxEventsPerKind)
	}
	if cfg.Report.ExcerptLength < 0 {
		return fmt.Errorf("report.excerpt_length must not be negative, got %d", cfg.Report.ExcerptLength)
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Logging.Level)) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", cfg.Logging.Level)
	}

	return nil
}
