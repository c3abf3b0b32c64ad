package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateFailures(t *testing.T) {
	cases := []struct {
		name string
		cfg  *Config
		want string
	}{
		{
			name: "nil config",
			cfg:  nil,
			want: "nil",
		},
		{
			name: "missing marker file",
			cfg: &Config{
				Markers: MarkersConfig{Path: "/does/not/exist.yaml"},
			},
			want: "markers.path",
		},
		{
			name: "unknown scoring mode",
			cfg: &Config{
				Scoring: ScoringConfig{Mode: "weighted"},
			},
			want: "scoring.mode",
		},
		{
			name: "negative workers",
			cfg: &Config{
				Session: SessionConfig{Workers: -1},
			},
			want: "session.workers",
		},
		{
			name: "negative excerpt length",
			cfg: &Config{
				Report: ReportConfig{ExcerptLength: -10},
			},
			want: "report.excerpt_length",
		},
		{
			name: "unknown log level",
			cfg: &Config{
				Logging: LoggingConfig{Level: "chatty"},
			},
			want: "logging.level",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := Validate(tc.cfg); err == nil {
				t.Fatalf("expected error containing %q", tc.want)
			} else if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not contain %q", err.Error(), tc.want)
			}
		})
	}
}

func TestValidateOK(t *testing.T) {
	if err := Validate(defaultConfig()); err != nil {
		t.Fatalf("default config must validate, got %v", err)
	}

	markers := filepath.Join(t.TempDir(), "markers.yaml")
	if err := os.WriteFile(markers, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := &Config{
		Markers: MarkersConfig{Path: markers},
		Scoring: ScoringConfig{Mode: "frequency"},
		Session: SessionConfig{Workers: 4},
		Report:  ReportConfig{MaxEventsPerKind: 5, ExcerptLength: 80, Redact: true},
		Logging: LoggingConfig{Level: "debug"},
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Scoring.Mode != "presence" {
		t.Errorf("scoring.mode = %q, want presence", cfg.Scoring.Mode)
	}
	if cfg.Report.MaxEventsPerKind != 3 || cfg.Report.ExcerptLength != 100 {
		t.Errorf("report defaults = %+v", cfg.Report)
	}
	if !cfg.Report.Redact {
		t.Error("redact should default to on")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("logging.level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "scoring:\n  mode: frequency\nsession:\n  workers: 2\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Scoring.Mode != "frequency" {
		t.Errorf("scoring.mode = %q, want frequency", cfg.Scoring.Mode)
	}
	if cfg.Session.Workers != 2 {
		t.Errorf("session.workers = %d, want 2", cfg.Session.Workers)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("logging.level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(":\n  - ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}
