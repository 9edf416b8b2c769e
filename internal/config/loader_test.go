package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestLoad(t *testing.T) {
	// Create a temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test.yaml")

	configContent := `
analysis:
  threshold: 0.9
  phone_region: GB
  null_markers: ["", "-"]

enrichment:
  source_marker: "(old)"
  destination_marker: "(new)"

processing:
  workers: 8

database:
  enabled: true
  host: localhost
  port: 3307
  user: testuser
  password: testpass
  database: reports
  table_prefix: profile_

logging:
  level: debug
  format: json
  output: stdout
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Analysis.Threshold != 0.9 {
		t.Errorf("expected threshold 0.9, got %v", cfg.Analysis.Threshold)
	}
	if cfg.Analysis.PhoneRegion != "GB" {
		t.Errorf("expected phone_region 'GB', got %s", cfg.Analysis.PhoneRegion)
	}
	if len(cfg.Analysis.NullMarkers) != 2 {
		t.Errorf("expected 2 null markers, got %d", len(cfg.Analysis.NullMarkers))
	}
	// Unset keys keep their defaults
	if cfg.Analysis.SparseThreshold != 0.25 {
		t.Errorf("expected default sparse_threshold 0.25, got %v", cfg.Analysis.SparseThreshold)
	}

	if cfg.Enrichment.SourceMarker != "(old)" {
		t.Errorf("expected source_marker '(old)', got %s", cfg.Enrichment.SourceMarker)
	}
	if cfg.Processing.Workers != 8 {
		t.Errorf("expected workers 8, got %d", cfg.Processing.Workers)
	}

	if !cfg.Database.Enabled {
		t.Error("expected database enabled")
	}
	if cfg.Database.Port != 3307 {
		t.Errorf("expected database port 3307, got %d", cfg.Database.Port)
	}
	if cfg.Database.TablePrefix != "profile_" {
		t.Errorf("expected table_prefix 'profile_', got %s", cfg.Database.TablePrefix)
	}
	if cfg.Database.MaxConnections != 10 {
		t.Errorf("expected default max_connections 10, got %d", cfg.Database.MaxConnections)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected logging level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("expected logging format 'json', got %s", cfg.Logging.Format)
	}
}

func TestLoadWithEnvVars(t *testing.T) {
	t.Setenv("TEST_DB_HOST", "env-host")
	t.Setenv("TEST_DB_USER", "env-user")
	t.Setenv("TEST_DB_PASS", "env-pass")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-env.yaml")

	configContent := `
database:
  host: ${TEST_DB_HOST}
  user: $TEST_DB_USER
  password: ${TEST_DB_PASS}
  database: reports
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Database.Host != "env-host" {
		t.Errorf("expected database host 'env-host', got %s", cfg.Database.Host)
	}
	if cfg.Database.User != "env-user" {
		t.Errorf("expected database user 'env-user', got %s", cfg.Database.User)
	}
	if cfg.Database.Password != "env-pass" {
		t.Errorf("expected database password 'env-pass', got %s", cfg.Database.Password)
	}
}

func TestExpandEnvVar(t *testing.T) {
	t.Setenv("TEST_VAR", "test-value")

	tests := []struct {
		input    string
		expected string
	}{
		{"${TEST_VAR}", "test-value"},
		{"$TEST_VAR", "test-value"},
		{"prefix-${TEST_VAR}-suffix", "prefix-test-value-suffix"},
		{"${UNDEFINED_VAR_XYZ}", "${UNDEFINED_VAR_XYZ}"},
		{"no vars here", "no vars here"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := expandEnvVar(tt.input); got != tt.expected {
				t.Errorf("expandEnvVar(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLoadNonExistentFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error for non-existent file")
	}
}

func TestLoadOptional(t *testing.T) {
	cfg, err := LoadOptional(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("expected defaults for a missing file, got: %v", err)
	}
	if cfg.Analysis.Threshold != 0.8 {
		t.Errorf("expected default threshold, got %v", cfg.Analysis.Threshold)
	}

	configPath := filepath.Join(t.TempDir(), "present.yaml")
	if err := os.WriteFile(configPath, []byte("processing:\n  workers: 2\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	cfg, err = LoadOptional(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Processing.Workers != 2 {
		t.Errorf("expected workers 2, got %d", cfg.Processing.Workers)
	}
}

func TestLoadFromViper(t *testing.T) {
	v := viper.New()
	v.Set("analysis.threshold", 0.6)
	v.Set("report.color", false)

	cfg, err := LoadFromViper(v)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Analysis.Threshold != 0.6 {
		t.Errorf("expected threshold 0.6, got %v", cfg.Analysis.Threshold)
	}
	if cfg.Report.Color {
		t.Error("expected color disabled")
	}
	if cfg.Report.MaxColumnWidth != 40 {
		t.Errorf("expected default max_column_width 40, got %d", cfg.Report.MaxColumnWidth)
	}
}

func TestApplyOverrides(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ApplyOverrides(Overrides{
		LogLevel:    "debug",
		LogFormat:   "json",
		Threshold:   0.7,
		PhoneRegion: "gb",
		Workers:     12,
		Save:        true,
		NoColor:     true,
	})

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("expected log format 'json', got %s", cfg.Logging.Format)
	}
	if cfg.Analysis.Threshold != 0.7 {
		t.Errorf("expected threshold 0.7, got %v", cfg.Analysis.Threshold)
	}
	if cfg.Analysis.PhoneRegion != "GB" {
		t.Errorf("expected phone region 'GB', got %s", cfg.Analysis.PhoneRegion)
	}
	if cfg.Processing.Workers != 12 {
		t.Errorf("expected workers 12, got %d", cfg.Processing.Workers)
	}
	if !cfg.Database.Enabled {
		t.Error("expected --save to enable the database")
	}
	if cfg.Report.Color {
		t.Error("expected color disabled")
	}
}

func TestApplyOverridesZeroValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ApplyOverrides(Overrides{})

	defaults := DefaultConfig()
	if cfg.Logging != defaults.Logging {
		t.Errorf("expected logging unchanged, got %+v", cfg.Logging)
	}
	if cfg.Analysis.Threshold != defaults.Analysis.Threshold {
		t.Errorf("expected threshold unchanged, got %v", cfg.Analysis.Threshold)
	}
	if cfg.Processing != defaults.Processing {
		t.Errorf("expected processing unchanged, got %+v", cfg.Processing)
	}
	if cfg.Database.Enabled {
		t.Error("expected database to stay disabled")
	}
	if !cfg.Report.Color {
		t.Error("expected color to stay enabled")
	}
}
