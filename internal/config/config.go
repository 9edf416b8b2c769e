// Package config provides configuration structures and loading for dqprofile.
package config

// Config represents the complete application configuration.
type Config struct {
	Analysis   AnalysisConfig   `yaml:"analysis" mapstructure:"analysis"`
	Enrichment EnrichmentConfig `yaml:"enrichment" mapstructure:"enrichment"`
	Processing ProcessingConfig `yaml:"processing" mapstructure:"processing"`
	Database   DatabaseConfig   `yaml:"database" mapstructure:"database"`
	Report     ReportConfig     `yaml:"report" mapstructure:"report"`
	Logging    LoggingConfig    `yaml:"logging" mapstructure:"logging"`
}

// AnalysisConfig controls column classification and population warnings.
type AnalysisConfig struct {
	Threshold       float64  `yaml:"threshold" mapstructure:"threshold"`               // minimum match ratio, (0, 1]
	PhoneRegion     string   `yaml:"phone_region" mapstructure:"phone_region"`         // ISO 3166 region for numbers without country code
	SparseThreshold float64  `yaml:"sparse_threshold" mapstructure:"sparse_threshold"` // populated share below which a column is sparse
	NullMarkers     []string `yaml:"null_markers" mapstructure:"null_markers"`
}

// EnrichmentConfig names the markers that split a combined table into
// source and destination columns.
type EnrichmentConfig struct {
	SourceMarker      string `yaml:"source_marker" mapstructure:"source_marker"`
	DestinationMarker string `yaml:"destination_marker" mapstructure:"destination_marker"`
}

// ProcessingConfig represents concurrency settings.
type ProcessingConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// DatabaseConfig represents the MySQL report store.
type DatabaseConfig struct {
	Enabled            bool   `yaml:"enabled" mapstructure:"enabled"`
	Host               string `yaml:"host" mapstructure:"host"`
	Port               int    `yaml:"port" mapstructure:"port"`
	User               string `yaml:"user" mapstructure:"user"`
	Password           string `yaml:"password" mapstructure:"password"`
	Database           string `yaml:"database" mapstructure:"database"`
	TLS                string `yaml:"tls" mapstructure:"tls"` // disable, preferred, required
	MaxConnections     int    `yaml:"max_connections" mapstructure:"max_connections"`
	MaxIdleConnections int    `yaml:"max_idle_connections" mapstructure:"max_idle_connections"`
	TablePrefix        string `yaml:"table_prefix" mapstructure:"table_prefix"`
	LockTimeout        int    `yaml:"lock_timeout" mapstructure:"lock_timeout"` // seconds
}

// ReportConfig represents terminal report settings.
type ReportConfig struct {
	Color          bool `yaml:"color" mapstructure:"color"`
	MaxColumnWidth int  `yaml:"max_column_width" mapstructure:"max_column_width"`
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// DefaultNullMarkers are the cell values read as missing.
func DefaultNullMarkers() []string {
	return []string{
		"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
		"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
		"n/a", "nan", "null",
	}
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Threshold:       0.8,
			PhoneRegion:     "US",
			SparseThreshold: 0.25,
			NullMarkers:     DefaultNullMarkers(),
		},
		Enrichment: EnrichmentConfig{
			SourceMarker:      "(crm)",
			DestinationMarker: "(export)",
		},
		Processing: ProcessingConfig{
			Workers: 4,
		},
		Database: DatabaseConfig{
			Enabled:            false,
			Port:               3306,
			TLS:                "preferred",
			MaxConnections:     10,
			MaxIdleConnections: 5,
			TablePrefix:        "dq_",
			LockTimeout:        10,
		},
		Report: ReportConfig{
			Color:          true,
			MaxColumnWidth: 40,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
	}
}
