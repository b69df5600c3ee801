// Package config loads plugin configuration.
//
// Priority, highest first:
//  1. Environment variables (COMMENTCOV_*, nested keys joined by "_")
//  2. Config file (.commentcov/config.yml or .commentcov/config.yaml)
//  3. Built-in defaults
package config

// DirName is the per-project configuration directory.
const DirName = ".commentcov"

// Dedup scopes for the visited-file cache.
const (
	// DedupRequest forgets visited files after every measurement.
	DedupRequest = "request"
	// DedupProcess remembers visited files for the life of the process, so a
	// file is reported by the first request that reaches it.
	DedupProcess = "process"
)

// Config represents the complete plugin configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Measure MeasureConfig `yaml:"measure" mapstructure:"measure"`
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
	Tracing TracingConfig `yaml:"tracing" mapstructure:"tracing"`
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`
}

// ServerConfig configures the gRPC plugin server.
type ServerConfig struct {
	Host          string `yaml:"host" mapstructure:"host"`
	Port          int    `yaml:"port" mapstructure:"port"`                     // 0 picks an ephemeral port
	HealthService string `yaml:"health_service" mapstructure:"health_service"` // name reported SERVING
	Reflection    bool   `yaml:"reflection" mapstructure:"reflection"`
}

// MeasureConfig controls which files are measured.
type MeasureConfig struct {
	FollowImports bool     `yaml:"follow_imports" mapstructure:"follow_imports"`
	Ignore        []string `yaml:"ignore" mapstructure:"ignore"`           // globs over absolute paths
	DedupScope    string   `yaml:"dedup_scope" mapstructure:"dedup_scope"` // "request" or "process"
	Extensions    []string `yaml:"extensions" mapstructure:"extensions"`   // used when expanding directories
}

// LoggingConfig configures the slog logger.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // text or json
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Address string `yaml:"address" mapstructure:"address"`
}

// TracingConfig configures OpenTelemetry tracing.
type TracingConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

// StorageConfig configures run history. An empty path disables it.
type StorageConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:          "127.0.0.1",
			Port:          0,
			HealthService: "plugin",
			Reflection:    true,
		},
		Measure: MeasureConfig{
			FollowImports: true,
			Ignore:        []string{"**/node_modules/**"},
			DedupScope:    DedupRequest,
			Extensions:    []string{".ts", ".tsx", ".mts", ".cts"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Address: "127.0.0.1:9464",
		},
		Tracing: TracingConfig{
			Enabled: false,
		},
		Storage: StorageConfig{
			Path: "",
		},
	}
}
