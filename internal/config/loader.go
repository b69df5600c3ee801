package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir    string
	configFile string
}

// NewLoader creates a loader that looks for .commentcov/config.yml under rootDir.
// A missing file is not an error.
func NewLoader(rootDir string) Loader {
	return &loader{rootDir: rootDir}
}

// NewFileLoader creates a loader for an explicit config file, which must exist.
func NewFileLoader(path string) Loader {
	return &loader{configFile: path}
}

func (l *loader) Load() (*Config, error) {
	v := viper.New()

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(l.rootDir, DirName))
	}

	// COMMENTCOV_SERVER_PORT, COMMENTCOV_MEASURE_DEDUP_SCOPE, ...
	v.SetEnvPrefix("COMMENTCOV")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	bindEnv(v)

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || l.configFile != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// envKeys lists every key that may be set from the environment. Unmarshal
// only sees env values for keys viper already knows about.
var envKeys = []string{
	"server.host",
	"server.port",
	"server.health_service",
	"server.reflection",
	"measure.follow_imports",
	"measure.ignore",
	"measure.dedup_scope",
	"measure.extensions",
	"logging.level",
	"logging.format",
	"metrics.enabled",
	"metrics.address",
	"tracing.enabled",
	"storage.path",
}

func bindEnv(v *viper.Viper) {
	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}
}

func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("server.host", defaults.Server.Host)
	v.SetDefault("server.port", defaults.Server.Port)
	v.SetDefault("server.health_service", defaults.Server.HealthService)
	v.SetDefault("server.reflection", defaults.Server.Reflection)

	v.SetDefault("measure.follow_imports", defaults.Measure.FollowImports)
	v.SetDefault("measure.ignore", defaults.Measure.Ignore)
	v.SetDefault("measure.dedup_scope", defaults.Measure.DedupScope)
	v.SetDefault("measure.extensions", defaults.Measure.Extensions)

	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)

	v.SetDefault("metrics.enabled", defaults.Metrics.Enabled)
	v.SetDefault("metrics.address", defaults.Metrics.Address)

	v.SetDefault("tracing.enabled", defaults.Tracing.Enabled)

	v.SetDefault("storage.path", defaults.Storage.Path)
}

// LoadConfig loads configuration rooted at the current working directory.
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}

// LoadConfigFromDir loads configuration from a specific directory.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}
