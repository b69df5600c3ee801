package config

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/gobwas/glob"
)

var (
	// ErrInvalidPort indicates a server port outside 0-65535
	ErrInvalidPort = errors.New("invalid server port")

	// ErrEmptyHost indicates a missing server host
	ErrEmptyHost = errors.New("empty server host")

	// ErrInvalidDedupScope indicates an unknown dedup scope
	ErrInvalidDedupScope = errors.New("invalid dedup scope")

	// ErrInvalidPattern indicates an ignore glob that does not compile
	ErrInvalidPattern = errors.New("invalid ignore pattern")

	// ErrInvalidExtension indicates an extension without a leading dot
	ErrInvalidExtension = errors.New("invalid extension")

	// ErrInvalidLogLevel indicates an unknown log level
	ErrInvalidLogLevel = errors.New("invalid log level")

	// ErrInvalidLogFormat indicates an unknown log format
	ErrInvalidLogFormat = errors.New("invalid log format")

	// ErrInvalidAddress indicates a malformed metrics listen address
	ErrInvalidAddress = errors.New("invalid metrics address")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateServer(&cfg.Server); err != nil {
		errs = append(errs, err)
	}
	if err := validateMeasure(&cfg.Measure); err != nil {
		errs = append(errs, err)
	}
	if err := validateLogging(&cfg.Logging); err != nil {
		errs = append(errs, err)
	}
	if err := validateMetrics(&cfg.Metrics); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateServer(cfg *ServerConfig) error {
	var errs []error

	if strings.TrimSpace(cfg.Host) == "" {
		errs = append(errs, fmt.Errorf("%w: host is required", ErrEmptyHost))
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		errs = append(errs, fmt.Errorf("%w: must be between 0 and 65535, got %d", ErrInvalidPort, cfg.Port))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateMeasure(cfg *MeasureConfig) error {
	var errs []error

	scope := strings.ToLower(cfg.DedupScope)
	if scope != DedupRequest && scope != DedupProcess {
		errs = append(errs, fmt.Errorf("%w: must be '%s' or '%s', got '%s'", ErrInvalidDedupScope, DedupRequest, DedupProcess, cfg.DedupScope))
	}

	for _, pattern := range cfg.Ignore {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			errs = append(errs, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, pattern, err))
		}
	}

	for _, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			errs = append(errs, fmt.Errorf("%w: %q must start with '.'", ErrInvalidExtension, ext))
		}
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateLogging(cfg *LoggingConfig) error {
	var errs []error

	switch strings.ToLower(cfg.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("%w: must be debug, info, warn or error, got '%s'", ErrInvalidLogLevel, cfg.Level))
	}

	switch strings.ToLower(cfg.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("%w: must be 'text' or 'json', got '%s'", ErrInvalidLogFormat, cfg.Format))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateMetrics(cfg *MetricsConfig) error {
	// The address only matters when the endpoint is served.
	if !cfg.Enabled {
		return nil
	}
	if _, _, err := net.SplitHostPort(cfg.Address); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	return nil
}

// joinErrors combines multiple errors into a single error with clear formatting.
// The sentinels stay reachable through errors.Is.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}

	return &validationError{
		msg:  fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - ")),
		errs: errs,
	}
}

type validationError struct {
	msg  string
	errs []error
}

func (e *validationError) Error() string   { return e.msg }
func (e *validationError) Unwrap() []error { return e.errs }
