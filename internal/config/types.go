// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// LogLevelDebug logs every step, including skipped group markers.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo logs progress lines.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn logs warnings and errors only.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError logs errors only.
	LogLevelError LogLevel = "error"

	// DefaultStagingDir is the staging directory used when none is configured.
	DefaultStagingDir = "out/unzipped"
	// DefaultOutputArchive is the output archive used when none is configured.
	DefaultOutputArchive = "out/fpz.zip"
	// DefaultCategory is the manifest category built when none is configured.
	DefaultCategory = "core"
)

var (
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidCategory is returned for empty or quoted category ids.
	ErrInvalidCategory = errors.New("invalid category")
	// ErrInvalidPath is returned when a required path is empty or whitespace-only.
	ErrInvalidPath = errors.New("invalid path")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrInvalidLoadOptions is the sentinel error wrapped by InvalidLoadOptionsError.
	ErrInvalidLoadOptions = errors.New("invalid load options")
)

type (
	// LogLevel is the minimum level of logged lines.
	LogLevel string

	// Category is the id of a top-level manifest category.
	Category string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// InvalidCategoryError is returned for category ids that cannot be selected.
	InvalidCategoryError struct {
		Value Category
	}

	// InvalidPathError is returned when a required path setting is blank.
	InvalidPathError struct {
		Field string
		Value string
	}

	// InvalidConfigError collects the field errors of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// ManifestSource is the manifest URL or local path.
		ManifestSource string `json:"manifest_source" mapstructure:"manifest_source" toml:"manifest_source"`
		// StagingDir is the directory components are extracted into.
		StagingDir string `json:"staging_dir" mapstructure:"staging_dir" toml:"staging_dir"`
		// OutputArchive is the zip written from the staging directory.
		OutputArchive string `json:"output_archive" mapstructure:"output_archive" toml:"output_archive"`
		// Category is the top-level manifest category to build.
		Category Category `json:"category" mapstructure:"category" toml:"category"`
		// HTTP configures downloads.
		HTTP HTTPConfig `json:"http" mapstructure:"http" toml:"http"`
		// Log configures the line logger.
		Log LogConfig `json:"log" mapstructure:"log" toml:"log"`
	}

	// HTTPConfig configures manifest and archive downloads.
	HTTPConfig struct {
		// UserAgent overrides the User-Agent header; empty means "fpz/<version>".
		UserAgent string `json:"user_agent" mapstructure:"user_agent" toml:"user_agent"`
	}

	// LogConfig configures the line logger.
	LogConfig struct {
		// File, when set, receives a copy of every log line.
		File string `json:"file" mapstructure:"file" toml:"file"`
		// Level is the minimum logged level.
		Level LogLevel `json:"level" mapstructure:"level" toml:"level"`
	}
)

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string { return string(l) }

// IsValid returns whether the LogLevel is one of the defined levels.
func (l LogLevel) IsValid() (bool, []error) {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true, nil
	default:
		return false, []error{&InvalidLogLevelError{Value: l}}
	}
}

// Error implements the error interface.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

// Unwrap returns ErrInvalidLogLevel for errors.Is() compatibility.
func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

// String returns the string representation of the Category.
func (c Category) String() string { return string(c) }

// IsValid returns whether the category can be used in a manifest selection.
func (c Category) IsValid() (bool, []error) {
	if strings.TrimSpace(string(c)) == "" || strings.ContainsAny(string(c), `'"`) {
		return false, []error{&InvalidCategoryError{Value: c}}
	}
	return true, nil
}

// Error implements the error interface.
func (e *InvalidCategoryError) Error() string {
	return fmt.Sprintf("invalid category %q (must be non-empty and contain no quotes)", e.Value)
}

// Unwrap returns ErrInvalidCategory for errors.Is() compatibility.
func (e *InvalidCategoryError) Unwrap() error { return ErrInvalidCategory }

// Error implements the error interface.
func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("%s: path %q must not be blank", e.Field, e.Value)
}

// Unwrap returns ErrInvalidPath for errors.Is() compatibility.
func (e *InvalidPathError) Unwrap() error { return ErrInvalidPath }

// IsValid returns whether every field of the Config is usable.
// ManifestSource may be empty here; commands that need it check it themselves.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if strings.TrimSpace(c.StagingDir) == "" {
		errs = append(errs, &InvalidPathError{Field: "staging_dir", Value: c.StagingDir})
	}
	if strings.TrimSpace(c.OutputArchive) == "" {
		errs = append(errs, &InvalidPathError{Field: "output_archive", Value: c.OutputArchive})
	}
	if valid, fieldErrs := c.Category.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Log.Level.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig followed by the field errors.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		ManifestSource: "",
		StagingDir:     DefaultStagingDir,
		OutputArchive:  DefaultOutputArchive,
		Category:       DefaultCategory,
		HTTP: HTTPConfig{
			UserAgent: "", // derived from the binary version when empty
		},
		Log: LogConfig{
			File:  "",
			Level: LogLevelInfo,
		},
	}
}
