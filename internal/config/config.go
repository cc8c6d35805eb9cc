// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/fpz/fpz/internal/issue"
	"github.com/fpz/fpz/pkg/cueutil"
	"github.com/fpz/fpz/pkg/platform"
)

const (
	// AppName is the application name.
	AppName = "fpz"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes every environment override, e.g. FPZ_STAGING_DIR.
	EnvPrefix = "FPZ"
	// MaxFileSize bounds the config file accepted by Load.
	MaxFileSize int64 = 64 * 1024
)

// ErrConfigExists is returned by WriteDefault when the target file exists.
var ErrConfigExists = errors.New("config file already exists")

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the fpz configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case platform.Windows:
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case platform.Darwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// DefaultConfigPath returns the path of the config file in the config directory.
func DefaultConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName+"."+ConfigFileExt), nil
}

// LoadWithPath loads the configuration and also returns the path of the
// config file that was used, or "" when only defaults and environment
// overrides apply.
func LoadWithPath(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	if err := opts.Validate(); err != nil {
		return nil, "", err
	}

	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load environment file").
				WithResource(opts.EnvFile).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Check that the file exists and uses KEY=value lines").
				Wrap(err).
				BuildError()
		}
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("manifest_source", defaults.ManifestSource)
	v.SetDefault("staging_dir", defaults.StagingDir)
	v.SetDefault("output_archive", defaults.OutputArchive)
	v.SetDefault("category", string(defaults.Category))
	v.SetDefault("http.user_agent", defaults.HTTP.UserAgent)
	v.SetDefault("log.file", defaults.Log.File)
	v.SetDefault("log.level", string(defaults.Log.Level))

	// FPZ_LOG_LEVEL overrides log.level, FPZ_STAGING_DIR overrides staging_dir.
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path, err := resolveConfigPath(opts)
	if err != nil {
		return nil, "", err
	}
	if path != "" {
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, "", cueLoadError(path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(path).
			WithIssue(issue.ConfigLoadFailedId).
			WithSuggestion("Check the values set through FPZ_* environment variables").
			Wrap(errors.Join(errs...)).
			BuildError()
	}

	return &cfg, path, nil
}

// resolveConfigPath picks the config file: the explicit path (which must
// exist), else the file in the config directory, else ./config.cue.
// It returns "" when no file applies.
func resolveConfigPath(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Run 'fpz config init' to create a default configuration").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	cfgDir, err := configDirWithOverride(opts.ConfigDirPath)
	if err != nil {
		return "", err
	}
	if cuePath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt); fileExists(cuePath) {
		return cuePath, nil
	}

	if localCuePath := ConfigFileName + "." + ConfigFileExt; fileExists(localCuePath) {
		return localCuePath, nil
	}
	return "", nil
}

func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}
	return ConfigDir()
}

// loadCUEIntoViper validates a CUE file against #Config and merges its
// values into v. Values stay non-concrete-tolerant because every field is
// optional; defaults and environment overrides fill the rest.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	res, err := cueutil.ParseAndDecodeString[map[string]any](configSchema, data, "#Config",
		cueutil.WithFilename(path),
		cueutil.WithConcrete(false),
		cueutil.WithMaxFileSize(MaxFileSize),
	)
	if err != nil {
		return err
	}

	if err := v.MergeConfigMap(*res.Value); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// cueLoadError attaches suggestions matching the kind of failure of a config
// file to err.
func cueLoadError(path string, err error) error {
	ec := issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(path).
		WithIssue(issue.ConfigLoadFailedId).
		Wrap(err)

	var verr *cueutil.ValidationError
	switch {
	case errors.Is(err, cueutil.ErrFileTooLarge):
		ec.WithSuggestion(fmt.Sprintf("Config files are limited to %d bytes; check that %s is the right file", MaxFileSize, path))
	case errors.As(err, &verr) && len(verr.Paths()) > 0:
		ec.WithSuggestion("Fix the fields named above: " + strings.Join(verr.Paths(), ", ")).
			WithSuggestion("Run 'fpz config dump' to see a valid configuration")
	default:
		ec.WithSuggestion("Check that the file contains valid CUE syntax").
			WithSuggestion("Verify the configuration values match the expected schema").
			WithSuggestion("Run 'fpz config dump' to see a valid configuration")
	}
	return ec.BuildError()
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// WriteDefault writes the default configuration to path, creating parent
// directories. An existing file is only replaced when force is set.
func WriteDefault(path string, force bool) error {
	if !force && fileExists(path) {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// fpz configuration file\n")
	sb.WriteString("// Environment variables FPZ_<KEY> override these values.\n\n")

	if cfg.ManifestSource != "" {
		fmt.Fprintf(&sb, "manifest_source: %q\n", cfg.ManifestSource)
	} else {
		sb.WriteString("// manifest_source: \"https://example.com/dist/list.xml\"\n")
	}
	fmt.Fprintf(&sb, "staging_dir:     %q\n", cfg.StagingDir)
	fmt.Fprintf(&sb, "output_archive:  %q\n", cfg.OutputArchive)
	fmt.Fprintf(&sb, "category:        %q\n", cfg.Category)

	sb.WriteString("\nhttp: {\n")
	if cfg.HTTP.UserAgent != "" {
		fmt.Fprintf(&sb, "\tuser_agent: %q\n", cfg.HTTP.UserAgent)
	} else {
		sb.WriteString("\t// user_agent: \"fpz\"\n")
	}
	sb.WriteString("}\n")

	sb.WriteString("\nlog: {\n")
	fmt.Fprintf(&sb, "\tfile:  %q\n", cfg.Log.File)
	fmt.Fprintf(&sb, "\tlevel: %q\n", cfg.Log.Level)
	sb.WriteString("}\n")

	return sb.String()
}
