// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/fpz/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/fpz/config.cue on macOS, %APPDATA%\fpz\config.cue
// on Windows), falling back to ./config.cue. Every key can be overridden through an
// FPZ_ environment variable (FPZ_MANIFEST_SOURCE, FPZ_LOG_LEVEL, ...), optionally
// seeded from a dotenv file.
//
// Files are validated against the embedded config_schema.cue, so unknown keys and
// out-of-range values are reported with their CUE path.
package config
