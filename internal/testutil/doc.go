// SPDX-License-Identifier: MPL-2.0

// Package testutil holds fatal-on-error helpers shared by fpz tests.
//
// It covers environment overrides scoped to a test (MustSetenv, MustUnsetenv,
// SetHomeDir, SetConfigDir), file setup (MustMkdirAll, MustWriteFile,
// MustReadFile and friends) and in-memory component archives built and read
// back with MustZip and ZipContents.
package testutil
