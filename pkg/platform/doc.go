// SPDX-License-Identifier: MPL-2.0

// Package platform holds the operating-system specifics fpz cares about:
// the GOOS names that select the config directory layout, and the Windows
// device names that make a bundled file impossible to unpack on Windows.
package platform
