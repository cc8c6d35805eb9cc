// SPDX-License-Identifier: MPL-2.0

package config

// configDirOverride, when set, is returned by ConfigDir instead of the
// per-platform location.
var configDirOverride string

// SetConfigDirOverride makes ConfigDir return dir until Reset is called, so
// tests never read the user's own fpz/config.cue.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// Reset drops the override installed by SetConfigDirOverride.
func Reset() {
	configDirOverride = ""
}
