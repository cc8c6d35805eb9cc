// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"runtime"
	"testing"

	"github.com/fpz/fpz/pkg/platform"
)

// SetHomeDir makes dir the user's home directory (USERPROFILE on Windows,
// HOME elsewhere) and returns the function restoring the previous value:
//
//	t.Cleanup(testutil.SetHomeDir(t, t.TempDir()))
func SetHomeDir(t testing.TB, dir string) func() {
	t.Helper()

	if runtime.GOOS == platform.Windows {
		return MustSetenv(t, "USERPROFILE", dir)
	}
	return MustSetenv(t, "HOME", dir)
}

// SetConfigDir sets the variable the platform config location is derived
// from, so the fpz config directory lands below dir: APPDATA on Windows, HOME
// on macOS (dir/Library/Application Support/fpz) and XDG_CONFIG_HOME
// elsewhere. It returns the function restoring the previous value.
func SetConfigDir(t testing.TB, dir string) func() {
	t.Helper()

	switch runtime.GOOS {
	case platform.Windows:
		return MustSetenv(t, "APPDATA", dir)
	case platform.Darwin:
		return MustSetenv(t, "HOME", dir)
	default:
		return MustSetenv(t, "XDG_CONFIG_HOME", dir)
	}
}
