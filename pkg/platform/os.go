// SPDX-License-Identifier: MPL-2.0

package platform

// runtime.GOOS values that change where fpz keeps its config file.
const (
	Windows = "windows"
	Darwin  = "darwin"
)
