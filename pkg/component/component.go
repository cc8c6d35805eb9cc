// SPDX-License-Identifier: MPL-2.0

package component

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrManifestFormat is the sentinel wrapped by FormatError.
var ErrManifestFormat = errors.New("invalid manifest format")

type (
	// Component is one installable unit resolved from a manifest leaf.
	Component struct {
		ID          string   `json:"id" toml:"id"`
		URL         string   `json:"url" toml:"url"`
		Path        string   `json:"path" toml:"path"`
		InstallSize int64    `json:"install_size" toml:"install_size"`
		Hash        string   `json:"hash" toml:"hash"`
		Depends     []string `json:"depends,omitempty" toml:"depends,omitempty"`
	}

	// FormatError reports a manifest element that lacks a required attribute
	// or carries a value that cannot be interpreted.
	FormatError struct {
		// Location is the element path, e.g. "/list/category[core]/component[x]".
		Location string
		// Attr is the offending attribute name.
		Attr string
		Err  error
	}
)

// Eligible reports whether the component is fetched and installed.
// An install size of zero marks a group marker.
func (c Component) Eligible() bool {
	return c.InstallSize != 0
}

// ProvenanceHeader returns the first provenance line: hash, install size and
// the declared dependencies, separated by single spaces.
func (c Component) ProvenanceHeader() string {
	fields := make([]string, 0, 2+len(c.Depends))
	fields = append(fields, c.Hash, strconv.FormatInt(c.InstallSize, 10))
	fields = append(fields, c.Depends...)
	return strings.Join(fields, " ")
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: attribute %q: %v", e.Location, e.Attr, e.Err)
}

// Unwrap returns the sentinel and the underlying cause.
func (e *FormatError) Unwrap() []error {
	return []error{ErrManifestFormat, e.Err}
}
