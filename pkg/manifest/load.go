// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
)

// ErrManifestFetch is the sentinel wrapped by FetchError.
var ErrManifestFetch = errors.New("manifest fetch failed")

type (
	// Getter retrieves raw bytes for a source location (URL or path).
	Getter interface {
		Get(ctx context.Context, source string) ([]byte, error)
	}

	// FetchError reports that the manifest could not be retrieved or did not
	// contain a usable document. It matches both ErrManifestFetch and the cause
	// under errors.Is.
	FetchError struct {
		Source string
		// Op is "fetch" or "parse".
		Op  string
		Err error
	}
)

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("manifest %s %s: %v", e.Op, e.Source, e.Err)
}

// Unwrap returns the sentinel and the underlying cause.
func (e *FetchError) Unwrap() []error {
	return []error{ErrManifestFetch, e.Err}
}

// Load fetches the manifest from source and parses it.
func Load(ctx context.Context, getter Getter, source string) (*Tree, error) {
	data, err := getter.Get(ctx, source)
	if err != nil {
		return nil, &FetchError{Source: source, Op: "fetch", Err: err}
	}

	tree, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, &FetchError{Source: source, Op: "parse", Err: err}
	}
	return tree, nil
}
