// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strconv"
)

// Process exit codes of the fpz CLI.
const (
	// ExitSuccess means the command completed.
	ExitSuccess ExitCode = 0
	// ExitFailure is any failure without a more specific code.
	ExitFailure ExitCode = 1
	// ExitConfig means the configuration could not be loaded or is invalid.
	ExitConfig ExitCode = 2
	// ExitManifest means the manifest could not be fetched or is malformed.
	ExitManifest ExitCode = 3
	// ExitArchiveFetch means a component archive could not be downloaded.
	ExitArchiveFetch ExitCode = 4
	// ExitExtraction means an archive could not be extracted or its
	// provenance record could not be written.
	ExitExtraction ExitCode = 5
	// ExitAssembly means the output archive could not be created.
	ExitAssembly ExitCode = 6
)

// ErrInvalidExitCode is the sentinel error wrapped by InvalidExitCodeError.
var ErrInvalidExitCode = errors.New("invalid exit code")

type (
	// ExitCode represents a process exit status code.
	// Exit codes are in the range 0-255 on POSIX systems.
	// The zero value (0) means success.
	ExitCode int

	// InvalidExitCodeError is returned when an ExitCode is outside the
	// valid range (0-255).
	InvalidExitCodeError struct {
		Value ExitCode
	}
)

// Error implements the error interface.
func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("invalid exit code %d (must be in range 0-255)", e.Value)
}

// Unwrap returns ErrInvalidExitCode so callers can use errors.Is for programmatic detection.
func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }

// Validate returns an error if the ExitCode is outside the valid range (0-255).
func (c ExitCode) Validate() error {
	if c < 0 || c > 255 {
		return &InvalidExitCodeError{Value: c}
	}
	return nil
}

// String returns the decimal string representation of the ExitCode.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
