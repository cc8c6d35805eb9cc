// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/fpz/fpz/pkg/types"
)

// ExitError is returned by a command whose failure has already been printed.
// Execute turns Code into the process exit status and prints nothing more.
type ExitError struct {
	Code types.ExitCode
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fpz exited with status %s", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }
