// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/lipgloss"

	"github.com/fpz/fpz/internal/issue"
	"github.com/fpz/fpz/pkg/types"
)

// ServiceError is a failed build, resolve or config command classified for
// printing: the styled one-line error, the catalog entry of its failure class
// and the exit code fpz terminates with.
type ServiceError struct {
	Err           error
	IssueID       issue.Id
	Code          types.ExitCode
	StyledMessage string
}

// newServiceError classifies err. Panics on a nil err.
func newServiceError(err error, verbose bool) *ServiceError {
	if err == nil {
		panic("ServiceError: Err must not be nil")
	}
	issueID, code := classifyError(err)
	return &ServiceError{
		Err:           err,
		IssueID:       issueID,
		Code:          code,
		StyledMessage: fmt.Sprintf("\n%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose)),
	}
}

func (e *ServiceError) Error() string { return e.Err.Error() }

func (e *ServiceError) Unwrap() error { return e.Err }

// issueStyle picks the glamour style matching the terminal background.
func issueStyle() string {
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

// renderServiceError prints the styled message, then the catalog entry when
// the error was classified.
func renderServiceError(stderr io.Writer, svcErr *ServiceError, style string) {
	if svcErr == nil {
		return
	}
	fmt.Fprint(stderr, svcErr.StyledMessage)

	entry := issue.Get(svcErr.IssueID)
	if entry == nil {
		return
	}
	rendered, err := entry.Render(style)
	if err != nil {
		slog.Warn("failed to render issue catalog entry", "issueID", svcErr.IssueID, "error", err)
		return
	}
	fmt.Fprint(stderr, rendered)
}
