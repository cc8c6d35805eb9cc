// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

var (
	// ErrSchemaViolation is wrapped by ValidationError.
	ErrSchemaViolation = errors.New("document does not match schema")
	// ErrFileTooLarge is wrapped by FileSizeError.
	ErrFileTooLarge = errors.New("file exceeds size limit")
)

type (
	// FieldError is one CUE error, located by its JSON path.
	FieldError struct {
		// Path is empty for errors without a field, such as syntax errors.
		Path    string
		Message string
	}

	// ValidationError lists every CUE error reported for one file.
	ValidationError struct {
		File   string
		Fields []FieldError
		cause  error
	}

	// FileSizeError is returned when a document is larger than the limit
	// configured with WithMaxFileSize.
	FileSizeError struct {
		File  string
		Size  int64
		Limit int64
	}
)

// Error renders "<file>: <path>: <message>", or a bulleted list when CUE
// reported several errors:
//
//	config.cue: log.level: 4 errors in empty disjunction
func (e *ValidationError) Error() string {
	lines := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		if f.Path == "" {
			lines = append(lines, f.Message)
			continue
		}
		lines = append(lines, f.Path+": "+f.Message)
	}
	if len(lines) == 1 {
		return e.File + ": " + lines[0]
	}
	return fmt.Sprintf("%s: validation failed:\n  %s", e.File, strings.Join(lines, "\n  "))
}

// Unwrap exposes ErrSchemaViolation and the CUE error.
func (e *ValidationError) Unwrap() []error {
	return []error{ErrSchemaViolation, e.cause}
}

// Paths returns the field paths named by the error, skipping pathless ones.
func (e *ValidationError) Paths() []string {
	var paths []string
	for _, f := range e.Fields {
		if f.Path != "" {
			paths = append(paths, f.Path)
		}
	}
	return paths
}

func (e *FileSizeError) Error() string {
	return fmt.Sprintf("%s: file size %d bytes exceeds maximum %d bytes", e.File, e.Size, e.Limit)
}

func (e *FileSizeError) Unwrap() error { return ErrFileTooLarge }

// FormatError converts a CUE error into a *ValidationError for filePath.
// Errors that carry no CUE detail are only prefixed with the file name.
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	list := cueerrors.Errors(err)
	if len(list) == 0 {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	verr := &ValidationError{File: filePath, cause: err}
	for _, e := range list {
		path := formatPath(cueerrors.Path(e))
		msg := e.Error()
		// CUE sometimes repeats the path in the message.
		if path != "" {
			if rest, ok := strings.CutPrefix(msg, path); ok {
				msg = strings.TrimSpace(strings.TrimPrefix(rest, ":"))
			}
		}
		verr.Fields = append(verr.Fields, FieldError{Path: path, Message: msg})
	}
	return verr
}

// formatPath converts a CUE error path such as ["mirrors", "0", "url"] to
// JSON-path notation ("mirrors[0].url").
func formatPath(path []string) string {
	var b strings.Builder
	for i, part := range path {
		switch {
		case i > 0 && isIndex(part):
			b.WriteString("[" + part + "]")
		case i > 0:
			b.WriteString("." + part)
		default:
			b.WriteString(part)
		}
	}
	return b.String()
}

func isIndex(s string) bool {
	return strings.TrimLeft(s, "0123456789") == ""
}

// CheckFileSize returns a *FileSizeError when data is larger than maxSize bytes.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if size := int64(len(data)); size > maxSize {
		return &FileSizeError{File: filename, Size: size, Limit: maxSize}
	}
	return nil
}
