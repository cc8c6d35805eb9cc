// SPDX-License-Identifier: MPL-2.0

package staging

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/fpz/fpz/pkg/component"
)

var (
	// ErrArchiveExtraction is the sentinel wrapped by ExtractionError.
	ErrArchiveExtraction = errors.New("archive extraction failed")

	// ErrUnsafePath is returned for entries or component paths that would
	// resolve outside the staging tree.
	ErrUnsafePath = errors.New("path escapes the staging tree")

	// ErrDirectoryCollision is returned when a file entry targets an existing directory.
	ErrDirectoryCollision = errors.New("destination is an existing directory")
)

// ExtractionError reports that a component archive could not be unpacked.
// Entry is empty when the failure concerns the archive as a whole.
type ExtractionError struct {
	ComponentID string
	Entry       string
	Err         error
}

// Error implements the error interface.
func (e *ExtractionError) Error() string {
	if e.Entry == "" {
		return fmt.Sprintf("extract %s: %v", e.ComponentID, e.Err)
	}
	return fmt.Sprintf("extract %s: entry %s: %v", e.ComponentID, e.Entry, e.Err)
}

// Unwrap returns the sentinel and the underlying cause.
func (e *ExtractionError) Unwrap() []error {
	return []error{ErrArchiveExtraction, e.Err}
}

// Extract unpacks the zip archive in data below the component's Path and
// returns the staging-relative path of every extracted file in archive
// order. Directory entries are skipped; existing files are overwritten.
func (t *Tree) Extract(ctx context.Context, comp component.Component, data []byte) ([]string, error) {
	fail := func(entry string, err error) ([]string, error) {
		return nil, &ExtractionError{ComponentID: comp.ID, Entry: entry, Err: err}
	}

	dest := filepath.FromSlash(comp.Path)
	if dest != "" && !filepath.IsLocal(dest) {
		return fail("", fmt.Errorf("%w: component path %q", ErrUnsafePath, comp.Path))
	}

	// A reader returned alongside an error only reports insecure entry
	// names, which are rejected per entry below.
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if zr == nil {
		return fail("", fmt.Errorf("open archive: %w", err))
	}

	if dest != "" {
		if err := t.fs.MkdirAll(dest, 0o755); err != nil {
			return fail("", fmt.Errorf("create destination %s: %w", dest, err))
		}
	}

	extracted := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if f.FileInfo().IsDir() || strings.HasSuffix(f.Name, "/") {
			continue
		}

		name := filepath.FromSlash(f.Name)
		if !filepath.IsLocal(name) {
			return fail(f.Name, ErrUnsafePath)
		}
		rel := filepath.Join(dest, name)

		if err := t.writeEntry(f, rel); err != nil {
			return fail(f.Name, err)
		}
		extracted = append(extracted, rel)
	}

	return extracted, nil
}

func (t *Tree) writeEntry(f *zip.File, rel string) error {
	if info, err := t.fs.Stat(rel); err == nil && info.IsDir() {
		return fmt.Errorf("%w: %s", ErrDirectoryCollision, rel)
	}
	if dir := filepath.Dir(rel); dir != "." {
		if err := t.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	if err := t.copyEntry(f, rel); err != nil {
		return err
	}

	if !f.Modified.IsZero() {
		if err := t.chtimes(rel, f.Modified); err != nil {
			return fmt.Errorf("set modification time of %s: %w", rel, err)
		}
	}
	return nil
}

func (t *Tree) copyEntry(f *zip.File, rel string) (err error) {
	src, err := f.Open()
	if err != nil {
		return fmt.Errorf("open entry: %w", err)
	}
	defer func() { _ = src.Close() }()

	dst, err := t.fs.OpenFile(rel, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode().Perm()|0o600)
	if err != nil {
		return fmt.Errorf("create %s: %w", rel, err)
	}
	defer func() {
		if closeErr := dst.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", rel, closeErr)
		}
	}()

	if _, err = io.Copy(dst, src); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}
	return nil
}
