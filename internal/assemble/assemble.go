// SPDX-License-Identifier: MPL-2.0

// Package assemble repackages a staging tree into the output zip archive.
package assemble

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	billy "github.com/go-git/go-billy/v5"
	"github.com/klauspost/compress/zip"
)

var (
	// ErrAssembly is the sentinel wrapped by Error.
	ErrAssembly = errors.New("archive assembly failed")

	// ErrOutputInsideStaging is returned when the output archive would be
	// written into the tree being archived.
	ErrOutputInsideStaging = errors.New("output archive is inside the staging tree")

	// ErrUnsupportedFileType is returned for staged entries that are neither
	// regular files nor directories.
	ErrUnsupportedFileType = errors.New("unsupported file type")
)

type (
	// Source is a tree of files to archive. Root is the on-disk location of
	// the filesystem root, or "" when it has none.
	Source interface {
		Filesystem() billy.Filesystem
		Root() string
	}

	// Result summarizes a written archive.
	Result struct {
		ArchivePath string `json:"archive_path" toml:"archive_path"`
		FileCount   int    `json:"file_count" toml:"file_count"`
		DirCount    int    `json:"dir_count" toml:"dir_count"`
		TotalBytes  int64  `json:"total_bytes" toml:"total_bytes"`
	}

	// Error reports that the output archive could not be produced.
	// Path is the output archive path.
	Error struct {
		Path string
		Err  error
	}
)

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("assemble %s: %v", e.Path, e.Err)
}

// Unwrap returns the sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	return []error{ErrAssembly, e.Err}
}

// Archive writes every directory and file of src into a new deflate zip at
// outputPath. A previous file at outputPath is removed first and a partially
// written archive is removed on failure.
func Archive(ctx context.Context, src Source, outputPath string) (*Result, error) {
	absOutput, err := filepath.Abs(outputPath)
	if err != nil {
		return nil, &Error{Path: outputPath, Err: fmt.Errorf("resolve output path: %w", err)}
	}
	fail := func(err error) (*Result, error) {
		return nil, &Error{Path: absOutput, Err: err}
	}

	if root := src.Root(); root != "" {
		if rel, relErr := filepath.Rel(root, absOutput); relErr == nil && filepath.IsLocal(rel) {
			return fail(ErrOutputInsideStaging)
		}
	}

	if err := os.Remove(absOutput); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fail(fmt.Errorf("remove previous archive: %w", err))
	}
	if err := os.MkdirAll(filepath.Dir(absOutput), 0o755); err != nil {
		return fail(fmt.Errorf("create output directory: %w", err))
	}

	res := &Result{ArchivePath: absOutput}
	if err := writeArchive(ctx, src.Filesystem(), absOutput, res); err != nil {
		_ = os.Remove(absOutput)
		return fail(err)
	}
	return res, nil
}

func writeArchive(ctx context.Context, fs billy.Filesystem, path string, res *Result) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	zw := zip.NewWriter(out)
	defer func() {
		if closeErr := zw.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	w := &walker{ctx: ctx, fs: fs, zw: zw, res: res}
	return w.walk(".")
}

type walker struct {
	ctx context.Context
	fs  billy.Filesystem
	zw  *zip.Writer
	res *Result
}

// walk adds the children of dir in lexical order, depth first.
func (w *walker) walk(dir string) error {
	infos, err := w.fs.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read directory %s: %w", dir, err)
	}
	slices.SortFunc(infos, func(a, b os.FileInfo) int {
		return strings.Compare(a.Name(), b.Name())
	})

	for _, info := range infos {
		if err := w.ctx.Err(); err != nil {
			return err
		}

		rel := filepath.Join(dir, info.Name())
		switch {
		case info.IsDir():
			if err := w.addDir(rel, info); err != nil {
				return err
			}
			if err := w.walk(rel); err != nil {
				return err
			}
		case info.Mode().IsRegular():
			if err := w.addFile(rel, info); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: %s (%s)", ErrUnsupportedFileType, rel, info.Mode().Type())
		}
	}
	return nil
}

func (w *walker) addDir(rel string, info os.FileInfo) error {
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("create header for %s: %w", rel, err)
	}
	header.Name = filepath.ToSlash(rel) + "/"
	header.Method = zip.Store

	if _, err := w.zw.CreateHeader(header); err != nil {
		return fmt.Errorf("add directory %s: %w", rel, err)
	}
	w.res.DirCount++
	return nil
}

func (w *walker) addFile(rel string, info os.FileInfo) error {
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("create header for %s: %w", rel, err)
	}
	header.Name = filepath.ToSlash(rel)
	header.Method = zip.Deflate

	dst, err := w.zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("add file %s: %w", rel, err)
	}

	src, err := w.fs.Open(rel)
	if err != nil {
		return fmt.Errorf("open %s: %w", rel, err)
	}
	defer func() { _ = src.Close() }()

	n, err := io.Copy(dst, src)
	if err != nil {
		return fmt.Errorf("copy %s: %w", rel, err)
	}
	w.res.FileCount++
	w.res.TotalBytes += n
	return nil
}
