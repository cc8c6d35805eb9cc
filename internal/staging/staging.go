// SPDX-License-Identifier: MPL-2.0

package staging

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

// ErrReset is returned when the staging directory cannot be recreated.
var ErrReset = errors.New("staging reset failed")

// Tree is the staging tree of one run.
type Tree struct {
	fs   billy.Filesystem
	root string
}

// Reset deletes root if it exists, recreates it empty, and returns a Tree
// backed by the operating system filesystem chrooted at root.
func Reset(root string) (*Tree, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve %s: %w", ErrReset, root, err)
	}
	if err := os.RemoveAll(abs); err != nil {
		return nil, fmt.Errorf("%w: remove %s: %w", ErrReset, abs, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create %s: %w", ErrReset, abs, err)
	}
	return New(osfs.New(abs), abs), nil
}

// New wraps an existing filesystem. root is the on-disk location of the
// filesystem's root and may be empty for filesystems that are not backed by
// a directory.
func New(fs billy.Filesystem, root string) *Tree {
	return &Tree{fs: fs, root: root}
}

// Root returns the on-disk staging directory, or "" when there is none.
func (t *Tree) Root() string {
	return t.root
}

// Filesystem returns the filesystem the tree writes through.
func (t *Tree) Filesystem() billy.Filesystem {
	return t.fs
}

// chtimes applies mtime to a staged file. Filesystems that cannot change
// times keep whatever time the write produced.
func (t *Tree) chtimes(name string, mtime time.Time) error {
	if ch, ok := t.fs.(billy.Change); ok {
		return ch.Chtimes(name, mtime, mtime)
	}
	if t.root != "" {
		return os.Chtimes(filepath.Join(t.root, name), mtime, mtime)
	}
	return nil
}
