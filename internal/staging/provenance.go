// SPDX-License-Identifier: MPL-2.0

package staging

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/util"

	"github.com/fpz/fpz/pkg/component"
)

// ProvenanceDir is the staging-relative directory holding one provenance
// record per installed component.
const ProvenanceDir = "Components"

var (
	// ErrProvenanceWrite is the sentinel wrapped by ProvenanceError.
	ErrProvenanceWrite = errors.New("provenance write failed")

	// ErrInvalidRecordName is returned for component ids that are not a single path element.
	ErrInvalidRecordName = errors.New("component id is not a valid file name")
)

// ProvenanceError reports that a component's provenance record could not be written.
type ProvenanceError struct {
	ComponentID string
	Err         error
}

// Error implements the error interface.
func (e *ProvenanceError) Error() string {
	return fmt.Sprintf("write provenance for %s: %v", e.ComponentID, e.Err)
}

// Unwrap returns the sentinel and the underlying cause.
func (e *ProvenanceError) Unwrap() []error {
	return []error{ErrProvenanceWrite, e.Err}
}

// ProvenancePath returns the staging-relative path of the record for id.
func ProvenancePath(id string) string {
	return filepath.Join(ProvenanceDir, id)
}

// FormatProvenance renders a provenance record: the component header line
// followed by one line per extracted path, each terminated by a newline.
func FormatProvenance(comp component.Component, paths []string) []byte {
	var b strings.Builder
	b.WriteString(comp.ProvenanceHeader())
	b.WriteByte('\n')
	for _, p := range paths {
		b.WriteString(p)
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// WriteProvenance writes the record of comp to Components/<ID>, replacing
// any previous record.
func (t *Tree) WriteProvenance(comp component.Component, paths []string) error {
	if err := validRecordName(comp.ID); err != nil {
		return &ProvenanceError{ComponentID: comp.ID, Err: err}
	}
	if err := t.fs.MkdirAll(ProvenanceDir, 0o755); err != nil {
		return &ProvenanceError{ComponentID: comp.ID, Err: fmt.Errorf("create %s: %w", ProvenanceDir, err)}
	}
	if err := util.WriteFile(t.fs, ProvenancePath(comp.ID), FormatProvenance(comp, paths), 0o644); err != nil {
		return &ProvenanceError{ComponentID: comp.ID, Err: err}
	}
	return nil
}

func validRecordName(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) || !filepath.IsLocal(id) {
		return fmt.Errorf("%w: %q", ErrInvalidRecordName, id)
	}
	return nil
}
