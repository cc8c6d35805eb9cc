// SPDX-License-Identifier: MPL-2.0

package component

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/fpz/fpz/pkg/manifest"
)

const (
	// AttrURL is the root attribute holding the archive base URL.
	AttrURL = "url"
	// AttrID names the identity attribute on categories and components.
	AttrID = "id"
	// AttrInstallSize is the installed size; zero marks a group marker.
	AttrInstallSize = "install-size"
	// AttrHash is the opaque integrity string recorded in provenance.
	AttrHash = "hash"
	// AttrPath is the staging-relative extraction directory.
	AttrPath = "path"
	// AttrDepends is the space-separated list of dependency ids.
	AttrDepends = "depends"

	// ArchiveExt is appended to the component id to form the archive URL.
	ArchiveExt = ".zip"
)

var (
	errMissing  = errors.New("required attribute is missing")
	errNegative = errors.New("value must not be negative")
)

// Resolver turns component leaves of one manifest into Components.
type Resolver struct {
	baseURL string
}

// NewResolver reads the archive base URL from the root element of tree.
func NewResolver(tree *manifest.Tree) (*Resolver, error) {
	root := tree.Root()
	base, ok := root.Attr(AttrURL)
	if !ok {
		return nil, &FormatError{Location: root.Location(), Attr: AttrURL, Err: errMissing}
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return &Resolver{baseURL: base}, nil
}

// BaseURL returns the archive base URL, always ending in a slash.
func (r *Resolver) BaseURL() string {
	return r.baseURL
}

// Resolve derives the Component for a leaf element.
func (r *Resolver) Resolve(node manifest.Node) (Component, error) {
	id, err := ComponentID(node)
	if err != nil {
		return Component{}, err
	}

	sizeAttr, ok := node.Attr(AttrInstallSize)
	if !ok {
		return Component{}, &FormatError{Location: node.Location(), Attr: AttrInstallSize, Err: errMissing}
	}
	size, err := strconv.ParseInt(strings.TrimSpace(sizeAttr), 10, 64)
	if err != nil {
		return Component{}, &FormatError{Location: node.Location(), Attr: AttrInstallSize, Err: err}
	}
	if size < 0 {
		return Component{}, &FormatError{
			Location: node.Location(),
			Attr:     AttrInstallSize,
			Err:      fmt.Errorf("%w: %d", errNegative, size),
		}
	}

	hash, ok := node.Attr(AttrHash)
	if !ok {
		return Component{}, &FormatError{Location: node.Location(), Attr: AttrHash, Err: errMissing}
	}

	var depends []string
	if v, ok := node.Attr(AttrDepends); ok {
		depends = strings.Split(v, " ")
	}

	return Component{
		ID:          id,
		URL:         r.baseURL + id + ArchiveExt,
		Path:        node.AttrOr(AttrPath, ""),
		InstallSize: size,
		Hash:        hash,
		Depends:     depends,
	}, nil
}

// ComponentID joins the id of the leaf and of every identified ancestor below
// the root with hyphens, outermost first. The leaf itself must carry an id.
func ComponentID(node manifest.Node) (string, error) {
	leaf, ok := node.Attr(AttrID)
	if !ok {
		return "", &FormatError{Location: node.Location(), Attr: AttrID, Err: errMissing}
	}

	parts := []string{leaf}
	for p, ok := node.Parent(); ok && !p.IsRoot(); p, ok = p.Parent() {
		if id, has := p.Attr(AttrID); has {
			parts = append(parts, id)
		}
	}
	slices.Reverse(parts)

	return strings.Join(parts, "-"), nil
}
