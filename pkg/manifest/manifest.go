// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/xmlquery"
)

const (
	// CategoryElement is the element name of grouping nodes.
	CategoryElement = "category"
	// ComponentElement is the element name of leaf component nodes.
	ComponentElement = "component"
)

var (
	// ErrNoRootElement is returned when a document has no element at all.
	ErrNoRootElement = errors.New("manifest has no root element")
	// ErrInvalidCategory is returned when a category id cannot be used in a selection.
	ErrInvalidCategory = errors.New("invalid category id")
)

type (
	// Tree is a parsed manifest document. It is never modified after Parse.
	Tree struct {
		doc  *xmlquery.Node
		root Node
	}

	// Node is a read-only view of one element in a Tree.
	// The zero value is not a valid node; check Valid before use.
	Node struct {
		n *xmlquery.Node
	}
)

// Parse reads an XML manifest into a Tree.
func Parse(r io.Reader) (*Tree, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	for child := doc.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			return &Tree{doc: doc, root: Node{n: child}}, nil
		}
	}

	return nil, ErrNoRootElement
}

// Root returns the document element.
func (t *Tree) Root() Node {
	return t.root
}

// Components returns every component element below the category with the
// given id, in document order. The category must be a direct child of the
// root element; components may sit at any depth below it.
func (t *Tree) Components(category string) ([]Node, error) {
	if category == "" || strings.ContainsAny(category, `'"`) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}

	expr := fmt.Sprintf("/*/%s[@id='%s']//%s", CategoryElement, category, ComponentElement)
	found, err := xmlquery.QueryAll(t.doc, expr)
	if err != nil {
		return nil, fmt.Errorf("select components of category %q: %w", category, err)
	}

	nodes := make([]Node, 0, len(found))
	for _, n := range found {
		nodes = append(nodes, Node{n: n})
	}
	return nodes, nil
}

// Valid reports whether the node refers to an element.
func (n Node) Valid() bool {
	return n.n != nil && n.n.Type == xmlquery.ElementNode
}

// Name returns the element name.
func (n Node) Name() string {
	if n.n == nil {
		return ""
	}
	return n.n.Data
}

// Attr returns the value of the named attribute and whether it is present.
// A present attribute with an empty value returns ("", true).
func (n Node) Attr(name string) (string, bool) {
	if n.n == nil {
		return "", false
	}
	for _, attr := range n.n.Attr {
		if attr.Name.Local == name && attr.Name.Space == "" {
			return attr.Value, true
		}
	}
	return "", false
}

// AttrOr returns the named attribute, or def when it is absent.
func (n Node) AttrOr(name, def string) string {
	if v, ok := n.Attr(name); ok {
		return v
	}
	return def
}

// Parent returns the enclosing element. The second result is false for the
// document element, which has no element parent.
func (n Node) Parent() (Node, bool) {
	if n.n == nil || n.n.Parent == nil || n.n.Parent.Type != xmlquery.ElementNode {
		return Node{}, false
	}
	return Node{n: n.n.Parent}, true
}

// IsRoot reports whether the node is the document element.
func (n Node) IsRoot() bool {
	if !n.Valid() {
		return false
	}
	_, hasParent := n.Parent()
	return !hasParent
}

// Location renders the element path from the root for diagnostics, using the
// id attribute where present, e.g. "/list/category[core]/component[base]".
func (n Node) Location() string {
	var segments []string
	for cur, ok := n, n.Valid(); ok; cur, ok = cur.Parent() {
		segment := cur.Name()
		if id, has := cur.Attr("id"); has {
			segment += "[" + id + "]"
		}
		segments = append(segments, segment)
	}

	var b strings.Builder
	for i := len(segments) - 1; i >= 0; i-- {
		b.WriteString("/")
		b.WriteString(segments[i])
	}
	return b.String()
}
