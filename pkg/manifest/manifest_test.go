// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"context"
	"errors"
	"strings"
	"testing"
)

const sampleManifest = `<?xml version="1.0" encoding="utf-8"?>
<list url="http://example.com/dist">
  <category id="core">
    <component id="first" install-size="10" hash="h1" />
    <category id="tools">
      <category>
        <component id="second" install-size="20" hash="h2" path="bin/tools" />
      </category>
      <component id="third" install-size="0" hash="h3" />
    </category>
    <component id="fourth" install-size="40" hash="h4" depends="first second" />
  </category>
  <category id="extras">
    <component id="ignored" install-size="1" hash="x" />
    <category id="core">
      <component id="nested-core" install-size="1" hash="x" />
    </category>
  </category>
</list>`

type staticGetter struct {
	data []byte
	err  error
}

func (g staticGetter) Get(_ context.Context, _ string) ([]byte, error) {
	return g.data, g.err
}

func mustParse(t *testing.T, doc string) *Tree {
	t.Helper()
	tree, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return tree
}

func TestParse_Root(t *testing.T) {
	t.Parallel()

	tree := mustParse(t, sampleManifest)
	root := tree.Root()

	if root.Name() != "list" {
		t.Errorf("root name = %q, want %q", root.Name(), "list")
	}
	if !root.IsRoot() {
		t.Error("root.IsRoot() = false, want true")
	}
	if url, ok := root.Attr("url"); !ok || url != "http://example.com/dist" {
		t.Errorf("root url = (%q, %v), want (%q, true)", url, ok, "http://example.com/dist")
	}
}

func TestParse_NoRootElement(t *testing.T) {
	t.Parallel()

	_, err := Parse(strings.NewReader(`<?xml version="1.0"?>`))
	if err == nil {
		t.Fatal("expected error for document without elements")
	}
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()

	if _, err := Parse(strings.NewReader(`<list><category></list>`)); err == nil {
		t.Fatal("expected error for malformed markup")
	}
}

func TestComponents_DocumentOrder(t *testing.T) {
	t.Parallel()

	tree := mustParse(t, sampleManifest)
	nodes, err := tree.Components("core")
	if err != nil {
		t.Fatalf("Components() error = %v", err)
	}

	want := []string{"first", "second", "third", "fourth"}
	if len(nodes) != len(want) {
		t.Fatalf("got %d components, want %d", len(nodes), len(want))
	}
	for i, n := range nodes {
		if id := n.AttrOr("id", ""); id != want[i] {
			t.Errorf("component[%d] id = %q, want %q", i, id, want[i])
		}
		if n.Name() != ComponentElement {
			t.Errorf("component[%d] name = %q, want %q", i, n.Name(), ComponentElement)
		}
	}
}

func TestComponents_UnknownCategory(t *testing.T) {
	t.Parallel()

	tree := mustParse(t, sampleManifest)
	nodes, err := tree.Components("missing")
	if err != nil {
		t.Fatalf("Components() error = %v", err)
	}
	if len(nodes) != 0 {
		t.Errorf("got %d components, want 0", len(nodes))
	}
}

func TestComponents_InvalidCategory(t *testing.T) {
	t.Parallel()

	tree := mustParse(t, sampleManifest)
	for _, category := range []string{"", "co're", `co"re`} {
		if _, err := tree.Components(category); !errors.Is(err, ErrInvalidCategory) {
			t.Errorf("Components(%q) error = %v, want ErrInvalidCategory", category, err)
		}
	}
}

func TestNode_AttrPresence(t *testing.T) {
	t.Parallel()

	tree := mustParse(t, `<list url="u"><category id="core"><component id="c" path="" /></category></list>`)
	nodes, err := tree.Components("core")
	if err != nil || len(nodes) != 1 {
		t.Fatalf("Components() = %d nodes, err %v", len(nodes), err)
	}
	n := nodes[0]

	if v, ok := n.Attr("path"); !ok || v != "" {
		t.Errorf("Attr(path) = (%q, %v), want (\"\", true)", v, ok)
	}
	if v, ok := n.Attr("depends"); ok || v != "" {
		t.Errorf("Attr(depends) = (%q, %v), want (\"\", false)", v, ok)
	}
	if got := n.AttrOr("depends", "none"); got != "none" {
		t.Errorf("AttrOr(depends) = %q, want %q", got, "none")
	}
}

func TestNode_ParentChain(t *testing.T) {
	t.Parallel()

	tree := mustParse(t, sampleManifest)
	nodes, err := tree.Components("core")
	if err != nil {
		t.Fatalf("Components() error = %v", err)
	}

	second := nodes[1]
	var names []string
	for p, ok := second.Parent(); ok; p, ok = p.Parent() {
		names = append(names, p.AttrOr("id", "-"))
	}
	want := []string{"-", "tools", "core", "-"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("ancestor ids = %v, want %v", names, want)
	}

	if got := second.Location(); got != "/list/category[core]/category[tools]/category/component[second]" {
		t.Errorf("Location() = %q", got)
	}
}

func TestNode_ZeroValue(t *testing.T) {
	t.Parallel()

	var n Node
	if n.Valid() {
		t.Error("zero Node should not be valid")
	}
	if _, ok := n.Attr("id"); ok {
		t.Error("zero Node should have no attributes")
	}
	if _, ok := n.Parent(); ok {
		t.Error("zero Node should have no parent")
	}
	if n.IsRoot() {
		t.Error("zero Node should not be the root")
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	tree, err := Load(context.Background(), staticGetter{data: []byte(sampleManifest)}, "mem://manifest")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if tree.Root().Name() != "list" {
		t.Errorf("root name = %q", tree.Root().Name())
	}
}

func TestLoad_FetchFailure(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	_, err := Load(context.Background(), staticGetter{err: cause}, "http://unreachable/manifest.xml")

	if !errors.Is(err, ErrManifestFetch) {
		t.Errorf("error %v should match ErrManifestFetch", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("error %v should wrap the cause", err)
	}

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error %T should be *FetchError", err)
	}
	if fetchErr.Op != "fetch" || fetchErr.Source != "http://unreachable/manifest.xml" {
		t.Errorf("FetchError = %+v", fetchErr)
	}
}

func TestLoad_InvalidContent(t *testing.T) {
	t.Parallel()

	_, err := Load(context.Background(), staticGetter{data: []byte("not xml <<<")}, "file.xml")

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error %v should be *FetchError", err)
	}
	if fetchErr.Op != "parse" {
		t.Errorf("Op = %q, want %q", fetchErr.Op, "parse")
	}
	if !errors.Is(err, ErrManifestFetch) {
		t.Error("parse failure should match ErrManifestFetch")
	}
}
