// SPDX-License-Identifier: MPL-2.0

package component

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/fpz/fpz/pkg/manifest"
)

func parseTree(t *testing.T, doc string) *manifest.Tree {
	t.Helper()
	tree, err := manifest.Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("manifest.Parse() error = %v", err)
	}
	return tree
}

func resolveAll(t *testing.T, doc string) ([]Component, error) {
	t.Helper()
	tree := parseTree(t, doc)
	r, err := NewResolver(tree)
	if err != nil {
		return nil, err
	}
	nodes, err := tree.Components("core")
	if err != nil {
		t.Fatalf("Components() error = %v", err)
	}
	comps := make([]Component, 0, len(nodes))
	for _, n := range nodes {
		c, err := r.Resolve(n)
		if err != nil {
			return nil, err
		}
		comps = append(comps, c)
	}
	return comps, nil
}

func TestResolve_IDFromAncestors(t *testing.T) {
	t.Parallel()

	comps, err := resolveAll(t, `<list url="http://x/y">
  <category id="core">
    <category id="a"><category id="b"><category id="c">
      <component id="d" install-size="1" hash="h" />
    </category></category></category>
  </category>
</list>`)
	if err != nil {
		t.Fatalf("resolve error = %v", err)
	}
	if len(comps) != 1 {
		t.Fatalf("got %d components, want 1", len(comps))
	}
	if comps[0].ID != "core-a-b-c-d" {
		t.Errorf("ID = %q, want %q", comps[0].ID, "core-a-b-c-d")
	}
}

func TestComponentID_SkipsAnonymousAncestors(t *testing.T) {
	t.Parallel()

	tree := parseTree(t, `<list id="root" url="u"><category id="core"><category><category id="a">
  <component id="d" install-size="1" hash="h" /></category></category></category></list>`)
	nodes, err := tree.Components("core")
	if err != nil || len(nodes) != 1 {
		t.Fatalf("Components() = %d nodes, err %v", len(nodes), err)
	}

	id, err := ComponentID(nodes[0])
	if err != nil {
		t.Fatalf("ComponentID() error = %v", err)
	}
	// The root element's id never contributes.
	if id != "core-a-d" {
		t.Errorf("ComponentID() = %q, want %q", id, "core-a-d")
	}
}

func TestResolve_URL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		base string
		want string
	}{
		{name: "without trailing slash", base: "http://x/y", want: "http://x/y/core-a-d.zip"},
		{name: "with trailing slash", base: "http://x/y/", want: "http://x/y/core-a-d.zip"},
		{name: "file scheme", base: "file:///srv/dist", want: "file:///srv/dist/core-a-d.zip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			comps, err := resolveAll(t, `<list url="`+tt.base+`"><category id="core"><category id="a">
  <component id="d" install-size="5" hash="h" /></category></category></list>`)
			if err != nil {
				t.Fatalf("resolve error = %v", err)
			}
			if comps[0].URL != tt.want {
				t.Errorf("URL = %q, want %q", comps[0].URL, tt.want)
			}
		})
	}
}

func TestResolve_Attributes(t *testing.T) {
	t.Parallel()

	comps, err := resolveAll(t, `<list url="http://x/">
  <category id="core">
    <component id="full" install-size=" 456 " hash="H123" path="bin/tools" depends="x y" />
    <component id="bare" install-size="7" hash="H7" />
    <component id="group" install-size="0" hash="" />
  </category>
</list>`)
	if err != nil {
		t.Fatalf("resolve error = %v", err)
	}

	full := comps[0]
	if full.Path != "bin/tools" || full.InstallSize != 456 || full.Hash != "H123" {
		t.Errorf("full = %+v", full)
	}
	if !slices.Equal(full.Depends, []string{"x", "y"}) {
		t.Errorf("Depends = %q, want [x y]", full.Depends)
	}
	if got := full.ProvenanceHeader(); got != "H123 456 x y" {
		t.Errorf("ProvenanceHeader() = %q, want %q", got, "H123 456 x y")
	}

	bare := comps[1]
	if bare.Path != "" {
		t.Errorf("Path = %q, want empty", bare.Path)
	}
	if len(bare.Depends) != 0 {
		t.Errorf("Depends = %q, want none", bare.Depends)
	}
	if got := bare.ProvenanceHeader(); got != "H7 7" {
		t.Errorf("ProvenanceHeader() = %q, want %q", got, "H7 7")
	}
	if !bare.Eligible() {
		t.Error("bare should be eligible")
	}

	if comps[2].Eligible() {
		t.Error("zero install size should not be eligible")
	}
}

func TestResolve_FormatErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		leaf     string
		wantAttr string
	}{
		{name: "missing id", leaf: `<component install-size="1" hash="h" />`, wantAttr: AttrID},
		{name: "missing install-size", leaf: `<component id="c" hash="h" />`, wantAttr: AttrInstallSize},
		{name: "non-numeric install-size", leaf: `<component id="c" install-size="big" hash="h" />`, wantAttr: AttrInstallSize},
		{name: "negative install-size", leaf: `<component id="c" install-size="-3" hash="h" />`, wantAttr: AttrInstallSize},
		{name: "missing hash", leaf: `<component id="c" install-size="1" />`, wantAttr: AttrHash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := resolveAll(t, `<list url="http://x"><category id="core">`+tt.leaf+`</category></list>`)
			if !errors.Is(err, ErrManifestFormat) {
				t.Fatalf("error = %v, want ErrManifestFormat", err)
			}
			var formatErr *FormatError
			if !errors.As(err, &formatErr) {
				t.Fatalf("error %T should be *FormatError", err)
			}
			if formatErr.Attr != tt.wantAttr {
				t.Errorf("Attr = %q, want %q", formatErr.Attr, tt.wantAttr)
			}
			if !strings.HasPrefix(formatErr.Location, "/list/category[core]/component") {
				t.Errorf("Location = %q", formatErr.Location)
			}
		})
	}
}

func TestNewResolver_MissingURL(t *testing.T) {
	t.Parallel()

	_, err := NewResolver(parseTree(t, `<list><category id="core" /></list>`))

	var formatErr *FormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("error = %v, want *FormatError", err)
	}
	if formatErr.Attr != AttrURL || formatErr.Location != "/list" {
		t.Errorf("FormatError = %+v", formatErr)
	}
}

func TestNewResolver_BaseURL(t *testing.T) {
	t.Parallel()

	r, err := NewResolver(parseTree(t, `<list url="http://x/y" />`))
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}
	if r.BaseURL() != "http://x/y/" {
		t.Errorf("BaseURL() = %q, want %q", r.BaseURL(), "http://x/y/")
	}
}
