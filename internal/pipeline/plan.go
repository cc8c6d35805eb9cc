// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"context"

	"github.com/fpz/fpz/pkg/component"
	"github.com/fpz/fpz/pkg/manifest"
)

// DefaultCategory is the category built when none is configured.
const DefaultCategory = "core"

// Plan is the resolved component list of one category, in document order,
// including group markers.
type Plan struct {
	Source     string                `json:"source" toml:"source"`
	Category   string                `json:"category" toml:"category"`
	BaseURL    string                `json:"base_url" toml:"base_url"`
	Components []component.Component `json:"components" toml:"components"`
}

// Eligible returns the components that will be installed.
func (p *Plan) Eligible() []component.Component {
	var out []component.Component
	for _, c := range p.Components {
		if c.Eligible() {
			out = append(out, c)
		}
	}
	return out
}

// Resolve loads the manifest from source and resolves every component of
// category without fetching any archive.
func Resolve(ctx context.Context, getter manifest.Getter, source, category string) (*Plan, error) {
	if category == "" {
		category = DefaultCategory
	}

	resolver, nodes, err := selectComponents(ctx, getter, source, category)
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		Source:     source,
		Category:   category,
		BaseURL:    resolver.BaseURL(),
		Components: make([]component.Component, 0, len(nodes)),
	}
	for _, n := range nodes {
		c, err := resolver.Resolve(n)
		if err != nil {
			return nil, err
		}
		plan.Components = append(plan.Components, c)
	}
	return plan, nil
}

// selectComponents loads the manifest, reads its archive base URL and returns
// the component leaves of category in document order, unresolved.
func selectComponents(ctx context.Context, getter manifest.Getter, source, category string) (*component.Resolver, []manifest.Node, error) {
	tree, err := manifest.Load(ctx, getter, source)
	if err != nil {
		return nil, nil, err
	}

	resolver, err := component.NewResolver(tree)
	if err != nil {
		return nil, nil, err
	}

	nodes, err := tree.Components(category)
	if err != nil {
		return nil, nil, err
	}
	return resolver, nodes, nil
}
