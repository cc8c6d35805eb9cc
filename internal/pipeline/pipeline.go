// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/fpz/fpz/internal/assemble"
	"github.com/fpz/fpz/internal/logging"
	"github.com/fpz/fpz/internal/staging"
	"github.com/fpz/fpz/pkg/component"
	"github.com/fpz/fpz/pkg/manifest"
	"github.com/fpz/fpz/pkg/platform"
)

var (
	// ErrNoManifestSource is returned when Options.ManifestSource is empty.
	ErrNoManifestSource = errors.New("no manifest source configured")
	// ErrNoStagingDir is returned when Options.StagingDir is empty.
	ErrNoStagingDir = errors.New("no staging directory configured")
	// ErrNoOutputPath is returned when Options.OutputPath is empty.
	ErrNoOutputPath = errors.New("no output archive configured")
)

type (
	// ArchiveFetcher retrieves the zip archive of a component.
	ArchiveFetcher interface {
		FetchArchive(ctx context.Context, comp component.Component) ([]byte, error)
	}

	// Options are the per-run settings.
	Options struct {
		ManifestSource string
		StagingDir     string
		OutputPath     string
		// Category selects the top-level category; defaults to DefaultCategory.
		Category string
	}

	// Dependencies are the collaborators of a run.
	Dependencies struct {
		Manifests manifest.Getter
		Archives  ArchiveFetcher
		// Logger receives progress lines; nil discards them.
		Logger *log.Logger
	}

	// Orchestrator runs the build pipeline.
	Orchestrator struct {
		opts   Options
		deps   Dependencies
		logger *log.Logger
	}

	// Installed describes one component written to the staging tree.
	Installed struct {
		ID    string   `json:"id" toml:"id"`
		Path  string   `json:"path" toml:"path"`
		Files []string `json:"files" toml:"files"`
	}

	// Report summarizes a successful run.
	Report struct {
		Installed []Installed      `json:"installed" toml:"installed"`
		Skipped   []string         `json:"skipped" toml:"skipped"`
		Archive   *assemble.Result `json:"archive" toml:"archive"`
	}
)

// New validates opts and returns an Orchestrator.
func New(opts Options, deps Dependencies) (*Orchestrator, error) {
	switch {
	case opts.ManifestSource == "":
		return nil, ErrNoManifestSource
	case opts.StagingDir == "":
		return nil, ErrNoStagingDir
	case opts.OutputPath == "":
		return nil, ErrNoOutputPath
	case deps.Manifests == nil || deps.Archives == nil:
		return nil, errors.New("pipeline: manifest getter and archive fetcher are required")
	}
	if opts.Category == "" {
		opts.Category = DefaultCategory
	}

	logger := deps.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Orchestrator{opts: opts, deps: deps, logger: logger}, nil
}

// Run executes the pipeline. The manifest is loaded before the staging tree
// is reset; components are resolved one at a time afterwards, so a malformed
// component aborts the run with the preceding components already installed.
func (o *Orchestrator) Run(ctx context.Context) (*Report, error) {
	o.logger.Info("Process started")

	resolver, nodes, err := selectComponents(ctx, o.deps.Manifests, o.opts.ManifestSource, o.opts.Category)
	if err != nil {
		return nil, err
	}
	o.logger.Debug("manifest loaded", "category", o.opts.Category, "components", len(nodes))

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tree, err := staging.Reset(o.opts.StagingDir)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	for _, node := range nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		comp, err := resolver.Resolve(node)
		if err != nil {
			return nil, err
		}
		if !comp.Eligible() {
			o.logger.Debug("skipping group marker", "id", comp.ID)
			report.Skipped = append(report.Skipped, comp.ID)
			continue
		}

		installed, err := o.install(ctx, tree, comp)
		if err != nil {
			return nil, err
		}
		report.Installed = append(report.Installed, installed)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	o.logger.Info("Creating zipped file...")
	res, err := assemble.Archive(ctx, tree, o.opts.OutputPath)
	if err != nil {
		return nil, err
	}
	report.Archive = res

	o.logger.Info("Process finished")
	return report, nil
}

func (o *Orchestrator) install(ctx context.Context, tree *staging.Tree, comp component.Component) (Installed, error) {
	o.logger.Info(fmt.Sprintf("Downloading %s...", comp.ID))
	data, err := o.deps.Archives.FetchArchive(ctx, comp)
	if err != nil {
		return Installed{}, err
	}

	o.logger.Info(fmt.Sprintf("Extracting %s...", comp.ID))
	files, err := tree.Extract(ctx, comp, data)
	if err != nil {
		return Installed{}, err
	}

	for _, f := range files {
		if platform.IsWindowsReservedName(filepath.Base(f)) {
			o.logger.Warn("file name is reserved on Windows", "component", comp.ID, "path", f)
		}
	}

	if err := tree.WriteProvenance(comp, files); err != nil {
		return Installed{}, err
	}
	o.logger.Debug("component installed", "id", comp.ID, "files", len(files))

	return Installed{ID: comp.ID, Path: comp.Path, Files: files}, nil
}
