// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/fpz/fpz/internal/config"
	"github.com/fpz/fpz/internal/issue"
	"github.com/fpz/fpz/internal/pipeline"
)

// Plan output formats.
const (
	formatText = "text"
	formatJSON = "json"
	formatTOML = "toml"
)

var errUnknownFormat = errors.New("unknown output format")

type resolveFlags struct {
	manifest string
	category string
	format   string
}

func newResolveCommand(app *App) *cobra.Command {
	var flags resolveFlags

	resolveCmd := &cobra.Command{
		Use:   "resolve",
		Short: "Print the install plan without downloading archives",
		Long: `Fetch and parse the manifest, resolve every component of the selected
category and print the plan. Components with install-size 0 are group
markers and are listed as skipped. Nothing is downloaded or written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, app, flags)
		},
	}

	resolveCmd.Flags().StringVar(&flags.manifest, "manifest", "", "manifest URL or path (overrides manifest_source)")
	resolveCmd.Flags().StringVar(&flags.category, "category", "", "top-level manifest category (overrides category)")
	resolveCmd.Flags().StringVarP(&flags.format, "format", "f", formatText, "output format: text, json or toml")

	return resolveCmd
}

func runResolve(cmd *cobra.Command, app *App, flags resolveFlags) error {
	ctx := cmd.Context()

	switch flags.format {
	case formatText, formatJSON, formatTOML:
	default:
		return fmt.Errorf("%w %q (valid: text, json, toml)", errUnknownFormat, flags.format)
	}

	cfg, _, err := app.loadConfig(ctx)
	if err != nil {
		return app.fail(cmd, err)
	}
	applyBuildFlags(cfg, buildFlags{manifest: flags.manifest, category: flags.category})
	if err := requireManifestSource(cfg); err != nil {
		return app.fail(cmd, err)
	}

	plan, err := pipeline.Resolve(ctx, app.fetchClient(cfg), cfg.ManifestSource, string(cfg.Category))
	if err != nil {
		return app.fail(cmd, err)
	}

	return writePlan(app.stdout, plan, flags.format)
}

// requireManifestSource reports a configuration error when no manifest
// location is configured.
func requireManifestSource(cfg *config.Config) error {
	if cfg.ManifestSource != "" {
		return nil
	}
	return issue.NewErrorContext().
		WithOperation("select manifest").
		WithIssue(issue.ConfigLoadFailedId).
		WithSuggestion("Pass --manifest <url-or-path>").
		WithSuggestion("Set manifest_source in the config file or FPZ_MANIFEST_SOURCE").
		Wrap(pipeline.ErrNoManifestSource).
		BuildError()
}

func writePlan(w io.Writer, plan *pipeline.Plan, format string) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	case formatTOML:
		enc := toml.NewEncoder(w)
		enc.SetIndentTables(true)
		return enc.Encode(plan)
	default:
		renderPlanText(w, plan)
		return nil
	}
}

func renderPlanText(w io.Writer, plan *pipeline.Plan) {
	fmt.Fprintln(w, TitleStyle.Render("Install plan"))
	fmt.Fprintf(w, "%s: %s\n", CmdStyle.Render("Manifest"), plan.Source)
	fmt.Fprintf(w, "%s: %s\n", CmdStyle.Render("Category"), plan.Category)
	fmt.Fprintf(w, "%s: %s\n\n", CmdStyle.Render("Base URL"), plan.BaseURL)

	skipped := make(map[int]bool)
	rows := make([][]string, 0, len(plan.Components))
	for i, c := range plan.Components {
		status := "install"
		if !c.Eligible() {
			status = "skip"
			skipped[i] = true
		}
		path := c.Path
		if path == "" {
			path = "."
		}
		rows = append(rows, []string{c.ID, strconv.FormatInt(c.InstallSize, 10), path, status, c.URL})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(SubtitleStyle).
		Headers("COMPONENT", "SIZE", "PATH", "STATUS", "URL").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return tableHeaderStyle
			case skipped[row]:
				return tableSkippedStyle
			default:
				return tableCellStyle
			}
		})
	fmt.Fprintln(w, t.Render())

	fmt.Fprintf(w, "\n%d to install, %d skipped\n", len(plan.Eligible()), len(plan.Components)-len(plan.Eligible()))
}
