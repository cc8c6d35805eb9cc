// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/fpz/fpz/internal/config"
	"github.com/fpz/fpz/internal/logging"
	"github.com/fpz/fpz/internal/pipeline"
)

// buildFlags override the matching configuration keys when set.
type buildFlags struct {
	manifest   string
	stagingDir string
	output     string
	category   string
	logFile    string
}

func newBuildCommand(app *App) *cobra.Command {
	var flags buildFlags

	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "Download, extract and pack every component of a category",
		Long: `Build the component bundle.

The manifest is loaded and resolved first. Only then is the staging
directory deleted and recreated, every component with a non-zero
install size downloaded and extracted into it, a provenance record
written to Components/<id>, and the staging directory packed into the
output archive. Any failure stops the build.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, app, flags)
		},
	}

	buildCmd.Flags().StringVar(&flags.manifest, "manifest", "", "manifest URL or path (overrides manifest_source)")
	buildCmd.Flags().StringVar(&flags.stagingDir, "staging-dir", "", "staging directory (overrides staging_dir)")
	buildCmd.Flags().StringVarP(&flags.output, "output", "o", "", "output archive (overrides output_archive)")
	buildCmd.Flags().StringVar(&flags.category, "category", "", "top-level manifest category (overrides category)")
	buildCmd.Flags().StringVar(&flags.logFile, "log-file", "", "also append progress lines to this file (overrides log.file)")

	return buildCmd
}

func runBuild(cmd *cobra.Command, app *App, flags buildFlags) error {
	ctx := cmd.Context()

	cfg, _, err := app.loadConfig(ctx)
	if err != nil {
		return app.fail(cmd, err)
	}
	applyBuildFlags(cfg, flags)
	if err := requireManifestSource(cfg); err != nil {
		return app.fail(cmd, err)
	}

	logger, closer, err := logging.New(logging.Options{
		Writer:  app.stderr,
		Level:   string(cfg.Log.Level),
		Verbose: app.flags.verbose,
		File:    cfg.Log.File,
	})
	if err != nil {
		return app.fail(cmd, err)
	}
	defer func() { _ = closer.Close() }()
	slog.SetDefault(slog.New(logger))

	client := app.fetchClient(cfg)
	orch, err := pipeline.New(pipeline.Options{
		ManifestSource: cfg.ManifestSource,
		StagingDir:     cfg.StagingDir,
		OutputPath:     cfg.OutputArchive,
		Category:       string(cfg.Category),
	}, pipeline.Dependencies{
		Manifests: client,
		Archives:  client,
		Logger:    logger,
	})
	if err != nil {
		return app.fail(cmd, err)
	}

	report, err := orch.Run(ctx)
	if err != nil {
		return app.fail(cmd, err)
	}

	renderBuildSummary(app.stdout, report)
	return nil
}

// applyBuildFlags copies non-empty flag values over cfg.
func applyBuildFlags(cfg *config.Config, flags buildFlags) {
	if flags.manifest != "" {
		cfg.ManifestSource = flags.manifest
	}
	if flags.stagingDir != "" {
		cfg.StagingDir = flags.stagingDir
	}
	if flags.output != "" {
		cfg.OutputArchive = flags.output
	}
	if flags.category != "" {
		cfg.Category = config.Category(flags.category)
	}
	if flags.logFile != "" {
		cfg.Log.File = flags.logFile
	}
}

func renderBuildSummary(w io.Writer, report *pipeline.Report) {
	fmt.Fprintln(w, TitleStyle.Render("Bundle assembled"))
	fmt.Fprintln(w)

	skipped := make(map[int]bool)
	rows := make([][]string, 0, len(report.Installed)+len(report.Skipped))
	for _, inst := range report.Installed {
		path := inst.Path
		if path == "" {
			path = "."
		}
		rows = append(rows, []string{inst.ID, path, strconv.Itoa(len(inst.Files))})
	}
	for _, id := range report.Skipped {
		skipped[len(rows)] = true
		rows = append(rows, []string{id, "-", "skipped"})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(SubtitleStyle).
		Headers("COMPONENT", "PATH", "FILES").
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
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s %d installed, %d skipped\n",
		SuccessStyle.Render("✓"), len(report.Installed), len(report.Skipped))
	if res := report.Archive; res != nil {
		fmt.Fprintf(w, "%s: %s (%d files, %d directories, %d bytes)\n",
			CmdStyle.Render("Archive"), res.ArchivePath, res.FileCount, res.DirCount, res.TotalBytes)
	}
}
