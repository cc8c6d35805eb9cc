// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for fpz.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/fpz/fpz/pkg/types"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the fpz command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fpz",
		Short: "Assemble a component bundle from a manifest",
		Long: TitleStyle.Render("fpz") + SubtitleStyle.Render(" - component bundle assembler") + `

fpz reads an XML component manifest, downloads the zip archive of every
component in the selected category, extracts them into a staging directory,
records which files each component installed under Components/, and packs
the staging directory into a single zip archive.

` + SubtitleStyle.Render("Examples:") + `
  fpz build --manifest https://dist.example/list.xml   Build the core bundle
  fpz resolve --format json                            Show the install plan
  fpz config init                                      Create a config file`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&app.flags.configPath, "config", "", "config file (default is $HOME/.config/fpz/config.cue)")
	rootCmd.PersistentFlags().StringVar(&app.flags.envFile, "env-file", "", "dotenv file with FPZ_* overrides")

	rootCmd.AddCommand(newBuildCommand(app))
	rootCmd.AddCommand(newResolveCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// userAgent is the User-Agent sent when the configuration does not set one.
func userAgent() string {
	return "fpz/" + Version
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(errorHandler),
	); err != nil {
		os.Exit(int(exitCode(err)))
	}
}

// exitCode returns the process status for an error returned by the root
// command.
func exitCode(err error) types.ExitCode {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Code != types.ExitSuccess && exitErr.Code.Validate() == nil {
		return exitErr.Code
	}
	return types.ExitFailure
}

// errorHandler leaves ExitErrors alone since they were rendered by the
// failing command.
func errorHandler(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}
