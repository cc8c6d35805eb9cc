// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/fpz/fpz/internal/config"
	"github.com/fpz/fpz/internal/fetch"
	"github.com/fpz/fpz/internal/issue"
)

type (
	// App wires CLI services and shared dependencies. All Cobra command
	// handlers receive an App reference.
	App struct {
		Config     config.Provider
		httpClient *http.Client
		stdout     io.Writer
		stderr     io.Writer
		flags      rootFlags
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config config.Provider
		// HTTPClient is used for manifest and archive downloads.
		HTTPClient *http.Client
		Stdout     io.Writer
		Stderr     io.Writer
	}

	// rootFlags holds the persistent flags of the root command.
	rootFlags struct {
		verbose    bool
		configPath string
		envFile    string
	}
)

// NewApp creates an App, filling nil dependencies with production defaults.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config:     deps.Config,
		httpClient: deps.HTTPClient,
		stdout:     deps.Stdout,
		stderr:     deps.Stderr,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

// loadOptions returns the config load options selected by the global flags.
func (a *App) loadOptions() config.LoadOptions {
	return config.LoadOptions{
		ConfigFilePath: a.flags.configPath,
		EnvFile:        a.flags.envFile,
	}
}

// loadConfig loads the configuration for a command invocation.
func (a *App) loadConfig(ctx context.Context) (*config.Config, string, error) {
	return a.Config.Load(ctx, a.loadOptions())
}

// fetchClient builds the download client for cfg.
func (a *App) fetchClient(cfg *config.Config) *fetch.Client {
	ua := cfg.HTTP.UserAgent
	if ua == "" {
		ua = userAgent()
	}
	opts := []fetch.Option{fetch.WithUserAgent(ua)}
	if a.httpClient != nil {
		opts = append(opts, fetch.WithHTTPClient(a.httpClient))
	}
	return fetch.NewClient(opts...)
}

// fail renders err with its issue catalog entry and converts it into an
// ExitError carrying the mapped exit code.
func (a *App) fail(cmd *cobra.Command, err error) error {
	svcErr := newServiceError(err, a.flags.verbose)
	renderServiceError(a.stderr, svcErr, issueStyle())

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return &ExitError{Code: svcErr.Code, Err: err}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
