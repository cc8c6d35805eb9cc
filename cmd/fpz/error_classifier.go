// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"os"

	"github.com/fpz/fpz/internal/assemble"
	"github.com/fpz/fpz/internal/config"
	"github.com/fpz/fpz/internal/fetch"
	"github.com/fpz/fpz/internal/issue"
	"github.com/fpz/fpz/internal/pipeline"
	"github.com/fpz/fpz/internal/staging"
	"github.com/fpz/fpz/pkg/component"
	"github.com/fpz/fpz/pkg/manifest"
	"github.com/fpz/fpz/pkg/types"
)

// classifyError maps a command failure to its issue catalog entry and
// process exit code. Domain sentinels win over os.ErrPermission, which
// only applies to failures outside the build steps.
func classifyError(err error) (issue.Id, types.ExitCode) {
	switch {
	case errors.Is(err, manifest.ErrManifestFetch):
		return issue.ManifestFetchFailedId, types.ExitManifest
	case errors.Is(err, component.ErrManifestFormat), errors.Is(err, manifest.ErrInvalidCategory):
		return issue.ManifestFormatInvalidId, types.ExitManifest
	case errors.Is(err, fetch.ErrArchiveFetch):
		return issue.ArchiveFetchFailedId, types.ExitArchiveFetch
	case errors.Is(err, staging.ErrArchiveExtraction):
		return issue.ArchiveExtractionFailedId, types.ExitExtraction
	case errors.Is(err, staging.ErrProvenanceWrite):
		return issue.ProvenanceWriteFailedId, types.ExitExtraction
	case errors.Is(err, staging.ErrReset):
		return issue.StagingResetFailedId, types.ExitExtraction
	case errors.Is(err, assemble.ErrAssembly):
		return issue.AssemblyFailedId, types.ExitAssembly
	case errors.Is(err, config.ErrInvalidConfig),
		errors.Is(err, config.ErrInvalidLoadOptions),
		errors.Is(err, config.ErrConfigExists),
		errors.Is(err, pipeline.ErrNoManifestSource):
		return issue.ConfigLoadFailedId, types.ExitConfig
	}

	var ae *issue.ActionableError
	if errors.As(err, &ae) && ae.Issue == issue.ConfigLoadFailedId {
		return issue.ConfigLoadFailedId, types.ExitConfig
	}
	if errors.Is(err, os.ErrPermission) {
		return issue.PermissionDeniedId, types.ExitFailure
	}
	return 0, types.ExitFailure
}
