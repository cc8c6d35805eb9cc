// SPDX-License-Identifier: MPL-2.0

// Package issue is the catalog of fpz failure classes and the error type
// commands return to point at them.
//
// Each catalog entry is Markdown rendered with glamour below the one-line
// error: what went wrong during a build and the commands that help. An
// ActionableError names the failed operation, the file or URL involved,
// concrete suggestions and, optionally, the catalog entry to render.
package issue
