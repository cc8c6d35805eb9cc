// SPDX-License-Identifier: MPL-2.0

// Package pipeline runs one bundle build: load the manifest and select the
// category, reset the staging tree, then resolve, fetch, extract and record
// every component in document order before repackaging the staging tree into
// the output archive.
//
// The run is strictly sequential and stops at the first failure. A malformed
// component stops it after the components before it were installed. The
// context is checked between steps so an interrupt ends the run cleanly.
package pipeline
