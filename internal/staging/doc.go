// SPDX-License-Identifier: MPL-2.0

// Package staging owns the staging tree: the directory that component
// archives are extracted into and that provenance records are written to
// before the whole tree is repackaged.
//
// All writes go through a go-billy filesystem. On disk this is an osfs
// filesystem chrooted at the staging root, so no entry can be written outside
// of it; tests may substitute any other billy.Filesystem.
package staging
