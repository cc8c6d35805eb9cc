// SPDX-License-Identifier: MPL-2.0

// Package fetch retrieves manifests and component archives over HTTP(S),
// from file:// URLs, or from plain local paths.
//
// Client satisfies manifest.Getter so the same transport serves both the
// manifest and the archives it references. Requests honor context
// cancellation; there are no timeouts or retries.
package fetch
