// SPDX-License-Identifier: MPL-2.0

// Package component derives installable components from their position in a
// manifest tree.
//
// A component's identity is the hyphen-joined chain of id attributes from the
// outermost identified ancestor below the root down to the leaf. Its archive
// URL is the root url attribute, forced to end in a slash, followed by the
// identity and ".zip". Resolution is pure: it performs no I/O.
package component
