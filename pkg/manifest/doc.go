// SPDX-License-Identifier: MPL-2.0

// Package manifest loads and navigates fpz component manifests.
//
// A manifest is an XML document whose root element carries the base download
// URL in its "url" attribute. Nested "category" elements group components and
// may contribute an "id" segment to the identifiers of their descendants. Leaf
// "component" elements describe one downloadable archive each:
//
//	<list url="https://example.com/components/">
//	  <category id="core">
//	    <category id="runtime">
//	      <component id="base" install-size="1024" hash="abc" path="bin" />
//	    </category>
//	  </category>
//	</list>
//
// The parsed Tree is read-only. Nodes expose attribute lookups that report
// presence explicitly, so optional attributes are defaulted by the caller
// without any error handling.
package manifest
