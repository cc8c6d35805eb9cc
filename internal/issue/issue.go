// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

type Id int

const (
	ConfigLoadFailedId Id = iota + 1
	ManifestFetchFailedId
	ManifestFormatInvalidId
	ArchiveFetchFailedId
	ArchiveExtractionFailedId
	ProvenanceWriteFailedId
	AssemblyFailedId
	StagingResetFailedId
	PermissionDeniedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	extLinks []HttpLink  // listed under "See also"
}

func (i *Issue) Id() Id {
	return i.id
}

// Render renders the entry with glamour; stylePath is a glamour style name
// such as "dark".
func (i *Issue) Render(stylePath string) (string, error) {
	return render(i.markdown(), stylePath)
}

func (i *Issue) markdown() string {
	if len(i.extLinks) == 0 {
		return string(i.mdMsg)
	}
	var b strings.Builder
	b.WriteString(string(i.mdMsg))
	b.WriteString("\n\n## See also\n")
	for _, link := range i.extLinks {
		fmt.Fprintf(&b, "- [%s](%s)\n", link, link)
	}
	return b.String()
}

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The configuration file could not be read or does not match the schema.

## Things you can try:
- Show the effective configuration and where it was loaded from:
~~~
$ fpz config show
$ fpz config path
~~~

- Write a fresh default file and edit it:
~~~
$ fpz config init
~~~

## Example config.cue:
~~~cue
manifest_source: "https://example.com/dist/list.xml"
staging_dir:     "out/unzipped"
output_archive:  "out/fpz.zip"
category:        "core"
log: {
	file:  ""
	level: "info"
}
~~~`,
		extLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	manifestFetchFailedIssue = &Issue{
		id: ManifestFetchFailedId,
		mdMsg: `
# Failed to load the component manifest!

The manifest could not be downloaded, read, or parsed as XML.
The staging directory and output archive were left untouched.

## Things you can try:
- Check the manifest location in your configuration or pass it explicitly:
~~~
$ fpz build --manifest https://example.com/dist/list.xml
~~~

- Verify the document is reachable and well-formed:
~~~
$ fpz resolve --manifest ./list.xml
~~~`,
	}

	manifestFormatInvalidIssue = &Issue{
		id: ManifestFormatInvalidId,
		mdMsg: `
# The manifest is missing required information!

Every component needs ` + "`id`, `install-size` and `hash`" + ` attributes, and the
root element needs a ` + "`url`" + ` attribute with the archive base location.
` + "`install-size`" + ` must be a non-negative integer.

Components listed before the malformed one were already installed into the
staging directory; no output archive was produced.

## Example manifest:
~~~xml
<list url="https://example.com/dist">
  <category id="core">
    <component id="base" install-size="1024" hash="abc123" />
    <component id="tools" install-size="0" hash="" />
  </category>
</list>
~~~`,
	}

	archiveFetchFailedIssue = &Issue{
		id: ArchiveFetchFailedId,
		mdMsg: `
# Failed to download a component archive!

Archive URLs are built as ` + "`<root url>/<component id>.zip`" + `.

## Things you can try:
- List every archive URL without downloading anything:
~~~
$ fpz resolve
~~~

- Check that the server hosts the archive and that you are online.`,
	}

	archiveExtractionFailedIssue = &Issue{
		id: ArchiveExtractionFailedId,
		mdMsg: `
# Failed to extract a component archive!

The archive is corrupt, contains entries that would escape the staging
directory, or a destination file could not be written.

## Things you can try:
- Re-run the build; the staging directory is recreated on every run.
- Make sure no other process holds files in the staging directory open.
- Check that the component's ` + "`path`" + ` attribute is a relative path.`,
	}

	provenanceWriteFailedIssue = &Issue{
		id: ProvenanceWriteFailedId,
		mdMsg: `
# Failed to record component provenance!

Provenance records are written to ` + "`Components/<component id>`" + ` inside the
staging directory. Component ids must be valid file names.

## Things you can try:
- Check free disk space and permissions on the staging directory.
- Inspect the component ids with ` + "`fpz resolve`" + `.`,
	}

	assemblyFailedIssue = &Issue{
		id: AssemblyFailedId,
		mdMsg: `
# Failed to create the output archive!

Any partially written archive has been removed.

## Things you can try:
- Make sure the output path is writable and not inside the staging directory:
~~~
$ fpz build --output out/fpz.zip --staging-dir out/unzipped
~~~
- Check free disk space.`,
	}

	stagingResetFailedIssue = &Issue{
		id: StagingResetFailedId,
		mdMsg: `
# Failed to prepare the staging directory!

The staging directory is deleted and recreated at the start of every build.

## Things you can try:
- Close programs that hold files inside the staging directory.
- Choose another location:
~~~
$ fpz build --staging-dir /tmp/fpz-staging
~~~`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

fpz could not access a file or directory it needs.

## Things you can try:
- Check ownership of the staging directory, the output archive and the log file.
- Run the build from a directory you own.`,
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():        configLoadFailedIssue,
		manifestFetchFailedIssue.Id():     manifestFetchFailedIssue,
		manifestFormatInvalidIssue.Id():   manifestFormatInvalidIssue,
		archiveFetchFailedIssue.Id():      archiveFetchFailedIssue,
		archiveExtractionFailedIssue.Id(): archiveExtractionFailedIssue,
		provenanceWriteFailedIssue.Id():   provenanceWriteFailedIssue,
		assemblyFailedIssue.Id():          assemblyFailedIssue,
		stagingResetFailedIssue.Id():      stagingResetFailedIssue,
		permissionDeniedIssue.Id():        permissionDeniedIssue,
	}
)

// Values returns every catalogued issue ordered by id.
func Values() []*Issue {
	return slices.SortedFunc(maps.Values(issues), func(a, b *Issue) int {
		return int(a.id - b.id)
	})
}

func Get(id Id) *Issue {
	return issues[id]
}
