// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"bytes"
	"io"
	"slices"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
)

// ZipEntry describes one member of an in-memory test archive.
// Names ending in "/" produce directory entries and ignore Body.
type ZipEntry struct {
	Name     string
	Body     string
	Modified time.Time
}

// MustZip builds a deflate-compressed zip archive from entries, in order.
// The test fails immediately if the archive cannot be written.
func MustZip(t testing.TB, entries ...ZipEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		header := &zip.FileHeader{Name: e.Name, Method: zip.Deflate, Modified: e.Modified}
		if e.Name != "" && e.Name[len(e.Name)-1] == '/' {
			header.Method = zip.Store
		}
		w, err := zw.CreateHeader(header)
		if err != nil {
			t.Fatalf("failed to create zip entry %s: %v", e.Name, err)
		}
		if header.Method == zip.Deflate {
			if _, err := io.WriteString(w, e.Body); err != nil {
				t.Fatalf("failed to write zip entry %s: %v", e.Name, err)
			}
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to finish zip archive: %v", err)
	}
	return buf.Bytes()
}

// ZipContents opens the archive at path and returns its entry names in
// sorted order together with the content of every file entry.
func ZipContents(t testing.TB, path string) (names []string, files map[string]string) {
	t.Helper()

	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("failed to open zip %s: %v", path, err)
	}
	defer DeferClose(t, zr)()

	files = make(map[string]string)
	for _, f := range zr.File {
		names = append(names, f.Name)
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("failed to open zip entry %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			t.Fatalf("failed to read zip entry %s: %v", f.Name, err)
		}
		files[f.Name] = string(data)
	}
	slices.Sort(names)
	return names, files
}
