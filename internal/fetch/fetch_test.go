// SPDX-License-Identifier: MPL-2.0

package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/fpz/fpz/pkg/component"
)

func TestGet_HTTP(t *testing.T) {
	t.Parallel()

	userAgents := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgents <- r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("<list/>"))
	}))
	defer srv.Close()

	client := NewClient(WithHTTPClient(srv.Client()), WithUserAgent("fpz/test"))
	data, err := client.Get(context.Background(), srv.URL+"/manifest.xml")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(data) != "<list/>" {
		t.Errorf("body = %q", data)
	}
	if gotUA := <-userAgents; gotUA != "fpz/test" {
		t.Errorf("User-Agent = %q, want %q", gotUA, "fpz/test")
	}
}

func TestGet_DefaultUserAgent(t *testing.T) {
	t.Parallel()

	userAgents := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgents <- r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	if _, err := NewClient(WithUserAgent("")).Get(context.Background(), srv.URL); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if gotUA := <-userAgents; gotUA != DefaultUserAgent {
		t.Errorf("User-Agent = %q, want %q", gotUA, DefaultUserAgent)
	}
}

func TestGet_StatusError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := NewClient().Get(context.Background(), srv.URL+"/missing.zip")

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("error = %v, want *StatusError", err)
	}
	if statusErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want %d", statusErr.StatusCode, http.StatusNotFound)
	}
}

func TestGet_StatusClasses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{name: "ok", status: http.StatusOK},
		{name: "non-authoritative", status: http.StatusNonAuthoritativeInfo},
		{name: "partial content", status: http.StatusPartialContent},
		{name: "redirect not followed", status: http.StatusNotModified, wantErr: true},
		{name: "forbidden", status: http.StatusForbidden, wantErr: true},
		{name: "server error", status: http.StatusBadGateway, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				if tt.status != http.StatusNotModified {
					_, _ = w.Write([]byte("payload"))
				}
			}))
			defer srv.Close()

			data, err := NewClient(WithHTTPClient(srv.Client())).Get(context.Background(), srv.URL)
			if tt.wantErr {
				var statusErr *StatusError
				if !errors.As(err, &statusErr) {
					t.Fatalf("error = %v, want *StatusError", err)
				}
				if statusErr.StatusCode != tt.status {
					t.Errorf("StatusCode = %d, want %d", statusErr.StatusCode, tt.status)
				}
				return
			}
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if string(data) != "payload" {
				t.Errorf("body = %q, want %q", data, "payload")
			}
		})
	}
}

func TestGet_LocalSources(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.xml")
	if err := os.WriteFile(path, []byte("local"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		source string
	}{
		{name: "plain path", source: path},
		{name: "file url", source: "file://" + filepath.ToSlash(path)},
	}

	client := NewClient()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data, err := client.Get(context.Background(), tt.source)
			if err != nil {
				t.Fatalf("Get(%q) error = %v", tt.source, err)
			}
			if string(data) != "local" {
				t.Errorf("content = %q, want %q", data, "local")
			}
		})
	}
}

func TestGet_MissingLocalFile(t *testing.T) {
	t.Parallel()

	_, err := NewClient().Get(context.Background(), filepath.Join(t.TempDir(), "absent.xml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want os.ErrNotExist", err)
	}
}

func TestGet_UnsupportedScheme(t *testing.T) {
	t.Parallel()

	_, err := NewClient().Get(context.Background(), "ftp://example.com/list.xml")
	if !errors.Is(err, ErrUnsupportedScheme) {
		t.Errorf("error = %v, want ErrUnsupportedScheme", err)
	}
}

func TestGet_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient().Get(ctx, filepath.Join(t.TempDir(), "any.xml"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestFetchArchive(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/dist/core-a.zip" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte("PK"))
	}))
	defer srv.Close()

	client := NewClient()
	ok := component.Component{ID: "core-a", URL: srv.URL + "/dist/core-a.zip"}
	data, err := client.FetchArchive(context.Background(), ok)
	if err != nil {
		t.Fatalf("FetchArchive() error = %v", err)
	}
	if string(data) != "PK" {
		t.Errorf("data = %q", data)
	}

	bad := component.Component{ID: "core-b", URL: srv.URL + "/dist/core-b.zip"}
	_, err = client.FetchArchive(context.Background(), bad)
	if !errors.Is(err, ErrArchiveFetch) {
		t.Fatalf("error = %v, want ErrArchiveFetch", err)
	}
	var archiveErr *ArchiveError
	if !errors.As(err, &archiveErr) || archiveErr.ComponentID != "core-b" {
		t.Errorf("ArchiveError = %+v", archiveErr)
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("wrapped StatusError = %+v", statusErr)
	}
}
