// SPDX-License-Identifier: MPL-2.0

package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/fpz/fpz/pkg/component"
)

// DefaultUserAgent is sent when no WithUserAgent option is given.
const DefaultUserAgent = "fpz"

var (
	// ErrArchiveFetch is the sentinel wrapped by ArchiveError.
	ErrArchiveFetch = errors.New("component archive fetch failed")

	// ErrUnsupportedScheme is returned for URL schemes other than http, https and file.
	ErrUnsupportedScheme = errors.New("unsupported URL scheme")
)

type (
	// StatusError is returned when a server answers with a non-200 status.
	StatusError struct {
		URL        string
		StatusCode int
		Status     string
	}

	// ArchiveError reports that a component archive could not be retrieved.
	// It matches both ErrArchiveFetch and the cause under errors.Is.
	ArchiveError struct {
		ComponentID string
		URL         string
		Err         error
	}

	// Client retrieves raw bytes from remote or local sources.
	Client struct {
		httpClient *http.Client
		userAgent  string
	}

	// Option configures a Client during construction.
	Option func(*Client)
)

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %s", e.URL, e.Status)
}

// Error implements the error interface.
func (e *ArchiveError) Error() string {
	return fmt.Sprintf("fetch archive for %s from %s: %v", e.ComponentID, e.URL, e.Err)
}

// Unwrap returns the sentinel and the underlying cause.
func (e *ArchiveError) Unwrap() []error {
	return []error{ErrArchiveFetch, e.Err}
}

// WithHTTPClient sets a custom HTTP client, useful for tests or proxy configurations.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithUserAgent sets the User-Agent header sent with every HTTP request.
func WithUserAgent(ua string) Option {
	return func(cl *Client) {
		if ua != "" {
			cl.userAgent = ua
		}
	}
}

// NewClient creates a Client using http.DefaultClient unless overridden.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		userAgent:  DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the full content at source. Sources with an http or https
// scheme are requested with GET; file URLs and scheme-less strings are read
// from the local filesystem.
func (c *Client) Get(ctx context.Context, source string) ([]byte, error) {
	u, err := url.Parse(source)
	if err != nil || u.Scheme == "" || isDriveLetter(u.Scheme) {
		return readLocal(ctx, source)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return c.getHTTP(ctx, u.String())
	case "file":
		path := u.Path
		if u.Host != "" && u.Host != "localhost" {
			path = "//" + u.Host + path
		}
		return readLocal(ctx, filepath.FromSlash(path))
	default:
		return nil, fmt.Errorf("%w %q in %s", ErrUnsupportedScheme, u.Scheme, source)
	}
}

// FetchArchive downloads the archive of comp from its URL.
func (c *Client) FetchArchive(ctx context.Context, comp component.Component) ([]byte, error) {
	data, err := c.Get(ctx, comp.URL)
	if err != nil {
		return nil, &ArchiveError{ComponentID: comp.ID, URL: comp.URL, Err: err}
	}
	return data, nil
}

func (c *Client) getHTTP(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body from %s: %w", rawURL, err)
	}
	return data, nil
}

func readLocal(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// isDriveLetter reports whether a parsed scheme is really a Windows drive
// letter, as in "C:\manifests\list.xml".
func isDriveLetter(scheme string) bool {
	return len(scheme) == 1
}
