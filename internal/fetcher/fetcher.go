// Package fetcher downloads submission archives over HTTP.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrDownload wraps every failure to obtain an archive.
var ErrDownload = errors.New("download failed")

// StatusError reports a non-2xx response from the archive host.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s returned status %d", e.URL, e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return ErrDownload
}

// Archive is an open archive download. Callers must close Body.
type Archive struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
}

// Client fetches archives with a shared http.Client.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// New returns a Client whose requests time out after timeout.
func New(timeout time.Duration, userAgent string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent: userAgent,
	}
}

// NewWithHTTPClient wraps an existing http.Client.
func NewWithHTTPClient(httpClient *http.Client, userAgent string) *Client {
	return &Client{httpClient: httpClient, userAgent: userAgent}
}

// Fetch issues a GET for rawURL. Any non-2xx status closes the body and
// returns a *StatusError.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*Archive, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrDownload, err)
	}
	if c.userAgent != "" {
		request.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("%w: send request: %v", ErrDownload, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/zip"
	}

	return &Archive{
		Body:          resp.Body,
		ContentType:   contentType,
		ContentLength: resp.ContentLength,
	}, nil
}

// HasArchiveSuffix reports whether rawURL parses as an absolute http(s) URL
// whose path ends in suffix (case-insensitive).
func HasArchiveSuffix(rawURL, suffix string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	if u.Host == "" {
		return false
	}
	return strings.HasSuffix(strings.ToLower(u.Path), strings.ToLower(suffix))
}
