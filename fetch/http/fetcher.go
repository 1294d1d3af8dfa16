package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/mwantia/fileobj/data"
)

// HTTPFetcher serves 'http:' and 'https:' addresses over the network.
// One instance handles exactly one scheme so both can share a client.
type HTTPFetcher struct {
	scheme string
	client *http.Client
}

// NewHTTPFetcher creates a network backed fetcher for the given scheme.
// A nil client falls back to a client with a 30 second timeout.
func NewHTTPFetcher(scheme string, client *http.Client) *HTTPFetcher {
	if client == nil {
		client = &http.Client{
			Timeout: 30 * time.Second,
		}
	}

	return &HTTPFetcher{
		scheme: scheme,
		client: client,
	}
}

// Scheme returns the address scheme handled by this fetcher
func (hf *HTTPFetcher) Scheme() string {
	return hf.scheme
}

// Open is part of the lifecycle behaviour and gets called when opening this fetcher
func (hf *HTTPFetcher) Open(ctx context.Context) error {
	// Nothing to initialize - connections are established per request
	return nil
}

// Close is part of the lifecycle behaviour and gets called when closing this fetcher
func (hf *HTTPFetcher) Close(ctx context.Context) error {
	hf.client.CloseIdleConnections()
	return nil
}

// Fetch issues a GET request and hands the response body to the caller.
func (hf *HTTPFetcher) Fetch(ctx context.Context, u *url.URL) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", data.ErrMalformedAddress, err)
	}

	resp, err := hf.client.Do(req)
	if err != nil {
		return nil, err
	}

	if err := hf.checkStatus(u, resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}

	return resp.Body, nil
}

// Head issues a HEAD request and maps the response headers to a stat.
func (hf *HTTPFetcher) Head(ctx context.Context, u *url.URL) (*data.ResourceStat, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", data.ErrMalformedAddress, err)
	}

	resp, err := hf.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := hf.checkStatus(u, resp.StatusCode); err != nil {
		return nil, err
	}

	stat := &data.ResourceStat{
		Key:         u.Path,
		Size:        resp.ContentLength,
		ContentType: data.ContentType(resp.Header.Get("Content-Type")),
		ETag:        resp.Header.Get("ETag"),
	}

	if lastModified := resp.Header.Get("Last-Modified"); lastModified != "" {
		if modTime, err := time.Parse(http.TimeFormat, lastModified); err == nil {
			stat.ModifyTime = modTime
		}
	}

	if stat.ContentType == "" {
		stat.ContentType = data.GetMIMEType(u.Path)
	}

	return stat, nil
}

// checkStatus maps response codes onto the shared error set.
func (hf *HTTPFetcher) checkStatus(u *url.URL, status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusNotFound || status == http.StatusGone:
		return fmt.Errorf("%w: '%s'", data.ErrNotExist, u)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: '%s'", data.ErrPermission, u)
	default:
		return fmt.Errorf("%w: unexpected status %d for '%s'", data.ErrBackendFailed, status, u)
	}
}
