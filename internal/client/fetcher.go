package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Request is one category fetch for a widget instance.
type Request struct {
	Action     string
	Token      string
	Selection  string
	InstanceID string
}

// Fetcher posts a Request to the filter endpoint and returns the raw body.
type Fetcher interface {
	Fetch(ctx context.Context, req Request) ([]byte, error)
}

// HTTPFetcher posts form-encoded requests to the filter endpoint. The body is
// returned for any status; the controller decides whether it is usable.
type HTTPFetcher struct {
	endpoint   string
	locale     string
	httpClient *http.Client
}

// NewHTTPFetcher builds a fetcher. A nil client uses http.DefaultClient and
// its default timeouts.
func NewHTTPFetcher(endpoint, locale string, httpClient *http.Client) *HTTPFetcher {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPFetcher{endpoint: endpoint, locale: locale, httpClient: httpClient}
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, req Request) ([]byte, error) {
	form := url.Values{
		"action":     {req.Action},
		"token":      {req.Token},
		"selection":  {req.Selection},
		"instanceId": {req.InstanceID},
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, f.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build filter request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if f.locale != "" {
		httpReq.Header.Set("Accept-Language", f.locale)
	}

	resp, err := f.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("filter request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read filter response: %w", err)
	}
	return body, nil
}

var _ Fetcher = (*HTTPFetcher)(nil)
