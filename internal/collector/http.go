package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"MetalCharts/internal/model"
)

// maxPayloadBytes bounds a single upstream response.
const maxPayloadBytes = 16 << 20

// HTTPFetcher implements Fetcher against the dashboard's REST API.
type HTTPFetcher struct {
	BaseURL string
	APIKey  string
	Paths   map[Kind]string
	Client  *http.Client
}

// NewHTTPFetcher creates a new fetcher with optional proxy support.
func NewHTTPFetcher(baseURL, apiKey, proxyURL string, timeout time.Duration, paths map[Kind]string) *HTTPFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Paths:   paths,
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

func (f *HTTPFetcher) Name() string { return "http" }

// Fetch returns the raw body of the payload of the given kind. Every
// failure wraps model.ErrUpstreamFetch.
func (f *HTTPFetcher) Fetch(ctx context.Context, kind Kind) ([]byte, error) {
	path, ok := f.Paths[kind]
	if !ok {
		return nil, fmt.Errorf("fetch %s: no path configured: %w", kind, model.ErrUpstreamFetch)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.BaseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w: %w", kind, model.ErrUpstreamFetch, err)
	}
	req.Header.Set("Accept", "application/json")
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w: %w", kind, model.ErrUpstreamFetch, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch %s: status %d, body: %s: %w", kind, resp.StatusCode, string(body), model.ErrUpstreamFetch)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w: %w", kind, model.ErrUpstreamFetch, err)
	}
	return body, nil
}
