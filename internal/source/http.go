package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sdujack2012/remic/internal/todo"
	"github.com/sdujack2012/remic/internal/tree"
)

var _ todo.Fetcher = (*HTTP)(nil)

const (
	defaultUserAgent = "remic/0.1"
	requestTimeout   = 5 * time.Second
	maxBodyBytes     = 4 << 20
)

// HTTP fetches to-dos as a JSON document from a URL.
type HTTP struct {
	endpoint  *url.URL
	http      *http.Client
	userAgent string
}

// NewHTTP builds a source for rawURL. A bare host:port is read as http.
func NewHTTP(rawURL string) (*HTTP, error) {
	endpoint, err := parseEndpoint(rawURL)
	if err != nil {
		return nil, err
	}
	return &HTTP{
		endpoint: endpoint,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// URL returns the endpoint being fetched.
func (h *HTTP) URL() string {
	return h.endpoint.String()
}

// Fetch retrieves and decodes the collection.
func (h *HTTP) Fetch(ctx context.Context) (tree.Map, error) {
	if h == nil {
		return nil, fmt.Errorf("source is nil")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%s returned status %d", h.endpoint.Path, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	doc, err := tree.ParseJSON(body)
	if err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return Collection(doc)
}

func parseEndpoint(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("to-dos url is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse to-dos url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("to-dos url %q has no host", raw)
	}
	u.Fragment = ""
	return u, nil
}
