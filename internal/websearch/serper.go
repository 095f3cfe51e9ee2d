// Package websearch wraps the Serper web-search API. Results ground answers
// for queries the staff directory cannot serve; failures degrade to an empty
// result upstream.
package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	mediqerrors "mediq/internal/errors"
	"mediq/internal/httpclient"
	"mediq/internal/observability"
	"mediq/internal/types"
)

const defaultBaseURL = "https://google.serper.dev/search"

// Config holds the Serper client settings.
type Config struct {
	APIKey  string
	BaseURL string        // test override
	Locale  string        // gl parameter, default tw
	Lang    string        // hl parameter, default zh-tw
	Timeout time.Duration // per-call bound, default 10s
}

// Client calls the Serper search API.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *observability.Logger
}

// NewClient builds a web-search client. An empty API key disables the
// client: Search then returns no snippets and no error.
func NewClient(config Config, logger *observability.Logger) *Client {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Locale == "" {
		config.Locale = "tw"
	}
	if config.Lang == "" {
		config.Lang = "zh-tw"
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	return &Client{
		config:     config,
		httpClient: httpclient.NewWithCircuitBreaker(config.Timeout, "serper"),
		logger:     observability.OrNop(logger).WithComponent("websearch"),
	}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.config.APIKey != ""
}

// Search returns up to num ranked snippets for the query.
func (c *Client) Search(ctx context.Context, query string, num int) ([]types.WebSnippet, error) {
	if !c.Enabled() {
		c.logger.Debug("web search disabled, no API key")
		return nil, nil
	}
	if num <= 0 {
		num = 5
	}

	reqBody := map[string]any{
		"q":   query,
		"num": num,
		"gl":  c.config.Locale,
		"hl":  c.config.Lang,
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, mediqerrors.NewHTTPStatusError(resp.StatusCode, "")
	}

	var serperResp struct {
		Organic []struct {
			Title   string `json:"title"`
			Link    string `json:"link"`
			Snippet string `json:"snippet"`
		} `json:"organic"`
	}
	if err := json.Unmarshal(respBody, &serperResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	snippets := make([]types.WebSnippet, 0, len(serperResp.Organic))
	for _, r := range serperResp.Organic {
		snippets = append(snippets, types.WebSnippet{
			Title:   r.Title,
			URL:     r.Link,
			Snippet: r.Snippet,
		})
	}

	c.logger.Debug("web search completed", "query", query, "results", len(snippets))
	return snippets, nil
}
