// Package livestatus extracts the currently served outpatient queue number
// from the supported hospital's rendered registration page.
package livestatus

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	mediqerrors "mediq/internal/errors"
	"mediq/internal/httpclient"
)

// Renderer fetches fully rendered page markup. The hospital page builds its
// queue table with JavaScript, so a plain GET is not enough.
type Renderer interface {
	Render(ctx context.Context, targetURL string) (string, error)
}

// RendererConfig holds the ScrapingBee-style rendering API settings.
type RendererConfig struct {
	APIKey      string
	BaseURL     string        // test override, defaults to the ScrapingBee endpoint
	WaitMillis  int           // in-page wait for JS rendering, default 8000
	CountryCode string        // proxy locale hint, default tw
	Timeout     time.Duration // per-call bound, default 30s
}

type scrapingBeeRenderer struct {
	config     RendererConfig
	httpClient *http.Client
}

// NewRenderer builds a renderer backed by the ScrapingBee API.
func NewRenderer(config RendererConfig) Renderer {
	if config.BaseURL == "" {
		config.BaseURL = "https://app.scrapingbee.com/api/v1"
	}
	if config.WaitMillis <= 0 {
		config.WaitMillis = 8000
	}
	if config.CountryCode == "" {
		config.CountryCode = "tw"
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	return &scrapingBeeRenderer{
		config:     config,
		httpClient: httpclient.New(config.Timeout),
	}
}

func (r *scrapingBeeRenderer) Render(ctx context.Context, targetURL string) (string, error) {
	if r.config.APIKey == "" {
		return "", fmt.Errorf("rendering API key not configured")
	}

	params := url.Values{}
	params.Set("api_key", r.config.APIKey)
	params.Set("url", targetURL)
	params.Set("render_js", "true")
	params.Set("wait", strconv.Itoa(r.config.WaitMillis))
	params.Set("country_code", r.config.CountryCode)
	params.Set("premium_proxy", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.config.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("render request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read rendered page: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", mediqerrors.NewHTTPStatusError(resp.StatusCode, "")
	}

	return string(body), nil
}
