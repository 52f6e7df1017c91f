// Package zenrows retrieves rendered page HTML through the ZenRows
// anti-bot proxy.
package zenrows

import (
	"context"
	"fmt"
	"golang.org/x/time/rate"
	"io"
	"net/http"
	"net/url"
)

const defaultBaseURL = "https://api.zenrows.com/v1/"

// UpstreamError reports a failed proxy call: transport failure or a
// non-2xx proxy response. Callers decide whether to retry.
type UpstreamError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("proxy request for %s failed: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("proxy request for %s failed with status %d", e.URL, e.StatusCode)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client struct {
	httpClient  HTTPClient
	rateLimiter *rate.Limiter
	baseURL     string
	apiKey      string
}

func NewClient(apiKey string) *Client {
	return &Client{httpClient: &http.Client{}, baseURL: defaultBaseURL, apiKey: apiKey}
}

func (c *Client) SetHTTPClient(client HTTPClient) {
	c.httpClient = client
}

func (c *Client) SetBaseURL(baseURL string) {
	if baseURL != "" {
		c.baseURL = baseURL
	}
}

func (c *Client) SetRateLimit(maxRequestsPerSecond float32) {
	c.rateLimiter = rate.NewLimiter(rate.Limit(maxRequestsPerSecond), 1)
}

// GetPage fetches the rendered HTML of targetURL through the proxy. It
// does not retry; retrying is the caller's responsibility.
func (c *Client) GetPage(ctx context.Context, targetURL string) (string, error) {

	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("url", targetURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("error creating request: %v", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &UpstreamError{URL: targetURL, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &UpstreamError{URL: targetURL, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &UpstreamError{URL: targetURL, StatusCode: resp.StatusCode}
	}

	return string(body), nil
}
