package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to the external property-data API. Responses are opaque to
// this service: the payload is stored and served verbatim, never interpreted.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// FetchByAddress retrieves the provider's property payload for an address.
// Any transport error, timeout or non-2xx status is returned as an error;
// the caller decides whether to degrade or fail.
func (c *Client) FetchByAddress(ctx context.Context, address string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/properties", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	q := req.URL.Query()
	q.Add("address", address)
	req.URL.RawQuery = q.Encode()

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("property data request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("property data provider returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read provider response: %w", err)
	}

	if !json.Valid(body) {
		return nil, fmt.Errorf("provider returned invalid JSON")
	}

	return json.RawMessage(body), nil
}
