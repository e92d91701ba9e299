package upstream

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client probes the readiness endpoint of a backend service.
type Client struct {
	name       string
	baseURL    string
	httpClient *http.Client
}

func NewClient(name, baseURL string) *Client {
	return &Client{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

func (c *Client) Name() string { return c.name }

func (c *Client) Ready(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health/ready", nil)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", c.name, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: do request: %w", c.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: not ready, status %d", c.name, resp.StatusCode)
	}
	return nil
}

// ReadyAll returns the first failing upstream.
func ReadyAll(ctx context.Context, clients ...*Client) error {
	for _, c := range clients {
		if err := c.Ready(ctx); err != nil {
			return err
		}
	}
	return nil
}
