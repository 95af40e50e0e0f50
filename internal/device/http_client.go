package device

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// HTTPClient talks to a terminal's REST bridge. Timeouts come from
// the device config; every call is also bounded by the caller's
// context.
type HTTPClient struct {
	cfg        Config
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient creates a client for one configured terminal.
func NewHTTPClient(cfg Config) *HTTPClient {
	return &HTTPClient{
		cfg:     cfg,
		baseURL: fmt.Sprintf("http://%s:%d", cfg.Host, cfg.Port),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Connect probes the terminal's status endpoint.
func (c *HTTPClient) Connect() error {
	resp, err := c.httpClient.Get(c.baseURL + "/api/status")
	if err != nil {
		return fmt.Errorf("device %s unreachable: %w", c.cfg.Addr(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("device %s status probe failed: %s", c.cfg.Addr(), resp.Status)
	}
	return nil
}

// FetchLogs pulls stored punch events, optionally since a cursor.
func (c *HTTPClient) FetchLogs(ctx context.Context, since *time.Time, progress func(done, total int)) ([]RawPunch, error) {
	apiURL := c.baseURL + "/api/logs"
	if since != nil {
		apiURL += "?since=" + url.QueryEscape(since.UTC().Format(time.RFC3339))
	}

	var result struct {
		Items []RawPunch `json:"items"`
		Total int        `json:"total"`
	}
	if err := c.getJSON(ctx, apiURL, &result); err != nil {
		return nil, err
	}

	if progress != nil {
		for i := range result.Items {
			progress(i+1, result.Total)
		}
	}
	return result.Items, nil
}

// FetchUsers pulls the terminal's user directory.
func (c *HTTPClient) FetchUsers(ctx context.Context) ([]RawUser, error) {
	var result struct {
		Items []RawUser `json:"items"`
	}
	if err := c.getJSON(ctx, c.baseURL+"/api/users", &result); err != nil {
		return nil, err
	}
	return result.Items, nil
}

// Subscribe long-polls the terminal's events endpoint and publishes
// each event into the returned channel. The channel is closed on
// cancellation or when the terminal stops responding.
func (c *HTTPClient) Subscribe(ctx context.Context) (<-chan RawPunch, error) {
	if c.cfg.InboundPort == 0 {
		return nil, fmt.Errorf("device %s does not support real-time events", c.cfg.Addr())
	}

	eventsURL := fmt.Sprintf("http://%s:%d/api/events", c.cfg.Host, c.cfg.InboundPort)
	ch := make(chan RawPunch)

	go func() {
		defer close(ch)
		for {
			var result struct {
				Items []RawPunch `json:"items"`
			}
			err := c.getJSON(ctx, eventsURL, &result)
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				// One failed long-poll ends the subscription; the
				// poller treats it like a lost connection and the
				// timer path keeps ingesting.
				return
			}
			for _, item := range result.Items {
				select {
				case ch <- item:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}

// Disconnect releases idle connections. The REST bridge is
// stateless, so there is no session to tear down.
func (c *HTTPClient) Disconnect() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) getJSON(ctx context.Context, apiURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("device %s request failed: %w", c.cfg.Addr(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("device %s returned %s for %s", c.cfg.Addr(), resp.Status, apiURL)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("device %s sent malformed response: %w", c.cfg.Addr(), err)
	}
	return nil
}
