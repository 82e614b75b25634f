package source

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/member-platform/member-qa/internal/model"
)

// Options configures the message source client.
type Options struct {
	URL       string
	UserAgent string
	Timeout   time.Duration
	RateLimit rate.Limit
}

// Client fetches the member message list from the remote endpoint.
type Client struct {
	url     string
	ua      string
	client  *http.Client
	limiter *rate.Limiter
}

// NewClient creates a message source client with the given options.
func NewClient(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "member-qa/1.0"
	}
	if opts.RateLimit == 0 {
		opts.RateLimit = 5
	}
	burst := 1
	if opts.RateLimit > 1 && opts.RateLimit != rate.Inf {
		burst = int(opts.RateLimit)
	}
	return &Client{
		url: opts.URL,
		ua:  opts.UserAgent,
		client: &http.Client{
			Timeout: opts.Timeout,
		},
		limiter: rate.NewLimiter(opts.RateLimit, burst),
	}
}

// Fetch performs one GET against the message endpoint and returns the
// decoded records. The endpoint answers with either a {total, items}
// envelope or a bare array; a lone object is wrapped in a one-element list.
// Redirects are followed. Records keep whatever shape the feed sent them
// in, including non-object items.
func (c *Client) Fetch(ctx context.Context) ([]model.Record, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "source: rate limiter wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, eris.Wrap(err, "source: create request")
	}
	req.Header.Set("User-Agent", c.ua)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "source: fetch messages")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, eris.Errorf("source: unexpected status %d from %s", resp.StatusCode, c.url)
	}

	var payload any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, eris.Wrap(err, "source: decode response")
	}

	records, err := unwrap(payload)
	if err != nil {
		return nil, err
	}

	zap.L().Debug("fetched member messages", zap.Int("count", len(records)))
	return records, nil
}

// unwrap extracts the record list from the response payload.
func unwrap(payload any) ([]model.Record, error) {
	switch v := payload.(type) {
	case map[string]any:
		raw, ok := v["items"]
		if !ok {
			// A lone object is treated as a one-record list.
			return []model.Record{v}, nil
		}
		items, ok := raw.([]any)
		if !ok {
			return nil, eris.Errorf("source: envelope items is %T, not an array", raw)
		}
		return items, nil
	case []any:
		return v, nil
	default:
		return []model.Record{v}, nil
	}
}
