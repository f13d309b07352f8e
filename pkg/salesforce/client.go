// Package salesforce provides client-credentials REST API access to
// Salesforce, scoped to the Lead operations this service performs.
package salesforce

import (
	"context"
	"fmt"

	"github.com/k-capehart/go-salesforce/v3"
	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Client defines the Salesforce operations used by the CRM sink.
type Client interface {
	InsertLead(ctx context.Context, fields map[string]any) (string, error)
}

// Config holds client-credentials OAuth settings. The underlying library
// owns the token lifecycle (Salesforce tokens last about two hours and
// are refreshed before expiry), so callers construct this client once per
// process and reuse it.
type Config struct {
	LoginURL     string
	ClientID     string
	ClientSecret string
}

// ClientOption configures the Salesforce client.
type ClientOption func(*sfClient)

// WithRateLimit sets a per-second rate limit for SF API calls.
// A burst equal to the integer portion of rps is allowed.
func WithRateLimit(rps float64) ClientOption {
	return func(c *sfClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
		}
	}
}

// sfClient wraps the go-salesforce/v3 Salesforce struct.
//
// NOTE: The underlying go-salesforce/v3 library does not accept
// context.Context, so the SF call itself ignores ctx. The ctx is still
// used for rate limiter waiting, so callers can cancel that wait.
type sfClient struct {
	sf      *salesforce.Salesforce
	limiter *rate.Limiter
}

// New authenticates with the client-credentials flow and returns a Client.
func New(cfg Config, opts ...ClientOption) (Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, eris.New("sf: client credentials are required")
	}

	sf, err := salesforce.Init(salesforce.Creds{
		Domain:         cfg.LoginURL,
		ConsumerKey:    cfg.ClientID,
		ConsumerSecret: cfg.ClientSecret,
	})
	if err != nil {
		return nil, eris.Wrap(err, "sf: init")
	}

	return NewClient(sf, opts...), nil
}

// NewClient wraps an already-initialized go-salesforce instance.
func NewClient(sf *salesforce.Salesforce, opts ...ClientOption) Client {
	c := &sfClient{sf: sf}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// wait blocks until the rate limiter allows one event, or ctx is cancelled.
func (c *sfClient) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

func (c *sfClient) InsertLead(ctx context.Context, fields map[string]any) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", eris.Wrap(err, "sf: rate limit")
	}
	result, err := c.sf.InsertOne("Lead", fields)
	if err != nil {
		return "", eris.Wrap(err, "sf: insert Lead")
	}
	if !result.Success {
		return "", eris.New(fmt.Sprintf("sf: insert Lead failed: %v", result.Errors))
	}
	return result.Id, nil
}
