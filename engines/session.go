package engines

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/meghashyamc/picsearch/logger"
	"github.com/meghashyamc/picsearch/transport"
	"golang.org/x/time/rate"
)

// Config holds what every engine needs to reach its upstream.
type Config struct {
	// BaseURL overrides the engine's public endpoint.
	BaseURL   string
	UserAgent string
	Limiter   *rate.Limiter
	Now       func() time.Time
}

// WithDefaults fills unset fields. The base URL never ends in a slash.
func (c Config) WithDefaults(defaultBaseURL string) Config {
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.UserAgent == "" {
		c.UserAgent = transport.DefaultUserAgent
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

type SessionOptions struct {
	Headers          http.Header
	DisableRedirects bool
}

// NewSession returns a client with a fresh cookie jar for a single search.
func NewSession(logger logger.Logger, engine string, cfg Config, opts Options, session SessionOptions) (*transport.Client, error) {
	client, err := transport.New(logger, transport.Config{
		UserAgent:        cfg.UserAgent,
		Headers:          session.Headers,
		Proxy:            opts.Proxy,
		Timeout:          opts.Timeout,
		DisableRedirects: session.DisableRedirects,
		Limiter:          cfg.Limiter,
	})
	if err != nil {
		return nil, &TransportError{Engine: engine, Err: err}
	}
	return client, nil
}

// Do sends req and classifies network failures as TransportError.
// Non-2xx responses are returned untouched.
func Do(ctx context.Context, engine string, client *transport.Client, req *transport.Request) (*transport.Response, error) {
	resp, err := client.Do(ctx, req)
	if err != nil {
		return nil, &TransportError{Engine: engine, Err: err}
	}
	return resp, nil
}

// DoOK is Do followed by CheckStatus.
func DoOK(ctx context.Context, engine string, client *transport.Client, req *transport.Request) (*transport.Response, error) {
	resp, err := Do(ctx, engine, client, req)
	if err != nil {
		return nil, err
	}
	if err := CheckStatus(engine, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func CheckStatus(engine string, resp *transport.Response) error {
	if resp.IsSuccess() {
		return nil
	}
	return &HTTPStatusError{Engine: engine, StatusCode: resp.StatusCode, Body: excerpt(resp.Body)}
}

// DetectChallenge reports a ChallengeError when body contains any marker.
func DetectChallenge(engine string, body string, markers ...string) error {
	for _, marker := range markers {
		if strings.Contains(body, marker) {
			return &ChallengeError{Engine: engine, Marker: marker}
		}
	}
	return nil
}
