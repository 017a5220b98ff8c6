package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/meghashyamc/picsearch/logger"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"
)

const (
	DefaultTimeout      = 30 * time.Second
	DefaultMaxRedirects = 10
	DefaultUserAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/133.0.0.0 Safari/537.36"

	defaultAcceptEncoding = "gzip, deflate, br, zstd"
)

// maxBodySize caps both the raw and the decoded body.
var maxBodySize int64 = 32 << 20

var ErrBodyTooLarge = errors.New("response body too large")

// sharedTransport is the connection pool used by every client without a proxy.
var sharedTransport = newBaseTransport()

type Config struct {
	UserAgent string
	// Headers are sent with every request; per-request headers override them.
	Headers http.Header
	Proxy   string
	Timeout time.Duration
	// MaxRedirects of 0 means DefaultMaxRedirects. Ignored when DisableRedirects is set.
	MaxRedirects     int
	DisableRedirects bool
	Limiter          *rate.Limiter
}

// Client issues HTTP requests with its own cookie jar. A Client is meant to
// back one logical search; do not share it between unrelated searches.
type Client struct {
	httpClient *http.Client
	headers    http.Header
	limiter    *rate.Limiter
	logger     logger.Logger
}

type Request struct {
	Method string
	URL    string
	Query  url.Values
	Header http.Header
	Body   []byte
	Form   *Form
}

type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	// URL is the final URL after any followed redirects.
	URL string
}

func New(logger logger.Logger, cfg Config) (*Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	roundTripper := sharedTransport
	if cfg.Proxy != "" {
		proxyURL, err := parseProxy(cfg.Proxy)
		if err != nil {
			logger.Error("invalid proxy", "proxy", cfg.Proxy, "err", err.Error())
			return nil, err
		}
		roundTripper = newBaseTransport()
		roundTripper.Proxy = http.ProxyURL(proxyURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	headers := cfg.Headers.Clone()
	if headers == nil {
		headers = http.Header{}
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if headers.Get("User-Agent") == "" {
		headers.Set("User-Agent", userAgent)
	}

	return &Client{
		httpClient: &http.Client{
			Transport:     roundTripper,
			Jar:           jar,
			Timeout:       timeout,
			CheckRedirect: redirectPolicy(cfg),
		},
		headers: headers,
		limiter: cfg.Limiter,
		logger:  logger,
	}, nil
}

func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	target, err := url.Parse(req.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid request url %q: %w", req.URL, err)
	}
	if len(req.Query) > 0 {
		query := target.Query()
		for key, values := range req.Query {
			for _, value := range values {
				query.Add(key, value)
			}
		}
		target.RawQuery = query.Encode()
	}

	var body io.Reader
	contentType := ""
	switch {
	case req.Form != nil:
		encoded, formContentType, err := req.Form.encode()
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(encoded)
		contentType = formContentType
	case req.Body != nil:
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, values := range c.headers {
		httpReq.Header[key] = append([]string(nil), values...)
	}
	for key, values := range req.Header {
		httpReq.Header[http.CanonicalHeaderKey(key)] = append([]string(nil), values...)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if httpReq.Header.Get("Accept-Encoding") == "" {
		httpReq.Header.Set("Accept-Encoding", defaultAcceptEncoding)
	}

	c.logger.Debug("outbound request", "method", method, "url", target.String())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, target.Redacted(), err)
	}
	defer resp.Body.Close()

	raw, err := readLimited(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	decoded, err := decodeBody(resp.Header.Get("Content-Encoding"), raw)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("inbound response", "url", resp.Request.URL.String(), "status", resp.StatusCode, "bytes", len(decoded))

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       decoded,
		URL:        resp.Request.URL.String(),
	}, nil
}

// readLimited reads r to the end and fails instead of truncating when it holds
// more than maxBodySize bytes.
func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBodySize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBodySize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, maxBodySize)
	}
	return data, nil
}

func (r *Response) Text() string {
	return string(r.Body)
}

func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (r *Response) IsRedirect() bool {
	return r.StatusCode >= 300 && r.StatusCode < 400
}

// Location resolves the Location header against the response URL.
func (r *Response) Location() (string, error) {
	location := r.Header.Get("Location")
	if location == "" {
		return "", errors.New("response has no Location header")
	}
	base, err := url.Parse(r.URL)
	if err != nil {
		return "", fmt.Errorf("invalid response url: %w", err)
	}
	ref, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("invalid Location header %q: %w", location, err)
	}

	return base.ResolveReference(ref).String(), nil
}

func redirectPolicy(cfg Config) func(*http.Request, []*http.Request) error {
	if cfg.DisableRedirects {
		return func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}
	maxRedirects := cfg.MaxRedirects
	if maxRedirects <= 0 {
		maxRedirects = DefaultMaxRedirects
	}

	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return fmt.Errorf("stopped after %d redirects", maxRedirects)
		}
		return nil
	}
}

func parseProxy(proxy string) (*url.URL, error) {
	proxyURL, err := url.Parse(proxy)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy %q: %w", proxy, err)
	}
	if proxyURL.Scheme == "" || proxyURL.Host == "" {
		return nil, fmt.Errorf("invalid proxy %q: scheme and host are required", proxy)
	}

	return proxyURL, nil
}

func newBaseTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   15 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		// Accept-Encoding is always set explicitly and decoded in decodeBody.
		DisableCompression: true,
	}
}
