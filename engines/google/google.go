package google

import (
	"context"
	"net/http"
	"strings"

	"github.com/meghashyamc/picsearch/engines"
	"github.com/meghashyamc/picsearch/logger"
	"github.com/meghashyamc/picsearch/transport"
)

const (
	Name           = "Google"
	DefaultBaseURL = "https://www.google.com"

	challengeMarker = "Our systems have detected unusual traffic"
	sorryPath       = "/sorry/"
)

type Engine struct {
	cfg    engines.Config
	logger logger.Logger
}

func New(logger logger.Logger, cfg engines.Config) *Engine {
	return &Engine{
		cfg:    cfg.WithDefaults(DefaultBaseURL),
		logger: logger,
	}
}

func (e *Engine) Name() string {
	return Name
}

func (e *Engine) SearchURL(ctx context.Context, imageURL string, opts engines.Options) (*engines.Response, error) {
	page, err := e.SearchURLPage(ctx, imageURL, opts)
	if err != nil {
		return nil, err
	}
	return page.Response(), nil
}

func (e *Engine) SearchBytes(ctx context.Context, data []byte, opts engines.Options) (*engines.Response, error) {
	page, err := e.SearchBytesPage(ctx, data, opts)
	if err != nil {
		return nil, err
	}
	return page.Response(), nil
}

// SearchURLPage runs a search by image URL and returns the first result page
// with its pagination state.
func (e *Engine) SearchURLPage(ctx context.Context, imageURL string, opts engines.Options) (*Page, error) {
	client, err := e.newSession(opts)
	if err != nil {
		return nil, err
	}

	resp, err := e.fetch(ctx, client, &transport.Request{
		URL: e.cfg.BaseURL + "/searchbyimage",
		Query: map[string][]string{
			"image_url": {imageURL},
			"client":    {"Chrome"},
		},
		Header: http.Header{"Referer": {e.cfg.BaseURL}},
	})
	if err != nil {
		return nil, err
	}

	return e.parsePage(resp, 1, nil)
}

// SearchBytesPage uploads the image and returns the first result page with
// its pagination state.
func (e *Engine) SearchBytesPage(ctx context.Context, data []byte, opts engines.Options) (*Page, error) {
	client, err := e.newSession(opts)
	if err != nil {
		return nil, err
	}

	if _, err := engines.Do(ctx, Name, client, &transport.Request{URL: e.cfg.BaseURL}); err != nil {
		return nil, err
	}

	form := transport.NewForm().
		File("encoded_image", "image.jpg", "image/jpeg", data).
		Field("image_content", "")
	resp, err := e.fetch(ctx, client, &transport.Request{
		Method: http.MethodPost,
		URL:    e.cfg.BaseURL + "/searchbyimage/upload",
		Query: map[string][]string{
			"hl": {"en"},
			"gl": {"us"},
		},
		Header: http.Header{"Referer": {e.cfg.BaseURL}},
		Form:   form,
	})
	if err != nil {
		return nil, err
	}

	return e.parsePage(resp, 1, nil)
}

func (e *Engine) newSession(opts engines.Options) (*transport.Client, error) {
	return engines.NewSession(e.logger, Name, e.cfg, opts, engines.SessionOptions{Headers: defaultHeaders()})
}

func (e *Engine) fetch(ctx context.Context, client *transport.Client, req *transport.Request) (*transport.Response, error) {
	resp, err := engines.Do(ctx, Name, client, req)
	if err != nil {
		return nil, err
	}
	if strings.Contains(resp.URL, sorryPath) {
		return nil, &engines.ChallengeError{Engine: Name, Marker: sorryPath}
	}
	if err := engines.DetectChallenge(Name, resp.Text(), challengeMarker); err != nil {
		return nil, err
	}
	if err := engines.CheckStatus(Name, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func defaultHeaders() http.Header {
	return http.Header{
		"Accept":          {"text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8"},
		"Accept-Language": {"zh-CN,zh;q=0.9,en-US;q=0.8,en;q=0.7"},
	}
}
