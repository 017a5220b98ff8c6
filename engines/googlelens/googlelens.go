package googlelens

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/meghashyamc/picsearch/engines"
	"github.com/meghashyamc/picsearch/logger"
	"github.com/meghashyamc/picsearch/transport"
)

const (
	Name           = "Google Lens"
	DefaultBaseURL = "https://lens.google.com"

	challengeMarker = "Our systems have detected unusual traffic"
	maxRedirects    = 10
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
	client, err := engines.NewSession(e.logger, Name, e.cfg, opts, engines.SessionOptions{Headers: defaultHeaders()})
	if err != nil {
		return nil, err
	}

	resp, err := engines.Do(ctx, Name, client, &transport.Request{
		URL: e.cfg.BaseURL + "/uploadbyurl",
		Query: url.Values{
			"url": {imageURL},
			"hl":  {"en"},
			"gl":  {"us"},
		},
		Header: http.Header{"Referer": {e.cfg.BaseURL}},
	})
	if err != nil {
		return nil, err
	}

	return e.parse(resp)
}

// SearchBytes uploads the image. The upload answers with a redirect to the
// results page, which is requested manually so viewport parameters can be
// added first.
func (e *Engine) SearchBytes(ctx context.Context, data []byte, opts engines.Options) (*engines.Response, error) {
	client, err := engines.NewSession(e.logger, Name, e.cfg, opts, engines.SessionOptions{
		Headers:          defaultHeaders(),
		DisableRedirects: true,
	})
	if err != nil {
		return nil, err
	}

	if _, err := engines.Do(ctx, Name, client, &transport.Request{URL: e.cfg.BaseURL}); err != nil {
		return nil, err
	}

	uploadURL := e.cfg.BaseURL + "/upload"
	form := transport.NewForm().
		File("encoded_image", "image.jpg", "image/jpeg", data).
		Field("image_content", "")
	upload, err := engines.Do(ctx, Name, client, &transport.Request{
		Method: http.MethodPost,
		URL:    uploadURL,
		Query: url.Values{
			"hl": {"en"},
			"gl": {"us"},
		},
		Header: http.Header{"Referer": {e.cfg.BaseURL}},
		Form:   form,
	})
	if err != nil {
		return nil, err
	}
	if !upload.IsRedirect() {
		if err := engines.CheckStatus(Name, upload); err != nil {
			return nil, err
		}
		return nil, &engines.ExtractionError{Engine: Name, Reason: "upload did not redirect to a results page"}
	}

	location, err := upload.Location()
	if err != nil {
		return nil, &engines.ExtractionError{Engine: Name, Reason: "upload redirect has no location", Err: err}
	}
	resultsURL, err := e.withViewport(location)
	if err != nil {
		return nil, &engines.ExtractionError{Engine: Name, Reason: "invalid results location", Err: err}
	}

	resp, err := e.follow(ctx, client, resultsURL, followHeaders(uploadURL))
	if err != nil {
		return nil, err
	}

	return e.parse(resp)
}

func (e *Engine) withViewport(location string) (string, error) {
	target, err := url.Parse(location)
	if err != nil {
		return "", err
	}
	query := target.Query()
	query.Set("qsubts", strconv.FormatInt(e.cfg.Now().UnixMilli(), 10))
	query.Set("biw", "1920")
	query.Set("bih", "911")
	target.RawQuery = query.Encode()
	return target.String(), nil
}

// follow GETs target on a client with redirects disabled, following up to
// maxRedirects hops itself so the session cookies are kept.
func (e *Engine) follow(ctx context.Context, client *transport.Client, target string, header http.Header) (*transport.Response, error) {
	resp, err := engines.Do(ctx, Name, client, &transport.Request{URL: target, Header: header})
	if err != nil {
		return nil, err
	}
	for hops := 0; resp.IsRedirect() && hops < maxRedirects; hops++ {
		next, err := resp.Location()
		if err != nil {
			break
		}
		resp, err = engines.Do(ctx, Name, client, &transport.Request{URL: next, Header: header})
		if err != nil {
			return nil, err
		}
	}
	return resp, nil
}

func (e *Engine) parse(resp *transport.Response) (*engines.Response, error) {
	if err := engines.DetectChallenge(Name, resp.Text(), challengeMarker); err != nil {
		return nil, err
	}
	if err := engines.CheckStatus(Name, resp); err != nil {
		return nil, err
	}

	root, err := carvePrerender(resp.Body)
	if err != nil {
		return nil, err
	}
	results := toResults(root)
	e.logger.Debug("parsed google lens results", "count", len(results))

	return &engines.Response{PageURL: resp.URL, Results: results}, nil
}

func defaultHeaders() http.Header {
	return http.Header{
		"Accept":          {"text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8"},
		"Accept-Language": {"zh-CN,zh;q=0.9,en-US;q=0.8,en;q=0.7"},
	}
}

func followHeaders(referer string) http.Header {
	return http.Header{
		"Referer":                   {referer},
		"Sec-Ch-Ua":                 {`"Not(A:Brand";v="99", "Google Chrome";v="133", "Chromium";v="133"`},
		"Sec-Ch-Ua-Mobile":          {"?0"},
		"Sec-Ch-Ua-Platform":        {"Windows"},
		"Sec-Fetch-Dest":            {"document"},
		"Sec-Fetch-Mode":            {"navigate"},
		"Sec-Fetch-Site":            {"same-origin"},
		"Sec-Fetch-User":            {"?1"},
		"Upgrade-Insecure-Requests": {"1"},
	}
}
