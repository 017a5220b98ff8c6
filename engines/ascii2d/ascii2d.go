package ascii2d

import (
	"bytes"
	"context"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/meghashyamc/picsearch/engines"
	"github.com/meghashyamc/picsearch/logger"
	"github.com/meghashyamc/picsearch/transport"
)

const (
	Name           = "ASCII2D"
	DefaultBaseURL = "https://ascii2d.net"

	challengeMarker = "Just a moment..."
	featurePath     = "/search/bovw/"
)

// Engine searches ascii2d. Each search runs in its own cookie session:
// the color search is followed by the feature (bovw) search it links to.
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
	form := transport.NewForm().Field("uri", imageURL)
	return e.search(ctx, "/search/uri", form, opts)
}

func (e *Engine) SearchBytes(ctx context.Context, data []byte, opts engines.Options) (*engines.Response, error) {
	form := transport.NewForm().File("file", "image.png", "image/png", data)
	return e.search(ctx, "/search/file", form, opts)
}

func (e *Engine) search(ctx context.Context, path string, form *transport.Form, opts engines.Options) (*engines.Response, error) {
	client, err := engines.NewSession(e.logger, Name, e.cfg, opts, engines.SessionOptions{Headers: defaultHeaders()})
	if err != nil {
		return nil, err
	}

	// The status of the priming request does not matter, only its cookies.
	if _, err := engines.Do(ctx, Name, client, &transport.Request{URL: e.cfg.BaseURL}); err != nil {
		return nil, err
	}

	colorResp, err := e.fetch(ctx, client, &transport.Request{
		Method: http.MethodPost,
		URL:    e.cfg.BaseURL + path,
		Form:   form,
	})
	if err != nil {
		return nil, err
	}

	colorDoc, err := goquery.NewDocumentFromReader(bytes.NewReader(colorResp.Body))
	if err != nil {
		return nil, &engines.ExtractionError{Engine: Name, Reason: "invalid color search html", Err: err}
	}
	results, err := parseResults(colorDoc, e.cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	featureURL, ok := findFeatureURL(colorDoc, colorResp.Text(), e.cfg.BaseURL)
	if !ok {
		e.logger.Warn("feature search link not found, returning color results only", "engine", Name, "url", colorResp.URL)
		return &engines.Response{PageURL: colorResp.URL, Results: results}, nil
	}

	featureResp, err := e.fetch(ctx, client, &transport.Request{URL: featureURL})
	if err != nil {
		return nil, err
	}
	featureDoc, err := goquery.NewDocumentFromReader(bytes.NewReader(featureResp.Body))
	if err != nil {
		return nil, &engines.ExtractionError{Engine: Name, Reason: "invalid feature search html", Err: err}
	}
	featureResults, err := parseResults(featureDoc, e.cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	return &engines.Response{PageURL: colorResp.URL, Results: append(results, featureResults...)}, nil
}

func (e *Engine) fetch(ctx context.Context, client *transport.Client, req *transport.Request) (*transport.Response, error) {
	resp, err := engines.Do(ctx, Name, client, req)
	if err != nil {
		return nil, err
	}
	if err := engines.DetectChallenge(Name, resp.Text(), challengeMarker); err != nil {
		return nil, err
	}
	if err := engines.CheckStatus(Name, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func parseResults(doc *goquery.Document, baseURL string) ([]engines.SearchResult, error) {
	items := doc.Find(".item-box")
	if items.Length() == 0 {
		return nil, &engines.ExtractionError{Engine: Name, Reason: "no .item-box nodes in page"}
	}

	results := []engines.SearchResult{}
	items.Each(func(_ int, item *goquery.Selection) {
		detail := item.Find(".detail-box").First()
		if detail.Length() == 0 {
			return
		}
		// First anchor is the author, second the source work. The uploaded
		// image's own box has neither and is skipped.
		links := detail.Find("a")
		if links.Length() < 2 {
			return
		}
		author := links.Eq(0)
		source := links.Eq(1)

		sourceHref, _ := source.Attr("href")
		authorHref, _ := author.Attr("href")

		info := engines.NewAdditionalInfo()
		info.Author = strings.TrimSpace(author.Text())
		info.AuthorURL = engines.NormalizeURL(authorHref)

		result := engines.SearchResult{
			Title:          strings.TrimSpace(source.Text()),
			URL:            engines.NormalizeURL(sourceHref),
			Source:         Name,
			Index:          strings.TrimSpace(item.Find(".hash").First().Text()),
			AdditionalInfo: info,
		}
		if src, ok := item.Find("img").First().Attr("src"); ok {
			result.Thumbnail = engines.ResolveURL(baseURL, src)
		}
		results = append(results, result)
	})

	return results, nil
}

func findFeatureURL(doc *goquery.Document, html string, baseURL string) (string, bool) {
	if href, ok := doc.Find(`a[href*="` + featurePath + `"]`).First().Attr("href"); ok && href != "" {
		return engines.ResolveURL(baseURL, href), true
	}

	_, rest, found := strings.Cut(html, "/bovw/")
	if !found {
		return "", false
	}
	hash, _, _ := strings.Cut(rest, `"`)
	if hash == "" {
		return "", false
	}
	return baseURL + featurePath + hash, true
}

func defaultHeaders() http.Header {
	return http.Header{
		"Accept":                    {"text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.7"},
		"Accept-Language":           {"zh-CN,zh;q=0.9,en-US;q=0.8,en;q=0.7"},
		"Cache-Control":             {"max-age=0"},
		"Dnt":                       {"1"},
		"Priority":                  {"u=0, i"},
		"Sec-Ch-Ua":                 {`"Not(A:Brand";v="99", "Google Chrome";v="133", "Chromium";v="133"`},
		"Sec-Ch-Ua-Mobile":          {"?0"},
		"Sec-Ch-Ua-Platform":        {`"Windows"`},
		"Sec-Fetch-Dest":            {"document"},
		"Sec-Fetch-Mode":            {"navigate"},
		"Sec-Fetch-Site":            {"same-origin"},
		"Sec-Fetch-User":            {"?1"},
		"Upgrade-Insecure-Requests": {"1"},
	}
}
