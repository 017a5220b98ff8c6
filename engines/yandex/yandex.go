package yandex

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/meghashyamc/picsearch/engines"
	"github.com/meghashyamc/picsearch/logger"
	"github.com/meghashyamc/picsearch/transport"
	"github.com/tidwall/gjson"
)

const (
	Name           = "Yandex"
	DefaultBaseURL = "https://yandex.com"

	searchPath          = "/images/search"
	maintenanceMarker   = "The service is under construction"
	captchaPath         = "/showcaptcha"
	sitesStateSelector  = "div.Root[id^='CbirSites_infinite']"
	sitesStateAttribute = "data-state"
)

type Config struct {
	engines.Config
	// Cookie is sent verbatim when set. Yandex serves a captcha to most
	// cookieless clients, so a logged-in browser session cookie helps.
	Cookie string
}

type Engine struct {
	cfg    Config
	logger logger.Logger
}

func New(logger logger.Logger, cfg Config) *Engine {
	cfg.Config = cfg.Config.WithDefaults(DefaultBaseURL)
	return &Engine{
		cfg:    cfg,
		logger: logger,
	}
}

func (e *Engine) Name() string {
	return Name
}

func (e *Engine) SearchURL(ctx context.Context, imageURL string, opts engines.Options) (*engines.Response, error) {
	return e.search(ctx, &transport.Request{
		URL: e.cfg.BaseURL + searchPath,
		Query: url.Values{
			"rpt":       {"imageview"},
			"url":       {imageURL},
			"cbir_page": {"sites"},
		},
	}, opts)
}

func (e *Engine) SearchBytes(ctx context.Context, data []byte, opts engines.Options) (*engines.Response, error) {
	return e.search(ctx, &transport.Request{
		Method: http.MethodPost,
		URL:    e.cfg.BaseURL + searchPath,
		Query: url.Values{
			"rpt":       {"imageview"},
			"cbir_page": {"sites"},
		},
		Form: transport.NewForm().
			Field("prg", "1").
			File("upfile", "image.jpg", "image/jpeg", data),
	}, opts)
}

func (e *Engine) search(ctx context.Context, req *transport.Request, opts engines.Options) (*engines.Response, error) {
	client, err := engines.NewSession(e.logger, Name, e.cfg.Config, opts, engines.SessionOptions{Headers: e.headers()})
	if err != nil {
		return nil, err
	}

	resp, err := engines.Do(ctx, Name, client, req)
	if err != nil {
		return nil, err
	}
	if strings.Contains(resp.URL, captchaPath) {
		return nil, &engines.ChallengeError{Engine: Name, Marker: captchaPath}
	}
	if err := engines.DetectChallenge(Name, resp.Text(), maintenanceMarker); err != nil {
		return nil, err
	}
	if err := engines.CheckStatus(Name, resp); err != nil {
		return nil, err
	}

	results, err := parseResults(resp.Body)
	if err != nil {
		return nil, err
	}
	return &engines.Response{PageURL: resp.URL, Results: results}, nil
}

func parseResults(body []byte) ([]engines.SearchResult, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &engines.ExtractionError{Engine: Name, Reason: "invalid html", Err: err}
	}

	node := doc.Find(sitesStateSelector).First()
	if node.Length() == 0 {
		return nil, &engines.ExtractionError{Engine: Name, Reason: "sites container not found"}
	}
	raw, ok := node.Attr(sitesStateAttribute)
	if !ok {
		return nil, &engines.ExtractionError{Engine: Name, Reason: "sites container has no " + sitesStateAttribute}
	}

	if !gjson.Valid(raw) {
		return nil, &engines.ExtractionError{Engine: Name, Reason: "invalid " + sitesStateAttribute}
	}

	results := []engines.SearchResult{}
	for i, site := range gjson.Get(raw, "sites").Array() {
		siteURL := site.Get("url").String()
		if siteURL == "" {
			continue
		}
		domain := site.Get("domain").String()

		info := engines.NewAdditionalInfo()
		info.SourceURL = "https://" + domain
		title := fmt.Sprintf("[%s] %s", domain, site.Get("title").String())
		width, widthOK := dimension(site.Get("originalImage.width"))
		height, heightOK := dimension(site.Get("originalImage.height"))
		if widthOK && heightOK {
			info.Size = &engines.Size{Width: width, Height: height}
			title += fmt.Sprintf(" - %dx%d", width, height)
		}

		results = append(results, engines.SearchResult{
			Title:          title,
			URL:            engines.NormalizeURL(siteURL),
			Thumbnail:      engines.NormalizeURL(site.Get("thumb.url").String()),
			Source:         Name,
			Index:          strconv.Itoa(i),
			AdditionalInfo: info,
		})
	}
	return results, nil
}

// dimension accepts only whole numbers that fit a uint32.
func dimension(value gjson.Result) (uint32, bool) {
	if value.Type != gjson.Number {
		return 0, false
	}
	n, err := strconv.ParseUint(value.Raw, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(n), true
}

func (e *Engine) headers() http.Header {
	headers := http.Header{
		"Referer":         {e.cfg.BaseURL},
		"Accept":          {"text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.7"},
		"Accept-Language": {"zh-CN,zh;q=0.9,en-US;q=0.8,en;q=0.7"},
		"Cache-Control":   {"max-age=0"},
		"Dnt":             {"1"},
	}
	if e.cfg.Cookie != "" {
		headers.Set("Cookie", e.cfg.Cookie)
	}
	return headers
}
