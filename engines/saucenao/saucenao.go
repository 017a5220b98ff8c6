package saucenao

import (
	"context"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/meghashyamc/picsearch/engines"
	"github.com/meghashyamc/picsearch/logger"
	"github.com/meghashyamc/picsearch/transport"
	"github.com/tidwall/gjson"
)

const (
	Name           = "SauceNAO"
	DefaultBaseURL = "https://saucenao.com/search.php"

	outputTypeJSON = "2"
	numResults     = "16"
	allDatabases   = "999"

	// Threshold sent to the upstream on uploads when the caller sets none.
	defaultUploadMinSimilarity = 80.0
	unknownErrorMessage        = "Unknown error"
)

type Config struct {
	engines.Config
	// APIKey is optional; without it the upstream applies anonymous limits.
	APIKey string
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
	client, err := e.newSession(opts)
	if err != nil {
		return nil, err
	}

	query := url.Values{
		"url":         {imageURL},
		"output_type": {outputTypeJSON},
		"numres":      {numResults},
	}
	if e.cfg.APIKey != "" {
		query.Set("api_key", e.cfg.APIKey)
	}

	resp, err := engines.DoOK(ctx, Name, client, &transport.Request{URL: e.cfg.BaseURL, Query: query})
	if err != nil {
		return nil, err
	}

	results, err := parseResults(resp.Body, opts.MinSimilarityOr(0))
	if err != nil {
		return nil, err
	}

	pageURL := e.cfg.BaseURL + "?" + url.Values{"url": {imageURL}}.Encode()
	return &engines.Response{PageURL: pageURL, Results: results}, nil
}

func (e *Engine) SearchBytes(ctx context.Context, data []byte, opts engines.Options) (*engines.Response, error) {
	client, err := e.newSession(opts)
	if err != nil {
		return nil, err
	}

	form := transport.NewForm().
		Field("output_type", outputTypeJSON).
		Field("numres", numResults).
		Field("api_key", e.cfg.APIKey).
		Field("dbmask", allDatabases).
		Field("minsim", strconv.FormatFloat(opts.MinSimilarityOr(defaultUploadMinSimilarity), 'f', -1, 64)).
		File("file", "image.png", "image/png", data)

	resp, err := engines.DoOK(ctx, Name, client, &transport.Request{
		Method: http.MethodPost,
		URL:    e.cfg.BaseURL,
		Form:   form,
	})
	if err != nil {
		return nil, err
	}

	results, err := parseResults(resp.Body, opts.MinSimilarityOr(0))
	if err != nil {
		return nil, err
	}
	return &engines.Response{PageURL: "", Results: results}, nil
}

func (e *Engine) newSession(opts engines.Options) (*transport.Client, error) {
	return engines.NewSession(e.logger, Name, e.cfg.Config, opts, engines.SessionOptions{Headers: defaultHeaders()})
}

func parseResults(body []byte, minSimilarity float64) ([]engines.SearchResult, error) {
	if !gjson.ValidBytes(body) {
		return nil, &engines.ExtractionError{Engine: Name, Reason: "response is not valid json"}
	}
	doc := gjson.ParseBytes(body)

	status := doc.Get("header.status")
	if !status.Exists() {
		return nil, &engines.ExtractionError{Engine: Name, Reason: "response has no header status"}
	}
	if status.Int() < 0 {
		message := doc.Get("header.message").String()
		if message == "" {
			message = unknownErrorMessage
		}
		return nil, &engines.UpstreamAPIError{Engine: Name, Status: int(status.Int()), Message: message}
	}

	results := []engines.SearchResult{}
	for _, item := range doc.Get("results").Array() {
		header := item.Get("header")
		data := item.Get("data")

		similarity, err := strconv.ParseFloat(header.Get("similarity").String(), 64)
		if err != nil || math.IsNaN(similarity) || math.IsInf(similarity, 0) {
			similarity = 0
		}
		similarity = engines.ClampSimilarity(similarity)
		if similarity < minSimilarity {
			continue
		}

		var urls []string
		for _, extURL := range data.Get("ext_urls").Array() {
			urls = append(urls, extURL.String())
		}
		source := data.Get("source").String()
		primary := source
		if len(urls) > 0 {
			primary, urls = urls[0], urls[1:]
		}

		info := engines.NewAdditionalInfo()
		info.Author = firstString(data, "author_name", "member_name")
		info.AuthorURL = data.Get("author_url").String()
		info.SourceURL = source
		info.CreatedAt = data.Get("created_at").String()
		info.ExtURLs = append(info.ExtURLs, urls...)

		results = append(results, engines.SearchResult{
			Title:          data.Get("title").String(),
			URL:            engines.NormalizeURL(primary),
			Thumbnail:      header.Get("thumbnail").String(),
			Similarity:     engines.Float(similarity),
			Source:         header.Get("index_name").String(),
			Index:          header.Get("index_id").String(),
			AdditionalInfo: info,
		})
	}

	return results, nil
}

func firstString(node gjson.Result, keys ...string) string {
	for _, key := range keys {
		if value := node.Get(key); value.Type == gjson.String && value.String() != "" {
			return value.String()
		}
	}
	return ""
}

func defaultHeaders() http.Header {
	return http.Header{
		"Accept":          {"text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8"},
		"Accept-Language": {"zh-CN,zh;q=0.9,en-US;q=0.8,en;q=0.7"},
		"Referer":         {"https://saucenao.com/"},
	}
}
