package soutubot

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/meghashyamc/picsearch/engines"
	"github.com/meghashyamc/picsearch/logger"
	"github.com/meghashyamc/picsearch/transport"
)

const (
	Name           = "Soutubot"
	DefaultBaseURL = "https://soutubot.moe"

	searchFactor = "1.2"
	nhentai      = "nhentai"
)

type Engine struct {
	cfg    engines.Config
	logger logger.Logger
}

type searchResponse struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	ID      string       `json:"id"`
	Data    []searchItem `json:"data"`
}

type searchItem struct {
	Similarity      float64 `json:"similarity"`
	Title           string  `json:"title"`
	PreviewImageURL string  `json:"previewImageUrl"`
	Source          string  `json:"source"`
	Language        string  `json:"language"`
	SubjectPath     string  `json:"subjectPath"`
	PagePath        string  `json:"pagePath"`
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

// SearchBytes is the only native entry point; URL input is downloaded first.
func (e *Engine) SearchBytes(ctx context.Context, data []byte, opts engines.Options) (*engines.Response, error) {
	client, err := engines.NewSession(e.logger, Name, e.cfg, opts, engines.SessionOptions{Headers: e.headers()})
	if err != nil {
		return nil, err
	}

	form := transport.NewForm().
		Field("factor", searchFactor).
		File("file", "image", "application/octet-stream", data)
	resp, err := engines.DoOK(ctx, Name, client, &transport.Request{
		Method: http.MethodPost,
		URL:    e.cfg.BaseURL + "/api/search",
		Header: http.Header{"X-Api-Key": {APIKey(e.cfg.Now(), e.cfg.UserAgent)}},
		Form:   form,
	})
	if err != nil {
		return nil, err
	}

	var parsed searchResponse
	if err := json.Unmarshal(resp.Body, &parsed); err != nil {
		return nil, &engines.ExtractionError{Engine: Name, Reason: "invalid json response", Err: err}
	}
	if parsed.Code < 0 {
		return nil, &engines.UpstreamAPIError{Engine: Name, Status: parsed.Code, Message: parsed.Message}
	}

	results := make([]engines.SearchResult, 0, len(parsed.Data))
	for _, item := range parsed.Data {
		results = append(results, toResult(item))
	}
	e.logger.Debug("parsed soutubot results", "id", parsed.ID, "count", len(results))

	return &engines.Response{PageURL: e.cfg.BaseURL + "/results/" + parsed.ID, Results: results}, nil
}

func toResult(item searchItem) engines.SearchResult {
	info := engines.NewAdditionalInfo()
	if item.Language != "" {
		info.Tags = append(info.Tags, item.Language)
	}

	url := "https://www.nhentai.net" + item.SubjectPath
	if item.Source != nhentai {
		url = "https://e-hentai.org" + item.SubjectPath
		info.ExtURLs = append(info.ExtURLs, "https://exhentai.org"+item.SubjectPath)
	}

	return engines.SearchResult{
		Title:          item.Title,
		URL:            url,
		Thumbnail:      item.PreviewImageURL,
		Similarity:     engines.Float(engines.ClampSimilarity(item.Similarity)),
		Source:         item.Source,
		AdditionalInfo: info,
	}
}

func (e *Engine) headers() http.Header {
	return http.Header{
		"Accept":             {"application/json, text/plain, */*"},
		"Accept-Language":    {"zh-CN,zh;q=0.9"},
		"Dnt":                {"1"},
		"Origin":             {e.cfg.BaseURL},
		"Referer":            {e.cfg.BaseURL + "/"},
		"Sec-Ch-Ua":          {`"Not(A:Brand";v="99", "Google Chrome";v="133", "Chromium";v="133"`},
		"Sec-Ch-Ua-Mobile":   {"?0"},
		"Sec-Ch-Ua-Platform": {`"Windows"`},
		"Sec-Fetch-Dest":     {"empty"},
		"Sec-Fetch-Mode":     {"cors"},
		"Sec-Fetch-Site":     {"same-origin"},
		"X-Requested-With":   {"XMLHttpRequest"},
	}
}
