package iqdb

import (
	"bytes"
	"context"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/meghashyamc/picsearch/engines"
	"github.com/meghashyamc/picsearch/logger"
	"github.com/meghashyamc/picsearch/transport"
)

const (
	Name           = "IQDB"
	DefaultBaseURL = "https://iqdb.org"

	noMatchText = "No relevant matches"
)

var (
	dimensionsPattern = regexp.MustCompile(`(\d+)\s*[×x]\s*(\d+)`)
	ratingPattern     = regexp.MustCompile(`\[([^\]]+)\]`)
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
	return e.search(ctx, transport.NewForm().Field("url", imageURL), opts)
}

func (e *Engine) SearchBytes(ctx context.Context, data []byte, opts engines.Options) (*engines.Response, error) {
	return e.search(ctx, transport.NewForm().File("file", "image.jpg", "image/jpeg", data), opts)
}

func (e *Engine) search(ctx context.Context, form *transport.Form, opts engines.Options) (*engines.Response, error) {
	client, err := engines.NewSession(e.logger, Name, e.cfg, opts, engines.SessionOptions{})
	if err != nil {
		return nil, err
	}

	resp, err := engines.DoOK(ctx, Name, client, &transport.Request{
		Method: http.MethodPost,
		URL:    e.cfg.BaseURL,
		Form:   form,
	})
	if err != nil {
		return nil, err
	}

	results, err := parseResults(resp.Body, e.cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("parsed iqdb results", "count", len(results))

	return &engines.Response{PageURL: "", Results: results}, nil
}

// parseResults walks the result tables. The first table echoes the upload;
// every other table is one match whose rows are, in order: link and
// thumbnail, source, size, similarity.
func parseResults(body []byte, baseURL string) ([]engines.SearchResult, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &engines.ExtractionError{Engine: Name, Reason: "invalid html", Err: err}
	}
	if doc.Find("#pages").Length() == 0 {
		return nil, &engines.ExtractionError{Engine: Name, Reason: "#pages container not found"}
	}

	results := []engines.SearchResult{}
	doc.Find("#pages > div > table").Each(func(i int, table *goquery.Selection) {
		if i == 0 {
			return
		}

		rows := table.Find("tr")
		header := rows.First().Find("th")
		if header.Length() > 0 {
			if strings.TrimSpace(header.First().Text()) == noMatchText {
				return
			}
			rows = rows.Slice(1, rows.Length())
		}
		if rows.Length() < 4 {
			return
		}

		href, ok := rows.Eq(0).Find("td > a").First().Attr("href")
		if !ok {
			return
		}

		source := strings.TrimSpace(rows.Eq(1).Find("td").First().Text())
		sizeText := strings.TrimSpace(rows.Eq(2).Find("td").First().Text())

		info := engines.NewAdditionalInfo()
		info.Size = parseSize(sizeText)
		if rating := ratingPattern.FindStringSubmatch(sizeText); rating != nil {
			info.Tags = append(info.Tags, rating[1])
		}

		result := engines.SearchResult{
			Title:          "[" + source + "] " + sizeText,
			URL:            engines.NormalizeURL(href),
			Source:         Name,
			Index:          strconv.Itoa(len(results)),
			AdditionalInfo: info,
		}
		if src, ok := rows.Eq(0).Find("td > a > img").First().Attr("src"); ok {
			result.Thumbnail = engines.ResolveURL(baseURL, src)
		}
		if similarity, ok := engines.ParsePercent(rows.Eq(3).Find("td").First().Text()); ok {
			result.Similarity = engines.Float(similarity)
		}

		results = append(results, result)
	})

	return results, nil
}

func parseSize(text string) *engines.Size {
	match := dimensionsPattern.FindStringSubmatch(text)
	if match == nil {
		return nil
	}
	width, err := strconv.ParseUint(match[1], 10, 32)
	if err != nil {
		return nil
	}
	height, err := strconv.ParseUint(match[2], 10, 32)
	if err != nil {
		return nil
	}
	return &engines.Size{Width: uint32(width), Height: uint32(height)}
}
