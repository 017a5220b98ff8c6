package google

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/meghashyamc/picsearch/engines"
	"github.com/meghashyamc/picsearch/transport"
)

var (
	inlineImagePattern = regexp.MustCompile(`data:image/(?:jpeg|jpg|png|gif);base64,[^'"]+`)
	imageIDPattern     = regexp.MustCompile(`dimg_[^'"]+`)
)

// Page is one page of Google results. Pages[i] holds the URL of page i+1;
// an empty entry means that page's link has not been seen yet.
type Page struct {
	Results     []engines.SearchResult
	Pages       []string
	CurrentPage int
	URL         string
}

func (p *Page) Response() *engines.Response {
	return &engines.Response{PageURL: p.URL, Results: p.Results}
}

// HasNext reports whether a link to the following page is known.
func (p *Page) HasNext() bool {
	return p.CurrentPage >= 1 && p.CurrentPage < len(p.Pages) && p.Pages[p.CurrentPage] != ""
}

func (p *Page) HasPrev() bool {
	return p.CurrentPage > 1 && p.CurrentPage-2 < len(p.Pages) && p.Pages[p.CurrentPage-2] != ""
}

// Next fetches the page after page. ok is false, with no request made, when
// there is no known next page.
func (e *Engine) Next(ctx context.Context, page *Page, opts engines.Options) (*Page, bool, error) {
	if !page.HasNext() {
		return nil, false, nil
	}
	return e.navigate(ctx, page, page.CurrentPage+1, opts)
}

// Prev fetches the page before page. ok is false, with no request made, on
// the first page.
func (e *Engine) Prev(ctx context.Context, page *Page, opts engines.Options) (*Page, bool, error) {
	if !page.HasPrev() {
		return nil, false, nil
	}
	return e.navigate(ctx, page, page.CurrentPage-1, opts)
}

func (e *Engine) navigate(ctx context.Context, page *Page, target int, opts engines.Options) (*Page, bool, error) {
	client, err := e.newSession(opts)
	if err != nil {
		return nil, false, err
	}
	resp, err := e.fetch(ctx, client, &transport.Request{URL: page.Pages[target-1]})
	if err != nil {
		return nil, false, err
	}
	next, err := e.parsePage(resp, target, page.Pages)
	if err != nil {
		return nil, false, err
	}

	e.logger.Debug("navigated google results", "page", target, "known_pages", len(next.Pages))
	return next, true, nil
}

func (e *Engine) parsePage(resp *transport.Response, current int, known []string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, &engines.ExtractionError{Engine: Name, Reason: "invalid html", Err: err}
	}
	if doc.Find("#search").Length() == 0 {
		return nil, &engines.ExtractionError{Engine: Name, Reason: "#search container not found"}
	}

	return &Page{
		Results:     parseResults(doc),
		Pages:       mergePages(known, parsePageLinks(doc, e.cfg.BaseURL), current, resp.URL),
		CurrentPage: current,
		URL:         resp.URL,
	}, nil
}

// parseThumbnails maps dimg_ element ids to the inline base64 image their
// script assigns them.
func parseThumbnails(doc *goquery.Document) map[string]string {
	thumbnails := map[string]string{}
	doc.Find("script").Each(func(_ int, script *goquery.Selection) {
		text := script.Text()
		image := inlineImagePattern.FindString(text)
		if image == "" {
			return
		}
		image = strings.ReplaceAll(image, `\x3d`, "=")
		for _, id := range imageIDPattern.FindAllString(text, -1) {
			thumbnails[id] = image
		}
	})
	return thumbnails
}

func parseResults(doc *goquery.Document) []engines.SearchResult {
	thumbnails := parseThumbnails(doc)

	results := []engines.SearchResult{}
	doc.Find("#search .g").Each(func(i int, item *goquery.Selection) {
		href, _ := item.Find("a").First().Attr("href")
		if href == "" {
			return
		}

		result := engines.SearchResult{
			Title:          strings.TrimSpace(item.Find("h3").First().Text()),
			URL:            engines.NormalizeURL(href),
			Source:         Name,
			Index:          fmt.Sprint(i),
			AdditionalInfo: engines.NewAdditionalInfo(),
		}
		if id, ok := item.Find("img[id^='dimg_']").First().Attr("id"); ok {
			result.Thumbnail = thumbnails[id]
		}
		results = append(results, result)
	})
	return results
}

// parsePageLinks reads "Page N" anchors into a map of page number to URL.
func parsePageLinks(doc *goquery.Document, baseURL string) map[int]string {
	links := map[int]string{}
	doc.Find(`a[aria-label~="Page"]`).Each(func(_ int, anchor *goquery.Selection) {
		label, _ := anchor.Attr("aria-label")
		href, _ := anchor.Attr("href")
		var number int
		if _, err := fmt.Sscanf(label, "Page %d", &number); err != nil || number < 1 || href == "" {
			return
		}
		links[number] = engines.ResolveURL(baseURL, href)
	})
	return links
}

func mergePages(known []string, links map[int]string, current int, currentURL string) []string {
	size := len(known)
	if current > size {
		size = current
	}
	for number := range links {
		if number > size {
			size = number
		}
	}

	pages := make([]string, size)
	copy(pages, known)
	for number, link := range links {
		pages[number-1] = link
	}
	pages[current-1] = currentURL
	return pages
}
