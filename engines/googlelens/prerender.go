package googlelens

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/meghashyamc/picsearch/engines"
	"github.com/tidwall/gjson"
)

// The results page embeds its data in a script as a JS callback argument or
// variable assignment. Every positional path below is tied to the current
// page layout and is expected to break when Google changes it.
const (
	markerInitData = "AF_initDataCallback"
	markerVarM     = "(function(){var m="
	markerDS1      = "key: 'ds:1'"

	pathBestMatch                = "0.1.8.12.0.0"
	pathVisualMatchesAfterBest   = "1.1.8.8.0.12"
	pathVisualMatchesWithoutBest = "0.1.8.8.0.12"
)

type lensMatch struct {
	Title         string
	Thumbnail     string
	PageURL       string
	SourceWebsite string
	Price         string
	Currency      string
	Similarity    *float64
}

// carvePrerender finds the data script in html and returns it as parsed JSON.
func carvePrerender(html []byte) (gjson.Result, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return gjson.Result{}, &engines.ExtractionError{Engine: Name, Reason: "invalid html", Err: err}
	}

	script := ""
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if strings.Contains(text, markerInitData) || strings.Contains(text, markerVarM) || strings.Contains(text, markerDS1) {
			script = text
			return false
		}
		return true
	})
	if script == "" {
		return gjson.Result{}, &engines.ExtractionError{Engine: Name, Reason: "no prerender script found"}
	}

	var payload string
	switch {
	case strings.Contains(script, markerVarM):
		payload = carveVarAssignment(script)
	case strings.Contains(script, markerInitData):
		payload, err = carveInitDataCallback(script)
		if err != nil {
			return gjson.Result{}, err
		}
	default:
		return gjson.Result{}, &engines.ExtractionError{Engine: Name, Reason: "prerender script has no known data wrapper"}
	}

	if !gjson.Valid(payload) {
		return gjson.Result{}, &engines.ExtractionError{Engine: Name, Reason: "prerender data is not valid json"}
	}
	return gjson.Parse(payload), nil
}

func carveVarAssignment(script string) string {
	start := strings.Index(script, markerVarM)
	text := strings.Replace(script[start:], markerVarM, "", 1)
	if end := strings.Index(text, ";window."); end >= 0 {
		text = text[:end]
	}
	for strings.HasSuffix(text, "});") {
		text = strings.TrimSuffix(text, "});")
	}
	// The assignment ends at the first "};"; the brace is restored after the cut.
	if object, _, found := strings.Cut(text, "};"); found {
		text = object + "}"
	}
	return strings.TrimSpace(text)
}

func carveInitDataCallback(script string) (string, error) {
	text := script[strings.Index(script, markerInitData):]

	if _, data, found := strings.Cut(text, "data:"); found {
		payload, _, found := strings.Cut(data, "sideChannel:")
		if !found {
			return "", &engines.ExtractionError{Engine: Name, Reason: "end of callback data not found"}
		}
		return strings.TrimRight(strings.TrimSpace(payload), ","), nil
	}

	start := strings.Index(text, "[[")
	if start < 0 {
		return "", &engines.ExtractionError{Engine: Name, Reason: "start of callback data not found"}
	}
	end := strings.Index(text[start:], "]]")
	if end < 0 {
		return "", &engines.ExtractionError{Engine: Name, Reason: "end of callback data not found"}
	}
	return text[start : start+end+2], nil
}

// bestMatch returns the single exact match, if the page has one.
func bestMatch(root gjson.Result) (lensMatch, bool) {
	node := root.Get(pathBestMatch)
	if !node.IsArray() {
		return lensMatch{}, false
	}
	return lensMatch{
		Title:      stringAt(node, "0"),
		Thumbnail:  stringAt(node, "2.0.0"),
		PageURL:    stringAt(node, "2.0.4"),
		Similarity: engines.Float(100),
	}, true
}

// visualMatches returns the visually similar items. Their position shifts
// depending on whether a best match is present.
func visualMatches(root gjson.Result, hasBest bool) []lensMatch {
	path := pathVisualMatchesWithoutBest
	if hasBest {
		path = pathVisualMatchesAfterBest
	}
	node := root.Get(path)
	if !node.IsArray() {
		return nil
	}

	var matches []lensMatch
	for _, item := range node.Array() {
		match := lensMatch{
			Title:         stringAt(item, "3"),
			Thumbnail:     stringAt(item, "0.0"),
			PageURL:       stringAt(item, "5"),
			SourceWebsite: stringAt(item, "14"),
			Currency:      stringAt(item, "0.7.5"),
		}
		if price := item.Get("0.7.1"); price.Type == gjson.String {
			match.Price = engines.CleanPrice(price.String())
		}
		if score := item.Get("1"); score.Type == gjson.Number {
			match.Similarity = engines.Float(engines.SimilarityFromFraction(score.Float()))
		}
		matches = append(matches, match)
	}
	return matches
}

func stringAt(node gjson.Result, path string) string {
	value := node.Get(path)
	if value.Type != gjson.String {
		return ""
	}
	return value.String()
}

func toResults(root gjson.Result) []engines.SearchResult {
	results := []engines.SearchResult{}

	best, hasBest := bestMatch(root)
	if hasBest {
		results = append(results, engines.SearchResult{
			Title:          best.Title,
			URL:            engines.NormalizeURL(best.PageURL),
			Thumbnail:      best.Thumbnail,
			Similarity:     best.Similarity,
			Source:         Name,
			AdditionalInfo: engines.NewAdditionalInfo(),
		})
	}

	for _, match := range visualMatches(root, hasBest) {
		info := engines.NewAdditionalInfo()
		info.SourceURL = match.SourceWebsite
		if match.Price != "" {
			info.Tags = append(info.Tags, "Price: "+match.Price)
		}
		if match.Currency != "" {
			info.Tags = append(info.Tags, "Currency: "+match.Currency)
		}
		results = append(results, engines.SearchResult{
			Title:          match.Title,
			URL:            engines.NormalizeURL(match.PageURL),
			Thumbnail:      match.Thumbnail,
			Similarity:     match.Similarity,
			Source:         Name,
			AdditionalInfo: info,
		})
	}
	return results
}
