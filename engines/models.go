package engines

import "time"

const DefaultMinSimilarity = 50.0

// SearchResult is one candidate match. Similarity is nil when the engine
// does not score its hits; otherwise it is on the 0-100 scale.
type SearchResult struct {
	Title          string          `json:"title,omitempty"`
	URL            string          `json:"url"`
	Thumbnail      string          `json:"thumbnail,omitempty"`
	Similarity     *float64        `json:"similarity,omitempty"`
	Source         string          `json:"source"`
	Index          string          `json:"index,omitempty"`
	AdditionalInfo *AdditionalInfo `json:"additional_info,omitempty"`
}

type AdditionalInfo struct {
	Author    string   `json:"author,omitempty"`
	AuthorURL string   `json:"author_url,omitempty"`
	SourceURL string   `json:"source_url,omitempty"`
	CreatedAt string   `json:"created_at,omitempty"`
	Tags      []string `json:"tags"`
	Size      *Size    `json:"size,omitempty"`
	ExtURLs   []string `json:"ext_urls"`
}

type Size struct {
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
}

// Response is what every entry point returns. PageURL is empty when the
// upstream has no browsable results page.
type Response struct {
	PageURL string         `json:"page_url"`
	Results []SearchResult `json:"results"`
}

type Options struct {
	Proxy   string
	Timeout time.Duration
	// MinSimilarity drops scored results below it. Nil disables filtering.
	MinSimilarity *float64
	// HideExplicit is accepted but no engine enforces it yet.
	HideExplicit bool
}

func DefaultOptions() Options {
	return Options{MinSimilarity: Float(DefaultMinSimilarity)}
}

// MinSimilarityOr returns the configured threshold, or fallback when unset.
func (o Options) MinSimilarityOr(fallback float64) float64 {
	if o.MinSimilarity == nil {
		return fallback
	}
	return *o.MinSimilarity
}

func Float(v float64) *float64 {
	return &v
}

// NewAdditionalInfo returns an AdditionalInfo whose slices serialize as [].
func NewAdditionalInfo() *AdditionalInfo {
	return &AdditionalInfo{Tags: []string{}, ExtURLs: []string{}}
}
