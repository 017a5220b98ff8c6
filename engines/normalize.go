package engines

import (
	"encoding/base64"
	"errors"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var numberPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

// NormalizeURL turns protocol-relative links ("//host/path") into https
// links. Anything else is returned unchanged, so the function is idempotent.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "//") {
		return "https:" + raw
	}
	return raw
}

// ResolveURL normalizes ref and resolves it against base when it is relative.
// An empty ref stays empty.
func ResolveURL(base string, ref string) string {
	ref = NormalizeURL(ref)
	if ref == "" {
		return ""
	}
	refURL, err := url.Parse(ref)
	if err != nil || refURL.IsAbs() {
		return ref
	}
	baseURL, err := url.Parse(base)
	if err != nil || !baseURL.IsAbs() {
		return ref
	}
	return baseURL.ResolveReference(refURL).String()
}

// ClampSimilarity bounds a percentage to the 0-100 range. NaN becomes 0.
func ClampSimilarity(value float64) float64 {
	switch {
	case math.IsNaN(value), value < 0:
		return 0
	case value > 100:
		return 100
	default:
		return value
	}
}

// SimilarityFromFraction converts a 0-1 score into a clamped percentage.
func SimilarityFromFraction(value float64) float64 {
	return ClampSimilarity(value * 100)
}

// ParsePercent reads the first number in text such as "95% similarity".
func ParsePercent(text string) (float64, bool) {
	match := numberPattern.FindString(text)
	if match == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return ClampSimilarity(value), true
}

// CleanPrice keeps only digits and dots.
func CleanPrice(text string) string {
	return strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, text)
}

// FilterBySimilarity drops scored results below min. Unscored results are kept.
func FilterBySimilarity(results []SearchResult, min float64) []SearchResult {
	filtered := make([]SearchResult, 0, len(results))
	for _, result := range results {
		if result.Similarity != nil && *result.Similarity < min {
			continue
		}
		filtered = append(filtered, result)
	}
	return filtered
}

func EncodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// DecodeBase64 accepts standard base64 with or without padding, optionally
// prefixed by a data URI header.
func DecodeBase64(encoded string) ([]byte, error) {
	encoded = strings.TrimSpace(encoded)
	if strings.HasPrefix(encoded, "data:") {
		comma := strings.Index(encoded, ",")
		if comma < 0 {
			return nil, errors.New("data uri without payload")
		}
		encoded = encoded[comma+1:]
	}
	encoded = strings.Join(strings.Fields(encoded), "")

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(encoded, "="))
		if err != nil {
			return nil, err
		}
	}
	return data, nil
}
