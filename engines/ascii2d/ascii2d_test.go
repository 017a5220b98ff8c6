package ascii2d

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/meghashyamc/picsearch/engines"
	"github.com/meghashyamc/picsearch/logger"
	"github.com/stretchr/testify/require"
)

func newTestLogger() logger.Logger {
	opts := &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	}
	handler := slog.NewJSONHandler(os.Stderr, opts)
	return slog.New(handler)
}

type upstream struct {
	colorHTML   string
	colorStatus int
	sawCookie   bool
	uploaded    []byte
	searchedURI string
}

func (u *upstream) handler(assert *require.Assertions) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "_session_id", Value: "primed", Path: "/"})
		_, _ = w.Write([]byte("<html></html>"))
	})
	mux.HandleFunc("/search/uri", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(http.MethodPost, r.Method)
		assert.NoError(r.ParseMultipartForm(1 << 20))
		u.searchedURI = r.FormValue("uri")
		u.recordCookie(r)
		http.Redirect(w, r, "/search/color/abc123", http.StatusFound)
	})
	mux.HandleFunc("/search/file", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(r.ParseMultipartForm(1 << 20))
		file, header, err := r.FormFile("file")
		assert.NoError(err)
		defer file.Close()
		assert.Equal("image.png", header.Filename)
		u.uploaded, _ = io.ReadAll(file)
		u.recordCookie(r)
		http.Redirect(w, r, "/search/color/abc123", http.StatusFound)
	})
	mux.HandleFunc("/search/color/abc123", func(w http.ResponseWriter, r *http.Request) {
		if u.colorStatus != 0 {
			w.WriteHeader(u.colorStatus)
		}
		_, _ = w.Write([]byte(u.colorHTML))
	})
	mux.HandleFunc("/search/bovw/abc123", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(featureResultsHTML))
	})
	return mux
}

func (u *upstream) recordCookie(r *http.Request) {
	if cookie, err := r.Cookie("_session_id"); err == nil && cookie.Value == "primed" {
		u.sawCookie = true
	}
}

func newTestEngine(assert *require.Assertions, baseURL string) *engines.Engine {
	engine, err := engines.Wrap(newTestLogger(), New(newTestLogger(), engines.Config{BaseURL: baseURL}))
	assert.NoError(err, "could not wrap engine")
	return engine
}

func TestSearchURLMergesColorAndFeatureResults(t *testing.T) {
	assert := require.New(t)

	up := &upstream{colorHTML: colorResultsHTML}
	server := httptest.NewServer(up.handler(assert))
	defer server.Close()

	engine := newTestEngine(assert, server.URL)
	resp, err := engine.SearchURL(context.Background(), "https://example.com/cat.png", engines.Options{})
	assert.NoError(err)

	assert.Equal("https://example.com/cat.png", up.searchedURI)
	assert.True(up.sawCookie, "search must reuse the primed cookie session")
	assert.Equal(server.URL+"/search/color/abc123", resp.PageURL)
	assert.Len(resp.Results, 3)

	first := resp.Results[0]
	assert.Equal("Sunset Study", first.Title)
	assert.Equal("https://www.pixiv.net/artworks/1001", first.URL)
	assert.Equal(server.URL+"/thumbnail/1/2/3/4/first.jpg", first.Thumbnail)
	assert.Equal("f00d", first.Index)
	assert.Equal(Name, first.Source)
	assert.Nil(first.Similarity)
	assert.Equal("Some Artist", first.AdditionalInfo.Author)
	assert.Equal("https://www.pixiv.net/users/42", first.AdditionalInfo.AuthorURL)

	second := resp.Results[1]
	assert.Equal("https://twitter.com/other/status/7", second.URL)
	assert.Equal("https://cdn.example.com/second.jpg", second.Thumbnail)
	assert.Equal("https://twitter.com/other", second.AdditionalInfo.AuthorURL)

	feature := resp.Results[2]
	assert.Equal("Feature Work", feature.Title)
	assert.Equal("1234", feature.Index)
}

func TestSearchBytesUploadsFile(t *testing.T) {
	assert := require.New(t)

	up := &upstream{colorHTML: colorResultsHTML}
	server := httptest.NewServer(up.handler(assert))
	defer server.Close()

	engine := newTestEngine(assert, server.URL)
	resp, err := engine.SearchBytes(context.Background(), []byte{0x89, 0x50, 0x4e, 0x47}, engines.Options{})
	assert.NoError(err)
	assert.Equal([]byte{0x89, 0x50, 0x4e, 0x47}, up.uploaded)
	assert.Len(resp.Results, 3)

	resp, err = engine.SearchBase64(context.Background(), "iVBORw==", engines.Options{})
	assert.NoError(err)
	assert.Equal([]byte{0x89, 0x50, 0x4e, 0x47}, up.uploaded)
	assert.Len(resp.Results, 3)
}

func TestMissingFeatureLinkReturnsColorResults(t *testing.T) {
	assert := require.New(t)

	up := &upstream{colorHTML: colorResultsWithoutFeatureLinkHTML}
	server := httptest.NewServer(up.handler(assert))
	defer server.Close()

	engine := newTestEngine(assert, server.URL)
	resp, err := engine.SearchURL(context.Background(), "https://example.com/cat.png", engines.Options{})
	assert.NoError(err)
	assert.Len(resp.Results, 1)
	assert.Equal("Sunset Study", resp.Results[0].Title)
}

var failureTestCases = []struct {
	name        string
	html        string
	status      int
	expectedErr error
}{
	{name: "MissingItemBoxes", html: unexpectedHTML, expectedErr: engines.ErrExtraction},
	{name: "ServiceUnavailable", html: unexpectedHTML, status: http.StatusServiceUnavailable, expectedErr: engines.ErrHTTPStatus},
	{name: "Challenge", html: challengeHTML, status: http.StatusForbidden, expectedErr: engines.ErrChallenge},
}

func TestSearchFailures(t *testing.T) {
	for _, testCase := range failureTestCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert := require.New(t)

			up := &upstream{colorHTML: testCase.html, colorStatus: testCase.status}
			server := httptest.NewServer(up.handler(assert))
			defer server.Close()

			engine := newTestEngine(assert, server.URL)
			_, err := engine.SearchURL(context.Background(), "https://example.com/cat.png", engines.Options{})
			assert.Error(err)
			assert.True(errors.Is(err, testCase.expectedErr), err.Error())

			if testCase.status == http.StatusServiceUnavailable {
				var statusErr *engines.HTTPStatusError
				assert.True(errors.As(err, &statusErr))
				assert.Equal(http.StatusServiceUnavailable, statusErr.StatusCode)
			}
		})
	}
}
