// Common test helpers
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/picsearch/engines"
	"github.com/meghashyamc/picsearch/logger"
	"github.com/meghashyamc/picsearch/metrics"
	"github.com/meghashyamc/picsearch/services/search"
	"github.com/meghashyamc/picsearch/validation"
	"github.com/stretchr/testify/require"
)

type expectedOutcome struct {
	engine  string
	results int
	kind    string
}

type testCase struct {
	name             string
	requestHeaders   map[string]string
	requestBody      map[string]any
	formFields       map[string]string
	file             []byte
	expectedStatus   int
	expectedOutcomes []expectedOutcome
}

type fakeBackend struct {
	name     string
	err      error
	results  []engines.SearchResult
	received [][]byte
}

func (b *fakeBackend) Name() string { return b.name }

func (b *fakeBackend) SearchBytes(_ context.Context, data []byte, _ engines.Options) (*engines.Response, error) {
	b.received = append(b.received, data)
	if b.err != nil {
		return nil, b.err
	}
	return &engines.Response{Results: append([]engines.SearchResult(nil), b.results...)}, nil
}

type fakeURLBackend struct {
	fakeBackend
}

func (b *fakeURLBackend) SearchURL(_ context.Context, imageURL string, _ engines.Options) (*engines.Response, error) {
	if b.err != nil {
		return nil, b.err
	}
	return &engines.Response{PageURL: "https://alpha.example/?url=" + imageURL, Results: append([]engines.SearchResult(nil), b.results...)}, nil
}

func newTestLogger() logger.Logger {

	opts := &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	}
	handler := slog.NewJSONHandler(os.Stderr, opts)
	return slog.New(handler)
}

func setupTestServer(t *testing.T, assert *require.Assertions) (*gin.Engine, *fakeBackend) {

	testLogger := newTestLogger()

	bytesOnly := &fakeBackend{name: "Bytes Only", results: []engines.SearchResult{{URL: "https://bytes.example/1"}}}
	backends := []engines.Backend{
		&fakeURLBackend{fakeBackend: fakeBackend{name: "Alpha", results: alphaResults}},
		&fakeURLBackend{fakeBackend: fakeBackend{name: "Blocked", err: &engines.ChallengeError{Engine: "Blocked", Marker: "captcha"}}},
		bytesOnly,
	}

	searchers := []engines.ImageSearch{}
	for _, backend := range backends {
		engine, err := engines.Wrap(testLogger, backend)
		assert.NoError(err, "could not wrap test engine")
		searchers = append(searchers, engine)
	}
	service := search.New(testLogger, metrics.New(), searchers...)

	validator, err := validation.New(testLogger, service.Engines()...)
	assert.NoError(err, "could not create validator")
	gin.SetMode(gin.TestMode)
	router := gin.New()

	SetupEngines(router, service)
	SetupSearch(router, testLogger, service, validator, engines.DefaultOptions())

	return router, bytesOnly
}

func makeTestHTTPRequest(router *gin.Engine, assert *require.Assertions, method string, endpoint string, headers map[string]string, requestBodyMap map[string]interface{}, queryParams map[string]string) *httptest.ResponseRecorder {

	var err error
	w := httptest.NewRecorder()

	if len(queryParams) > 0 {
		endpoint = endpoint + "?"
		for key, value := range queryParams {
			if endpoint[len(endpoint)-1] != '?' {
				endpoint = endpoint + "&"
			}
			endpoint = endpoint + key + "=" + value
		}
	}
	var jsonBody []byte
	var req *http.Request
	if requestBodyMap != nil {
		jsonBody, err = json.Marshal(requestBodyMap)
		assert.NoError(err)
	}

	slog.Info("Making test request", "method", method, "endpoint", endpoint, "headers", headers, "body", string(jsonBody))

	if len(jsonBody) > 0 {
		req, err = http.NewRequest(method, endpoint, bytes.NewBuffer(jsonBody))
	} else {
		req, err = http.NewRequest(method, endpoint, nil)
	}
	assert.NoError(err)

	for key, value := range headers {
		req.Header.Set(key, value)
	}
	router.ServeHTTP(w, req)

	return w
}

func makeTestUploadRequest(router *gin.Engine, assert *require.Assertions, endpoint string, fields map[string]string, file []byte) *httptest.ResponseRecorder {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for key, value := range fields {
		assert.NoError(writer.WriteField(key, value))
	}
	if file != nil {
		part, err := writer.CreateFormFile("file", "image.png")
		assert.NoError(err)
		_, err = part.Write(file)
		assert.NoError(err)
	}
	assert.NoError(writer.Close())

	req, err := http.NewRequest(http.MethodPost, endpoint, &body)
	assert.NoError(err)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func assertOutcomes(assert *require.Assertions, responseBytes []byte, expected []expectedOutcome) {
	var decoded struct {
		Data struct {
			Results []search.Outcome `json:"results"`
		} `json:"data"`
	}
	assert.NoError(json.Unmarshal(responseBytes, &decoded))

	outcomes := decoded.Data.Results
	assert.Len(outcomes, len(expected), fmt.Sprintf("response gotten was %s", string(responseBytes)))
	for i, expectedOutcome := range expected {
		assert.Equal(expectedOutcome.engine, outcomes[i].Engine)
		assert.Equal(expectedOutcome.kind, outcomes[i].Kind)
		if expectedOutcome.kind != "" {
			assert.Nil(outcomes[i].Response)
			assert.NotEmpty(outcomes[i].Error)
			continue
		}
		assert.Len(outcomes[i].Response.Results, expectedOutcome.results)
	}
}
