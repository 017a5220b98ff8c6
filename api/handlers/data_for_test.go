package handlers

import (
	"net/http"

	"github.com/meghashyamc/picsearch/engines"
)

var defaultTestRequestHeaders = map[string]string{"Content-Type": "application/json"}

var alphaResults = []engines.SearchResult{
	{URL: "https://alpha.example/1", Similarity: engines.Float(95)},
	{URL: "//alpha.example/2", Similarity: engines.Float(30)},
	{URL: "https://alpha.example/3"},
}

const catURL = "https://example.com/cat.jpg"

// AQID is base64 for the bytes 1, 2, 3.
const smallBase64 = "AQID"

var searchHandlerTestCases = []testCase{
	{
		name:           "NoRequestBody",
		requestHeaders: defaultTestRequestHeaders,
		requestBody:    nil,
		expectedStatus: http.StatusUnprocessableEntity,
	},
	{
		name:           "NoImageInput",
		requestHeaders: defaultTestRequestHeaders,
		requestBody:    map[string]any{"engines": []string{"Alpha"}},
		expectedStatus: http.StatusNotAcceptable,
	},
	{
		name:           "URLAndBase64Together",
		requestHeaders: defaultTestRequestHeaders,
		requestBody:    map[string]any{"url": catURL, "base64": smallBase64},
		expectedStatus: http.StatusNotAcceptable,
	},
	{
		name:           "UnknownEngine",
		requestHeaders: defaultTestRequestHeaders,
		requestBody:    map[string]any{"engines": []string{"Bing"}, "url": catURL},
		expectedStatus: http.StatusNotAcceptable,
	},
	{
		name:           "RelativeURL",
		requestHeaders: defaultTestRequestHeaders,
		requestBody:    map[string]any{"url": "/cat.jpg"},
		expectedStatus: http.StatusNotAcceptable,
	},
	{
		name:           "MinSimilarityOutOfRange",
		requestHeaders: defaultTestRequestHeaders,
		requestBody:    map[string]any{"url": catURL, "min_similarity": 101},
		expectedStatus: http.StatusNotAcceptable,
	},
	{
		name:           "URLWithDefaultThreshold",
		requestHeaders: defaultTestRequestHeaders,
		requestBody:    map[string]any{"engines": []string{"alpha", "BLOCKED"}, "url": catURL},
		expectedStatus: http.StatusOK,
		expectedOutcomes: []expectedOutcome{
			{engine: "Alpha", results: 2},
			{engine: "Blocked", kind: "challenge"},
		},
	},
	{
		name:           "URLWithZeroThreshold",
		requestHeaders: defaultTestRequestHeaders,
		requestBody:    map[string]any{"engines": []string{"Alpha"}, "url": catURL, "min_similarity": 0},
		expectedStatus: http.StatusOK,
		expectedOutcomes: []expectedOutcome{
			{engine: "Alpha", results: 3},
		},
	},
	{
		name:           "Base64AllEngines",
		requestHeaders: defaultTestRequestHeaders,
		requestBody:    map[string]any{"base64": smallBase64},
		expectedStatus: http.StatusOK,
		expectedOutcomes: []expectedOutcome{
			{engine: "Alpha", results: 2},
			{engine: "Blocked", kind: "challenge"},
			{engine: "Bytes Only", results: 1},
		},
	},
	{
		name:           "SingleEngineChallenge",
		requestHeaders: defaultTestRequestHeaders,
		requestBody:    map[string]any{"engines": []string{"Blocked"}, "url": catURL},
		expectedStatus: http.StatusBadGateway,
		expectedOutcomes: []expectedOutcome{
			{engine: "Blocked", kind: "challenge"},
		},
	},
	{
		name:           "SingleEngineInvalidBase64",
		requestHeaders: defaultTestRequestHeaders,
		requestBody:    map[string]any{"engines": []string{"Bytes Only"}, "base64": "!!!"},
		expectedStatus: http.StatusUnprocessableEntity,
		expectedOutcomes: []expectedOutcome{
			{engine: "Bytes Only", kind: "decode"},
		},
	},
}

var uploadHandlerTestCases = []testCase{
	{
		name:           "MissingFile",
		formFields:     map[string]string{"engines": "Alpha"},
		expectedStatus: http.StatusUnprocessableEntity,
	},
	{
		name:           "UnknownEngine",
		formFields:     map[string]string{"engines": "Alpha,Bing"},
		file:           []byte{1, 2, 3},
		expectedStatus: http.StatusNotAcceptable,
	},
	{
		name:           "ShrinkRejectsNonImage",
		formFields:     map[string]string{"shrink": "true"},
		file:           []byte("not an image"),
		expectedStatus: http.StatusUnprocessableEntity,
	},
	{
		name:           "CommaSeparatedEngines",
		formFields:     map[string]string{"engines": "alpha, bytes only", "min_similarity": "10"},
		file:           []byte{1, 2, 3},
		expectedStatus: http.StatusOK,
		expectedOutcomes: []expectedOutcome{
			{engine: "Alpha", results: 3},
			{engine: "Bytes Only", results: 1},
		},
	},
}
