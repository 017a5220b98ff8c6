package engines

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/meghashyamc/picsearch/logger"
	"github.com/meghashyamc/picsearch/transport"
)

// ImageSearch is the uniform contract every engine exposes once wrapped.
type ImageSearch interface {
	Name() string
	SearchURL(ctx context.Context, imageURL string, opts Options) (*Response, error)
	SearchFile(ctx context.Context, path string, opts Options) (*Response, error)
	SearchBytes(ctx context.Context, data []byte, opts Options) (*Response, error)
	SearchBase64(ctx context.Context, encoded string, opts Options) (*Response, error)
}

// Backend is an engine implementation. It must also implement at least one
// of URLSearcher, FileSearcher, BytesSearcher or Base64Searcher.
type Backend interface {
	Name() string
}

type URLSearcher interface {
	SearchURL(ctx context.Context, imageURL string, opts Options) (*Response, error)
}

type FileSearcher interface {
	SearchFile(ctx context.Context, path string, opts Options) (*Response, error)
}

type BytesSearcher interface {
	SearchBytes(ctx context.Context, data []byte, opts Options) (*Response, error)
}

type Base64Searcher interface {
	SearchBase64(ctx context.Context, encoded string, opts Options) (*Response, error)
}

// Engine fills in the entry points a backend does not implement natively:
// URLs are downloaded, files are read, and bytes and base64 convert into
// each other. It also applies Options.MinSimilarity to every response.
type Engine struct {
	name    string
	backend Backend
	url     URLSearcher
	file    FileSearcher
	bytes   BytesSearcher
	base64  Base64Searcher
	logger  logger.Logger
}

var _ ImageSearch = (*Engine)(nil)

func Wrap(logger logger.Logger, backend Backend) (*Engine, error) {
	engine := &Engine{
		name:    backend.Name(),
		backend: backend,
		logger:  logger,
	}
	engine.url, _ = backend.(URLSearcher)
	engine.file, _ = backend.(FileSearcher)
	engine.bytes, _ = backend.(BytesSearcher)
	engine.base64, _ = backend.(Base64Searcher)

	if engine.url == nil && engine.file == nil && engine.bytes == nil && engine.base64 == nil {
		return nil, &UnsupportedError{Engine: engine.name, Input: "any input"}
	}
	return engine, nil
}

func (e *Engine) Name() string {
	return e.name
}

func (e *Engine) Backend() Backend {
	return e.backend
}

func (e *Engine) SearchURL(ctx context.Context, imageURL string, opts Options) (*Response, error) {
	resp, err := e.searchURL(ctx, imageURL, opts)
	return e.finish(resp, err, opts)
}

func (e *Engine) SearchFile(ctx context.Context, path string, opts Options) (*Response, error) {
	resp, err := e.searchFile(ctx, path, opts)
	return e.finish(resp, err, opts)
}

func (e *Engine) SearchBytes(ctx context.Context, data []byte, opts Options) (*Response, error) {
	resp, err := e.searchBytes(ctx, data, opts)
	return e.finish(resp, err, opts)
}

func (e *Engine) SearchBase64(ctx context.Context, encoded string, opts Options) (*Response, error) {
	resp, err := e.searchBase64(ctx, encoded, opts)
	return e.finish(resp, err, opts)
}

func (e *Engine) searchURL(ctx context.Context, imageURL string, opts Options) (*Response, error) {
	if e.url != nil {
		return e.url.SearchURL(ctx, imageURL, opts)
	}
	if e.bytes == nil && e.base64 == nil {
		return nil, &UnsupportedError{Engine: e.name, Input: "url"}
	}
	data, err := e.download(ctx, imageURL, opts)
	if err != nil {
		return nil, err
	}
	return e.searchBytes(ctx, data, opts)
}

func (e *Engine) searchFile(ctx context.Context, path string, opts Options) (*Response, error) {
	if e.file != nil {
		return e.file.SearchFile(ctx, path, opts)
	}
	if e.bytes == nil && e.base64 == nil {
		return nil, &UnsupportedError{Engine: e.name, Input: "file"}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &DecodeError{Engine: e.name, Err: fmt.Errorf("failed to read image file: %w", err)}
	}
	return e.searchBytes(ctx, data, opts)
}

func (e *Engine) searchBytes(ctx context.Context, data []byte, opts Options) (*Response, error) {
	if len(data) == 0 {
		return nil, &DecodeError{Engine: e.name, Err: errors.New("empty image data")}
	}
	switch {
	case e.bytes != nil:
		return e.bytes.SearchBytes(ctx, data, opts)
	case e.base64 != nil:
		return e.base64.SearchBase64(ctx, EncodeBase64(data), opts)
	default:
		return nil, &UnsupportedError{Engine: e.name, Input: "bytes"}
	}
}

func (e *Engine) searchBase64(ctx context.Context, encoded string, opts Options) (*Response, error) {
	if e.base64 != nil {
		return e.base64.SearchBase64(ctx, encoded, opts)
	}
	if e.bytes == nil {
		return nil, &UnsupportedError{Engine: e.name, Input: "base64"}
	}
	data, err := DecodeBase64(encoded)
	if err != nil {
		return nil, &DecodeError{Engine: e.name, Err: err}
	}
	return e.searchBytes(ctx, data, opts)
}

func (e *Engine) download(ctx context.Context, imageURL string, opts Options) ([]byte, error) {
	client, err := transport.New(e.logger, transport.Config{Proxy: opts.Proxy, Timeout: opts.Timeout})
	if err != nil {
		return nil, &TransportError{Engine: e.name, Err: err}
	}
	resp, err := DoOK(ctx, e.name, client, &transport.Request{URL: imageURL})
	if err != nil {
		e.logger.Warn("failed to download image", "engine", e.name, "url", imageURL, "err", err.Error())
		return nil, err
	}
	return resp.Body, nil
}

func (e *Engine) finish(resp *Response, err error, opts Options) (*Response, error) {
	if err != nil {
		return nil, err
	}
	if resp == nil {
		resp = &Response{}
	}
	if resp.Results == nil {
		resp.Results = []SearchResult{}
	}
	for i := range resp.Results {
		result := &resp.Results[i]
		result.URL = NormalizeURL(result.URL)
		result.Thumbnail = NormalizeURL(result.Thumbnail)
		if result.Similarity != nil {
			result.Similarity = Float(ClampSimilarity(*result.Similarity))
		}
	}
	if opts.MinSimilarity != nil {
		resp.Results = FilterBySimilarity(resp.Results, *opts.MinSimilarity)
	}
	return resp, nil
}
