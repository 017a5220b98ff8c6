package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/meghashyamc/picsearch/engines"
	"github.com/meghashyamc/picsearch/logger"
	"github.com/meghashyamc/picsearch/metrics"
)

const (
	InputURL    = "url"
	InputFile   = "file"
	InputBytes  = "bytes"
	InputBase64 = "base64"
)

var (
	ErrUnknownEngine = errors.New("unknown engine")
	ErrInvalidInput  = errors.New("exactly one image input must be provided")
)

// Input carries the image to search for. Exactly one field must be set.
type Input struct {
	URL      string
	FilePath string
	Bytes    []byte
	Base64   string
}

// Outcome is one engine's answer to a search. Exactly one of Response and
// Error is set.
type Outcome struct {
	Engine     string            `json:"engine"`
	Response   *engines.Response `json:"response,omitempty"`
	Error      string            `json:"error,omitempty"`
	Kind       string            `json:"kind,omitempty"`
	DurationMS int64             `json:"duration_ms"`
}

type Service struct {
	logger  logger.Logger
	metrics metrics.Metrics
	names   []string
	byKey   map[string]engines.ImageSearch
}

func New(logger logger.Logger, metrics metrics.Metrics, searchers ...engines.ImageSearch) *Service {
	service := &Service{
		logger:  logger,
		metrics: metrics,
		byKey:   make(map[string]engines.ImageSearch, len(searchers)),
	}
	for _, searcher := range searchers {
		service.names = append(service.names, searcher.Name())
		service.byKey[engineKey(searcher.Name())] = searcher
	}
	return service
}

// Engines returns the configured engine names in registration order.
func (s *Service) Engines() []string {
	return append([]string(nil), s.names...)
}

// Engine looks an engine up by name, ignoring case.
func (s *Service) Engine(name string) (engines.ImageSearch, bool) {
	searcher, ok := s.byKey[engineKey(name)]
	return searcher, ok
}

// Search runs input against the named engines concurrently, or against every
// engine when names is empty. Outcomes follow the order of names. A failing
// engine never fails the whole search; only bad arguments do.
func (s *Service) Search(ctx context.Context, names []string, input Input, opts engines.Options) ([]Outcome, error) {
	inputKind, err := input.kind()
	if err != nil {
		return nil, err
	}

	if len(names) == 0 {
		names = s.names
	}
	searchers := make([]engines.ImageSearch, 0, len(names))
	for _, name := range names {
		searcher, ok := s.Engine(name)
		if !ok {
			s.logger.Warn("search requested for unknown engine", "engine", name)
			return nil, fmt.Errorf("%w: %s", ErrUnknownEngine, name)
		}
		searchers = append(searchers, searcher)
	}

	outcomes := make([]Outcome, len(searchers))
	var searchWG sync.WaitGroup

	s.logger.Info("starting search", "input", inputKind, "engines", len(searchers))
	for i, searcher := range searchers {
		searchWG.Add(1)
		go s.searchOne(ctx, searcher, inputKind, input, opts, &outcomes[i], &searchWG)
	}
	searchWG.Wait()

	return outcomes, nil
}

func (s *Service) searchOne(ctx context.Context, searcher engines.ImageSearch, inputKind string, input Input, opts engines.Options, outcome *Outcome, wg *sync.WaitGroup) {
	defer wg.Done()

	start := time.Now()
	var resp *engines.Response
	var err error
	switch inputKind {
	case InputURL:
		resp, err = searcher.SearchURL(ctx, input.URL, opts)
	case InputFile:
		resp, err = searcher.SearchFile(ctx, input.FilePath, opts)
	case InputBytes:
		resp, err = searcher.SearchBytes(ctx, input.Bytes, opts)
	case InputBase64:
		resp, err = searcher.SearchBase64(ctx, input.Base64, opts)
	}
	elapsed := time.Since(start)

	*outcome = Outcome{Engine: searcher.Name(), DurationMS: elapsed.Milliseconds()}
	if err != nil {
		kind := engines.Kind(err)
		s.logger.Error("engine search failed", "engine", searcher.Name(), "kind", kind, "err", err.Error())
		s.metrics.ObserveSearch(searcher.Name(), inputKind, kind, elapsed.Seconds(), 0)
		outcome.Error = err.Error()
		outcome.Kind = kind
		return
	}

	s.logger.Info("engine search completed", "engine", searcher.Name(), "results", len(resp.Results), "duration", elapsed.String())
	s.metrics.ObserveSearch(searcher.Name(), inputKind, metrics.OutcomeSuccess, elapsed.Seconds(), len(resp.Results))
	outcome.Response = resp
}

func (i Input) kind() (string, error) {
	kinds := []string{}
	if i.URL != "" {
		kinds = append(kinds, InputURL)
	}
	if i.FilePath != "" {
		kinds = append(kinds, InputFile)
	}
	if i.Bytes != nil {
		kinds = append(kinds, InputBytes)
	}
	if i.Base64 != "" {
		kinds = append(kinds, InputBase64)
	}
	if len(kinds) != 1 {
		return "", ErrInvalidInput
	}
	return kinds[0], nil
}

func engineKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
