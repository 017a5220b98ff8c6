package search

import (
	"github.com/meghashyamc/picsearch/engines"
	"github.com/meghashyamc/picsearch/engines/ascii2d"
	"github.com/meghashyamc/picsearch/engines/google"
	"github.com/meghashyamc/picsearch/engines/googlelens"
	"github.com/meghashyamc/picsearch/engines/iqdb"
	"github.com/meghashyamc/picsearch/engines/saucenao"
	"github.com/meghashyamc/picsearch/engines/soutubot"
	"github.com/meghashyamc/picsearch/engines/yandex"
	"github.com/meghashyamc/picsearch/logger"
	"golang.org/x/time/rate"
)

// Settings configures the engine catalogue.
type Settings struct {
	UserAgent string
	// RequestsPerSecond throttles each engine separately. Zero disables throttling.
	RequestsPerSecond float64
	SauceNAOAPIKey    string
	YandexCookie      string
	// BaseURLs overrides endpoints by engine name.
	BaseURLs map[string]string
}

// NewEngines builds every supported engine, in catalogue order.
func NewEngines(logger logger.Logger, settings Settings) ([]engines.ImageSearch, error) {
	config := func(name string) engines.Config {
		cfg := engines.Config{
			BaseURL:   settings.BaseURLs[name],
			UserAgent: settings.UserAgent,
		}
		if settings.RequestsPerSecond > 0 {
			cfg.Limiter = rate.NewLimiter(rate.Limit(settings.RequestsPerSecond), 1)
		}
		return cfg
	}

	backends := []engines.Backend{
		ascii2d.New(logger, config(ascii2d.Name)),
		iqdb.New(logger, config(iqdb.Name)),
		google.New(logger, config(google.Name)),
		googlelens.New(logger, config(googlelens.Name)),
		saucenao.New(logger, saucenao.Config{Config: config(saucenao.Name), APIKey: settings.SauceNAOAPIKey}),
		soutubot.New(logger, config(soutubot.Name)),
		yandex.New(logger, yandex.Config{Config: config(yandex.Name), Cookie: settings.YandexCookie}),
	}

	searchers := make([]engines.ImageSearch, 0, len(backends))
	for _, backend := range backends {
		engine, err := engines.Wrap(logger, backend)
		if err != nil {
			logger.Error("could not set up engine", "engine", backend.Name(), "err", err.Error())
			return nil, err
		}
		searchers = append(searchers, engine)
	}
	return searchers, nil
}

// EngineNames lists the catalogue without building it.
func EngineNames() []string {
	return []string{ascii2d.Name, iqdb.Name, google.Name, googlelens.Name, saucenao.Name, soutubot.Name, yandex.Name}
}
