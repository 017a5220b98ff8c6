package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/picsearch/config"
	"github.com/meghashyamc/picsearch/engines"
	"github.com/meghashyamc/picsearch/logger"
	"github.com/meghashyamc/picsearch/metrics"
	"github.com/meghashyamc/picsearch/services/search"
	"github.com/meghashyamc/picsearch/validation"
)

type server struct {
	cfg        *config.Config
	router     *gin.Engine
	httpServer *http.Server
	service    *search.Service
	validator  *validation.Validator
	metrics    metrics.Metrics
	logger     logger.Logger
}

func Run(ctx context.Context, cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)

	defer cancel()

	s := &server{
		cfg:    cfg,
		logger: logger.New(cfg.GetLogLevel()),
	}
	if err := s.setupDependencies(); err != nil {
		return err
	}
	s.setupRouter()
	s.setupHTTPServer()
	s.setupGracefulShutdown(ctx)

	return nil
}

func (s *server) setupDependencies() error {
	s.metrics = metrics.New()

	searchers, err := search.NewEngines(s.logger, search.Settings{
		UserAgent:         s.cfg.GetUserAgent(),
		RequestsPerSecond: s.cfg.GetRequestsPerSecond(),
		SauceNAOAPIKey:    s.cfg.GetSauceNAOAPIKey(),
		YandexCookie:      s.cfg.GetYandexCookie(),
	})
	if err != nil {
		s.logger.Error("error creating engines", "err", err.Error())
		return err
	}
	s.service = search.New(s.logger, s.metrics, searchers...)

	s.validator, err = validation.New(s.logger, s.service.Engines()...)
	if err != nil {
		s.logger.Error("error creating validator", "err", err.Error())
		return err
	}

	return nil

}

func (s *server) setupRouter() {
	router := newRouter()

	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware(s.logger, s.metrics))

	setupRoutes(router, s.logger, s.service, s.validator, s.metrics, s.searchDefaults())

	s.router = router
}

func (s *server) searchDefaults() engines.Options {
	return engines.Options{
		Proxy:         s.cfg.GetProxy(),
		Timeout:       s.cfg.GetTimeout(),
		MinSimilarity: engines.Float(s.cfg.GetMinSimilarity()),
	}
}

func (s *server) setupHTTPServer() {

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", s.cfg.GetPort()),
		Handler: s.router.Handler(),
	}
	s.httpServer = httpServer
	go func() {
		s.logger.Info("starting http server", "addr", httpServer.Addr, "engines", s.service.Engines())
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()
}

func (s *server) setupGracefulShutdown(ctx context.Context) {

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		s.logger.Info("starting to shut down http server")
		shutdownCtx := context.Background()
		shutdownCtx, cancel := context.WithTimeout(shutdownCtx, 10*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("error shutting down http server", "err", err)
			return
		}
		s.logger.Info("shut down http server successfully")
	}()

	wg.Wait()
}
