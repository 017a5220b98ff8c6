package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/picsearch/api/handlers"
	"github.com/meghashyamc/picsearch/engines"
	"github.com/meghashyamc/picsearch/logger"
	"github.com/meghashyamc/picsearch/metrics"
	"github.com/meghashyamc/picsearch/services/search"
	"github.com/meghashyamc/picsearch/validation"
)

func setupRoutes(router *gin.Engine, logger logger.Logger, service *search.Service, validator *validation.Validator, metrics metrics.Metrics, defaults engines.Options) {
	router.GET("/health", health())
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	handlers.SetupEngines(router, service)
	handlers.SetupSearch(router, logger, service, validator, defaults)
}

func health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	}
}

func newRouter() *gin.Engine {
	router := gin.New()
	router.UseRawPath = true
	router.Use(_CORSMiddleware())
	router.Use(gin.Recovery())

	return router
}
