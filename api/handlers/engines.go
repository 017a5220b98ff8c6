package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/picsearch/services/search"
)

type EnginesResponse struct {
	Engines []string `json:"engines"`
}

func SetupEngines(router *gin.Engine, service *search.Service) {
	router.GET("/engines", handleEngines(service))
}

func handleEngines(service *search.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		writeResponse(c, EnginesResponse{Engines: service.Engines()}, http.StatusOK, nil)
	}
}
