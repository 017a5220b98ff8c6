package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type response struct {
	Data   any      `json:"data"`
	Errors []string `json:"errors"`
}

func writeResponse(c *gin.Context, data interface{}, statusCode int, errors []string) {

	if statusCode == http.StatusNoContent {
		c.JSON(statusCode, nil)
		return

	}

	response := response{
		Data:   data,
		Errors: errors,
	}

	c.JSON(statusCode, response)
}

// statusForKind maps an engine error kind to the status returned when a
// single-engine search fails.
func statusForKind(kind string) int {
	switch kind {
	case "decode":
		return http.StatusUnprocessableEntity
	case "unsupported":
		return http.StatusBadRequest
	case "challenge", "http_status", "transport", "upstream_api", "extraction":
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
