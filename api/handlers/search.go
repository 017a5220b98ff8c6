package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/picsearch/engines"
	"github.com/meghashyamc/picsearch/imaging"
	"github.com/meghashyamc/picsearch/logger"
	"github.com/meghashyamc/picsearch/services/search"
	"github.com/meghashyamc/picsearch/validation"
)

type SearchRequest struct {
	Engines       []string `json:"engines" validate:"max=7,dive,valid_engine"`
	URL           string   `json:"url" validate:"valid_image_url"`
	Base64        string   `json:"base64"`
	MinSimilarity *float64 `json:"min_similarity" validate:"omitempty,gte=0,lte=100"`
}

type UploadRequest struct {
	Engines       []string `form:"engines" validate:"max=7,dive,valid_engine"`
	MinSimilarity *float64 `form:"min_similarity" validate:"omitempty,gte=0,lte=100"`
	Shrink        bool     `form:"shrink"`
}

type SearchResponse struct {
	Results []search.Outcome `json:"results"`
}

func SetupSearch(router *gin.Engine, logger logger.Logger, service *search.Service, validator *validation.Validator, defaults engines.Options) {
	router.POST("/search", handleSearch(service, logger, validator, defaults))
	router.POST("/search/upload", handleUpload(service, logger, validator, defaults))
}

func handleSearch(service *search.Service, logger logger.Logger, validator *validation.Validator, defaults engines.Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := SearchRequest{}
		if err := c.ShouldBindJSON(&request); err != nil {
			logger.Warn("could not extract expected params from search request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request body parameters"})
			return
		}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate search request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		input := search.Input{URL: request.URL, Base64: request.Base64}
		runSearch(c, service, logger, request.Engines, input, withMinSimilarity(defaults, request.MinSimilarity))
	}
}

func handleUpload(service *search.Service, logger logger.Logger, validator *validation.Validator, defaults engines.Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := UploadRequest{}
		if err := c.ShouldBind(&request); err != nil {
			logger.Warn("could not extract expected params from upload request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request body parameters"})
			return
		}
		request.Engines = splitEngines(request.Engines)

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate upload request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		data, err := readUploadedFile(c)
		if err != nil {
			logger.Warn("could not read uploaded file", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{err.Error()})
			return
		}

		if request.Shrink {
			if data, err = imaging.Shrink(data); err != nil {
				logger.Warn("could not shrink uploaded image", "err", err.Error())
				c.Abort()
				writeResponse(c, nil, http.StatusUnprocessableEntity, []string{err.Error()})
				return
			}
		}

		runSearch(c, service, logger, request.Engines, search.Input{Bytes: data}, withMinSimilarity(defaults, request.MinSimilarity))
	}
}

func runSearch(c *gin.Context, service *search.Service, logger logger.Logger, engineNames []string, input search.Input, opts engines.Options) {
	outcomes, err := service.Search(c.Request.Context(), engineNames, input, opts)
	if err != nil {
		logger.Warn("search request rejected", "err", err.Error())
		c.Abort()
		status := http.StatusInternalServerError
		if errors.Is(err, search.ErrInvalidInput) || errors.Is(err, search.ErrUnknownEngine) {
			status = http.StatusNotAcceptable
		}
		writeResponse(c, nil, status, []string{err.Error()})
		return
	}

	searchResponse := SearchResponse{Results: outcomes}

	// A lone failing engine fails the request; with several engines each
	// outcome reports its own error.
	if len(outcomes) == 1 && outcomes[0].Error != "" {
		writeResponse(c, searchResponse, statusForKind(outcomes[0].Kind), []string{outcomes[0].Error})
		return
	}

	writeResponse(c, searchResponse, http.StatusOK, nil)
}

func withMinSimilarity(defaults engines.Options, minSimilarity *float64) engines.Options {
	if minSimilarity != nil {
		defaults.MinSimilarity = engines.Float(*minSimilarity)
	}
	return defaults
}

// splitEngines accepts both repeated form fields and comma-separated lists.
func splitEngines(values []string) []string {
	names := []string{}
	for _, value := range values {
		for _, name := range strings.Split(value, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}

func readUploadedFile(c *gin.Context) ([]byte, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, errors.New("missing image file in field 'file'")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("uploaded image file is empty")
	}
	return data, nil
}
