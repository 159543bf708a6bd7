package handler

import (
	"errors"
	"net/http"

	"movierater/internal/detect"
	"movierater/internal/microservices/http-api/dto"
	"movierater/internal/pkg/logger"

	"github.com/gin-gonic/gin"
)

// maxBatchURLs bounds one batch request.
const maxBatchURLs = 50

type DetectHandler struct {
	detector *detect.Detector
	loader   detect.PageLoader
	workers  int
	log      *logger.Logger
}

func NewDetectHandler(detector *detect.Detector, loader detect.PageLoader, workers int, log *logger.Logger) *DetectHandler {
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = logger.Nop()
	}
	return &DetectHandler{detector: detector, loader: loader, workers: workers, log: log}
}

func (h *DetectHandler) RegisterRoutes(router *gin.RouterGroup) {
	d := router.Group("/detect")
	{
		d.POST("", h.Detect)
		d.POST("/batch", h.Batch)
	}
}

// Detect reads the title and genre of one page. The page is fetched unless
// the request carries its HTML.
// POST /api/detect
func (h *DetectHandler) Detect(c *gin.Context) {
	var req dto.DetectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var (
		page *detect.Page
		err  error
	)
	if req.HTML != "" {
		page, err = detect.NewPageFromString(req.URL, req.HTML)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	} else {
		page, err = h.loader.Fetch(c.Request.Context(), req.URL)
		if err != nil {
			h.log.Warn("Detect fetch failed", "url", req.URL, "error", err)
			if errors.Is(err, detect.ErrFetchFailed) {
				c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, h.detector.Detect(page))
}

// Batch detects many URLs concurrently, keeping request order.
// POST /api/detect/batch
func (h *DetectHandler) Batch(c *gin.Context) {
	var req dto.BatchDetectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.URLs) > maxBatchURLs {
		c.JSON(http.StatusBadRequest, gin.H{"error": "too many urls"})
		return
	}

	results := detect.BatchDetect(c.Request.Context(), h.detector, h.loader, req.URLs, h.workers, h.log)
	c.JSON(http.StatusOK, dto.BatchDetectResponse{Results: results})
}
