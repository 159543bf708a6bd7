package handler

import (
	"errors"
	"net/http"
	"strconv"

	"movierater/internal/microservices/http-api/dto"
	"movierater/internal/microservices/http-api/service"
	"movierater/internal/rating"

	"github.com/gin-gonic/gin"
)

type RatingHandler struct {
	ratingService service.RatingService
}

func NewRatingHandler(ratingService service.RatingService) *RatingHandler {
	return &RatingHandler{
		ratingService: ratingService,
	}
}

// RegisterRoutes registers rating-related routes
func (h *RatingHandler) RegisterRoutes(router *gin.RouterGroup) {
	ratings := router.Group("/ratings")
	{
		ratings.GET("", h.List)
		ratings.POST("", h.Create)
		ratings.POST("/preview", h.Preview)
		ratings.GET("/:id", h.Get)
		ratings.DELETE("/:id", h.Delete)
	}
}

// List returns the filtered, sorted rating list
// GET /api/ratings?search=&score=&from=&to=&sort=
func (h *RatingHandler) List(c *gin.Context) {
	var params dto.RatingQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.ratingService.Query(c.Request.Context(), params)
	if err != nil {
		respondRatingError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Create saves a new rating
// POST /api/ratings
func (h *RatingHandler) Create(c *gin.Context) {
	var req dto.CreateRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.ratingService.Submit(c.Request.Context(), req)
	if err != nil {
		respondRatingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

// Preview computes the total score without saving
// POST /api/ratings/preview
func (h *RatingHandler) Preview(c *gin.Context) {
	var req dto.ScorePreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	preview, err := h.ratingService.PreviewScore(c.Request.Context(), req)
	if err != nil {
		respondRatingError(c, err)
		return
	}

	c.JSON(http.StatusOK, preview)
}

// Get returns one rating with labels resolved
// GET /api/ratings/:id
func (h *RatingHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rating ID"})
		return
	}

	detail, err := h.ratingService.Get(c.Request.Context(), id)
	if err != nil {
		respondRatingError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// Delete removes a rating; unknown IDs still succeed
// DELETE /api/ratings/:id
func (h *RatingHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rating ID"})
		return
	}

	if err := h.ratingService.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

func respondRatingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTitleRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "field": "movieTitle"})
	case errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrInvalidDateWatched),
		errors.Is(err, service.ErrFieldRequired),
		errors.Is(err, service.ErrInvalidFieldValue),
		errors.Is(err, service.ErrNoScoredCategories),
		errors.Is(err, rating.ErrInvalidScoreRange),
		errors.Is(err, rating.ErrInvalidSort),
		errors.Is(err, rating.ErrInvalidDate),
		errors.Is(err, rating.ErrUnknownFieldType):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrRatingNotFound), errors.Is(err, service.ErrFeatureDisabled):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
