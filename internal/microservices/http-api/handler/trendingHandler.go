package handler

import (
	"context"
	"net/http"

	"movierater/internal/pkg/logger"
	"movierater/internal/trending"

	"github.com/gin-gonic/gin"
)

// TMDBKeyHeader lets a caller supply its own TMDB key per request.
const TMDBKeyHeader = "X-TMDB-Key"

// TrendingProvider returns trending movies, using apiKey when non-empty.
type TrendingProvider interface {
	Trending(ctx context.Context, apiKey string) ([]trending.Movie, error)
}

type trendingClient struct {
	client *trending.Client
}

// TrendingFromClient adapts a TMDB client to TrendingProvider.
func TrendingFromClient(client *trending.Client) TrendingProvider {
	return trendingClient{client: client}
}

func (t trendingClient) Trending(ctx context.Context, apiKey string) ([]trending.Movie, error) {
	client := t.client
	if apiKey != "" {
		client = client.WithAPIKey(apiKey)
	}
	return client.Trending(ctx)
}

type TrendingHandler struct {
	provider TrendingProvider
	log      *logger.Logger
}

func NewTrendingHandler(provider TrendingProvider, log *logger.Logger) *TrendingHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &TrendingHandler{provider: provider, log: log}
}

func (h *TrendingHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/trending", h.List)
}

// List returns this week's trending movies. Upstream failures are reported
// inline with 502; they never affect the rest of the API.
// GET /api/trending
func (h *TrendingHandler) List(c *gin.Context) {
	movies, err := h.provider.Trending(c.Request.Context(), c.GetHeader(TMDBKeyHeader))
	if err != nil {
		h.log.Warn("Trending fetch failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"movies": movies})
}
