package handler

import (
	"context"
	"errors"
	"net/http"

	"movierater/internal/detect"
	"movierater/internal/messaging"
	"movierater/internal/microservices/http-api/dto"

	"github.com/gin-gonic/gin"
)

// TabRegistry owns the per-tab watchers.
type TabRegistry interface {
	Snapshot(ctx context.Context, tabID string, page *detect.Page) error
	Close(tabID string)
}

// MessageBridge answers tab requests.
type MessageBridge interface {
	Request(ctx context.Context, tabID, action string) (messaging.Response, error)
}

type TabsHandler struct {
	tabs   TabRegistry
	bridge MessageBridge
}

func NewTabsHandler(tabs TabRegistry, bridge MessageBridge) *TabsHandler {
	return &TabsHandler{tabs: tabs, bridge: bridge}
}

func (h *TabsHandler) RegisterRoutes(router *gin.RouterGroup) {
	tabs := router.Group("/tabs/:tab_id")
	{
		tabs.POST("/snapshot", h.Snapshot)
		tabs.GET("/message", h.Message)
		tabs.DELETE("", h.Close)
	}
}

// Snapshot feeds the tab's current page to its watcher
// POST /api/tabs/:tab_id/snapshot
func (h *TabsHandler) Snapshot(c *gin.Context) {
	tabID := c.Param("tab_id")

	var req dto.SnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := detect.NewPageFromString(req.URL, req.HTML)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.tabs.Snapshot(c.Request.Context(), tabID, page); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, dto.SnapshotResponse{TabID: tabID})
}

// Message asks the tab for its title or genre
// GET /api/tabs/:tab_id/message?action=getMovieTitle
func (h *TabsHandler) Message(c *gin.Context) {
	action := c.Query("action")
	if action == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "action is required"})
		return
	}

	resp, err := h.bridge.Request(c.Request.Context(), c.Param("tab_id"), action)
	if err != nil {
		switch {
		case errors.Is(err, messaging.ErrUnknownAction):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, messaging.ErrResponderUnavailable):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, messaging.ErrResponderTimeout):
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Close stops the tab's watcher
// DELETE /api/tabs/:tab_id
func (h *TabsHandler) Close(c *gin.Context) {
	h.tabs.Close(c.Param("tab_id"))
	c.Status(http.StatusNoContent)
}
