package websocket

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// NewUpgrader accepts requests without an Origin header (CLI and other
// non-browser clients) and browser requests from allowedOrigins. An entry
// ending in "*" matches by prefix, so "*" alone allows every origin.
func NewUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, allowed := range allowedOrigins {
				if allowed == origin {
					return true
				}
				if prefix, ok := strings.CutSuffix(allowed, "*"); ok && strings.HasPrefix(origin, prefix) {
					return true
				}
			}
			return false
		},
	}
}

// WatchHandler upgrades GET /api/tabs/:tab_id/watch to a watch stream.
func WatchHandler(hub *Hub, allowedOrigins []string) gin.HandlerFunc {
	upgrader := NewUpgrader(allowedOrigins)
	return func(c *gin.Context) {
		tabID := c.Param("tab_id")
		if tabID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "tab id is required"})
			return
		}

		// Upgrade writes its own error response.
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			hub.log.Warn("Failed to upgrade to WebSocket", "tab", tabID, "error", err)
			return
		}

		client := NewClient(uuid.NewString(), tabID, conn, hub)
		if !hub.register(client) {
			_ = conn.Close()
			return
		}

		go client.WritePump()
		go client.ReadPump()
	}
}
