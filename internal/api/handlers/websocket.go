package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dynbilliards/backend/internal/sim"
	"github.com/dynbilliards/backend/internal/ws"
)

// HandleRunWebSocket attaches a renderer to a run's frame stream.
func HandleRunWebSocket(hub *ws.Hub, manager *sim.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Param("token")
		if err := ws.Serve(hub, manager, c.Writer, c.Request, token); err != nil {
			log.Printf("[WS] Failed to attach to run %s: %v", token, err)
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		}
	}
}
