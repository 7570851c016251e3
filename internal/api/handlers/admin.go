package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dynbilliards/backend/internal/admin"
	"github.com/dynbilliards/backend/internal/config"
	"github.com/dynbilliards/backend/internal/sim"
	"github.com/dynbilliards/backend/internal/store"
)

// RequireAdmin guards the admin surface with the bcrypt-hashed token from
// the environment. With no hash configured the surface is disabled.
func RequireAdmin(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !admin.VerifyToken(cfg.AdminTokenHash, c.GetHeader("X-Admin-Token")) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin token required"})
			return
		}
		c.Next()
	}
}

// AdminListRuns returns all live runs plus the most recent persisted ones.
func AdminListRuns(manager *sim.Manager, st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		live := manager.List()

		persisted, err := st.ListRuns(100)
		if err != nil {
			log.Printf("[DB] Failed to list runs: %v", err)
		}

		c.JSON(http.StatusOK, gin.H{
			"live":      live,
			"persisted": persisted,
		})
	}
}

// AdminDeleteRun stops and removes a run.
func AdminDeleteRun(manager *sim.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := manager.Delete(c.Param("token")); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}
