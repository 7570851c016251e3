package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dynbilliards/backend/internal/config"
	"github.com/dynbilliards/backend/internal/sim"
)

// CreateRun builds a new simulation run from a scene config and returns the
// run token plus a JWT that controls it.
func CreateRun(manager *sim.Manager, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var scene sim.SceneConfig
		if err := c.BindJSON(&scene); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scene config"})
			return
		}
		if cfg.MaxBalls > 0 && len(scene.Balls) > cfg.MaxBalls {
			c.JSON(http.StatusBadRequest, gin.H{"error": "too many balls"})
			return
		}

		run, err := manager.CreateRun(scene)
		if err != nil {
			if errors.Is(err, sim.ErrTooManyRuns) {
				c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
				return
			}
			// Configuration errors (ball outside boundary, bad geometry,
			// unknown table kind) are the caller's to fix.
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		accessToken, err := issueRunToken(cfg, run.Token)
		if err != nil {
			log.Printf("[API] Failed to sign run token: %v", err)
			manager.Delete(run.Token)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		snap, _ := manager.Snapshot(run.Token)
		outline, _ := manager.Outline(run.Token)
		c.JSON(http.StatusCreated, gin.H{
			"token":        run.Token,
			"access_token": accessToken,
			"snapshot":     snap,
			"outline":      outline,
		})
	}
}

// GetRun returns the current snapshot of a run. Runs not live on this node
// are served from the Redis cache when available.
func GetRun(manager *sim.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Param("token")
		snap, err := manager.Snapshot(token)
		if err != nil {
			if cached, cerr := manager.CachedSnapshot(c.Request.Context(), token); cerr == nil {
				c.JSON(http.StatusOK, gin.H{"snapshot": cached, "cached": true})
				return
			}
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"snapshot": snap})
	}
}

// StepRun advances a paused run by one tick. The optional dt in the body
// overrides the scene's increment for this tick only.
func StepRun(manager *sim.Manager, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Dt float64 `json:"dt"`
		}
		// An empty body means "use the scene dt".
		c.ShouldBindJSON(&req)

		if req.Dt < 0 || (cfg.MaxDt > 0 && req.Dt > cfg.MaxDt) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "dt out of range"})
			return
		}

		snap, err := manager.StepOnce(c.Param("token"), req.Dt)
		if err != nil {
			if errors.Is(err, sim.ErrRunPlaying) {
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"snapshot": snap})
	}
}

// PlayRun starts the run's ticker.
func PlayRun(manager *sim.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := manager.Play(c.Param("token")); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"playing": true})
	}
}

// PauseRun stops the run's ticker.
func PauseRun(manager *sim.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := manager.Pause(c.Param("token")); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"playing": false})
	}
}

// PreviewRun returns the table outline and current ball layout as a drawable
// scene, the renderer-facing analog of a static preview image.
func PreviewRun(manager *sim.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Param("token")
		snap, err := manager.Snapshot(token)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return
		}
		outline, err := manager.Outline(token)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"outline": outline,
			"balls":   snap.Balls,
			"trace":   snap.Trace,
		})
	}
}
