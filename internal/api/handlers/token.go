package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"github.com/dynbilliards/backend/internal/config"
)

// issueRunToken signs a JWT scoped to a single run. Whoever created the run
// holds its control token; there are no user accounts.
func issueRunToken(cfg *config.Config, runToken string) (string, error) {
	exp := time.Now().Add(time.Duration(cfg.TokenTTLHours) * time.Hour)
	claims := jwt.MapClaims{"run_token": runToken, "exp": exp.Unix()}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// parseRunToken verifies a signed run JWT and returns the run token claim.
func parseRunToken(cfg *config.Config, signed string) (string, error) {
	parsed, err := jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method %s", token.Method.Alg())
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return "", fmt.Errorf("invalid token claims")
	}
	runToken, _ := claims["run_token"].(string)
	if runToken == "" {
		return "", fmt.Errorf("missing run_token claim")
	}
	return runToken, nil
}

// bearerToken pulls the JWT from the Authorization header, falling back to
// the access_token query parameter for WebSocket clients that cannot set
// headers.
func bearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return c.Query("access_token")
}

// RequireRunToken guards mutating run endpoints: the JWT must be scoped to
// the run named in the URL.
func RequireRunToken(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		signed := bearerToken(c)
		if signed == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing access token"})
			return
		}
		runToken, err := parseRunToken(cfg, signed)
		if err != nil || runToken != c.Param("token") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid access token"})
			return
		}
		c.Next()
	}
}
