package middleware

import (
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tmaenge-dot/mystore-admin/internal/cache"
)

const (
	LoginMaxAttempts = 5
	APIMaxRequests   = 100 // par minute pour les endpoints publics en écriture

	LoginCooldown = 15 * time.Minute
	APICooldown   = time.Minute
)

// RateLimit limite le nombre de requêtes par IP pour un périmètre donné
func RateLimit(limiter cache.Limiter, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := limiter.Allow(c.Request.Context(), scope+":"+c.ClientIP())
		if err != nil {
			zap.S().Warnf("⚠️ Limiteur indisponible (%s): %v", scope, err)
			c.Next()
			return
		}
		if !d.Allowed {
			AbortRateLimited(c, "Trop de requêtes. Réessayez dans quelques instants", d.RetryAfter)
			return
		}
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", d.Remaining))
		c.Next()
	}
}

// RetryAfterSeconds arrondit au supérieur, avec un minimum d'une seconde
func RetryAfterSeconds(d time.Duration) int {
	secs := int(math.Ceil(d.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return secs
}

// AbortRateLimited répond 429 avec l'en-tête Retry-After et retry_after en secondes
func AbortRateLimited(c *gin.Context, message string, retryAfter time.Duration) {
	secs := RetryAfterSeconds(retryAfter)
	c.Header("Retry-After", fmt.Sprintf("%d", secs))
	c.JSON(http.StatusTooManyRequests, gin.H{
		"error":       message,
		"retry_after": secs,
	})
	c.Abort()
}
