package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// sourceCtxKey is the Gin context key holding the label of the matched ingest key.
const sourceCtxKey = "ingest_source"

// IngestKeyMiddleware gates ping submission on X-API-Key when keys (key -> label)
// is non-empty. With no keys configured every request passes, which keeps
// field tools that never learned about keys working.
func IngestKeyMiddleware(keys map[string]string) gin.HandlerFunc {
	if len(keys) == 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		apiKey := strings.TrimSpace(c.GetHeader("X-API-Key"))
		label, ok := lookup(keys, apiKey)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set(sourceCtxKey, label)
		c.Next()
	}
}

// Source returns the label of the ingest key used for this request, or "".
func Source(c *gin.Context) string {
	v, _ := c.Get(sourceCtxKey)
	s, _ := v.(string)
	return s
}

func lookup(keys map[string]string, apiKey string) (string, bool) {
	if apiKey == "" {
		return "", false
	}
	for k, label := range keys {
		if subtle.ConstantTimeCompare([]byte(k), []byte(apiKey)) == 1 {
			return label, true
		}
	}
	return "", false
}
