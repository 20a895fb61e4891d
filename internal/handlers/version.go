package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterVersionRoutes exposes the configured version string as plain text.
// Field tools compare it against their own version to decide whether to upgrade.
func RegisterVersionRoutes(r gin.IRoutes, version string) {
	r.GET("/version", func(c *gin.Context) {
		c.String(http.StatusOK, version)
	})
}
