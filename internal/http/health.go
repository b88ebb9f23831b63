package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthController serves the liveness endpoint.
type HealthController struct {
	version string
}

func NewHealthController(version string) *HealthController {
	return &HealthController{version: version}
}

// Health handles GET /health.
func (controller *HealthController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": controller.version})
}
