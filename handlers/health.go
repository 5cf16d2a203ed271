package handlers

import (
	"net/http"

	"metro/utils"

	"github.com/gin-gonic/gin"
)

// Health reports dependency liveness from the background monitor.
func Health(c *gin.Context) {
	h := utils.GetHealthStatus()
	status := http.StatusOK
	state := "ok"
	if !h.Mongo || !h.Redis {
		status = http.StatusServiceUnavailable
		state = "degraded"
	}
	c.JSON(status, gin.H{"status": state, "mongo": h.Mongo, "redis": h.Redis, "checkedAt": h.CheckedAt})
}
