package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, timestamp, uptime"
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(h.started).Seconds(),
	})
}

// @Summary      Fleet analytics
// @Description  Approximate fleet summary derived from the current store snapshot
// @Tags         system
// @Produce      json
// @Success      200  {object}  service.FleetSummary
// @Failure      500  {object}  map[string]string
// @Router       /analytics [get]
func (h *Handler) analytics(c *gin.Context) {
	summary, err := h.services.Analytics.Summary(c.Request.Context())
	if err != nil {
		h.respondError(c, "analytics_failed", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
