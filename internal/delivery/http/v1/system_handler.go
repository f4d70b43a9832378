package v1

import (
	"net/http"

	"jobspace-backend/internal/delivery/http/middleware"
	"jobspace-backend/internal/delivery/http/response"
	"jobspace-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type SystemHandler struct {
	systemUC domain.SystemUsecase
}

func NewSystemHandler(r *gin.RouterGroup, systemUC domain.SystemUsecase, enforce bool) {
	handler := &SystemHandler{systemUC: systemUC}

	r.GET("/health", handler.Health)
	r.GET("/stats", middleware.RequireRole(enforce, domain.RoleAdmin), handler.Stats)
}

// Health godoc
// @Summary      Liveness probe
// @Tags         system
// @Produce      json
// @Success      200  {object}  domain.HealthStatus
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.systemUC.Health(c.Request.Context()))
}

// Stats godoc
// @Summary      Dashboard counters
// @Tags         system
// @Produce      json
// @Success      200  {object}  domain.Stats
// @Failure      500  {object}  response.ErrorBody
// @Router       /stats [get]
// @Security     BearerAuth
func (h *SystemHandler) Stats(c *gin.Context) {
	stats, err := h.systemUC.Stats(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, stats)
}
