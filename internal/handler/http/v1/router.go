package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API v1
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	// Маршрут Health-check доступен без ключа
	api.GET("/system/health", h.healthCheck)

	protected := api.Group("")
	protected.Use(APIKeyAuthMiddleware(h.cfg, h.logger))

	reports := protected.Group("/reports")
	{
		reports.GET("", h.listReports)
		reports.GET("/geojson", h.reportsGeoJSON)
		reports.GET("/stream", h.streamReports)
		reports.POST("/:id/respond", h.respond)
	}

	protected.GET("/users/:id/notifications/stream", h.streamNotifications)

	devices := protected.Group("/devices")
	{
		devices.GET("/:id/location", h.getDeviceLocation)
		devices.PUT("/:id/location", h.updateDeviceLocation)
	}
}
