package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shenikar/accident_response/internal/config"
	"github.com/shenikar/accident_response/internal/device"
	"github.com/shenikar/accident_response/internal/models"
	"github.com/shenikar/accident_response/internal/service"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	reports   service.ReportFeed
	responder service.ResponseService
	locations service.LocationService
	feeds     service.LiveFeeds
	logger    *logrus.Logger
	validate  *validator.Validate
	cfg       *config.Config
}

func NewHandler(
	reports service.ReportFeed,
	responder service.ResponseService,
	locations service.LocationService,
	feeds service.LiveFeeds,
	logger *logrus.Logger,
	cfg *config.Config,
) *Handler {
	return &Handler{
		reports:   reports,
		responder: responder,
		locations: locations,
		feeds:     feeds,
		logger:    logger,
		validate:  validator.New(),
		cfg:       cfg,
	}
}

// @Summary Get accident reports
// @Description Get the latest published list of accident reports, newest first. Requires API key.
// @Tags Reports
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} ReportListResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /reports [get]
func (h *Handler) listReports(c *gin.Context) {
	c.JSON(http.StatusOK, ModelsToReportList(h.reports.Reports()))
}

// @Summary Get accident reports as GeoJSON
// @Description Get reports with a known location as a GeoJSON FeatureCollection. Requires API key.
// @Tags Reports
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} map[string]interface{} "GeoJSON FeatureCollection"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /reports/geojson [get]
func (h *Handler) reportsGeoJSON(c *gin.Context) {
	log := h.logger.WithField("method", "reportsGeoJSON")

	body, err := ModelsToFeatureCollection(h.reports.Reports()).MarshalJSON()
	if err != nil {
		log.WithError(err).Error("Failed to marshal feature collection")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.Data(http.StatusOK, "application/geo+json", body)
}

// @Summary Respond to an accident report
// @Description Open a maps link on the responder device and mark the report as "Help on way". Requires API key.
// @Tags Reports
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Report ID"
// @Param request body RespondRequest true "Responder"
// @Success 200 {object} RespondResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Report not found"
// @Failure 502 {object} map[string]string "Failed to update report status"
// @Router /reports/{id}/respond [post]
func (h *Handler) respond(c *gin.Context) {
	reportID := c.Param("id")
	log := h.logger.WithFields(logrus.Fields{"method": "respond", "report_id": reportID})

	var input RespondRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, ok := h.reports.Report(reportID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		return
	}

	if err := h.responder.Respond(c.Request.Context(), input.ResponderID, report); err != nil {
		if errors.Is(err, service.ErrUpdateFailed) {
			log.WithError(err).Warn("Report status was not updated")
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to update report status"})
			return
		}
		log.WithError(err).Error("Failed to respond to report")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, RespondResponse{ReportID: reportID, Status: string(models.StatusHelpOnWay)})
}

// @Summary Update device location
// @Description Store the location permission and the latest position of a device. Requires API key.
// @Tags Devices
// @Accept json
// @Security ApiKeyAuth
// @Param id path string true "Device ID"
// @Param request body DeviceLocationRequest true "Permission and position"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /devices/{id}/location [put]
func (h *Handler) updateDeviceLocation(c *gin.Context) {
	deviceID := c.Param("id")
	log := h.logger.WithFields(logrus.Fields{"method": "updateDeviceLocation", "device_id": deviceID})

	var input DeviceLocationRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.partialPosition() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "latitude and longitude must be provided together"})
		return
	}

	if err := h.locations.UpdateDevice(c.Request.Context(), deviceID, *input.Granted, DTOToGeoPoint(input)); err != nil {
		log.WithError(err).Error("Failed to update device location")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Get device location
// @Description Acquire the current position of a device. Denied permission triggers an alert on the device. Requires API key.
// @Tags Devices
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Device ID"
// @Success 200 {object} LocationDTO
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Location permission denied"
// @Failure 404 {object} map[string]string "Position unknown"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /devices/{id}/location [get]
func (h *Handler) getDeviceLocation(c *gin.Context) {
	deviceID := c.Param("id")
	log := h.logger.WithFields(logrus.Fields{"method": "getDeviceLocation", "device_id": deviceID})

	point, err := h.locations.Acquire(c.Request.Context(), deviceID)
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "location permission denied"})
		return
	case errors.Is(err, device.ErrPositionUnknown):
		c.JSON(http.StatusNotFound, gin.H{"error": "device position unknown"})
		return
	case err != nil:
		log.WithError(err).Error("Failed to acquire device location")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, ModelToLocationDTO(point))
}

// @Summary Health check
// @Description Check if the service is up and the report subscription is live.
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string "Service is healthy"
// @Failure 503 {object} map[string]string "Report list is stale"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	if !h.reports.Live() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "reports": "subscription down"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
