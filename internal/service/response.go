package service

import (
	"context"
	"strconv"
	"time"

	"github.com/shenikar/accident_response/internal/device"
	"github.com/shenikar/accident_response/internal/docstore"
	"github.com/shenikar/accident_response/internal/metrics"
	"github.com/shenikar/accident_response/internal/models"
	"github.com/sirupsen/logrus"
)

const DefaultMapsSearchURL = "https://www.google.com/maps/search/?api=1&query="

// ResponseService - действие водителя "выезжаю на помощь"
type ResponseService interface {
	Respond(ctx context.Context, responderID string, report *models.AccidentReport) error
}

type responseService struct {
	store   docstore.Store
	opener  device.LinkOpener
	alerter device.Alerter
	logger  *logrus.Logger
	mapsURL string
	now     func() time.Time
}

func NewResponseService(store docstore.Store, opener device.LinkOpener, alerter device.Alerter, logger *logrus.Logger, mapsSearchURL string) ResponseService {
	if mapsSearchURL == "" {
		mapsSearchURL = DefaultMapsSearchURL
	}
	return &responseService{
		store:   store,
		opener:  opener,
		alerter: alerter,
		logger:  logger,
		mapsURL: mapsSearchURL,
		now:     time.Now,
	}
}

// MapsLink строит ссылку поиска на карте по координатам
func MapsLink(base string, point models.GeoPoint) string {
	return base + strconv.FormatFloat(point.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(point.Longitude, 'f', -1, 64)
}

// Respond открывает карту для водителя, переводит сообщение в статус
// "Help on way" и уведомляет автора сообщения. Ошибки карты не мешают
// обновлению статуса. Ошибка записи статуса или уведомления возвращается
// одна, уже выполненные записи не откатываются.
func (s *responseService) Respond(ctx context.Context, responderID string, report *models.AccidentReport) error {
	if report == nil {
		return ErrInvalidReport
	}
	log := s.logger.WithFields(logrus.Fields{
		"service":      "response",
		"method":       "Respond",
		"report_id":    report.ID,
		"responder_id": responderID,
	})
	log.Info("Responding to accident report")

	s.openMaps(ctx, log, responderID, report)

	if err := s.markHelpOnWay(ctx, report); err != nil {
		log.WithError(err).Error("Failed to update report status")
		metrics.RespondTotal.WithLabelValues("update_failed").Inc()
		s.alert(ctx, log, responderID, device.Alert{
			Kind:    device.AlertError,
			Title:   "Error",
			Message: "Failed to update report status",
		})
		return wrapUpdate(err)
	}

	metrics.RespondTotal.WithLabelValues("ok").Inc()
	log.Info("Report marked as help on way")
	return nil
}

func (s *responseService) openMaps(ctx context.Context, log *logrus.Entry, responderID string, report *models.AccidentReport) {
	if report.Location == nil {
		log.WithError(ErrMalformedLocation).Warn("Cannot build maps link")
		s.alert(ctx, log, responderID, device.Alert{
			Kind:    device.AlertError,
			Title:   "Location Error",
			Message: "Location data is missing or invalid",
		})
		return
	}

	link := MapsLink(s.mapsURL, *report.Location)
	if err := s.opener.Open(ctx, responderID, link); err != nil {
		log.WithError(err).WithField("url", link).Warn("Failed to open maps link")
		s.alert(ctx, log, responderID, device.Alert{
			Kind:    device.AlertError,
			Title:   "Error",
			Message: "Could not open maps",
		})
	}
}

func (s *responseService) markHelpOnWay(ctx context.Context, report *models.AccidentReport) error {
	fields := map[string]any{"status": models.StatusHelpOnWay}
	if err := s.store.Update(ctx, models.CollectionAccidentReports, report.ID, fields); err != nil {
		return err
	}

	if report.UserID == "" {
		return nil
	}
	_, err := s.store.Create(ctx, models.UserNotificationsPath(report.UserID), models.NewResponseNotification(s.now()))
	return err
}

func (s *responseService) alert(ctx context.Context, log *logrus.Entry, userID string, alert device.Alert) {
	metrics.AlertsTotal.WithLabelValues(string(alert.Kind)).Inc()
	if err := s.alerter.Alert(ctx, userID, alert); err != nil {
		log.WithError(err).Warn("Failed to deliver alert")
	}
}
