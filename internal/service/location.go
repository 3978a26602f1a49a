package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/shenikar/accident_response/internal/device"
	"github.com/shenikar/accident_response/internal/models"
	"github.com/sirupsen/logrus"
)

// LocationAcquirer получает координаты устройства один раз за время жизни экрана
type LocationAcquirer struct {
	provider device.LocationProvider
	alerter  device.Alerter
	logger   *logrus.Logger

	once  sync.Once
	point *models.GeoPoint
	err   error
}

func NewLocationAcquirer(provider device.LocationProvider, alerter device.Alerter, logger *logrus.Logger) *LocationAcquirer {
	return &LocationAcquirer{
		provider: provider,
		alerter:  alerter,
		logger:   logger,
	}
}

// Acquire запрашивает разрешение и координаты. Повторные вызовы возвращают
// результат первого.
func (a *LocationAcquirer) Acquire(ctx context.Context, deviceID string) (*models.GeoPoint, error) {
	a.once.Do(func() {
		a.point, a.err = a.acquire(ctx, deviceID)
	})
	return a.point, a.err
}

func (a *LocationAcquirer) acquire(ctx context.Context, deviceID string) (*models.GeoPoint, error) {
	log := a.logger.WithFields(logrus.Fields{
		"service":   "location",
		"method":    "Acquire",
		"device_id": deviceID,
	})

	granted, err := a.provider.RequestPermission(ctx, deviceID)
	if err != nil {
		log.WithError(err).Error("Failed to request location permission")
		return nil, fmt.Errorf("service: could not request location permission: %w", err)
	}
	if !granted {
		log.Warn("Location permission denied")
		alert := device.Alert{
			Kind:    device.AlertError,
			Title:   "Permission Denied",
			Message: "Permission to access location was denied",
		}
		if err := a.alerter.Alert(ctx, deviceID, alert); err != nil {
			log.WithError(err).Warn("Failed to deliver permission alert")
		}
		return nil, ErrPermissionDenied
	}

	point, err := a.provider.CurrentPosition(ctx, deviceID)
	if err != nil {
		log.WithError(err).Error("Failed to get current position")
		return nil, fmt.Errorf("service: could not get current position: %w", err)
	}
	log.Debug("Location acquired")
	return point, nil
}

// LocationService обслуживает экран карты
type LocationService interface {
	Acquire(ctx context.Context, deviceID string) (*models.GeoPoint, error)
	UpdateDevice(ctx context.Context, deviceID string, granted bool, point *models.GeoPoint) error
}

type locationService struct {
	provider device.LocationProvider
	registry device.Registry
	alerter  device.Alerter
	logger   *logrus.Logger
}

func NewLocationService(provider device.LocationProvider, registry device.Registry, alerter device.Alerter, logger *logrus.Logger) LocationService {
	return &locationService{
		provider: provider,
		registry: registry,
		alerter:  alerter,
		logger:   logger,
	}
}

// Acquire - одно открытие экрана карты: новый LocationAcquirer на каждый вызов
func (s *locationService) Acquire(ctx context.Context, deviceID string) (*models.GeoPoint, error) {
	return NewLocationAcquirer(s.provider, s.alerter, s.logger).Acquire(ctx, deviceID)
}

func (s *locationService) UpdateDevice(ctx context.Context, deviceID string, granted bool, point *models.GeoPoint) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":   "location",
		"method":    "UpdateDevice",
		"device_id": deviceID,
		"granted":   granted,
	})
	if err := s.registry.SaveLocation(ctx, deviceID, granted, point); err != nil {
		log.WithError(err).Error("Failed to save device location")
		return fmt.Errorf("service: could not save device location: %w", err)
	}
	log.Debug("Device location saved")
	return nil
}
