// Package device описывает внешние возможности устройства пользователя:
// показ уведомлений, открытие ссылок и получение координат.
package device

//go:generate mockgen -source=device.go -destination=mocks/mock_device.go -package=mocks

import (
	"context"
	"errors"

	"github.com/shenikar/accident_response/internal/models"
)

// ErrPositionUnknown - устройство еще не присылало координаты
var ErrPositionUnknown = errors.New("device position unknown")

type AlertKind string

const (
	AlertError        AlertKind = "error"
	AlertNotification AlertKind = "notification"
)

// Alert - сообщение, которое пользователь должен подтвердить
type Alert struct {
	Kind    AlertKind `json:"kind"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
}

// Alerter показывает пользователю Alert
type Alerter interface {
	Alert(ctx context.Context, userID string, alert Alert) error
}

// LinkOpener просит устройство пользователя открыть ссылку
type LinkOpener interface {
	Open(ctx context.Context, userID, url string) error
}

// LocationProvider - разрешение на геолокацию и разовое получение координат
type LocationProvider interface {
	RequestPermission(ctx context.Context, deviceID string) (bool, error)
	CurrentPosition(ctx context.Context, deviceID string) (*models.GeoPoint, error)
}

// Registry сохраняет состояние геолокации, присланное устройством
type Registry interface {
	SaveLocation(ctx context.Context, deviceID string, granted bool, point *models.GeoPoint) error
}
