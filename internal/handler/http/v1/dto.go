package v1

import (
	"time"
)

// LocationDTO координаты
// @Description Координаты
type LocationDTO struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ReportResponse DTO сообщения о ДТП
// @Description DTO сообщения о ДТП
type ReportResponse struct {
	ID               string       `json:"id"`
	Location         *LocationDTO `json:"location"`
	Severity         any          `json:"severity,omitempty"`
	AccidentType     any          `json:"accidentType,omitempty"`
	VehiclesInvolved any          `json:"vehiclesInvolved,omitempty"`
	Casualties       any          `json:"casualties,omitempty"`
	Status           string       `json:"status"`
	Timestamp        time.Time    `json:"timestamp"`
	UserID           string       `json:"userId,omitempty"`
}

// ReportListResponse DTO списка сообщений, от новых к старым
// @Description DTO списка сообщений, от новых к старым
type ReportListResponse struct {
	Reports []*ReportResponse `json:"reports"`
	Count   int               `json:"count"`
}

// RespondRequest DTO действия "выезжаю на помощь"
// @Description DTO действия "выезжаю на помощь"
type RespondRequest struct {
	ResponderID string `json:"responder_id" validate:"required,max=128"`
}

// RespondResponse DTO результата действия
// @Description DTO результата действия
type RespondResponse struct {
	ReportID string `json:"report_id"`
	Status   string `json:"status"`
}

// DeviceLocationRequest DTO состояния геолокации устройства
// @Description DTO состояния геолокации устройства
type DeviceLocationRequest struct {
	Granted   *bool    `json:"granted" validate:"required"`
	Latitude  *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
}

// partialPosition - передана только одна из координат
func (r DeviceLocationRequest) partialPosition() bool {
	return (r.Latitude == nil) != (r.Longitude == nil)
}

// StreamMessage сообщение websocket-потока
// @Description Сообщение websocket-потока
type StreamMessage struct {
	Type      string    `json:"type"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}
