package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// CollectionAccidentReports - коллекция сообщений о ДТП
const CollectionAccidentReports = "accidentReports"

type ReportStatus string

const (
	StatusPending   ReportStatus = "Pending"
	StatusHelpOnWay ReportStatus = "Help on way"
)

// AccidentReport - сообщение о ДТП после нормализации
type AccidentReport struct {
	ID               string       `json:"id"`
	Location         *GeoPoint    `json:"location"`
	Severity         any          `json:"severity,omitempty"`
	AccidentType     any          `json:"accidentType,omitempty"`
	VehiclesInvolved any          `json:"vehiclesInvolved,omitempty"`
	Casualties       any          `json:"casualties,omitempty"`
	Status           ReportStatus `json:"status"`
	Timestamp        time.Time    `json:"timestamp"`
	UserID           string       `json:"userId,omitempty"`
}

// AccidentReportDocument - запись сообщения в хранилище
type AccidentReportDocument struct {
	Location         json.RawMessage `json:"location,omitempty"`
	Severity         any             `json:"severity,omitempty"`
	AccidentType     any             `json:"accidentType,omitempty"`
	VehiclesInvolved any             `json:"vehiclesInvolved,omitempty"`
	Casualties       any             `json:"casualties,omitempty"`
	Status           any             `json:"status,omitempty"`
	Timestamp        RawTimestamp    `json:"timestamp"`
	UserID           any             `json:"userId,omitempty"`
}

// DecodeAccidentReport разбирает данные документа.
// Ошибка возвращается только для данных, не являющихся JSON-объектом.
func DecodeAccidentReport(id string, data []byte, now time.Time) (AccidentReport, bool, error) {
	var doc AccidentReportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return AccidentReport{}, false, fmt.Errorf("failed to decode accident report %s: %w", id, err)
	}

	ts, parsed := doc.Timestamp.Normalize(now)
	userID, _ := doc.UserID.(string)
	// статус не строкой обнуляется, сообщение остается в списке
	status, _ := doc.Status.(string)

	return AccidentReport{
		ID:               id,
		Location:         ParseLocation(doc.Location),
		Severity:         doc.Severity,
		AccidentType:     doc.AccidentType,
		VehiclesInvolved: doc.VehiclesInvolved,
		Casualties:       doc.Casualties,
		Status:           ReportStatus(status),
		Timestamp:        ts,
		UserID:           userID,
	}, parsed, nil
}
