package v1

import (
	"time"

	geojson "github.com/paulmach/go.geojson"
	"github.com/shenikar/accident_response/internal/models"
)

// ModelToReportResponse преобразует доменную модель в DTO для ответа
func ModelToReportResponse(model *models.AccidentReport) *ReportResponse {
	resp := &ReportResponse{
		ID:               model.ID,
		Severity:         model.Severity,
		AccidentType:     model.AccidentType,
		VehiclesInvolved: model.VehiclesInvolved,
		Casualties:       model.Casualties,
		Status:           string(model.Status),
		Timestamp:        model.Timestamp,
		UserID:           model.UserID,
	}
	if model.Location != nil {
		resp.Location = ModelToLocationDTO(model.Location)
	}
	return resp
}

// ModelsToReportList преобразует упорядоченный список, сохраняя порядок
func ModelsToReportList(reports []models.AccidentReport) *ReportListResponse {
	responses := make([]*ReportResponse, len(reports))
	for i := range reports {
		responses[i] = ModelToReportResponse(&reports[i])
	}
	return &ReportListResponse{Reports: responses, Count: len(responses)}
}

func ModelToLocationDTO(point *models.GeoPoint) *LocationDTO {
	return &LocationDTO{Latitude: point.Latitude, Longitude: point.Longitude}
}

// DTOToGeoPoint возвращает nil, если координаты не переданы
func DTOToGeoPoint(req DeviceLocationRequest) *models.GeoPoint {
	if req.Latitude == nil || req.Longitude == nil {
		return nil
	}
	return &models.GeoPoint{Latitude: *req.Latitude, Longitude: *req.Longitude}
}

// ModelsToFeatureCollection строит слой карты. Сообщения без координат пропускаются.
func ModelsToFeatureCollection(reports []models.AccidentReport) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, r := range reports {
		if r.Location == nil {
			continue
		}
		// GeoJSON хранит точку как [долгота, широта]
		f := geojson.NewPointFeature([]float64{r.Location.Longitude, r.Location.Latitude})
		f.ID = r.ID
		f.SetProperty("status", string(r.Status))
		f.SetProperty("timestamp", r.Timestamp.UTC().Format(time.RFC3339))
		if r.Severity != nil {
			f.SetProperty("severity", r.Severity)
		}
		if r.AccidentType != nil {
			f.SetProperty("accidentType", r.AccidentType)
		}
		fc.AddFeature(f)
	}
	return fc
}
