package models

import (
	"encoding/json"
	"math"
)

// GeoPoint - пара координат
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ParseLocation разбирает поле location документа.
// Возвращает nil, если поле отсутствует или координаты не являются числами.
func ParseLocation(raw json.RawMessage) *GeoPoint {
	if len(raw) == 0 {
		return nil
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil
	}

	lat, latOK := coordinate(fields, "latitude", "_latitude")
	lon, lonOK := coordinate(fields, "longitude", "_longitude")
	if !latOK || !lonOK {
		return nil
	}
	return &GeoPoint{Latitude: lat, Longitude: lon}
}

func coordinate(fields map[string]any, keys ...string) (float64, bool) {
	for _, key := range keys {
		value, ok := fields[key]
		if !ok {
			continue
		}
		f, ok := value.(float64)
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
