package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAccidentReport_Full(t *testing.T) {
	now := time.Now()
	data := []byte(`{
		"location": {"latitude": 1.5, "longitude": 2.5},
		"severity": "High",
		"accidentType": "Collision",
		"vehiclesInvolved": 2,
		"casualties": "0",
		"status": "Pending",
		"userId": "u1",
		"timestamp": "2024-01-01T00:00:00Z"
	}`)

	report, parsed, err := DecodeAccidentReport("r1", data, now)

	require.NoError(t, err)
	assert.True(t, parsed)
	assert.Equal(t, "r1", report.ID)
	assert.Equal(t, &GeoPoint{Latitude: 1.5, Longitude: 2.5}, report.Location)
	assert.Equal(t, StatusPending, report.Status)
	assert.Equal(t, "u1", report.UserID)
	assert.Equal(t, "High", report.Severity)
	assert.Equal(t, float64(2), report.VehiclesInvolved)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), report.Timestamp)
}

func TestDecodeAccidentReport_MalformedFieldsDoNotFail(t *testing.T) {
	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	data := []byte(`{"location": null, "userId": 42, "timestamp": "not a date"}`)

	report, parsed, err := DecodeAccidentReport("r2", data, now)

	require.NoError(t, err)
	assert.False(t, parsed)
	assert.Nil(t, report.Location)
	assert.Empty(t, report.UserID)
	assert.Equal(t, now, report.Timestamp)
}

func TestDecodeAccidentReport_NonStringStatus(t *testing.T) {
	tests := []struct {
		name   string
		status string
	}{
		{name: "number", status: `1`},
		{name: "bool", status: `true`},
		{name: "object", status: `{"value": "Pending"}`},
		{name: "array", status: `["Pending"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := []byte(`{"status": ` + tt.status + `, "severity": "High", "timestamp": "2024-01-01T00:00:00Z"}`)

			report, parsed, err := DecodeAccidentReport("r4", data, time.Now())

			require.NoError(t, err)
			assert.True(t, parsed)
			assert.Equal(t, "r4", report.ID)
			assert.Empty(t, report.Status)
			assert.Equal(t, "High", report.Severity)
		})
	}
}

func TestDecodeAccidentReport_NotAnObject(t *testing.T) {
	_, _, err := DecodeAccidentReport("r3", []byte(`[1,2,3]`), time.Now())

	require.Error(t, err)
	assert.ErrorContains(t, err, "r3")
}

func TestParseLocation(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want *GeoPoint
	}{
		{"plain", `{"latitude": 55.75, "longitude": 37.61}`, &GeoPoint{Latitude: 55.75, Longitude: 37.61}},
		{"geopoint", `{"_latitude": -1, "_longitude": 0}`, &GeoPoint{Latitude: -1, Longitude: 0}},
		{"string_coordinates", `{"latitude": "55.75", "longitude": "37.61"}`, nil},
		{"missing_longitude", `{"latitude": 55.75}`, nil},
		{"null", `null`, nil},
		{"array", `[55.75, 37.61]`, nil},
		{"empty", ``, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseLocation(json.RawMessage(tc.raw)))
		})
	}
}

func TestNewResponseNotification(t *testing.T) {
	now := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)

	n := NewResponseNotification(now)

	assert.Equal(t, ResponderAcknowledgement, n.Message)
	assert.Equal(t, "2024-02-03T04:05:06Z", n.Timestamp)
	assert.False(t, n.Read)
	assert.Equal(t, NotificationTypeAccidentResponse, n.Type)

	data, err := json.Marshal(n)
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"`+ResponderAcknowledgement+`","timestamp":"2024-02-03T04:05:06Z","read":false,"type":"accident_response"}`, string(data))
	assert.Equal(t, "users/u1/notifications", UserNotificationsPath("u1"))
}
