package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/shenikar/accident_response/internal/config"
	"github.com/shenikar/accident_response/internal/device"
	"github.com/shenikar/accident_response/internal/models"
	"github.com/shenikar/accident_response/internal/service"
	"github.com/shenikar/accident_response/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var apiKeyHeader = map[string]string{"X-API-Key": "test-api-key"}

type testMocks struct {
	reports   *mocks.MockReportFeed
	responder *mocks.MockResponseService
	locations *mocks.MockLocationService
	feeds     *mocks.MockLiveFeeds
}

// newTestHandler создает Handler с мокированными сервисами
func newTestHandler(t *testing.T) (*Handler, *testMocks, *gin.Engine) {
	ctrl := gomock.NewController(t)
	m := &testMocks{
		reports:   mocks.NewMockReportFeed(ctrl),
		responder: mocks.NewMockResponseService(ctrl),
		locations: mocks.NewMockLocationService(ctrl),
		feeds:     mocks.NewMockLiveFeeds(ctrl),
	}

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	cfg := &config.Config{
		APIKeys:      []string{"test-api-key"},
		StreamBuffer: 4,
	}

	handler := NewHandler(m.reports, m.responder, m.locations, m.feeds, logger, cfg)

	// Настройка Gin роутера для тестов
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	return handler, m, router
}

// makeRequest - вспомогательная функция для выполнения HTTP-запросов
func makeRequest(router *gin.Engine, method, url string, body io.Reader, headers ...map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, h := range headers {
		for key, value := range h {
			req.Header.Set(key, value)
		}
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func ptr[T any](v T) *T {
	return &v
}

func sampleReports() []models.AccidentReport {
	return []models.AccidentReport{
		{
			ID:           "r2",
			Location:     &models.GeoPoint{Latitude: 55.75, Longitude: 37.61},
			Severity:     "High",
			AccidentType: "Collision",
			Status:       models.StatusPending,
			Timestamp:    time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC),
			UserID:       "u1",
		},
		{
			ID:        "r1",
			Status:    models.StatusHelpOnWay,
			Timestamp: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		},
	}
}

func TestHealthCheck_NoAPIKey(t *testing.T) {
	_, m, router := newTestHandler(t)
	m.reports.EXPECT().Live().Return(true).Times(1)

	w := makeRequest(router, "GET", "/api/v1/system/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHealthCheck_ReportSubscriptionDown(t *testing.T) {
	_, m, router := newTestHandler(t)
	m.reports.EXPECT().Live().Return(false).Times(1)

	w := makeRequest(router, "GET", "/api/v1/system/health", nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "degraded")
}

func TestAuth(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		code    int
		message string
	}{
		{name: "missing key", headers: map[string]string{}, code: http.StatusUnauthorized, message: "API key required"},
		{name: "invalid key", headers: map[string]string{"X-API-Key": "wrong"}, code: http.StatusUnauthorized, message: "Invalid API key"},
		{name: "bearer token", headers: map[string]string{"Authorization": "Bearer test-api-key"}, code: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, m, router := newTestHandler(t)
			if tt.code == http.StatusOK {
				m.reports.EXPECT().Reports().Return(nil).Times(1)
			}

			w := makeRequest(router, "GET", "/api/v1/reports", nil, tt.headers)

			assert.Equal(t, tt.code, w.Code)
			if tt.message != "" {
				assert.Contains(t, w.Body.String(), tt.message)
			}
		})
	}
}

func TestAuth_QueryKeyOnlyForWebsocket(t *testing.T) {
	_, _, router := newTestHandler(t)

	w := makeRequest(router, "GET", "/api/v1/reports?api_key=test-api-key", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListReports_Success(t *testing.T) {
	_, m, router := newTestHandler(t)
	m.reports.EXPECT().Reports().Return(sampleReports()).Times(1)

	w := makeRequest(router, "GET", "/api/v1/reports", nil, apiKeyHeader)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp ReportListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Count)
	assert.Equal(t, "r2", resp.Reports[0].ID)
	assert.Equal(t, "r1", resp.Reports[1].ID)
	require.NotNil(t, resp.Reports[0].Location)
	assert.Equal(t, 55.75, resp.Reports[0].Location.Latitude)
	assert.Nil(t, resp.Reports[1].Location)
	assert.Equal(t, "Help on way", resp.Reports[1].Status)
}

func TestListReports_Empty(t *testing.T) {
	_, m, router := newTestHandler(t)
	m.reports.EXPECT().Reports().Return(nil).Times(1)

	w := makeRequest(router, "GET", "/api/v1/reports", nil, apiKeyHeader)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"reports":[],"count":0}`, w.Body.String())
}

func TestReportsGeoJSON_SkipsReportsWithoutLocation(t *testing.T) {
	_, m, router := newTestHandler(t)
	m.reports.EXPECT().Reports().Return(sampleReports()).Times(1)

	w := makeRequest(router, "GET", "/api/v1/reports/geojson", nil, apiKeyHeader)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/geo+json", w.Header().Get("Content-Type"))

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			ID       string `json:"id"`
			Geometry struct {
				Type        string    `json:"type"`
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fc))
	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 1)
	assert.Equal(t, "r2", fc.Features[0].ID)
	assert.Equal(t, "Point", fc.Features[0].Geometry.Type)
	assert.Equal(t, []float64{37.61, 55.75}, fc.Features[0].Geometry.Coordinates)
	assert.Equal(t, "Pending", fc.Features[0].Properties["status"])
	assert.Equal(t, "High", fc.Features[0].Properties["severity"])
}

func TestRespond_Success(t *testing.T) {
	_, m, router := newTestHandler(t)
	report := &sampleReports()[0]

	m.reports.EXPECT().Report("r2").Return(report, true).Times(1)
	m.responder.EXPECT().Respond(gomock.Any(), "driver-1", report).Return(nil).Times(1)

	w := makeRequest(router, "POST", "/api/v1/reports/r2/respond", jsonBody(t, RespondRequest{ResponderID: "driver-1"}), apiKeyHeader)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp RespondResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "r2", resp.ReportID)
	assert.Equal(t, string(models.StatusHelpOnWay), resp.Status)
}

func TestRespond_InvalidJSON(t *testing.T) {
	_, m, router := newTestHandler(t)
	m.responder.EXPECT().Respond(gomock.Any(), gomock.Any(), gomock.Any()).Times(0) // Сервис не должен вызываться

	w := makeRequest(router, "POST", "/api/v1/reports/r2/respond", bytes.NewBufferString(`{"responder_id":`), apiKeyHeader)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request body")
}

func TestRespond_ValidationError(t *testing.T) {
	_, m, router := newTestHandler(t)
	m.responder.EXPECT().Respond(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "POST", "/api/v1/reports/r2/respond", bytes.NewBufferString(`{}`), apiKeyHeader)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Error:Field validation for 'ResponderID' failed on the 'required' tag")
}

func TestRespond_ReportNotFound(t *testing.T) {
	_, m, router := newTestHandler(t)
	m.reports.EXPECT().Report("missing").Return(nil, false).Times(1)
	m.responder.EXPECT().Respond(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "POST", "/api/v1/reports/missing/respond", jsonBody(t, RespondRequest{ResponderID: "driver-1"}), apiKeyHeader)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "report not found")
}

func TestRespond_Errors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{
			name:    "update failed",
			err:     fmt.Errorf("service: %w: %w", service.ErrUpdateFailed, errors.New("connection refused")),
			code:    http.StatusBadGateway,
			message: "failed to update report status",
		},
		{
			name:    "unexpected error",
			err:     errors.New("boom"),
			code:    http.StatusInternalServerError,
			message: "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, m, router := newTestHandler(t)
			report := &sampleReports()[0]
			m.reports.EXPECT().Report("r2").Return(report, true).Times(1)
			m.responder.EXPECT().Respond(gomock.Any(), "driver-1", report).Return(tt.err).Times(1)

			w := makeRequest(router, "POST", "/api/v1/reports/r2/respond", jsonBody(t, RespondRequest{ResponderID: "driver-1"}), apiKeyHeader)

			assert.Equal(t, tt.code, w.Code)
			assert.Contains(t, w.Body.String(), tt.message)
		})
	}
}

func TestUpdateDeviceLocation_Success(t *testing.T) {
	_, m, router := newTestHandler(t)
	expected := &models.GeoPoint{Latitude: 40.7, Longitude: -74.0}

	m.locations.EXPECT().UpdateDevice(gomock.Any(), "dev-1", true, expected).Return(nil).Times(1)

	body := DeviceLocationRequest{Granted: ptr(true), Latitude: ptr(40.7), Longitude: ptr(-74.0)}
	w := makeRequest(router, "PUT", "/api/v1/devices/dev-1/location", jsonBody(t, body), apiKeyHeader)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestUpdateDeviceLocation_Revoke(t *testing.T) {
	_, m, router := newTestHandler(t)
	m.locations.EXPECT().UpdateDevice(gomock.Any(), "dev-1", false, nil).Return(nil).Times(1)

	w := makeRequest(router, "PUT", "/api/v1/devices/dev-1/location", bytes.NewBufferString(`{"granted":false}`), apiKeyHeader)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestUpdateDeviceLocation_BadRequest(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{name: "granted missing", body: `{"latitude":1,"longitude":2}`, message: "'Granted' failed on the 'required' tag"},
		{name: "latitude out of range", body: `{"granted":true,"latitude":91,"longitude":2}`, message: "'Latitude' failed on the 'latitude' tag"},
		{name: "only latitude", body: `{"granted":true,"latitude":10}`, message: "latitude and longitude must be provided together"},
		{name: "invalid json", body: `{"granted":`, message: "invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, m, router := newTestHandler(t)
			m.locations.EXPECT().UpdateDevice(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

			w := makeRequest(router, "PUT", "/api/v1/devices/dev-1/location", bytes.NewBufferString(tt.body), apiKeyHeader)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.message)
		})
	}
}

func TestUpdateDeviceLocation_ServiceError(t *testing.T) {
	_, m, router := newTestHandler(t)
	m.locations.EXPECT().UpdateDevice(gomock.Any(), "dev-1", true, nil).Return(errors.New("redis down")).Times(1)

	w := makeRequest(router, "PUT", "/api/v1/devices/dev-1/location", bytes.NewBufferString(`{"granted":true}`), apiKeyHeader)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
}

func TestGetDeviceLocation(t *testing.T) {
	tests := []struct {
		name    string
		point   *models.GeoPoint
		err     error
		code    int
		message string
	}{
		{name: "success", point: &models.GeoPoint{Latitude: 1.5, Longitude: 2.5}, code: http.StatusOK, message: `"latitude":1.5`},
		{name: "permission denied", err: service.ErrPermissionDenied, code: http.StatusForbidden, message: "location permission denied"},
		{
			name:    "position unknown",
			err:     fmt.Errorf("service: could not get current position: %w", fmt.Errorf("device dev-1: %w", device.ErrPositionUnknown)),
			code:    http.StatusNotFound,
			message: "device position unknown",
		},
		{name: "provider error", err: errors.New("redis down"), code: http.StatusInternalServerError, message: "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, m, router := newTestHandler(t)
			m.locations.EXPECT().Acquire(gomock.Any(), "dev-1").Return(tt.point, tt.err).Times(1)

			w := makeRequest(router, "GET", "/api/v1/devices/dev-1/location", nil, apiKeyHeader)

			assert.Equal(t, tt.code, w.Code)
			assert.Contains(t, w.Body.String(), tt.message)
		})
	}
}

// dialStream поднимает тестовый сервер и открывает websocket
func dialStream(t *testing.T, router *gin.Engine, path string, header http.Header) *websocket.Conn {
	t.Helper()
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + path
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readStreamMessage(t *testing.T, conn *websocket.Conn) (string, json.RawMessage) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &msg))
	return msg.Type, msg.Data
}

func TestStreamReports_PublishesList(t *testing.T) {
	_, m, router := newTestHandler(t)

	m.feeds.EXPECT().
		SubscribeReports(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, publish service.PublishFunc) (func(), error) {
			publish(sampleReports()[:1])
			publish(sampleReports())
			return func() {}, nil
		}).Times(1)

	conn := dialStream(t, router, "/api/v1/reports/stream", http.Header{"X-API-Key": {"test-api-key"}})

	kind, data := readStreamMessage(t, conn)
	assert.Equal(t, messageReports, kind)
	var list ReportListResponse
	require.NoError(t, json.Unmarshal(data, &list))
	assert.Equal(t, 1, list.Count)

	kind, data = readStreamMessage(t, conn)
	assert.Equal(t, messageReports, kind)
	require.NoError(t, json.Unmarshal(data, &list))
	assert.Equal(t, 2, list.Count)
	assert.Equal(t, "r2", list.Reports[0].ID)
}

func TestStreamNotifications_DeliversAlerts(t *testing.T) {
	_, m, router := newTestHandler(t)

	m.feeds.EXPECT().
		WatchNotifications(gomock.Any(), "u1", gomock.Any()).
		DoAndReturn(func(ctx context.Context, userID string, alerter device.Alerter) (func(), error) {
			err := alerter.Alert(ctx, userID, device.Alert{
				Kind:    device.AlertNotification,
				Title:   "Notification",
				Message: "A driver has responded to your accident report and is on the way to help!",
			})
			return func() {}, err
		}).Times(1)

	// Браузерный клиент передает ключ в параметре запроса
	conn := dialStream(t, router, "/api/v1/users/u1/notifications/stream?api_key=test-api-key", nil)

	kind, data := readStreamMessage(t, conn)
	assert.Equal(t, messageAlert, kind)
	var alert device.Alert
	require.NoError(t, json.Unmarshal(data, &alert))
	assert.Equal(t, device.AlertNotification, alert.Kind)
	assert.Contains(t, alert.Message, "on the way to help")
}

func TestStreamClient_ReplaceKeepsLatest(t *testing.T) {
	client := &streamClient{send: make(chan []byte, 1)}

	client.replace([]byte("first"))
	client.replace([]byte("second"))

	assert.Equal(t, []byte("second"), <-client.send)
}

func TestStreamClient_DeliverRespectsContext(t *testing.T) {
	client := &streamClient{send: make(chan []byte, 1)}
	require.NoError(t, client.deliver(context.Background(), []byte("queued")))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := client.deliver(ctx, []byte("blocked"))
	assert.ErrorIs(t, err, context.Canceled)
}
