package service

import (
	"context"

	"github.com/shenikar/accident_response/internal/device"
	"github.com/shenikar/accident_response/internal/docstore"
	"github.com/shenikar/accident_response/internal/models"
	"github.com/sirupsen/logrus"
)

//go:generate mockgen -destination=mocks/mock_service.go -package=mocks github.com/shenikar/accident_response/internal/service ResponseService,LocationService,ReportFeed,LiveFeeds

// ReportFeed - последний опубликованный список сообщений
type ReportFeed interface {
	Reports() []models.AccidentReport
	Report(id string) (*models.AccidentReport, bool)
	// Live - false, пока подписка оборвана и список может быть устаревшим
	Live() bool
}

// LiveFeeds открывает подписки, живущие столько же, сколько подключение клиента
type LiveFeeds interface {
	SubscribeReports(ctx context.Context, publish PublishFunc) (func(), error)
	WatchNotifications(ctx context.Context, userID string, alerter device.Alerter) (func(), error)
}

type liveFeeds struct {
	store    docstore.Store
	reporter ErrorReporter
	logger   *logrus.Logger
}

func NewLiveFeeds(store docstore.Store, reporter ErrorReporter, logger *logrus.Logger) LiveFeeds {
	return &liveFeeds{
		store:    store,
		reporter: reporter,
		logger:   logger,
	}
}

func (f *liveFeeds) SubscribeReports(ctx context.Context, publish PublishFunc) (func(), error) {
	return NewReportStream(f.store, f.reporter, f.logger).Start(ctx, publish)
}

func (f *liveFeeds) WatchNotifications(ctx context.Context, userID string, alerter device.Alerter) (func(), error) {
	return NewNotificationWatcher(f.store, alerter, f.reporter, f.logger).Start(ctx, userID)
}
