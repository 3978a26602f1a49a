package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/shenikar/accident_response/internal/device"
	"github.com/shenikar/accident_response/internal/docstore"
	"github.com/shenikar/accident_response/internal/metrics"
	"github.com/shenikar/accident_response/internal/models"
	"github.com/sirupsen/logrus"
)

// NotificationWatcher показывает пользователю каждое новое непрочитанное уведомление один раз
type NotificationWatcher struct {
	store    docstore.Store
	alerter  device.Alerter
	reporter ErrorReporter
	logger   *logrus.Logger

	mu   sync.Mutex
	seen map[string]struct{}
}

func NewNotificationWatcher(store docstore.Store, alerter device.Alerter, reporter ErrorReporter, logger *logrus.Logger) *NotificationWatcher {
	return &NotificationWatcher{
		store:    store,
		alerter:  alerter,
		reporter: reporter,
		logger:   logger,
		seen:     make(map[string]struct{}),
	}
}

// Start подписывается на непрочитанные уведомления userID
func (w *NotificationWatcher) Start(ctx context.Context, userID string) (func(), error) {
	if userID == "" {
		return nil, ErrNoUser
	}

	ctx, cancel := context.WithCancel(ctx)
	q := docstore.Query{Collection: models.UserNotificationsPath(userID)}.Where("read", false)
	sub, err := w.store.Listen(ctx, q)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("service: could not subscribe to notifications: %w", err)
	}

	log := w.logger.WithFields(logrus.Fields{
		"service": "notifications",
		"user_id": userID,
	})
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() {
			if err := sub.Close(); err != nil {
				log.WithError(err).Warn("Failed to close notification subscription")
			}
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-sub.Events():
				if !ok {
					return
				}
				if event.Err != nil {
					w.reporter.Report("notifications", fmt.Errorf("service: notification subscription failed: %w", event.Err))
					continue
				}
				if event.Snapshot != nil {
					w.handle(ctx, log, userID, event.Snapshot)
				}
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}, nil
}

func (w *NotificationWatcher) handle(ctx context.Context, log *logrus.Entry, userID string, snap *docstore.Snapshot) {
	for _, change := range snap.Changes {
		if change.Type != docstore.ChangeAdded || !w.markSeen(change.Doc.ID) {
			continue
		}

		n, err := models.DecodeNotification(change.Doc.ID, change.Doc.Data)
		if err != nil {
			log.WithError(err).Warn("Skipping undecodable notification")
			continue
		}

		metrics.AlertsTotal.WithLabelValues(string(device.AlertNotification)).Inc()
		alert := device.Alert{Kind: device.AlertNotification, Title: "Notification", Message: n.Message}
		if err := w.alerter.Alert(ctx, userID, alert); err != nil {
			log.WithError(err).WithField("notification_id", n.ID).Warn("Failed to deliver notification alert")
		}
	}
}

// markSeen возвращает false, если уведомление уже показывалось
func (w *NotificationWatcher) markSeen(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.seen[id]; ok {
		return false
	}
	w.seen[id] = struct{}{}
	return true
}
