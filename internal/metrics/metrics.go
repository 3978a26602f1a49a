// Package metrics - метрики Prometheus сервиса, отдаются на /metrics.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// SnapshotsPublishedTotal - сколько раз потоки опубликовали список сообщений
	SnapshotsPublishedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "accident_response",
		Subsystem: "reports",
		Name:      "snapshots_published_total",
		Help:      "Total number of ordered report lists published by report streams.",
	})

	// ReportsInSnapshot - размер последнего опубликованного списка
	ReportsInSnapshot = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "accident_response",
		Subsystem: "reports",
		Name:      "in_snapshot",
		Help:      "Number of reports in the most recently published list.",
	})

	// TimestampFallbackTotal - сообщения без корректного времени, замененного текущим
	TimestampFallbackTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "accident_response",
		Subsystem: "reports",
		Name:      "timestamp_fallback_total",
		Help:      "Reports whose timestamp was missing or malformed and replaced by the current time.",
	})

	// SubscriptionErrorsTotal - ошибки подписок, дошедшие до ErrorReporter, по источнику
	SubscriptionErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "accident_response",
		Subsystem: "subscriptions",
		Name:      "errors_total",
		Help:      "Subscription failures reported to the error boundary, labeled by source.",
	}, []string{"source"})

	// RespondTotal - действия водителей по результату
	RespondTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "accident_response",
		Subsystem: "respond",
		Name:      "actions_total",
		Help:      "Responder actions, labeled by result (ok, update_failed).",
	}, []string{"result"})

	// AlertsTotal - показанные пользователям уведомления по виду
	AlertsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "accident_response",
		Subsystem: "alerts",
		Name:      "raised_total",
		Help:      "Alerts raised for users, labeled by kind.",
	}, []string{"kind"})

	// WebhookDeliveriesTotal - доставки событий устройствам по результату
	WebhookDeliveriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "accident_response",
		Subsystem: "webhook",
		Name:      "deliveries_total",
		Help:      "Device event webhook deliveries, labeled by result.",
	}, []string{"result"})
)

// Register регистрирует метрики в реестре Prometheus по умолчанию, повторные вызовы ничего не делают
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			SnapshotsPublishedTotal,
			ReportsInSnapshot,
			TimestampFallbackTotal,
			SubscriptionErrorsTotal,
			RespondTotal,
			AlertsTotal,
			WebhookDeliveriesTotal,
		)
	})
}
