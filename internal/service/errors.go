package service

import (
	"errors"
	"fmt"

	"github.com/shenikar/accident_response/internal/metrics"
	"github.com/sirupsen/logrus"
)

var (
	ErrPermissionDenied  = errors.New("location permission denied")
	ErrMalformedLocation = errors.New("location data is missing or invalid")
	ErrLinkOpen          = errors.New("could not open maps link")
	ErrUpdateFailed      = errors.New("failed to update report status")
	ErrNoUser            = errors.New("user id is required")
	ErrInvalidReport     = errors.New("report is required")
)

// ErrorReporter принимает ошибки подписок, которые сервис не обрабатывает сам
type ErrorReporter interface {
	Report(source string, err error)
}

type logErrorReporter struct {
	logger *logrus.Logger
}

// NewLogErrorReporter пишет ошибки подписок в лог и метрики
func NewLogErrorReporter(logger *logrus.Logger) ErrorReporter {
	return &logErrorReporter{logger: logger}
}

func (r *logErrorReporter) Report(source string, err error) {
	metrics.SubscriptionErrorsTotal.WithLabelValues(source).Inc()
	r.logger.WithField("source", source).WithError(err).Error("Subscription failed")
}

func wrapUpdate(err error) error {
	return fmt.Errorf("service: %w: %w", ErrUpdateFailed, err)
}
