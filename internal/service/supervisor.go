package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// SuperviseReportStream - внешняя граница ошибок для общего потока сообщений.
// Сам поток не переподключается: после конца подписки он запускается заново
// через retryDelay, пока не отменен ctx. Последний список остается доступен.
func SuperviseReportStream(ctx context.Context, stream *ReportStream, publish PublishFunc, retryDelay time.Duration, logger *logrus.Logger) {
	log := logger.WithFields(logrus.Fields{
		"service": "reports",
		"method":  "SuperviseReportStream",
	})

	for {
		stop, err := stream.Start(ctx, publish)
		if err != nil {
			log.WithError(err).Error("Failed to start report stream")
		} else {
			select {
			case <-stream.Done():
				stop()
				log.Warn("Report stream ended, restarting")
			case <-ctx.Done():
				stop()
				return
			}
		}

		timer := time.NewTimer(retryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}
