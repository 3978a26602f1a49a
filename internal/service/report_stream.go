package service

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/shenikar/accident_response/internal/docstore"
	"github.com/shenikar/accident_response/internal/metrics"
	"github.com/shenikar/accident_response/internal/models"
	"github.com/sirupsen/logrus"
)

// PublishFunc получает новый упорядоченный список сообщений целиком
type PublishFunc func(reports []models.AccidentReport)

// ReportStream держит живую подписку на коллекцию сообщений о ДТП
// и публикует список, отсортированный от новых к старым.
type ReportStream struct {
	store    docstore.Store
	reporter ErrorReporter
	logger   *logrus.Logger
	now      func() time.Time

	mu      sync.RWMutex
	reports []models.AccidentReport
	started bool
	done    chan struct{}
}

func NewReportStream(store docstore.Store, reporter ErrorReporter, logger *logrus.Logger) *ReportStream {
	return &ReportStream{
		store:    store,
		reporter: reporter,
		logger:   logger,
		now:      time.Now,
	}
}

// Start открывает подписку. Возвращаемая функция отменяет ее и дожидается
// завершения цикла обработки; повторные вызовы безопасны. После того как
// подписка закончилась, поток можно запустить снова, последний список сохраняется.
func (s *ReportStream) Start(ctx context.Context, publish PublishFunc) (func(), error) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil, fmt.Errorf("service: report stream already started")
	}
	s.started = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	sub, err := s.store.Listen(ctx, docstore.Query{Collection: models.CollectionAccidentReports})
	if err != nil {
		cancel()
		s.mu.Lock()
		s.started = false
		s.mu.Unlock()
		return nil, fmt.Errorf("service: could not subscribe to reports: %w", err)
	}

	done := make(chan struct{})
	s.mu.Lock()
	s.done = done
	s.mu.Unlock()
	go func() {
		defer close(done)
		defer func() {
			s.mu.Lock()
			s.started = false
			s.mu.Unlock()
		}()
		defer func() {
			if err := sub.Close(); err != nil {
				s.logger.WithError(err).Warn("Failed to close report subscription")
			}
		}()
		s.consume(ctx, sub, publish)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}, nil
}

// Done закрывается, когда подписка последнего запуска закончилась
func (s *ReportStream) Done() <-chan struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.done
}

// Live сообщает, работает ли подписка сейчас
func (s *ReportStream) Live() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// Reports возвращает последний опубликованный список
func (s *ReportStream) Reports() []models.AccidentReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.reports)
}

// Report ищет сообщение в последнем опубликованном списке
func (s *ReportStream) Report(id string) (*models.AccidentReport, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.reports {
		if s.reports[i].ID == id {
			report := s.reports[i]
			return &report, true
		}
	}
	return nil, false
}

func (s *ReportStream) consume(ctx context.Context, sub docstore.Subscription, publish PublishFunc) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-sub.Events():
			if !ok {
				return
			}
			if event.Err != nil {
				// последний список остается опубликованным
				s.reporter.Report("reports", fmt.Errorf("service: report subscription failed: %w", event.Err))
				continue
			}
			if event.Snapshot == nil {
				continue
			}

			reports := NormalizeReports(event.Snapshot.Docs, s.now(), s.logger)

			s.mu.Lock()
			s.reports = reports
			s.mu.Unlock()

			metrics.SnapshotsPublishedTotal.Inc()
			metrics.ReportsInSnapshot.Set(float64(len(reports)))
			if publish != nil {
				publish(slices.Clone(reports))
			}
		}
	}
}

// NormalizeReports декодирует документы снимка и сортирует их по времени
// от новых к старым. Документы с равным временем сохраняют порядок хранилища.
func NormalizeReports(docs []docstore.Document, now time.Time, logger *logrus.Logger) []models.AccidentReport {
	reports := make([]models.AccidentReport, 0, len(docs))
	for _, doc := range docs {
		report, parsed, err := models.DecodeAccidentReport(doc.ID, doc.Data, now)
		if err != nil {
			logger.WithError(err).WithField("report_id", doc.ID).Warn("Skipping undecodable report")
			continue
		}
		if !parsed {
			metrics.TimestampFallbackTotal.Inc()
			logger.WithField("report_id", doc.ID).Debug("Report timestamp missing or malformed, using current time")
		}
		reports = append(reports, report)
	}

	slices.SortStableFunc(reports, func(a, b models.AccidentReport) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return reports
}
