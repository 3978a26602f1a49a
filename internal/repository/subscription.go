package repository

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/shenikar/accident_response/internal/docstore"
	"github.com/sirupsen/logrus"
)

// snapshotFunc читает текущее содержимое коллекции подписки
type snapshotFunc func(ctx context.Context) ([]docstore.Document, error)

type subscription struct {
	collection  string
	query       snapshotFunc
	listener    *changeListener
	unsubscribe func()
	logger      *logrus.Entry

	events chan docstore.Event
	cancel context.CancelFunc
	done   chan struct{}
}

func newSubscription(ctx context.Context, collection string, query snapshotFunc, listener *changeListener, unsubscribe func(), logger *logrus.Entry) *subscription {
	ctx, cancel := context.WithCancel(ctx)
	s := &subscription{
		collection:  collection,
		query:       query,
		listener:    listener,
		unsubscribe: unsubscribe,
		logger:      logger,
		events:      make(chan docstore.Event),
		cancel:      cancel,
		done:        make(chan struct{}),
	}
	go s.run(ctx)
	return s
}

func (s *subscription) Events() <-chan docstore.Event {
	return s.events
}

// Close отменяет подписку и снимает ее с хаба
func (s *subscription) Close() error {
	s.cancel()
	<-s.done
	return nil
}

func (s *subscription) run(ctx context.Context) {
	defer close(s.done)
	defer close(s.events)
	defer s.unsubscribe()

	versions := make(map[string]int64)
	first := true

	for {
		docs, err := s.query(ctx)
		if err != nil {
			s.fail(ctx, err)
			return
		}

		changes := diffSnapshot(s.collection, versions, docs)
		versions = indexVersions(docs)
		if first || len(changes) > 0 {
			first = false
			snap := &docstore.Snapshot{Docs: docs, Changes: changes, ReadTime: time.Now()}
			if !s.emit(ctx, docstore.Event{Snapshot: snap}) {
				return
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-s.listener.signal:
		case err := <-s.listener.errs:
			s.fail(ctx, err)
			return
		}
	}
}

func (s *subscription) emit(ctx context.Context, event docstore.Event) bool {
	select {
	case s.events <- event:
		return true
	case <-ctx.Done():
		return false
	}
}

func (s *subscription) fail(ctx context.Context, err error) {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return
	}
	s.logger.WithError(err).Error("Document subscription failed")
	s.emit(ctx, docstore.Event{Err: err})
}

// diffSnapshot сравнивает документы с версиями предыдущего снимка.
// Удаленные документы идут последними в порядке идентификаторов.
func diffSnapshot(collection string, prev map[string]int64, docs []docstore.Document) []docstore.Change {
	changes := make([]docstore.Change, 0)
	present := make(map[string]struct{}, len(docs))

	for _, d := range docs {
		present[d.ID] = struct{}{}
		version, ok := prev[d.ID]
		switch {
		case !ok:
			changes = append(changes, docstore.Change{Type: docstore.ChangeAdded, Doc: d})
		case version != d.Version:
			changes = append(changes, docstore.Change{Type: docstore.ChangeModified, Doc: d})
		}
	}

	removed := make([]string, 0)
	for id := range prev {
		if _, ok := present[id]; !ok {
			removed = append(removed, id)
		}
	}
	sort.Strings(removed)
	for _, id := range removed {
		changes = append(changes, docstore.Change{Type: docstore.ChangeRemoved, Doc: docstore.Document{ID: id, Collection: collection}})
	}
	return changes
}

func indexVersions(docs []docstore.Document) map[string]int64 {
	versions := make(map[string]int64, len(docs))
	for _, d := range docs {
		versions[d.ID] = d.Version
	}
	return versions
}
