package service

import (
	"bytes"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/shenikar/accident_response/internal/docstore"
	"github.com/sirupsen/logrus"
)

// fakeSubscription - подписка, которой управляет тест
type fakeSubscription struct {
	events chan docstore.Event
	closed chan struct{}
	once   sync.Once
}

func newFakeSubscription() *fakeSubscription {
	return &fakeSubscription{
		events: make(chan docstore.Event),
		closed: make(chan struct{}),
	}
}

func (f *fakeSubscription) Events() <-chan docstore.Event { return f.events }

func (f *fakeSubscription) Close() error {
	f.once.Do(func() { close(f.closed) })
	return nil
}

func (f *fakeSubscription) send(t *testing.T, event docstore.Event) {
	t.Helper()
	select {
	case f.events <- event:
	case <-time.After(time.Second):
		t.Fatal("subscription event was not consumed")
	}
}

type recordingReporter struct {
	errs chan error
}

func newRecordingReporter() *recordingReporter {
	return &recordingReporter{errs: make(chan error, 8)}
}

func (r *recordingReporter) Report(_ string, err error) {
	r.errs <- err
}

func newSilentLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах
	return logger
}

func doc(collection, id, data string) docstore.Document {
	return docstore.Document{ID: id, Collection: collection, Data: json.RawMessage(data)}
}
