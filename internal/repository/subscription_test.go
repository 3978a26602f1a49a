package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shenikar/accident_response/internal/docstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffSnapshot_FirstSnapshotAllAdded(t *testing.T) {
	docs := []docstore.Document{{ID: "a", Version: 1}, {ID: "b", Version: 1}}

	changes := diffSnapshot("accidentReports", map[string]int64{}, docs)

	require.Len(t, changes, 2)
	for i, c := range changes {
		assert.Equal(t, docstore.ChangeAdded, c.Type)
		assert.Equal(t, docs[i].ID, c.Doc.ID)
	}
}

func TestDiffSnapshot_ModifiedAndRemoved(t *testing.T) {
	prev := map[string]int64{"a": 1, "b": 1, "c": 3, "d": 1}
	docs := []docstore.Document{
		{ID: "a", Version: 1},
		{ID: "b", Version: 2},
		{ID: "e", Version: 1},
	}

	changes := diffSnapshot("users/u1/notifications", prev, docs)

	require.Len(t, changes, 4)
	assert.Equal(t, docstore.Change{Type: docstore.ChangeModified, Doc: docs[1]}, changes[0])
	assert.Equal(t, docstore.Change{Type: docstore.ChangeAdded, Doc: docs[2]}, changes[1])
	assert.Equal(t, docstore.ChangeRemoved, changes[2].Type)
	assert.Equal(t, "c", changes[2].Doc.ID)
	assert.Equal(t, "users/u1/notifications", changes[2].Doc.Collection)
	assert.Equal(t, "d", changes[3].Doc.ID)
}

func TestDiffSnapshot_NoChanges(t *testing.T) {
	docs := []docstore.Document{{ID: "a", Version: 4}}

	assert.Empty(t, diffSnapshot("c", indexVersions(docs), docs))
}

func TestContainmentFilter(t *testing.T) {
	filter, err := containmentFilter(nil)
	require.NoError(t, err)
	assert.Nil(t, filter)

	q := docstore.Query{Collection: "users/u1/notifications"}.Where("read", false).Where("type", "accident_response")
	filter, err = containmentFilter(q.Filters)
	require.NoError(t, err)
	assert.JSONEq(t, `{"read":false,"type":"accident_response"}`, string(filter))

	_, err = containmentFilter([]docstore.Filter{{Field: "", Value: 1}})
	assert.Error(t, err)
}

// fakeCollection - содержимое коллекции, которое перечитывает подписка
type fakeCollection struct {
	mu      sync.Mutex
	docs    []docstore.Document
	err     error
	queried chan struct{}
}

func newFakeCollection(docs ...docstore.Document) *fakeCollection {
	return &fakeCollection{docs: docs, queried: make(chan struct{}, 16)}
}

func (f *fakeCollection) query(context.Context) ([]docstore.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queried <- struct{}{}
	if f.err != nil {
		return nil, f.err
	}
	return append([]docstore.Document(nil), f.docs...), nil
}

func (f *fakeCollection) set(docs ...docstore.Document) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs = docs
}

func (f *fakeCollection) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeCollection) waitQueried(t *testing.T) {
	t.Helper()
	select {
	case <-f.queried:
	case <-time.After(time.Second):
		t.Fatal("collection was not queried")
	}
}

func startTestSubscription(t *testing.T, coll *fakeCollection) (*subscription, *changeListener, chan struct{}) {
	t.Helper()
	listener := newChangeListener("accidentReports")
	unsubscribed := make(chan struct{})
	sub := newSubscription(context.Background(), "accidentReports", coll.query, listener,
		func() { close(unsubscribed) }, newSilentLogger().WithField("collection", "accidentReports"))
	t.Cleanup(func() { _ = sub.Close() })
	return sub, listener, unsubscribed
}

func nextEvent(t *testing.T, sub *subscription) docstore.Event {
	t.Helper()
	select {
	case event, ok := <-sub.Events():
		require.True(t, ok, "events channel closed")
		return event
	case <-time.After(time.Second):
		t.Fatal("no event emitted")
		return docstore.Event{}
	}
}

func assertNoEvent(t *testing.T, sub *subscription) {
	t.Helper()
	select {
	case event := <-sub.Events():
		t.Fatalf("unexpected event: %+v", event)
	case <-time.After(50 * time.Millisecond):
	}
}

func assertUnsubscribed(t *testing.T, unsubscribed chan struct{}) {
	t.Helper()
	select {
	case <-unsubscribed:
	case <-time.After(time.Second):
		t.Fatal("subscription was not removed from hub")
	}
}

func TestSubscription_FirstSnapshotAlwaysEmitted(t *testing.T) {
	sub, _, _ := startTestSubscription(t, newFakeCollection())

	event := nextEvent(t, sub)

	require.NoError(t, event.Err)
	require.NotNil(t, event.Snapshot)
	assert.Empty(t, event.Snapshot.Docs)
	assert.Empty(t, event.Snapshot.Changes)
}

func TestSubscription_EmitsOnlyRealChanges(t *testing.T) {
	coll := newFakeCollection(docstore.Document{ID: "a", Version: 1})
	sub, listener, _ := startTestSubscription(t, coll)

	first := nextEvent(t, sub)
	require.Len(t, first.Snapshot.Changes, 1)
	coll.waitQueried(t)

	// уведомление без изменений в коллекции
	listener.wake()
	coll.waitQueried(t)
	assertNoEvent(t, sub)

	coll.set(docstore.Document{ID: "a", Version: 2}, docstore.Document{ID: "b", Version: 1})
	listener.wake()

	event := nextEvent(t, sub)
	require.Len(t, event.Snapshot.Changes, 2)
	assert.Equal(t, docstore.ChangeModified, event.Snapshot.Changes[0].Type)
	assert.Equal(t, docstore.ChangeAdded, event.Snapshot.Changes[1].Type)
	assert.Len(t, event.Snapshot.Docs, 2)
}

func TestSubscription_ListenerErrorEndsSubscription(t *testing.T) {
	sub, listener, unsubscribed := startTestSubscription(t, newFakeCollection())
	nextEvent(t, sub)

	listener.fail(ErrListenerDown)

	event := nextEvent(t, sub)
	assert.ErrorIs(t, event.Err, ErrListenerDown)
	_, ok := <-sub.Events()
	assert.False(t, ok)
	assertUnsubscribed(t, unsubscribed)
}

func TestSubscription_QueryErrorEndsSubscription(t *testing.T) {
	coll := newFakeCollection()
	sub, listener, unsubscribed := startTestSubscription(t, coll)
	nextEvent(t, sub)

	coll.fail(errors.New("too many connections"))
	listener.wake()

	event := nextEvent(t, sub)
	assert.ErrorContains(t, event.Err, "too many connections")
	assertUnsubscribed(t, unsubscribed)
}

func TestSubscription_CloseIsQuiet(t *testing.T) {
	sub, _, unsubscribed := startTestSubscription(t, newFakeCollection())
	nextEvent(t, sub)

	require.NoError(t, sub.Close())

	_, ok := <-sub.Events()
	assert.False(t, ok, "no error event after close")
	assertUnsubscribed(t, unsubscribed)
}
