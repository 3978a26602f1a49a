// Package docstore - контракт документного хранилища с подписками на изменения.
package docstore

//go:generate mockgen -source=docstore.go -destination=mocks/mock_docstore.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var ErrNotFound = errors.New("document not found")

// Document - документ коллекции
type Document struct {
	ID         string          `json:"id"`
	Collection string          `json:"collection"`
	Data       json.RawMessage `json:"data"`
	Version    int64           `json:"version"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

type ChangeType int

const (
	ChangeAdded ChangeType = iota
	ChangeModified
	ChangeRemoved
)

func (c ChangeType) String() string {
	switch c {
	case ChangeAdded:
		return "added"
	case ChangeModified:
		return "modified"
	case ChangeRemoved:
		return "removed"
	}
	return "unknown"
}

// Change - изменение документа относительно предыдущего снимка
type Change struct {
	Type ChangeType
	Doc  Document
}

// Snapshot - полный результат запроса и изменения с прошлого снимка.
// В первом снимке все документы приходят как ChangeAdded.
type Snapshot struct {
	Docs     []Document
	Changes  []Change
	ReadTime time.Time
}

// Filter - условие равенства поля
type Filter struct {
	Field string
	Value any
}

type Query struct {
	Collection string
	Filters    []Filter
}

// Where возвращает копию запроса с добавленным условием
func (q Query) Where(field string, value any) Query {
	filters := make([]Filter, 0, len(q.Filters)+1)
	filters = append(filters, q.Filters...)
	q.Filters = append(filters, Filter{Field: field, Value: value})
	return q
}

// Event - элемент потока подписки: снимок или ошибка.
// После ошибки канал закрывается.
type Event struct {
	Snapshot *Snapshot
	Err      error
}

type Subscription interface {
	Events() <-chan Event
	Close() error
}

type Store interface {
	Listen(ctx context.Context, q Query) (Subscription, error)
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	Create(ctx context.Context, collection string, data any) (string, error)
}
