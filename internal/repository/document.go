package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/accident_response/internal/docstore"
	"github.com/sirupsen/logrus"
)

// changeChannel - канал pg_notify, в который триггер пишет имя коллекции
const changeChannel = "document_changes"

type DocumentRepository struct {
	db     *pgxpool.Pool
	hub    *ChangeHub
	logger *logrus.Logger
}

func NewDocumentRepository(db *pgxpool.Pool, hub *ChangeHub, logger *logrus.Logger) docstore.Store {
	return &DocumentRepository{
		db:     db,
		hub:    hub,
		logger: logger,
	}
}

// Create добавляет документ в коллекцию и возвращает его идентификатор
func (r *DocumentRepository) Create(ctx context.Context, collection string, data any) (string, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to marshal document for %s: %w", collection, err)
	}

	id := uuid.NewString()
	query := `
		INSERT INTO documents (collection, id, data)
		VALUES ($1, $2, $3::jsonb);
	`
	if _, err := r.db.Exec(ctx, query, collection, id, payload); err != nil {
		return "", fmt.Errorf("failed to create document in %s: %w", collection, err)
	}
	return id, nil
}

// Update меняет только переданные поля документа
func (r *DocumentRepository) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	patch, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to marshal update for %s/%s: %w", collection, id, err)
	}

	query := `
		UPDATE documents SET
			data = data || $3::jsonb,
			version = version + 1,
			updated_at = NOW()
		WHERE collection = $1 AND id = $2;
	`
	cmdTag, err := r.db.Exec(ctx, query, collection, id, patch)
	if err != nil {
		return fmt.Errorf("failed to update document %s/%s: %w", collection, id, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("document %s/%s not found for update: %w", collection, id, docstore.ErrNotFound)
	}
	return nil
}

// Listen открывает подписку на коллекцию. Уведомления приходят через общий
// ChangeHub, соединение пула берется только на время перечитывания.
func (r *DocumentRepository) Listen(ctx context.Context, q docstore.Query) (docstore.Subscription, error) {
	filter, err := containmentFilter(q.Filters)
	if err != nil {
		return nil, err
	}

	listener, err := r.hub.subscribe(ctx, q.Collection)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to document changes: %w", err)
	}

	query := func(ctx context.Context) ([]docstore.Document, error) {
		return querySnapshot(ctx, r.db, q.Collection, filter)
	}
	return newSubscription(ctx, q.Collection, query, listener,
		func() { r.hub.unsubscribe(listener) },
		r.logger.WithField("collection", q.Collection)), nil
}

// rowQuerier - пул или соединение, через которое читается снимок
type rowQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// querySnapshot читает текущее содержимое коллекции в порядке создания
func querySnapshot(ctx context.Context, db rowQuerier, collection string, filter []byte) ([]docstore.Document, error) {
	query := `
		SELECT id, data, version, updated_at
		FROM documents
		WHERE collection = $1
			AND ($2::jsonb IS NULL OR data @> $2::jsonb)
		ORDER BY created_at, id;
	`
	rows, err := db.Query(ctx, query, collection, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", collection, err)
	}
	defer rows.Close()

	docs := make([]docstore.Document, 0)
	for rows.Next() {
		d := docstore.Document{Collection: collection}
		if err := rows.Scan(&d.ID, &d.Data, &d.Version, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document row in %s: %w", collection, err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error documents iteration in %s: %w", collection, err)
	}
	return docs, nil
}

// containmentFilter превращает условия равенства в JSONB-объект для оператора @>
func containmentFilter(filters []docstore.Filter) ([]byte, error) {
	if len(filters) == 0 {
		return nil, nil
	}
	fields := make(map[string]any, len(filters))
	for _, f := range filters {
		if f.Field == "" {
			return nil, fmt.Errorf("filter field is empty")
		}
		fields[f.Field] = f.Value
	}
	filter, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal filter: %w", err)
	}
	return filter, nil
}
