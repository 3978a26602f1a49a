package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
)

var (
	// ErrHubClosed - хаб остановлен, новые подписки не принимаются
	ErrHubClosed = errors.New("change hub closed")
	// ErrListenerDown - соединение LISTEN потеряно, изменения могли быть пропущены
	ErrListenerDown = errors.New("change listener is down")
)

// listenConn - соединение, на котором слушается канал изменений
type listenConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	WaitForNotification(ctx context.Context) (*pgconn.Notification, error)
	Close(ctx context.Context) error
}

// changeListener - одна подписка на уведомления коллекции.
// Буфер в один элемент склеивает серию изменений в одно перечитывание.
type changeListener struct {
	collection string
	signal     chan struct{}
	errs       chan error
}

func newChangeListener(collection string) *changeListener {
	return &changeListener{
		collection: collection,
		signal:     make(chan struct{}, 1),
		errs:       make(chan error, 1),
	}
}

func (l *changeListener) wake() {
	select {
	case l.signal <- struct{}{}:
	default:
	}
}

func (l *changeListener) fail(err error) {
	select {
	case l.errs <- err:
	default:
	}
}

// ChangeHub держит одно выделенное соединение под LISTEN и раздает
// уведомления подпискам по имени коллекции. Соединения пула заняты
// только на время запросов.
type ChangeHub struct {
	connect    func(ctx context.Context) (listenConn, error)
	logger     *logrus.Entry
	retryDelay time.Duration

	register   chan *changeListener
	unregister chan *changeListener
	done       chan struct{}
}

// NewChangeHub создает хаб, который подключается к базе отдельно от пула
func NewChangeHub(connConfig *pgx.ConnConfig, logger *logrus.Logger, retryDelay time.Duration) *ChangeHub {
	return newChangeHub(func(ctx context.Context) (listenConn, error) {
		return pgx.ConnectConfig(ctx, connConfig.Copy())
	}, logger, retryDelay)
}

func newChangeHub(connect func(ctx context.Context) (listenConn, error), logger *logrus.Logger, retryDelay time.Duration) *ChangeHub {
	if retryDelay <= 0 {
		retryDelay = time.Second
	}
	return &ChangeHub{
		connect:    connect,
		logger:     logger.WithField("channel", changeChannel),
		retryDelay: retryDelay,
		register:   make(chan *changeListener),
		unregister: make(chan *changeListener),
		done:       make(chan struct{}),
	}
}

// Run обслуживает подписки до отмены ctx. При потере соединения все текущие
// подписки получают ошибку, хаб переподключается через retryDelay.
func (h *ChangeHub) Run(ctx context.Context) {
	defer close(h.done)
	listeners := make(map[*changeListener]struct{})
	defer func() {
		for l := range listeners {
			l.fail(ErrHubClosed)
		}
	}()

	for {
		err := h.session(ctx, listeners)
		if ctx.Err() != nil {
			return
		}
		h.logger.WithError(err).Error("Change listener connection lost")
		for l := range listeners {
			l.fail(fmt.Errorf("%w: %w", ErrListenerDown, err))
			delete(listeners, l)
		}
		if !h.idle(ctx) {
			return
		}
	}
}

// Done закрывается после остановки хаба
func (h *ChangeHub) Done() <-chan struct{} {
	return h.done
}

func (h *ChangeHub) session(ctx context.Context, listeners map[*changeListener]struct{}) error {
	conn, err := h.connect(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect change listener: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := conn.Close(closeCtx); err != nil {
			h.logger.WithError(err).Warn("Failed to close change listener connection")
		}
	}()

	if _, err := conn.Exec(ctx, "LISTEN "+changeChannel); err != nil {
		return fmt.Errorf("failed to listen for document changes: %w", err)
	}
	h.logger.Info("Listening for document changes")

	waitCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	notifications := make(chan string)
	waitErr := make(chan error, 1)
	go func() {
		for {
			n, err := conn.WaitForNotification(waitCtx)
			if err != nil {
				waitErr <- err
				return
			}
			select {
			case notifications <- n.Payload:
			case <-waitCtx.Done():
				waitErr <- waitCtx.Err()
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			// соединение закрываем только после выхода из WaitForNotification
			cancel()
			<-waitErr
			return ctx.Err()
		case err := <-waitErr:
			return fmt.Errorf("failed to wait for notification: %w", err)
		case l := <-h.register:
			listeners[l] = struct{}{}
		case l := <-h.unregister:
			delete(listeners, l)
		case collection := <-notifications:
			for l := range listeners {
				if l.collection == collection {
					l.wake()
				}
			}
		}
	}
}

// idle ждет перед переподключением. Подписки в это время сразу получают ошибку.
func (h *ChangeHub) idle(ctx context.Context) bool {
	timer := time.NewTimer(h.retryDelay)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return false
		case <-timer.C:
			return true
		case l := <-h.register:
			l.fail(ErrListenerDown)
		case <-h.unregister:
		}
	}
}

func (h *ChangeHub) subscribe(ctx context.Context, collection string) (*changeListener, error) {
	l := newChangeListener(collection)
	select {
	case h.register <- l:
		return l, nil
	case <-h.done:
		return nil, ErrHubClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (h *ChangeHub) unsubscribe(l *changeListener) {
	select {
	case h.unregister <- l:
	case <-h.done:
	}
}
