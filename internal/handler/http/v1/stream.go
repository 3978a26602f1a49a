package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/shenikar/accident_response/internal/device"
	"github.com/shenikar/accident_response/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512

	messageReports = "reports"
	messageAlert   = "alert"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// streamClient - одно websocket-подключение. Подписка живет, пока жив клиент.
type streamClient struct {
	conn *websocket.Conn
	send chan []byte
	log  *logrus.Entry
}

func newStreamClient(conn *websocket.Conn, buffer int, log *logrus.Entry) *streamClient {
	if buffer < 1 {
		buffer = 1
	}
	return &streamClient{
		conn: conn,
		send: make(chan []byte, buffer),
		log:  log,
	}
}

// replace кладет сообщение в очередь, вытесняя самое старое.
// Для списка сообщений важен только последний снимок.
func (c *streamClient) replace(msg []byte) {
	for {
		select {
		case c.send <- msg:
			return
		default:
			select {
			case <-c.send:
			default:
			}
		}
	}
}

// deliver ждет места в очереди, уведомления не теряются
func (c *streamClient) deliver(ctx context.Context, msg []byte) error {
	select {
	case c.send <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// readPump читает входящие кадры только ради ping/pong и закрытия соединения
func (c *streamClient) readPump(cancel context.CancelFunc) {
	defer cancel()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.WithError(err).Warn("Websocket closed unexpectedly")
			}
			return
		}
	}
}

func (c *streamClient) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.log.WithError(err).Warn("Failed to write websocket message")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *streamClient) closeWithError(reason string) {
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseInternalServerErr, reason),
		time.Now().Add(writeWait))
	c.conn.Close()
}

func encodeMessage(kind string, data any) ([]byte, error) {
	return json.Marshal(StreamMessage{Type: kind, Data: data, Timestamp: time.Now().UTC()})
}

// streamAlerter доставляет уведомления пользователя в его websocket
type streamAlerter struct {
	client *streamClient
}

func (a streamAlerter) Alert(ctx context.Context, _ string, alert device.Alert) error {
	msg, err := encodeMessage(messageAlert, alert)
	if err != nil {
		return err
	}
	return a.client.deliver(ctx, msg)
}

// @Summary Stream accident reports
// @Description Websocket stream of the report list. Every change in the collection pushes the full ordered list. Requires API key.
// @Tags Reports
// @Security ApiKeyAuth
// @Success 101 {object} StreamMessage "Switching Protocols"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /reports/stream [get]
func (h *Handler) streamReports(c *gin.Context) {
	log := h.logger.WithField("method", "streamReports")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithError(err).Warn("Failed to upgrade connection")
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	client := newStreamClient(conn, h.cfg.StreamBuffer, log)
	stop, err := h.feeds.SubscribeReports(ctx, func(reports []models.AccidentReport) {
		msg, err := encodeMessage(messageReports, ModelsToReportList(reports))
		if err != nil {
			log.WithError(err).Error("Failed to encode reports")
			return
		}
		client.replace(msg)
	})
	if err != nil {
		log.WithError(err).Error("Failed to subscribe to reports")
		client.closeWithError("subscription failed")
		return
	}
	defer stop()

	go client.writePump(ctx)
	client.readPump(cancel)
}

// @Summary Stream user notifications
// @Description Websocket stream of unread notifications addressed to the user. Each notification is delivered once per connection. Requires API key.
// @Tags Notifications
// @Security ApiKeyAuth
// @Param id path string true "User ID"
// @Success 101 {object} StreamMessage "Switching Protocols"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /users/{id}/notifications/stream [get]
func (h *Handler) streamNotifications(c *gin.Context) {
	userID := c.Param("id")
	log := h.logger.WithFields(logrus.Fields{"method": "streamNotifications", "user_id": userID})

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithError(err).Warn("Failed to upgrade connection")
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	client := newStreamClient(conn, h.cfg.StreamBuffer, log)
	stop, err := h.feeds.WatchNotifications(ctx, userID, streamAlerter{client: client})
	if err != nil {
		log.WithError(err).Error("Failed to watch notifications")
		client.closeWithError("subscription failed")
		return
	}
	defer stop()

	go client.writePump(ctx)
	client.readPump(cancel)
}
