package webhook

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/shenikar/accident_response/internal/device"
)

var ErrInvalidLink = errors.New("invalid link")

// DeviceNotifier доставляет уведомления и ссылки на устройство пользователя через очередь вебхуков
type DeviceNotifier struct {
	publisher Publisher
	now       func() time.Time
}

func NewDeviceNotifier(publisher Publisher) *DeviceNotifier {
	return &DeviceNotifier{
		publisher: publisher,
		now:       time.Now,
	}
}

func (n *DeviceNotifier) Alert(ctx context.Context, userID string, alert device.Alert) error {
	return n.publisher.Publish(ctx, DeviceEvent{
		Kind:      EventAlert,
		UserID:    userID,
		AlertKind: string(alert.Kind),
		Title:     alert.Title,
		Message:   alert.Message,
		Timestamp: n.now().UTC(),
	})
}

// Open отправляет устройству ссылку для открытия. Ссылка должна быть абсолютной.
func (n *DeviceNotifier) Open(ctx context.Context, userID, link string) error {
	parsed, err := url.Parse(link)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidLink, link)
	}
	if err := n.publisher.Publish(ctx, DeviceEvent{
		Kind:      EventOpenLink,
		UserID:    userID,
		URL:       link,
		Timestamp: n.now().UTC(),
	}); err != nil {
		return fmt.Errorf("failed to dispatch link: %w", err)
	}
	return nil
}
