package models

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	NotificationTypeAccidentResponse = "accident_response"

	ResponderAcknowledgement = "A driver has responded to your accident report and is on the way to help!"
)

// Notification - уведомление пользователя
type Notification struct {
	ID        string `json:"-"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Read      bool   `json:"read"`
	Type      string `json:"type"`
}

// UserNotificationsPath возвращает путь коллекции уведомлений пользователя
func UserNotificationsPath(userID string) string {
	return "users/" + userID + "/notifications"
}

// NewResponseNotification создает уведомление о выезде помощи
func NewResponseNotification(now time.Time) *Notification {
	return &Notification{
		Message:   ResponderAcknowledgement,
		Timestamp: now.UTC().Format(time.RFC3339Nano),
		Read:      false,
		Type:      NotificationTypeAccidentResponse,
	}
}

// DecodeNotification разбирает данные документа уведомления
func DecodeNotification(id string, data []byte) (*Notification, error) {
	n := &Notification{}
	if err := json.Unmarshal(data, n); err != nil {
		return nil, fmt.Errorf("failed to decode notification %s: %w", id, err)
	}
	n.ID = id
	return n, nil
}
