package model

import "time"

type NotificationType string

const (
	NotificationCartItemAdded   NotificationType = "cart_item_added"
	NotificationCartItemUpdated NotificationType = "cart_item_updated"
)

// Notification is one user-facing cart acknowledgement. Notifications are
// held in a bounded per-client history in memory and pushed over the
// websocket hub; they are not persisted.
type Notification struct {
	Type      NotificationType `json:"type"`
	Name      string           `json:"name"`
	Message   string           `json:"message"`
	CreatedAt time.Time        `json:"created_at"`
}
