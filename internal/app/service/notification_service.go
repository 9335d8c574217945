package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/bigbestmart/bnbmart-backend/internal/app/model"
	"github.com/bigbestmart/bnbmart-backend/pkg/logger"
)

type CartEventType string

const (
	CartEventAdded   CartEventType = "added"
	CartEventUpdated CartEventType = "updated"
)

// CartEvent records that a cart mutation happened, decoupled from how the
// user is told about it. Only AddToCart emits events.
type CartEvent struct {
	ClientID string
	Type     CartEventType
	Name     string
}

// CartNotifier is the emission side of the notification channel; the cart
// store publishes through it without knowing how events get displayed.
type CartNotifier interface {
	Publish(event CartEvent)
}

// Pusher delivers a payload to a client's live connections. Satisfied by
// the websocket hub; tests substitute a recorder.
type Pusher interface {
	SendToClient(clientID string, payload interface{}) error
}

// NotificationService consumes cart events from a queue, formats the
// user-facing acknowledgement, records it in a bounded per-client history
// and pushes it to live websocket sessions. Events queue up rather than
// overwrite each other: two quick adds produce two notifications.
type NotificationService interface {
	CartNotifier
	Recent(clientID string) []model.Notification
	Run()
	Stop()
}

type notificationService struct {
	events      chan CartEvent
	pusher      Pusher
	historySize int

	mu      sync.RWMutex
	history map[string][]model.Notification

	stopOnce sync.Once
	done     chan struct{}
}

func NewNotificationService(pusher Pusher, historySize int) NotificationService {
	if historySize <= 0 {
		historySize = 50
	}
	return &notificationService{
		events:      make(chan CartEvent, 256),
		pusher:      pusher,
		historySize: historySize,
		history:     make(map[string][]model.Notification),
		done:        make(chan struct{}),
	}
}

// Publish enqueues an event without blocking the mutation that emitted it.
// A full queue drops the event with a warning; cart state is unaffected.
func (s *notificationService) Publish(event CartEvent) {
	select {
	case s.events <- event:
	default:
		logger.Warn("Notification queue full, event dropped", map[string]interface{}{
			"client_id": event.ClientID,
			"type":      event.Type,
			"name":      event.Name,
		})
	}
}

// Run consumes the event queue until Stop is called. Intended to run in
// its own goroutine.
func (s *notificationService) Run() {
	for {
		select {
		case event := <-s.events:
			s.dispatch(event)
		case <-s.done:
			return
		}
	}
}

func (s *notificationService) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
	})
}

func (s *notificationService) dispatch(event CartEvent) {
	notification := model.Notification{
		Name:      event.Name,
		CreatedAt: time.Now(),
	}

	switch event.Type {
	case CartEventUpdated:
		notification.Type = model.NotificationCartItemUpdated
		notification.Message = fmt.Sprintf("%s quantity updated in cart!", event.Name)
	default:
		notification.Type = model.NotificationCartItemAdded
		notification.Message = fmt.Sprintf("%s added to cart successfully!", event.Name)
	}

	s.mu.Lock()
	entries := append(s.history[event.ClientID], notification)
	if len(entries) > s.historySize {
		entries = entries[len(entries)-s.historySize:]
	}
	s.history[event.ClientID] = entries
	s.mu.Unlock()

	if s.pusher != nil {
		if err := s.pusher.SendToClient(event.ClientID, notification); err != nil {
			logger.Warn("Failed to push notification", map[string]interface{}{
				"client_id": event.ClientID,
				"error":     err.Error(),
			})
		}
	}

	logger.Debug("Notification dispatched", map[string]interface{}{
		"client_id": event.ClientID,
		"type":      notification.Type,
		"message":   notification.Message,
	})
}

// Recent returns the client's retained notifications, oldest first.
func (s *notificationService) Recent(clientID string) []model.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.history[clientID]
	out := make([]model.Notification, len(entries))
	copy(out, entries)
	return out
}
