package listeners

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"fitness-portal/internal/events"
	"fitness-portal/pkg/eventbus"
	"fitness-portal/pkg/websocket"
)

// Notifier - адресная отправка в WebSocket (реализует websocket.Hub).
type Notifier interface {
	SendMessageToUser(key string, payload interface{}, messageType string) error
}

// ConversationCloser - закрытие чата при выходе (реализует chat.Registry).
type ConversationCloser interface {
	Remove(key string)
}

// SessionListener доставляет изменения сессии во все открытые вкладки пользователя.
type SessionListener struct {
	notifier Notifier
	chats    ConversationCloser
	logger   *zap.Logger
}

func NewSessionListener(notifier Notifier, chats ConversationCloser, logger *zap.Logger) *SessionListener {
	return &SessionListener{notifier: notifier, chats: chats, logger: logger}
}

func (l *SessionListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.SessionUpdatedEvent{}.Name(), l.onUpdated)
	bus.Subscribe(events.SessionEndedEvent{}.Name(), l.onEnded)
}

func (l *SessionListener) onUpdated(_ context.Context, event eventbus.Event) error {
	e, ok := event.(events.SessionUpdatedEvent)
	if !ok {
		return fmt.Errorf("неожиданный тип события %T", event)
	}
	l.logger.Debug("Профиль в сессии обновлен", zap.String("sid", e.Session.ID))
	return l.notifier.SendMessageToUser(e.Session.ID, e.Session.Profile(), websocket.TypeSessionUpdated)
}

func (l *SessionListener) onEnded(_ context.Context, event eventbus.Event) error {
	e, ok := event.(events.SessionEndedEvent)
	if !ok {
		return fmt.Errorf("неожиданный тип события %T", event)
	}
	if l.chats != nil {
		l.chats.Remove(e.SessionID)
	}
	return l.notifier.SendMessageToUser(e.SessionID, map[string]string{"sessionId": e.SessionID}, websocket.TypeSessionEnded)
}
