package websocket

import "time"

// Envelope - конверт сообщения: по Type фронтенд решает, что делать с Payload.
type Envelope struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// Типы сообщений портала.
const (
	TypeChatMessage    = "chat.message"
	TypeChatHistory    = "chat.history"
	TypeSessionUpdated = "session.updated"
	TypeSessionEnded   = "session.ended"
	TypeError          = "error"
)
