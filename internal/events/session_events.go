package events

import "fitness-portal/internal/dto"

// SessionUpdatedEvent - профиль в сессии изменился (редактирование, аватар).
type SessionUpdatedEvent struct {
	Session dto.SessionDTO
}

func (e SessionUpdatedEvent) Name() string { return "session.updated" }

// SessionEndedEvent - пользователь вышел.
type SessionEndedEvent struct {
	SessionID string
	UserID    string
}

func (e SessionEndedEvent) Name() string { return "session.ended" }
