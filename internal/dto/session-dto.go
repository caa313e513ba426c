package dto

import (
	"context"
	"time"

	"fitness-portal/pkg/contextkeys"
)

// SessionDTO - текущий пользователь портала. Хранится в кеше по ключу
// user:<ID>, в cookie лежит только подписанная ссылка на него.
type SessionDTO struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Username    string    `json:"username"`
	FullName    string    `json:"fullName"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber,omitempty"`
	RoleName    string    `json:"roleName"`
	AvatarURL   string    `json:"avatarUrl,omitempty"`
	Token       string    `json:"token,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (s *SessionDTO) Profile() UserProfileDTO {
	return UserProfileDTO{
		ID:          ID(s.UserID),
		FullName:    s.FullName,
		Email:       s.Email,
		PhoneNumber: s.PhoneNumber,
		RoleName:    s.RoleName,
		AvatarURL:   s.AvatarURL,
	}
}

// DisplayName - имя для шапки и чата.
func (s *SessionDTO) DisplayName() string {
	if s.FullName != "" {
		return s.FullName
	}
	return s.Username
}

func WithSession(ctx context.Context, s *SessionDTO) context.Context {
	return context.WithValue(ctx, contextkeys.SessionKey, s)
}

// SessionFromContext возвращает nil для гостя.
func SessionFromContext(ctx context.Context) *SessionDTO {
	s, _ := ctx.Value(contextkeys.SessionKey).(*SessionDTO)
	return s
}
