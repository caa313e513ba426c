package dto

import "strings"

type LoginDTO struct {
	Username string `json:"username" form:"username" validate:"notblank"`
	Password string `json:"password" form:"password" validate:"required,min=6"`
}

func (l *LoginDTO) Normalize() {
	l.Username = strings.TrimSpace(l.Username)
}

// LoginResponseDTO - ответ /UserAccount/login.
type LoginResponseDTO struct {
	Token string         `json:"token"`
	User  UserProfileDTO `json:"user"`
}

// UserProfileDTO - текущий пользователь в ответах логина и профиля.
type UserProfileDTO struct {
	ID          ID     `json:"id"`
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	RoleName    string `json:"roleName"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

type UpdateProfileDTO struct {
	FullName    string `json:"fullName" form:"fullName" validate:"notblank,max=100"`
	Email       string `json:"email" form:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber,omitempty" form:"phoneNumber" validate:"omitempty,vnphone"`
}

func (p *UpdateProfileDTO) Normalize() {
	p.FullName = strings.TrimSpace(p.FullName)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.PhoneNumber = strings.TrimSpace(p.PhoneNumber)
}

type AvatarDTO struct {
	AvatarURL string `json:"avatarUrl"`
}
