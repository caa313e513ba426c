package dto

import (
	"encoding/json"
	"strings"
)

// Роли портала в том виде, как их присылает сервер (roleName).
const (
	RoleAdmin   = "Admin"
	RoleManager = "Manager"
	RoleStaff   = "Staff"
	RoleTrainer = "Trainer"
	RoleMember  = "Member"
)

var RoleOptions = []Option{
	{Value: RoleAdmin, Label: "Quản trị viên"},
	{Value: RoleManager, Label: "Quản lý"},
	{Value: RoleStaff, Label: "Nhân viên"},
	{Value: RoleTrainer, Label: "Huấn luyện viên"},
	{Value: RoleMember, Label: "Hội viên"},
}

func RoleLabel(role string) string { return optionLabel(RoleOptions, role) }

// UserAccountDTO - учетная запись из /Admin/users.
type UserAccountDTO struct {
	ID       ID     `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	RoleName string `json:"roleName"`
	IsActive bool   `json:"isActive"`
}

func DecodeUserAccount(raw json.RawMessage) (UserAccountDTO, error) {
	r := newRecord(raw)
	u := UserAccountDTO{
		ID:       r.ID("id", "userId"),
		Username: r.String("username", "userName"),
		FullName: r.String("fullName", "name"),
		Email:    r.String("email"),
		RoleName: r.String("roleName", "role"),
		IsActive: r.BoolDefault(true, "isActive", "active"),
	}
	return u, r.Err()
}

func (u UserAccountDTO) RowID() string { return u.ID.String() }

var UserAccountColumns = []Column{
	{Key: "username", Title: "Tên đăng nhập", Width: "18%"},
	{Key: "fullName", Title: "Họ tên", Width: "24%"},
	{Key: "email", Title: "Email", Width: "24%"},
	{Key: "roleName", Title: "Vai trò", Width: "18%"},
	{Key: "isActive", Title: "Trạng thái", Width: "16%"},
}

func (u UserAccountDTO) Cells() []string {
	return []string{
		u.Username,
		orDash(u.FullName),
		orDash(u.Email),
		RoleLabel(u.RoleName),
		FormatActive(u.IsActive),
	}
}

// UserAccountFormDTO - при редактировании пустой пароль не меняет текущий.
type UserAccountFormDTO struct {
	Username string `json:"username" form:"username" validate:"notblank,min=3,max=50"`
	FullName string `json:"fullName" form:"fullName" validate:"notblank,max=100"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	RoleName string `json:"roleName" form:"roleName" validate:"required,oneof=Admin Manager Staff Trainer Member"`
	Password string `json:"password,omitempty" form:"password" validate:"omitempty,min=6"`
	IsActive bool   `json:"isActive" form:"isActive"`
}

func (f *UserAccountFormDTO) Normalize() {
	f.Username = strings.TrimSpace(f.Username)
	f.FullName = strings.TrimSpace(f.FullName)
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
}

// NewUserAccountFormDTO - при создании пароль обязателен.
type NewUserAccountFormDTO struct {
	UserAccountFormDTO
	Password string `json:"password" form:"password" validate:"required,min=6"`
}

var UserAccountFields = []Field{
	{Name: "username", Label: "Tên đăng nhập", Type: "text", Required: true},
	{Name: "fullName", Label: "Họ tên", Type: "text", Required: true},
	{Name: "email", Label: "Email", Type: "email", Required: true},
	{Name: "roleName", Label: "Vai trò", Type: "select", Required: true, Options: RoleOptions},
	{Name: "password", Label: "Mật khẩu", Type: "password"},
	{Name: "isActive", Label: "Đang hoạt động", Type: "checkbox"},
}
