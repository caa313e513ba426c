package dto

import (
	"encoding/json"
	"strings"

	"fitness-portal/pkg/utils"
)

type MemberDTO struct {
	ID          ID     `json:"id"`
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Gender      string `json:"gender,omitempty"`
	DateOfBirth Date   `json:"dateOfBirth"`
	PackageName string `json:"packageName,omitempty"`
	IsActive    bool   `json:"isActive"`
}

func DecodeMember(raw json.RawMessage) (MemberDTO, error) {
	r := newRecord(raw)
	m := MemberDTO{
		ID:          r.ID("id", "memberId", "userId"),
		FullName:    r.String("fullName", "name", "userName"),
		Email:       r.String("email"),
		PhoneNumber: r.String("phoneNumber", "phone"),
		Gender:      r.String("gender"),
		DateOfBirth: r.Date("dateOfBirth", "birthDate"),
		PackageName: r.String("packageName", "currentPackage"),
		IsActive:    r.BoolDefault(true, "isActive", "active"),
	}
	return m, r.Err()
}

func (m MemberDTO) RowID() string { return m.ID.String() }

var MemberColumns = []Column{
	{Key: "fullName", Title: "Họ tên", Width: "22%"},
	{Key: "email", Title: "Email", Width: "22%"},
	{Key: "phoneNumber", Title: "Điện thoại", Width: "14%"},
	{Key: "gender", Title: "Giới tính", Width: "9%"},
	{Key: "dateOfBirth", Title: "Ngày sinh", Width: "11%"},
	{Key: "packageName", Title: "Gói tập", Width: "12%"},
	{Key: "isActive", Title: "Trạng thái", Width: "10%"},
}

func (m MemberDTO) Cells() []string {
	return []string{
		m.FullName,
		orDash(m.Email),
		orDash(m.PhoneNumber),
		GenderLabel(m.Gender),
		FormatDate(m.DateOfBirth),
		orDash(m.PackageName),
		FormatActive(m.IsActive),
	}
}

type MemberFormDTO struct {
	FullName    string `json:"fullName" form:"fullName" validate:"notblank,max=100"`
	Email       string `json:"email" form:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber" form:"phoneNumber" validate:"required,vnphone"`
	Gender      string `json:"gender,omitempty" form:"gender" validate:"omitempty,oneof=Male Female Other"`
	DateOfBirth string `json:"dateOfBirth,omitempty" form:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	IsActive    bool   `json:"isActive" form:"isActive"`
}

func (f *MemberFormDTO) Normalize() {
	f.FullName = strings.TrimSpace(f.FullName)
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	f.PhoneNumber = utils.NormalizePhoneNumber(f.PhoneNumber)
}

var GenderOptions = []Option{
	{Value: "Male", Label: "Nam"},
	{Value: "Female", Label: "Nữ"},
	{Value: "Other", Label: "Khác"},
}

func GenderLabel(g string) string {
	for _, o := range GenderOptions {
		if strings.EqualFold(o.Value, g) {
			return o.Label
		}
	}
	return orDash(g)
}

var MemberFields = []Field{
	{Name: "fullName", Label: "Họ tên", Type: "text", Required: true},
	{Name: "email", Label: "Email", Type: "email", Required: true},
	{Name: "phoneNumber", Label: "Số điện thoại", Type: "tel", Required: true},
	{Name: "gender", Label: "Giới tính", Type: "select", Options: GenderOptions},
	{Name: "dateOfBirth", Label: "Ngày sinh", Type: "date"},
	{Name: "isActive", Label: "Đang hoạt động", Type: "checkbox"},
}
