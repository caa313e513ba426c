package dto

import (
	"encoding/json"
	"strings"

	"fitness-portal/pkg/utils"
)

type StaffDTO struct {
	ID          ID      `json:"id"`
	FullName    string  `json:"fullName"`
	Email       string  `json:"email"`
	PhoneNumber string  `json:"phoneNumber"`
	Position    string  `json:"position"`
	Salary      float64 `json:"salary,omitempty"`
	HireDate    Date    `json:"hireDate"`
}

func DecodeStaff(raw json.RawMessage) (StaffDTO, error) {
	r := newRecord(raw)
	s := StaffDTO{
		ID:          r.ID("id", "staffId", "userId"),
		FullName:    r.String("fullName", "name"),
		Email:       r.String("email"),
		PhoneNumber: r.String("phoneNumber", "phone"),
		Position:    r.String("position", "role"),
		Salary:      r.Float("salary"),
		HireDate:    r.Date("hireDate", "startDate"),
	}
	return s, r.Err()
}

func (s StaffDTO) RowID() string { return s.ID.String() }

var StaffColumns = []Column{
	{Key: "fullName", Title: "Họ tên", Width: "22%"},
	{Key: "email", Title: "Email", Width: "22%"},
	{Key: "phoneNumber", Title: "Điện thoại", Width: "14%"},
	{Key: "position", Title: "Chức vụ", Width: "14%"},
	{Key: "salary", Title: "Lương", Width: "14%"},
	{Key: "hireDate", Title: "Ngày vào làm", Width: "14%"},
}

func (s StaffDTO) Cells() []string {
	salary := "—"
	if s.Salary > 0 {
		salary = FormatVND(s.Salary)
	}
	return []string{
		s.FullName,
		orDash(s.Email),
		orDash(s.PhoneNumber),
		orDash(s.Position),
		salary,
		FormatDate(s.HireDate),
	}
}

type StaffFormDTO struct {
	FullName    string  `json:"fullName" form:"fullName" validate:"notblank,max=100"`
	Email       string  `json:"email" form:"email" validate:"required,email"`
	PhoneNumber string  `json:"phoneNumber" form:"phoneNumber" validate:"required,vnphone"`
	Position    string  `json:"position" form:"position" validate:"notblank,max=60"`
	Salary      float64 `json:"salary,omitempty" form:"salary" validate:"gte=0"`
	HireDate    string  `json:"hireDate,omitempty" form:"hireDate" validate:"omitempty,datetime=2006-01-02"`
}

func (f *StaffFormDTO) Normalize() {
	f.FullName = strings.TrimSpace(f.FullName)
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	f.PhoneNumber = utils.NormalizePhoneNumber(f.PhoneNumber)
	f.Position = strings.TrimSpace(f.Position)
}

var StaffFields = []Field{
	{Name: "fullName", Label: "Họ tên", Type: "text", Required: true},
	{Name: "email", Label: "Email", Type: "email", Required: true},
	{Name: "phoneNumber", Label: "Số điện thoại", Type: "tel", Required: true},
	{Name: "position", Label: "Chức vụ", Type: "text", Required: true},
	{Name: "salary", Label: "Lương (VNĐ)", Type: "number"},
	{Name: "hireDate", Label: "Ngày vào làm", Type: "date"},
}
