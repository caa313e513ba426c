package dto

import (
	"encoding/json"
	"strconv"
	"strings"

	"fitness-portal/pkg/utils"
)

type TrainerDTO struct {
	ID              ID     `json:"id"`
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	PhoneNumber     string `json:"phoneNumber"`
	Specialty       string `json:"specialty"`
	ExperienceYears int    `json:"experienceYears"`
	IsActive        bool   `json:"isActive"`
}

func DecodeTrainer(raw json.RawMessage) (TrainerDTO, error) {
	r := newRecord(raw)
	t := TrainerDTO{
		ID:              r.ID("id", "trainerId", "userId"),
		FullName:        r.String("fullName", "name"),
		Email:           r.String("email"),
		PhoneNumber:     r.String("phoneNumber", "phone"),
		Specialty:       r.String("specialty", "specialization"),
		ExperienceYears: r.Int("experienceYears", "experience"),
		IsActive:        r.BoolDefault(true, "isActive", "active"),
	}
	return t, r.Err()
}

func (t TrainerDTO) RowID() string { return t.ID.String() }

var TrainerColumns = []Column{
	{Key: "fullName", Title: "Họ tên", Width: "22%"},
	{Key: "email", Title: "Email", Width: "22%"},
	{Key: "phoneNumber", Title: "Điện thoại", Width: "14%"},
	{Key: "specialty", Title: "Chuyên môn", Width: "18%"},
	{Key: "experienceYears", Title: "Kinh nghiệm", Width: "12%"},
	{Key: "isActive", Title: "Trạng thái", Width: "12%"},
}

func (t TrainerDTO) Cells() []string {
	return []string{
		t.FullName,
		orDash(t.Email),
		orDash(t.PhoneNumber),
		orDash(t.Specialty),
		strconv.Itoa(t.ExperienceYears) + " năm",
		FormatActive(t.IsActive),
	}
}

type TrainerFormDTO struct {
	FullName        string `json:"fullName" form:"fullName" validate:"notblank,max=100"`
	Email           string `json:"email" form:"email" validate:"required,email"`
	PhoneNumber     string `json:"phoneNumber" form:"phoneNumber" validate:"required,vnphone"`
	Specialty       string `json:"specialty" form:"specialty" validate:"max=100"`
	ExperienceYears int    `json:"experienceYears" form:"experienceYears" validate:"gte=0,lte=60"`
	IsActive        bool   `json:"isActive" form:"isActive"`
}

func (f *TrainerFormDTO) Normalize() {
	f.FullName = strings.TrimSpace(f.FullName)
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	f.PhoneNumber = utils.NormalizePhoneNumber(f.PhoneNumber)
	f.Specialty = strings.TrimSpace(f.Specialty)
}

var TrainerFields = []Field{
	{Name: "fullName", Label: "Họ tên", Type: "text", Required: true},
	{Name: "email", Label: "Email", Type: "email", Required: true},
	{Name: "phoneNumber", Label: "Số điện thoại", Type: "tel", Required: true},
	{Name: "specialty", Label: "Chuyên môn", Type: "text"},
	{Name: "experienceYears", Label: "Số năm kinh nghiệm", Type: "number"},
	{Name: "isActive", Label: "Đang hoạt động", Type: "checkbox"},
}
