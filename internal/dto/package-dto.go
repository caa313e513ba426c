package dto

import (
	"encoding/json"
	"strings"
)

// PackageDTO - пакет абонемента. Длительность приходит как durationInDays или duration,
// количество занятий - sessionCount или sessions.
type PackageDTO struct {
	ID                      ID      `json:"id"`
	PackageName             string  `json:"packageName"`
	DurationInDays          int     `json:"durationInDays"`
	SessionCount            int     `json:"sessionCount"`
	IncludesPersonalTrainer bool    `json:"includesPersonalTrainer"`
	Price                   float64 `json:"price"`
	Description             string  `json:"description,omitempty"`
}

func DecodePackage(raw json.RawMessage) (PackageDTO, error) {
	r := newRecord(raw)
	p := PackageDTO{
		ID:                      r.ID("id", "packageId"),
		PackageName:             r.String("packageName", "name"),
		DurationInDays:          r.Int("durationInDays", "duration"),
		SessionCount:            r.Int("sessionCount", "sessions"),
		IncludesPersonalTrainer: r.Bool("includesPersonalTrainer", "hasPT", "withPT"),
		Price:                   r.Float("price"),
		Description:             r.String("description"),
	}
	return p, r.Err()
}

func (p PackageDTO) RowID() string { return p.ID.String() }

var PackageColumns = []Column{
	{Key: "packageName", Title: "Tên gói", Width: "28%"},
	{Key: "durationInDays", Title: "Thời hạn", Width: "14%"},
	{Key: "sessionCount", Title: "Số buổi", Width: "14%"},
	{Key: "includesPersonalTrainer", Title: "PT", Width: "10%"},
	{Key: "price", Title: "Giá", Width: "18%"},
}

func (p PackageDTO) Cells() []string {
	return []string{
		p.PackageName,
		FormatDays(p.DurationInDays),
		FormatSessions(p.SessionCount),
		FormatBool(p.IncludesPersonalTrainer),
		FormatVND(p.Price),
	}
}

type PackageFormDTO struct {
	PackageName             string  `json:"packageName" form:"packageName" validate:"notblank,max=150"`
	DurationInDays          int     `json:"durationInDays" form:"durationInDays" validate:"gt=0,lte=3650"`
	SessionCount            int     `json:"sessionCount" form:"sessionCount" validate:"gte=0"`
	IncludesPersonalTrainer bool    `json:"includesPersonalTrainer" form:"includesPersonalTrainer"`
	Price                   float64 `json:"price" form:"price" validate:"gt=0"`
	Description             string  `json:"description,omitempty" form:"description" validate:"max=1000"`
}

func (f *PackageFormDTO) Normalize() {
	f.PackageName = strings.TrimSpace(f.PackageName)
	f.Description = strings.TrimSpace(f.Description)
}

var PackageFields = []Field{
	{Name: "packageName", Label: "Tên gói", Type: "text", Required: true},
	{Name: "durationInDays", Label: "Thời hạn (ngày)", Type: "number", Required: true},
	{Name: "sessionCount", Label: "Số buổi", Type: "number"},
	{Name: "includesPersonalTrainer", Label: "Có huấn luyện viên cá nhân", Type: "checkbox"},
	{Name: "price", Label: "Giá (VNĐ)", Type: "number", Required: true},
	{Name: "description", Label: "Mô tả", Type: "textarea"},
}
