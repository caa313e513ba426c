package dto

import (
	"encoding/json"
	"strings"
)

var DayOfWeekOptions = []Option{
	{Value: "Monday", Label: "Thứ Hai"},
	{Value: "Tuesday", Label: "Thứ Ba"},
	{Value: "Wednesday", Label: "Thứ Tư"},
	{Value: "Thursday", Label: "Thứ Năm"},
	{Value: "Friday", Label: "Thứ Sáu"},
	{Value: "Saturday", Label: "Thứ Bảy"},
	{Value: "Sunday", Label: "Chủ Nhật"},
}

type TimeSlotDTO struct {
	ID          ID     `json:"id"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	DayOfWeek   string `json:"dayOfWeek"`
	MaxCapacity int    `json:"maxCapacity"`
	TrainerName string `json:"trainerName,omitempty"`
}

func DecodeTimeSlot(raw json.RawMessage) (TimeSlotDTO, error) {
	r := newRecord(raw)
	t := TimeSlotDTO{
		ID:          r.ID("id", "timeSlotId"),
		StartTime:   clockOf(r.String("startTime", "start")),
		EndTime:     clockOf(r.String("endTime", "end")),
		DayOfWeek:   r.String("dayOfWeek", "day"),
		MaxCapacity: r.Int("maxCapacity", "capacity"),
		TrainerName: r.String("trainerName"),
	}
	return t, r.Err()
}

// clockOf: "07:30:00" -> "07:30".
func clockOf(s string) string {
	s = strings.TrimSpace(s)
	if len(s) == len("15:04:05") && s[2] == ':' && s[5] == ':' {
		return s[:5]
	}
	return s
}

func (t TimeSlotDTO) RowID() string { return t.ID.String() }

var TimeSlotColumns = []Column{
	{Key: "dayOfWeek", Title: "Thứ", Width: "18%"},
	{Key: "startTime", Title: "Bắt đầu", Width: "16%"},
	{Key: "endTime", Title: "Kết thúc", Width: "16%"},
	{Key: "maxCapacity", Title: "Sức chứa", Width: "14%"},
	{Key: "trainerName", Title: "Huấn luyện viên", Width: "24%"},
}

func (t TimeSlotDTO) Cells() []string {
	return []string{
		optionLabel(DayOfWeekOptions, t.DayOfWeek),
		orDash(t.StartTime),
		orDash(t.EndTime),
		FormatNumber(t.MaxCapacity),
		orDash(t.TrainerName),
	}
}

type TimeSlotFormDTO struct {
	DayOfWeek   string `json:"dayOfWeek" form:"dayOfWeek" validate:"required,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	StartTime   string `json:"startTime" form:"startTime" validate:"required,clock"`
	EndTime     string `json:"endTime" form:"endTime" validate:"required,clock,clockafter=StartTime"`
	MaxCapacity int    `json:"maxCapacity" form:"maxCapacity" validate:"gte=1,lte=500"`
}

func (f *TimeSlotFormDTO) Normalize() {
	f.StartTime = clockOf(f.StartTime)
	f.EndTime = clockOf(f.EndTime)
}

var TimeSlotFields = []Field{
	{Name: "dayOfWeek", Label: "Thứ", Type: "select", Required: true, Options: DayOfWeekOptions},
	{Name: "startTime", Label: "Giờ bắt đầu", Type: "time", Required: true},
	{Name: "endTime", Label: "Giờ kết thúc", Type: "time", Required: true},
	{Name: "maxCapacity", Label: "Sức chứa tối đa", Type: "number", Required: true},
}
