package dto

import (
	"encoding/json"
	"strings"
)

const (
	EquipmentAvailable   = "Available"
	EquipmentMaintenance = "Maintenance"
	EquipmentBroken      = "Broken"
)

var EquipmentStatusOptions = []Option{
	{Value: EquipmentAvailable, Label: "Sẵn sàng"},
	{Value: EquipmentMaintenance, Label: "Bảo trì"},
	{Value: EquipmentBroken, Label: "Hỏng"},
}

type EquipmentDTO struct {
	ID            ID     `json:"id"`
	EquipmentName string `json:"equipmentName"`
	Category      string `json:"category"`
	Quantity      int    `json:"quantity"`
	Status        string `json:"status"`
	PurchaseDate  Date   `json:"purchaseDate"`
}

func DecodeEquipment(raw json.RawMessage) (EquipmentDTO, error) {
	r := newRecord(raw)
	e := EquipmentDTO{
		ID:            r.ID("id", "equipmentId"),
		EquipmentName: r.String("equipmentName", "name"),
		Category:      r.String("category", "type"),
		Quantity:      r.Int("quantity"),
		Status:        r.String("status"),
		PurchaseDate:  r.Date("purchaseDate"),
	}
	if e.Status == "" {
		e.Status = EquipmentAvailable
	}
	return e, r.Err()
}

func (e EquipmentDTO) RowID() string { return e.ID.String() }

var EquipmentColumns = []Column{
	{Key: "equipmentName", Title: "Tên thiết bị", Width: "30%"},
	{Key: "category", Title: "Loại", Width: "20%"},
	{Key: "quantity", Title: "Số lượng", Width: "12%"},
	{Key: "status", Title: "Trạng thái", Width: "18%"},
	{Key: "purchaseDate", Title: "Ngày mua", Width: "20%"},
}

func (e EquipmentDTO) Cells() []string {
	return []string{
		e.EquipmentName,
		orDash(e.Category),
		FormatNumber(e.Quantity),
		optionLabel(EquipmentStatusOptions, e.Status),
		FormatDate(e.PurchaseDate),
	}
}

type EquipmentFormDTO struct {
	EquipmentName string `json:"equipmentName" form:"equipmentName" validate:"notblank,max=150"`
	Category      string `json:"category" form:"category" validate:"max=100"`
	Quantity      int    `json:"quantity" form:"quantity" validate:"gte=1"`
	Status        string `json:"status" form:"status" validate:"required,oneof=Available Maintenance Broken"`
	PurchaseDate  string `json:"purchaseDate,omitempty" form:"purchaseDate" validate:"omitempty,datetime=2006-01-02"`
}

func (f *EquipmentFormDTO) Normalize() {
	f.EquipmentName = strings.TrimSpace(f.EquipmentName)
	f.Category = strings.TrimSpace(f.Category)
	if f.Status == "" {
		f.Status = EquipmentAvailable
	}
}

var EquipmentFields = []Field{
	{Name: "equipmentName", Label: "Tên thiết bị", Type: "text", Required: true},
	{Name: "category", Label: "Loại", Type: "text"},
	{Name: "quantity", Label: "Số lượng", Type: "number", Required: true},
	{Name: "status", Label: "Trạng thái", Type: "select", Required: true, Options: EquipmentStatusOptions},
	{Name: "purchaseDate", Label: "Ngày mua", Type: "date"},
}

func optionLabel(options []Option, value string) string {
	for _, o := range options {
		if o.Value == value {
			return o.Label
		}
	}
	return orDash(value)
}
