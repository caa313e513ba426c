package dto

import (
	"encoding/json"
	"strings"
)

type MaintenanceDTO struct {
	ID            ID     `json:"id"`
	EquipmentID   ID     `json:"equipmentId"`
	EquipmentName string `json:"equipmentName,omitempty"`
	ScheduledDate Date   `json:"scheduledDate"`
	Description   string `json:"description"`
	Status        string `json:"status"`
}

func DecodeMaintenance(raw json.RawMessage) (MaintenanceDTO, error) {
	r := newRecord(raw)
	m := MaintenanceDTO{
		ID:            r.ID("id", "scheduleId"),
		EquipmentID:   r.ID("equipmentId"),
		EquipmentName: r.String("equipmentName"),
		ScheduledDate: r.Date("scheduledDate", "date"),
		Description:   r.String("description", "note"),
		Status:        r.String("status"),
	}
	if m.Status == "" {
		m.Status = MaintenanceWorkflow.Initial
	}
	return m, r.Err()
}

func (m MaintenanceDTO) RowID() string { return m.ID.String() }

func (m MaintenanceDTO) State() string { return m.Status }

var MaintenanceColumns = []Column{
	{Key: "equipment", Title: "Thiết bị", Width: "24%"},
	{Key: "scheduledDate", Title: "Ngày bảo trì", Width: "16%"},
	{Key: "description", Title: "Nội dung", Width: "40%"},
	{Key: "status", Title: "Trạng thái", Width: "20%"},
}

func (m MaintenanceDTO) Cells() []string {
	equipment := m.EquipmentName
	if equipment == "" {
		equipment = "#" + m.EquipmentID.String()
	}
	return []string{
		equipment,
		FormatDate(m.ScheduledDate),
		orDash(m.Description),
		MaintenanceWorkflow.Label(m.Status),
	}
}

type MaintenanceFormDTO struct {
	EquipmentID   string `json:"equipmentId" form:"equipmentId" validate:"notblank"`
	ScheduledDate string `json:"scheduledDate" form:"scheduledDate" validate:"required,datetime=2006-01-02"`
	Description   string `json:"description" form:"description" validate:"max=1000"`
}

func (f *MaintenanceFormDTO) Normalize() {
	f.EquipmentID = strings.TrimSpace(f.EquipmentID)
	f.Description = strings.TrimSpace(f.Description)
}

var MaintenanceFields = []Field{
	{Name: "equipmentId", Label: "Mã thiết bị", Type: "text", Required: true},
	{Name: "scheduledDate", Label: "Ngày bảo trì", Type: "date", Required: true},
	{Name: "description", Label: "Nội dung", Type: "textarea"},
}
