package dto

import (
	"encoding/json"
	"strings"
)

// RepairReportDTO - báo cáo sửa chữa thiết bị. EquipmentID - непрозрачная ссылка.
type RepairReportDTO struct {
	ID            ID     `json:"id"`
	EquipmentID   ID     `json:"equipmentId"`
	EquipmentName string `json:"equipmentName,omitempty"`
	Description   string `json:"description"`
	Status        string `json:"status"`
	ReportDate    Date   `json:"reportDate"`
	ReportedBy    string `json:"reportedBy,omitempty"`
}

func DecodeRepairReport(raw json.RawMessage) (RepairReportDTO, error) {
	r := newRecord(raw)
	rep := RepairReportDTO{
		ID:            r.ID("id", "reportId"),
		EquipmentID:   r.ID("equipmentId"),
		EquipmentName: r.String("equipmentName"),
		Description:   r.String("description", "issue"),
		Status:        r.String("status"),
		ReportDate:    r.Date("reportDate", "createdAt"),
		ReportedBy:    r.String("reportedBy", "reporterName"),
	}
	if rep.Status == "" {
		rep.Status = RepairWorkflow.Initial
	}
	return rep, r.Err()
}

func (r RepairReportDTO) RowID() string { return r.ID.String() }

func (r RepairReportDTO) State() string { return r.Status }

var RepairReportColumns = []Column{
	{Key: "equipment", Title: "Thiết bị", Width: "20%"},
	{Key: "description", Title: "Mô tả sự cố", Width: "34%"},
	{Key: "status", Title: "Trạng thái", Width: "14%"},
	{Key: "reportDate", Title: "Ngày báo", Width: "14%"},
	{Key: "reportedBy", Title: "Người báo", Width: "18%"},
}

func (r RepairReportDTO) Cells() []string {
	equipment := r.EquipmentName
	if equipment == "" {
		equipment = "#" + r.EquipmentID.String()
	}
	return []string{
		equipment,
		orDash(r.Description),
		RepairWorkflow.Label(r.Status),
		FormatDate(r.ReportDate),
		orDash(r.ReportedBy),
	}
}

type RepairReportFormDTO struct {
	EquipmentID string `json:"equipmentId" form:"equipmentId" validate:"notblank"`
	Description string `json:"description" form:"description" validate:"notblank,max=1000"`
}

func (f *RepairReportFormDTO) Normalize() {
	f.EquipmentID = strings.TrimSpace(f.EquipmentID)
	f.Description = strings.TrimSpace(f.Description)
}

var RepairReportFields = []Field{
	{Name: "equipmentId", Label: "Mã thiết bị", Type: "text", Required: true},
	{Name: "description", Label: "Mô tả sự cố", Type: "textarea", Required: true},
}
