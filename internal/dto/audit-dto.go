package dto

import (
	"strconv"
	"time"
)

type AuditEntryDTO struct {
	ID        int64     `json:"id"`
	ActorName string    `json:"actorName"`
	ActorRole string    `json:"actorRole"`
	Resource  string    `json:"resource"`
	Action    string    `json:"action"`
	RecordID  string    `json:"recordId"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"createdAt"`
}

var auditActionLabels = map[string]string{
	"create": "Thêm mới",
	"update": "Cập nhật",
	"delete": "Xóa",
	"status": "Đổi trạng thái",
	"login":  "Đăng nhập",
	"logout": "Đăng xuất",
}

var AuditColumns = []Column{
	{Key: "createdAt", Title: "Thời gian", Width: "16%"},
	{Key: "actorName", Title: "Người thực hiện", Width: "20%"},
	{Key: "actorRole", Title: "Vai trò", Width: "12%"},
	{Key: "resource", Title: "Mục", Width: "12%"},
	{Key: "action", Title: "Thao tác", Width: "12%"},
	{Key: "summary", Title: "Chi tiết", Width: "28%"},
}

func (a AuditEntryDTO) RowID() string { return strconv.FormatInt(a.ID, 10) }

func (a AuditEntryDTO) Cells() []string {
	action, ok := auditActionLabels[a.Action]
	if !ok {
		action = a.Action
	}
	summary := a.Summary
	if summary == "" && a.RecordID != "" {
		summary = "#" + a.RecordID
	}
	return []string{
		a.CreatedAt.Local().Format("02/01/2006 15:04"),
		orDash(a.ActorName),
		RoleLabel(a.ActorRole),
		a.Resource,
		action,
		orDash(summary),
	}
}
