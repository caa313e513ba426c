package controllers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"fitness-portal/internal/dto"
	"fitness-portal/internal/navigation"
	"fitness-portal/internal/services"
	"fitness-portal/pkg/types"
	"fitness-portal/pkg/utils"
)

// AuditController - журнал действий для администратора.
type AuditController struct {
	auditService services.AuditServiceInterface
	responder
}

func NewAuditController(auditService services.AuditServiceInterface, sessions services.SessionServiceInterface, logger *zap.Logger) *AuditController {
	return &AuditController{
		auditService: auditService,
		responder:    responder{sessions: sessions, logger: logger},
	}
}

type AuditPage struct {
	Enabled    bool
	Columns    []dto.Column
	Rows       []RowView
	Pagination types.Pagination
	Search     string
	Resource   string
	Resources  []dto.Option
	PerPage    int
}

func (ctrl *AuditController) List(c echo.Context) error {
	filter := utils.ParseFilterFromQuery(c.Request().URL.Query())
	resource := strings.TrimSpace(c.QueryParam("resource"))

	entries, pagination, err := ctrl.auditService.List(c.Request().Context(), filter, resource)
	if err != nil {
		return ctrl.fail(c, err, "/admin")
	}

	if utils.WantsJSON(c) {
		if entries == nil {
			entries = []dto.AuditEntryDTO{}
		}
		return utils.SuccessList(c, entries, pagination, "Thành công")
	}

	rows := make([]dto.Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, e)
	}
	options := []dto.Option{{Value: "", Label: "Tất cả"}}
	for _, key := range navigation.ResourcesFor(navigation.RoleAdmin) {
		options = append(options, dto.Option{Value: key, Label: navigation.SectionLabel(navigation.RoleAdmin, key)})
	}
	options = append(options, dto.Option{Value: "session", Label: "Đăng nhập"}, dto.Option{Value: "profile", Label: "Hồ sơ"})

	return ctrl.render(c, http.StatusOK, "audit", "Nhật ký hoạt động", AuditPage{
		Enabled:    ctrl.auditService.Enabled(),
		Columns:    dto.AuditColumns,
		Rows:       rowViews(rows, nil),
		Pagination: pagination,
		Search:     filter.Search,
		Resource:   resource,
		Resources:  options,
		PerPage:    filter.Limit,
	})
}
