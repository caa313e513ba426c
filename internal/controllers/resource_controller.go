package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"fitness-portal/internal/dto"
	"fitness-portal/internal/navigation"
	"fitness-portal/internal/services"
	apperrors "fitness-portal/pkg/errors"
	"fitness-portal/pkg/types"
	"fitness-portal/pkg/utils"
)

// ResourceController - экраны-таблицы back-office и их JSON-зеркало /api/:resource.
// Ресурс берется из пути, права - из роли сессии.
type ResourceController struct {
	resources services.ResourceRegistry
	responder
}

func NewResourceController(resources services.ResourceRegistry, sessions services.SessionServiceInterface, logger *zap.Logger) *ResourceController {
	return &ResourceController{
		resources: resources,
		responder: responder{sessions: sessions, logger: logger},
	}
}

type ListPage struct {
	Key        string
	Title      string
	Base       string
	Columns    []dto.Column
	Rows       []RowView
	Pagination types.Pagination
	Search     string
	PerPage    int
	CanAdd     bool
	CanEdit    bool
	CanDelete  bool
	CanStatus  bool
}

type RowView struct {
	ID    string
	Cells []string
	Next  []dto.Option
}

type FormPage struct {
	Title   string
	Base    string
	Action  string
	Editing bool
	Fields  []dto.Field
	Values  map[string]string
	Errors  map[string]string
}

type ConfirmPage struct {
	Title   string
	Base    string
	ID      string
	Summary string
}

type resourceRequest struct {
	svc  services.ResourceServiceInterface
	role string
	base string
}

func (r *resourceRequest) can(action string) bool {
	return navigation.Allowed(r.role, r.svc.Key(), action)
}

// resolve находит ресурс и проверяет, что роль может выполнить action.
// Чужой для роли ресурс выглядит как несуществующий.
func (ctrl *ResourceController) resolve(c echo.Context, action string) (*resourceRequest, error) {
	session := dto.SessionFromContext(c.Request().Context())
	if session == nil {
		return nil, apperrors.ErrUnauthorized
	}
	key := c.Param("resource")
	svc, ok := ctrl.resources.Get(key)
	if !ok || !navigation.Allowed(session.RoleName, key, navigation.ActionView) {
		return nil, apperrors.NewHttpError(http.StatusNotFound, "Không tìm thấy trang", apperrors.ErrNotFound, nil)
	}
	if !navigation.Allowed(session.RoleName, key, action) {
		return nil, apperrors.NewHttpError(http.StatusForbidden, "Bạn không có quyền thực hiện thao tác này", apperrors.ErrForbidden, nil)
	}
	return &resourceRequest{
		svc:  svc,
		role: session.RoleName,
		base: navigation.Prefix(session.RoleName) + "/" + key,
	}, nil
}

func (ctrl *ResourceController) home(c echo.Context) string {
	if session := dto.SessionFromContext(c.Request().Context()); session != nil {
		if prefix := navigation.Prefix(session.RoleName); prefix != "" {
			return prefix
		}
	}
	return "/"
}

func rowViews(rows []dto.Row, workflow *dto.Workflow) []RowView {
	views := make([]RowView, 0, len(rows))
	for _, row := range rows {
		view := RowView{ID: row.RowID(), Cells: row.Cells()}
		if stateful, ok := row.(dto.Stateful); ok && workflow != nil {
			view.Next = workflow.Next(stateful.State())
		}
		views = append(views, view)
	}
	return views
}

// ---------- HTML ----------

func (ctrl *ResourceController) List(c echo.Context) error {
	req, err := ctrl.resolve(c, navigation.ActionView)
	if err != nil {
		return ctrl.fail(c, err, ctrl.home(c))
	}

	filter := utils.ParseFilterFromQuery(c.Request().URL.Query())
	result, err := req.svc.List(c.Request().Context(), filter)
	if err != nil {
		// Страница остается открытой с пустой таблицей и сообщением.
		ctrl.logger.Error("Не удалось загрузить список", zap.String("resource", req.svc.Key()), zap.Error(err))
		if utils.WantsJSON(c) {
			return utils.ErrorResponse(c, err, ctrl.logger)
		}
		if apperrors.StatusCode(err) == http.StatusUnauthorized {
			return ctrl.fail(c, err, req.base)
		}
		utils.SetFlash(c, "error", utils.UserMessage(err))
		result = &services.ListResult{Pagination: types.NewPagination(0, 1, filter.Limit), Search: filter.Search}
	}

	return ctrl.render(c, http.StatusOK, "list", req.svc.Title(), ListPage{
		Key:        req.svc.Key(),
		Title:      navigation.SectionLabel(req.role, req.svc.Key()),
		Base:       req.base,
		Columns:    req.svc.Columns(),
		Rows:       rowViews(result.Rows, req.svc.Workflow()),
		Pagination: result.Pagination,
		Search:     result.Search,
		PerPage:    filter.Limit,
		CanAdd:     req.can(navigation.ActionAdd),
		CanEdit:    req.can(navigation.ActionEdit),
		CanDelete:  req.can(navigation.ActionDelete),
		CanStatus:  req.can(navigation.ActionStatus),
	})
}

func (ctrl *ResourceController) New(c echo.Context) error {
	req, err := ctrl.resolve(c, navigation.ActionAdd)
	if err != nil {
		return ctrl.fail(c, err, ctrl.home(c))
	}
	return ctrl.renderForm(c, http.StatusOK, req, "", services.FormValues(req.svc.NewForm(false)), nil)
}

func (ctrl *ResourceController) Create(c echo.Context) error {
	req, err := ctrl.resolve(c, navigation.ActionAdd)
	if err != nil {
		return ctrl.fail(c, err, ctrl.home(c))
	}

	form := req.svc.NewForm(false)
	if err := c.Bind(form); err != nil {
		return ctrl.fail(c, badRequest("Dữ liệu biểu mẫu không hợp lệ", err), req.base+"/new")
	}

	if _, err := req.svc.Create(c.Request().Context(), form); err != nil {
		if vErr, ok := isValidation(err); ok {
			return ctrl.renderForm(c, http.StatusUnprocessableEntity, req, "", services.FormValues(form), vErr.Fields)
		}
		return ctrl.fail(c, err, req.base+"/new")
	}
	return ctrl.done(c, "Đã thêm mới thành công", req.base)
}

func (ctrl *ResourceController) Edit(c echo.Context) error {
	req, err := ctrl.resolve(c, navigation.ActionEdit)
	if err != nil {
		return ctrl.fail(c, err, ctrl.home(c))
	}

	row, err := req.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return ctrl.fail(c, err, req.base)
	}
	return ctrl.renderForm(c, http.StatusOK, req, row.RowID(), req.svc.FormValues(row), nil)
}

func (ctrl *ResourceController) Update(c echo.Context) error {
	req, err := ctrl.resolve(c, navigation.ActionEdit)
	if err != nil {
		return ctrl.fail(c, err, ctrl.home(c))
	}

	id := c.Param("id")
	form := req.svc.NewForm(true)
	if err := c.Bind(form); err != nil {
		return ctrl.fail(c, badRequest("Dữ liệu biểu mẫu không hợp lệ", err), req.base+"/"+id+"/edit")
	}

	if _, err := req.svc.Update(c.Request().Context(), id, form); err != nil {
		if vErr, ok := isValidation(err); ok {
			return ctrl.renderForm(c, http.StatusUnprocessableEntity, req, id, services.FormValues(form), vErr.Fields)
		}
		return ctrl.fail(c, err, req.base+"/"+id+"/edit")
	}
	return ctrl.done(c, "Đã cập nhật thành công", req.base)
}

func (ctrl *ResourceController) renderForm(c echo.Context, code int, req *resourceRequest, id string, values, errs map[string]string) error {
	page := FormPage{
		Base:    req.base,
		Action:  req.base,
		Editing: id != "",
		Fields:  req.svc.Fields(),
		Values:  values,
		Errors:  errs,
	}
	label := navigation.SectionLabel(req.role, req.svc.Key())
	if page.Editing {
		page.Action = req.base + "/" + id
		page.Title = "Chỉnh sửa: " + label
		// Пароль при редактировании не обязателен и не подставляется.
		page.Fields = optionalPasswords(page.Fields)
	} else {
		page.Title = "Thêm mới: " + label
	}
	return ctrl.render(c, code, "form", page.Title, page)
}

func optionalPasswords(fields []dto.Field) []dto.Field {
	out := make([]dto.Field, len(fields))
	copy(out, fields)
	for i := range out {
		if out[i].Type == "password" {
			out[i].Required = false
		}
	}
	return out
}

func (ctrl *ResourceController) ConfirmDelete(c echo.Context) error {
	req, err := ctrl.resolve(c, navigation.ActionDelete)
	if err != nil {
		return ctrl.fail(c, err, ctrl.home(c))
	}

	row, err := req.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return ctrl.fail(c, err, req.base)
	}
	summary := ""
	if cells := row.Cells(); len(cells) > 0 {
		summary = cells[0]
	}
	title := "Xóa: " + navigation.SectionLabel(req.role, req.svc.Key())
	return ctrl.render(c, http.StatusOK, "confirm", title, ConfirmPage{
		Title:   title,
		Base:    req.base,
		ID:      row.RowID(),
		Summary: summary,
	})
}

func (ctrl *ResourceController) Delete(c echo.Context) error {
	req, err := ctrl.resolve(c, navigation.ActionDelete)
	if err != nil {
		return ctrl.fail(c, err, ctrl.home(c))
	}

	confirmed := c.FormValue("confirm") == "yes"
	if err := req.svc.Delete(c.Request().Context(), c.Param("id"), confirmed); err != nil {
		return ctrl.fail(c, err, req.base)
	}
	return ctrl.done(c, "Đã xóa thành công", req.base)
}

func (ctrl *ResourceController) ChangeStatus(c echo.Context) error {
	req, err := ctrl.resolve(c, navigation.ActionStatus)
	if err != nil {
		return ctrl.fail(c, err, ctrl.home(c))
	}

	var payload dto.StatusDTO
	if err := c.Bind(&payload); err != nil {
		return ctrl.fail(c, badRequest("Dữ liệu biểu mẫu không hợp lệ", err), req.base)
	}
	if _, err := req.svc.ChangeStatus(c.Request().Context(), c.Param("id"), payload); err != nil {
		return ctrl.fail(c, err, req.base)
	}
	return ctrl.done(c, "Đã cập nhật trạng thái", req.base)
}

// Export отдает все строки (с учетом search) в xlsx.
func (ctrl *ResourceController) Export(c echo.Context) error {
	req, err := ctrl.resolve(c, navigation.ActionView)
	if err != nil {
		return ctrl.fail(c, err, ctrl.home(c))
	}

	rows, err := req.svc.All(c.Request().Context(), strings.TrimSpace(c.QueryParam("search")))
	if err != nil {
		return ctrl.fail(c, err, req.base)
	}

	var buf bytes.Buffer
	if err := services.WriteXLSX(&buf, req.svc.Title(), req.svc.Columns(), rows); err != nil {
		ctrl.logger.Error("Не удалось сформировать xlsx", zap.String("resource", req.svc.Key()), zap.Error(err))
		return ctrl.fail(c, err, req.base)
	}

	fileName := fmt.Sprintf("%s.xlsx", req.svc.Key())
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, fileName))
	return c.Blob(http.StatusOK, services.XLSXContentType, buf.Bytes())
}

// ---------- JSON /api/:resource ----------

type rowJSON struct {
	ID    string      `json:"id"`
	Cells []string    `json:"cells"`
	Data  interface{} `json:"data"`
}

func toJSON(row dto.Row) rowJSON {
	return rowJSON{ID: row.RowID(), Cells: row.Cells(), Data: row}
}

func (ctrl *ResourceController) APIList(c echo.Context) error {
	req, err := ctrl.resolve(c, navigation.ActionView)
	if err != nil {
		return ctrl.fail(c, err, "")
	}
	result, err := req.svc.List(c.Request().Context(), utils.ParseFilterFromQuery(c.Request().URL.Query()))
	if err != nil {
		return ctrl.fail(c, err, "")
	}
	list := make([]rowJSON, 0, len(result.Rows))
	for _, row := range result.Rows {
		list = append(list, toJSON(row))
	}
	return utils.SuccessList(c, list, result.Pagination, "Thành công")
}

func (ctrl *ResourceController) APIGet(c echo.Context) error {
	req, err := ctrl.resolve(c, navigation.ActionView)
	if err != nil {
		return ctrl.fail(c, err, "")
	}
	row, err := req.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return ctrl.fail(c, err, "")
	}
	return utils.SuccessResponse(c, toJSON(row), "Thành công", http.StatusOK)
}

func (ctrl *ResourceController) APICreate(c echo.Context) error {
	req, err := ctrl.resolve(c, navigation.ActionAdd)
	if err != nil {
		return ctrl.fail(c, err, "")
	}
	form := req.svc.NewForm(false)
	if err := c.Bind(form); err != nil {
		return ctrl.fail(c, badRequest("Dữ liệu không hợp lệ", err), "")
	}
	row, err := req.svc.Create(c.Request().Context(), form)
	if err != nil {
		return ctrl.fail(c, err, "")
	}
	return utils.SuccessResponse(c, toJSON(row), "Đã thêm mới thành công", http.StatusCreated)
}

func (ctrl *ResourceController) APIUpdate(c echo.Context) error {
	req, err := ctrl.resolve(c, navigation.ActionEdit)
	if err != nil {
		return ctrl.fail(c, err, "")
	}
	form := req.svc.NewForm(true)
	if err := c.Bind(form); err != nil {
		return ctrl.fail(c, badRequest("Dữ liệu không hợp lệ", err), "")
	}
	row, err := req.svc.Update(c.Request().Context(), c.Param("id"), form)
	if err != nil {
		return ctrl.fail(c, err, "")
	}
	return utils.SuccessResponse(c, toJSON(row), "Đã cập nhật thành công", http.StatusOK)
}

// APIDelete требует ?confirm=true, как и диалог подтверждения на странице.
func (ctrl *ResourceController) APIDelete(c echo.Context) error {
	req, err := ctrl.resolve(c, navigation.ActionDelete)
	if err != nil {
		return ctrl.fail(c, err, "")
	}
	confirmed := c.QueryParam("confirm") == "true" || c.QueryParam("confirm") == "yes"
	if err := req.svc.Delete(c.Request().Context(), c.Param("id"), confirmed); err != nil {
		return ctrl.fail(c, err, "")
	}
	return utils.SuccessResponse(c, nil, "Đã xóa thành công", http.StatusOK)
}

func (ctrl *ResourceController) APIChangeStatus(c echo.Context) error {
	req, err := ctrl.resolve(c, navigation.ActionStatus)
	if err != nil {
		return ctrl.fail(c, err, "")
	}
	var payload dto.StatusDTO
	if err := c.Bind(&payload); err != nil {
		return ctrl.fail(c, badRequest("Dữ liệu không hợp lệ", err), "")
	}
	row, err := req.svc.ChangeStatus(c.Request().Context(), c.Param("id"), payload)
	if err != nil {
		return ctrl.fail(c, err, "")
	}
	return utils.SuccessResponse(c, toJSON(row), "Đã cập nhật trạng thái", http.StatusOK)
}
