package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitness-portal/internal/dto"
	"fitness-portal/internal/web"
	"fitness-portal/pkg/types"
)

func renderPage(t *testing.T, path string, session *dto.SessionDTO, name string, data interface{}) string {
	t.Helper()
	renderer, err := web.NewRenderer()
	require.NoError(t, err)

	e := echo.New()
	e.Renderer = renderer
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if session != nil {
		req = req.WithContext(dto.WithSession(req.Context(), session))
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, c.Render(http.StatusOK, name, web.NewView(c, "Tiêu đề", data)))
	return rec.Body.String()
}

var admin = &dto.SessionDTO{ID: "sid", UserID: "1", Username: "admin", FullName: "Quản trị", RoleName: "Admin"}

func TestRender_ListWithStatusActions(t *testing.T) {
	body := renderPage(t, "/admin/repairs", admin, "list", ListPage{
		Key:     "repairs",
		Title:   "Báo cáo sửa chữa",
		Base:    "/admin/repairs",
		Columns: []dto.Column{{Key: "title", Title: "Tiêu đề", Width: "60%"}, {Key: "status", Title: "Trạng thái", Width: "40%"}},
		Rows: []RowView{{
			ID:    "5",
			Cells: []string{"Máy chạy bộ hỏng", "Chờ duyệt"},
			Next:  []dto.Option{{Value: "Approved", Label: "Đã duyệt"}},
		}},
		Pagination: types.NewPagination(45, 2, 20),
		Search:     "máy",
		PerPage:    20,
		CanAdd:     true,
		CanEdit:    true,
		CanStatus:  true,
	})

	assert.Contains(t, body, "Máy chạy bộ hỏng")
	assert.Contains(t, body, `action="/admin/repairs/5/status"`)
	assert.Contains(t, body, `<option value="Approved">Đã duyệt</option>`)
	assert.Contains(t, body, `href="/admin/repairs/5/edit"`)
	assert.NotContains(t, body, `/admin/repairs/5/delete`)
	assert.Contains(t, body, "Trang 2 / 3")
	assert.Contains(t, body, `style="width: 60%"`)
}

func TestRender_EmptyList(t *testing.T) {
	body := renderPage(t, "/staff/equipment", admin, "list", ListPage{
		Title:      "Thiết bị",
		Base:       "/staff/equipment",
		Columns:    []dto.Column{{Title: "Tên", Width: "100%"}},
		Pagination: types.NewPagination(0, 1, 20),
	})

	assert.Contains(t, body, "Không có dữ liệu")
	assert.NotContains(t, body, "/staff/equipment/new")
}

func TestRender_FormKeepsValuesButNotPasswords(t *testing.T) {
	body := renderPage(t, "/admin/users/new", admin, "form", FormPage{
		Title:  "Thêm tài khoản",
		Base:   "/admin/users",
		Action: "/admin/users",
		Fields: []dto.Field{
			{Name: "userName", Label: "Tên đăng nhập", Type: "text", Required: true},
			{Name: "password", Label: "Mật khẩu", Type: "password", Required: true},
			{Name: "roleName", Label: "Vai trò", Type: "select", Required: true, Options: dto.RoleOptions},
			{Name: "isActive", Label: "Hoạt động", Type: "checkbox"},
		},
		Values: map[string]string{"userName": "letan01", "password": "bimat123", "roleName": "Staff", "isActive": "true"},
		Errors: map[string]string{"userName": "Tên đăng nhập đã tồn tại"},
	})

	assert.Contains(t, body, `value="letan01"`)
	assert.NotContains(t, body, "bimat123")
	assert.Contains(t, body, `<option value="Staff" selected>`)
	assert.Contains(t, body, `value="true" checked`)
	assert.Contains(t, body, "Tên đăng nhập đã tồn tại")
}

func TestRender_ConfirmAndAudit(t *testing.T) {
	body := renderPage(t, "/admin/members/3/delete", admin, "confirm", ConfirmPage{
		Title: "Xóa hội viên", Base: "/admin/members", ID: "3", Summary: "Nguyễn Văn An",
	})
	assert.Contains(t, body, `name="confirm" value="yes"`)
	assert.Contains(t, body, "Nguyễn Văn An")

	body = renderPage(t, "/admin/audit", admin, "audit", AuditPage{Enabled: false})
	assert.Contains(t, body, "Nhật ký chưa được bật")
}

func TestRender_PublicPages(t *testing.T) {
	body := renderPage(t, "/packages", nil, "packages", PackagesPage{
		Packages:   []dto.PackageDTO{{ID: "1", PackageName: "Gói 10 buổi", DurationInDays: 30, SessionCount: 10, Price: 800000}},
		Pagination: types.NewPagination(1, 1, 12),
		PerPage:    12,
	})
	assert.Contains(t, body, "Gói 10 buổi")
	assert.Contains(t, body, "800.000 ₫")
	assert.Contains(t, body, `href="/login"`)

	body = renderPage(t, "/packages/99", nil, "package_detail", PackageDetailPage{NotFound: true})
	assert.Contains(t, body, "Không tìm thấy gói tập")

	body = renderPage(t, "/login", nil, "login", LoginPage{Username: "an", Errors: map[string]string{"password": "Bắt buộc"}})
	assert.Contains(t, body, "Bắt buộc")

	body = renderPage(t, "/nope", nil, "error", ErrorPage{Code: 404, Message: "Không tìm thấy trang"})
	assert.Contains(t, body, "404")
}

func TestRender_ProfileUsesSession(t *testing.T) {
	body := renderPage(t, "/profile", admin, "profile", ProfilePage{
		Values: map[string]string{"fullName": "Quản trị", "email": "admin@fitzone.vn"},
	})

	assert.Contains(t, body, `value="admin@fitzone.vn"`)
	assert.Contains(t, body, "Vai trò: Admin")
	assert.Contains(t, body, "Quản trị")
}
