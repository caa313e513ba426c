package web

import (
	"html/template"

	"github.com/gorilla/csrf"
	"github.com/labstack/echo/v4"

	"fitness-portal/internal/dto"
	"fitness-portal/internal/navigation"
	"fitness-portal/pkg/utils"
)

// View - общие данные каждой страницы: пользователь, меню, тост, CSRF.
type View struct {
	Title     string
	Path      string
	Session   *dto.SessionDTO
	Role      string
	Links     []navigation.Link
	Sidebar   navigation.Sidebar
	Flash     *utils.Flash
	CSRFField template.HTML
	CSRFToken string
	Data      interface{}
}

func NewView(c echo.Context, title string, data interface{}) View {
	req := c.Request()
	session := dto.SessionFromContext(req.Context())
	role := navigation.RoleGuest
	if session != nil && session.RoleName != "" {
		role = session.RoleName
	}
	return View{
		Title:     title,
		Path:      req.URL.Path,
		Session:   session,
		Role:      role,
		Links:     navigation.LinksFor(role, req.URL.Path),
		Sidebar:   navigation.SidebarFor(req),
		Flash:     utils.PopFlash(c),
		CSRFField: csrf.TemplateField(req),
		CSRFToken: csrf.Token(req),
		Data:      data,
	}
}
