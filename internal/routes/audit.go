package routes

import (
	"github.com/labstack/echo/v4"

	"fitness-portal/internal/controllers"
	"fitness-portal/internal/navigation"
	"fitness-portal/pkg/middleware"
)

func runAuditRouter(app, api *echo.Group, auditCtrl *controllers.AuditController, authMW *middleware.AuthMiddleware) {
	adminOnly := authMW.RequireRole(navigation.RoleAdmin)
	app.GET("/admin/audit", auditCtrl.List, adminOnly)
	api.GET("/admin/audit", auditCtrl.List, adminOnly)
}
