package routes

import (
	"github.com/labstack/echo/v4"

	"fitness-portal/internal/controllers"
	"fitness-portal/internal/navigation"
	"fitness-portal/pkg/middleware"
)

// runResourceRouter: у каждой роли сотрудников свой префикс
// (/admin, /manager, /staff) с одинаковым набором страниц ресурса.
// Что именно роль видит и может менять, решает navigation.Allowed.
func runResourceRouter(app, api *echo.Group, resourceCtrl *controllers.ResourceController, authMW *middleware.AuthMiddleware) {
	for _, role := range navigation.BackOfficeRoles() {
		section := app.Group(navigation.Prefix(role), authMW.RequireRole(role))
		{
			section.GET("/:resource", resourceCtrl.List)
			section.POST("/:resource", resourceCtrl.Create)
			section.GET("/:resource/new", resourceCtrl.New)
			section.GET("/:resource/export.xlsx", resourceCtrl.Export)
			section.GET("/:resource/:id/edit", resourceCtrl.Edit)
			section.POST("/:resource/:id", resourceCtrl.Update)
			section.GET("/:resource/:id/delete", resourceCtrl.ConfirmDelete)
			section.POST("/:resource/:id/delete", resourceCtrl.Delete)
			section.POST("/:resource/:id/status", resourceCtrl.ChangeStatus)
		}
	}

	resources := api.Group("", authMW.RequireRole(navigation.BackOfficeRoles()...))
	{
		resources.GET("/:resource", resourceCtrl.APIList)
		resources.POST("/:resource", resourceCtrl.APICreate)
		resources.GET("/:resource/:id", resourceCtrl.APIGet)
		resources.PUT("/:resource/:id", resourceCtrl.APIUpdate)
		resources.DELETE("/:resource/:id", resourceCtrl.APIDelete)
		resources.PUT("/:resource/:id/status", resourceCtrl.APIChangeStatus)
	}
}
