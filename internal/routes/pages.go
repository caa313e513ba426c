package routes

import (
	"github.com/labstack/echo/v4"

	"fitness-portal/internal/controllers"
)

func runPagesRouter(app *echo.Group, pagesCtrl *controllers.PagesController) {
	app.GET("/", pagesCtrl.Home)
	app.GET("/about", pagesCtrl.About)
	app.GET("/packages", pagesCtrl.Packages)
	app.GET("/packages/:id", pagesCtrl.PackageDetail)
}
