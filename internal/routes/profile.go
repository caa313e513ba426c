package routes

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"fitness-portal/internal/controllers"
	"fitness-portal/pkg/middleware"
)

// Аватар до 2 МБ, плюс запас на multipart.
const avatarBodyLimit = "3M"

func runProfileRouter(app, api *echo.Group, profileCtrl *controllers.ProfileController, authMW *middleware.AuthMiddleware) {
	profile := app.Group("/profile", authMW.RequireRole())
	{
		profile.GET("", profileCtrl.Show)
		profile.POST("", profileCtrl.Update)
		profile.POST("/avatar", profileCtrl.UploadAvatar, echomw.BodyLimit(avatarBodyLimit))
	}

	me := api.Group("/me", authMW.RequireRole())
	{
		me.PUT("", profileCtrl.Update)
		me.POST("/avatar", profileCtrl.UploadAvatar, echomw.BodyLimit(avatarBodyLimit))
	}
}
