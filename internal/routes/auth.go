package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"fitness-portal/internal/controllers"
	"fitness-portal/pkg/middleware"
)

// Попыток входа с одного IP: 5 в минуту с запасом 5.
const (
	loginRate  = rate.Limit(5.0 / 60)
	loginBurst = 5
)

func runAuthRouter(app, api *echo.Group, authCtrl *controllers.AuthController, authMW *middleware.AuthMiddleware, logger *zap.Logger) {
	limiter := middleware.NewIPRateLimiter(loginRate, loginBurst, logger)

	app.GET("/login", authCtrl.LoginForm)
	app.POST("/login", authCtrl.Login, limiter.Middleware)
	app.POST("/logout", authCtrl.Logout)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", authCtrl.Login, limiter.Middleware)
		authGroup.POST("/logout", authCtrl.Logout, authMW.RequireRole())
	}
	api.GET("/me", authCtrl.Me, authMW.RequireRole())
}
