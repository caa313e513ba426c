package routes

import (
	"github.com/labstack/echo/v4"

	"fitness-portal/internal/controllers"
)

// Чат доступен и гостям: ключ разговора берется из cookie.
func runChatRouter(app, api *echo.Group, chatCtrl *controllers.ChatController) {
	app.GET("/chat/ws", chatCtrl.ServeWs)

	chatGroup := api.Group("/chat")
	{
		chatGroup.GET("/messages", chatCtrl.Messages)
		chatGroup.POST("/messages", chatCtrl.Send)
	}
}
