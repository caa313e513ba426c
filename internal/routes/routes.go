package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"fitness-portal/internal/chat"
	"fitness-portal/internal/controllers"
	"fitness-portal/internal/integrations/gymapi"
	"fitness-portal/internal/repositories"
	"fitness-portal/internal/services"
	"fitness-portal/internal/web"
	"fitness-portal/pkg/config"
	"fitness-portal/pkg/eventbus"
	"fitness-portal/pkg/filestorage"
	"fitness-portal/pkg/middleware"
	"fitness-portal/pkg/service"
	appwebsocket "fitness-portal/pkg/websocket"
)

type Loggers struct {
	Main     *zap.Logger
	Auth     *zap.Logger
	Resource *zap.Logger
	Chat     *zap.Logger
}

// Deps - то, что main создает один раз на процесс.
type Deps struct {
	Config   *config.Config
	API      *gymapi.Client
	Cache    repositories.CacheRepositoryInterface
	Audit    services.AuditServiceInterface
	Bus      *eventbus.Bus
	Hub      *appwebsocket.Hub
	Chats    *chat.Registry
	JWT      service.JWTService
	Sessions services.SessionServiceInterface
	Storage  filestorage.FileStorageInterface
	Loggers  *Loggers
}

func InitRouter(e *echo.Echo, d Deps) {
	d.Loggers.Main.Info("InitRouter: Начало создания маршрутов")

	authMW := middleware.NewAuthMiddleware(d.JWT, d.Sessions, d.Loggers.Auth)
	validate := e.Validator
	resources := services.NewResourceRegistry(d.API, validate, d.Bus, d.Loggers.Resource)

	authService := services.NewAuthService(d.API, d.Sessions, d.JWT, d.Cache, d.Bus, d.Loggers.Auth, &d.Config.Auth)
	profileService := services.NewProfileService(d.API, d.Sessions, d.Storage, validate, d.Config.Server.PublicBaseURL, d.Bus, d.Loggers.Main)

	authCtrl := controllers.NewAuthController(authService, d.Sessions, d.JWT, d.Config.Server.CookieSecure, d.Loggers.Auth)
	profileCtrl := controllers.NewProfileController(profileService, d.Sessions, d.Loggers.Main)
	resourceCtrl := controllers.NewResourceController(resources, d.Sessions, d.Loggers.Resource)
	auditCtrl := controllers.NewAuditController(d.Audit, d.Sessions, d.Loggers.Main)
	chatCtrl := controllers.NewChatController(d.Hub, d.Chats, d.Loggers.Chat)

	packages, _ := resources.Get("packages")
	pagesCtrl := controllers.NewPagesController(packages, d.Sessions, d.Loggers.Main)

	e.GET("/healthz", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.StaticFS("/static", web.Static())
	e.Static("/uploads", d.Config.Server.UploadDir)

	app := e.Group("", authMW.LoadSession)
	api := app.Group("/api")

	runPagesRouter(app, pagesCtrl)
	runAuthRouter(app, api, authCtrl, authMW, d.Loggers.Auth)
	runProfileRouter(app, api, profileCtrl, authMW)
	runChatRouter(app, api, chatCtrl)
	runAuditRouter(app, api, auditCtrl, authMW)
	runResourceRouter(app, api, resourceCtrl, authMW)

	d.Loggers.Main.Info("INIT_ROUTER: Создание маршрутов завершено")
}
