// Файл: main.go

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"fitness-portal/internal/chat"
	"fitness-portal/internal/controllers"
	"fitness-portal/internal/integrations/gymapi"
	"fitness-portal/internal/listeners"
	"fitness-portal/internal/migrations"
	"fitness-portal/internal/repositories"
	"fitness-portal/internal/routes"
	"fitness-portal/internal/services"
	"fitness-portal/internal/web"
	"fitness-portal/pkg/config"
	"fitness-portal/pkg/customvalidator"
	"fitness-portal/pkg/database/postgresql"
	apperrors "fitness-portal/pkg/errors"
	"fitness-portal/pkg/eventbus"
	"fitness-portal/pkg/filestorage"
	applogger "fitness-portal/pkg/logger"
	"fitness-portal/pkg/middleware"
	"fitness-portal/pkg/service"
	"fitness-portal/pkg/utils"
	appwebsocket "fitness-portal/pkg/websocket"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Конфиг и логгер
	cfg := config.New()
	logger := applogger.NewLogger(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	e := echo.New()
	e.HideBanner = true

	// 2. Middleware
	e.Use(echomw.RecoverWithConfig(echomw.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("!!! ОБНАРУЖЕНА ПАНИКА (PANIC) !!!",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "Đã xảy ra lỗi, vui lòng thử lại", err, nil)
				_ = utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))
	e.Use(middleware.InjectLogger(logger))
	e.Use(middleware.RequestLogger(logger.Named("HTTP")))
	e.Use(middleware.CSRF([]byte(cfg.Server.CSRFKey), cfg.Server.CookieSecure, logger.Named("CSRF")))
	e.HTTPErrorHandler = controllers.HTTPErrorHandler(logger)

	// 3. Валидатор и шаблоны
	v := validator.New()
	if err := customvalidator.RegisterCustomValidations(v); err != nil {
		logger.Fatal("Ошибка регистрации кастомных правил валидации", zap.Error(err))
	}
	e.Validator = utils.NewValidator(v)

	renderer, err := web.NewRenderer()
	if err != nil {
		logger.Fatal("Ошибка разбора шаблонов", zap.Error(err))
	}
	e.Renderer = renderer

	// 4. Хранилища: Redis для сессий (без него - память процесса), Postgres для журнала
	cacheRepo := connectCache(ctx, cfg, logger)
	auditService, pool := connectAudit(ctx, cfg, logger)
	if pool != nil {
		defer pool.Close()
	}

	fileStorage, err := filestorage.NewLocalFileStorage(cfg.Server.UploadDir)
	if err != nil {
		logger.Fatal("не удалось создать файловое хранилище", zap.Error(err))
	}

	// 5. События, WebSocket и чат
	bus := eventbus.New(logger.Named("EventBus"))
	hub := appwebsocket.NewHub(logger.Named("WebSocket"))
	go hub.Run(ctx)

	chats := chat.NewRegistry(cfg.Chat.ReplyDelay, cfg.Chat.IdleTimeout, func(key string, msg chat.Message) {
		if err := hub.SendMessageToUser(key, controllers.ChatMessage(msg), appwebsocket.TypeChatMessage); err != nil {
			logger.Warn("Не удалось доставить ответ чата", zap.String("key", key), zap.Error(err))
		}
	}, logger.Named("Chat"))

	listeners.NewSessionListener(hub, chats, logger.Named("SessionListener")).Register(bus)
	listeners.NewAuditListener(auditService, logger.Named("AuditListener")).Register(bus)

	// 6. Сервисы и маршруты
	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL)
	sessions := services.NewSessionService(cacheRepo, bus, cfg.JWT.AccessTokenTTL, logger.Named("Session"))
	apiClient := gymapi.New(cfg.API.BaseURL, cfg.API.Timeout, logger.Named("GymAPI"))

	routes.InitRouter(e, routes.Deps{
		Config:   cfg,
		API:      apiClient,
		Cache:    cacheRepo,
		Audit:    auditService,
		Bus:      bus,
		Hub:      hub,
		Chats:    chats,
		JWT:      jwtSvc,
		Sessions: sessions,
		Storage:  fileStorage,
		Loggers: &routes.Loggers{
			Main:     logger,
			Auth:     logger.Named("Auth"),
			Resource: logger.Named("Resource"),
			Chat:     logger.Named("Chat"),
		},
	})

	// 7. Запуск и плавная остановка
	go func() {
		logger.Info("🚀 Сервер запущен", zap.String("port", cfg.Server.Port), zap.String("api", cfg.API.BaseURL))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Ошибка запуска сервера", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Получен сигнал остановки")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ошибка остановки HTTP-сервера", zap.Error(err))
	}
	if err := bus.Wait(shutdownCtx); err != nil {
		logger.Warn("Не все обработчики событий завершились", zap.Error(err))
	}
	logger.Info("Сервер остановлен")
}

func connectCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) repositories.CacheRepositoryInterface {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if _, err := redisClient.Ping(pingCtx).Result(); err != nil {
		logger.Warn("Redis недоступен, сессии хранятся в памяти процесса",
			zap.String("address", cfg.Redis.Address), zap.Error(err))
		_ = redisClient.Close()
		return repositories.NewMemoryCacheRepository()
	}
	logger.Info("✅ Подключено к Redis", zap.String("address", cfg.Redis.Address))
	return repositories.NewRedisCacheRepository(redisClient)
}

// connectAudit: без DATABASE_URL журнал действий выключен.
func connectAudit(ctx context.Context, cfg *config.Config, logger *zap.Logger) (services.AuditServiceInterface, *pgxpool.Pool) {
	if cfg.Postgres.DSN == "" {
		logger.Info("DATABASE_URL не задан, журнал действий выключен")
		return services.NoopAuditService{}, nil
	}
	pool, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN, logger)
	if err != nil {
		logger.Fatal("не удалось подключиться к PostgreSQL", zap.Error(err))
	}
	if err := migrations.Up(ctx, pool); err != nil {
		logger.Fatal("не удалось применить миграции", zap.Error(err))
	}
	repo := repositories.NewAuditRepository(pool)
	return services.NewAuditService(repo, logger.Named("Audit")), pool
}
