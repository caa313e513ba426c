package middleware

import (
	"context"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"fitness-portal/internal/dto"
	"fitness-portal/internal/integrations/gymapi"
	apperrors "fitness-portal/pkg/errors"
	"fitness-portal/pkg/service"
	"fitness-portal/pkg/utils"
)

const SessionCookie = "portal_session"

// SessionReader - откуда middleware берет сессию по id из токена.
type SessionReader interface {
	Get(ctx context.Context, sessionID string) (*dto.SessionDTO, error)
}

type AuthMiddleware struct {
	jwtService service.JWTService
	sessions   SessionReader
	logger     *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, sessions SessionReader, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtSvc,
		sessions:   sessions,
		logger:     logger,
	}
}

// LoadSession кладет сессию (если есть) в контекст запроса вместе с
// bearer-токеном для бэкенда. Гость проходит дальше без сессии.
func (m *AuthMiddleware) LoadSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(SessionCookie)
		if err != nil || cookie.Value == "" {
			return next(c)
		}

		claims, err := m.jwtService.ValidateToken(cookie.Value)
		if err != nil {
			m.logger.Debug("AuthMiddleware: cookie сессии невалидна", zap.Error(err))
			ClearSessionCookie(c)
			return next(c)
		}

		ctx := c.Request().Context()
		session, err := m.sessions.Get(ctx, claims.SessionID)
		if err != nil {
			m.logger.Debug("AuthMiddleware: сессия не найдена", zap.String("sid", claims.SessionID), zap.Error(err))
			ClearSessionCookie(c)
			return next(c)
		}

		ctx = dto.WithSession(ctx, session)
		ctx = gymapi.WithToken(ctx, session.Token)
		c.SetRequest(c.Request().WithContext(ctx))
		c.Set("session", session)
		return next(c)
	}
}

// RequireRole пропускает только пользователей с одной из ролей. Пустой
// список ролей означает "любой вошедший пользователь".
func (m *AuthMiddleware) RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session := dto.SessionFromContext(c.Request().Context())
			if session == nil {
				if utils.WantsJSON(c) {
					return utils.ErrorResponse(c, apperrors.ErrUnauthorized, m.logger)
				}
				return RedirectToLogin(c)
			}

			if len(roles) > 0 && !hasRole(session.RoleName, roles) {
				m.logger.Warn("AuthMiddleware: доступ запрещен",
					zap.String("userID", session.UserID),
					zap.String("role", session.RoleName),
					zap.String("uri", c.Request().RequestURI),
				)
				if utils.WantsJSON(c) {
					return utils.ErrorResponse(c, apperrors.ErrForbidden, m.logger)
				}
				utils.SetFlash(c, "error", utils.UserMessage(apperrors.ErrForbidden))
				return c.Redirect(http.StatusSeeOther, "/")
			}
			return next(c)
		}
	}
}

func hasRole(role string, roles []string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// RedirectToLogin отправляет на вход, запоминая, куда пользователь шел.
func RedirectToLogin(c echo.Context) error {
	target := "/login"
	if c.Request().Method == http.MethodGet {
		target += "?next=" + url.QueryEscape(c.Request().URL.RequestURI())
	}
	return c.Redirect(http.StatusSeeOther, target)
}

func SetSessionCookie(c echo.Context, token string, ttlSeconds int, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   ttlSeconds,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
}
