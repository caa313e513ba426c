package controllers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"fitness-portal/internal/dto"
	"fitness-portal/internal/services"
	"fitness-portal/internal/web"
	apperrors "fitness-portal/pkg/errors"
	"fitness-portal/pkg/middleware"
	"fitness-portal/pkg/utils"
)

// responder - общий для контроллеров вывод страниц и ошибок.
type responder struct {
	sessions services.SessionServiceInterface
	logger   *zap.Logger
}

func (r responder) render(c echo.Context, code int, name, title string, data interface{}) error {
	return c.Render(code, name, web.NewView(c, title, data))
}

// fail: JSON-клиент получает конверт с ошибкой, браузер - тост и редирект на back.
// 401 от бэкенда завершает сессию и ведет на вход.
func (r responder) fail(c echo.Context, err error, back string) error {
	if errors.Is(err, apperrors.ErrUnauthorized) || errors.Is(err, apperrors.ErrSessionNotFound) {
		r.dropSession(c)
		if utils.WantsJSON(c) {
			return utils.ErrorResponse(c, err, r.logger)
		}
		utils.SetFlash(c, "error", utils.UserMessage(apperrors.ErrUnauthorized))
		return middleware.RedirectToLogin(c)
	}

	if utils.WantsJSON(c) {
		return utils.ErrorResponse(c, err, r.logger)
	}

	code := apperrors.StatusCode(err)
	if code >= http.StatusInternalServerError {
		r.logger.Error("Ошибка обработки запроса", zap.String("uri", c.Request().RequestURI), zap.Error(err))
	} else {
		r.logger.Warn("Запрос отклонён", zap.String("uri", c.Request().RequestURI), zap.Int("code", code), zap.Error(err))
	}
	utils.SetFlash(c, "error", utils.UserMessage(err))
	return c.Redirect(http.StatusSeeOther, back)
}

func (r responder) done(c echo.Context, message, back string) error {
	utils.SetFlash(c, "success", message)
	return c.Redirect(http.StatusSeeOther, back)
}

func (r responder) dropSession(c echo.Context) {
	if session := dto.SessionFromContext(c.Request().Context()); session != nil && r.sessions != nil {
		if err := r.sessions.Delete(c.Request().Context(), session.ID); err != nil {
			r.logger.Warn("Не удалось удалить сессию", zap.String("sid", session.ID), zap.Error(err))
		}
	}
	middleware.ClearSessionCookie(c)
}

func isValidation(err error) (*apperrors.ValidationError, bool) {
	var vErr *apperrors.ValidationError
	ok := errors.As(err, &vErr)
	return vErr, ok
}

func badRequest(message string, err error) error {
	return apperrors.NewHttpError(http.StatusBadRequest, message, err, nil)
}
