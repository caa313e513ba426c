package controllers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"fitness-portal/internal/dto"
	"fitness-portal/internal/navigation"
	"fitness-portal/internal/services"
	apperrors "fitness-portal/pkg/errors"
	"fitness-portal/pkg/middleware"
	"fitness-portal/pkg/service"
	"fitness-portal/pkg/utils"
)

type AuthController struct {
	authService  services.AuthServiceInterface
	jwtSvc       service.JWTService
	cookieSecure bool
	responder
}

func NewAuthController(
	authService services.AuthServiceInterface,
	sessions services.SessionServiceInterface,
	jwtSvc service.JWTService,
	cookieSecure bool,
	logger *zap.Logger,
) *AuthController {
	return &AuthController{
		authService:  authService,
		jwtSvc:       jwtSvc,
		cookieSecure: cookieSecure,
		responder:    responder{sessions: sessions, logger: logger},
	}
}

type LoginPage struct {
	Username string
	Next     string
	Errors   map[string]string
}

func (ctrl *AuthController) LoginForm(c echo.Context) error {
	if session := dto.SessionFromContext(c.Request().Context()); session != nil {
		return c.Redirect(http.StatusSeeOther, landing(session.RoleName))
	}
	return ctrl.render(c, http.StatusOK, "login", "Đăng nhập", LoginPage{Next: safeNext(c.QueryParam("next"))})
}

func (ctrl *AuthController) Login(c echo.Context) error {
	var payload dto.LoginDTO
	if err := c.Bind(&payload); err != nil {
		ctrl.logger.Error("Login: ошибка привязки данных", zap.Error(err))
		return ctrl.fail(c, badRequest("Dữ liệu đăng nhập không hợp lệ", err), "/login")
	}
	payload.Normalize()
	next := safeNext(c.FormValue("next"))

	if err := c.Validate(&payload); err != nil {
		if vErr, ok := isValidation(err); ok && !utils.WantsJSON(c) {
			return ctrl.render(c, http.StatusUnprocessableEntity, "login", "Đăng nhập",
				LoginPage{Username: payload.Username, Next: next, Errors: vErr.Fields})
		}
		return ctrl.fail(c, err, "/login")
	}

	session, token, err := ctrl.authService.Login(c.Request().Context(), payload)
	if err != nil {
		ctrl.logger.Warn("Login: вход не выполнен", zap.String("username", payload.Username), zap.Error(err))
		if utils.WantsJSON(c) {
			return utils.ErrorResponse(c, err, ctrl.logger)
		}
		utils.SetFlash(c, "error", utils.UserMessage(err))
		return c.Redirect(http.StatusSeeOther, "/login?next="+url.QueryEscape(next))
	}

	middleware.SetSessionCookie(c, token, int(ctrl.jwtSvc.GetAccessTokenTTL().Seconds()), ctrl.cookieSecure)

	if utils.WantsJSON(c) {
		return utils.SuccessResponse(c, dto.LoginResponseDTO{Token: token, User: session.Profile()}, "Đăng nhập thành công", http.StatusOK)
	}
	target := next
	if target == "" {
		target = landing(session.RoleName)
	}
	return ctrl.done(c, "Xin chào, "+session.DisplayName()+"!", target)
}

func (ctrl *AuthController) Logout(c echo.Context) error {
	if session := dto.SessionFromContext(c.Request().Context()); session != nil {
		if err := ctrl.authService.Logout(c.Request().Context(), session.ID); err != nil {
			ctrl.logger.Error("Logout: не удалось удалить сессию", zap.String("sid", session.ID), zap.Error(err))
		}
	}
	middleware.ClearSessionCookie(c)

	if utils.WantsJSON(c) {
		return utils.SuccessResponse(c, nil, "Đã đăng xuất", http.StatusOK)
	}
	return ctrl.done(c, "Đã đăng xuất", "/")
}

// Me - текущий пользователь; гость получает 401.
func (ctrl *AuthController) Me(c echo.Context) error {
	session := dto.SessionFromContext(c.Request().Context())
	if session == nil {
		return utils.ErrorResponse(c, apperrors.ErrUnauthorized, ctrl.logger)
	}
	return utils.SuccessResponse(c, session.Profile(), "Thành công", http.StatusOK)
}

// landing - куда вести пользователя после входа.
func landing(role string) string {
	if prefix := navigation.Prefix(role); prefix != "" {
		if resources := navigation.ResourcesFor(role); len(resources) > 0 {
			return prefix + "/" + resources[0]
		}
	}
	return "/packages"
}

// safeNext принимает только локальные пути, чтобы не было открытого редиректа.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	return next
}
