package utils

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "fitness-portal/pkg/errors"
	"fitness-portal/pkg/types"
)

type HTTPResponse struct {
	Status  bool        `json:"status"`
	Body    interface{} `json:"body,omitempty"`
	Message string      `json:"message"`
}

type ListBody struct {
	List       interface{}      `json:"list"`
	Pagination types.Pagination `json:"pagination"`
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int) error {
	return ctx.JSON(code, &HTTPResponse{Status: true, Body: body, Message: message})
}

func SuccessList(ctx echo.Context, list interface{}, pagination types.Pagination, message string) error {
	return ctx.JSON(http.StatusOK, &HTTPResponse{
		Status:  true,
		Body:    ListBody{List: list, Pagination: pagination},
		Message: message,
	})
}

// ErrorResponse отдает JSON-ошибку. Для HttpError берем только пользовательское
// сообщение, для ValidationError - карту полей в body.
func ErrorResponse(ctx echo.Context, err error, logger *zap.Logger) error {
	code := apperrors.StatusCode(err)
	response := &HTTPResponse{Status: false, Message: UserMessage(err)}

	var vErr *apperrors.ValidationError
	if errors.As(err, &vErr) {
		response.Body = map[string]interface{}{"fields": vErr.Fields}
	}

	if code >= http.StatusInternalServerError {
		logger.Error("Ошибка обработки запроса",
			zap.String("method", ctx.Request().Method),
			zap.String("uri", ctx.Request().RequestURI),
			zap.Error(err),
		)
	} else {
		logger.Warn("Запрос отклонён",
			zap.String("uri", ctx.Request().RequestURI),
			zap.Int("code", code),
			zap.Error(err),
		)
	}
	return ctx.JSON(code, response)
}

// UserMessage - однострочное сообщение для тоста.
func UserMessage(err error) string {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		return httpErr.Message
	}
	var msgErr interface{ UserMessage() string }
	if errors.As(err, &msgErr) {
		return msgErr.UserMessage()
	}
	var vErr *apperrors.ValidationError
	if errors.As(err, &vErr) {
		return "Vui lòng kiểm tra lại thông tin đã nhập"
	}
	switch {
	case errors.Is(err, apperrors.ErrUnauthorized), errors.Is(err, apperrors.ErrSessionNotFound):
		return "Phiên đăng nhập đã hết hạn, vui lòng đăng nhập lại"
	case errors.Is(err, apperrors.ErrForbidden):
		return "Bạn không có quyền thực hiện thao tác này"
	case errors.Is(err, apperrors.ErrNotFound):
		return "Không tìm thấy dữ liệu"
	case errors.Is(err, apperrors.ErrNotConfirmed):
		return "Thao tác chưa được xác nhận"
	case errors.Is(err, apperrors.ErrTooManyAttempts):
		return "Bạn đã thử quá nhiều lần, vui lòng thử lại sau"
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return "Tên đăng nhập hoặc mật khẩu không đúng"
	}
	return "Đã xảy ra lỗi, vui lòng thử lại"
}
