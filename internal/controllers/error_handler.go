package controllers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"fitness-portal/internal/web"
	apperrors "fitness-portal/pkg/errors"
	"fitness-portal/pkg/utils"
)

type ErrorPage struct {
	Code    int
	Message string
}

// HTTPErrorHandler - ошибки, которые хендлеры вернули наверх: JSON-конверт
// для API, страница "error" для браузера.
func HTTPErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, message := http.StatusInternalServerError, utils.UserMessage(err)
		var echoErr *echo.HTTPError
		if errors.As(err, &echoErr) {
			code = echoErr.Code
			message = echoMessage(code)
		} else {
			code = apperrors.StatusCode(err)
		}

		if utils.WantsJSON(c) {
			if echoErr != nil {
				err = apperrors.NewHttpError(code, message, err, nil)
			}
			if respErr := utils.ErrorResponse(c, err, logger); respErr != nil {
				logger.Error("Не удалось отправить ответ с ошибкой", zap.Error(respErr))
			}
			return
		}

		if code >= http.StatusInternalServerError {
			logger.Error("Ошибка обработки запроса", zap.String("uri", c.Request().RequestURI), zap.Error(err))
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		if renderErr := c.Render(code, "error", web.NewView(c, message, ErrorPage{Code: code, Message: message})); renderErr != nil {
			logger.Error("Не удалось отрисовать страницу ошибки", zap.Error(renderErr))
			_ = c.String(code, message)
		}
	}
}

func echoMessage(code int) string {
	switch code {
	case http.StatusNotFound:
		return "Không tìm thấy trang"
	case http.StatusMethodNotAllowed:
		return "Phương thức không được hỗ trợ"
	case http.StatusRequestEntityTooLarge:
		return "Tệp tải lên quá lớn"
	case http.StatusTooManyRequests:
		return "Bạn đã thử quá nhiều lần, vui lòng thử lại sau"
	case http.StatusForbidden:
		return "Bạn không có quyền thực hiện thao tác này"
	case http.StatusUnauthorized:
		return "Phiên đăng nhập đã hết hạn, vui lòng đăng nhập lại"
	}
	if code >= http.StatusInternalServerError {
		return "Đã xảy ra lỗi, vui lòng thử lại"
	}
	return http.StatusText(code)
}
