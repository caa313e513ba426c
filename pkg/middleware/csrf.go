package middleware

import (
	"net/http"
	"strings"

	"github.com/gorilla/csrf"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const CSRFFieldName = "csrf_token"

// CSRF защищает HTML-формы. JSON-запросы пропускаются: браузер не отправит
// application/json на чужой домен без preflight.
func CSRF(authKey []byte, secure bool, logger *zap.Logger) echo.MiddlewareFunc {
	protect := csrf.Protect(
		authKey,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.FieldName(CSRFFieldName),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.Warn("CSRF: запрос отклонен",
				zap.String("uri", r.RequestURI),
				zap.Error(csrf.FailureReason(r)),
			)
			http.Error(w, "Biểu mẫu đã hết hạn, vui lòng tải lại trang", http.StatusForbidden)
		})),
	)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
				return next(c)
			}
			if !secure {
				req = csrf.PlaintextHTTPRequest(req)
			}

			var nextErr error
			protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				c.SetRequest(r)
				nextErr = next(c)
			})).ServeHTTP(c.Response(), req)
			return nextErr
		}
	}
}
