package gymapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	apperrors "fitness-portal/pkg/errors"
)

// APIError - ответ бэкенда со статусом вне 2xx.
type APIError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API %s %s вернул %d: %s", e.Method, e.Path, e.Status, e.Message)
}

// UserMessage - текст для пользователя: message/title из тела либо текст статуса.
func (e *APIError) UserMessage() string {
	if e.Status == http.StatusUnauthorized && e.Message == http.StatusText(http.StatusUnauthorized) {
		return "Phiên đăng nhập đã hết hạn, vui lòng đăng nhập lại"
	}
	return e.Message
}

// Is позволяет писать errors.Is(err, apperrors.ErrUnauthorized) для 401 и т.п.
func (e *APIError) Is(target error) bool {
	switch target {
	case apperrors.ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case apperrors.ErrForbidden:
		return e.Status == http.StatusForbidden
	case apperrors.ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

func newAPIError(method, path string, status int, body []byte) *APIError {
	return &APIError{
		Method:  method,
		Path:    path,
		Status:  status,
		Message: extractMessage(status, body),
	}
}

func extractMessage(status int, body []byte) string {
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, key := range []string{"message", "Message", "title", "Title"} {
			if s, ok := payload[key].(string); ok && strings.TrimSpace(s) != "" {
				return s
			}
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP %d", status)
}

func (e *APIError) HTTPStatus() int { return e.Status }
