// Файл: pkg/customvalidator/validator.go

package customvalidator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	nonDigitRegexp = regexp.MustCompile(`\D`)
	clockRegexp    = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

// RegisterCustomValidations регистрирует все наши правила валидации
// и имена полей по json-тегу, чтобы ошибки совпадали с полями формы.
func RegisterCustomValidations(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	if err := v.RegisterValidation("vnphone", isVietnamesePhone); err != nil {
		return err
	}
	if err := v.RegisterValidation("notblank", isNotBlank); err != nil {
		return err
	}
	if err := v.RegisterValidation("clock", isClock); err != nil {
		return err
	}
	if err := v.RegisterValidation("clockafter", isClockAfter); err != nil {
		return err
	}
	return nil
}

// isVietnamesePhone - ровно 10 цифр (разделители допускаются), первая цифра 0.
func isVietnamesePhone(fl validator.FieldLevel) bool {
	digits := nonDigitRegexp.ReplaceAllString(fl.Field().String(), "")
	return len(digits) == 10 && digits[0] == '0'
}

func isNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func isClock(fl validator.FieldLevel) bool {
	return clockRegexp.MatchString(fl.Field().String())
}

// isClockAfter - время поля позже времени соседнего поля (имя Go-поля в параметре).
func isClockAfter(fl validator.FieldLevel) bool {
	other := fl.Parent().FieldByName(fl.Param())
	if !other.IsValid() || other.Kind() != reflect.String {
		return false
	}
	end, err := time.Parse("15:04", fl.Field().String())
	if err != nil {
		return false
	}
	start, err := time.Parse("15:04", other.String())
	if err != nil {
		return false
	}
	return end.After(start)
}

// Translate превращает ошибки validator в карту "поле -> сообщение" для формы.
// Для ошибок другого типа возвращает nil.
func Translate(err error) map[string]string {
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return nil
	}
	fields := make(map[string]string, len(vErrs))
	for _, fe := range vErrs {
		if _, exists := fields[fe.Field()]; exists {
			continue
		}
		fields[fe.Field()] = message(fe)
	}
	return fields
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "Trường này là bắt buộc"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Tối thiểu %s ký tự", fe.Param())
		}
		return fmt.Sprintf("Giá trị tối thiểu là %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Tối đa %s ký tự", fe.Param())
		}
		return fmt.Sprintf("Giá trị tối đa là %s", fe.Param())
	case "gt":
		return fmt.Sprintf("Giá trị phải lớn hơn %s", fe.Param())
	case "lte":
		return fmt.Sprintf("Giá trị tối đa là %s", fe.Param())
	case "gte":
		return fmt.Sprintf("Giá trị phải từ %s trở lên", fe.Param())
	case "email":
		return "Email không hợp lệ"
	case "vnphone":
		return "Số điện thoại phải gồm 10 chữ số"
	case "clock":
		return "Giờ phải theo định dạng HH:MM"
	case "clockafter":
		return "Giờ kết thúc phải sau giờ bắt đầu"
	case "datetime":
		return "Ngày không hợp lệ"
	case "oneof":
		return "Giá trị không hợp lệ"
	case "url":
		return "Đường dẫn không hợp lệ"
	}
	return "Giá trị không hợp lệ"
}
