package utils

import (
	"regexp"
)

var nonDigitRegexp = regexp.MustCompile(`\D`)

// NormalizePhoneNumber оставляет только цифры: "090-123 4567" -> "0901234567".
func NormalizePhoneNumber(phone string) string {
	return nonDigitRegexp.ReplaceAllString(phone, "")
}
