package dto

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var viPrinter = message.NewPrinter(language.Vietnamese)

// FormatVND: 800000 -> "800.000 ₫".
func FormatVND(amount float64) string {
	return viPrinter.Sprintf("%d", int64(math.Round(amount))) + " ₫"
}

func FormatNumber(n int) string {
	return viPrinter.Sprintf("%d", n)
}

func FormatDays(days int) string {
	return fmt.Sprintf("%d ngày", days)
}

func FormatSessions(sessions int) string {
	return fmt.Sprintf("%d buổi", sessions)
}

func FormatPercent(p float64) string {
	if p == math.Trunc(p) {
		return fmt.Sprintf("%d%%", int(p))
	}
	return fmt.Sprintf("%.1f%%", p)
}

func FormatBool(b bool) string {
	if b {
		return "Có"
	}
	return "Không"
}

func FormatActive(b bool) string {
	if b {
		return "Hoạt động"
	}
	return "Ngừng"
}

// FormatDate: дата в виде "02/01/2006", пустая дата - "—".
func FormatDate(d Date) string {
	if d.IsZero() {
		return "—"
	}
	return d.Format("02/01/2006")
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
