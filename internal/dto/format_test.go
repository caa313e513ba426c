package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatVND(t *testing.T) {
	assert.Equal(t, "800.000 ₫", FormatVND(800000))
	assert.Equal(t, "1.250.000 ₫", FormatVND(1249999.6))
	assert.Equal(t, "0 ₫", FormatVND(0))
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "30 ngày", FormatDays(30))
	assert.Equal(t, "10 buổi", FormatSessions(10))
	assert.Equal(t, "Có", FormatBool(true))
	assert.Equal(t, "12.5%", FormatPercent(12.5))
	assert.Equal(t, "—", FormatDate(Date{}))
	assert.Equal(t, "05/01/2026", FormatDate(Date{time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)}))
}
