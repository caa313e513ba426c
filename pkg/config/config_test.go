package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	cfg := New()

	assert.Equal(t, 5, cfg.Auth.MaxLoginAttempts)
	assert.Equal(t, 15*time.Minute, cfg.Auth.LockoutDuration)
	assert.Equal(t, 24*time.Hour, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, time.Second, cfg.Chat.ReplyDelay)
	assert.Equal(t, time.Hour, cfg.Chat.IdleTimeout)
	assert.Equal(t, "uploads", cfg.Server.UploadDir)
}

func TestNew_FromEnv(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://gym.example.com/api/")
	t.Setenv("API_TIMEOUT", "3s")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("CHAT_REPLY_DELAY", "250ms")

	cfg := New()

	assert.Equal(t, "https://gym.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.True(t, cfg.Server.CookieSecure)
	assert.Equal(t, 250*time.Millisecond, cfg.Chat.ReplyDelay)
}

func TestNew_BadNumbersFallBack(t *testing.T) {
	t.Setenv("AUTH_MAX_LOGIN_ATTEMPTS", "много")
	t.Setenv("API_TIMEOUT", "soon")

	cfg := New()

	assert.Equal(t, 5, cfg.Auth.MaxLoginAttempts)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
}

func TestParseOperatorAccounts(t *testing.T) {
	raw := "admin:$2a$10$abcdefghijklmnopqrstuv:Admin, desk:$2a$10$zyx:Staff,broken,:nohash:Staff"

	accounts := ParseOperatorAccounts(raw)

	require.Len(t, accounts, 2)
	assert.Equal(t, OperatorAccount{Username: "admin", PasswordHash: "$2a$10$abcdefghijklmnopqrstuv", Role: "Admin"}, accounts[0])
	assert.Equal(t, "desk", accounts[1].Username)
	assert.Equal(t, "Staff", accounts[1].Role)
}

func TestParseOperatorAccounts_Empty(t *testing.T) {
	assert.Empty(t, ParseOperatorAccounts(""))
}
