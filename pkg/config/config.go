// Файл: pkg/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type AuthConfig struct {
	MaxLoginAttempts int
	LockoutDuration  time.Duration
	// OperatorAccounts - локальные учётки "username:bcrypt-hash:role" через запятую.
	OperatorAccounts []OperatorAccount
}

type OperatorAccount struct {
	Username     string
	PasswordHash string
	Role         string
}

type JWTConfig struct {
	SecretKey      string
	AccessTokenTTL time.Duration
}

type ServerConfig struct {
	Port          string
	PublicBaseURL string
	UploadDir     string
	CSRFKey       string
	CookieSecure  bool
}

type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type PostgresConfig struct {
	DSN string
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type ChatConfig struct {
	ReplyDelay  time.Duration
	IdleTimeout time.Duration
}

type Config struct {
	Server   ServerConfig
	API      APIConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Auth     AuthConfig
	Chat     ChatConfig
	LogLevel string
}

func New() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Предупреждение: .env файл не найден или не удалось его загрузить.")
	}

	return &Config{
		Server: ServerConfig{
			Port:          getEnv("SERVER_PORT", "8080"),
			PublicBaseURL: strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
			UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
			CSRFKey:       getEnv("CSRF_KEY", "b7c1d9e0f3a24c5e8a6d4f2b1c0e9a87"),
			CookieSecure:  getEnvBool("COOKIE_SECURE", false),
		},
		API: APIConfig{
			BaseURL: strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:5000/api"), "/"),
			Timeout: getEnvDuration("API_TIMEOUT", 15*time.Second),
		},
		Postgres: PostgresConfig{
			DSN: getEnv("DATABASE_URL", ""),
		},
		Redis: RedisConfig{
			Address:  getEnv("REDIS_ADDRESS", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			SecretKey:      getEnv("JWT_SECRET_KEY", "9A4D2AD385B2BAA8DC78F558B548F"),
			AccessTokenTTL: getEnvDuration("JWT_ACCESS_TTL", time.Hour*24),
		},
		Auth: AuthConfig{
			MaxLoginAttempts: getEnvInt("AUTH_MAX_LOGIN_ATTEMPTS", 5),
			LockoutDuration:  getEnvDuration("AUTH_LOCKOUT_DURATION", time.Minute*15),
			OperatorAccounts: ParseOperatorAccounts(getEnv("OPERATOR_ACCOUNTS", "")),
		},
		Chat: ChatConfig{
			ReplyDelay:  getEnvDuration("CHAT_REPLY_DELAY", time.Second),
			IdleTimeout: getEnvDuration("CHAT_IDLE_TIMEOUT", time.Hour),
		},
		LogLevel: getEnv("LOG_LEVEL", "debug"),
	}
}

// ParseOperatorAccounts разбирает строку вида "admin:$2a$10$...:Admin,desk:$2a$...:Staff".
// bcrypt-хеш сам содержит "$", но не ":", поэтому делим по двоеточию.
func ParseOperatorAccounts(raw string) []OperatorAccount {
	var accounts []OperatorAccount
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, ":")
		if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
			log.Printf("Предупреждение: пропущена некорректная запись OPERATOR_ACCOUNTS: %q", parts[0])
			continue
		}
		accounts = append(accounts, OperatorAccount{
			Username:     parts[0],
			PasswordHash: parts[1],
			Role:         parts[2],
		})
	}
	return accounts
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}
