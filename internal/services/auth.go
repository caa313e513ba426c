// Файл: internal/services/auth.go
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"fitness-portal/internal/collection"
	"fitness-portal/internal/dto"
	"fitness-portal/internal/events"
	"fitness-portal/internal/integrations/gymapi"
	"fitness-portal/internal/repositories"
	"fitness-portal/pkg/config"
	apperrors "fitness-portal/pkg/errors"
	"fitness-portal/pkg/service"
	"fitness-portal/pkg/utils"
)

const loginPath = "/UserAccount/login"

type AuthServiceInterface interface {
	// Login возвращает созданную сессию и подписанный токен для cookie.
	Login(ctx context.Context, payload dto.LoginDTO) (*dto.SessionDTO, string, error)
	Logout(ctx context.Context, sessionID string) error
}

type AuthService struct {
	api        collection.API
	sessions   SessionServiceInterface
	jwtService service.JWTService
	cacheRepo  repositories.CacheRepositoryInterface
	bus        Publisher
	logger     *zap.Logger
	cfg        *config.AuthConfig
}

func NewAuthService(
	api collection.API,
	sessions SessionServiceInterface,
	jwtService service.JWTService,
	cacheRepo repositories.CacheRepositoryInterface,
	bus Publisher,
	logger *zap.Logger,
	cfg *config.AuthConfig,
) *AuthService {
	return &AuthService{
		api:        api,
		sessions:   sessions,
		jwtService: jwtService,
		cacheRepo:  cacheRepo,
		bus:        bus,
		logger:     logger,
		cfg:        cfg,
	}
}

func attemptsKey(username string) string {
	return "login_attempts:" + strings.ToLower(username)
}

func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.SessionDTO, string, error) {
	logger := s.logger.With(zap.String("username", payload.Username))

	// 1. Блокировка по количеству неудачных попыток
	key := attemptsKey(payload.Username)
	attemptsStr, _ := s.cacheRepo.Get(ctx, key)
	if attempts, _ := strconv.Atoi(attemptsStr); s.cfg.MaxLoginAttempts > 0 && attempts >= s.cfg.MaxLoginAttempts {
		logger.Warn("Слишком много попыток входа")
		return nil, "", apperrors.NewHttpError(
			http.StatusTooManyRequests,
			fmt.Sprintf("Bạn đã nhập sai quá nhiều lần. Vui lòng thử lại sau %d phút.", int(s.cfg.LockoutDuration.Minutes())),
			apperrors.ErrTooManyAttempts,
			nil,
		)
	}

	// 2. Локальная учетка оператора или вход через бэкенд
	var (
		session dto.SessionDTO
		err     error
	)
	if account, ok := s.operator(payload.Username); ok {
		session, err = s.loginOperator(account, payload.Password)
	} else {
		session, err = s.loginRemote(ctx, payload)
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			s.registerFailure(ctx, key)
			logger.Warn("Неверные учетные данные")
		}
		return nil, "", err
	}

	// 3. Сброс счетчика и создание сессии
	if err := s.cacheRepo.Del(ctx, key); err != nil {
		logger.Warn("Не удалось сбросить счетчик попыток", zap.Error(err))
	}

	created, err := s.sessions.Create(ctx, session)
	if err != nil {
		return nil, "", err
	}
	token, err := s.jwtService.GenerateToken(created.ID, created.RoleName)
	if err != nil {
		return nil, "", fmt.Errorf("не удалось подписать токен: %w", err)
	}

	s.publish(ctx, created, "login")
	logger.Info("Пользователь вошел", zap.String("role", created.RoleName))
	return created, token, nil
}

func (s *AuthService) operator(username string) (config.OperatorAccount, bool) {
	for _, account := range s.cfg.OperatorAccounts {
		if strings.EqualFold(account.Username, username) {
			return account, true
		}
	}
	return config.OperatorAccount{}, false
}

func (s *AuthService) loginOperator(account config.OperatorAccount, password string) (dto.SessionDTO, error) {
	if err := utils.ComparePasswords(account.PasswordHash, password); err != nil {
		return dto.SessionDTO{}, apperrors.ErrInvalidCredentials
	}
	return dto.SessionDTO{
		UserID:   "operator:" + account.Username,
		Username: account.Username,
		FullName: account.Username,
		RoleName: account.Role,
	}, nil
}

func (s *AuthService) loginRemote(ctx context.Context, payload dto.LoginDTO) (dto.SessionDTO, error) {
	var resp dto.LoginResponseDTO
	err := s.api.Post(ctx, loginPath, map[string]string{
		"username": payload.Username,
		"password": payload.Password,
	}, &resp)
	if err != nil {
		var apiErr *gymapi.APIError
		if errors.As(err, &apiErr) && (apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusBadRequest) {
			return dto.SessionDTO{}, apperrors.ErrInvalidCredentials
		}
		return dto.SessionDTO{}, err
	}
	if resp.Token == "" {
		return dto.SessionDTO{}, apperrors.NewHttpError(http.StatusBadGateway, "Máy chủ không trả về phiên đăng nhập", errors.New("пустой token в ответе логина"), nil)
	}

	role := resp.User.RoleName
	if role == "" {
		role = dto.RoleMember
	}
	return dto.SessionDTO{
		UserID:      resp.User.ID.String(),
		Username:    payload.Username,
		FullName:    resp.User.FullName,
		Email:       resp.User.Email,
		PhoneNumber: resp.User.PhoneNumber,
		RoleName:    role,
		AvatarURL:   resp.User.AvatarURL,
		Token:       resp.Token,
	}, nil
}

func (s *AuthService) registerFailure(ctx context.Context, key string) {
	attempts, err := s.cacheRepo.Incr(ctx, key)
	if err != nil {
		s.logger.Warn("Не удалось увеличить счетчик попыток", zap.Error(err))
		return
	}
	if attempts == 1 {
		if _, err := s.cacheRepo.Expire(ctx, key, s.cfg.LockoutDuration); err != nil {
			s.logger.Warn("Не удалось задать TTL счетчика попыток", zap.Error(err))
		}
	}
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	session, _ := s.sessions.Get(ctx, sessionID)
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	if session != nil {
		s.publish(ctx, session, "logout")
	}
	return nil
}

func (s *AuthService) publish(ctx context.Context, session *dto.SessionDTO, action string) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, events.ResourceChangedEvent{
		ActorID:   session.UserID,
		ActorName: session.DisplayName(),
		ActorRole: session.RoleName,
		Resource:  "session",
		Action:    action,
		RecordID:  session.ID,
		At:        time.Now(),
	})
}
