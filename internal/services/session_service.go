package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fitness-portal/internal/dto"
	"fitness-portal/internal/events"
	"fitness-portal/internal/repositories"
	apperrors "fitness-portal/pkg/errors"
	"fitness-portal/pkg/eventbus"
)

// Publisher - куда сервисы публикуют события.
type Publisher interface {
	Publish(ctx context.Context, event eventbus.Event)
}

// SessionServiceInterface - явное хранилище текущего пользователя. Изменения
// идут только через Update, подписчики узнают о них из события session.updated.
type SessionServiceInterface interface {
	Create(ctx context.Context, session dto.SessionDTO) (*dto.SessionDTO, error)
	Get(ctx context.Context, sessionID string) (*dto.SessionDTO, error)
	Update(ctx context.Context, sessionID string, mutate func(*dto.SessionDTO)) (*dto.SessionDTO, error)
	Delete(ctx context.Context, sessionID string) error
}

type SessionService struct {
	cacheRepo repositories.CacheRepositoryInterface
	bus       Publisher
	ttl       time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

func NewSessionService(cacheRepo repositories.CacheRepositoryInterface, bus Publisher, ttl time.Duration, logger *zap.Logger) *SessionService {
	return &SessionService{
		cacheRepo: cacheRepo,
		bus:       bus,
		ttl:       ttl,
		now:       time.Now,
		logger:    logger,
	}
}

func sessionKey(id string) string { return "user:" + id }

func (s *SessionService) Create(ctx context.Context, session dto.SessionDTO) (*dto.SessionDTO, error) {
	session.ID = uuid.NewString()
	session.CreatedAt = s.now()
	if err := s.save(ctx, &session); err != nil {
		return nil, err
	}
	s.logger.Info("Сессия создана", zap.String("sid", session.ID), zap.String("userID", session.UserID), zap.String("role", session.RoleName))
	return &session, nil
}

func (s *SessionService) Get(ctx context.Context, sessionID string) (*dto.SessionDTO, error) {
	raw, err := s.cacheRepo.Get(ctx, sessionKey(sessionID))
	if err != nil {
		if errors.Is(err, repositories.ErrCacheMiss) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("не удалось прочитать сессию: %w", err)
	}
	var session dto.SessionDTO
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, fmt.Errorf("сессия %s повреждена: %w", sessionID, err)
	}
	return &session, nil
}

// Update применяет mutate к сохраненной сессии и публикует session.updated.
func (s *SessionService) Update(ctx context.Context, sessionID string, mutate func(*dto.SessionDTO)) (*dto.SessionDTO, error) {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	mutate(session)
	session.ID = sessionID

	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	if s.bus != nil {
		s.bus.Publish(ctx, events.SessionUpdatedEvent{Session: *session})
	}
	return session, nil
}

func (s *SessionService) Delete(ctx context.Context, sessionID string) error {
	session, err := s.Get(ctx, sessionID)
	if err != nil && !errors.Is(err, apperrors.ErrSessionNotFound) {
		return err
	}
	if err := s.cacheRepo.Del(ctx, sessionKey(sessionID)); err != nil {
		return fmt.Errorf("не удалось удалить сессию: %w", err)
	}
	if session != nil && s.bus != nil {
		s.bus.Publish(ctx, events.SessionEndedEvent{SessionID: sessionID, UserID: session.UserID})
	}
	return nil
}

func (s *SessionService) save(ctx context.Context, session *dto.SessionDTO) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	if err := s.cacheRepo.Set(ctx, sessionKey(session.ID), payload, s.ttl); err != nil {
		return fmt.Errorf("не удалось сохранить сессию: %w", err)
	}
	return nil
}
