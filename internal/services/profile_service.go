package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"fitness-portal/internal/collection"
	"fitness-portal/internal/dto"
	"fitness-portal/internal/events"
	apperrors "fitness-portal/pkg/errors"
	"fitness-portal/pkg/filestorage"
	"fitness-portal/pkg/utils"
)

const MaxAvatarSize = 2 << 20

var avatarExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true}

type ProfileServiceInterface interface {
	UpdateProfile(ctx context.Context, sessionID string, payload dto.UpdateProfileDTO) (*dto.SessionDTO, error)
	UploadAvatar(ctx context.Context, sessionID string, file io.Reader, fileName string, size int64) (*dto.SessionDTO, error)
}

type ProfileService struct {
	api       collection.API
	sessions  SessionServiceInterface
	storage   filestorage.FileStorageInterface
	validate  collection.Validator
	publicURL string
	bus       Publisher
	logger    *zap.Logger
}

func NewProfileService(
	api collection.API,
	sessions SessionServiceInterface,
	storage filestorage.FileStorageInterface,
	validate collection.Validator,
	publicBaseURL string,
	bus Publisher,
	logger *zap.Logger,
) *ProfileService {
	return &ProfileService{
		api:       api,
		sessions:  sessions,
		storage:   storage,
		validate:  validate,
		publicURL: strings.TrimRight(publicBaseURL, "/"),
		bus:       bus,
		logger:    logger,
	}
}

// isLocalAccount - операторская учетка без записи на бэкенде.
func isLocalAccount(s *dto.SessionDTO) bool {
	return strings.HasPrefix(s.UserID, "operator:")
}

func accountPath(userID string) string {
	return "/UserAccount/" + url.PathEscape(userID)
}

// UpdateProfile сначала сохраняет профиль на сервере, потом обновляет сессию.
func (s *ProfileService) UpdateProfile(ctx context.Context, sessionID string, payload dto.UpdateProfileDTO) (*dto.SessionDTO, error) {
	payload.Normalize()
	if err := s.validate.Validate(&payload); err != nil {
		return nil, err
	}
	if payload.PhoneNumber != "" {
		payload.PhoneNumber = utils.NormalizePhoneNumber(payload.PhoneNumber)
	}

	current, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !isLocalAccount(current) {
		if err := s.api.Put(ctx, accountPath(current.UserID), payload, nil); err != nil {
			s.logger.Error("Не удалось обновить профиль", zap.String("userID", current.UserID), zap.Error(err))
			return nil, err
		}
	}

	updated, err := s.sessions.Update(ctx, sessionID, func(sess *dto.SessionDTO) {
		sess.FullName = payload.FullName
		sess.Email = payload.Email
		sess.PhoneNumber = payload.PhoneNumber
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, updated, "update", "Cập nhật hồ sơ")
	return updated, nil
}

// UploadAvatar сохраняет файл, передает его URL серверу и только после
// успешного ответа меняет аватар в сессии. При ошибке файл удаляется.
func (s *ProfileService) UploadAvatar(ctx context.Context, sessionID string, file io.Reader, fileName string, size int64) (*dto.SessionDTO, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	if !avatarExtensions[ext] {
		return nil, apperrors.NewHttpError(http.StatusBadRequest, "Chỉ chấp nhận ảnh JPG, PNG, WEBP hoặc GIF", apperrors.ErrBadRequest, nil)
	}
	if size > MaxAvatarSize {
		return nil, apperrors.NewHttpError(http.StatusBadRequest, "Ảnh đại diện không được vượt quá 2 MB", apperrors.ErrBadRequest, nil)
	}

	current, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	stored, err := s.storage.Save(io.LimitReader(file, MaxAvatarSize+1), fileName, "avatars")
	if err != nil {
		return nil, fmt.Errorf("не удалось сохранить аватар: %w", err)
	}
	avatarURL := s.publicURL + stored

	if !isLocalAccount(current) {
		if err := s.api.Put(ctx, accountPath(current.UserID)+"/avatar", dto.AvatarDTO{AvatarURL: avatarURL}, nil); err != nil {
			s.logger.Error("Сервер не принял аватар", zap.String("userID", current.UserID), zap.Error(err))
			if delErr := s.storage.Delete(stored); delErr != nil {
				s.logger.Warn("Не удалось удалить файл аватара", zap.String("file", stored), zap.Error(delErr))
			}
			return nil, err
		}
	}

	previous := current.AvatarURL
	updated, err := s.sessions.Update(ctx, sessionID, func(sess *dto.SessionDTO) {
		sess.AvatarURL = avatarURL
	})
	if err != nil {
		return nil, err
	}

	// Storage сам игнорирует внешние URL.
	if old := strings.TrimPrefix(previous, s.publicURL); old != "" {
		if err := s.storage.Delete(old); err != nil {
			s.logger.Warn("Не удалось удалить старый аватар", zap.String("file", old), zap.Error(err))
		}
	}

	s.publish(ctx, updated, "update", "Cập nhật ảnh đại diện")
	return updated, nil
}

func (s *ProfileService) publish(ctx context.Context, session *dto.SessionDTO, action, summary string) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, events.ResourceChangedEvent{
		ActorID:   session.UserID,
		ActorName: session.DisplayName(),
		ActorRole: session.RoleName,
		Resource:  "profile",
		Action:    action,
		RecordID:  session.UserID,
		Summary:   summary,
		At:        time.Now(),
	})
}
