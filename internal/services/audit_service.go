package services

import (
	"context"
	"strings"
	"time"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"

	"fitness-portal/internal/dto"
	"fitness-portal/internal/entities"
	"fitness-portal/internal/events"
	"fitness-portal/internal/repositories"
	"fitness-portal/pkg/types"
)

type AuditServiceInterface interface {
	Enabled() bool
	Record(ctx context.Context, event events.ResourceChangedEvent) error
	List(ctx context.Context, filter types.Filter, resource string) ([]dto.AuditEntryDTO, types.Pagination, error)
}

type AuditService struct {
	repo   repositories.AuditRepositoryInterface
	logger *zap.Logger
}

func NewAuditService(repo repositories.AuditRepositoryInterface, logger *zap.Logger) *AuditService {
	return &AuditService{repo: repo, logger: logger}
}

func (s *AuditService) Enabled() bool { return true }

func (s *AuditService) Record(ctx context.Context, event events.ResourceChangedEvent) error {
	at := event.At
	if at.IsZero() {
		at = time.Now()
	}
	id, err := s.repo.Create(ctx, entities.AuditEntry{
		ActorID:   optional(event.ActorID),
		ActorName: optional(event.ActorName),
		ActorRole: optional(event.ActorRole),
		Resource:  event.Resource,
		Action:    event.Action,
		RecordID:  optional(event.RecordID),
		Summary:   optional(event.Summary),
		CreatedAt: at,
	})
	if err != nil {
		return err
	}
	s.logger.Debug("Запись журнала создана", zap.Int64("id", id), zap.String("resource", event.Resource), zap.String("action", event.Action))
	return nil
}

func (s *AuditService) List(ctx context.Context, filter types.Filter, resource string) ([]dto.AuditEntryDTO, types.Pagination, error) {
	entries, total, err := s.repo.GetAll(ctx, filter, resource)
	if err != nil {
		return nil, types.Pagination{}, err
	}
	out := make([]dto.AuditEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.AuditEntryDTO{
			ID:        e.ID,
			ActorName: e.ActorName.String,
			ActorRole: e.ActorRole.String,
			Resource:  e.Resource,
			Action:    e.Action,
			RecordID:  e.RecordID.String,
			Summary:   e.Summary.String,
			CreatedAt: e.CreatedAt,
		})
	}
	return out, types.NewPagination(total, filter.Page, filter.Limit), nil
}

func optional(s string) null.String {
	s = strings.TrimSpace(s)
	return null.NewString(s, s != "")
}

// NoopAuditService - журнал выключен (DATABASE_URL не задан).
type NoopAuditService struct{}

func (NoopAuditService) Enabled() bool { return false }

func (NoopAuditService) Record(context.Context, events.ResourceChangedEvent) error { return nil }

func (NoopAuditService) List(_ context.Context, filter types.Filter, _ string) ([]dto.AuditEntryDTO, types.Pagination, error) {
	return []dto.AuditEntryDTO{}, types.NewPagination(0, filter.Page, filter.Limit), nil
}
