package repositories

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"fitness-portal/internal/entities"
	"fitness-portal/pkg/types"
)

const (
	auditTable  = "portal_audit"
	auditFields = "id, actor_id, actor_name, actor_role, resource, action, record_id, summary, created_at"
)

// likeEscaper экранирует шаблонные символы LIKE; обратный слэш - escape по умолчанию в PostgreSQL.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type AuditRepositoryInterface interface {
	Create(ctx context.Context, entry entities.AuditEntry) (int64, error)
	GetAll(ctx context.Context, filter types.Filter, resource string) ([]entities.AuditEntry, uint64, error)
}

type auditRepository struct {
	storage querier
}

func NewAuditRepository(storage *pgxpool.Pool) AuditRepositoryInterface {
	return &auditRepository{storage: storage}
}

func (r *auditRepository) Create(ctx context.Context, e entities.AuditEntry) (int64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Insert(auditTable).
		Columns("actor_id", "actor_name", "actor_role", "resource", "action", "record_id", "summary", "created_at").
		Values(e.ActorID, e.ActorName, e.ActorRole, e.Resource, e.Action, e.RecordID, e.Summary, e.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки запроса: %w", err)
	}

	var id int64
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// GetAll - журнал от новых к старым с поиском по имени, сводке и id записи.
func (r *auditRepository) GetAll(ctx context.Context, filter types.Filter, resource string) ([]entities.AuditEntry, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	where := sq.And{}
	if filter.Search != "" {
		like := "%" + likeEscaper.Replace(filter.Search) + "%"
		where = append(where, sq.Or{
			sq.ILike{"actor_name": like},
			sq.ILike{"summary": like},
			sq.ILike{"record_id": like},
		})
	}
	if resource != "" {
		where = append(where, sq.Eq{"resource": resource})
	}

	countQuery, countArgs, err := psql.Select("COUNT(*)").From(auditTable).Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки запроса: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.AuditEntry{}, 0, nil
	}

	query, args, err := psql.Select(auditFields).From(auditTable).Where(where).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки запроса: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	entries := make([]entities.AuditEntry, 0)
	for rows.Next() {
		var e entities.AuditEntry
		if err := rows.Scan(&e.ID, &e.ActorID, &e.ActorName, &e.ActorRole, &e.Resource, &e.Action, &e.RecordID, &e.Summary, &e.CreatedAt); err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}
