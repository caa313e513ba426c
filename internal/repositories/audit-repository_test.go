package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitness-portal/internal/entities"
	"fitness-portal/pkg/types"
)

type fakeRow struct {
	values []interface{}
}

func (r fakeRow) Scan(dest ...interface{}) error {
	for i, d := range dest {
		switch p := d.(type) {
		case *int64:
			*p = r.values[i].(int64)
		case *uint64:
			*p = r.values[i].(uint64)
		}
	}
	return nil
}

type fakeQuerier struct {
	queries [][]interface{}
	sqls    []string
	row     fakeRow
}

func (q *fakeQuerier) QueryRow(_ context.Context, sql string, args ...interface{}) pgx.Row {
	q.sqls = append(q.sqls, sql)
	q.queries = append(q.queries, args)
	return q.row
}

func (q *fakeQuerier) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (q *fakeQuerier) Query(context.Context, string, ...any) (pgx.Rows, error) {
	panic("не ожидается")
}

func TestAuditRepository_Create(t *testing.T) {
	q := &fakeQuerier{row: fakeRow{values: []interface{}{int64(42)}}}
	repo := &auditRepository{storage: q}

	at := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	id, err := repo.Create(context.Background(), entities.AuditEntry{
		ActorID:   null.StringFrom("7"),
		ActorName: null.StringFrom("Admin"),
		Resource:  "packages",
		Action:    "create",
		RecordID:  null.StringFrom("1"),
		CreatedAt: at,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 42, id)

	require.Len(t, q.sqls, 1)
	assert.Contains(t, q.sqls[0], "INSERT INTO portal_audit")
	assert.Contains(t, q.sqls[0], "RETURNING id")
	assert.Contains(t, q.sqls[0], "$8")
	assert.Equal(t, "packages", q.queries[0][3])
	assert.Equal(t, at, q.queries[0][7])
}

func TestAuditRepository_GetAllEmpty(t *testing.T) {
	q := &fakeQuerier{row: fakeRow{values: []interface{}{uint64(0)}}}
	repo := &auditRepository{storage: q}

	entries, total, err := repo.GetAll(context.Background(), types.Filter{Search: "gói", Limit: 20}, "packages")
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Zero(t, total)

	require.Len(t, q.sqls, 1)
	assert.Contains(t, q.sqls[0], "SELECT COUNT(*) FROM portal_audit")
	assert.Contains(t, q.sqls[0], "ILIKE")
	assert.Contains(t, q.queries[0], "packages")
}

func TestAuditRepository_SearchEscapesWildcards(t *testing.T) {
	q := &fakeQuerier{row: fakeRow{values: []interface{}{uint64(0)}}}
	repo := &auditRepository{storage: q}

	_, _, err := repo.GetAll(context.Background(), types.Filter{Search: `50%_off\`, Limit: 20}, "")
	require.NoError(t, err)

	require.Len(t, q.queries, 1)
	assert.Contains(t, q.queries[0], `%50\%\_off\\%`)
}
