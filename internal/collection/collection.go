// Package collection реализует "удаленную коллекцию": список записей одного
// ресурса REST API, который экран загружает, показывает таблицей и меняет
// через формы. Локальный список меняется только после ответа сервера.
package collection

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	apperrors "fitness-portal/pkg/errors"
)

// Row - строка коллекции. Идентификатор непрозрачен и уникален в коллекции.
type Row interface {
	RowID() string
}

// Decoder превращает одну запись сервера в строку, сводя альтернативные имена полей.
type Decoder[T Row] func(raw json.RawMessage) (T, error)

// API - то, что коллекции нужно от клиента бэкенда.
type API interface {
	Get(ctx context.Context, path string, query url.Values, out interface{}) error
	Post(ctx context.Context, path string, body, out interface{}) error
	Put(ctx context.Context, path string, body, out interface{}) error
	Delete(ctx context.Context, path string, out interface{}) error
}

// Validator совместим с echo.Validator.
type Validator interface {
	Validate(i interface{}) error
}

type Config[T Row] struct {
	Name     string
	Endpoint string
	// Query - фиксированные параметры GET, например role=Trainer.
	Query  url.Values
	Decode Decoder[T]
	// Flight - общая группа загрузок для коллекций, живущих один запрос.
	// Загрузки с одинаковым FlightKey идут одним GET.
	Flight    *singleflight.Group
	FlightKey string
}

// DecodeError - запись сервера не подходит под схему ресурса.
type DecodeError struct {
	Resource string
	Index    int
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: запись #%d не соответствует схеме: %v", e.Resource, e.Index, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) UserMessage() string {
	return "Dữ liệu máy chủ trả về không hợp lệ"
}

func (e *DecodeError) HTTPStatus() int { return http.StatusBadGateway }

type Collection[T Row] struct {
	cfg      Config[T]
	api      API
	validate Validator
	logger   *zap.Logger
	now      func() time.Time

	mu      sync.RWMutex
	rows    []T
	loading bool

	group *singleflight.Group
}

func New[T Row](cfg Config[T], api API, validate Validator, logger *zap.Logger) *Collection[T] {
	group := cfg.Flight
	if group == nil {
		group = &singleflight.Group{}
	}
	return &Collection[T]{
		cfg:      cfg,
		api:      api,
		validate: validate,
		logger:   logger.With(zap.String("resource", cfg.Name)),
		now:      time.Now,
		group:    group,
	}
}

func (c *Collection[T]) Name() string { return c.cfg.Name }

func (c *Collection[T]) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

func (c *Collection[T]) setLoading(v bool) {
	c.mu.Lock()
	c.loading = v
	c.mu.Unlock()
}

// Load делает один GET и заменяет локальный список. Параллельные вызовы
// разделяют один запрос. При ошибке список остается прежним.
func (c *Collection[T]) Load(ctx context.Context) error {
	key := "load"
	fetchCtx := ctx
	if c.cfg.Flight != nil {
		key = c.cfg.FlightKey
		// общий GET не должен обрываться из-за отмены одного из запросов
		fetchCtx = context.WithoutCancel(ctx)
	}

	c.setLoading(true)
	defer c.setLoading(false)

	result, err, shared := c.group.Do(key, func() (interface{}, error) {
		var raw json.RawMessage
		if err := c.api.Get(fetchCtx, c.cfg.Endpoint, c.cfg.Query, &raw); err != nil {
			return nil, err
		}

		records := Unwrap(raw)
		if records == nil && len(raw) > 0 {
			c.logger.Warn("Неожиданная форма ответа, список пуст", zap.Int("bytes", len(raw)))
		}

		rows := make([]T, 0, len(records))
		for i, record := range records {
			row, err := c.cfg.Decode(record)
			if err != nil {
				return nil, &DecodeError{Resource: c.cfg.Name, Index: i, Err: err}
			}
			rows = append(rows, row)
		}
		return rows, nil
	})
	if err != nil {
		c.logger.Error("Не удалось загрузить коллекцию", zap.Error(err))
		return err
	}

	rows := result.([]T)
	if shared {
		rows = append([]T(nil), rows...)
	}
	c.mu.Lock()
	c.rows = rows
	c.mu.Unlock()

	c.logger.Debug("Коллекция загружена", zap.Int("count", len(rows)))
	return nil
}

// Add валидирует форму, делает POST и после успеха добавляет запись в начало списка.
// Невалидная форма не порождает ни одного запроса.
func (c *Collection[T]) Add(ctx context.Context, form interface{}) (T, error) {
	var zero T
	if err := c.validate.Validate(form); err != nil {
		return zero, err
	}

	var raw json.RawMessage
	if err := c.api.Post(ctx, c.cfg.Endpoint, form, &raw); err != nil {
		c.logger.Error("Не удалось создать запись", zap.Error(err))
		return zero, err
	}

	id := strconv.FormatInt(c.now().UnixMilli(), 10)
	row, err := c.rowFromResponse(raw, id, form)
	if err != nil {
		// запись на сервере уже создана
		c.logger.Warn("Ответ на создание не разобран, строка собрана из формы", zap.Error(err))
		if row, err = c.rowFromForm(id, form); err != nil {
			return zero, err
		}
	}

	c.mu.Lock()
	c.rows = append([]T{row}, c.rows...)
	c.mu.Unlock()

	c.logger.Info("Запись создана", zap.String("id", row.RowID()))
	return row, nil
}

// Edit валидирует форму, делает PUT по id и заменяет строку на месте.
func (c *Collection[T]) Edit(ctx context.Context, id string, form interface{}) (T, error) {
	var zero T
	if err := c.validate.Validate(form); err != nil {
		return zero, err
	}
	return c.put(ctx, id, c.itemPath(id), form)
}

// Action - PUT на подресурс строки (например смена статуса), строка заменяется ответом.
func (c *Collection[T]) Action(ctx context.Context, id, action string, body interface{}) (T, error) {
	return c.put(ctx, id, c.itemPath(id)+"/"+action, body)
}

func (c *Collection[T]) put(ctx context.Context, id, path string, body interface{}) (T, error) {
	var zero T
	var raw json.RawMessage
	if err := c.api.Put(ctx, path, body, &raw); err != nil {
		c.logger.Error("Не удалось обновить запись", zap.String("id", id), zap.Error(err))
		return zero, err
	}

	row, err := c.rowFromResponse(raw, id, c.merge(id, body))
	if err != nil {
		return zero, err
	}

	c.mu.Lock()
	for i := range c.rows {
		if c.rows[i].RowID() == id {
			c.rows[i] = row
			break
		}
	}
	c.mu.Unlock()

	c.logger.Info("Запись обновлена", zap.String("id", id))
	return row, nil
}

// Delete требует подтверждения. Строка удаляется из списка только после
// того, как сервер подтвердил удаление.
func (c *Collection[T]) Delete(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return apperrors.ErrNotConfirmed
	}
	if err := c.api.Delete(ctx, c.itemPath(id), nil); err != nil {
		c.logger.Error("Не удалось удалить запись", zap.String("id", id), zap.Error(err))
		return err
	}

	c.mu.Lock()
	for i := range c.rows {
		if c.rows[i].RowID() == id {
			c.rows = append(c.rows[:i:i], c.rows[i+1:]...)
			break
		}
	}
	c.mu.Unlock()

	c.logger.Info("Запись удалена", zap.String("id", id))
	return nil
}

// Rows возвращает копию локального списка.
func (c *Collection[T]) Rows() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]T(nil), c.rows...)
}

func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.rows)
}

func (c *Collection[T]) Find(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, row := range c.rows {
		if row.RowID() == id {
			return row, true
		}
	}
	var zero T
	return zero, false
}

func (c *Collection[T]) itemPath(id string) string {
	return strings.TrimRight(c.cfg.Endpoint, "/") + "/" + url.PathEscape(id)
}

// rowFromResponse берет запись из ответа сервера, а если сервер вернул
// пустое тело - собирает строку из отправленной формы.
func (c *Collection[T]) rowFromResponse(raw json.RawMessage, id string, form interface{}) (T, error) {
	var zero T
	if record := unwrapOne(raw); record != nil {
		row, err := c.cfg.Decode(record)
		if err != nil {
			return zero, &DecodeError{Resource: c.cfg.Name, Err: err}
		}
		return row, nil
	}

	return c.rowFromForm(id, form)
}

func (c *Collection[T]) rowFromForm(id string, form interface{}) (T, error) {
	var zero T
	echoed, err := echoRecord(id, form)
	if err != nil {
		return zero, err
	}
	row, err := c.cfg.Decode(echoed)
	if err != nil {
		return zero, &DecodeError{Resource: c.cfg.Name, Err: err}
	}
	return row, nil
}

// merge накладывает тело запроса на текущую строку, чтобы при пустом ответе
// частичные обновления (смена статуса) не теряли остальные поля.
func (c *Collection[T]) merge(id string, body interface{}) interface{} {
	current, ok := c.Find(id)
	if !ok {
		return body
	}
	base, err := toMap(current)
	if err != nil {
		return body
	}
	patch, err := toMap(body)
	if err != nil {
		return body
	}
	for k, v := range patch {
		base[k] = v
	}
	return base
}

func echoRecord(id string, form interface{}) (json.RawMessage, error) {
	fields, err := toMap(form)
	if err != nil {
		return nil, fmt.Errorf("не удалось собрать запись из формы: %w", err)
	}
	if _, ok := fields["id"]; !ok || id != "" {
		fields["id"] = id
	}
	return json.Marshal(fields)
}

func toMap(v interface{}) (map[string]interface{}, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	fields := map[string]interface{}{}
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}
