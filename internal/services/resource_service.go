package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"fitness-portal/internal/collection"
	"fitness-portal/internal/dto"
	"fitness-portal/internal/events"
	"fitness-portal/internal/integrations/gymapi"
	apperrors "fitness-portal/pkg/errors"
	"fitness-portal/pkg/types"
)

// Resource - описание одного экрана-ресурса: эндпоинт, декодер, таблица и форма.
type Resource[T dto.Row] struct {
	Key      string
	Title    string
	Endpoint string
	Query    url.Values
	Decode   collection.Decoder[T]
	Columns  []dto.Column
	Fields   []dto.Field
	// NewForm - пустая форма; editing=true для формы редактирования.
	NewForm  func(editing bool) interface{}
	Workflow *dto.Workflow
}

type ListResult struct {
	Rows       []dto.Row
	Pagination types.Pagination
	Search     string
}

// ResourceServiceInterface - то, что контроллер знает о ресурсе, без параметра типа.
type ResourceServiceInterface interface {
	Key() string
	Title() string
	Columns() []dto.Column
	Fields() []dto.Field
	NewForm(editing bool) interface{}
	Workflow() *dto.Workflow

	List(ctx context.Context, filter types.Filter) (*ListResult, error)
	All(ctx context.Context, search string) ([]dto.Row, error)
	Get(ctx context.Context, id string) (dto.Row, error)
	FormValues(row dto.Row) map[string]string

	Create(ctx context.Context, form interface{}) (dto.Row, error)
	Update(ctx context.Context, id string, form interface{}) (dto.Row, error)
	Delete(ctx context.Context, id string, confirmed bool) error
	ChangeStatus(ctx context.Context, id string, payload dto.StatusDTO) (dto.Row, error)
}

type normalizer interface {
	Normalize()
}

type ResourceService[T dto.Row] struct {
	res      Resource[T]
	api      collection.API
	validate collection.Validator
	bus      Publisher
	logger   *zap.Logger

	// flight склеивает одновременные GET одного ресурса с одним токеном.
	flight singleflight.Group
}

func NewResourceService[T dto.Row](res Resource[T], api collection.API, validate collection.Validator, bus Publisher, logger *zap.Logger) *ResourceService[T] {
	return &ResourceService[T]{
		res:      res,
		api:      api,
		validate: validate,
		bus:      bus,
		logger:   logger.With(zap.String("resource", res.Key)),
	}
}

func (s *ResourceService[T]) Key() string                       { return s.res.Key }
func (s *ResourceService[T]) Title() string                     { return s.res.Title }
func (s *ResourceService[T]) Columns() []dto.Column             { return s.res.Columns }
func (s *ResourceService[T]) Fields() []dto.Field               { return s.res.Fields }
func (s *ResourceService[T]) Workflow() *dto.Workflow           { return s.res.Workflow }
func (s *ResourceService[T]) NewForm(editing bool) interface{} { return s.res.NewForm(editing) }

// view - коллекция на время одного запроса. Загрузки разных запросов
// с одним токеном делят один GET через s.flight.
func (s *ResourceService[T]) view(ctx context.Context) *collection.Collection[T] {
	return collection.New(collection.Config[T]{
		Name:      s.res.Key,
		Endpoint:  s.res.Endpoint,
		Query:     s.res.Query,
		Decode:    s.res.Decode,
		Flight:    &s.flight,
		FlightKey: s.res.Endpoint + "?" + s.res.Query.Encode() + "|" + gymapi.TokenFromContext(ctx),
	}, s.api, s.validate, s.logger)
}

func (s *ResourceService[T]) load(ctx context.Context) (*collection.Collection[T], error) {
	view := s.view(ctx)
	if err := view.Load(ctx); err != nil {
		return nil, err
	}
	return view, nil
}

func (s *ResourceService[T]) filtered(ctx context.Context, search string) ([]T, error) {
	view, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	rows := view.Rows()
	if search != "" {
		rows = collection.Filter(rows, func(row T) bool { return dto.Matches(row, search) })
	}
	return rows, nil
}

func (s *ResourceService[T]) List(ctx context.Context, filter types.Filter) (*ListResult, error) {
	rows, err := s.filtered(ctx, filter.Search)
	if err != nil {
		return nil, err
	}
	page, pagination := collection.Page(rows, filter.Page, filter.Limit)
	return &ListResult{Rows: toRows(page), Pagination: pagination, Search: filter.Search}, nil
}

func (s *ResourceService[T]) All(ctx context.Context, search string) ([]dto.Row, error) {
	rows, err := s.filtered(ctx, search)
	if err != nil {
		return nil, err
	}
	return toRows(rows), nil
}

func (s *ResourceService[T]) Get(ctx context.Context, id string) (dto.Row, error) {
	view, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	row, ok := view.Find(id)
	if !ok {
		return nil, apperrors.NewHttpError(http.StatusNotFound, "Không tìm thấy bản ghi", apperrors.ErrNotFound, nil)
	}
	return row, nil
}

// FormValues - значения полей формы редактирования из строки.
func (s *ResourceService[T]) FormValues(row dto.Row) map[string]string {
	return FormValues(row)
}

// FormValues раскладывает строку или форму в "json-имя -> значение";
// булевы поля становятся "true"/"false".
func FormValues(v interface{}) map[string]string {
	values := map[string]string{}
	payload, err := json.Marshal(v)
	if err != nil {
		return values
	}
	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.UseNumber()
	var fields map[string]interface{}
	if err := decoder.Decode(&fields); err != nil {
		return values
	}
	for key, value := range fields {
		switch v := value.(type) {
		case nil:
			values[key] = ""
		case string:
			values[key] = v
		case bool:
			values[key] = strconv.FormatBool(v)
		default:
			values[key] = fmt.Sprint(v)
		}
	}
	return values
}

func (s *ResourceService[T]) Create(ctx context.Context, form interface{}) (dto.Row, error) {
	if n, ok := form.(normalizer); ok {
		n.Normalize()
	}
	row, err := s.view(ctx).Add(ctx, form)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, "create", row)
	return row, nil
}

func (s *ResourceService[T]) Update(ctx context.Context, id string, form interface{}) (dto.Row, error) {
	if n, ok := form.(normalizer); ok {
		n.Normalize()
	}
	row, err := s.view(ctx).Edit(ctx, id, form)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, "update", row)
	return row, nil
}

func (s *ResourceService[T]) Delete(ctx context.Context, id string, confirmed bool) error {
	if err := s.view(ctx).Delete(ctx, id, confirmed); err != nil {
		return err
	}
	s.publishID(ctx, "delete", id, "")
	return nil
}

// ChangeStatus проверяет переход по рабочему процессу до обращения к серверу,
// затем делает PUT <endpoint>/<id>/status.
func (s *ResourceService[T]) ChangeStatus(ctx context.Context, id string, payload dto.StatusDTO) (dto.Row, error) {
	if s.res.Workflow == nil {
		return nil, apperrors.NewHttpError(http.StatusBadRequest, "Bản ghi này không có trạng thái", apperrors.ErrBadRequest, nil)
	}
	if err := s.validate.Validate(&payload); err != nil {
		return nil, err
	}

	view, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	current, ok := view.Find(id)
	if !ok {
		return nil, apperrors.NewHttpError(http.StatusNotFound, "Không tìm thấy bản ghi", apperrors.ErrNotFound, nil)
	}
	stateful, ok := interface{}(current).(dto.Stateful)
	if !ok {
		return nil, fmt.Errorf("строка ресурса %s не имеет статуса", s.res.Key)
	}
	if !s.res.Workflow.CanTransition(stateful.State(), payload.Status) {
		return nil, &dto.TransitionError{From: stateful.State(), To: payload.Status}
	}

	row, err := view.Action(ctx, id, "status", payload)
	if err != nil {
		return nil, err
	}
	s.publishID(ctx, "status", id, stateful.State()+" → "+payload.Status)
	return row, nil
}

func (s *ResourceService[T]) publish(ctx context.Context, action string, row T) {
	summary := ""
	if cells := row.Cells(); len(cells) > 0 {
		summary = cells[0]
	}
	s.publishID(ctx, action, row.RowID(), summary)
}

func (s *ResourceService[T]) publishID(ctx context.Context, action, id, summary string) {
	if s.bus == nil {
		return
	}
	event := events.ResourceChangedEvent{
		Resource: s.res.Key,
		Action:   action,
		RecordID: id,
		Summary:  summary,
		At:       time.Now(),
	}
	if actor := dto.SessionFromContext(ctx); actor != nil {
		event.ActorID = actor.UserID
		event.ActorName = actor.DisplayName()
		event.ActorRole = actor.RoleName
	}
	s.bus.Publish(ctx, event)
}

func toRows[T dto.Row](rows []T) []dto.Row {
	out := make([]dto.Row, len(rows))
	for i, row := range rows {
		out[i] = row
	}
	return out
}
