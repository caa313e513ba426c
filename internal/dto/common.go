package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Row - строка таблицы ресурса: идентификатор и отформатированные ячейки.
type Row interface {
	RowID() string
	Cells() []string
}

// Column - колонка таблицы фиксированной ширины.
type Column struct {
	Key   string
	Title string
	Width string
}

// Option - вариант выбора в select.
type Option struct {
	Value string
	Label string
}

// Field - поле формы добавления/редактирования. Name совпадает с json-тегом формы.
type Field struct {
	Name     string
	Label    string
	Type     string // text | number | date | time | email | tel | password | checkbox | select | textarea
	Required bool
	Options  []Option
}

// Matches - есть ли q (без учета регистра) в какой-либо ячейке строки.
func Matches(row Row, q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	for _, cell := range row.Cells() {
		if strings.Contains(strings.ToLower(cell), q) {
			return true
		}
	}
	return false
}

// ID - идентификатор записи: сервер присылает число или строку (uuid).
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id должен быть числом или строкой: %s", data)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON отдает числовые id числом, остальные - строкой.
func (id ID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id ID) String() string { return string(id) }

// Date - календарная дата, в JSON "2006-01-02".
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02T15:04:05", dateLayout}

func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{t}, nil
		}
	}
	return Date{}, fmt.Errorf("не удалось разобрать дату %q", s)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(dateLayout))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// record читает запись сервера, у которой одно и то же поле может
// приходить под разными именами. Отсутствующее поле или null дает значение
// по умолчанию, а поле не того типа - ошибку (первая ошибка сохраняется).
type record struct {
	fields map[string]json.RawMessage
	err    error
}

func newRecord(raw json.RawMessage) *record {
	r := &record{}
	if err := json.Unmarshal(raw, &r.fields); err != nil {
		r.err = fmt.Errorf("запись должна быть объектом: %w", err)
	}
	return r
}

func (r *record) Err() error { return r.err }

func (r *record) lookup(keys []string) (string, json.RawMessage, bool) {
	for _, key := range keys {
		value, ok := r.fields[key]
		if !ok {
			continue
		}
		if bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			continue
		}
		return key, value, true
	}
	return "", nil, false
}

func (r *record) decode(keys []string, dst interface{}) bool {
	if r.err != nil {
		return false
	}
	key, value, ok := r.lookup(keys)
	if !ok {
		return false
	}
	if err := json.Unmarshal(value, dst); err != nil {
		r.err = fmt.Errorf("поле %q: %w", key, err)
		return false
	}
	return true
}

func (r *record) ID(keys ...string) ID {
	var id ID
	r.decode(keys, &id)
	return id
}

func (r *record) String(keys ...string) string {
	var s string
	r.decode(keys, &s)
	return s
}

func (r *record) Float(keys ...string) float64 {
	var f float64
	r.decode(keys, &f)
	return f
}

func (r *record) Int(keys ...string) int {
	var n int
	r.decode(keys, &n)
	return n
}

func (r *record) Bool(keys ...string) bool {
	var b bool
	r.decode(keys, &b)
	return b
}

// BoolDefault - как Bool, но для отсутствующего поля возвращает def.
func (r *record) BoolDefault(def bool, keys ...string) bool {
	var b bool
	if !r.decode(keys, &b) {
		return def
	}
	return b
}

func (r *record) Date(keys ...string) Date {
	var d Date
	r.decode(keys, &d)
	return d
}
