package collection

import (
	"bytes"
	"encoding/json"
)

// wrapperKeys - ключи, под которыми бэкенд заворачивает массив записей.
var wrapperKeys = []string{"items", "data", "list", "results", "value", "body", "$values"}

// Unwrap достает записи из ответа на GET коллекции:
//   - голый массив -> его элементы;
//   - объект с массивом под одним из wrapperKeys -> этот массив
//     (вложенность на один уровень, например {"body":{"list":[...]}});
//   - любая другая форма -> nil.
func Unwrap(raw json.RawMessage) []json.RawMessage {
	return unwrap(raw, 2)
}

func unwrap(raw json.RawMessage, depth int) []json.RawMessage {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}

	switch raw[0] {
	case '[':
		var records []json.RawMessage
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil
		}
		return records
	case '{':
		if depth == 0 {
			return nil
		}
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil
		}
		for _, key := range wrapperKeys {
			value, ok := obj[key]
			if !ok {
				continue
			}
			if records := unwrap(value, depth-1); records != nil {
				return records
			}
		}
	}
	return nil
}

// unwrapOne достает одну запись из ответа на POST/PUT: сам объект с id
// либо объект под одним из wrapperKeys. nil - если записи в ответе нет.
func unwrapOne(raw json.RawMessage) json.RawMessage {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil
	}
	if _, ok := obj["id"]; ok {
		return raw
	}
	for _, key := range wrapperKeys {
		if inner, ok := obj[key]; ok {
			if one := unwrapOne(inner); one != nil {
				return one
			}
		}
	}
	return nil
}
