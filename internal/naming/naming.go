// Package naming переводит ключи записей между wire-конвенцией (camelCase)
// и конвенцией хранилища (snake_case).
package naming

import (
	"strings"
	"unicode"
)

// CamelToSnake: fechaAsignacion -> fecha_asignacion
func CamelToSnake(key string) string {
	var b strings.Builder
	b.Grow(len(key) + 4)

	for _, r := range key {
		if unicode.IsUpper(r) {
			b.WriteByte('_')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SnakeToCamel: fecha_asignacion -> fechaAsignacion
// Подчёркивание перед буквой схлопывается, буква становится заглавной.
func SnakeToCamel(key string) string {
	runes := []rune(key)
	var b strings.Builder
	b.Grow(len(key))

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '_' && i+1 < len(runes) && unicode.IsLetter(runes[i+1]) {
			b.WriteRune(unicode.ToUpper(runes[i+1]))
			i++
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ToStorage переводит ключи объекта (и всех вложенных объектов) в snake_case.
// Скаляры и nil возвращаются как есть, массивы обходятся поэлементно.
func ToStorage(v any) any {
	return convert(v, CamelToSnake)
}

// ToWire обратное преобразование к ToStorage.
func ToWire(v any) any {
	return convert(v, SnakeToCamel)
}

func convert(v any, rename func(string) string) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[rename(k)] = convert(inner, rename)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = convert(inner, rename)
		}
		return out
	case []map[string]any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = convert(inner, rename)
		}
		return out
	default:
		return v
	}
}
