package task

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// FieldError некорректное значение поля входной записи.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("поле %s: %s", e.Field, e.Reason)
}

// Opt значение поля, которое могло не прийти в запросе.
type Opt[T any] struct {
	Value T
	Set   bool
}

func Some[T any](v T) Opt[T] {
	return Opt[T]{Value: v, Set: true}
}

// Draft изменяемые клиентом поля задачи.
// Неустановленные поля сохраняют текущее значение при обновлении.
type Draft struct {
	Name         Opt[string]
	Description  Opt[string]
	AssignedDate Opt[string]
	AssignedTime Opt[string]
	DueDate      Opt[*string]
	DueTime      Opt[*string]
	Completed    Opt[bool]
	Priority     Opt[Priority]
}

// DraftFromMap разбирает запись с wire-ключами.
// Ключи хранилища допускаются, они приводятся через Fields.
func DraftFromMap(record map[string]any) (Draft, error) {
	var d Draft
	record = Fields.WireKeys(record)

	var err error
	if d.Name, err = textField(record, "nombre"); err != nil {
		return d, err
	}
	if d.Description, err = textField(record, "descripcion"); err != nil {
		return d, err
	}
	if d.AssignedDate, err = dateField(record, "fechaAsignacion"); err != nil {
		return d, err
	}
	if d.AssignedTime, err = clockField(record, "horaAsignacion"); err != nil {
		return d, err
	}
	if d.DueDate, err = nullableField(record, "fechaEntrega", NormalizeDate); err != nil {
		return d, err
	}
	if d.DueTime, err = nullableField(record, "horaEntrega", NormalizeTime); err != nil {
		return d, err
	}
	if d.Completed, err = boolField(record, "finalizada"); err != nil {
		return d, err
	}
	if raw, ok := record["prioridad"]; ok && raw != nil {
		d.Priority = Some(ParsePriority(raw))
	}

	return d, nil
}

// Options превращает установленные поля в набор TaskOption.
func (d Draft) Options() []TaskOption {
	var opts []TaskOption
	if d.Name.Set {
		opts = append(opts, WithName(d.Name.Value))
	}
	if d.Description.Set {
		opts = append(opts, WithDescription(d.Description.Value))
	}
	if d.AssignedDate.Set {
		opts = append(opts, WithAssignedDate(d.AssignedDate.Value))
	}
	if d.AssignedTime.Set {
		opts = append(opts, WithAssignedTime(d.AssignedTime.Value))
	}
	if d.DueDate.Set {
		opts = append(opts, WithDueDate(d.DueDate.Value))
	}
	if d.DueTime.Set {
		opts = append(opts, WithDueTime(d.DueTime.Value))
	}
	if d.Completed.Set {
		opts = append(opts, WithCompleted(d.Completed.Value))
	}
	if d.Priority.Set {
		opts = append(opts, WithPriority(d.Priority.Value))
	}
	return opts
}

// NormalizeDate принимает YYYY-MM-DD или RFC 3339 и возвращает YYYY-MM-DD.
func NormalizeDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t.Format(DateLayout), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format(DateLayout), nil
	}
	return "", fmt.Errorf("ожидается дата YYYY-MM-DD, получено %q", s)
}

// NormalizeTime принимает HH:MM или HH:MM:SS и возвращает HH:MM:SS.
func NormalizeTime(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{TimeLayout, "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(TimeLayout), nil
		}
	}
	return "", fmt.Errorf("ожидается время HH:MM:SS, получено %q", s)
}

func textField(record map[string]any, key string) (Opt[string], error) {
	raw, ok := record[key]
	if !ok || raw == nil {
		return Opt[string]{}, nil
	}
	s, ok := raw.(string)
	if !ok {
		return Opt[string]{}, &FieldError{Field: key, Reason: "ожидается строка"}
	}
	return Some(s), nil
}

func dateField(record map[string]any, key string) (Opt[string], error) {
	return parsedText(record, key, NormalizeDate)
}

func clockField(record map[string]any, key string) (Opt[string], error) {
	return parsedText(record, key, NormalizeTime)
}

// parsedText пустая строка и null считаются отсутствием значения.
func parsedText(record map[string]any, key string, parse func(string) (string, error)) (Opt[string], error) {
	text, err := textField(record, key)
	if err != nil || !text.Set || text.Value == "" {
		return Opt[string]{}, err
	}
	v, err := parse(text.Value)
	if err != nil {
		return Opt[string]{}, &FieldError{Field: key, Reason: err.Error()}
	}
	return Some(v), nil
}

// nullableField null или пустая строка очищают поле.
func nullableField(record map[string]any, key string, parse func(string) (string, error)) (Opt[*string], error) {
	raw, ok := record[key]
	if !ok {
		return Opt[*string]{}, nil
	}
	if raw == nil {
		return Some[*string](nil), nil
	}
	s, ok := raw.(string)
	if !ok {
		return Opt[*string]{}, &FieldError{Field: key, Reason: "ожидается строка или null"}
	}
	if strings.TrimSpace(s) == "" {
		return Some[*string](nil), nil
	}
	v, err := parse(s)
	if err != nil {
		return Opt[*string]{}, &FieldError{Field: key, Reason: err.Error()}
	}
	return Some(&v), nil
}

func boolField(record map[string]any, key string) (Opt[bool], error) {
	raw, ok := record[key]
	if !ok || raw == nil {
		return Opt[bool]{}, nil
	}
	switch v := raw.(type) {
	case bool:
		return Some(v), nil
	case json.Number:
		return Some(v.String() != "0"), nil
	case float64:
		return Some(v != 0), nil
	}
	return Opt[bool]{}, &FieldError{Field: key, Reason: "ожидается true/false"}
}
