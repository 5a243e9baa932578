package task

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

type ConflictType string

const (
	ConflictUpdate   ConflictType = "UPDATE_CONFLICT"
	ConflictNotFound ConflictType = "NOT_FOUND"
)

// ClientTask одна запись из пакета синхронизации.
type ClientTask struct {
	Draft
	// ClientRef id задачи на сервере (idApi), nil для ещё не созданных.
	ClientRef *int64
	UpdatedAt int64
	Deleted   bool
	// Raw запись в том виде, в котором её прислал клиент.
	Raw map[string]any
}

type Conflict struct {
	TaskID        int64          `json:"taskId"`
	ClientVersion map[string]any `json:"clientVersion"`
	ServerVersion *Task          `json:"serverVersion"`
	ConflictType  ConflictType   `json:"conflictType"`
}

type SyncResult struct {
	UpdatedTasks []*Task    `json:"updatedTasks"`
	Conflicts    []Conflict `json:"conflicts"`
}

func NewSyncResult() *SyncResult {
	return &SyncResult{
		UpdatedTasks: make([]*Task, 0),
		Conflicts:    make([]Conflict, 0),
	}
}

// ParseClientTask idApi равный null, 0 или "" означает новую задачу.
func ParseClientTask(record map[string]any) (ClientTask, error) {
	ct := ClientTask{Raw: record}

	draft, err := DraftFromMap(record)
	if err != nil {
		return ct, err
	}
	ct.Draft = draft

	wire := Fields.WireKeys(record)

	ref, err := parseRef(wire["idApi"])
	if err != nil {
		return ct, err
	}
	ct.ClientRef = ref

	if ct.UpdatedAt, err = parseMillis(wire["updatedAt"]); err != nil {
		return ct, err
	}

	if deleted, ok := wire["deleted"].(bool); ok {
		ct.Deleted = deleted
	}

	return ct, nil
}

func parseRef(raw any) (*int64, error) {
	var id int64

	switch v := raw.(type) {
	case nil:
		return nil, nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return nil, &FieldError{Field: "idApi", Reason: "ожидается целое число"}
		}
		id = n
	case float64:
		if v != math.Trunc(v) {
			return nil, &FieldError{Field: "idApi", Reason: "ожидается целое число"}
		}
		id = int64(v)
	case int64:
		id = v
	case int:
		id = int64(v)
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, &FieldError{Field: "idApi", Reason: "ожидается целое число"}
		}
		id = n
	default:
		return nil, &FieldError{Field: "idApi", Reason: "ожидается целое число"}
	}

	if id == 0 {
		return nil, nil
	}
	return &id, nil
}

// parseMillis эпоха в миллисекундах, число, числовая строка или RFC 3339.
func parseMillis(raw any) (int64, error) {
	switch v := raw.(type) {
	case nil:
		return 0, nil
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, nil
		}
		if f, err := v.Float64(); err == nil {
			return int64(f), nil
		}
	case float64:
		return int64(v), nil
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case string:
		s := strings.TrimSpace(v)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, nil
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t.UnixMilli(), nil
		}
	}
	return 0, &FieldError{Field: "updatedAt", Reason: "ожидается метка времени в миллисекундах"}
}
