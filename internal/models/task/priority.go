package task

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

type Priority int

const (
	PriorityLow    Priority = 1
	PriorityMedium Priority = 2
	PriorityHigh   Priority = 3
)

var priorityLabels = map[string]Priority{
	"baja":   PriorityLow,
	"media":  PriorityMedium,
	"alta":   PriorityHigh,
	"low":    PriorityLow,
	"medium": PriorityMedium,
	"high":   PriorityHigh,
}

func (p Priority) Valid() bool {
	return p >= PriorityLow && p <= PriorityHigh
}

// ParsePriority принимает метку (baja/media/alta, low/medium/high) или число 1..3.
// Всё остальное, включая nil, даёт PriorityMedium.
func ParsePriority(v any) Priority {
	var p Priority

	switch val := v.(type) {
	case Priority:
		p = val
	case int:
		p = Priority(val)
	case int64:
		p = Priority(val)
	case float64:
		if val == math.Trunc(val) {
			p = Priority(int(val))
		}
	case json.Number:
		if n, err := val.Int64(); err == nil {
			p = Priority(n)
		}
	case string:
		s := strings.ToLower(strings.TrimSpace(val))
		if label, ok := priorityLabels[s]; ok {
			return label
		}
		if n, err := strconv.Atoi(s); err == nil {
			p = Priority(n)
		}
	}

	if !p.Valid() {
		return PriorityMedium
	}
	return p
}
