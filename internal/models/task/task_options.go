package task

// TaskOption изменение одного поля задачи.
// Конструкторы возвращают nil, если применять нечего.
type TaskOption func(*Task)

func WithName(name string) TaskOption {
	return func(task *Task) {
		task.Name = name
	}
}

func WithDescription(description string) TaskOption {
	return func(task *Task) {
		task.Description = description
	}
}

func WithAssignedDate(date string) TaskOption {
	if date == "" {
		return nil
	}
	return func(task *Task) {
		task.AssignedDate = date
	}
}

func WithAssignedTime(clock string) TaskOption {
	if clock == "" {
		return nil
	}
	return func(task *Task) {
		task.AssignedTime = clock
	}
}

// WithDueDate nil очищает срок.
func WithDueDate(date *string) TaskOption {
	return func(task *Task) {
		task.DueDate = cloneString(date)
	}
}

func WithDueTime(clock *string) TaskOption {
	return func(task *Task) {
		task.DueTime = cloneString(clock)
	}
}

func WithCompleted(completed bool) TaskOption {
	return func(task *Task) {
		task.Completed = completed
	}
}

func WithPriority(priority Priority) TaskOption {
	if !priority.Valid() {
		return nil
	}
	return func(task *Task) {
		task.Priority = priority
	}
}

// Apply применяет опции по порядку, nil пропускаются.
func (t *Task) Apply(opts ...TaskOption) {
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
