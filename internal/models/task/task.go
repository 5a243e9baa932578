package task

import (
	"time"

	"tareasSync/internal/naming"
)

type Task struct {
	ID           int64      `json:"id" db:"id"`
	Name         string     `json:"nombre" db:"nombre"`
	Description  string     `json:"descripcion" db:"descripcion"`
	AssignedDate string     `json:"fechaAsignacion" db:"fecha_asignacion"`
	AssignedTime string     `json:"horaAsignacion" db:"hora_asignacion"`
	DueDate      *string    `json:"fechaEntrega" db:"fecha_entrega"`
	DueTime      *string    `json:"horaEntrega" db:"hora_entrega"`
	Completed    bool       `json:"finalizada" db:"finalizada"`
	Priority     Priority   `json:"prioridad" db:"prioridad"`
	OwnerID      int64      `json:"usuarioId" db:"usuario_id"`
	PendingSync  bool       `json:"pendingSync" db:"pending_sync"`
	UpdatedAt    int64      `json:"updatedAt" db:"updated_at"`
	Deleted      bool       `json:"deleted" db:"deleted"`
	DeletedAt    *time.Time `json:"deletedAt" db:"deleted_at"`
}

// Fields таблица соответствия wire-ключей колонкам tareas.
// Порядок совпадает с порядком колонок в SELECT.
var Fields = naming.NewFieldMap(
	naming.Field{Wire: "id", Storage: "id"},
	naming.Field{Wire: "nombre", Storage: "nombre"},
	naming.Field{Wire: "descripcion", Storage: "descripcion"},
	naming.Field{Wire: "fechaAsignacion", Storage: "fecha_asignacion"},
	naming.Field{Wire: "horaAsignacion", Storage: "hora_asignacion"},
	naming.Field{Wire: "fechaEntrega", Storage: "fecha_entrega"},
	naming.Field{Wire: "horaEntrega", Storage: "hora_entrega"},
	naming.Field{Wire: "finalizada", Storage: "finalizada"},
	naming.Field{Wire: "prioridad", Storage: "prioridad"},
	naming.Field{Wire: "usuarioId", Storage: "usuario_id"},
	naming.Field{Wire: "pendingSync", Storage: "pending_sync"},
	naming.Field{Wire: "updatedAt", Storage: "updated_at"},
	naming.Field{Wire: "deleted", Storage: "deleted"},
	naming.Field{Wire: "deletedAt", Storage: "deleted_at"},
)

// Clone глубокая копия, хранилища отдают наружу только копии.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	if t.DueDate != nil {
		v := *t.DueDate
		c.DueDate = &v
	}
	if t.DueTime != nil {
		v := *t.DueTime
		c.DueTime = &v
	}
	if t.DeletedAt != nil {
		v := *t.DeletedAt
		c.DeletedAt = &v
	}
	return &c
}
