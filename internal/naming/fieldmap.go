package naming

// Field связывает имя поля в API с колонкой в БД.
type Field struct {
	Wire    string
	Storage string
}

// FieldMap явная таблица соответствий для одной сущности.
type FieldMap struct {
	fields    []Field
	toStorage map[string]string
	toWire    map[string]string
}

func NewFieldMap(fields ...Field) *FieldMap {
	fm := &FieldMap{
		fields:    make([]Field, 0, len(fields)),
		toStorage: make(map[string]string, len(fields)),
		toWire:    make(map[string]string, len(fields)),
	}
	for _, f := range fields {
		fm.fields = append(fm.fields, f)
		fm.toStorage[f.Wire] = f.Storage
		fm.toWire[f.Storage] = f.Wire
	}
	return fm
}

// Storage возвращает колонку для wire-ключа.
func (fm *FieldMap) Storage(wire string) (string, bool) {
	col, ok := fm.toStorage[wire]
	return col, ok
}

// Wire возвращает wire-ключ для колонки.
func (fm *FieldMap) Wire(storage string) (string, bool) {
	key, ok := fm.toWire[storage]
	return key, ok
}

// Columns колонки в порядке объявления таблицы.
func (fm *FieldMap) Columns() []string {
	cols := make([]string, len(fm.fields))
	for i, f := range fm.fields {
		cols[i] = f.Storage
	}
	return cols
}

// WireKeys приводит ключи записи к wire-конвенции.
// Известные колонки переименовываются по таблице, wire-ключи остаются,
// остальные проходят через SnakeToCamel. Значения не трогаются.
func (fm *FieldMap) WireKeys(record map[string]any) map[string]any {
	out := make(map[string]any, len(record))
	for k, v := range record {
		switch {
		case fm.isWire(k):
			out[k] = v
		default:
			if key, ok := fm.toWire[k]; ok {
				out[key] = v
			} else {
				out[SnakeToCamel(k)] = v
			}
		}
	}
	return out
}

func (fm *FieldMap) isWire(key string) bool {
	_, ok := fm.toStorage[key]
	return ok
}
