package intent

import (
	"regexp"
	"strings"
)

// Field — имя поля структурированного ответа модели
type Field string

const (
	FieldTaskName         Field = "Task Name"
	FieldOldTaskName      Field = "Old Task Name"
	FieldNewTaskName      Field = "New Task Name"
	FieldPriority         Field = "Priority"
	FieldCompletionStatus Field = "Completion Status"
	FieldAction           Field = "Action"
	FieldFilter           Field = "Filter"
	FieldNotes            Field = "Notes"
)

// Fields — частичная запись извлеченных полей; отсутствие поля не ошибка
type Fields map[Field]string

func (f Fields) Get(name Field) string {
	return f[name]
}

func (f Fields) Has(name Field) bool {
	_, ok := f[name]
	return ok
}

// Одна декларативная таблица вместо цепочки регулярных выражений.
// Шаблон терпим к markdown-выделению вокруг метки и значения
// (**Task Name:**, __Action__: и т.п.) и не зависит от порядка строк.
var fieldPatterns = map[Field]*regexp.Regexp{
	FieldTaskName:         fieldPattern("task name"),
	FieldOldTaskName:      fieldPattern("old task name"),
	FieldNewTaskName:      fieldPattern("new task name"),
	FieldPriority:         fieldPattern("priority"),
	FieldCompletionStatus: fieldPattern("completion status"),
	FieldAction:           fieldPattern("action"),
	FieldFilter:           fieldPattern("filter"),
	FieldNotes:            fieldPattern("notes"),
}

func fieldPattern(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?im)^[\s*_#>-]*` + regexp.QuoteMeta(label) + `[\s*_]*:[\s*_ \t]*(.+)$`)
}

// Parse извлекает известные поля из текста модели. Никогда не возвращает
// ошибку: непонятный текст дает пустой набор полей, решение об отказе
// принимают исполнители действий.
func Parse(text string) Fields {
	fields := make(Fields, len(fieldPatterns))
	for name, re := range fieldPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if v := cleanValue(m[1]); v != "" {
			fields[name] = v
		}
	}
	return fields
}

func cleanValue(s string) string {
	return strings.Trim(s, " \t\r*_")
}
