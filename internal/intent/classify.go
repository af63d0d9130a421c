package intent

import "strings"

// Action — распознанное намерение пользователя
type Action string

const (
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
	ActionList     Action = "list"
	ActionComplete Action = "complete"
	ActionUnclear  Action = "unclear"
)

// Classify определяет ровно одно действие по извлеченным полям.
// Порядок проверок фиксирован: явные объявления Action имеют приоритет,
// завершение дополнительно выводится из самого наличия Completion Status —
// модель нередко опускает строку Action в таких ответах.
// Чистая функция: без обращения к хранилищу и побочных эффектов.
func Classify(f Fields) Action {
	action := strings.ToLower(f.Get(FieldAction))

	switch {
	case strings.Contains(action, "create"):
		return ActionCreate
	case strings.Contains(action, "update"):
		return ActionUpdate
	case strings.Contains(action, "delete"):
		return ActionDelete
	case strings.Contains(action, "list"):
		return ActionList
	case strings.Contains(action, "mark completion"), f.Has(FieldCompletionStatus):
		return ActionComplete
	}
	return ActionUnclear
}
