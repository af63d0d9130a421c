package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/smarttasker/taskmaster-api/internal/model"
)

// OwnerStats — строка админского списка пользователей
type OwnerStats struct {
	Email string `json:"email"`
	Tasks int    `json:"tasks"`
}

// TaskRepository определяет контракт хранилища задач. Все операции
// работают строго внутри раздела владельца; поиск по имени — точное
// совпадение без учета регистра, при дубликатах побеждает первая
// созданная задача.
type TaskRepository interface {
	Create(ctx context.Context, t model.Task) (model.Task, error)
	FindByName(ctx context.Context, owner, name string) (model.Task, error)
	List(ctx context.Context, owner string, filter model.TaskFilter) ([]model.Task, error)
	UpdateFields(ctx context.Context, id uuid.UUID, name *string, priority *model.Priority) (model.Task, error)
	SetStatus(ctx context.Context, id uuid.UUID, status model.Status) (model.Task, error)
	DeleteByName(ctx context.Context, owner, name string) error
	ListOwners(ctx context.Context) ([]OwnerStats, error)
}
