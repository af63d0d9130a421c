package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// MaxNameLen — верхняя граница длины названия задачи
const MaxNameLen = 200

type Task struct {
	ID        uuid.UUID `json:"id"`
	Owner     string    `json:"owner"`
	Name      string    `json:"name"`
	Priority  Priority  `json:"priority"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TaskFilter struct {
	Status   *Status
	Priority *Priority
}

// NormalizeOwner приводит email к каноническому виду ключа раздела
func NormalizeOwner(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ParsePriority распознает приоритет; при неизвестном значении ok == false
func ParsePriority(s string) (Priority, bool) {
	switch Priority(strings.ToLower(strings.TrimSpace(s))) {
	case PriorityLow:
		return PriorityLow, true
	case PriorityMedium:
		return PriorityMedium, true
	case PriorityHigh:
		return PriorityHigh, true
	}
	return "", false
}

// ParseStatus распознает статус; "not completed" считается pending
func ParseStatus(s string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "completed":
		return StatusCompleted, true
	case "pending", "not completed":
		return StatusPending, true
	}
	return "", false
}
