package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/smarttasker/taskmaster-api/internal/intent"
	"github.com/smarttasker/taskmaster-api/internal/model"
	"github.com/smarttasker/taskmaster-api/internal/oracle"
	"github.com/smarttasker/taskmaster-api/internal/repo"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrMissingField  = errors.New("missing field")
	ErrAIUnavailable = errors.New("ai unavailable")
)

const systemPrompt = `You are TaskMaster AI, an advanced task management assistant. Follow these rules strictly:

1. Input Processing:
- Always extract clear task details from natural language
- Identify the exact operation (create/update/delete/list/mark completion)

2. Output Format:
**Task Name:** [Extracted task name]
**Old Task Name:** [Only for updates]
**New Task Name:** [Only if renaming]
**Priority:** [low/medium/high]
**Completion Status:** [completed/pending]
**Action:** [create/update/delete/list/mark completion]
**Filter:** [all/completed/pending/high priority/medium priority/low priority]
**Notes:** [Any additional context]

3. Behavior Guidelines:
- For ambiguous requests, ask clarifying questions in the Notes field
- Default priority is medium if not specified
- Always maintain the exact output format
- Be concise but precise in task descriptions

4. Error Handling:
- If the request is unclear, respond with:
**Action:** unclear
**Notes:** [Explanation of what's missing]`

// Result — исход одного запроса: ровно одно действие и его payload
type Result struct {
	Action  intent.Action `json:"action"`
	Message string        `json:"message"`
	Task    *model.Task   `json:"task,omitempty"`
	Tasks   []model.Task  `json:"tasks,omitempty"`
}

type Assistant struct {
	repo   repo.TaskRepository
	oracle oracle.Generator
	logger *zap.Logger
}

func NewAssistant(repo repo.TaskRepository, gen oracle.Generator, logger *zap.Logger) *Assistant {
	return &Assistant{
		repo:   repo,
		oracle: gen,
		logger: logger,
	}
}

// Process проводит запрос через весь конвейер: оракул → разбор →
// классификация → ровно один исполнитель. Повторных вызовов оракула
// внутри одного запроса нет.
func (s *Assistant) Process(ctx context.Context, prompt, email string) (Result, error) {
	prompt = strings.TrimSpace(prompt)
	owner := model.NormalizeOwner(email)
	if prompt == "" || owner == "" {
		return Result{}, fmt.Errorf("%w: prompt and email are required", ErrValidation)
	}

	text, err := s.oracle.Generate(ctx, s.buildPrompt(prompt, owner))
	if err != nil {
		s.logger.Warn("oracle call failed, using fallback", zap.Error(err))
		text = ""
	}

	fields := intent.Parse(text)
	if len(fields) == 0 {
		// Оракул промолчал или ответил прозой без полей — запасной извлекатель
		fields = intent.Parse(intent.Fallback(prompt))
	}
	if len(fields) == 0 {
		return Result{}, fmt.Errorf("%w: no interpretable response", ErrAIUnavailable)
	}

	switch action := intent.Classify(fields); action {
	case intent.ActionCreate:
		return s.createTask(ctx, owner, fields)
	case intent.ActionUpdate:
		return s.updateTask(ctx, owner, fields)
	case intent.ActionDelete:
		return s.deleteTask(ctx, owner, fields)
	case intent.ActionComplete:
		return s.completeTask(ctx, owner, fields)
	case intent.ActionList:
		return s.listTasks(ctx, owner, fields)
	default:
		return s.unclear(fields), nil
	}
}

// Owners отдает список пользователей для админской страницы
func (s *Assistant) Owners(ctx context.Context) ([]repo.OwnerStats, error) {
	return s.repo.ListOwners(ctx)
}

func (s *Assistant) buildPrompt(prompt, owner string) string {
	return fmt.Sprintf("%s\n\nCurrent timestamp: %s\n\nUser Email: %s\nUser Request: %q",
		systemPrompt, time.Now().UTC().Format(time.RFC3339), owner, prompt)
}

func (s *Assistant) createTask(ctx context.Context, owner string, f intent.Fields) (Result, error) {
	name, err := taskName(f, intent.FieldTaskName)
	if err != nil {
		return Result{}, err
	}

	priority := model.PriorityMedium
	if p, ok := model.ParsePriority(f.Get(intent.FieldPriority)); ok {
		priority = p
	}

	task, err := s.repo.Create(ctx, model.Task{
		Owner:    owner,
		Name:     name,
		Priority: priority,
	})
	if err != nil {
		return Result{}, err
	}

	return Result{
		Action:  intent.ActionCreate,
		Message: fmt.Sprintf("Task %q created with %s priority.", task.Name, task.Priority),
		Task:    &task,
	}, nil
}

func (s *Assistant) updateTask(ctx context.Context, owner string, f intent.Fields) (Result, error) {
	oldName, err := taskName(f, intent.FieldOldTaskName)
	if err != nil {
		return Result{}, err
	}

	existing, err := s.repo.FindByName(ctx, owner, oldName)
	if err != nil {
		return Result{}, err
	}

	// Частичное обновление: не упомянутые поля не трогаем
	var newName *string
	if f.Has(intent.FieldNewTaskName) {
		n, err := taskName(f, intent.FieldNewTaskName)
		if err != nil {
			return Result{}, err
		}
		newName = &n
	}
	var newPriority *model.Priority
	if p, ok := model.ParsePriority(f.Get(intent.FieldPriority)); ok {
		newPriority = &p
	}

	task, err := s.repo.UpdateFields(ctx, existing.ID, newName, newPriority)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Action:  intent.ActionUpdate,
		Message: fmt.Sprintf("Task updated: %q | Priority: %s.", task.Name, task.Priority),
		Task:    &task,
	}, nil
}

func (s *Assistant) deleteTask(ctx context.Context, owner string, f intent.Fields) (Result, error) {
	name, err := taskName(f, intent.FieldTaskName)
	if err != nil {
		return Result{}, err
	}

	if err := s.repo.DeleteByName(ctx, owner, name); err != nil {
		return Result{}, err
	}

	return Result{
		Action:  intent.ActionDelete,
		Message: fmt.Sprintf("Task %q deleted successfully.", name),
	}, nil
}

func (s *Assistant) completeTask(ctx context.Context, owner string, f intent.Fields) (Result, error) {
	name, err := taskName(f, intent.FieldTaskName)
	if err != nil {
		return Result{}, err
	}
	status, ok := model.ParseStatus(f.Get(intent.FieldCompletionStatus))
	if !ok {
		return Result{}, fmt.Errorf("%w: completion status", ErrMissingField)
	}

	existing, err := s.repo.FindByName(ctx, owner, name)
	if err != nil {
		return Result{}, err
	}

	task, err := s.repo.SetStatus(ctx, existing.ID, status)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Action:  intent.ActionComplete,
		Message: fmt.Sprintf("Task %q marked as %s.", task.Name, task.Status),
		Task:    &task,
	}, nil
}

func (s *Assistant) listTasks(ctx context.Context, owner string, f intent.Fields) (Result, error) {
	filter := parseFilter(f.Get(intent.FieldFilter))

	tasks, err := s.repo.List(ctx, owner, filter)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Action:  intent.ActionList,
		Message: fmt.Sprintf("Found %d task(s).", len(tasks)),
		Tasks:   tasks,
	}, nil
}

func (s *Assistant) unclear(f intent.Fields) Result {
	message := "I couldn't determine what you want to do. Please rephrase your request."
	if notes := f.Get(intent.FieldNotes); notes != "" {
		message = notes
	}
	return Result{
		Action:  intent.ActionUnclear,
		Message: message,
	}
}

// parseFilter выводит из значения Filter не более одного фильтра по
// статусу и не более одного по приоритету. Отрицательные формы
// проверяются раньше: "not completed" — это pending, а не completed.
func parseFilter(value string) model.TaskFilter {
	var filter model.TaskFilter
	v := strings.ToLower(value)

	switch {
	case strings.Contains(v, "not completed"), strings.Contains(v, "pending"):
		status := model.StatusPending
		filter.Status = &status
	case strings.Contains(v, "completed"):
		status := model.StatusCompleted
		filter.Status = &status
	}

	switch {
	case strings.Contains(v, "high"):
		priority := model.PriorityHigh
		filter.Priority = &priority
	case strings.Contains(v, "medium"):
		priority := model.PriorityMedium
		filter.Priority = &priority
	case strings.Contains(v, "low"):
		priority := model.PriorityLow
		filter.Priority = &priority
	}

	return filter
}

func taskName(f intent.Fields, field intent.Field) (string, error) {
	name := strings.TrimSpace(f.Get(field))
	if name == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingField, strings.ToLower(string(field)))
	}
	if utf8.RuneCountInString(name) > model.MaxNameLen {
		return "", fmt.Errorf("%w: %s exceeds %d characters", ErrMissingField, strings.ToLower(string(field)), model.MaxNameLen)
	}
	return name, nil
}
