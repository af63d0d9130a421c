package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smarttasker/taskmaster-api/internal/model"
)

var ErrorNotFound = errors.New("not found")

const taskColumns = "id, owner, name, priority, status, created_at, updated_at"

type TaskRepo struct { // Репозиторий для работы непосредственно с БД
	pool *pgxpool.Pool
}

func NewTaskRepo(pool *pgxpool.Pool) *TaskRepo { // Конструктор
	return &TaskRepo{
		pool: pool,
	}
}

func (r *TaskRepo) Create(ctx context.Context, t model.Task) (model.Task, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO tasks (id, owner, name, priority, status)
		VALUES ($1, $2, $3, $4, 'pending')
		RETURNING `+taskColumns+`
	`, uuid.New(), t.Owner, t.Name, t.Priority).Scan(
		&t.ID, &t.Owner, &t.Name, &t.Priority, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

func (r *TaskRepo) FindByName(ctx context.Context, owner, name string) (model.Task, error) {
	var t model.Task
	err := r.pool.QueryRow(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE owner = $1 AND LOWER(name) = LOWER($2)
		ORDER BY created_at, id
		LIMIT 1
	`, owner, name).Scan(
		&t.ID, &t.Owner, &t.Name, &t.Priority, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return t, ErrorNotFound
	}
	return t, err
}

func (r *TaskRepo) List(ctx context.Context, owner string, filter model.TaskFilter) ([]model.Task, error) {
	var status, priority *string
	if filter.Status != nil {
		s := string(*filter.Status)
		status = &s
	}
	if filter.Priority != nil {
		p := string(*filter.Priority)
		priority = &p
	}

	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE owner = $1
		  AND ($2::text IS NULL OR status = $2)
		  AND ($3::text IS NULL OR priority = $3)
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, owner, status, priority)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.ID, &t.Owner, &t.Name, &t.Priority, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepo) UpdateFields(ctx context.Context, id uuid.UUID, name *string, priority *model.Priority) (model.Task, error) {
	var p *string
	if priority != nil {
		s := string(*priority)
		p = &s
	}

	var t model.Task
	err := r.pool.QueryRow(ctx, `
		UPDATE tasks
		SET name = COALESCE($2, name),
		    priority = COALESCE($3, priority),
		    updated_at = now()
		WHERE id = $1
		RETURNING `+taskColumns+`
	`, id, name, p).Scan(
		&t.ID, &t.Owner, &t.Name, &t.Priority, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return t, ErrorNotFound
	}
	return t, err
}

func (r *TaskRepo) SetStatus(ctx context.Context, id uuid.UUID, status model.Status) (model.Task, error) {
	var t model.Task
	err := r.pool.QueryRow(ctx, `
		UPDATE tasks
		SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+taskColumns+`
	`, id, string(status)).Scan(
		&t.ID, &t.Owner, &t.Name, &t.Priority, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return t, ErrorNotFound
	}
	return t, err
}

func (r *TaskRepo) DeleteByName(ctx context.Context, owner, name string) error {
	// При дубликатах имен удаляется ровно одна, первая созданная
	cmd, err := r.pool.Exec(ctx, `
		DELETE FROM tasks
		WHERE id = (
			SELECT id FROM tasks
			WHERE owner = $1 AND LOWER(name) = LOWER($2)
			ORDER BY created_at, id
			LIMIT 1
		)
	`, owner, name)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrorNotFound
	}
	return nil
}

func (r *TaskRepo) ListOwners(ctx context.Context) ([]OwnerStats, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT owner, COUNT(*) FROM tasks GROUP BY owner ORDER BY owner
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	owners := make([]OwnerStats, 0)
	for rows.Next() {
		var o OwnerStats
		if err := rows.Scan(&o.Email, &o.Tasks); err != nil {
			return nil, err
		}
		owners = append(owners, o)
	}
	return owners, rows.Err()
}
