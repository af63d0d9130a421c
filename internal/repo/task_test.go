// internal/repo/task_test.go
package repo

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smarttasker/taskmaster-api/internal/model"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	pool, err := pgxpool.New(context.Background(), dbURL)
	if err != nil {
		t.Fatal(err)
	}

	// Очистка
	pool.Exec(context.Background(), "TRUNCATE tasks")

	return pool
}

func mustCreate(t *testing.T, r *TaskRepo, owner, name string, priority model.Priority) model.Task {
	t.Helper()
	task, err := r.Create(context.Background(), model.Task{Owner: owner, Name: name, Priority: priority})
	if err != nil {
		t.Fatal(err)
	}
	// Гарантируем различимые created_at для проверки порядка
	time.Sleep(5 * time.Millisecond)
	return task
}

func TestTaskRepo_Create(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	repo := NewTaskRepo(pool)

	created := mustCreate(t, repo, "user@example.com", "Test", model.PriorityHigh)

	if created.ID == uuid.Nil {
		t.Error("expected non-zero ID")
	}
	if created.Status != model.StatusPending {
		t.Errorf("expected status=pending, got %s", created.Status)
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestTaskRepo_FindByName_CaseInsensitive(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	repo := NewTaskRepo(pool)
	created := mustCreate(t, repo, "user@example.com", "Buy Milk", model.PriorityMedium)

	found, err := repo.FindByName(context.Background(), "user@example.com", "bUY mILK")
	if err != nil {
		t.Fatal(err)
	}
	if found.ID != created.ID {
		t.Errorf("expected task %s, got %s", created.ID, found.ID)
	}

	if _, err := repo.FindByName(context.Background(), "user@example.com", "no such task"); !errors.Is(err, ErrorNotFound) {
		t.Errorf("expected ErrorNotFound, got %v", err)
	}
}

func TestTaskRepo_FindByName_FirstMatchByCreation(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	repo := NewTaskRepo(pool)
	first := mustCreate(t, repo, "user@example.com", "duplicate", model.PriorityLow)
	mustCreate(t, repo, "user@example.com", "Duplicate", model.PriorityHigh)

	found, err := repo.FindByName(context.Background(), "user@example.com", "DUPLICATE")
	if err != nil {
		t.Fatal(err)
	}
	if found.ID != first.ID {
		t.Error("expected the first created task to win")
	}
}

func TestTaskRepo_OwnerPartition(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	repo := NewTaskRepo(pool)
	ctx := context.Background()

	mine := mustCreate(t, repo, "alice@example.com", "shared name", model.PriorityMedium)
	theirs := mustCreate(t, repo, "bob@example.com", "shared name", model.PriorityMedium)

	// Удаление у одного владельца не трогает другого
	if err := repo.DeleteByName(ctx, "alice@example.com", "shared name"); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.FindByName(ctx, "alice@example.com", "shared name"); !errors.Is(err, ErrorNotFound) {
		t.Errorf("expected alice's task to be gone, got %v", err)
	}
	found, err := repo.FindByName(ctx, "bob@example.com", "shared name")
	if err != nil {
		t.Fatal(err)
	}
	if found.ID != theirs.ID {
		t.Error("bob's task must be unaffected")
	}
	_ = mine
}

func TestTaskRepo_List(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	repo := NewTaskRepo(pool)
	ctx := context.Background()

	a := mustCreate(t, repo, "user@example.com", "first", model.PriorityLow)
	b := mustCreate(t, repo, "user@example.com", "second", model.PriorityHigh)
	c := mustCreate(t, repo, "user@example.com", "third", model.PriorityHigh)
	mustCreate(t, repo, "other@example.com", "foreign", model.PriorityHigh)

	if _, err := repo.SetStatus(ctx, c.ID, model.StatusCompleted); err != nil {
		t.Fatal(err)
	}

	t.Run("no filter, newest first, own tasks only", func(t *testing.T) {
		tasks, err := repo.List(ctx, "user@example.com", model.TaskFilter{})
		if err != nil {
			t.Fatal(err)
		}
		if len(tasks) != 3 {
			t.Fatalf("expected 3 tasks, got %d", len(tasks))
		}
		if tasks[0].ID != c.ID || tasks[1].ID != b.ID || tasks[2].ID != a.ID {
			t.Error("expected newest-created-first ordering")
		}
	})

	t.Run("priority filter", func(t *testing.T) {
		high := model.PriorityHigh
		tasks, err := repo.List(ctx, "user@example.com", model.TaskFilter{Priority: &high})
		if err != nil {
			t.Fatal(err)
		}
		if len(tasks) != 2 {
			t.Fatalf("expected 2 high tasks, got %d", len(tasks))
		}
		for _, task := range tasks {
			if task.Priority != model.PriorityHigh {
				t.Errorf("unexpected priority %s", task.Priority)
			}
		}
	})

	t.Run("status and priority filter", func(t *testing.T) {
		high := model.PriorityHigh
		completed := model.StatusCompleted
		tasks, err := repo.List(ctx, "user@example.com", model.TaskFilter{Priority: &high, Status: &completed})
		if err != nil {
			t.Fatal(err)
		}
		if len(tasks) != 1 || tasks[0].ID != c.ID {
			t.Error("expected only the completed high-priority task")
		}
	})

	t.Run("empty result is not an error", func(t *testing.T) {
		tasks, err := repo.List(ctx, "nobody@example.com", model.TaskFilter{})
		if err != nil {
			t.Fatal(err)
		}
		if len(tasks) != 0 {
			t.Errorf("expected empty list, got %d", len(tasks))
		}
	})
}

func TestTaskRepo_UpdateFields_Partial(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	repo := NewTaskRepo(pool)
	ctx := context.Background()

	created := mustCreate(t, repo, "user@example.com", "old name", model.PriorityLow)

	newName := "new name"
	updated, err := repo.UpdateFields(ctx, created.ID, &newName, nil)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Name != "new name" {
		t.Errorf("expected renamed task, got %q", updated.Name)
	}
	if updated.Priority != model.PriorityLow {
		t.Error("priority must stay untouched")
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Error("created_at must never change")
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Error("updated_at must be refreshed")
	}

	// Round-trip: повторное чтение отражает ровно измененные поля
	found, err := repo.FindByName(ctx, "user@example.com", "new name")
	if err != nil {
		t.Fatal(err)
	}
	if found.ID != created.ID || found.Priority != model.PriorityLow {
		t.Error("round-trip read mismatch")
	}
}

func TestTaskRepo_DeleteByName(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	repo := NewTaskRepo(pool)
	ctx := context.Background()

	mustCreate(t, repo, "user@example.com", "to delete", model.PriorityMedium)

	if err := repo.DeleteByName(ctx, "user@example.com", "TO DELETE"); err != nil {
		t.Fatal(err)
	}

	// Повторное удаление — NotFound, а не второе удаление
	if err := repo.DeleteByName(ctx, "user@example.com", "to delete"); !errors.Is(err, ErrorNotFound) {
		t.Errorf("expected ErrorNotFound, got %v", err)
	}
}

func TestTaskRepo_DeleteByName_RemovesExactlyOne(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	repo := NewTaskRepo(pool)
	ctx := context.Background()

	first := mustCreate(t, repo, "user@example.com", "dup", model.PriorityMedium)
	second := mustCreate(t, repo, "user@example.com", "dup", model.PriorityMedium)

	if err := repo.DeleteByName(ctx, "user@example.com", "dup"); err != nil {
		t.Fatal(err)
	}

	remaining, err := repo.FindByName(ctx, "user@example.com", "dup")
	if err != nil {
		t.Fatal(err)
	}
	if remaining.ID != second.ID {
		t.Error("expected the first created duplicate to be deleted")
	}
	_ = first
}

func TestTaskRepo_ListOwners(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	repo := NewTaskRepo(pool)

	mustCreate(t, repo, "alice@example.com", "a1", model.PriorityMedium)
	mustCreate(t, repo, "alice@example.com", "a2", model.PriorityMedium)
	mustCreate(t, repo, "bob@example.com", "b1", model.PriorityMedium)

	owners, err := repo.ListOwners(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(owners) != 2 {
		t.Fatalf("expected 2 owners, got %d", len(owners))
	}
	if owners[0].Email != "alice@example.com" || owners[0].Tasks != 2 {
		t.Errorf("unexpected first owner: %+v", owners[0])
	}
	if owners[1].Email != "bob@example.com" || owners[1].Tasks != 1 {
		t.Errorf("unexpected second owner: %+v", owners[1])
	}
}
