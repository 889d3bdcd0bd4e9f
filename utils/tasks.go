package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"todolist/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGTaskStore keeps tasks in PostgreSQL. Every statement is scoped by owner.
type PGTaskStore struct {
	DB *pgxpool.Pool
}

const taskColumns = "id, user_id, title, body, due_date, category, is_completed, created_at, updated_at"

func (s *PGTaskStore) CreateTask(ctx context.Context, owner uuid.UUID, f models.TaskFields) (uuid.UUID, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	stmt := `INSERT INTO tasks (user_id, title, body, due_date, category, is_completed)
		VALUES ($1, $2, $3, $4, $5, FALSE) RETURNING id;`

	var id uuid.UUID
	err := s.DB.QueryRow(ctx, stmt, owner, f.Title, f.Body, dateOnly(f.DueDate), string(f.Category)).Scan(&id)
	if err != nil {
		return uuid.Nil, &StoreError{Op: "create task", Err: err}
	}
	return id, nil
}

func (s *PGTaskStore) UpdateTask(ctx context.Context, owner, id uuid.UUID, f models.TaskFields) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	stmt := `UPDATE tasks
		SET title = $1, body = $2, due_date = $3, category = $4, is_completed = FALSE, updated_at = NOW()
		WHERE id = $5 AND user_id = $6;`
	tag, err := s.DB.Exec(ctx, stmt, f.Title, f.Body, dateOnly(f.DueDate), string(f.Category), id, owner)
	if err != nil {
		return &StoreError{Op: "update task", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return &StoreError{Op: "update task", Err: ErrTaskNotFound}
	}
	return nil
}

func (s *PGTaskStore) SetCompleted(ctx context.Context, owner, id uuid.UUID, completed bool) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	tag, err := s.DB.Exec(ctx, "UPDATE tasks SET is_completed = $1 WHERE id = $2 AND user_id = $3", completed, id, owner)
	if err != nil {
		return &StoreError{Op: "complete task", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return &StoreError{Op: "complete task", Err: ErrTaskNotFound}
	}
	return nil
}

func (s *PGTaskStore) DeleteTask(ctx context.Context, owner, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	tag, err := s.DB.Exec(ctx, "DELETE FROM tasks WHERE id = $1 AND user_id = $2;", id, owner)
	if err != nil {
		return &StoreError{Op: "delete task", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return &StoreError{Op: "delete task", Err: ErrTaskNotFound}
	}
	return nil
}

func (s *PGTaskStore) GetTask(ctx context.Context, owner, id uuid.UUID) (*models.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	stmt := "SELECT " + taskColumns + " FROM tasks WHERE id = $1 AND user_id = $2"
	rows, err := s.DB.Query(ctx, stmt, id, owner)
	if err != nil {
		return nil, &StoreError{Op: "get task", Err: err}
	}
	t, err := pgx.CollectExactlyOneRow(rows, scanTask)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &StoreError{Op: "get task", Err: ErrTaskNotFound}
	}
	if err != nil {
		return nil, &StoreError{Op: "get task", Err: err}
	}
	return &t, nil
}

// QueryTasks lists an owner's tasks with the given completed flag, soonest
// due first.
func (s *PGTaskStore) QueryTasks(ctx context.Context, owner uuid.UUID, completed bool) ([]models.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	stmt := "SELECT " + taskColumns + ` FROM tasks
		WHERE user_id = $1 AND is_completed = $2
		ORDER BY due_date ASC, created_at ASC, id ASC`
	rows, err := s.DB.Query(ctx, stmt, owner, completed)
	if err != nil {
		return nil, &StoreError{Op: "query tasks", Err: err}
	}
	tasks, err := pgx.CollectRows(rows, scanTask)
	if err != nil {
		return nil, &StoreError{Op: "query tasks", Err: fmt.Errorf("error processing tasks: %w", err)}
	}
	return tasks, nil
}

func scanTask(row pgx.CollectableRow) (models.Task, error) {
	var (
		t        models.Task
		category string
	)
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Body, &t.DueDate, &category, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	t.Category = models.Category(category)
	return t, err
}

// dateOnly drops the clock so the DATE column stores the calendar day the
// user picked.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
