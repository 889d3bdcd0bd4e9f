// Package todo holds the task lifecycle: due-date labels, the editor state
// machine, live list projections and the session bootstrap.
package todo

import (
	"context"
	"errors"

	"todolist/models"

	"github.com/google/uuid"
)

var ErrTaskNotFound = errors.New("task not found")

// TaskStore is the remote task collection. Every call is scoped to an owner.
type TaskStore interface {
	CreateTask(ctx context.Context, owner uuid.UUID, f models.TaskFields) (uuid.UUID, error)
	// UpdateTask replaces the editable fields and always resets completed to false.
	UpdateTask(ctx context.Context, owner, id uuid.UUID, f models.TaskFields) error
	SetCompleted(ctx context.Context, owner, id uuid.UUID, completed bool) error
	DeleteTask(ctx context.Context, owner, id uuid.UUID) error
	GetTask(ctx context.Context, owner, id uuid.UUID) (*models.Task, error)
	QueryTasks(ctx context.Context, owner uuid.UUID, completed bool) ([]models.Task, error)
}

// ChangeFeed delivers one tick per change to an owner's tasks.
type ChangeFeed interface {
	Subscribe(ctx context.Context, owner uuid.UUID) (<-chan struct{}, func(), error)
}

type Publisher interface {
	Publish(ctx context.Context, owner uuid.UUID) error
}
