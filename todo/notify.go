package todo

import (
	"context"
	"log"

	"todolist/models"

	"github.com/google/uuid"
)

// NotifyingStore publishes a change for the owner after every successful
// write so that open projections refresh.
type NotifyingStore struct {
	TaskStore
	Publisher Publisher
}

func (s *NotifyingStore) notify(ctx context.Context, owner uuid.UUID) {
	if err := s.Publisher.Publish(ctx, owner); err != nil {
		log.Printf("publish change for %s: %v", owner, err)
	}
}

func (s *NotifyingStore) CreateTask(ctx context.Context, owner uuid.UUID, f models.TaskFields) (uuid.UUID, error) {
	id, err := s.TaskStore.CreateTask(ctx, owner, f)
	if err != nil {
		return uuid.Nil, err
	}
	s.notify(ctx, owner)
	return id, nil
}

func (s *NotifyingStore) UpdateTask(ctx context.Context, owner, id uuid.UUID, f models.TaskFields) error {
	if err := s.TaskStore.UpdateTask(ctx, owner, id, f); err != nil {
		return err
	}
	s.notify(ctx, owner)
	return nil
}

func (s *NotifyingStore) SetCompleted(ctx context.Context, owner, id uuid.UUID, completed bool) error {
	if err := s.TaskStore.SetCompleted(ctx, owner, id, completed); err != nil {
		return err
	}
	s.notify(ctx, owner)
	return nil
}

func (s *NotifyingStore) DeleteTask(ctx context.Context, owner, id uuid.UUID) error {
	if err := s.TaskStore.DeleteTask(ctx, owner, id); err != nil {
		return err
	}
	s.notify(ctx, owner)
	return nil
}
