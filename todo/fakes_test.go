package todo

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"todolist/models"

	"github.com/google/uuid"
)

// memStore is an in-memory TaskStore that publishes to a memFeed on writes.
type memStore struct {
	mu      sync.Mutex
	tasks   map[uuid.UUID]models.Task
	failErr error
	seq     int
}

func newMemStore() *memStore {
	return &memStore{tasks: make(map[uuid.UUID]models.Task)}
}

func (s *memStore) CreateTask(_ context.Context, owner uuid.UUID, f models.TaskFields) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return uuid.Nil, s.failErr
	}
	s.seq++
	t := models.Task{
		ID:        uuid.New(),
		UserID:    owner,
		Title:     f.Title,
		Body:      f.Body,
		DueDate:   f.DueDate,
		Category:  f.Category,
		CreatedAt: time.Unix(int64(s.seq), 0),
	}
	s.tasks[t.ID] = t
	return t.ID, nil
}

func (s *memStore) UpdateTask(_ context.Context, owner, id uuid.UUID, f models.TaskFields) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return s.failErr
	}
	t, ok := s.tasks[id]
	if !ok || t.UserID != owner {
		return ErrTaskNotFound
	}
	now := time.Now()
	t.Title, t.Body, t.DueDate, t.Category = f.Title, f.Body, f.DueDate, f.Category
	t.Completed = false
	t.UpdatedAt = &now
	s.tasks[id] = t
	return nil
}

func (s *memStore) SetCompleted(_ context.Context, owner, id uuid.UUID, completed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return s.failErr
	}
	t, ok := s.tasks[id]
	if !ok || t.UserID != owner {
		return ErrTaskNotFound
	}
	t.Completed = completed
	s.tasks[id] = t
	return nil
}

func (s *memStore) DeleteTask(_ context.Context, owner, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return s.failErr
	}
	t, ok := s.tasks[id]
	if !ok || t.UserID != owner {
		return ErrTaskNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *memStore) GetTask(_ context.Context, owner, id uuid.UUID) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok || t.UserID != owner {
		return nil, ErrTaskNotFound
	}
	return &t, nil
}

func (s *memStore) QueryTasks(_ context.Context, owner uuid.UUID, completed bool) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Task
	for _, t := range s.tasks {
		if t.UserID == owner && t.Completed == completed {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DueDate.Equal(out[j].DueDate) {
			return out[i].DueDate.Before(out[j].DueDate)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// memFeed fans out Publish calls to subscribers of the same owner.
type memFeed struct {
	mu   sync.Mutex
	subs map[uuid.UUID][]chan struct{}
	err  error
}

func newMemFeed() *memFeed {
	return &memFeed{subs: make(map[uuid.UUID][]chan struct{})}
}

func (f *memFeed) Subscribe(_ context.Context, owner uuid.UUID) (<-chan struct{}, func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, nil, f.err
	}
	ch := make(chan struct{}, 16)
	f.subs[owner] = append(f.subs[owner], ch)
	var once sync.Once
	stop := func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			subs := f.subs[owner]
			for i, c := range subs {
				if c == ch {
					f.subs[owner] = append(subs[:i], subs[i+1:]...)
					break
				}
			}
		})
	}
	return ch, stop, nil
}

func (f *memFeed) Publish(_ context.Context, owner uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, ch := range f.subs[owner] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	return nil
}

func (f *memFeed) subscribers(owner uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs[owner])
}

var errUnavailable = errors.New("backend unavailable")

func session(owner uuid.UUID) *models.Session {
	return &models.Session{SessionToken: "st", UserID: owner}
}
