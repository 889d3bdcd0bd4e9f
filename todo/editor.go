package todo

import (
	"context"
	"errors"
	"strings"
	"time"

	"todolist/models"

	"github.com/google/uuid"
)

// MaxTitleLength is the number of characters kept when a title is typed.
const MaxTitleLength = 60

type Mode int

const (
	Creating Mode = iota
	Viewing
	Editing
	Closed
)

func (m Mode) String() string {
	switch m {
	case Creating:
		return "creating"
	case Viewing:
		return "viewing"
	case Editing:
		return "editing"
	case Closed:
		return "closed"
	}
	return "unknown"
}

var (
	ErrWrongMode     = errors.New("action not available in this mode")
	ErrNothingToSave = errors.New("title or description required")
	ErrNoSession     = errors.New("no user is logged in")
)

// Editor drives the single-task screen. It never applies a change locally
// before the store accepts it.
type Editor struct {
	store   TaskStore
	session *models.Session
	mode    Mode
	id      uuid.UUID
	fields  models.TaskFields
}

// NewTask opens an editor for a task that does not exist yet.
func NewTask(sess *models.Session, store TaskStore, today time.Time) *Editor {
	y, m, d := today.Date()
	return &Editor{
		store:   store,
		session: sess,
		mode:    Creating,
		fields: models.TaskFields{
			DueDate:  time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
			Category: models.CategoryPersonal,
		},
	}
}

// OpenTask shows an existing task read-only.
func OpenTask(sess *models.Session, store TaskStore, t models.Task) *Editor {
	return &Editor{
		store:   store,
		session: sess,
		mode:    Viewing,
		id:      t.ID,
		fields:  t.Fields(),
	}
}

func (e *Editor) Mode() Mode                { return e.mode }
func (e *Editor) ID() uuid.UUID             { return e.id }
func (e *Editor) Fields() models.TaskFields { return e.fields }

func (e *Editor) mutable() bool {
	return e.mode == Creating || e.mode == Editing
}

// Edit switches a viewed task into editing without touching any field.
func (e *Editor) Edit() error {
	if e.mode != Viewing {
		return ErrWrongMode
	}
	e.mode = Editing
	return nil
}

// SetTitle keeps at most MaxTitleLength characters of s.
func (e *Editor) SetTitle(s string) error {
	if !e.mutable() {
		return ErrWrongMode
	}
	e.fields.Title = TruncateTitle(s)
	return nil
}

func (e *Editor) SetBody(s string) error {
	if !e.mutable() {
		return ErrWrongMode
	}
	e.fields.Body = s
	return nil
}

func (e *Editor) SetDueDate(d time.Time) error {
	if !e.mutable() {
		return ErrWrongMode
	}
	e.fields.DueDate = d
	return nil
}

func (e *Editor) SetCategory(c models.Category) error {
	if !e.mutable() {
		return ErrWrongMode
	}
	if _, err := models.ParseCategory(string(c)); err != nil {
		return err
	}
	e.fields.Category = c
	return nil
}

// CanSave reports whether the save action should be offered.
func (e *Editor) CanSave() bool {
	return e.mutable() && HasContent(e.fields.Title, e.fields.Body)
}

// Save persists the editor's fields. A new task closes the editor; an edited
// task returns to viewing and is always pending again.
func (e *Editor) Save(ctx context.Context) error {
	if !e.CanSave() {
		if !e.mutable() {
			return ErrWrongMode
		}
		return ErrNothingToSave
	}
	owner := e.session.Owner()
	if owner == uuid.Nil {
		return ErrNoSession
	}

	f := e.fields
	f.Title = strings.TrimSpace(f.Title)
	f.Body = strings.TrimSpace(f.Body)

	switch e.mode {
	case Creating:
		id, err := e.store.CreateTask(ctx, owner, f)
		if err != nil {
			return err
		}
		e.id = id
		e.fields = f
		e.mode = Closed
	case Editing:
		if err := e.store.UpdateTask(ctx, owner, e.id, f); err != nil {
			return err
		}
		e.fields = f
		e.mode = Viewing
	}
	return nil
}

// Delete removes the task for good.
func (e *Editor) Delete(ctx context.Context) error {
	if e.mode != Viewing && e.mode != Editing {
		return ErrWrongMode
	}
	owner := e.session.Owner()
	if owner == uuid.Nil {
		return ErrNoSession
	}
	if err := e.store.DeleteTask(ctx, owner, e.id); err != nil {
		return err
	}
	e.mode = Closed
	return nil
}

// TruncateTitle cuts s to MaxTitleLength runes.
func TruncateTitle(s string) string {
	r := []rune(s)
	if len(r) > MaxTitleLength {
		return string(r[:MaxTitleLength])
	}
	return s
}

func HasContent(title, body string) bool {
	return strings.TrimSpace(title) != "" || strings.TrimSpace(body) != ""
}
