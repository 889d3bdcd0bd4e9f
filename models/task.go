package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Category string

const (
	CategoryPersonal  Category = "Personal"
	CategoryWork      Category = "Work"
	CategoryImportant Category = "Important"
	CategoryBirthday  Category = "Birthday"
)

// Categories lists the selectable categories in display order.
var Categories = []Category{CategoryPersonal, CategoryWork, CategoryImportant, CategoryBirthday}

func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Color is the background used when rendering a task of this category.
func (c Category) Color() string {
	switch c {
	case CategoryPersonal:
		return "#d4edda"
	case CategoryWork:
		return "#d1ecf1"
	case CategoryImportant:
		return "#f8d7da"
	case CategoryBirthday:
		return "#ffe4b5"
	default:
		return "#f9f9f9"
	}
}

type Task struct {
	ID        uuid.UUID  `db:"id"`
	UserID    uuid.UUID  `db:"user_id"`
	Title     string     `db:"title"`
	Body      string     `db:"body"`
	DueDate   time.Time  `db:"due_date"`
	Category  Category   `db:"category"`
	Completed bool       `db:"is_completed"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt *time.Time `db:"updated_at"`
}

// TaskFields are the user-editable parts of a Task.
type TaskFields struct {
	Title    string
	Body     string
	DueDate  time.Time
	Category Category
}

func (t Task) Fields() TaskFields {
	return TaskFields{
		Title:    t.Title,
		Body:     t.Body,
		DueDate:  t.DueDate,
		Category: t.Category,
	}
}
