package models

// TaskItem is a task prepared for a list row.
type TaskItem struct {
	Task
	DueLabel string
	Overdue  bool
	Color    string
	// Message is shown on the row after an action on it failed.
	Message string
}

type PageData struct {
	Username   string
	Completed  bool
	Tasks      []TaskItem
	CSRFtoken  string
	IsLoggedIn bool
}

// EditorData backs the create/view/edit task screen.
type EditorData struct {
	Mode       string
	Task       Task
	DueDate    string
	Categories []Category
	CanSave    bool
	Color      string
	CSRFtoken  string
	Message    string
}
