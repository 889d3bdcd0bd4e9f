package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"todolist/models"
	"todolist/todo"
	"todolist/utils"

	"github.com/google/uuid"
)

// listPage prepares a task list for rendering on the given day.
func listPage(sess *models.Session, tasks []models.Task, completed bool, today time.Time) models.PageData {
	items := make([]models.TaskItem, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, taskItem(t, today))
	}
	return models.PageData{
		Username:   sess.Username,
		Completed:  completed,
		Tasks:      items,
		CSRFtoken:  sess.CSRFToken,
		IsLoggedIn: true,
	}
}

func taskItem(t models.Task, today time.Time) models.TaskItem {
	label, _ := todo.DueLabel(t.DueDate, today)
	return models.TaskItem{
		Task:     t,
		DueLabel: label,
		Overdue:  !t.Completed && todo.IsOverdue(t.DueDate, today),
		Color:    t.Category.Color(),
	}
}

// currentSession returns the caller's session or sends them to the login
// screen.
func currentSession(w http.ResponseWriter, r *http.Request, sessions Sessions) *models.Session {
	sess, err := sessions.CurrentSession(r)
	if err != nil {
		log.Println("Error reading session:", err)
	}
	if sess == nil {
		redirect(w, r, "/login")
		return nil
	}
	return sess
}

func authorize(w http.ResponseWriter, r *http.Request, sessions Sessions) *models.Session {
	sess, err := sessions.Authorize(r)
	if err != nil {
		log.Println("Authorization failed:", err)
		message(w, "your session has expired. please log in again")
		return nil
	}
	return sess
}

// Tasks renders the pending or completed list.
func Tasks(w http.ResponseWriter, r *http.Request, store todo.TaskStore, sessions Sessions, completed bool) {
	sess := currentSession(w, r, sessions)
	if sess == nil {
		return
	}

	tasks, err := store.QueryTasks(r.Context(), sess.UserID, completed)
	if err != nil {
		log.Println("Error retrieving tasks for user:", sess.UserID, ": ", err)
		message(w, userMessage(err))
		return
	}

	render(w, listPage(sess, tasks, completed, time.Now()), "tasks.html", "task-list.html")
}

func editorPage(ed *todo.Editor, base models.Task, sess *models.Session, msg string) models.EditorData {
	f := ed.Fields()
	t := base
	t.ID = ed.ID()
	t.Title, t.Body, t.DueDate, t.Category = f.Title, f.Body, f.DueDate, f.Category
	return models.EditorData{
		Mode:       ed.Mode().String(),
		Task:       t,
		DueDate:    f.DueDate.Format(utils.DateLayout),
		Categories: models.Categories,
		CanSave:    ed.CanSave(),
		Color:      f.Category.Color(),
		CSRFtoken:  sess.CSRFToken,
		Message:    msg,
	}
}

// applyForm copies submitted fields into a creating or editing editor.
func applyForm(r *http.Request, ed *todo.Editor) error {
	f, err := utils.ParseTaskForm(r, ed.Fields())
	if err != nil {
		return err
	}
	if err := ed.SetTitle(f.Title); err != nil {
		return err
	}
	if err := ed.SetBody(f.Body); err != nil {
		return err
	}
	if err := ed.SetDueDate(f.DueDate); err != nil {
		return err
	}
	return ed.SetCategory(f.Category)
}

// loadTask reads the {id} task of the caller. It writes the failure itself
// and returns nil.
func loadTask(w http.ResponseWriter, r *http.Request, store todo.TaskStore, sess *models.Session) *models.Task {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid task ID", http.StatusBadRequest)
		return nil
	}
	t, err := store.GetTask(r.Context(), sess.UserID, id)
	if err != nil {
		log.Println("Error loading task:", id, err)
		message(w, userMessage(err))
		return nil
	}
	return t
}

func NewTaskForm(w http.ResponseWriter, r *http.Request, sessions Sessions) {
	sess := currentSession(w, r, sessions)
	if sess == nil {
		return
	}
	ed := todo.NewTask(sess, nil, time.Now())
	render(w, editorPage(ed, models.Task{}, sess, ""), "editor.html")
}

// AddTaskHandler saves a new task and returns to the list.
func AddTaskHandler(w http.ResponseWriter, r *http.Request, store todo.TaskStore, sessions Sessions) {
	sess := authorize(w, r, sessions)
	if sess == nil {
		return
	}

	ed := todo.NewTask(sess, store, time.Now())
	if err := applyForm(r, ed); err != nil {
		message(w, err.Error())
		return
	}
	if err := ed.Save(r.Context()); err != nil {
		log.Println("error adding task for user:", sess.UserID, err)
		message(w, userMessage(err))
		return
	}
	redirect(w, r, "/tasks")
}

func ViewTask(w http.ResponseWriter, r *http.Request, store todo.TaskStore, sessions Sessions) {
	sess := currentSession(w, r, sessions)
	if sess == nil {
		return
	}
	t := loadTask(w, r, store, sess)
	if t == nil {
		return
	}
	render(w, editorPage(todo.OpenTask(sess, store, *t), *t, sess, ""), "editor.html")
}

func EditTaskForm(w http.ResponseWriter, r *http.Request, store todo.TaskStore, sessions Sessions) {
	sess := currentSession(w, r, sessions)
	if sess == nil {
		return
	}
	t := loadTask(w, r, store, sess)
	if t == nil {
		return
	}
	ed := todo.OpenTask(sess, store, *t)
	if err := ed.Edit(); err != nil {
		message(w, err.Error())
		return
	}
	render(w, editorPage(ed, *t, sess, ""), "editor.html")
}

// UpdateTaskHandler saves an edited task. The task becomes pending again.
func UpdateTaskHandler(w http.ResponseWriter, r *http.Request, store todo.TaskStore, sessions Sessions) {
	sess := authorize(w, r, sessions)
	if sess == nil {
		return
	}
	t := loadTask(w, r, store, sess)
	if t == nil {
		return
	}

	ed := todo.OpenTask(sess, store, *t)
	if err := ed.Edit(); err != nil {
		message(w, err.Error())
		return
	}
	if err := applyForm(r, ed); err != nil {
		message(w, err.Error())
		return
	}
	if err := ed.Save(r.Context()); err != nil {
		log.Println("error updating task:", t.ID, err)
		message(w, userMessage(err))
		return
	}
	redirect(w, r, "/tasks/"+t.ID.String())
}

func DeleteTaskHandler(w http.ResponseWriter, r *http.Request, store todo.TaskStore, sessions Sessions) {
	sess := authorize(w, r, sessions)
	if sess == nil {
		return
	}
	t := loadTask(w, r, store, sess)
	if t == nil {
		return
	}

	ed := todo.OpenTask(sess, store, *t)
	if err := ed.Delete(r.Context()); err != nil {
		log.Println("Error deleting task:", err)
		message(w, userMessage(err))
		return
	}
	redirect(w, r, "/tasks")
}

// CompleteTaskHandler flips the completed flag only and answers with the
// row as the store now has it, so a rejected toggle puts the checkbox back.
// Open lists pick the change up from their stream.
func CompleteTaskHandler(w http.ResponseWriter, r *http.Request, store todo.TaskStore, sessions Sessions) {
	sess := authorize(w, r, sessions)
	if sess == nil {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid task ID", http.StatusBadRequest)
		return
	}
	completed, err := strconv.ParseBool(r.FormValue("completed"))
	if err != nil {
		http.Error(w, "Missing completed value", http.StatusBadRequest)
		return
	}

	var msg string
	if err := store.SetCompleted(r.Context(), sess.UserID, id, completed); err != nil {
		log.Println("error completing task:", id, err)
		msg = userMessage(err)
	}

	t, err := store.GetTask(r.Context(), sess.UserID, id)
	if err != nil {
		log.Println("error reloading task:", id, err)
		if msg == "" {
			msg = userMessage(err)
		}
		message(w, msg)
		return
	}
	row := taskItem(*t, time.Now())
	row.Message = msg
	renderPartial(w, "task-row", row, "task-list.html")
}
