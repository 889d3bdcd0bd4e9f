package handlers

import (
	"fmt"
	"html/template"
	"log"
	"net/http"
	"path/filepath"

	"todolist/models"
)

// TemplateDir is where page templates are read from.
var TemplateDir = "./ui/html"

// Sessions tells the handlers who is calling. Authorize is used on every
// mutating route and also checks the CSRF token.
type Sessions interface {
	CurrentSession(r *http.Request) (*models.Session, error)
	Authorize(r *http.Request) (*models.Session, error)
}

func parse(names ...string) (*template.Template, error) {
	files := make([]string, len(names))
	for i, n := range names {
		files[i] = filepath.Join(TemplateDir, n)
	}
	return template.ParseFiles(files...)
}

// render executes the first named template, with the others available as
// partials.
func render(w http.ResponseWriter, data any, names ...string) {
	tmpl, err := parse(names...)
	if err != nil {
		log.Println("Error loading template:", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		log.Println("Error rendering template:", err)
		http.Error(w, "Error rendering page", http.StatusInternalServerError)
	}
}

// renderPartial executes one named template defined in the given files.
func renderPartial(w http.ResponseWriter, name string, data any, files ...string) {
	tmpl, err := parse(files...)
	if err != nil {
		log.Println("Error loading template:", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Println("Error rendering template:", err)
	}
}

// message writes a short text fragment for htmx to swap into the page.
func message(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, template.HTMLEscapeString(msg))
}

// redirect sends an htmx client to url, and a plain browser too.
func redirect(w http.ResponseWriter, r *http.Request, url string) {
	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", url)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}
