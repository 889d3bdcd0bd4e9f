package handlers

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"todolist/todo"
)

// TaskStream pushes the rendered list as server-sent events, one event per
// snapshot, until the client goes away.
func TaskStream(w http.ResponseWriter, r *http.Request, store todo.TaskStore, feed todo.ChangeFeed, sessions Sessions) {
	sess, err := sessions.CurrentSession(r)
	if err != nil || sess == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	completed, _ := strconv.ParseBool(r.URL.Query().Get("completed"))

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}
	tmpl, err := parse("task-list.html")
	if err != nil {
		log.Println("Error loading template:", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for tasks := range todo.Watch(r.Context(), sess, completed, store, feed) {
		var buf bytes.Buffer
		if err := tmpl.ExecuteTemplate(&buf, "task-list", listPage(sess, tasks, completed, time.Now())); err != nil {
			log.Println("Error rendering template:", err)
			return
		}
		writeEvent(w, "tasks", buf.String())
		flusher.Flush()
	}
}

func writeEvent(w io.Writer, event, data string) {
	fmt.Fprintf(w, "event: %s\n", event)
	for _, line := range strings.Split(data, "\n") {
		fmt.Fprintf(w, "data: %s\n", line)
	}
	fmt.Fprint(w, "\n")
}
