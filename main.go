package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"time"

	"todolist/handlers"
	"todolist/todo"
	"todolist/utils"

	gfshutdown "github.com/gelmium/graceful-shutdown"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := utils.LoadConfig()
	log.Println("environment: ", cfg.Env)

	// Initialize the database connection pool
	dbPool, err := utils.OpenDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := utils.EnsureSchema(context.Background(), dbPool); err != nil {
		log.Fatalf("Failed to prepare database: %v", err)
	}

	redisPool, err := utils.OpenRedisPool(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}

	handlers.TemplateDir = cfg.TemplateDir
	feed := &utils.RedisTaskFeed{Client: redisPool}
	store := &todo.NotifyingStore{TaskStore: &utils.PGTaskStore{DB: dbPool}, Publisher: feed}
	sessions := utils.RedisSessions{Client: redisPool}
	mailer := cfg.Mailer()

	mux := http.NewServeMux()

	fileServer := http.FileServer(http.Dir("./ui/static/"))
	mux.Handle("GET /static/", http.StripPrefix("/static", fileServer))

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		handlers.Index(w, r, sessions)
	})

	// Accounts
	mux.HandleFunc("GET /login", func(w http.ResponseWriter, r *http.Request) {
		handlers.LoginPageHandler(w, r, sessions)
	})
	mux.HandleFunc("POST /login-submit", func(w http.ResponseWriter, r *http.Request) {
		handlers.LoginHandler(w, r, dbPool, redisPool)
	})
	mux.HandleFunc("GET /signUp", func(w http.ResponseWriter, r *http.Request) {
		handlers.SignUpHandler(w, r, sessions)
	})
	mux.HandleFunc("POST /register", func(w http.ResponseWriter, r *http.Request) {
		handlers.RegisterUserHandler(w, r, dbPool, redisPool)
	})
	mux.HandleFunc("POST /logOut", func(w http.ResponseWriter, r *http.Request) {
		handlers.LogOutHandler(w, r, redisPool)
	})
	mux.HandleFunc("GET /forgot-password", func(w http.ResponseWriter, r *http.Request) {
		handlers.ResetPasswordRequestForm(w, r)
	})
	mux.HandleFunc("POST /reset-password/send-email", func(w http.ResponseWriter, r *http.Request) {
		handlers.ResetPasswordRequestHandler(w, r, dbPool, mailer)
	})
	mux.HandleFunc("GET /forgot-password/change-password", func(w http.ResponseWriter, r *http.Request) {
		handlers.ChangePasswordForm(w, r)
	})
	mux.HandleFunc("POST /reset-password/update-password", func(w http.ResponseWriter, r *http.Request) {
		handlers.ChangePasswordHandler(w, r, dbPool, redisPool)
	})

	// Tasks
	mux.HandleFunc("GET /tasks", func(w http.ResponseWriter, r *http.Request) {
		handlers.Tasks(w, r, store, sessions, false)
	})
	mux.HandleFunc("GET /tasks/completed", func(w http.ResponseWriter, r *http.Request) {
		handlers.Tasks(w, r, store, sessions, true)
	})
	mux.HandleFunc("GET /tasks/stream", func(w http.ResponseWriter, r *http.Request) {
		handlers.TaskStream(w, r, store, feed, sessions)
	})
	mux.HandleFunc("GET /tasks/new", func(w http.ResponseWriter, r *http.Request) {
		handlers.NewTaskForm(w, r, sessions)
	})
	mux.HandleFunc("POST /tasks", func(w http.ResponseWriter, r *http.Request) {
		handlers.AddTaskHandler(w, r, store, sessions)
	})
	mux.HandleFunc("GET /tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		handlers.ViewTask(w, r, store, sessions)
	})
	mux.HandleFunc("GET /tasks/{id}/edit", func(w http.ResponseWriter, r *http.Request) {
		handlers.EditTaskForm(w, r, store, sessions)
	})
	mux.HandleFunc("POST /tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		handlers.UpdateTaskHandler(w, r, store, sessions)
	})
	mux.HandleFunc("DELETE /tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		handlers.DeleteTaskHandler(w, r, store, sessions)
	})
	mux.HandleFunc("PATCH /tasks/{id}/complete", func(w http.ResponseWriter, r *http.Request) {
		handlers.CompleteTaskHandler(w, r, store, sessions)
	})

	// Streams hold their request open, so they hang off a context that is
	// cancelled before the server drains.
	baseCtx, cancelStreams := context.WithCancel(context.Background())
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}

	go func() {
		log.Println("Starting server on", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				cancelStreams()
				return server.Shutdown(ctx)
			},
			"postgres": func(ctx context.Context) error {
				dbPool.Close()
				return nil
			},
			"redis": func(ctx context.Context) error {
				return redisPool.Close()
			},
		},
	)

	exitCode := <-wait
	log.Printf("server exited with code: %d", exitCode)
	os.Exit(exitCode)
}
