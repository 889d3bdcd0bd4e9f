package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"todolist/models"
	"todolist/todo"
	"todolist/utils"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const passwordRules = "Passwords must be at least 8 characters in length and contain: one uppercase letter, one lowercase letter, one special character, one digit"

type authPage struct {
	CSRFtoken string
	Email     string
}

// requestSource lets the bootstrap decision read the caller of one request.
type requestSource struct {
	sessions Sessions
	r        *http.Request
}

func (s requestSource) CurrentSession(context.Context) (*models.Session, error) {
	return s.sessions.CurrentSession(s.r)
}

// Index sends the visitor to the task list or to the login screen, decided
// once from the session cookie.
func Index(w http.ResponseWriter, r *http.Request, sessions Sessions) {
	screen, _ := todo.InitialScreen(r.Context(), requestSource{sessions: sessions, r: r})
	if screen == todo.ScreenHome {
		http.Redirect(w, r, "/tasks", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func loggedIn(r *http.Request, sessions Sessions) bool {
	sess, err := sessions.CurrentSession(r)
	if err != nil {
		log.Println("error checking if logged in: ", err)
		return false
	}
	return sess != nil
}

func LoginPageHandler(w http.ResponseWriter, r *http.Request, sessions Sessions) {
	if loggedIn(r, sessions) {
		redirect(w, r, "/tasks")
		return
	}
	render(w, authPage{}, "login.html")
}

func LoginHandler(w http.ResponseWriter, r *http.Request, db *pgxpool.Pool, redisClient *redis.Client) {
	email := r.FormValue("email")
	password := r.FormValue("password")

	if email == "" || password == "" {
		message(w, "Please enter your email and password.")
		return
	}

	userID, err := utils.SignIn(r.Context(), db, email, password)
	if err != nil {
		log.Println("Login failed: ", err)
		message(w, userMessage(err))
		return
	}

	profile, err := utils.GetUserProfile(r.Context(), db, userID)
	if err != nil || profile == nil {
		log.Println("Login failed, no profile for user: ", userID, err)
		message(w, userMessage(err))
		return
	}

	if _, err := utils.StartSession(w, r, redisClient, *profile); err != nil {
		log.Println("Login failed: ", err)
		message(w, userMessage(err))
		return
	}
	if err := utils.UpdateLastActivityDB(r.Context(), db, userID); err != nil {
		log.Println("Error updating last activity in database:", err)
	}

	redirect(w, r, "/tasks")
}

func SignUpHandler(w http.ResponseWriter, r *http.Request, sessions Sessions) {
	if loggedIn(r, sessions) {
		redirect(w, r, "/tasks")
		return
	}
	render(w, authPage{}, "signup.html")
}

func RegisterUserHandler(w http.ResponseWriter, r *http.Request, db *pgxpool.Pool, redisClient *redis.Client) {
	username := r.FormValue("username")
	email := r.FormValue("email")
	password := r.FormValue("password")
	confirmedPassword := r.FormValue("confirm-password")

	if err := utils.ValidateEmail(email); err != nil {
		log.Println("invalid email: ", err)
		message(w, "invalid email address")
		return
	}
	if err := utils.ValidatePassword(password); err != nil {
		log.Println("invalid password: ", err)
		message(w, passwordRules)
		return
	}
	if !utils.SamePassword(password, confirmedPassword) {
		message(w, "passwords must match")
		return
	}

	userID, err := utils.SignUp(r.Context(), db, username, email, password)
	if err != nil {
		log.Println("add user error: ", err, " user: ", email)
		message(w, userMessage(err))
		return
	}

	profile := models.Profile{UserID: userID, Username: username, Email: email}
	if _, err := utils.StartSession(w, r, redisClient, profile); err != nil {
		log.Println("session error after sign up: ", err)
		redirect(w, r, "/login")
		return
	}
	redirect(w, r, "/tasks")
}

func LogOutHandler(w http.ResponseWriter, r *http.Request, redisClient *redis.Client) {
	if err := utils.SignOut(w, r, redisClient); err != nil {
		log.Printf("Failed to delete session: %v", err)
	}
	redirect(w, r, "/login")
}

func ResetPasswordRequestForm(w http.ResponseWriter, r *http.Request) {
	render(w, authPage{}, "forgot-password.html")
}

func ResetPasswordRequestHandler(w http.ResponseWriter, r *http.Request, db *pgxpool.Pool, mailer utils.Mailer) {
	email := r.FormValue("email")
	if email == "" {
		message(w, "Please enter your email address.")
		return
	}

	if err := utils.SendPasswordReset(r.Context(), db, mailer, email); err != nil {
		log.Println("error sending password reset email to user: ", email, " |error:", err)
		message(w, userMessage(err))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "reset_email",
		Value:    email,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(utils.ResetCodeTTL.Seconds()),
	})
	redirect(w, r, "/forgot-password/change-password")
}

func ChangePasswordForm(w http.ResponseWriter, r *http.Request) {
	data := authPage{}
	if cookie, err := r.Cookie("reset_email"); err == nil {
		data.Email = cookie.Value
	}
	render(w, data, "change-password.html")
}

func ChangePasswordHandler(w http.ResponseWriter, r *http.Request, db *pgxpool.Pool, redisClient *redis.Client) {
	email := r.FormValue("email")
	code := r.FormValue("one_time_password")
	password := r.FormValue("password")
	confirmedPassword := r.FormValue("confirm-password")

	if email == "" || code == "" {
		message(w, "Please enter your email address and the code we sent you.")
		return
	}
	if err := utils.ValidatePassword(password); err != nil {
		message(w, passwordRules)
		return
	}
	if !utils.SamePassword(password, confirmedPassword) {
		message(w, "passwords must match")
		return
	}

	if err := utils.ResetPassword(r.Context(), db, redisClient, email, code, password); err != nil {
		log.Println("error changing password for user: ", email, " |error:", err)
		message(w, userMessage(err))
		return
	}

	http.SetCookie(w, &http.Cookie{Name: "reset_email", Value: "", Path: "/", MaxAge: -1})
	redirect(w, r, "/login")
}

// userMessage turns an error into the text shown to the user.
func userMessage(err error) string {
	var (
		authErr  *utils.AuthError
		storeErr *utils.StoreError
	)
	switch {
	case err == nil:
		return "internal error. please try again"
	case errors.As(err, &authErr):
		return authErr.Error()
	case errors.Is(err, todo.ErrTaskNotFound):
		return "this task no longer exists"
	case errors.As(err, &storeErr):
		return storeErr.Error()
	case errors.Is(err, todo.ErrNothingToSave):
		return "add a title or a description first"
	case errors.Is(err, todo.ErrNoSession):
		return "your session has expired. please log in again"
	default:
		return "internal error. please try again"
	}
}
