package utils

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"math/big"
	"net/http"
	"strings"
	"time"

	"todolist/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

const (
	SessionTTL   = 24 * time.Hour
	ResetCodeTTL = 15 * time.Minute
)

// Authorize checks the session cookie and the X-CSRF-Token header of a
// mutating request and returns the session.
func Authorize(r *http.Request, client *redis.Client) (*models.Session, error) {
	st, err := r.Cookie("session_token")
	if err != nil || st.Value == "" {
		return nil, errors.New("unauthorized: missing or empty session token")
	}
	session, err := GetSession(client, st.Value)
	if err != nil {
		return nil, fmt.Errorf("unauthorized: %w", err)
	}

	csrf := r.Header.Get("X-CSRF-Token")
	if csrf == "" {
		csrf = r.FormValue("csrf_token")
	}
	if csrf == "" || session.CSRFToken == "" || csrf != session.CSRFToken {
		return nil, errors.New("unauthorized: invalid CSRF token")
	}
	return session, nil
}

// SignUp creates an account with its profile and returns the new user id.
func SignUp(ctx context.Context, db *pgxpool.Pool, username, email, password string) (uuid.UUID, error) {
	email = strings.TrimSpace(email)
	if err := ValidateEmail(email); err != nil {
		return uuid.Nil, &AuthError{Op: "sign up", Err: errors.New("invalid email address")}
	}
	if err := ValidatePassword(password); err != nil {
		return uuid.Nil, &AuthError{Op: "sign up", Err: err}
	}

	inUse, err := EmailInUse(ctx, email, db)
	if err != nil {
		return uuid.Nil, err
	}
	if inUse {
		return uuid.Nil, &AuthError{Op: "sign up", Err: ErrEmailInUse}
	}

	passwordHash, err := HashPassword(password)
	if err != nil {
		return uuid.Nil, fmt.Errorf("hash password: %w", err)
	}

	return CreateUserProfile(ctx, db, strings.TrimSpace(username), email, passwordHash)
}

// CreateUserProfile inserts the users row holding credentials and profile.
func CreateUserProfile(ctx context.Context, db *pgxpool.Pool, username, email, passwordHash string) (uuid.UUID, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	stmt := "INSERT INTO users (username, email, password_hash) VALUES ($1, $2, $3) RETURNING id;"
	var id uuid.UUID
	if err := db.QueryRow(ctx, stmt, username, email, passwordHash).Scan(&id); err != nil {
		return uuid.Nil, &StoreError{Op: "create profile", Err: err}
	}
	log.Printf("created user %s", id)
	return id, nil
}

func GetUserProfile(ctx context.Context, db *pgxpool.Pool, userID uuid.UUID) (*models.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var p models.Profile
	err := db.QueryRow(ctx, "SELECT id, username, email FROM users WHERE id = $1", userID).
		Scan(&p.UserID, &p.Username, &p.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &StoreError{Op: "get profile", Err: err}
	}
	return &p, nil
}

// SignIn checks credentials and returns the account id.
func SignIn(ctx context.Context, db *pgxpool.Pool, email, password string) (uuid.UUID, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var u models.User
	stmt := "SELECT id, username, email, password_hash FROM users WHERE email = $1;"
	if err := db.QueryRow(ctx, stmt, strings.TrimSpace(email)).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Printf("login failed, unknown email: %s", email)
			return uuid.Nil, &AuthError{Op: "sign in", Err: ErrInvalidCredentials}
		}
		return uuid.Nil, &StoreError{Op: "sign in", Err: err}
	}

	if !CheckPasswordHash(password, string(u.PasswordHash)) {
		log.Printf("Password verification failed for user: %s", u.ID)
		return uuid.Nil, &AuthError{Op: "sign in", Err: ErrInvalidCredentials}
	}
	return u.ID, nil
}

// StartSession stores a new session for the profile and sets its cookies.
func StartSession(w http.ResponseWriter, r *http.Request, client *redis.Client, profile models.Profile) (*models.Session, error) {
	now := time.Now()
	session := models.Session{
		SessionToken: GenerateToken(32),
		UserID:       profile.UserID,
		Username:     profile.Username,
		CreatedAt:    now,
		ExpiresAt:    now.Add(SessionTTL),
		LastActivity: now,
		CSRFToken:    GenerateToken(32),
		UserAgent:    GetUserAgent(r),
		IPAddress:    GetIP(r),
	}

	if err := StoreSession(client, session, SessionTTL); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "session_token",
		Value:    session.SessionToken,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   int(SessionTTL.Seconds()),
	})
	http.SetCookie(w, &http.Cookie{
		Name:     "csrf_token",
		Value:    session.CSRFToken,
		HttpOnly: false, // Needs to be accessible by JavaScript
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   int(SessionTTL.Seconds()),
	})
	return &session, nil
}

// SignOut drops the request's session and clears its cookies.
func SignOut(w http.ResponseWriter, r *http.Request, client *redis.Client) error {
	var err error
	if st, cerr := r.Cookie("session_token"); cerr == nil && st.Value != "" {
		err = DeleteSession(client, st.Value)
	}
	for _, name := range []string{"session_token", "csrf_token"} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			SameSite: http.SameSiteStrictMode,
			MaxAge:   -1,
		})
	}
	return err
}

func GenerateToken(length int) string {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		log.Fatalf("Failed to generate token: %v", err)
	}
	return base64.URLEncoding.EncodeToString(bytes)
}

// GenerateOTP returns a six digit code.
func GenerateOTP() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		log.Fatalf("Failed to generate otp: %v", err)
	}
	return fmt.Sprintf("%06d", n.Int64())
}

// SendPasswordReset stores a one-time code for email and mails it.
func SendPasswordReset(ctx context.Context, db *pgxpool.Pool, mailer Mailer, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return &AuthError{Op: "password reset", Err: errors.New("please enter your email address")}
	}

	otp := GenerateOTP()
	hash, err := HashPassword(otp)
	if err != nil {
		return err
	}

	qctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	stmt := `UPDATE users SET one_time_password = $1, otp_expires_at = $2
		WHERE email = $3 RETURNING id;`
	var updatedID uuid.UUID
	err = db.QueryRow(qctx, stmt, hash, time.Now().Add(ResetCodeTTL), email).Scan(&updatedID)
	if errors.Is(err, pgx.ErrNoRows) {
		return &AuthError{Op: "password reset", Err: ErrUnknownEmail}
	}
	if err != nil {
		log.Printf("failed to set otp: %s", err)
		return &StoreError{Op: "password reset", Err: err}
	}

	plain := fmt.Sprintf("Your password reset code is: %s", otp)
	html := fmt.Sprintf("<strong>Your password reset code is: %s</strong>", otp)
	if err := mailer.Send(ctx, email, "Password Reset Code", plain, html); err != nil {
		return err
	}

	log.Println("password reset code sent to user: ", updatedID)
	return nil
}

// ResetPassword checks the emailed code, sets the new password and signs the
// user out everywhere.
func ResetPassword(ctx context.Context, db *pgxpool.Pool, client *redis.Client, email, code, password string) error {
	if err := ValidatePassword(password); err != nil {
		return &AuthError{Op: "password reset", Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var (
		userID    uuid.UUID
		otpHash   *string
		expiresAt *time.Time
	)
	err := db.QueryRow(ctx, "SELECT id, one_time_password, otp_expires_at FROM users WHERE email = $1;", strings.TrimSpace(email)).
		Scan(&userID, &otpHash, &expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return &AuthError{Op: "password reset", Err: ErrInvalidResetCode}
	}
	if err != nil {
		return &StoreError{Op: "password reset", Err: err}
	}
	if otpHash == nil || expiresAt == nil || time.Now().After(*expiresAt) || !CheckPasswordHash(code, *otpHash) {
		return &AuthError{Op: "password reset", Err: ErrInvalidResetCode}
	}

	passwordHash, err := HashPassword(password)
	if err != nil {
		return err
	}

	stmt := `UPDATE users SET password_hash = $1, one_time_password = NULL, otp_expires_at = NULL
		WHERE id = $2;`
	if _, err := db.Exec(ctx, stmt, passwordHash, userID); err != nil {
		log.Printf("failed to update user password for user: %s", userID)
		return &StoreError{Op: "password reset", Err: err}
	}

	if err := DeleteAllUserSessions(client, userID); err != nil {
		log.Printf("failed to drop sessions for user %s: %v", userID, err)
	}
	return nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	return string(bytes), err
}
