package utils

import (
	"errors"
	"fmt"
	"net/http"
	netmail "net/mail"
	"regexp"
	"strings"
	"time"

	"todolist/models"

	"golang.org/x/crypto/bcrypt"
)

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func ValidateEmail(email string) error {
	_, err := netmail.ParseAddress(email)

	return err
}

func ValidatePassword(password string) error {
	// Ensure password length is at least 8 characters
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	// Regex patterns for validation
	uppercase := regexp.MustCompile(`[A-Z]`)
	lowercase := regexp.MustCompile(`[a-z]`)
	digit := regexp.MustCompile(`\d`)
	specialChar := regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>\/?]`)

	// Check if password meets all conditions
	if !uppercase.MatchString(password) {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !lowercase.MatchString(password) {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !digit.MatchString(password) {
		return fmt.Errorf("password must contain at least one digit")
	}
	if !specialChar.MatchString(password) {
		return fmt.Errorf("password must contain at least one special character")
	}

	return nil
}

// DateLayout is the format of the due_date form field.
const DateLayout = "2006-01-02"

// ParseTaskForm reads the editor fields from a submitted form. Missing fields
// keep the values in base.
func ParseTaskForm(r *http.Request, base models.TaskFields) (models.TaskFields, error) {
	if err := r.ParseForm(); err != nil {
		return base, fmt.Errorf("invalid form: %w", err)
	}
	f := base
	if r.Form.Has("title") {
		f.Title = r.FormValue("title")
	}
	if r.Form.Has("body") {
		f.Body = r.FormValue("body")
	}
	if v := strings.TrimSpace(r.FormValue("due_date")); v != "" {
		due, err := time.Parse(DateLayout, v)
		if err != nil {
			return base, errors.New("due date must look like 2006-01-02")
		}
		f.DueDate = due
	}
	if v := r.FormValue("category"); v != "" {
		c, err := models.ParseCategory(v)
		if err != nil {
			return base, err
		}
		f.Category = c
	}
	return f, nil
}

func SamePassword(password string, confirmedPassword string) bool {
	return password == confirmedPassword
}
