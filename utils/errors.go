package utils

import (
	"errors"

	"todolist/todo"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailInUse         = errors.New("email address is already registered")
	ErrUnknownEmail       = errors.New("there is no account with this email address")
	ErrInvalidResetCode   = errors.New("invalid or expired reset code")
	ErrNoSession          = errors.New("no session")
	ErrTaskNotFound       = todo.ErrTaskNotFound
)

// AuthError is a failed account operation. Its message is meant for the user.
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string { return e.Err.Error() }
func (e *AuthError) Unwrap() error { return e.Err }

// StoreError is a failed read or write against the task store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *StoreError) Unwrap() error { return e.Err }
