package todo

import (
	"context"
	"log"

	"todolist/models"

	"github.com/google/uuid"
)

type Screen string

const (
	ScreenHome  Screen = "home"
	ScreenLogin Screen = "login"
)

// SessionSource reports who is signed in, if anyone.
type SessionSource interface {
	CurrentSession(ctx context.Context) (*models.Session, error)
}

// InitialScreen looks at the auth state once and picks the first screen.
// The decision is not revisited afterwards.
func InitialScreen(ctx context.Context, src SessionSource) (Screen, *models.Session) {
	sess, err := src.CurrentSession(ctx)
	if err != nil {
		log.Println("initial screen: no session:", err)
		return ScreenLogin, nil
	}
	if sess.Owner() == uuid.Nil {
		return ScreenLogin, nil
	}
	return ScreenHome, sess
}
