package utils

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"strings"

	"todolist/models"

	"github.com/redis/go-redis/v9"
)

func CookieExists(r *http.Request, name string) bool {
	st, err := r.Cookie(name)
	return err == nil && st.Value != ""
}

// GetUserAgent returns the User-Agent string from the request
func GetUserAgent(r *http.Request) string {
	return r.Header.Get("User-Agent")
}

// GetIP returns the client address: the first X-Forwarded-For hop if present,
// otherwise the host part of RemoteAddr.
func GetIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RequestSessions resolves the session carried by a request's cookie.
type RequestSessions struct {
	R      *http.Request
	Client *redis.Client
}

// CurrentSession returns nil without error when the request is signed out.
func (s RequestSessions) CurrentSession(_ context.Context) (*models.Session, error) {
	st, err := s.R.Cookie("session_token")
	if err != nil || st.Value == "" {
		return nil, nil
	}
	session, err := GetSession(s.Client, st.Value)
	if errors.Is(err, ErrNoSession) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := UpdateLastActivityRedis(s.Client, st.Value); err != nil {
		log.Printf("failed to touch session for user %s: %v", session.UserID, err)
	}
	return session, nil
}

// RedisSessions looks up request sessions in Redis for the HTTP handlers.
type RedisSessions struct {
	Client *redis.Client
}

func (s RedisSessions) CurrentSession(r *http.Request) (*models.Session, error) {
	return RequestSessions{R: r, Client: s.Client}.CurrentSession(r.Context())
}

func (s RedisSessions) Authorize(r *http.Request) (*models.Session, error) {
	return Authorize(r, s.Client)
}
