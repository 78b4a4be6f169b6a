// Package auth handles staff login and bearer-token sessions. Passwords are
// stored as bcrypt hashes; session tokens live in memory and expire after a
// configurable TTL.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Adnan1921/radnja-tracker/internal/access"
)

// ErrInvalidCredentials is the single login failure. Wrong username and
// wrong password are indistinguishable on purpose.
var ErrInvalidCredentials = errors.New("wrong username or password")

// ErrNoSession is returned when a token is unknown or expired.
var ErrNoSession = errors.New("no active session")

// User is one staff account.
type User struct {
	Username     string
	PasswordHash string
	Role         access.Role
}

// UserStore is the persistence contract for staff accounts.
type UserStore interface {
	// GetUser returns the account or an error wrapping sql.ErrNoRows /
	// an equivalent not-found error.
	GetUser(ctx context.Context, username string) (User, error)

	// CreateUser inserts the account if the username is free. Inserting
	// an existing username is a no-op.
	CreateUser(ctx context.Context, u User) error
}

type session struct {
	identity  access.Identity
	expiresAt time.Time
}

// Service authenticates users and tracks their sessions.
type Service struct {
	users UserStore
	ttl   time.Duration
	now   func() time.Time

	mu       sync.Mutex
	sessions map[string]session
}

// NewService builds an auth service with the given session lifetime.
func NewService(users UserStore, ttl time.Duration) *Service {
	return &Service{
		users:    users,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]session),
	}
}

// Login verifies the credentials and opens a session, returning its token.
func (s *Service) Login(ctx context.Context, username, password string) (string, access.Identity, error) {
	user, err := s.users.GetUser(ctx, username)
	if err != nil {
		return "", access.Identity{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", access.Identity{}, ErrInvalidCredentials
	}

	token, err := newToken()
	if err != nil {
		return "", access.Identity{}, fmt.Errorf("failed to generate session token: %w", err)
	}
	identity := access.Identity{Username: user.Username, Role: user.Role}

	s.mu.Lock()
	s.pruneLocked()
	s.sessions[token] = session{identity: identity, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()

	return token, identity, nil
}

// Identify resolves a bearer token to the logged-in identity.
func (s *Service) Identify(token string) (access.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok || s.now().After(sess.expiresAt) {
		delete(s.sessions, token)
		return access.Identity{}, ErrNoSession
	}
	return sess.identity, nil
}

// Logout discards the session. Unknown tokens are ignored.
func (s *Service) Logout(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// pruneLocked drops expired sessions. Caller holds mu.
func (s *Service) pruneLocked() {
	now := s.now()
	for token, sess := range s.sessions {
		if now.After(sess.expiresAt) {
			delete(s.sessions, token)
		}
	}
}

func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// HashPassword bcrypt-hashes a plaintext password for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
