// Package auth manages the logged-in session. Identity and token live in an
// external key-value keyring (the mobile shell's secure storage); this store
// only reads and writes it through the Keyring interface.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"

	"tiffinbox/internal/api"
	"tiffinbox/internal/models"
)

// Keyring is the persisted key-value store for session state.
type Keyring interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// ErrKeyNotFound is returned by Keyring implementations for absent keys.
var ErrKeyNotFound = errors.New("key not found")

// Storage keys, matching the mobile client's.
const (
	keyUser  = "user"
	keyToken = "token"
)

// API is the slice of the backend client the store needs.
type API interface {
	Login(ctx context.Context, phone, password string) (*api.Session, error)
	Register(ctx context.Context, req api.RegisterRequest) error
}

// Store holds the current session.
type Store struct {
	mu      sync.RWMutex
	api     API
	ring    Keyring
	user    *models.User
	token   string
	onToken func(token string)
	now     func() time.Time
}

// NewStore creates a logged-out session store. onToken, when non-nil, is
// invoked with the active token on login, restore, and logout (empty
// string), so the API client can pick it up.
func NewStore(backend API, ring Keyring, onToken func(token string)) *Store {
	return &Store{
		api:     backend,
		ring:    ring,
		onToken: onToken,
		now:     time.Now,
	}
}

// CheckLoginStatus restores a persisted session. Any failure here degrades
// to "treat as logged out" rather than surfacing an error; a missing or
// unreadable keyring must not block app start.
func (s *Store) CheckLoginStatus() {
	userData, err := s.ring.Get(keyUser)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			log.Printf("auth: error checking login status: %v", err)
		}
		return
	}
	token, err := s.ring.Get(keyToken)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			log.Printf("auth: error checking login status: %v", err)
		}
		return
	}

	var user models.User
	if err := json.Unmarshal([]byte(userData), &user); err != nil {
		log.Printf("auth: discarding unreadable persisted user: %v", err)
		return
	}

	if tokenExpired(token, s.now()) {
		log.Printf("auth: persisted session expired, logging out")
		s.clearKeyring()
		return
	}

	s.mu.Lock()
	s.user = &user
	s.token = token
	s.mu.Unlock()
	s.notifyToken(token)
}

// tokenExpired peeks at the token's exp claim without verifying the
// signature; the server remains the authority on validity. Tokens that are
// not JWTs are treated as opaque and kept.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return false
	}
	return !claims.VerifyExpiresAt(now.Unix(), false)
}

// Login authenticates and persists the session. The returned error is the
// caller-facing failure; the keyring write is best effort.
func (s *Store) Login(ctx context.Context, phone, password string) error {
	session, err := s.api.Login(ctx, phone, password)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.user = &session.User
	s.token = session.Token
	s.mu.Unlock()
	s.notifyToken(session.Token)

	if data, err := json.Marshal(session.User); err == nil {
		if err := s.ring.Set(keyUser, string(data)); err != nil {
			log.Printf("auth: persisting user: %v", err)
		}
	}
	if err := s.ring.Set(keyToken, session.Token); err != nil {
		log.Printf("auth: persisting token: %v", err)
	}
	return nil
}

// Register creates an account. The caller logs in afterwards.
func (s *Store) Register(ctx context.Context, req api.RegisterRequest) error {
	if req.Role == "" {
		req.Role = models.RoleCustomer
	}
	return s.api.Register(ctx, req)
}

// Logout drops the session and clears persisted state.
func (s *Store) Logout() {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.mu.Unlock()
	s.notifyToken("")
	s.clearKeyring()
}

func (s *Store) clearKeyring() {
	if err := s.ring.Delete(keyUser); err != nil && !errors.Is(err, ErrKeyNotFound) {
		log.Printf("auth: clearing user: %v", err)
	}
	if err := s.ring.Delete(keyToken); err != nil && !errors.Is(err, ErrKeyNotFound) {
		log.Printf("auth: clearing token: %v", err)
	}
}

func (s *Store) notifyToken(token string) {
	if s.onToken != nil {
		s.onToken(token)
	}
}

// User returns the logged-in user, or nil.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Token returns the active bearer token, empty when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// LoggedIn reports whether a user identity is present.
func (s *Store) LoggedIn() bool {
	return s.User() != nil
}
