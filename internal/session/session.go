// Package session persists the API bearer token between runs.
package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// FileName is the token file inside the application home directory.
const FileName = "token"

// Claims are the fields the API puts in its tokens. The client never holds
// the signing key, so claims are read without verification and only used
// for display and expiry checks.
type Claims struct {
	UserID string `json:"id"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Store keeps the token in memory and mirrors it to a 0600 file.
type Store struct {
	mu    sync.RWMutex
	path  string
	token string
	now   func() time.Time
}

// Open loads any saved token from dir.
func Open(dir string) (*Store, error) {
	s := &Store{path: filepath.Join(dir, FileName), now: time.Now}
	b, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read token: %w", err)
	default:
		s.token = strings.TrimSpace(string(b))
	}
	return s, nil
}

// Token returns the stored token, or "" when none is stored or it has
// expired.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" || s.expiredLocked() {
		return ""
	}
	return s.token
}

// Save stores token in memory and on disk.
func (s *Store) Save(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("save token: empty token")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	s.token = token
	return nil
}

// Clear forgets the token.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}

// Claims decodes the stored token's claims.
func (s *Store) Claims() (*Claims, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return nil, ErrNoSession
	}
	return parseClaims(s.token)
}

// ExpiresAt returns the token expiry, or zero when it has none.
func (s *Store) ExpiresAt() time.Time {
	c, err := s.Claims()
	if err != nil || c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// ErrNoSession means no token is stored.
var ErrNoSession = errors.New("not logged in")

func (s *Store) expiredLocked() bool {
	c, err := parseClaims(s.token)
	if err != nil || c.ExpiresAt == nil {
		// Opaque tokens are left for the API to judge.
		return false
	}
	return !s.now().Before(c.ExpiresAt.Time)
}

func parseClaims(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	return claims, nil
}
