// internal/auth/token.go
package auth

import (
	"encoding/json"
	"errors"
	"os"
	"sync"

	"golang.org/x/oauth2"
)

// TokenStore holds the bearer token the console attaches to backend calls.
// When a path is configured the token is persisted as an oauth2.Token JSON
// file; otherwise it lives in memory only. A 401/403 from any service clears
// it so the operator is routed back through re-authentication.
type TokenStore struct {
	mu    sync.Mutex
	path  string
	token *oauth2.Token
}

// NewTokenStore creates a store backed by path, or in-memory when path is
// empty. A missing or unreadable file is treated as "no token".
func NewTokenStore(path string) *TokenStore {
	s := &TokenStore{path: path}
	if path == "" {
		return s
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return s
	}
	s.token = &tok
	return s
}

// AccessToken returns the current bearer token, or "" when none is stored.
func (s *TokenStore) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == nil {
		return ""
	}
	return s.token.AccessToken
}

// Save stores a new bearer token and persists it when a path is configured.
func (s *TokenStore) Save(accessToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}
	if s.path == "" {
		return nil
	}

	data, err := json.Marshal(s.token)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Clear drops the stored token, removing the backing file when present.
func (s *TokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = nil
	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
