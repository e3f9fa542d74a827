// Package session holds the client's bearer credential and the forced
// termination contract: an auth failure anywhere mid-flight terminates the
// session and routes the user back to login, it is never retried.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Session is the explicit session object passed to the components that need
// a credential. It is not process-wide state; the gateway receives it as a
// credential provider and the store triggers Terminate through it.
type Session struct {
	mu    sync.Mutex
	token string
	path  string // token file, empty for in-memory only

	onTerminate []func()
}

func New() *Session {
	return &Session{}
}

// NewFromFile restores the session from a token file, if one exists. A
// missing file is a logged-out session, not an error.
func NewFromFile(path string) (*Session, error) {
	s := &Session{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read token file: %w", err)
	}
	s.token = strings.TrimSpace(string(data))
	return s, nil
}

// OnTerminate registers a hook fired whenever the session is terminated.
// Hooks run outside the session lock.
func (s *Session) OnTerminate(fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.onTerminate = append(s.onTerminate, fn)
	s.mu.Unlock()
}

func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// SetToken stores a fresh credential and persists it when the session is
// file-backed.
func (s *Session) SetToken(token string) error {
	s.mu.Lock()
	s.token = token
	path := s.path
	s.mu.Unlock()

	if path == "" {
		return nil
	}
	return writeTokenFile(path, token)
}

// Terminate clears the credential, removes the token file and fires the
// termination hooks. Safe to call more than once.
func (s *Session) Terminate() {
	s.mu.Lock()
	hadToken := s.token != ""
	s.token = ""
	path := s.path
	hooks := append([]func(){}, s.onTerminate...)
	s.mu.Unlock()

	if path != "" {
		_ = os.Remove(path)
	}
	if !hadToken {
		return
	}
	for _, fn := range hooks {
		fn()
	}
}

func writeTokenFile(path, token string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename token file: %w", err)
	}
	return nil
}
