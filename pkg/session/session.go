// Package session holds the admin's credential and identity, persisted across
// runs so the CLI does not require logging in before every command.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"
)

const (
	sessionDirName  = ".streetcause-admin"
	sessionFileName = "session.json"
	sessionFilePerm = 0600 // Read/write for owner only
	sessionDirPerm  = 0700 // Read/write/execute for owner only
)

// Session is the persisted session state: an opaque bearer token and the
// admin identity it was issued for. Both are empty when logged out.
type Session struct {
	Token string `json:"accessToken"`
	Email string `json:"email"`
}

// Store is the single source of truth for the logged-in admin. All mutations
// go through Set/Clear, which persist the new state and notify subscribers.
type Store struct {
	mu      sync.Mutex
	current Session
	path    string
	subs    map[int]func(Session)
	nextSub int
}

// NewStore creates a store persisting to the default location in the user's
// home directory.
func NewStore() (*Store, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	return NewStoreAt(filepath.Join(homeDir, sessionDirName, sessionFileName)), nil
}

// NewStoreAt creates a store persisting to the given file path.
func NewStoreAt(path string) *Store {
	return &Store{
		path: path,
		subs: make(map[int]func(Session)),
	}
}

// Load restores a previously persisted session from disk. A missing file is
// not an error - it just means no one is logged in.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read session file: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return fmt.Errorf("failed to parse session file: %w", err)
	}

	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()

	return nil
}

// Set replaces the current session atomically and persists it.
func (s *Store) Set(token, email string) error {
	s.mu.Lock()
	s.current = Session{Token: token, Email: email}
	snapshot := s.current
	s.mu.Unlock()

	s.notify(snapshot)

	if err := s.save(snapshot); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

// Clear wipes the credential and identity and removes the persisted file.
// After Clear, no outbound request may attach the previous credential.
func (s *Store) Clear() error {
	s.mu.Lock()
	s.current = Session{}
	s.mu.Unlock()

	s.notify(Session{})

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

// Authenticated reports whether a credential is present.
func (s *Store) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Token != ""
}

// Current returns a copy of the session state.
func (s *Store) Current() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Subscribe registers a callback invoked on every session change. It returns
// an unsubscribe function. Callbacks run outside the store lock, so they may
// call back into the store.
func (s *Store) Subscribe(fn func(Session)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// TokenSource returns an oauth2.TokenSource view of the store for request
// authentication. Token returns (nil, nil) while logged out, which callers
// must treat as "attach no credential".
func (s *Store) TokenSource() oauth2.TokenSource {
	return tokenSource{store: s}
}

func (s *Store) notify(sess Session) {
	s.mu.Lock()
	fns := make([]func(Session), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(sess)
	}
}

func (s *Store) save(sess Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), sessionDirPerm); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.WriteFile(s.path, data, sessionFilePerm); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

type tokenSource struct {
	store *Store
}

func (ts tokenSource) Token() (*oauth2.Token, error) {
	sess := ts.store.Current()
	if sess.Token == "" {
		return nil, nil
	}
	return &oauth2.Token{AccessToken: sess.Token}, nil
}
