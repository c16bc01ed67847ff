package store

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/flavono123/peek/internal/config"
)

var ErrNotFound = errors.New("session not found")

// sessionStore is the JSON file structure.
type sessionStore struct {
	Sessions []Session `json:"sessions"`
}

// Store persists sessions in a JSON file.
type Store struct {
	path string
	data *sessionStore
	mu   sync.RWMutex
	now  func() time.Time
}

// StoreOptions configures the store.
type StoreOptions struct {
	DevMode bool
	// Dir overrides the user config directory.
	Dir string
}

// NewStore creates a new store with the default path.
func NewStore(opts ...StoreOptions) (*Store, error) {
	var opt StoreOptions
	if len(opts) > 0 {
		opt = opts[0]
	}

	dir := opt.Dir
	if dir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}
		appDir := config.AppID
		if opt.DevMode {
			appDir = config.AppID + "-dev"
		}
		dir = filepath.Join(configDir, appDir)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	return &Store{
		path: filepath.Join(dir, "sessions.json"),
		data: &sessionStore{Sessions: []Session{}},
		now:  time.Now,
	}, nil
}

func (s *Store) Path() string {
	return s.path
}

// Load reads the store from disk.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.data = &sessionStore{Sessions: []Session{}}
		return nil
	}
	if err != nil {
		return err
	}

	var store sessionStore
	if err := json.Unmarshal(data, &store); err != nil {
		// Backup corrupted file and start fresh
		backupPath := s.path + ".backup." + s.now().Format("20060102150405")
		_ = os.WriteFile(backupPath, data, 0644)
		s.data = &sessionStore{Sessions: []Session{}}
		return nil
	}
	if store.Sessions == nil {
		store.Sessions = []Session{}
	}

	s.data = &store
	return nil
}

// Save writes the store to disk.
func (s *Store) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0644)
}

// ListAll returns all sessions, most recently updated first.
func (s *Store) ListAll() []Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Session, len(s.data.Sessions))
	copy(result, s.data.Sessions)
	slices.SortStableFunc(result, func(a, b Session) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	return result
}

// Get returns a session by ID.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, v := range s.data.Sessions {
		if v.ID == id {
			return &v, nil
		}
	}
	return nil, ErrNotFound
}

// FindBySource returns the session remembered for source.
func (s *Store) FindBySource(source string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, v := range s.data.Sessions {
		if v.Source == source {
			return &v, nil
		}
	}
	return nil, ErrNotFound
}

// Upsert records the expanded ids of source, creating its session on
// first use.
func (s *Store) Upsert(source string, expanded []string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := slices.Clone(expanded)
	now := s.now()

	for i := range s.data.Sessions {
		if s.data.Sessions[i].Source == source {
			s.data.Sessions[i].Expanded = ids
			s.data.Sessions[i].UpdatedAt = now
			result := s.data.Sessions[i]
			return &result, nil
		}
	}

	session := Session{
		ID:        uuid.New().String(),
		Source:    source,
		Expanded:  ids,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.data.Sessions = append(s.data.Sessions, session)
	return &session, nil
}

// Delete removes a session by ID.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, v := range s.data.Sessions {
		if v.ID == id {
			s.data.Sessions = append(s.data.Sessions[:i], s.data.Sessions[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
