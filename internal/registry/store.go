// Package registry persists the user/category/network document.
//
// The registry is a single JSON file read fully into memory, mutated, and
// rewritten wholesale on every change. All mutations run inside one critical
// section and writes go through a temp file plus atomic rename, so two
// near-simultaneous generation runs cannot interleave and a crash mid-write
// cannot leave a corrupt document behind.
package registry

import (
	"encoding/json/jsontext"
	"encoding/json/v2"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/myshelfapp/myshelf-server/internal/domain"
	"github.com/myshelfapp/myshelf-server/internal/errors"
)

// Store owns the registry document on disk.
type Store struct {
	path   string
	logger *slog.Logger
	mu     sync.Mutex
}

// New creates a store for the registry document at path.
func New(path string, logger *slog.Logger) *Store {
	return &Store{
		path:   path,
		logger: logger,
	}
}

// Path returns the location of the registry document.
func (s *Store) Path() string {
	return s.path
}

// Load reads the whole document. A missing file is the first-run bootstrap
// state and yields an empty document; a malformed-but-present file is an
// error and is never silently replaced.
func (s *Store) Load() (*domain.Registry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() (*domain.Registry, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.logger.Debug("registry file missing, starting empty", "path", s.path)
		return domain.NewRegistry(), nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "read registry")
	}

	var reg domain.Registry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "registry document is malformed")
	}
	if reg.Categories == nil {
		reg.Categories = map[string]domain.CategoryInfo{}
	}
	if reg.Users == nil {
		reg.Users = []domain.UserProfile{}
	}
	return &reg, nil
}

// save rewrites the whole document: marshal pretty-printed UTF-8 JSON to a
// temp file in the same directory, then rename over the target.
func (s *Store) save(reg *domain.Registry) error {
	data, err := json.Marshal(reg, jsontext.WithIndent("  "))
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "encode registry")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "create registry directory")
	}

	tmp, err := os.CreateTemp(dir, ".users-*.json")
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "create registry temp file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(err, errors.CodeInternal, "write registry temp file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, errors.CodeInternal, "close registry temp file")
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, errors.CodeInternal, "replace registry file")
	}
	return nil
}

// Update runs fn on the current document and persists the result, all inside
// one critical section. If fn returns an error nothing is written.
func (s *Store) Update(fn func(*domain.Registry) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(reg); err != nil {
		return err
	}
	return s.save(reg)
}

// ListUsers returns all user profiles, or an empty slice when the registry
// file does not exist yet.
func (s *Store) ListUsers() ([]domain.UserProfile, error) {
	reg, err := s.Load()
	if err != nil {
		return nil, err
	}
	return reg.Users, nil
}

// Categories returns the static category table from the registry document.
func (s *Store) Categories() (map[string]domain.CategoryInfo, error) {
	reg, err := s.Load()
	if err != nil {
		return nil, err
	}
	return reg.Categories, nil
}

// PublishProfile upserts the profile, rebuilds its network node, and infers
// shared-specialization edges against every other user, as one atomic
// load-mutate-save.
func (s *Store) PublishProfile(profile *domain.UserProfile) error {
	return s.Update(func(reg *domain.Registry) error {
		replaced := UpsertUser(reg, profile)
		UpsertNode(reg, profile)
		added := ConnectUsers(reg, profile)

		if replaced {
			s.logger.Info("updated existing user", "user_id", profile.ID)
		} else {
			s.logger.Info("added new user", "user_id", profile.ID)
		}
		if added > 0 {
			s.logger.Info("created network connections", "user_id", profile.ID, "edges", added)
		}
		return nil
	})
}

// DeleteUser removes the user, its network node, and all incident edges.
// Returns a not-found error when the ID is absent; the document is then left
// unmodified.
func (s *Store) DeleteUser(id string) error {
	return s.Update(func(reg *domain.Registry) error {
		idx := reg.FindUser(id)
		if idx < 0 {
			return errors.NotFoundf("user %q not found", id)
		}
		reg.Users = append(reg.Users[:idx], reg.Users[idx+1:]...)
		RemoveNode(reg, id)
		return nil
	})
}
