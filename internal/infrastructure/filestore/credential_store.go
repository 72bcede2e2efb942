// Package filestore keeps vetctl sessions as JSON files in the user's home
// directory, one file per profile.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/salvaclients/vet-admin/internal/core/domain"
)

const dirName = ".vetctl"

var validSID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// CredentialStore writes <dir>/<sid>.json with mode 0600.
type CredentialStore struct {
	dir string
}

// New uses home/.vetctl, where home defaults to the user's home directory.
func New(home string) (*CredentialStore, error) {
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
	}

	dir := filepath.Join(home, dirName)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}
	return &CredentialStore{dir: dir}, nil
}

func (s *CredentialStore) Save(_ context.Context, sid string, session domain.Session) error {
	path, err := s.path(sid)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	// Write then rename so a crash never leaves half a session behind.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func (s *CredentialStore) Load(_ context.Context, sid string) (*domain.Session, error) {
	path, err := s.path(sid)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrNoSession
		}
		return nil, fmt.Errorf("read session: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}

func (s *CredentialStore) Clear(_ context.Context, sid string) error {
	path, err := s.path(sid)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

func (s *CredentialStore) path(sid string) (string, error) {
	if !validSID.MatchString(sid) {
		return "", fmt.Errorf("invalid profile name %q", sid)
	}
	return filepath.Join(s.dir, sid+".json"), nil
}
