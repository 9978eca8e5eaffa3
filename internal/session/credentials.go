package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mcoot/cybersnake/internal/model"
)

// CredentialStore remembers the last credential that started a game
type CredentialStore interface {
	// Load returns the saved credential. ok is false when nothing is saved.
	Load() (cred model.Credential, ok bool, err error)
	Save(cred model.Credential) error
}

// FileCredentialStore keeps the credential in a JSON file readable only by
// the owner
type FileCredentialStore struct {
	path string
}

// NewFileCredentialStore creates a store backed by path
func NewFileCredentialStore(path string) *FileCredentialStore {
	return &FileCredentialStore{path: path}
}

// DefaultCredentialsFile returns ~/.cybersnake/credentials.json, falling
// back to a relative path when there is no home directory
func DefaultCredentialsFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".cybersnake", "credentials.json")
	}
	return filepath.Join(home, ".cybersnake", "credentials.json")
}

// Path returns the backing file
func (s *FileCredentialStore) Path() string {
	return s.path
}

// Load reads the saved credential
func (s *FileCredentialStore) Load() (model.Credential, bool, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return model.Credential{}, false, nil
	}
	if err != nil {
		return model.Credential{}, false, fmt.Errorf("read credentials: %w", err)
	}

	var cred model.Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return model.Credential{}, false, fmt.Errorf("parse credentials: %w", err)
	}
	return cred, cred.IsComplete(), nil
}

// Save writes the credential to a temp file in the same directory and
// renames it over the previous one
func (s *FileCredentialStore) Save(cred model.Credential) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create credentials dir: %w", err)
	}
	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}

	// CreateTemp opens the file with mode 0600
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp credentials: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write credentials: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace credentials: %w", err)
	}
	return nil
}
