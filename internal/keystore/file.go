package keystore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// credentialFile is the on-disk JSON shape
type credentialFile struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// FileStore persists the credential pair in a JSON file with owner-only
// permissions. Writes go through a temp file and rename so a crash never
// leaves a half-written credential file behind.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a file-backed store at the given path.
// The parent directory is created if it does not exist.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create keystore directory: %w", err)
	}
	return &FileStore{path: path}, nil
}

// Pair returns the persisted credential pair.
// A missing file yields an empty pair, not an error.
func (s *FileStore) Pair() (Pair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// StoreAccess persists the access token, preserving the refresh token
func (s *FileStore) StoreAccess(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pair, err := s.read()
	if err != nil {
		return err
	}
	pair.Access = token
	return s.write(pair)
}

// StoreRefresh persists the refresh token, preserving the access token
func (s *FileStore) StoreRefresh(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pair, err := s.read()
	if err != nil {
		return err
	}
	pair.Refresh = token
	return s.write(pair)
}

// Clear removes the credential file. Clearing an empty store is a no-op.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to clear credential file: %w", err)
	}
	return nil
}

func (s *FileStore) read() (Pair, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Pair{}, nil
		}
		return Pair{}, fmt.Errorf("failed to read credential file: %w", err)
	}

	var file credentialFile
	if err := json.Unmarshal(data, &file); err != nil {
		return Pair{}, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}

	return Pair{Access: file.AccessToken, Refresh: file.RefreshToken}, nil
}

func (s *FileStore) write(pair Pair) error {
	data, err := json.Marshal(credentialFile{
		AccessToken:  pair.Access,
		RefreshToken: pair.Refresh,
	})
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".credentials-*")
	if err != nil {
		return fmt.Errorf("failed to create temp credential file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to set credential file permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp credential file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace credential file: %w", err)
	}
	return nil
}
