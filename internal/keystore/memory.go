package keystore

import "sync"

// MemoryStore keeps the credential pair in process memory only.
// Used by tests and for explicitly ephemeral sessions.
type MemoryStore struct {
	mu   sync.Mutex
	pair Pair
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Pair returns the current credential pair
func (s *MemoryStore) Pair() (Pair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pair, nil
}

// StoreAccess stores the access token
func (s *MemoryStore) StoreAccess(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair.Access = token
	return nil
}

// StoreRefresh stores the refresh token
func (s *MemoryStore) StoreRefresh(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair.Refresh = token
	return nil
}

// Clear removes both tokens
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = Pair{}
	return nil
}
