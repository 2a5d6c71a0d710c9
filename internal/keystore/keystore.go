// Package keystore persists the bearer credential pair between runs.
// It is the client-side analog of the browser's durable storage: two string
// values under fixed keys, always cleared together.
package keystore

import (
	"errors"
	"fmt"

	"github.com/sinanfen/to-dogether-web-sub000/internal/config"
	"go.uber.org/zap"
)

// Fixed keys under which the two credentials are stored
const (
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
)

// ErrCorrupted is returned when the persisted credential data cannot be read
var ErrCorrupted = errors.New("credential store is corrupted")

// Pair is the bearer credential pair. Either value may be empty.
type Pair struct {
	Access  string
	Refresh string
}

// Store defines the interface for credential persistence.
// Clear removes both values together and is safe to call when nothing is
// stored.
type Store interface {
	Pair() (Pair, error)
	StoreAccess(token string) error
	StoreRefresh(token string) error
	Clear() error
}

// New creates a store based on configuration.
// For file mode, credentials are kept in a JSON file with owner-only
// permissions. For sqlite mode, they are kept in a local database file.
func New(cfg *config.KeystoreConfig, logger *zap.Logger) (Store, error) {
	switch cfg.Mode {
	case "file":
		path, err := cfg.ResolvePath()
		if err != nil {
			return nil, err
		}
		return NewFileStore(path)
	case "sqlite":
		path, err := cfg.ResolvePath()
		if err != nil {
			return nil, err
		}
		return NewSQLiteStore(path, logger)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported keystore mode: %s", cfg.Mode)
	}
}
