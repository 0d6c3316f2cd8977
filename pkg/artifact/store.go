package artifact

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dd0wney/cluso-hydrograph/pkg/metrics"
	"github.com/dd0wney/cluso-hydrograph/pkg/network"
)

// Store persists artifact bytes under string keys. Get returns an error
// matching fs.ErrNotExist when the key is absent.
type Store interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
}

const filePermissions = 0o644

var errInvalidKey = errors.New("invalid artifact key")

// LocalStore keeps artifacts as files below a root directory.
type LocalStore struct {
	root string
}

// NewLocalStore creates a store rooted at dir.
func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{root: dir}
}

func (s *LocalStore) path(key string) (string, error) {
	if key == "" || !filepath.IsLocal(filepath.FromSlash(key)) {
		return "", fmt.Errorf("%w: %q", errInvalidKey, key)
	}
	return filepath.Join(s.root, filepath.FromSlash(key)), nil
}

// Put writes data atomically: a temporary file in the target directory is
// renamed over the final path.
func (s *LocalStore) Put(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, filePermissions); err != nil {
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename artifact: %w", err)
	}
	return nil
}

// Get reads the artifact stored under key.
func (s *LocalStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", key, err)
	}
	return data, nil
}

// instrumentedStore records metrics for every operation of the wrapped store.
type instrumentedStore struct {
	next    Store
	backend string
	metrics *metrics.Registry
}

// Instrument wraps s so each Put and Get is counted under backend.
func Instrument(s Store, backend string, m *metrics.Registry) Store {
	if m == nil {
		return s
	}
	return &instrumentedStore{next: s, backend: backend, metrics: m}
}

func (s *instrumentedStore) Put(ctx context.Context, key string, data []byte) error {
	err := s.next.Put(ctx, key, data)
	s.metrics.RecordArtifactOperation("put", s.backend, err, len(data))
	return err
}

func (s *instrumentedStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.next.Get(ctx, key)
	s.metrics.RecordArtifactOperation("get", s.backend, err, len(data))
	return data, err
}

// Save encodes g and stores it under key.
func Save(ctx context.Context, store Store, key string, g *network.Graph) error {
	data, err := Marshal(g)
	if err != nil {
		return err
	}
	return store.Put(ctx, key, data)
}

// Load fetches and decodes the graph stored under key.
func Load(ctx context.Context, store Store, key string) (*network.Graph, error) {
	data, err := store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data)
}

// IsNotExist reports whether err means the artifact is absent.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// Key joins path elements into a store key using forward slashes.
func Key(parts ...string) string {
	return strings.Join(parts, "/")
}
