package artifact

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FSStore maps logical keys onto files under a root directory. Used for dev
// runs and CLI defaults where no bucket is configured.
type FSStore struct {
	root string
}

// NewFSStore returns a store rooted at dir, creating it if needed.
func NewFSStore(dir string) (*FSStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("artifact: fs store root is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &StorageError{Op: "open", Key: dir, Err: err}
	}
	return &FSStore{root: dir}, nil
}

func (s *FSStore) path(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(strings.TrimPrefix(key, "/")))
}

func (s *FSStore) Exists(_ context.Context, key string) (bool, error) {
	_, err := os.Stat(s.path(key))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case errors.Is(err, fs.ErrPermission):
		return false, fmt.Errorf("%w: %s", ErrPermission, key)
	default:
		return false, &StorageError{Op: "exists", Key: key, Err: err}
	}
}

func (s *FSStore) GetBytes(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	switch {
	case err == nil:
		return data, nil
	case errors.Is(err, fs.ErrNotExist):
		return nil, ErrNotFound
	case errors.Is(err, fs.ErrPermission):
		return nil, fmt.Errorf("%w: %s", ErrPermission, key)
	default:
		return nil, &StorageError{Op: "get", Key: key, Err: err}
	}
}

func (s *FSStore) PutBytes(_ context.Context, key string, data []byte) error {
	p := s.path(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return &StorageError{Op: "put", Key: key, Err: err}
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return fmt.Errorf("%w: %s", ErrPermission, key)
		}
		return &StorageError{Op: "put", Key: key, Err: err}
	}
	return nil
}

func (s *FSStore) Stat(ctx context.Context, key string) (Info, error) {
	fi, err := os.Stat(s.path(key))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return Info{}, ErrNotFound
	case errors.Is(err, fs.ErrPermission):
		return Info{}, fmt.Errorf("%w: %s", ErrPermission, key)
	case err != nil:
		return Info{}, &StorageError{Op: "stat", Key: key, Err: err}
	}
	// Version from content, not mtime: rewriting identical bytes must not
	// invalidate a token held by a concurrent run.
	data, err := s.GetBytes(ctx, key)
	if err != nil {
		return Info{}, err
	}
	return Info{Key: key, Size: fi.Size(), Version: contentVersion(data)}, nil
}

// PutBytesIf implements ConditionalStore with a read-compare-write. This is
// not atomic against writers outside this process; it exists so dev runs
// exercise the same code path as the S3 conditional write.
func (s *FSStore) PutBytesIf(ctx context.Context, key string, data []byte, version string) error {
	current, err := s.GetBytes(ctx, key)
	switch {
	case errors.Is(err, ErrNotFound):
		if version != "" {
			return ErrPrecondition
		}
	case err != nil:
		return err
	case contentVersion(current) != version:
		return ErrPrecondition
	}
	return s.PutBytes(ctx, key, data)
}
