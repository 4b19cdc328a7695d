package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// FilesystemStore keeps images in a flat directory, with staged uploads in a
// "staging" subdirectory so readers never see half-written files. Promotion
// is a rename, which is atomic on the same filesystem.
type FilesystemStore struct {
	dir     string
	staging string
}

// NewFilesystemStore creates the image and staging directories if needed.
func NewFilesystemStore(dir string) (*FilesystemStore, error) {
	staging := filepath.Join(dir, "staging")
	if err := os.MkdirAll(staging, 0o755); err != nil {
		return nil, fmt.Errorf("creating image directory: %w", err)
	}
	return &FilesystemStore{dir: dir, staging: staging}, nil
}

func (s *FilesystemStore) Stage(ctx context.Context, r io.Reader) (Staged, error) {
	path := filepath.Join(s.staging, uuid.NewString())

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("creating staged file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("writing staged file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("closing staged file: %w", err)
	}

	return &stagedFile{store: s, path: path}, nil
}

func (s *FilesystemStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	clean, err := SanitizeName(name)
	if err != nil {
		return nil, ErrImageNotFound
	}

	f, err := os.Open(filepath.Join(s.dir, clean))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrImageNotFound
		}
		return nil, err
	}
	return f, nil
}

type stagedFile struct {
	store *FilesystemStore
	path  string
}

func (st *stagedFile) Promote(ctx context.Context, name string) error {
	clean, err := SanitizeName(name)
	if err != nil {
		return err
	}
	if err := os.Rename(st.path, filepath.Join(st.store.dir, clean)); err != nil {
		return fmt.Errorf("promoting staged file: %w", err)
	}
	return nil
}

func (st *stagedFile) Discard(ctx context.Context) error {
	if err := os.Remove(st.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
