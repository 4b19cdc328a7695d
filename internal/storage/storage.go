package storage

import (
	"context"
	"errors"
	"io"
	"strings"
)

var (
	ErrImageNotFound = errors.New("image not found")
	ErrEmptyName     = errors.New("image name is empty after sanitization")
)

// ImageStore persists uploaded case images. Writes are two-phase: Stage
// copies the bytes somewhere invisible to readers, and the staged object is
// either promoted to its final name after the database record commits or
// discarded if it does not. This keeps the store free of orphans when a
// case insert fails.
type ImageStore interface {
	Stage(ctx context.Context, r io.Reader) (Staged, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// Staged is an uploaded image awaiting promotion to its final name.
type Staged interface {
	Promote(ctx context.Context, name string) error
	Discard(ctx context.Context) error
}

const nameAllowed = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789._-"

// SanitizeName reduces a client-supplied filename to a safe flat name:
// path components are stripped and anything outside [A-Za-z0-9._-] becomes
// an underscore. Returns ErrEmptyName when nothing usable remains.
func SanitizeName(name string) (string, error) {
	// Strip directories regardless of the client's path separator.
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}

	var b strings.Builder
	for _, r := range name {
		if strings.ContainsRune(nameAllowed, r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}

	out := strings.Trim(b.String(), "._")
	if out == "" {
		return "", ErrEmptyName
	}
	return out, nil
}
