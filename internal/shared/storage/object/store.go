package object

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrObjectExists is returned by Upload when the target path is taken.
var ErrObjectExists = errors.New("object already exists")

// FileInfo describes a stored object inside a folder listing.
type FileInfo struct {
	Name      string
	SizeBytes int64
	CreatedAt time.Time
}

// ObjectStore defines the contract for the resume file store.
// Upload never overwrites: an existing object at path is an error.
type ObjectStore interface {
	Upload(ctx context.Context, path string, contentType string, r io.Reader) (int64, error)
	List(ctx context.Context, folder string) ([]FileInfo, error)
	Remove(ctx context.Context, paths []string) error
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	PublicURL(path string) string
}
