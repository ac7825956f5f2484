package local

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"talent-backend/internal/shared/storage/object"
)

// Store implements ObjectStore using the local filesystem.
type Store struct {
	baseDir string
	baseURL string
	bucket  string
}

// New creates a local object store rooted at baseDir. Public URLs are
// composed as <baseURL>/object/public/<bucket>/<path>.
func New(baseDir, baseURL, bucket string) object.ObjectStore {
	if bucket == "" {
		bucket = "resume"
	}
	return &Store{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
		bucket:  bucket,
	}
}

// Upload writes the reader to disk at path. An existing file is an error.
func (s *Store) Upload(ctx context.Context, path string, contentType string, r io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	clean, err := cleanPath(path)
	if err != nil {
		return 0, err
	}

	fullPath := filepath.Join(s.baseDir, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return 0, fmt.Errorf("mkdir: %w", err)
	}

	f, err := os.OpenFile(fullPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return 0, fmt.Errorf("path=%s: %w", clean, object.ErrObjectExists)
		}
		return 0, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	written, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		_ = os.Remove(fullPath)
		return 0, fmt.Errorf("write body: %w", err)
	}
	_ = contentType
	return written, nil
}

// List returns the files directly under folder, in no particular order.
func (s *Store) List(ctx context.Context, folder string) ([]object.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	clean, err := cleanPath(folder)
	if err != nil {
		return nil, err
	}

	dirPath := filepath.Join(s.baseDir, filepath.FromSlash(clean))
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read dir: %w", err)
	}

	var out []object.FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		out = append(out, object.FileInfo{
			Name:      entry.Name(),
			SizeBytes: info.Size(),
			CreatedAt: info.ModTime().UTC(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Remove deletes the given paths. Missing files are ignored.
func (s *Store) Remove(ctx context.Context, paths []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, p := range paths {
		clean, err := cleanPath(p)
		if err != nil {
			return err
		}
		fullPath := filepath.Join(s.baseDir, filepath.FromSlash(clean))
		if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", clean, err)
		}
	}
	return nil
}

// Open opens a stored object for reading.
func (s *Store) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	clean, err := cleanPath(path)
	if err != nil {
		return nil, err
	}
	return os.Open(filepath.Join(s.baseDir, filepath.FromSlash(clean)))
}

// PublicURL composes the public URL for a stored object.
func (s *Store) PublicURL(path string) string {
	clean := strings.TrimLeft(path, "/")
	segments := strings.Split(clean, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return s.baseURL + "/object/public/" + s.bucket + "/" + strings.Join(segments, "/")
}

func cleanPath(p string) (string, error) {
	clean := strings.TrimLeft(filepath.ToSlash(filepath.Clean(p)), "/")
	if clean == "." || clean == "" || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("invalid storage path")
	}
	return clean, nil
}

var _ object.ObjectStore = (*Store)(nil)
