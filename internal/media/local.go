package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalConfig configures the filesystem backend.
type LocalConfig struct {
	BaseDir string `env:"MEDIA_LOCAL_DIR" envDefault:"./uploads"`
	BaseURL string `env:"MEDIA_LOCAL_URL" envDefault:"/uploads/"`
}

// LocalStorage writes objects under a base directory on disk.
type LocalStorage struct {
	baseDir string
	baseURL string
}

// NewLocalStorage creates a filesystem backend rooted at cfg.BaseDir.
// The directory is created if it does not exist.
func NewLocalStorage(cfg LocalConfig) (*LocalStorage, error) {
	if cfg.BaseDir == "" {
		return nil, ErrInvalidConfig
	}

	absDir, err := filepath.Abs(cfg.BaseDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "/"
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	return &LocalStorage{baseDir: absDir, baseURL: baseURL}, nil
}

// Save writes the object to disk and returns its public URL.
// The content type is ignored for local files.
func (s *LocalStorage) Save(ctx context.Context, r io.Reader, _ string, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToSave, err)
	}

	absPath, err := s.resolvePath(path)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToSave, err)
	}

	dst, err := os.Create(absPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToSave, err)
	}

	if _, err := io.Copy(dst, r); err != nil {
		_ = dst.Close()
		_ = os.Remove(absPath)
		return "", fmt.Errorf("%w: %v", ErrFailedToSave, err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToSave, err)
	}

	return s.URL(path), nil
}

// Delete removes the object at path.
func (s *LocalStorage) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToDelete, err)
	}

	absPath, err := s.resolvePath(path)
	if err != nil {
		return err
	}

	if err := os.Remove(absPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return fmt.Errorf("%w: %v", ErrFailedToDelete, err)
	}
	return nil
}

// URL returns the public URL for a stored path.
func (s *LocalStorage) URL(path string) string {
	path = strings.TrimPrefix(filepath.ToSlash(filepath.Clean(path)), "/")
	return s.baseURL + path
}

// resolvePath validates a path and resolves it within the base directory.
// Resolved paths must stay under baseDir to block traversal attacks.
func (s *LocalStorage) resolvePath(path string) (string, error) {
	clean, err := cleanPath(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, path)
	}

	absPath, err := filepath.Abs(filepath.Join(s.baseDir, filepath.FromSlash(clean)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}
	if !strings.HasPrefix(absPath, s.baseDir+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, path)
	}
	return absPath, nil
}
