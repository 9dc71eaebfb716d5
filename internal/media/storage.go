package media

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// Storage persists meme images and resolves their public URLs.
type Storage interface {
	// Save writes the object at path and returns its public URL.
	Save(ctx context.Context, r io.Reader, contentType, path string) (string, error)

	// Delete removes the object at path.
	Delete(ctx context.Context, path string) error

	// URL returns the public URL for a previously saved path.
	URL(path string) string
}

// Config selects and configures the storage backend.
type Config struct {
	Driver string `env:"MEDIA_DRIVER" envDefault:"local"`

	Local LocalConfig
	S3    S3Config
}

// New builds the Storage backend named by cfg.Driver.
func New(ctx context.Context, cfg Config, log *slog.Logger) (Storage, error) {
	switch strings.ToLower(cfg.Driver) {
	case "local":
		return NewLocalStorage(cfg.Local)
	case "s3":
		return NewS3Storage(ctx, cfg.S3)
	default:
		log.Error("unknown media driver", slog.String("driver", cfg.Driver))
		return nil, ErrUnknownDriver
	}
}

// cleanPath normalizes a storage path and rejects traversal attempts.
func cleanPath(path string) (string, error) {
	path = strings.TrimPrefix(path, "/")
	if path == "" || strings.Contains(path, "..") {
		return "", ErrInvalidPath
	}
	return path, nil
}
