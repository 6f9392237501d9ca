// Package storage archives analysis reports as JSON objects on the local
// filesystem or in S3-compatible object storage.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/docutag/analyzer/models"
	"github.com/docutag/analyzer/slug"
)

var (
	// ErrNotFound is returned when no object exists under a key
	ErrNotFound = errors.New("object not found")

	// ErrInvalidKey is returned for keys that escape the archive root
	ErrInvalidKey = errors.New("invalid object key")
)

// Backend names accepted by Open
const (
	BackendNone       = "none"
	BackendFilesystem = "fs"
	BackendS3         = "s3"
)

// Archive stores opaque objects by key
type Archive interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Backend() string
}

// Config selects and configures an archive backend
type Config struct {
	Backend  string // fs, s3 or none
	BasePath string // Base directory for the fs backend
	S3       S3Config
}

// DefaultConfig returns default storage configuration
func DefaultConfig() Config {
	return Config{
		Backend:  BackendNone,
		BasePath: "./storage",
	}
}

// Open builds the configured archive. It returns nil, nil for the none backend.
func Open(ctx context.Context, cfg Config) (Archive, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", BackendNone:
		return nil, nil
	case BackendFilesystem:
		fs, err := NewFilesystem(cfg.BasePath)
		if err != nil {
			return nil, err
		}
		return fs, nil
	case BackendS3:
		s3s, err := NewS3Storage(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		return s3s, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// maxKeyAttempts bounds the suffixes tried when report slugs collide
const maxKeyAttempts = 100

// SaveReport writes report as indented JSON and returns its key. A key
// already holding a different report gets a numeric suffix; re-saving the
// same report overwrites its own key.
func SaveReport(ctx context.Context, a Archive, report *models.BiasReport) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	key, err := reportKey(ctx, a, report)
	if err != nil {
		return "", err
	}
	if err := a.Put(ctx, key, data); err != nil {
		return "", err
	}
	return key, nil
}

func reportKey(ctx context.Context, a Archive, report *models.BiasReport) (string, error) {
	for attempt := 0; attempt < maxKeyAttempts; attempt++ {
		key := slug.ReportKey(report.TextID, report.Timestamp, attempt)
		data, err := a.Get(ctx, key)
		if errors.Is(err, ErrNotFound) {
			return key, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check archive key %s: %w", key, err)
		}

		// Objects that do not decode are treated as taken
		var existing struct {
			TextID string `json:"text_id"`
		}
		if json.Unmarshal(data, &existing) == nil && existing.TextID == report.TextID {
			return key, nil
		}
	}
	return "", fmt.Errorf("no free archive key for report %s after %d attempts", report.TextID, maxKeyAttempts)
}

// ReadReport loads an archived report
func ReadReport(ctx context.Context, a Archive, key string) (*models.BiasReport, error) {
	data, err := a.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var report models.BiasReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &report, nil
}

// cleanKey normalizes a key to a relative slash path inside the archive
func cleanKey(key string) (string, error) {
	key = strings.ReplaceAll(key, "\\", "/")
	cleaned := path.Clean("/" + key)[1:]
	if cleaned == "" || cleaned != strings.TrimPrefix(key, "/") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return cleaned, nil
}

// Filesystem stores objects under a base directory
type Filesystem struct {
	basePath string
}

// NewFilesystem creates the base directory if needed
func NewFilesystem(basePath string) (*Filesystem, error) {
	if basePath == "" {
		basePath = DefaultConfig().BasePath
	}
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base storage directory: %w", err)
	}
	return &Filesystem{basePath: basePath}, nil
}

// Backend returns "fs"
func (s *Filesystem) Backend() string { return BackendFilesystem }

// Put writes data to key, creating parent directories
func (s *Filesystem) Put(_ context.Context, key string, data []byte) error {
	full, err := s.fullPath(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := os.WriteFile(full, data, 0644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}

// Get reads the object at key
func (s *Filesystem) Get(_ context.Context, key string) ([]byte, error) {
	full, err := s.fullPath(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(full)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read report file: %w", err)
	}
	return data, nil
}

// Delete removes the object at key; missing objects are not an error
func (s *Filesystem) Delete(_ context.Context, key string) error {
	full, err := s.fullPath(key)
	if err != nil {
		return err
	}

	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete report file: %w", err)
	}
	return nil
}

func (s *Filesystem) fullPath(key string) (string, error) {
	cleaned, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.basePath, filepath.FromSlash(cleaned)), nil
}
