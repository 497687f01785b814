// ABOUTME: Data migration between nexusfit storage backends.
// ABOUTME: Copies the state blob from source to destination unchanged.

package storage

import (
	"errors"
	"fmt"
	"os"
)

// MigrateSummary reports what was copied.
type MigrateSummary struct {
	Bytes int
}

// MigrateData copies the state blob from src to dst.
// The destination should be empty before calling this function.
func MigrateData(src, dst Repository) (*MigrateSummary, error) {
	data, err := src.Load()
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("source has no saved state: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("read source state: %w", err)
	}

	if err := dst.Save(data); err != nil {
		return nil, fmt.Errorf("write destination state: %w", err)
	}

	return &MigrateSummary{Bytes: len(data)}, nil
}

// IsDirNonEmpty checks whether a directory exists and contains any files or subdirectories.
// Returns false if the directory does not exist or is empty.
func IsDirNonEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read directory %q: %w", path, err)
	}
	return len(entries) > 0, nil
}
