package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aretw0/libretto/pkg/domain"
)

// Store implements ports.OutputStore using the local filesystem.
// Each page is a directory holding one JSON file per (scene, language).
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".libretto/outputs".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".libretto", "outputs")
	}
	return &Store{BasePath: basePath}
}

// checkName rejects names that would escape the base directory.
func checkName(kind, name string) error {
	if name == "" {
		return fmt.Errorf("%s cannot be empty", kind)
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid %s %q", kind, name)
	}
	return nil
}

func (s *Store) pageDir(page string) string {
	return filepath.Join(s.BasePath, page)
}

func fileName(scene int, language string) string {
	return strconv.Itoa(scene) + "-" + language + ".json"
}

// Save persists the record to a JSON file atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it to the destination.
func (s *Store) Save(ctx context.Context, rec *domain.Record) error {
	if rec == nil {
		return fmt.Errorf("record cannot be nil")
	}
	if err := checkName("page", rec.Page); err != nil {
		return err
	}
	if err := checkName("language", rec.Language); err != nil {
		return err
	}

	dir := s.pageDir(rec.Page)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to ensure page directory: %w", err)
	}
	destPath := filepath.Join(dir, fileName(rec.Scene, rec.Language))

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	// Same directory keeps the rename on one filesystem.
	tmpFile, err := os.CreateTemp(dir, "tmp-*.json.partial")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // no-op once renamed
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows cannot rename an open file.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// On Windows, os.Rename fails if dest exists.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing record for overwrite: %w", err)
		}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file to record: %w", err)
	}
	return nil
}

// Load retrieves a record from its JSON file.
func (s *Store) Load(ctx context.Context, page string, scene int, language string) (*domain.Record, error) {
	if err := checkName("page", page); err != nil {
		return nil, err
	}
	if err := checkName("language", language); err != nil {
		return nil, err
	}
	return readRecord(filepath.Join(s.pageDir(page), fileName(scene, language)))
}

func readRecord(path string) (*domain.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to read record file: %w", err)
	}

	var rec domain.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record %s: %w", filepath.Base(path), err)
	}
	return &rec, nil
}

// List returns the page's records ordered by scene, then language.
func (s *Store) List(ctx context.Context, page string) ([]*domain.Record, error) {
	if err := checkName("page", page); err != nil {
		return nil, err
	}
	dir := s.pageDir(page)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []*domain.Record{}, nil
		}
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	records := make([]*domain.Record, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		rec, err := readRecord(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	domain.SortRecords(records)
	return records, nil
}

// Delete removes the page directory.
func (s *Store) Delete(ctx context.Context, page string) error {
	if err := checkName("page", page); err != nil {
		return err
	}
	if err := os.RemoveAll(s.pageDir(page)); err != nil {
		return fmt.Errorf("failed to delete page records: %w", err)
	}
	return nil
}
