package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hyperjump/sitesearch/internal/models"
)

// Record files inside a data directory. A missing file is an empty list.
const (
	PagesFile = "pages.json"
	PostsFile = "posts.json"
	MediaFile = "media.json"
)

// JSONRecordStore reads records from JSON array files in a directory.
type JSONRecordStore struct {
	dir string
}

// NewJSONRecordStore returns a store reading from dir. The directory is not
// checked until records are loaded.
func NewJSONRecordStore(dir string) *JSONRecordStore {
	return &JSONRecordStore{dir: dir}
}

// Dir returns the data directory.
func (s *JSONRecordStore) Dir() string {
	return s.dir
}

// LoadRecords reads pages, posts, and media. Numbers are kept as json.Number so
// numeric ids round-trip without float formatting. Non-object array items are skipped.
func (s *JSONRecordStore) LoadRecords(ctx context.Context) (*models.RecordSet, error) {
	set := &models.RecordSet{}
	targets := []struct {
		name string
		dst  *[]models.RawRecord
	}{
		{PagesFile, &set.Pages},
		{PostsFile, &set.Posts},
		{MediaFile, &set.Media},
	}
	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		records, err := readRecords(filepath.Join(s.dir, t.name))
		if err != nil {
			return nil, err
		}
		*t.dst = records
	}
	return set, nil
}

func readRecords(path string) ([]models.RawRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var items []any
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	records := make([]models.RawRecord, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			records = append(records, models.RawRecord(obj))
		}
	}
	return records, nil
}

// WriteRecords writes records as an indented JSON array to name inside dir.
func WriteRecords(dir, name string, records []models.RawRecord) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if records == nil {
		records = []models.RawRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	return os.WriteFile(filepath.Join(dir, name), data, 0644)
}
