// Package history persists generated bids and their outcomes.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/bidwriter/backend/internal/domain"
)

// DefaultPath is the history file used when none is configured
const DefaultPath = ".bid_history.json"

// JSONStore keeps the bid history in memory and rewrites a JSON file on every change
type JSONStore struct {
	mu      sync.Mutex
	path    string
	records []domain.BidRecord
}

// NewJSONStore opens the history file at path. A missing or unreadable file
// starts an empty history.
func NewJSONStore(path string) *JSONStore {
	if path == "" {
		path = DefaultPath
	}

	s := &JSONStore{path: path}
	s.records = s.load()

	log.Printf("[HISTORY] Loaded %d bids from %s", len(s.records), path)
	return s
}

func (s *JSONStore) load() []domain.BidRecord {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Printf("[HISTORY] Error loading history: %v", err)
		}
		return nil
	}

	var records []domain.BidRecord
	if err := json.Unmarshal(data, &records); err != nil {
		log.Printf("[HISTORY] Error decoding history: %v", err)
		return nil
	}
	return records
}

// save writes the history through a temporary file so a crash never leaves it truncated.
// Callers hold s.mu.
func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("save history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

// Add appends a record. It stays in memory even if the file cannot be written.
func (s *JSONStore) Add(ctx context.Context, record *domain.BidRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, *record)
	return s.save()
}

// Recent returns up to limit of the newest records, oldest first
func (s *JSONStore) Recent(ctx context.Context, limit int) ([]domain.BidRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := 0
	if limit > 0 && limit < len(s.records) {
		start = len(s.records) - limit
	}
	return cloneRecords(s.records[start:]), nil
}

// All returns every record, oldest first
func (s *JSONStore) All(ctx context.Context) ([]domain.BidRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return cloneRecords(s.records), nil
}

// UpdateResult marks the most recent pending bid for projectName
func (s *JSONStore) UpdateResult(ctx context.Context, projectName string, won bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(s.records) - 1; i >= 0; i-- {
		r := &s.records[i]
		if r.ProjectName == projectName && r.Won == nil {
			r.Won = &won
			return s.save()
		}
	}
	return fmt.Errorf("%w: no pending bid for %q", domain.ErrBidNotFound, projectName)
}

// cloneRecords copies records so callers cannot alias the store's pointers
func cloneRecords(records []domain.BidRecord) []domain.BidRecord {
	out := make([]domain.BidRecord, len(records))
	for i, r := range records {
		if r.TotalBids != nil {
			v := *r.TotalBids
			r.TotalBids = &v
		}
		if r.BudgetRange != nil {
			v := *r.BudgetRange
			r.BudgetRange = &v
		}
		if r.Won != nil {
			v := *r.Won
			r.Won = &v
		}
		out[i] = r
	}
	return out
}
