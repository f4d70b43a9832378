package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"jobspace-backend/internal/domain"
	"jobspace-backend/pkg/logger"
)

const offerSequence = "offres"

// Document is the whole content of the JSON database file.
type Document struct {
	Candidates []domain.Candidate `json:"candidats"`
	Offers     []domain.Offer     `json:"offres"`
	Recruiters []domain.Recruiter `json:"recruteurs"`
	// Sequences holds the last id handed out per collection.
	Sequences map[string]int64 `json:"sequences,omitempty"`
}

func emptyDocument() *Document {
	return &Document{
		Candidates: []domain.Candidate{},
		Offers:     []domain.Offer{},
		Recruiters: []domain.Recruiter{},
	}
}

func (d *Document) normalize() {
	if d.Candidates == nil {
		d.Candidates = []domain.Candidate{}
	}
	if d.Offers == nil {
		d.Offers = []domain.Offer{}
	}
	if d.Recruiters == nil {
		d.Recruiters = []domain.Recruiter{}
	}
}

// nextOfferID never hands out an id twice, even after the highest offer
// was deleted.
func (d *Document) nextOfferID() int64 {
	next := d.Sequences[offerSequence]
	for _, o := range d.Offers {
		next = max(next, o.ID)
	}
	next++
	if d.Sequences == nil {
		d.Sequences = map[string]int64{}
	}
	d.Sequences[offerSequence] = next
	return next
}

// Store serializes every access to the backing file through one mutex so
// read-modify-write cycles of concurrent requests cannot interleave.
type Store struct {
	path string
	mu   sync.Mutex
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

// Name identifies the store in health checks.
func (s *Store) Name() string { return "db_file" }

// Load returns the current document. Unreadable or malformed files yield
// empty collections and are logged.
func (s *Store) Load(ctx context.Context) *Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLenient(ctx)
}

// Save replaces the file content with doc.
func (s *Store) Save(ctx context.Context, doc *Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(ctx, doc)
}

// View runs fn against a snapshot of the document.
func (s *Store) View(ctx context.Context, fn func(doc *Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.loadLenient(ctx))
}

// Update loads the document, lets fn modify it and writes it back. Nothing
// is written when fn fails. A file that exists but cannot be parsed aborts
// the update instead of being overwritten with an empty store.
func (s *Store) Update(ctx context.Context, fn func(doc *Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		logger.Log.ErrorContext(ctx, "db file unreadable, update aborted", "path", s.path, "error", err)
		return fmt.Errorf("%w: %v", domain.ErrStoreBroken, err)
	}
	if err := fn(doc); err != nil {
		return err
	}
	return s.write(ctx, doc)
}

// Ping reports whether the file can be parsed. A missing file is healthy.
func (s *Store) Ping(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.read()
	return err
}

func (s *Store) loadLenient(ctx context.Context) *Document {
	doc, err := s.read()
	if err != nil {
		logger.Log.WarnContext(ctx, "db file unreadable, using empty store", "path", s.path, "error", err)
		return emptyDocument()
	}
	return doc
}

func (s *Store) read() (*Document, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return emptyDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	doc.normalize()
	return &doc, nil
}

// write goes through a temporary file in the same directory and a rename,
// so readers never observe a half-written file.
func (s *Store) write(ctx context.Context, doc *Document) error {
	doc.normalize()
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode db: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".db-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		logger.Log.ErrorContext(ctx, "db file replace failed", "path", s.path, "error", err)
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}
