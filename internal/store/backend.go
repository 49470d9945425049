// Package store is the local commit gateway of batchedit. Each engineering
// model lives in its own directory of JSONL files, the source of truth.
// On Attach the files are loaded into a fresh SQLite database that serves
// snapshot loading and transactional commits; after a commit the affected
// files are rewritten atomically from the database.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/internal/model"
)

// Config locates one model.
type Config struct {
	DataDir string
	Model   string

	// Seed adds the built-in reference data to a model whose domains or
	// scales are empty.
	Seed bool
}

// Validate checks that the model name is a single path element.
func (c Config) Validate() error {
	if c.Model == "" {
		return ErrModelRequired
	}
	if c.Model == "." || c.Model == ".." || strings.ContainsAny(c.Model, `/\`) {
		return fmt.Errorf("%w %q", ErrInvalidModel, c.Model)
	}
	return nil
}

// ModelDir returns the directory holding the model's JSONL files.
func (c Config) ModelDir() string {
	dataDir := c.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	return filepath.Join(dataDir, c.Model)
}

// Backend stores one model in JSONL files behind a SQLite query engine.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   Config
	dir      string
	db       *sql.DB
	snapshot *model.Snapshot
}

// NewBackend creates a backend. It is not attached; call Attach.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach creates the model directory and its JSONL files if needed, opens a
// fresh SQLite database and loads the files into it.
func (b *Backend) Attach(config Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dir := config.ModelDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating model directory: %w", err)
	}

	dbPath := filepath.Join(dir, "model.db")
	// The database is derived state; rebuild it from the JSONL files.
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}
	for _, ddl := range append(schemaDDL, indexDDL...) {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("creating schema: %w", err)
		}
	}

	if err := initJSONLFiles(dir); err != nil {
		db.Close()
		return err
	}
	if err := loadAllJSONL(db, dir); err != nil {
		db.Close()
		return fmt.Errorf("load JSONL: %w", err)
	}
	if config.Seed {
		if err := seedReferenceData(db, dir); err != nil {
			db.Close()
			return fmt.Errorf("seed reference data: %w", err)
		}
	}

	b.db = db
	b.config = config
	b.dir = dir
	b.attached = true
	return nil
}

// Detach closes the database. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
	b.attached = false
	b.snapshot = nil
	return nil
}

// Dir returns the model directory of an attached backend.
func (b *Backend) Dir() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dir
}

// Load builds the model snapshot from the database. Nodes keep the order of
// their JSONL files. Later commits are folded into the returned snapshot.
func (b *Backend) Load() (model.Snapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return model.Snapshot{}, ErrDetached
	}

	snap := model.Snapshot{
		Iteration: model.NewIteration(b.config.Model),
		Site:      model.NewSiteDirectory(),
	}
	for _, m := range tableMappings {
		if m.newThing == nil {
			continue
		}
		records, err := scanRows(b.db, m)
		if err != nil {
			return model.Snapshot{}, err
		}
		for _, rec := range records {
			thing, err := decodeThing(m, rec)
			if err != nil {
				return model.Snapshot{}, err
			}
			if isReferenceKind(m.kind) {
				err = snap.Site.Add(thing)
			} else {
				err = snap.Iteration.Add(thing)
			}
			if err != nil {
				return model.Snapshot{}, fmt.Errorf("load %s: %w", m.table, err)
			}
		}
	}

	b.snapshot = &snap
	return snap, nil
}
