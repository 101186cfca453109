// Package graph persists statement sets in a SQLite-backed triple store
// and answers a fixed set of parameterized queries over the accumulated
// graph.
//
// A store location supports exactly one read-write process at a time,
// enforced through a lock file next to the database. Any number of
// read-only stores may open the same location concurrently; they skip
// the lock, never migrate, and never bootstrap.
package graph

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/c360studio/semdoc/graph/migrations"
	"github.com/c360studio/semdoc/rdf"
	"github.com/c360studio/semdoc/vocabulary/semdoc"
)

// Config controls where and how a store opens. There is no implicit
// default location; callers always name the database file.
type Config struct {
	// Path is the SQLite database file. Parent directories are
	// created on first read-write open.
	Path string `yaml:"path"`

	// ReadOnly opens the store for queries only. Insert and Clear
	// return ErrReadOnly.
	ReadOnly bool `yaml:"read_only"`
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("store path is required")
	}
	return nil
}

// Store is a SQLite-backed triple store. Methods are safe for
// concurrent use; mutations on one handle are serialized internally.
type Store struct {
	db       *sql.DB
	cfg      Config
	lockPath string
	logger   *slog.Logger

	mu sync.Mutex // serializes mutations on this handle
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for store diagnostics. Defaults to
// slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// Open opens the store at cfg.Path, creating it when absent. Read-write
// opens acquire the write lock, apply pending migrations, and load the
// bootstrap ontology into an empty database. A second read-write open
// of the same location fails with ErrStoreLocked. Read-only opens
// require the database to exist already.
func Open(cfg Config, opts ...Option) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Store{
		cfg:    cfg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if cfg.ReadOnly {
		if _, err := os.Stat(cfg.Path); err != nil {
			return nil, fmt.Errorf("opening read-only store: %w", err)
		}
		db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(5000)", cfg.Path))
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		s.db = db
		return s, nil
	}

	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	lockPath := cfg.Path + ".lock"
	if err := acquireLock(lockPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", cfg.Path))
	if err != nil {
		releaseLock(lockPath)
		return nil, fmt.Errorf("opening database: %w", err)
	}
	s.db = db
	s.lockPath = lockPath

	if err := s.migrate(); err != nil {
		s.Close()
		return nil, fmt.Errorf("migrating store: %w", err)
	}
	if err := s.bootstrap(context.Background()); err != nil {
		s.Close()
		return nil, fmt.Errorf("bootstrapping ontology: %w", err)
	}
	return s, nil
}

// Close releases the database handle and, for read-write stores, the
// write lock.
func (s *Store) Close() error {
	err := s.db.Close()
	releaseLock(s.lockPath)
	if err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	return nil
}

// ReadOnly reports whether the store was opened in read-only mode.
func (s *Store) ReadOnly() bool {
	return s.cfg.ReadOnly
}

// acquireLock creates the lock file exclusively, recording the owner
// pid for diagnostics. A pre-existing file means another writer owns
// the location.
func acquireLock(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrStoreLocked, path)
		}
		return fmt.Errorf("acquiring store lock: %w", err)
	}
	fmt.Fprintf(f, "%d\n", os.Getpid())
	return f.Close()
}

func releaseLock(path string) {
	if path != "" {
		os.Remove(path)
	}
}

// migrate applies embedded migrations newer than the recorded schema
// version, each in its own transaction.
func (s *Store) migrate() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("creating schema_migrations: %w", err)
	}

	var current int
	if err := s.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	entries, err := migrations.FS.ReadDir(".")
	if err != nil {
		return fmt.Errorf("reading migrations: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".up.sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			return fmt.Errorf("migration %s: malformed name: %w", name, err)
		}
		if version <= current {
			continue
		}
		script, err := migrations.FS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("migration %s: %w", name, err)
		}
		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("migration %s: %w", name, err)
		}
		if _, err := tx.Exec(string(script)); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %s: %w", name, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %s: %w", name, err)
		}
		s.logger.Debug("applied migration", "name", name)
	}
	return nil
}

// bootstrap loads the core ontology into an empty database so class and
// property definitions are queryable alongside document data.
func (s *Store) bootstrap(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM statements`).Scan(&count); err != nil {
		return fmt.Errorf("checking statement count: %w", err)
	}
	if count > 0 {
		return nil
	}
	return s.loadOntology(ctx)
}

// loadOntology parses and inserts the bootstrap ontology. A parse
// failure is fatal; the ontology ships with the binary and must be
// well-formed.
func (s *Store) loadOntology(ctx context.Context) error {
	set, err := rdf.Parse(semdoc.BootstrapOntology)
	if err != nil {
		return fmt.Errorf("parsing bootstrap ontology: %w", err)
	}
	res, err := s.insert(ctx, set)
	if err != nil {
		return err
	}
	s.logger.Info("loaded core ontology", "statements", res.Inserted)
	return nil
}

// InsertResult reports the outcome of loading one statement set.
// Inserted counts rows actually added; re-inserted duplicates count as
// neither inserted nor skipped.
type InsertResult struct {
	Inserted int
	Skipped  int
}

// Insert stores a statement set. Insertion is best-effort at statement
// granularity: statements whose identifiers cannot be expanded against
// the set's namespace table, or that fail individually, are skipped
// with a warning while the rest proceed. Re-inserting statements that
// already exist is a no-op, so processing the same document twice
// leaves the graph unchanged.
func (s *Store) Insert(ctx context.Context, set *rdf.StatementSet) (InsertResult, error) {
	if s.cfg.ReadOnly {
		return InsertResult{}, ErrReadOnly
	}
	return s.insert(ctx, set)
}

func (s *Store) insert(ctx context.Context, set *rdf.StatementSet) (InsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res InsertResult
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("beginning insert: %w", err)
	}
	defer tx.Rollback()

	ins, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO statements
		(subject, predicate, object, object_kind, datatype)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return res, fmt.Errorf("preparing insert: %w", err)
	}
	defer ins.Close()

	for _, st := range set.Statements {
		row, err := expandStatement(st, set.Namespaces)
		if err != nil {
			res.Skipped++
			s.logger.Warn("skipping statement",
				"error", err,
				"subject", st.Subject,
				"predicate", st.Predicate)
			continue
		}
		r, err := ins.ExecContext(ctx, row.subject, row.predicate, row.object, row.kind, row.datatype)
		if err != nil {
			res.Skipped++
			s.logger.Warn("skipping statement",
				"error", err,
				"subject", row.subject,
				"predicate", row.predicate)
			continue
		}
		if n, err := r.RowsAffected(); err == nil {
			res.Inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return res, fmt.Errorf("committing insert: %w", err)
	}
	return res, nil
}

type statementRow struct {
	subject   string
	predicate string
	object    string
	kind      string
	datatype  string
}

// expandStatement resolves any prefixed names in a statement to full
// IRIs. Only IRI positions expand; literal values pass through.
func expandStatement(st rdf.Statement, namespaces map[string]string) (statementRow, error) {
	subject, err := rdf.ExpandIRI(st.Subject, namespaces)
	if err != nil {
		return statementRow{}, fmt.Errorf("subject: %w", err)
	}
	predicate, err := rdf.ExpandIRI(st.Predicate, namespaces)
	if err != nil {
		return statementRow{}, fmt.Errorf("predicate: %w", err)
	}
	row := statementRow{
		subject:   subject,
		predicate: predicate,
		object:    st.Object.Value,
		kind:      string(st.Object.Kind),
	}
	switch st.Object.Kind {
	case rdf.ObjectIRI:
		object, err := rdf.ExpandIRI(st.Object.Value, namespaces)
		if err != nil {
			return statementRow{}, fmt.Errorf("object: %w", err)
		}
		row.object = object
	case rdf.ObjectTyped:
		datatype, err := rdf.ExpandIRI(st.Object.Datatype, namespaces)
		if err != nil {
			return statementRow{}, fmt.Errorf("datatype: %w", err)
		}
		row.datatype = datatype
	}
	return row, nil
}

// Clear removes all statements and reloads the bootstrap ontology.
func (s *Store) Clear(ctx context.Context) error {
	if s.cfg.ReadOnly {
		return ErrReadOnly
	}
	s.mu.Lock()
	_, err := s.db.ExecContext(ctx, `DELETE FROM statements`)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("clearing statements: %w", err)
	}
	return s.loadOntology(ctx)
}

// Count returns the total number of stored statements.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM statements`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting statements: %w", err)
	}
	return n, nil
}
