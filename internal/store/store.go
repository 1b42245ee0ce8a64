package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/wayss000/Inner-See-sub000/internal/domain"
	"github.com/wayss000/Inner-See-sub000/internal/logger"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

var (
	// ErrNotInitialized is returned by every operation before Initialize succeeds.
	ErrNotInitialized = errors.New("database not initialized")

	// ErrUserNotFound is returned by UpdateUser when no user has the given id.
	ErrUserNotFound = errors.New("user not found")

	// ErrRecordNotFound is returned by operations that modify a missing test record.
	ErrRecordNotFound = errors.New("test record not found")
)

// Store owns the local SQLite database holding the user profile, completed
// test records and their answers.
type Store struct {
	mu          sync.Mutex
	dsn         string
	db          *sqlx.DB
	initialized bool
	log         *logger.Logger
	now         func() time.Time
}

// New returns a Store for the database at dsn. Nothing is opened until
// Initialize is called.
func New(dsn string, log *logger.Logger) *Store {
	return &Store{
		dsn: dsn,
		log: logger.OrNop(log),
		now: time.Now,
	}
}

// newWithDB wraps an already open handle and marks it initialized.
func newWithDB(db *sql.DB, driver string) *Store {
	return &Store{
		db:          sqlx.NewDb(db, driver),
		initialized: true,
		log:         logger.Nop(),
		now:         time.Now,
	}
}

// Initialize opens the database, creates missing tables, adds columns
// introduced by later schema revisions and ensures a default user exists.
// Calling it again after a success is a no-op.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}

	if s.db == nil {
		db, err := sqlx.Open("sqlite", s.dsn)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		// One connection serializes writes and keeps in-memory databases shared.
		db.SetMaxOpenConns(1)
		if err := applyPragmas(ctx, db); err != nil {
			db.Close()
			return fmt.Errorf("apply pragmas: %w", err)
		}
		s.db = db
	}

	if err := createSchema(ctx, s.db); err != nil {
		return err
	}
	added, err := migrate(ctx, s.db)
	if err != nil {
		return err
	}
	if len(added) > 0 {
		s.log.Info("database schema migrated", "columns", added)
	}
	if err := s.ensureDefaultUser(ctx); err != nil {
		return err
	}

	s.initialized = true
	s.log.Debug("database initialized", "dsn", s.dsn)
	return nil
}

// Close releases the database. The store must be initialized again before reuse.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = false
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// handle returns the open database, or ErrNotInitialized.
func (s *Store) handle() (*sqlx.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized || s.db == nil {
		return nil, ErrNotInitialized
	}
	return s.db, nil
}

func (s *Store) ensureDefaultUser(ctx context.Context) error {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`); err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if n > 0 {
		return nil
	}
	row := userToRow(domain.DefaultUser(s.now()), s.now())
	if _, err := s.db.NamedExecContext(ctx, insertUserSQL, row); err != nil {
		return fmt.Errorf("create default user: %w", err)
	}
	return nil
}

// applyPragmas configures SQLite for single-user performance.
func applyPragmas(ctx context.Context, db *sqlx.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. INNERSEE_DB environment variable
// 2. $XDG_DATA_HOME/innersee/innersee.db
// 3. ~/.local/share/innersee/innersee.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("INNERSEE_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "innersee", "innersee.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
