package storage

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"

	"github.com/cockroachdb/errors"
	_ "modernc.org/sqlite"
)

// DefaultSQLiteFile is the database file created inside the volume dir.
const DefaultSQLiteFile = "clockstore.db"

// filesSchema holds one row per volume file.
const filesSchema = `
CREATE TABLE IF NOT EXISTS files (
    path TEXT PRIMARY KEY,
    data BLOB NOT NULL,
    updated_at INTEGER NOT NULL
);
`

// SQLite is a volume stored in a single SQLite database file.
type SQLite struct {
	dir string
	mu  sync.Mutex
	db  *sql.DB
}

// NewSQLite creates a SQLite-backed volume whose database lives in dir.
func NewSQLite(dir string) *SQLite {
	return &SQLite{dir: dir}
}

// Path returns the database file path.
func (s *SQLite) Path() string {
	return filepath.Join(s.dir, DefaultSQLiteFile)
}

func (s *SQLite) Mount() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return nil
	}
	if err := os.MkdirAll(s.dir, 0750); err != nil {
		return errors.Wrapf(err, "create volume dir %s", s.dir)
	}

	db, err := sql.Open("sqlite", s.Path())
	if err != nil {
		return errors.Wrap(err, "open database")
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=FULL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return errors.Wrapf(err, "set pragma %q", pragma)
		}
	}

	if _, err := db.Exec(filesSchema); err != nil {
		db.Close()
		return errors.Wrap(err, "create files table")
	}

	s.db = db
	return nil
}

func (s *SQLite) Unmount() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	if err != nil {
		return errors.Wrap(err, "close database")
	}
	return nil
}

func (s *SQLite) handle() (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil, ErrNotMounted
	}
	return s.db, nil
}

func (s *SQLite) Exists(p string) (bool, error) {
	db, err := s.handle()
	if err != nil {
		return false, err
	}
	key, err := cleanPath(p)
	if err != nil {
		return false, err
	}
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM files WHERE path = ?`, key).Scan(&count); err != nil {
		return false, errors.Wrapf(err, "check %s", p)
	}
	return count > 0, nil
}

func (s *SQLite) OpenRead(p string) (Handle, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}
	key, err := cleanPath(p)
	if err != nil {
		return nil, err
	}
	var data []byte
	err = db.QueryRow(`SELECT data FROM files WHERE path = ?`, key).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(ErrNotExist, "open %s", p)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", p)
	}
	return newReadHandle(data), nil
}

func (s *SQLite) OpenWrite(p string) (Handle, error) {
	if _, err := s.handle(); err != nil {
		return nil, err
	}
	key, err := cleanPath(p)
	if err != nil {
		return nil, err
	}
	return newWriteHandle(func(data []byte) error {
		db, err := s.handle()
		if err != nil {
			return err
		}
		_, err = db.Exec(`
INSERT INTO files (path, data, updated_at) VALUES (?, ?, strftime('%s', 'now'))
ON CONFLICT(path) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
			key, data)
		if err != nil {
			return errors.Wrapf(err, "write %s", p)
		}
		return nil
	}), nil
}
