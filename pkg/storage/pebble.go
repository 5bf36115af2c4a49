package storage

import (
	"bytes"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"
)

// Pebble is a volume stored in a pebble database. Each file is one key.
// Mount opens the database and Unmount closes it, so the directory lock is
// only held for the duration of an operation.
type Pebble struct {
	dir string
	mu  sync.Mutex
	db  *pebble.DB
}

// NewPebble creates a pebble-backed volume in dir.
func NewPebble(dir string) *Pebble {
	return &Pebble{dir: dir}
}

func (s *Pebble) Mount() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return nil
	}
	db, err := pebble.Open(s.dir, &pebble.Options{})
	if err != nil {
		return errors.Wrapf(err, "open pebble volume %s", s.dir)
	}
	s.db = db
	return nil
}

func (s *Pebble) Unmount() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	if err != nil {
		return errors.Wrap(err, "close pebble volume")
	}
	return nil
}

func (s *Pebble) handle() (*pebble.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil, ErrNotMounted
	}
	return s.db, nil
}

func (s *Pebble) get(p string) ([]byte, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}
	key, err := cleanPath(p)
	if err != nil {
		return nil, err
	}
	data, closer, err := db.Get([]byte(key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, errors.Wrapf(ErrNotExist, "open %s", p)
		}
		return nil, errors.Wrapf(err, "read %s", p)
	}
	defer closer.Close()

	return bytes.Clone(data), nil
}

func (s *Pebble) Exists(p string) (bool, error) {
	_, err := s.get(p)
	if err != nil {
		if errors.Is(err, ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *Pebble) OpenRead(p string) (Handle, error) {
	data, err := s.get(p)
	if err != nil {
		return nil, err
	}
	return newReadHandle(data), nil
}

func (s *Pebble) OpenWrite(p string) (Handle, error) {
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
		if err := db.Set([]byte(key), data, pebble.Sync); err != nil {
			return errors.Wrapf(err, "write %s", p)
		}
		return nil
	}), nil
}
