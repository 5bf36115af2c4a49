// Package storage abstracts the non-volatile volume the clock store writes to.
//
// A Backend must be mounted before use and unmounted afterwards. Files are
// addressed by slash-separated paths such as "/config.json". Nothing here is
// power-loss safe unless a backend says otherwise: an interrupted write may
// leave a truncated file behind.
package storage

import (
	"bytes"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/segmentio/ksuid"
)

var (
	// ErrNotMounted is returned by file operations on an unmounted backend.
	ErrNotMounted = errors.New("storage not mounted")
	// ErrNotExist is returned by OpenRead for a path with no file.
	ErrNotExist = fs.ErrNotExist
	// ErrClosed is returned by operations on a closed handle.
	ErrClosed = errors.New("handle closed")
	// ErrInvalidPath is returned for empty or directory-like paths.
	ErrInvalidPath = errors.New("invalid path")
)

// Handle is an open file on a mounted backend. A handle opened for reading
// cannot be written and vice versa.
type Handle interface {
	// ID identifies the handle in traces.
	ID() string
	Size() (int64, error)
	ReadAll() ([]byte, error)
	Write(p []byte) (int, error)
	Close() error
}

// Backend is a mountable storage volume.
type Backend interface {
	// Mount prepares the volume. Mounting a mounted volume is a no-op.
	Mount() error
	Exists(path string) (bool, error)
	OpenRead(path string) (Handle, error)
	// OpenWrite truncates path. The new content is committed on Close.
	OpenWrite(path string) (Handle, error)
	// Unmount releases the volume. Unmounting an unmounted volume is a no-op.
	Unmount() error
}

// Kind names a backend implementation.
type Kind string

const (
	KindDir    Kind = "dir"
	KindPebble Kind = "pebble"
	KindSQLite Kind = "sqlite"
	KindMemory Kind = "memory"
)

// Open builds a backend of the given kind rooted at dir. It does not mount.
func Open(kind Kind, dir string) (Backend, error) {
	switch kind {
	case KindDir, "":
		return NewDir(dir), nil
	case KindPebble:
		return NewPebble(dir), nil
	case KindSQLite:
		return NewSQLite(dir), nil
	case KindMemory:
		return NewMemory(), nil
	}
	return nil, errors.Newf("unknown storage backend %q", kind)
}

// cleanPath normalizes p to a rooted slash path and rejects the root itself.
func cleanPath(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", errors.Wrap(ErrInvalidPath, "empty path")
	}
	c := path.Clean("/" + p)
	if c == "/" {
		return "", errors.Wrapf(ErrInvalidPath, "%q names the volume root", p)
	}
	return c, nil
}

func newHandleID() string {
	return ksuid.New().String()
}

// readHandle serves a snapshot of a file taken at open time.
type readHandle struct {
	id     string
	data   []byte
	mu     sync.Mutex
	closed bool
}

func newReadHandle(data []byte) *readHandle {
	return &readHandle{id: newHandleID(), data: data}
}

func (h *readHandle) ID() string { return h.id }

func (h *readHandle) Size() (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return 0, ErrClosed
	}
	return int64(len(h.data)), nil
}

func (h *readHandle) ReadAll() ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, ErrClosed
	}
	return bytes.Clone(h.data), nil
}

func (h *readHandle) Write([]byte) (int, error) {
	return 0, errors.New("handle opened for reading")
}

func (h *readHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	h.data = nil
	return nil
}

// writeHandle buffers writes and hands the full content to commit on Close.
type writeHandle struct {
	id     string
	buf    bytes.Buffer
	commit func([]byte) error
	mu     sync.Mutex
	closed bool
	// failWrite makes Write fail; used by Memory for fault injection.
	failWrite error
}

func newWriteHandle(commit func([]byte) error) *writeHandle {
	return &writeHandle{id: newHandleID(), commit: commit}
}

func (h *writeHandle) ID() string { return h.id }

func (h *writeHandle) Size() (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return 0, ErrClosed
	}
	return int64(h.buf.Len()), nil
}

func (h *writeHandle) ReadAll() ([]byte, error) {
	return nil, errors.New("handle opened for writing")
}

func (h *writeHandle) Write(p []byte) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return 0, ErrClosed
	}
	if h.failWrite != nil {
		return 0, h.failWrite
	}
	return h.buf.Write(p)
}

// Close commits the buffered content. A second Close is a no-op.
func (h *writeHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	return h.commit(h.buf.Bytes())
}
