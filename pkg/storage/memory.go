package storage

import (
	"bytes"
	"sync"

	"github.com/cockroachdb/errors"
)

// ErrInjected is the error returned by Memory's fault switches.
var ErrInjected = errors.New("injected fault")

// Memory is an in-process volume. Its exported switches inject faults and
// its counters record how often the volume was mounted and unmounted.
type Memory struct {
	mu      sync.Mutex
	files   map[string][]byte
	mounted bool

	FailMount     bool
	FailExists    bool
	FailOpenRead  bool
	FailOpenWrite bool
	FailWrite     bool
	FailCommit    bool

	mounts   int
	unmounts int
}

// NewMemory creates an empty in-memory volume.
func NewMemory() *Memory {
	return &Memory{files: make(map[string][]byte)}
}

func (m *Memory) Mount() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mounts++
	if m.FailMount {
		return errors.Wrap(ErrInjected, "mount")
	}
	m.mounted = true
	return nil
}

func (m *Memory) Unmount() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unmounts++
	m.mounted = false
	return nil
}

// Mounts returns the number of Mount calls, failed ones included.
func (m *Memory) Mounts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mounts
}

// Unmounts returns the number of Unmount calls.
func (m *Memory) Unmounts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.unmounts
}

// IsMounted reports whether the volume is currently mounted.
func (m *Memory) IsMounted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mounted
}

// Put stores a file directly, mounted or not.
func (m *Memory) Put(p string, data []byte) {
	key, err := cleanPath(p)
	if err != nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[key] = bytes.Clone(data)
}

// Get returns a file directly, mounted or not.
func (m *Memory) Get(p string) ([]byte, bool) {
	key, err := cleanPath(p)
	if err != nil {
		return nil, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[key]
	return bytes.Clone(data), ok
}

func (m *Memory) key(p string) (string, error) {
	if !m.mounted {
		return "", ErrNotMounted
	}
	return cleanPath(p)
}

func (m *Memory) Exists(p string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key, err := m.key(p)
	if err != nil {
		return false, err
	}
	if m.FailExists {
		return false, errors.Wrap(ErrInjected, "exists")
	}
	_, ok := m.files[key]
	return ok, nil
}

func (m *Memory) OpenRead(p string) (Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key, err := m.key(p)
	if err != nil {
		return nil, err
	}
	if m.FailOpenRead {
		return nil, errors.Wrap(ErrInjected, "open for read")
	}
	data, ok := m.files[key]
	if !ok {
		return nil, errors.Wrapf(ErrNotExist, "open %s", p)
	}
	return newReadHandle(bytes.Clone(data)), nil
}

func (m *Memory) OpenWrite(p string) (Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key, err := m.key(p)
	if err != nil {
		return nil, err
	}
	if m.FailOpenWrite {
		return nil, errors.Wrap(ErrInjected, "open for write")
	}
	h := newWriteHandle(func(data []byte) error {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.FailCommit {
			return errors.Wrap(ErrInjected, "commit")
		}
		m.files[key] = bytes.Clone(data)
		return nil
	})
	if m.FailWrite {
		h.failWrite = errors.Wrap(ErrInjected, "write")
	}
	return h, nil
}
