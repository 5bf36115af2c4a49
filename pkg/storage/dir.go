package storage

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
)

// Dir is a volume backed by a directory on the host filesystem. Writes go
// to a temporary file that is fsynced and renamed over the target on Close,
// so a reader never observes a half-written file.
type Dir struct {
	root    string
	mu      sync.Mutex
	mounted bool
}

// NewDir creates a Dir volume rooted at root.
func NewDir(root string) *Dir {
	return &Dir{root: root}
}

// Root returns the directory backing the volume.
func (d *Dir) Root() string {
	return d.root
}

func (d *Dir) Mount() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.mounted {
		return nil
	}
	if d.root == "" {
		return errors.New("dir volume has no root")
	}
	if err := os.MkdirAll(d.root, 0750); err != nil {
		return errors.Wrapf(err, "create volume root %s", d.root)
	}
	info, err := os.Stat(d.root)
	if err != nil {
		return errors.Wrapf(err, "stat volume root %s", d.root)
	}
	if !info.IsDir() {
		return errors.Newf("volume root is not a directory: %s", d.root)
	}
	d.mounted = true
	return nil
}

func (d *Dir) Unmount() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mounted = false
	return nil
}

// resolve maps a volume path onto the host filesystem.
func (d *Dir) resolve(p string) (string, error) {
	d.mu.Lock()
	mounted := d.mounted
	d.mu.Unlock()
	if !mounted {
		return "", ErrNotMounted
	}
	c, err := cleanPath(p)
	if err != nil {
		return "", err
	}
	return filepath.Join(d.root, filepath.FromSlash(strings.TrimPrefix(c, "/"))), nil
}

func (d *Dir) Exists(p string) (bool, error) {
	full, err := d.resolve(p)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(full)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrapf(err, "check %s", p)
	}
	if info.IsDir() {
		return false, errors.Wrapf(ErrInvalidPath, "%s is a directory", p)
	}
	return true, nil
}

func (d *Dir) OpenRead(p string) (Handle, error) {
	full, err := d.resolve(p)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", p)
	}
	return newReadHandle(data), nil
}

func (d *Dir) OpenWrite(p string) (Handle, error) {
	full, err := d.resolve(p)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0750); err != nil {
		return nil, errors.Wrapf(err, "create parent of %s", p)
	}
	return newWriteHandle(func(data []byte) error {
		return writeFileAtomic(full, data)
	}), nil
}

// writeFileAtomic writes data to a temp file beside target, syncs it and
// renames it into place.
func writeFileAtomic(target string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "write temp file")
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrap(err, "sync temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close temp file")
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		return errors.Wrap(err, "chmod temp file")
	}
	if err := os.Rename(tmpName, target); err != nil {
		return errors.Wrapf(err, "rename into %s", target)
	}
	return nil
}
