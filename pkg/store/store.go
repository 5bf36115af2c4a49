// Package store persists a clock's configuration and usage statistics.
//
// Every operation brackets its work between a mount and an unmount of the
// backing volume. The unmount happens exactly once on every exit path,
// including a failed mount. Failures never escape as errors: loads report
// whether they succeeded, saves report whether the record was committed, and
// the reason goes to the debug sink.
package store

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ssargent/clockstore/pkg/clock"
	"github.com/ssargent/clockstore/pkg/codec"
	"github.com/ssargent/clockstore/pkg/debug"
	"github.com/ssargent/clockstore/pkg/storage"
)

// Store loads and saves the configuration and statistics records. It keeps
// no record state between calls. Calls are serialized: a second caller waits
// for the first to unmount.
type Store struct {
	backend storage.Backend
	codec   *codec.RecordCodec
	config  Config
	sink    *debug.Sink

	mu      sync.Mutex
	mounted atomic.Bool
}

// New creates a store over backend.
func New(backend storage.Backend, config Config) *Store {
	config = config.withDefaults()
	return &Store{
		backend: backend,
		codec:   codec.NewRecordCodec(),
		config:  config,
		sink:    config.Sink,
	}
}

// TestMount mounts and unmounts the volume and remembers whether mounting
// worked.
func (s *Store) TestMount() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()

	err := s.backend.Mount()
	s.unmount()

	ok := err == nil
	s.mounted.Store(ok)
	if ok {
		s.sink.Emit("test mount succeeded")
		s.config.Metrics.RecordOperation(opTestMount, statusSuccess, time.Since(start))
	} else {
		s.sink.Emitf("test mount failed: %v", err)
		s.config.Metrics.RecordOperation(opTestMount, statusError, time.Since(start))
	}
	return ok
}

// Mounted returns the result of the last TestMount.
func (s *Store) Mounted() bool {
	return s.mounted.Load()
}

// LoadConfiguration reads the configuration record into dst. It returns
// false, leaving dst untouched, if the volume cannot be mounted, the file is
// absent or unreadable, or the content does not decode. Defaults are the
// caller's business.
func (s *Store) LoadConfiguration(dst *clock.Configuration) bool {
	return s.ReadConfiguration(dst) == Loaded
}

// ReadConfiguration is LoadConfiguration with the absent case told apart
// from failure.
func (s *Store) ReadConfiguration(dst *clock.Configuration) Outcome {
	if dst == nil {
		s.sink.Emit("no destination for config")
		return Failed
	}
	return s.load(opLoadConfig, "config", s.config.ConfigPath, func(rec *codec.Record) (func(), []string) {
		cfg, problems := decodeConfiguration(rec, s.sink)
		return func() { *dst = cfg }, problems
	})
}

// SaveConfiguration writes src as the configuration record and reports
// whether it was committed.
func (s *Store) SaveConfiguration(src *clock.Configuration) bool {
	if src == nil {
		s.sink.Emit("no config to save")
		return false
	}
	return s.save(opSaveConfig, "config", s.config.ConfigPath, configurationFields(src))
}

// LoadStatistics reads the statistics record into dst, with the same
// failure rules as LoadConfiguration.
func (s *Store) LoadStatistics(dst *clock.Statistics) bool {
	return s.ReadStatistics(dst) == Loaded
}

// ReadStatistics is LoadStatistics with the absent case told apart from
// failure.
func (s *Store) ReadStatistics(dst *clock.Statistics) Outcome {
	if dst == nil {
		s.sink.Emit("no destination for stats")
		return Failed
	}
	return s.load(opLoadStats, "stats", s.config.StatsPath, func(rec *codec.Record) (func(), []string) {
		st, problems := decodeStatistics(rec, s.sink)
		return func() { *dst = st }, problems
	})
}

// SaveStatistics writes src as the statistics record and reports whether it
// was committed.
func (s *Store) SaveStatistics(src *clock.Statistics) bool {
	if src == nil {
		s.sink.Emit("no stats to save")
		return false
	}
	return s.save(opSaveStats, "stats", s.config.StatsPath, statisticsFields(src))
}

// decodeFunc builds a record from decoded fields. The returned commit copies
// it into the caller's destination; problems lists keys that fell back to
// zero values.
type decodeFunc func(rec *codec.Record) (commit func(), problems []string)

const (
	statusSuccess = "success"
	statusAbsent  = "absent"
	statusError   = "error"
)

func (s *Store) load(op, kind, path string, decode decodeFunc) (outcome Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	defer func() {
		status := statusError
		switch outcome {
		case Loaded:
			status = statusSuccess
		case Absent:
			status = statusAbsent
		}
		s.config.Metrics.RecordOperation(op, status, time.Since(start))
	}()

	defer s.unmount()
	if err := s.backend.Mount(); err != nil {
		s.sink.Emitf("failed to mount FS: %v", err)
		return Failed
	}
	s.sink.Emit("mounted file system")

	exists, err := s.backend.Exists(path)
	if err != nil {
		s.sink.Emitf("failed to check %s file: %v", kind, err)
		return Failed
	}
	if !exists {
		s.sink.Emitf("no %s file at %s", kind, path)
		return Absent
	}

	s.sink.Emitf("reading %s file", kind)
	h, err := s.backend.OpenRead(path)
	if err != nil {
		s.sink.Emitf("failed to open %s file: %v", kind, err)
		return Failed
	}
	defer func() {
		s.sink.Emitf("Closing %s file", kind)
		if err := h.Close(); err != nil {
			s.sink.Emitf("failed to close %s file: %v", kind, err)
		}
	}()
	s.sink.Emitf("opened %s file (handle %s)", kind, h.ID())

	data, err := h.ReadAll()
	if err != nil {
		s.sink.Emitf("failed to read %s file: %v", kind, err)
		return Failed
	}

	rec, err := s.codec.Decode(data)
	if err != nil {
		s.sink.Emitf("failed to load json %s: %v", kind, err)
		return Failed
	}
	s.sink.Emitf("parsed %s json (%d bytes)", kind, len(data))

	commit, problems := decode(rec)
	if len(problems) > 0 && s.config.StrictDecode {
		s.sink.Emitf("rejected %s file: %s", kind, strings.Join(problems, ", "))
		return Failed
	}
	commit()
	return Loaded
}

func (s *Store) save(op, kind, path string, fields []codec.Field) (ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	defer func() {
		status := statusError
		if ok {
			status = statusSuccess
		}
		s.config.Metrics.RecordOperation(op, status, time.Since(start))
	}()

	defer s.unmount()
	if err := s.backend.Mount(); err != nil {
		s.sink.Emitf("failed to mount FS: %v", err)
		return false
	}
	s.sink.Emit("mounted file system")
	s.sink.Emitf("saving %s", kind)

	data, err := s.codec.Encode(fields)
	if err != nil {
		s.sink.Emitf("failed to encode %s: %v", kind, err)
		return false
	}

	h, err := s.backend.OpenWrite(path)
	if err != nil {
		s.sink.Emitf("failed to open %s file for writing: %v", kind, err)
		return false
	}

	n, err := h.Write(data)
	if err == nil && n != len(data) {
		err = errors.Newf("short write: %d of %d bytes", n, len(data))
	}
	if err != nil {
		s.sink.Emitf("failed to write %s file: %v", kind, err)
		_ = h.Close()
		return false
	}
	if err := h.Close(); err != nil {
		s.sink.Emitf("failed to commit %s file: %v", kind, err)
		return false
	}

	s.sink.Emitf("Saved %s (%d bytes)", kind, len(data))
	return true
}

// unmount releases the volume; a failure is traced but does not change the
// outcome of the operation.
func (s *Store) unmount() {
	if err := s.backend.Unmount(); err != nil {
		s.sink.Emitf("failed to unmount FS: %v", err)
	}
}
