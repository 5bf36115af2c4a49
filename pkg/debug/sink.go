// Package debug provides the optional trace output of the clock store.
//
// A Sink forwards tagged lines to a Callback, but only while it is enabled and
// a callback is set. Emitting never panics and never blocks longer than the
// callback does; wrap slow callbacks with Bounded.
package debug

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Callback receives one line of trace output.
type Callback func(line string)

// Sink is a gated, tagged line emitter. The zero value is disabled.
type Sink struct {
	mu      sync.RWMutex
	tag     string
	enabled bool
	cb      Callback
}

// New creates a disabled sink whose lines are prefixed with "tag: ".
func New(tag string) *Sink {
	return &Sink{tag: tag}
}

// SetEnabled turns output on or off.
func (s *Sink) SetEnabled(enabled bool) {
	s.mu.Lock()
	s.enabled = enabled
	s.mu.Unlock()
}

// Enabled reports whether a line emitted now would reach a callback.
func (s *Sink) Enabled() bool {
	if s == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enabled && s.cb != nil
}

// SetCallback installs cb, replacing any previous callback. Nil disables
// output until another callback is set.
func (s *Sink) SetCallback(cb Callback) {
	s.mu.Lock()
	s.cb = cb
	s.mu.Unlock()
	s.Emit("Debugging started, callback set")
}

// Emit sends msg to the callback. It is safe on a nil sink.
func (s *Sink) Emit(msg string) {
	if s == nil {
		return
	}
	s.mu.RLock()
	cb, enabled, tag := s.cb, s.enabled, s.tag
	s.mu.RUnlock()
	if !enabled || cb == nil {
		return
	}

	line := msg
	if tag != "" {
		line = tag + ": " + msg
	}
	deliver(cb, line)
}

// Emitf formats and emits a line. Arguments are not evaluated into a string
// when the sink is disabled.
func (s *Sink) Emitf(format string, args ...any) {
	if !s.Enabled() {
		return
	}
	s.Emit(fmt.Sprintf(format, args...))
}

// deliver calls cb and swallows any panic it raises.
func deliver(cb Callback, line string) {
	defer func() { _ = recover() }()
	cb(line)
}

// WriterCallback writes each line followed by a newline to w. Write errors
// are dropped.
func WriterCallback(w io.Writer) Callback {
	var mu sync.Mutex
	return func(line string) {
		mu.Lock()
		defer mu.Unlock()
		_, _ = io.WriteString(w, line+"\n")
	}
}

// SlogCallback forwards each line to logger at debug level.
func SlogCallback(logger *slog.Logger) Callback {
	return func(line string) {
		logger.Debug(line)
	}
}
