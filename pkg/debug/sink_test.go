package debug

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	lines []string
}

func (r *recorder) record(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, line)
}

func (r *recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

func TestSinkGating(t *testing.T) {
	tests := []struct {
		name     string
		enabled  bool
		callback bool
		want     int
	}{
		{name: "disabled without callback", enabled: false, callback: false, want: 0},
		{name: "disabled with callback", enabled: false, callback: true, want: 0},
		{name: "enabled without callback", enabled: true, callback: false, want: 0},
		{name: "enabled with callback", enabled: true, callback: true, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			s := New("STORE")
			s.SetEnabled(tt.enabled)
			if tt.callback {
				s.SetCallback(rec.record)
			}

			s.Emit("mounted file system")

			assert.Len(t, rec.Lines(), tt.want)
			assert.Equal(t, tt.enabled && tt.callback, s.Enabled())
		})
	}
}

func TestSinkPrefixAndOrder(t *testing.T) {
	rec := &recorder{}
	s := New("STORE")
	s.SetEnabled(true)
	s.SetCallback(rec.record)

	s.Emit("one")
	s.Emitf("value: %d", 2)

	assert.Equal(t, []string{
		"STORE: Debugging started, callback set",
		"STORE: one",
		"STORE: value: 2",
	}, rec.Lines())
}

func TestSinkUntagged(t *testing.T) {
	rec := &recorder{}
	s := New("")
	s.SetEnabled(true)
	s.SetCallback(rec.record)
	s.Emit("plain")

	assert.Equal(t, "plain", rec.Lines()[len(rec.Lines())-1])
}

func TestSinkNilSafe(t *testing.T) {
	var s *Sink
	assert.NotPanics(t, func() {
		s.Emit("ignored")
		s.Emitf("ignored %d", 1)
	})
	assert.False(t, s.Enabled())
}

func TestSinkRecoversCallbackPanic(t *testing.T) {
	s := New("STORE")
	s.SetEnabled(true)
	s.SetCallback(func(string) { panic("boom") })

	assert.NotPanics(t, func() { s.Emit("still fine") })
}

func TestEmitfSkipsFormattingWhenDisabled(t *testing.T) {
	s := New("STORE")
	calls := 0
	s.SetCallback(func(string) { calls++ })

	s.Emitf("%v", stringerFunc(func() string {
		t.Error("argument formatted while disabled")
		return ""
	}))
	assert.Zero(t, calls)
}

type stringerFunc func() string

func (f stringerFunc) String() string { return f() }

func TestWriterCallback(t *testing.T) {
	var buf bytes.Buffer
	cb := WriterCallback(&buf)
	cb("a")
	cb("b")
	assert.Equal(t, "a\nb\n", buf.String())
}

func TestSlogCallback(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	SlogCallback(logger)("STORE: saved config")

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, "STORE: saved config")
}

func TestBoundedDeliversInOrder(t *testing.T) {
	rec := &recorder{}
	b := Bounded(rec.record, 16)

	cb := b.Callback()
	for _, l := range []string{"a", "b", "c"} {
		cb(l)
	}
	b.Close()

	assert.Equal(t, []string{"a", "b", "c"}, rec.Lines())
	assert.Zero(t, b.Dropped())
}

func TestBoundedDropsWhenFull(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	rec := &recorder{}

	blocking := func(line string) {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
		rec.record(line)
	}

	b := Bounded(blocking, 1)
	cb := b.Callback()

	cb("first") // picked up by the delivery goroutine, which then blocks
	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("delivery goroutine never started")
	}

	emitted := make(chan struct{})
	go func() {
		cb("second") // fills the queue
		cb("third")  // dropped
		cb("fourth") // dropped
		close(emitted)
	}()

	select {
	case <-emitted:
	case <-time.After(time.Second):
		t.Fatal("emitting blocked on a stuck callback")
	}

	close(release)
	b.Close()

	assert.Equal(t, uint64(2), b.Dropped())
	assert.Equal(t, []string{"first", "second"}, rec.Lines())

	cb("after close")
	assert.Equal(t, uint64(3), b.Dropped())
}

func TestBoundedWithSink(t *testing.T) {
	var buf bytes.Buffer
	b := Bounded(WriterCallback(&buf), 8)

	s := New("STORE")
	s.SetEnabled(true)
	s.SetCallback(b.Callback())
	s.Emit("saved stats")
	b.Close()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "STORE: saved stats", lines[1])
}
