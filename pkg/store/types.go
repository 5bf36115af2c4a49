package store

import (
	"github.com/ssargent/clockstore/pkg/debug"
)

// Well-known record paths on the volume
const (
	DefaultConfigPath = "/config.json"
	DefaultStatsPath  = "/stats.json"
)

// DefaultTag prefixes every trace line the store emits
const DefaultTag = "STORE"

// Config holds configuration for the store
type Config struct {
	ConfigPath   string      // Path of the configuration record
	StatsPath    string      // Path of the statistics record
	Sink         *debug.Sink // Trace output; nil disables tracing
	Metrics      *Metrics    // Operation metrics; nil disables them
	StrictDecode bool        // Fail loads with missing or mistyped keys
}

func (c Config) withDefaults() Config {
	if c.ConfigPath == "" {
		c.ConfigPath = DefaultConfigPath
	}
	if c.StatsPath == "" {
		c.StatsPath = DefaultStatsPath
	}
	return c
}

// Outcome is the result of reading a record
type Outcome uint8

const (
	// Loaded means the record was read and copied into the destination.
	Loaded Outcome = iota
	// Absent means the volume mounted but the record file does not exist,
	// which is expected on first boot.
	Absent
	// Failed covers mount, open, read and decode failures.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Loaded:
		return "loaded"
	case Absent:
		return "absent"
	case Failed:
		return "failed"
	}
	return "unknown"
}
