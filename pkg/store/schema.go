package store

import (
	"fmt"

	"github.com/ssargent/clockstore/pkg/clock"
	"github.com/ssargent/clockstore/pkg/codec"
	"github.com/ssargent/clockstore/pkg/debug"
)

// Configuration record keys
const (
	KeyNTPPool           = "ntp_pool"
	KeyNTPUpdateInterval = "ntp_update_interval"
	KeyTimeZone          = "time_zone_string"
	KeyShowSeconds       = "showSeconds"
	KeyFlashSeconds      = "flashSeconds"
	KeyDayBlanking       = "dayBlanking"
	KeyBlankHourStart    = "blankHourStart"
	KeyBlankHourEnd      = "blankHourEnd"
	KeyPIRTimeout        = "pirTimeout"
	KeyUsePIRPullup      = "usePIRPullup"
	KeyTestMode          = "testMode"
	KeyWebAuthentication = "webAuthentication"
	KeyWebUsername       = "webUsername"
	KeyWebPassword       = "webPassword"
	KeyDisplayRotate     = "displayRotate"
	KeySpinUpSpeed       = "spinUpSpeed"
)

// Statistics record keys
const (
	KeyUptime     = "uptime"
	KeyTubeOnTime = "tubeontime"
)

// ConfigurationKeys lists the configuration keys in file order.
var ConfigurationKeys = []string{
	KeyNTPPool, KeyNTPUpdateInterval, KeyTimeZone,
	KeyShowSeconds, KeyFlashSeconds,
	KeyDayBlanking, KeyBlankHourStart, KeyBlankHourEnd,
	KeyPIRTimeout, KeyUsePIRPullup,
	KeyTestMode, KeyWebAuthentication, KeyWebUsername, KeyWebPassword,
	KeyDisplayRotate, KeySpinUpSpeed,
}

// StatisticsKeys lists the statistics keys in file order.
var StatisticsKeys = []string{KeyUptime, KeyTubeOnTime}

func configurationFields(c *clock.Configuration) []codec.Field {
	return []codec.Field{
		{Key: KeyNTPPool, Value: c.NTPPool},
		{Key: KeyNTPUpdateInterval, Value: c.NTPUpdateInterval},
		{Key: KeyTimeZone, Value: c.TimeZone},
		{Key: KeyShowSeconds, Value: c.ShowSeconds},
		{Key: KeyFlashSeconds, Value: c.FlashSeconds},
		{Key: KeyDayBlanking, Value: c.DayBlanking},
		{Key: KeyBlankHourStart, Value: c.BlankHourStart},
		{Key: KeyBlankHourEnd, Value: c.BlankHourEnd},
		{Key: KeyPIRTimeout, Value: c.PIRTimeout},
		{Key: KeyUsePIRPullup, Value: c.UsePIRPullup},
		{Key: KeyTestMode, Value: c.TestMode},
		{Key: KeyWebAuthentication, Value: c.WebAuthentication},
		{Key: KeyWebUsername, Value: c.WebUsername},
		{Key: KeyWebPassword, Value: c.WebPassword},
		{Key: KeyDisplayRotate, Value: c.DisplayRotate},
		{Key: KeySpinUpSpeed, Value: c.SpinUpSpeed},
	}
}

func statisticsFields(s *clock.Statistics) []codec.Field {
	return []codec.Field{
		{Key: KeyUptime, Value: s.UptimeMins},
		{Key: KeyTubeOnTime, Value: s.TubeOnTimeMins},
	}
}

// fieldReader pulls typed fields out of a decoded record, tracing each one
// and collecting the keys that fell back to a zero value.
type fieldReader struct {
	rec      *codec.Record
	sink     *debug.Sink
	problems []string
}

func (r *fieldReader) note(key string, shown any, st codec.Status) {
	if st != codec.StatusOK {
		r.problems = append(r.problems, fmt.Sprintf("%s: %s", key, st))
		r.sink.Emitf("Loaded %s: %v (%s, using zero value)", key, shown, st)
		return
	}
	r.sink.Emitf("Loaded %s: %v", key, shown)
}

func (r *fieldReader) str(key string) string {
	v, st := r.rec.String(key)
	r.note(key, v, st)
	return v
}

// secret reads a text field whose value is kept out of traces.
func (r *fieldReader) secret(key string) string {
	v, st := r.rec.String(key)
	shown := ""
	if v != "" {
		shown = "<redacted>"
	}
	r.note(key, shown, st)
	return v
}

func (r *fieldReader) integer(key string) int {
	v, st := r.rec.Int(key)
	r.note(key, v, st)
	return int(v)
}

func (r *fieldReader) unsigned(key string) uint64 {
	v, st := r.rec.Uint(key)
	r.note(key, v, st)
	return v
}

func (r *fieldReader) small(key string) uint8 {
	v, st := r.rec.Byte(key)
	r.note(key, v, st)
	return v
}

func (r *fieldReader) boolean(key string) bool {
	v, st := r.rec.Bool(key)
	r.note(key, v, st)
	return v
}

// decodeConfiguration maps every configuration key onto a fresh record.
// Domains are not checked here; see clock.Configuration.Validate.
func decodeConfiguration(rec *codec.Record, sink *debug.Sink) (clock.Configuration, []string) {
	r := &fieldReader{rec: rec, sink: sink}
	c := clock.Configuration{
		NTPPool:           r.str(KeyNTPPool),
		NTPUpdateInterval: r.integer(KeyNTPUpdateInterval),
		TimeZone:          r.str(KeyTimeZone),
		ShowSeconds:       r.boolean(KeyShowSeconds),
		FlashSeconds:      r.boolean(KeyFlashSeconds),
		DayBlanking:       r.small(KeyDayBlanking),
		BlankHourStart:    r.small(KeyBlankHourStart),
		BlankHourEnd:      r.small(KeyBlankHourEnd),
		PIRTimeout:        r.integer(KeyPIRTimeout),
		UsePIRPullup:      r.boolean(KeyUsePIRPullup),
		TestMode:          r.boolean(KeyTestMode),
		WebAuthentication: r.boolean(KeyWebAuthentication),
		WebUsername:       r.str(KeyWebUsername),
		WebPassword:       r.secret(KeyWebPassword),
		DisplayRotate:     r.small(KeyDisplayRotate),
		SpinUpSpeed:       r.small(KeySpinUpSpeed),
	}
	return c, r.problems
}

func decodeStatistics(rec *codec.Record, sink *debug.Sink) (clock.Statistics, []string) {
	r := &fieldReader{rec: rec, sink: sink}
	s := clock.Statistics{
		UptimeMins:     r.unsigned(KeyUptime),
		TubeOnTimeMins: r.unsigned(KeyTubeOnTime),
	}
	return s, r.problems
}
