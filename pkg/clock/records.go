// Package clock holds the two records a Dekatron clock persists between
// boots and the domain ranges that govern their fields.
//
// The records are plain values. They are owned by the application, passed
// by pointer into the store, and never retained by it.
package clock

// Configuration is the operating configuration of one clock.
type Configuration struct {
	NTPPool           string
	NTPUpdateInterval int // seconds
	TimeZone          string
	ShowSeconds       bool
	FlashSeconds      bool
	DayBlanking       uint8
	BlankHourStart    uint8
	BlankHourEnd      uint8
	PIRTimeout        int // seconds
	UsePIRPullup      bool
	TestMode          bool
	WebAuthentication bool
	WebUsername       string
	WebPassword       string
	DisplayRotate     uint8
	SpinUpSpeed       uint8
}

// Statistics holds the cumulative usage counters of one clock.
type Statistics struct {
	UptimeMins     uint64
	TubeOnTimeMins uint64
}

// AddUptime adds minutes of powered-on time.
func (s *Statistics) AddUptime(mins uint64) {
	s.UptimeMins += mins
}

// AddTubeOnTime adds minutes the tube was lit.
func (s *Statistics) AddTubeOnTime(mins uint64) {
	s.TubeOnTimeMins += mins
}
