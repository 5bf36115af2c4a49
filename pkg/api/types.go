package api

import (
	"github.com/ssargent/clockstore/pkg/clock"
	"github.com/ssargent/clockstore/pkg/store"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Port   int
	Bind   string
	APIKey string
}

// RecordStore is the part of store.Store the server reads from
type RecordStore interface {
	TestMount() bool
	ReadConfiguration(dst *clock.Configuration) store.Outcome
	ReadStatistics(dst *clock.Statistics) store.Outcome
}

// HealthResponse reports whether the storage volume mounts
type HealthResponse struct {
	Status  string `json:"status"`
	Mounted bool   `json:"mounted"`
}

// StatsResponse is the statistics record plus readable durations
type StatsResponse struct {
	UptimeMins     uint64 `json:"uptime"`
	TubeOnTimeMins uint64 `json:"tubeontime"`
	Uptime         string `json:"uptime_readable"`
	TubeOnTime     string `json:"tubeontime_readable"`
}

// ConfigurationResponse mirrors the configuration file with the web
// password withheld
type ConfigurationResponse struct {
	NTPPool           string `json:"ntp_pool"`
	NTPUpdateInterval int    `json:"ntp_update_interval"`
	TimeZone          string `json:"time_zone_string"`
	ShowSeconds       bool   `json:"showSeconds"`
	FlashSeconds      bool   `json:"flashSeconds"`
	DayBlanking       uint8  `json:"dayBlanking"`
	DayBlankingName   string `json:"dayBlankingName"`
	BlankHourStart    uint8  `json:"blankHourStart"`
	BlankHourEnd      uint8  `json:"blankHourEnd"`
	PIRTimeout        int    `json:"pirTimeout"`
	UsePIRPullup      bool   `json:"usePIRPullup"`
	TestMode          bool   `json:"testMode"`
	WebAuthentication bool   `json:"webAuthentication"`
	WebUsername       string `json:"webUsername"`
	WebPasswordSet    bool   `json:"webPasswordSet"`
	DisplayRotate     uint8  `json:"displayRotate"`
	SpinUpSpeed       uint8  `json:"spinUpSpeed"`
}

func newStatsResponse(s clock.Statistics) StatsResponse {
	return StatsResponse{
		UptimeMins:     s.UptimeMins,
		TubeOnTimeMins: s.TubeOnTimeMins,
		Uptime:         clock.ReadableDuration(int64(s.UptimeMins) * 60),
		TubeOnTime:     clock.ReadableDuration(int64(s.TubeOnTimeMins) * 60),
	}
}

func newConfigurationResponse(c clock.Configuration) ConfigurationResponse {
	return ConfigurationResponse{
		NTPPool:           c.NTPPool,
		NTPUpdateInterval: c.NTPUpdateInterval,
		TimeZone:          c.TimeZone,
		ShowSeconds:       c.ShowSeconds,
		FlashSeconds:      c.FlashSeconds,
		DayBlanking:       c.DayBlanking,
		DayBlankingName:   clock.DayBlanking(c.DayBlanking).String(),
		BlankHourStart:    c.BlankHourStart,
		BlankHourEnd:      c.BlankHourEnd,
		PIRTimeout:        c.PIRTimeout,
		UsePIRPullup:      c.UsePIRPullup,
		TestMode:          c.TestMode,
		WebAuthentication: c.WebAuthentication,
		WebUsername:       c.WebUsername,
		WebPasswordSet:    c.WebPassword != "",
		DisplayRotate:     c.DisplayRotate,
		SpinUpSpeed:       c.SpinUpSpeed,
	}
}
