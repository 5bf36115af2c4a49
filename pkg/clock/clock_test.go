package clock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfiguration(t *testing.T) {
	cfg := DefaultConfiguration()

	assert.Equal(t, "pool.ntp.org", cfg.NTPPool)
	assert.Equal(t, 7200, cfg.NTPUpdateInterval)
	assert.Equal(t, PIRTimeoutDefault, cfg.PIRTimeout)
	assert.Equal(t, uint8(SpinUpMedium), cfg.SpinUpSpeed)
	assert.Equal(t, uint8(BlankNever), cfg.DayBlanking)
	assert.NoError(t, cfg.Validate())
}

func TestConfigurationValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Configuration)
		problems int
	}{
		{name: "defaults", mutate: func(*Configuration) {}},
		{name: "blanking at max", mutate: func(c *Configuration) { c.DayBlanking = 8 }},
		{name: "blanking past max", mutate: func(c *Configuration) { c.DayBlanking = 9 }, problems: 1},
		{name: "rotate at max", mutate: func(c *Configuration) { c.DisplayRotate = 9 }},
		{name: "rotate past max", mutate: func(c *Configuration) { c.DisplayRotate = 10 }, problems: 1},
		{name: "pir at min", mutate: func(c *Configuration) { c.PIRTimeout = 60 }},
		{name: "pir at max", mutate: func(c *Configuration) { c.PIRTimeout = 3600 }},
		{name: "pir below min", mutate: func(c *Configuration) { c.PIRTimeout = 59 }, problems: 1},
		{name: "hour 24", mutate: func(c *Configuration) { c.BlankHourStart = 24 }, problems: 1},
		{name: "spin up past max", mutate: func(c *Configuration) { c.SpinUpSpeed = 3 }, problems: 1},
		{
			name: "auth without user",
			mutate: func(c *Configuration) {
				c.WebAuthentication = true
				c.WebUsername = ""
			},
			problems: 1,
		},
		{
			name: "several at once",
			mutate: func(c *Configuration) {
				c.DayBlanking = 200
				c.BlankHourEnd = 30
				c.PIRTimeout = 0
			},
			problems: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfiguration()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.problems == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Len(t, verr.Problems, tt.problems)
		})
	}
}

func TestDayBlankingString(t *testing.T) {
	assert.Equal(t, "never", BlankNever.String())
	assert.Equal(t, "weekday-and-hours", BlankWeekdayAndHours.String())
	assert.Equal(t, "DayBlanking(9)", DayBlanking(9).String())
	assert.False(t, BlankAlways.UsesHours())
	assert.True(t, BlankHours.UsesHours())
	assert.Equal(t, "fast", SpinUpFast.String())
}

func TestParseNames(t *testing.T) {
	d, ok := ParseDayBlanking("weekend-or-hours")
	assert.True(t, ok)
	assert.Equal(t, BlankWeekendOrHours, d)

	_, ok = ParseDayBlanking("sometimes")
	assert.False(t, ok)

	s, ok := ParseSpinUpSpeed("slow")
	assert.True(t, ok)
	assert.Equal(t, SpinUpSlow, s)

	_, ok = ParseSpinUpSpeed("ludicrous")
	assert.False(t, ok)
}

func TestStatisticsAccumulate(t *testing.T) {
	var s Statistics
	s.AddUptime(10)
	s.AddUptime(5)
	s.AddTubeOnTime(7)

	assert.Equal(t, uint64(15), s.UptimeMins)
	assert.Equal(t, uint64(7), s.TubeOnTimeMins)
}

func TestReadableDuration(t *testing.T) {
	tests := []struct {
		secs int64
		want string
	}{
		{0, "0 s"},
		{59, "59 s"},
		{60, "1 m 0 s"},
		{3661, "1 h 1 m 1 s"},
		{86400 + 4, "1 d 4 s"},
		{2*86400 + 3*3600 + 4*60 + 5, "2 d 3 h 4 m 5 s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ReadableDuration(tt.secs))
	}
}

func TestSplitField(t *testing.T) {
	assert.Equal(t, "b", SplitField("a,b,c", ',', 1))
	assert.Equal(t, "c", SplitField("a,b,c", ',', 2))
	assert.Equal(t, "", SplitField("a,b,c", ',', 3))
	assert.Equal(t, "", SplitField("", ',', 0))
	assert.Equal(t, "key=value", SplitField("key=value", '|', 0))

	assert.Equal(t, 2024, SplitInt("2024,10,15", ',', 0))
	assert.Equal(t, 15, SplitInt("2024,10,15", ',', 2))
	assert.Equal(t, 0, SplitInt("2024,x,15", ',', 1))
}
