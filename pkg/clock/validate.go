package clock

import (
	"fmt"
	"strings"
)

// ValidationError lists every field of a Configuration that is out of range.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}

// Validate checks field domains. Loaded records are not validated by the
// store, so callers must run this before acting on loaded values.
func (c *Configuration) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if DayBlanking(c.DayBlanking) > DayBlankingMax {
		add("dayBlanking %d out of range %d-%d", c.DayBlanking, DayBlankingMin, DayBlankingMax)
	}
	if c.BlankHourStart >= HoursMax {
		add("blankHourStart %d out of range 0-%d", c.BlankHourStart, HoursMax-1)
	}
	if c.BlankHourEnd >= HoursMax {
		add("blankHourEnd %d out of range 0-%d", c.BlankHourEnd, HoursMax-1)
	}
	if c.PIRTimeout < PIRTimeoutMin || c.PIRTimeout > PIRTimeoutMax {
		add("pirTimeout %d out of range %d-%d", c.PIRTimeout, PIRTimeoutMin, PIRTimeoutMax)
	}
	if c.DisplayRotate > DisplayRotateMax {
		add("displayRotate %d out of range %d-%d", c.DisplayRotate, DisplayRotateMin, DisplayRotateMax)
	}
	if SpinUpSpeed(c.SpinUpSpeed) > SpinUpMax {
		add("spinUpSpeed %d out of range %d-%d", c.SpinUpSpeed, SpinUpMin, SpinUpMax)
	}
	if c.NTPUpdateInterval <= 0 {
		add("ntp_update_interval must be positive, got %d", c.NTPUpdateInterval)
	}
	if c.WebAuthentication && c.WebUsername == "" {
		add("webUsername is required when webAuthentication is enabled")
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
