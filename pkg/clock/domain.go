package clock

import "fmt"

// DayBlanking selects when the display is blanked.
type DayBlanking uint8

const (
	BlankNever           DayBlanking = iota // never blank
	BlankWeekend                            // all day on the weekend
	BlankWeekday                            // all day on weekdays
	BlankAlways                             // always
	BlankHours                              // between start and end hour every day
	BlankWeekendOrHours                     // hours during the week, all day on the weekend
	BlankWeekdayOrHours                     // hours on the weekend, all day on weekdays
	BlankWeekendAndHours                    // hours, weekend only
	BlankWeekdayAndHours                    // hours, weekdays only
)

const (
	DayBlankingMin = BlankNever
	DayBlankingMax = BlankWeekdayAndHours
)

var dayBlankingNames = [...]string{
	"never",
	"weekend",
	"weekday",
	"always",
	"hours",
	"weekend-or-hours",
	"weekday-or-hours",
	"weekend-and-hours",
	"weekday-and-hours",
}

func (d DayBlanking) String() string {
	if d <= DayBlankingMax {
		return dayBlankingNames[d]
	}
	return fmt.Sprintf("DayBlanking(%d)", uint8(d))
}

// ParseDayBlanking returns the mode with the given name.
func ParseDayBlanking(name string) (DayBlanking, bool) {
	for i, n := range dayBlankingNames {
		if n == name {
			return DayBlanking(i), true
		}
	}
	return 0, false
}

// UsesHours reports whether the mode consults the blanking window.
func (d DayBlanking) UsesHours() bool {
	return d >= BlankHours && d <= DayBlankingMax
}

// SpinUpSpeed is the speed of the start-up animation.
type SpinUpSpeed uint8

const (
	SpinUpSlow SpinUpSpeed = iota
	SpinUpMedium
	SpinUpFast
)

const (
	SpinUpMin = SpinUpSlow
	SpinUpMax = SpinUpFast
)

func (s SpinUpSpeed) String() string {
	switch s {
	case SpinUpSlow:
		return "slow"
	case SpinUpMedium:
		return "medium"
	case SpinUpFast:
		return "fast"
	}
	return fmt.Sprintf("SpinUpSpeed(%d)", uint8(s))
}

// ParseSpinUpSpeed returns the speed with the given name.
func ParseSpinUpSpeed(name string) (SpinUpSpeed, bool) {
	for s := SpinUpMin; s <= SpinUpMax; s++ {
		if s.String() == name {
			return s, true
		}
	}
	return 0, false
}

// Field ranges.
const (
	PIRTimeoutMin     = 60   // 1 minute
	PIRTimeoutMax     = 3600 // 1 hour
	PIRTimeoutDefault = 300

	DisplayRotateMin = 0
	DisplayRotateMax = 9

	HoursMax = 24
)
