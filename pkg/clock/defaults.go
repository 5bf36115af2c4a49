package clock

// Compiled-in defaults used when nothing has been persisted yet.
const (
	DefaultNTPPool           = "pool.ntp.org"
	DefaultNTPUpdateInterval = 7200
	DefaultTimeZone          = "UTC0"
	DefaultWebUsername       = "admin"
)

// DefaultConfiguration returns the configuration a clock runs with when
// loading from storage fails. The store never applies it on its own.
func DefaultConfiguration() Configuration {
	return Configuration{
		NTPPool:           DefaultNTPPool,
		NTPUpdateInterval: DefaultNTPUpdateInterval,
		TimeZone:          DefaultTimeZone,
		ShowSeconds:       true,
		FlashSeconds:      false,
		DayBlanking:       uint8(BlankNever),
		BlankHourStart:    0,
		BlankHourEnd:      7,
		PIRTimeout:        PIRTimeoutDefault,
		UsePIRPullup:      true,
		TestMode:          false,
		WebAuthentication: false,
		WebUsername:       DefaultWebUsername,
		WebPassword:       "",
		DisplayRotate:     DisplayRotateMin,
		SpinUpSpeed:       uint8(SpinUpMedium),
	}
}
