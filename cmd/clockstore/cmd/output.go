package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/ssargent/clockstore/pkg/clock"
	"github.com/ssargent/clockstore/pkg/store"
)

var (
	keyColor  = color.New(color.FgCyan)
	noteColor = color.New(color.FgHiBlack)
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
)

func printField(w io.Writer, key string, value any) {
	keyColor.Fprintf(w, "  %-20s", key)
	fmt.Fprintf(w, " %v\n", value)
}

func printConfiguration(w io.Writer, c clock.Configuration) {
	password := "<empty>"
	if c.WebPassword != "" {
		password = "<set>"
	}

	printField(w, store.KeyNTPPool, c.NTPPool)
	printField(w, store.KeyNTPUpdateInterval, c.NTPUpdateInterval)
	printField(w, store.KeyTimeZone, c.TimeZone)
	printField(w, store.KeyShowSeconds, c.ShowSeconds)
	printField(w, store.KeyFlashSeconds, c.FlashSeconds)
	printField(w, store.KeyDayBlanking, fmt.Sprintf("%d (%s)", c.DayBlanking, clock.DayBlanking(c.DayBlanking)))
	printField(w, store.KeyBlankHourStart, c.BlankHourStart)
	printField(w, store.KeyBlankHourEnd, c.BlankHourEnd)
	printField(w, store.KeyPIRTimeout, c.PIRTimeout)
	printField(w, store.KeyUsePIRPullup, c.UsePIRPullup)
	printField(w, store.KeyTestMode, c.TestMode)
	printField(w, store.KeyWebAuthentication, c.WebAuthentication)
	printField(w, store.KeyWebUsername, c.WebUsername)
	printField(w, store.KeyWebPassword, password)
	printField(w, store.KeyDisplayRotate, c.DisplayRotate)
	printField(w, store.KeySpinUpSpeed, fmt.Sprintf("%d (%s)", c.SpinUpSpeed, clock.SpinUpSpeed(c.SpinUpSpeed)))
}

func printStatistics(w io.Writer, s clock.Statistics) {
	printField(w, store.KeyUptime, fmt.Sprintf("%d min (%s)", s.UptimeMins, clock.ReadableDuration(int64(s.UptimeMins)*60)))
	printField(w, store.KeyTubeOnTime, fmt.Sprintf("%d min (%s)", s.TubeOnTimeMins, clock.ReadableDuration(int64(s.TubeOnTimeMins)*60)))
}
