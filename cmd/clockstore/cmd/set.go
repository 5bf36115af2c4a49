package cmd

import (
	"io"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ssargent/clockstore/pkg/clock"
	"github.com/ssargent/clockstore/pkg/store"
)

// setCmd represents the set command
var setCmd = &cobra.Command{
	Use:   "set key=value...",
	Short: "Change configuration fields",
	Long: `Load the configuration (or the defaults when there is none), apply the
given assignments by file key, validate the result and save it.

Day blanking and spin-up speed also accept their names.

Examples:
  clockstore set ntp_pool=europe.pool.ntp.org pirTimeout=600
  clockstore set dayBlanking=weekend-or-hours blankHourStart=23 blankHourEnd=7
  clockstore set webAuthentication=true webPassword=secret`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := getStore()
		if err != nil {
			return err
		}
		return runSet(st, args, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(setCmd)
}

func runSet(st *store.Store, assignments []string, out io.Writer) error {
	cfg := clock.DefaultConfiguration()
	switch st.ReadConfiguration(&cfg) {
	case store.Absent:
		noteColor.Fprintln(out, "No configuration saved yet, starting from defaults")
	case store.Failed:
		warnColor.Fprintln(out, "Configuration could not be read, starting from defaults")
	}

	if err := applySettings(&cfg, assignments); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if !st.SaveConfiguration(&cfg) {
		return errors.New("failed to save configuration")
	}

	okColor.Fprintf(out, "Saved %d field(s)\n", len(assignments))
	return nil
}

// applySettings applies key=value assignments to cfg. Keys are the file
// keys; the value is everything after the first '='.
func applySettings(cfg *clock.Configuration, assignments []string) error {
	for _, a := range assignments {
		key := clock.SplitField(a, '=', 0)
		if key == a || key == "" {
			return errors.Newf("expected key=value, got %q", a)
		}
		if err := applySetting(cfg, key, a[len(key)+1:]); err != nil {
			return errors.Wrapf(err, "%s", key)
		}
	}
	return nil
}

func applySetting(cfg *clock.Configuration, key, value string) error {
	var err error
	switch key {
	case store.KeyNTPPool:
		cfg.NTPPool = value
	case store.KeyNTPUpdateInterval:
		cfg.NTPUpdateInterval, err = strconv.Atoi(value)
	case store.KeyTimeZone:
		cfg.TimeZone = value
	case store.KeyShowSeconds:
		cfg.ShowSeconds, err = strconv.ParseBool(value)
	case store.KeyFlashSeconds:
		cfg.FlashSeconds, err = strconv.ParseBool(value)
	case store.KeyDayBlanking:
		if mode, ok := clock.ParseDayBlanking(value); ok {
			cfg.DayBlanking = uint8(mode)
		} else {
			cfg.DayBlanking, err = parseUint8(value)
		}
	case store.KeyBlankHourStart:
		cfg.BlankHourStart, err = parseUint8(value)
	case store.KeyBlankHourEnd:
		cfg.BlankHourEnd, err = parseUint8(value)
	case store.KeyPIRTimeout:
		cfg.PIRTimeout, err = strconv.Atoi(value)
	case store.KeyUsePIRPullup:
		cfg.UsePIRPullup, err = strconv.ParseBool(value)
	case store.KeyTestMode:
		cfg.TestMode, err = strconv.ParseBool(value)
	case store.KeyWebAuthentication:
		cfg.WebAuthentication, err = strconv.ParseBool(value)
	case store.KeyWebUsername:
		cfg.WebUsername = value
	case store.KeyWebPassword:
		cfg.WebPassword = value
	case store.KeyDisplayRotate:
		cfg.DisplayRotate, err = parseUint8(value)
	case store.KeySpinUpSpeed:
		if speed, ok := clock.ParseSpinUpSpeed(value); ok {
			cfg.SpinUpSpeed = uint8(speed)
		} else {
			cfg.SpinUpSpeed, err = parseUint8(value)
		}
	default:
		return errors.New("unknown key")
	}
	return err
}

func parseUint8(value string) (uint8, error) {
	n, err := strconv.ParseUint(value, 10, 8)
	return uint8(n), err
}
