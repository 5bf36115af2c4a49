package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/ssargent/clockstore/pkg/clock"
	"github.com/ssargent/clockstore/pkg/store"
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:       "show config|stats",
	Short:     "Print a stored record",
	Long:      `Load and print the configuration or statistics record. When the record cannot be loaded the built-in defaults are printed instead and marked as such.`,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"config", "stats"},
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := getStore()
		if err != nil {
			return err
		}
		if args[0] == "config" {
			showConfiguration(st, cmd.OutOrStdout())
		} else {
			showStatistics(st, cmd.OutOrStdout())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func showConfiguration(st *store.Store, out io.Writer) {
	cfg := clock.DefaultConfiguration()
	outcome := st.ReadConfiguration(&cfg)
	if outcome != store.Loaded {
		warnColor.Fprintf(out, "Configuration %s, showing defaults\n", outcome)
	}
	printConfiguration(out, cfg)

	if outcome == store.Loaded {
		if err := cfg.Validate(); err != nil {
			warnColor.Fprintf(out, "%v\n", err)
		}
	}
}

func showStatistics(st *store.Store, out io.Writer) {
	var stats clock.Statistics
	if outcome := st.ReadStatistics(&stats); outcome != store.Loaded {
		warnColor.Fprintf(out, "Statistics %s, showing zero counters\n", outcome)
	}
	printStatistics(out, stats)
}
