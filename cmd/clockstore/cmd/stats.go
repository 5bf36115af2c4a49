package cmd

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ssargent/clockstore/pkg/clock"
	"github.com/ssargent/clockstore/pkg/store"
)

// statsCmd groups the statistics subcommands
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Work with the usage statistics",
}

// statsAddCmd represents the stats add command
var statsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add minutes to the usage counters",
	Long: `Load the statistics, add the given minutes and save them again.

An unreadable statistics file is left alone rather than replaced with
counters that start from zero.

Example:
  clockstore stats add --uptime 60 --tube-on 45`,
	RunE: func(cmd *cobra.Command, args []string) error {
		uptime, _ := cmd.Flags().GetUint64("uptime")
		tubeOn, _ := cmd.Flags().GetUint64("tube-on")

		st, err := getStore()
		if err != nil {
			return err
		}
		return addStatistics(st, uptime, tubeOn, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.AddCommand(statsAddCmd)
	statsAddCmd.Flags().Uint64("uptime", 0, "Minutes of uptime to add")
	statsAddCmd.Flags().Uint64("tube-on", 0, "Minutes of tube-on time to add")
}

func addStatistics(st *store.Store, uptime, tubeOn uint64, out io.Writer) error {
	var stats clock.Statistics
	if st.ReadStatistics(&stats) == store.Failed {
		return errors.New("statistics could not be read; run 'clockstore init --force' to reset them")
	}

	stats.AddUptime(uptime)
	stats.AddTubeOnTime(tubeOn)
	if !st.SaveStatistics(&stats) {
		return errors.New("failed to save statistics")
	}

	printStatistics(out, stats)
	return nil
}
