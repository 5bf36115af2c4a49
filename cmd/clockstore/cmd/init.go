package cmd

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ssargent/clockstore/pkg/clock"
	"github.com/ssargent/clockstore/pkg/config"
	"github.com/ssargent/clockstore/pkg/store"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write default records to a fresh volume",
	Long: `Write the default configuration and zeroed statistics to the volume.

Records that already load are left alone unless --force is given. A record
that exists but cannot be read is only replaced with --force.

If no clockstore config file exists yet, one is created with a generated
API key for the diagnostics server.

Examples:
  clockstore init --data-dir=./data
  clockstore init --backend=sqlite --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		out := cmd.OutOrStdout()

		configPath, _ := cmd.Flags().GetString("config")
		if !config.ConfigExists(configPath) {
			cfg, err := config.BootstrapConfig(configPath, container.GetConfig().Storage.DataDir)
			if err != nil {
				return err
			}
			okColor.Fprintf(out, "Created %s\n", configPath)
			noteColor.Fprintf(out, "Diagnostics API key: %s\n", cfg.Server.APIKey)
		}

		st, err := getStore()
		if err != nil {
			return err
		}
		return initRecords(st, force, out)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "Overwrite records that already exist")
}

// initRecords writes the default configuration and zero statistics where
// they are absent, or unconditionally when force is set
func initRecords(st *store.Store, force bool, out io.Writer) error {
	var cfg clock.Configuration
	switch outcome := st.ReadConfiguration(&cfg); {
	case outcome == store.Loaded && !force:
		noteColor.Fprintln(out, "Configuration already present")
	case outcome == store.Failed && !force:
		return errors.New("existing configuration could not be read; use --force to replace it")
	default:
		defaults := clock.DefaultConfiguration()
		if !st.SaveConfiguration(&defaults) {
			return errors.New("failed to save configuration")
		}
		okColor.Fprintln(out, "Wrote default configuration")
	}

	var stats clock.Statistics
	switch outcome := st.ReadStatistics(&stats); {
	case outcome == store.Loaded && !force:
		noteColor.Fprintln(out, "Statistics already present")
	case outcome == store.Failed && !force:
		return errors.New("existing statistics could not be read; use --force to replace them")
	default:
		zero := clock.Statistics{}
		if !st.SaveStatistics(&zero) {
			return errors.New("failed to save statistics")
		}
		okColor.Fprintln(out, "Wrote zeroed statistics")
	}
	return nil
}
