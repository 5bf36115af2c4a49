package cmd

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

// mountCmd represents the mount command
var mountCmd = &cobra.Command{
	Use:   "mount",
	Short: "Check that the storage volume mounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := getStore()
		if err != nil {
			return err
		}
		if !st.TestMount() {
			warnColor.Fprintln(cmd.OutOrStdout(), "Volume failed to mount")
			return errors.New("mount failed")
		}
		okColor.Fprintln(cmd.OutOrStdout(), "Volume mounted")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mountCmd)
}
