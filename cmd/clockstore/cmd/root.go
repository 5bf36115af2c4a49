package cmd

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ssargent/clockstore/pkg/config"
	"github.com/ssargent/clockstore/pkg/di"
	"github.com/ssargent/clockstore/pkg/logging"
	"github.com/ssargent/clockstore/pkg/store"
)

// container is built once per invocation by the root pre-run hook, or
// injected by tests through SetContainer
var container *di.Container

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "clockstore",
	Short: "clockstore - clock configuration and statistics store",
	Long: `clockstore keeps a clock's configuration and usage statistics as two
small JSON files on a mountable volume. Every command mounts the volume,
does its work and unmounts again.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupContainer,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if container == nil {
			return
		}
		if dropped := container.Close(); dropped > 0 {
			container.GetLogger().Warn("debug lines dropped", "count", dropped)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// SetContainer injects a prebuilt container (for testing)
func SetContainer(c *di.Container) {
	container = c
}

func init() {
	rootCmd.PersistentFlags().String("config", config.GetDefaultConfigPath(), "Path to the clockstore config file")
	rootCmd.PersistentFlags().StringP("data-dir", "d", "", "Data directory for the storage volume")
	rootCmd.PersistentFlags().String("backend", "", "Storage backend: dir, pebble, sqlite or memory")
	rootCmd.PersistentFlags().Bool("debug", false, "Trace every store step to the log")
}

func setupContainer(cmd *cobra.Command, args []string) error {
	if container != nil {
		return nil
	}

	cfg, err := loadAppConfig(cmd)
	if err != nil {
		return err
	}

	logger := logging.New(cfg.Logging, cmd.ErrOrStderr())
	c, err := di.NewContainer(cfg, logger)
	if err != nil {
		return errors.Wrap(err, "failed to initialize")
	}
	container = c
	return nil
}

// loadAppConfig reads the config file if there is one, then applies the
// environment and finally any flags given on the command line
func loadAppConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	cfg := config.DefaultConfig()
	if config.ConfigExists(path) {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		cfg.Storage.DataDir, _ = flags.GetString("data-dir")
	}
	if flags.Changed("backend") {
		cfg.Storage.Backend, _ = flags.GetString("backend")
	}
	if flags.Changed("debug") {
		cfg.Debug.Enabled, _ = flags.GetBool("debug")
	}
	if cfg.Debug.Enabled {
		// Store traces are debug records
		cfg.Logging.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

func getStore() (*store.Store, error) {
	if container == nil {
		return nil, errors.New("dependency container not initialized")
	}
	return container.GetStore(), nil
}
