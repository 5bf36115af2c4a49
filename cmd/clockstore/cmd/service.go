package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ssargent/clockstore/pkg/config"
)

const (
	serviceName = "clockstore.service"
	unitPath    = "/etc/systemd/system/" + serviceName
)

// serviceCmd represents the service command
var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Run the diagnostics server as a systemd service",
}

// installServiceCmd represents the service install command
var installServiceCmd = &cobra.Command{
	Use:   "install",
	Short: "Install clockstore serve as a systemd service",
	Long: `Install a systemd unit that runs 'clockstore serve' with the current
config file, then enable it.

Examples:
  sudo clockstore service install
  sudo clockstore service install --user clock --start=false`,
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetString("user")
		startNow, _ := cmd.Flags().GetBool("start")
		configPath, _ := cmd.Flags().GetString("config")

		if os.Geteuid() != 0 {
			return errors.New("service install requires root privileges; run with sudo")
		}

		cfg := container.GetConfig()
		if !config.ConfigExists(configPath) {
			bootstrapped, err := config.BootstrapConfig(configPath, cfg.Storage.DataDir)
			if err != nil {
				return err
			}
			cfg = bootstrapped
			okColor.Fprintf(cmd.OutOrStdout(), "Created %s\n", configPath)
		}

		binary, err := os.Executable()
		if err != nil {
			return errors.Wrap(err, "locate clockstore binary")
		}
		unit := renderSystemdUnit(binary, configPath, cfg.Storage.DataDir, user)
		if err := os.WriteFile(unitPath, []byte(unit), 0600); err != nil {
			return errors.Wrap(err, "write unit file")
		}

		if err := runSystemctlCommand("daemon-reload"); err != nil {
			return errors.Wrap(err, "reload systemd")
		}
		if err := runSystemctlCommand("enable", serviceName); err != nil {
			return errors.Wrap(err, "enable service")
		}
		okColor.Fprintf(cmd.OutOrStdout(), "Enabled %s\n", serviceName)

		if startNow {
			if err := runSystemctlCommand("start", serviceName); err != nil {
				return errors.Wrap(err, "start service")
			}
			okColor.Fprintf(cmd.OutOrStdout(), "Started %s\n", serviceName)
		}
		noteColor.Fprintf(cmd.OutOrStdout(), "To view logs: sudo journalctl -u %s -f\n", serviceName)
		return nil
	},
}

// uninstallServiceCmd represents the service uninstall command
var uninstallServiceCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the systemd service",
	RunE: func(cmd *cobra.Command, args []string) error {
		if os.Geteuid() != 0 {
			return errors.New("service uninstall requires root privileges; run with sudo")
		}

		_ = runSystemctlCommand("stop", serviceName) // already stopped is fine
		if err := runSystemctlCommand("disable", serviceName); err != nil {
			warnColor.Fprintf(cmd.OutOrStdout(), "could not disable service: %v\n", err)
		}
		if err := os.Remove(unitPath); err != nil && !os.IsNotExist(err) {
			return errors.Wrap(err, "remove unit file")
		}
		if err := runSystemctlCommand("daemon-reload"); err != nil {
			return errors.Wrap(err, "reload systemd")
		}

		okColor.Fprintf(cmd.OutOrStdout(), "Removed %s; config and records were kept\n", serviceName)
		return nil
	},
}

// logsServiceCmd represents the service logs command
var logsServiceCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show the service logs",
	RunE: func(cmd *cobra.Command, args []string) error {
		follow, _ := cmd.Flags().GetBool("follow")
		lines, _ := cmd.Flags().GetInt("lines")
		return runCommand("journalctl", journalArgs(follow, lines)...)
	},
}

// systemctlCmd builds a subcommand that forwards to systemctl
func systemctlCmd(action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSystemctlCommand(action, serviceName)
		},
	}
}

func init() {
	rootCmd.AddCommand(serviceCmd)

	serviceCmd.AddCommand(installServiceCmd)
	serviceCmd.AddCommand(uninstallServiceCmd)
	serviceCmd.AddCommand(logsServiceCmd)
	serviceCmd.AddCommand(systemctlCmd("start", "Start the service"))
	serviceCmd.AddCommand(systemctlCmd("stop", "Stop the service"))
	serviceCmd.AddCommand(systemctlCmd("restart", "Restart the service"))
	serviceCmd.AddCommand(systemctlCmd("status", "Show the service status"))

	installServiceCmd.Flags().String("user", "clockstore", "User to run the service as")
	installServiceCmd.Flags().Bool("start", true, "Start the service after installation")

	logsServiceCmd.Flags().BoolP("follow", "f", false, "Follow log output")
	logsServiceCmd.Flags().IntP("lines", "n", 0, "Number of lines to show")
}

// renderSystemdUnit returns the unit file for running the diagnostics
// server from binary with the given config
func renderSystemdUnit(binary, configPath, dataDir, user string) string {
	return fmt.Sprintf(`[Unit]
Description=clockstore diagnostics server
After=network-online.target
Wants=network-online.target

[Service]
User=%s
Group=%s
ExecStart=%s serve --config %s
Restart=on-failure
NoNewPrivileges=true
UMask=0077
ReadWritePaths=%s
ReadWritePaths=%s

[Install]
WantedBy=multi-user.target
`, user, user, binary, configPath, dataDir, filepath.Dir(configPath))
}

func journalArgs(follow bool, lines int) []string {
	args := []string{"-u", serviceName}
	if follow {
		args = append(args, "-f")
	}
	if lines > 0 {
		args = append(args, fmt.Sprintf("-n%d", lines))
	}
	return args
}

// runSystemctlCommand runs a systemctl command
func runSystemctlCommand(args ...string) error {
	return runCommand("systemctl", args...)
}

// runCommand runs a system command attached to this process's output
func runCommand(command string, args ...string) error {
	c := exec.Command(command, args...)
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c.Run()
}
