package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "usertable",
	Short: "User table console",
	Long: `usertable serves a browser console listing users from a remote users API,
with search, sorting, inline editing and deletion. The stubapi command runs a
local stand-in for that API.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"directory containing app.env (defaults to $CONFIG_PATH or .)")

	rootCmd.AddCommand(consoleCmd)
	rootCmd.AddCommand(stubAPICmd)
}

// resolveConfigPath returns the --config flag, then $CONFIG_PATH, then ".".
func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return "."
}
