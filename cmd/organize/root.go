package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgPath  string
	logLevel string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "organize",
	Short: "A transactional file-organizing tool",
	Long: `organize moves the files in a directory into subfolders, derived either
from a regex pattern applied to each filename or from a fixed file-type table.
Every applied action is journaled, so the most recent run can be undone with
"organize rollback".`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default is the per-user config dir)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (trace|debug|info|warn|error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newByTypeCommand())
	rootCmd.AddCommand(newRevertCommand())
	rootCmd.AddCommand(newRollbackCommand())
	rootCmd.AddCommand(newPlanCommand())
	rootCmd.AddCommand(newProfileCommand())
	rootCmd.AddCommand(newLogCommand())
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Print the version number of organize`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("organize version %s (commit: %s, built: %s)\n", version, commit, date)
	},
}
