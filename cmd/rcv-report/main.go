package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "rcv-report",
	Short: "Ranked-choice CVR tabulation pipeline",
	Long: `rcv-report ingests Cast Vote Records from several jurisdiction-specific
formats, normalizes ballots per jurisdictional convention, and produces
per-contest tabulation reports plus a global index.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(extractCmd)
}

// Commands are defined in separate files:
// - reportCmd in report.go
// - syncCmd, infoCmd, extractCmd in stubs.go

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
