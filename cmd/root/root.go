// Package root contains the root command for the application
package root

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"mcafin/xbrl-xlsx/internal/config"
	"mcafin/xbrl-xlsx/internal/fileutils"
	"mcafin/xbrl-xlsx/internal/report"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input    string
	Output   string
	Validate bool
}

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cfg is the application configuration, loaded before any command runs
	Cfg *config.Config

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "xbrl-xlsx",
		Short: "A CLI tool to convert MCA XBRL filings into standardized Excel reports.",
		Long: `xbrl-xlsx is a CLI tool that parses AOC-4 XBRL instance documents,
normalizes Indian currency scales, validates accounting identities and
renders the standardized statements as a multi-sheet Excel workbook.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to xbrl-xlsx!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Initialize and configure logging
			config.LoadEnv()
			Log = config.ConfigureLogging()

			cfg, err := config.InitializeConfig()
			if err != nil {
				Log.WithError(err).Error("Invalid configuration")
				os.Exit(1)
			}
			Cfg = cfg
			Log = config.ConfigureLoggingFromConfig(cfg)

			// Propagate the configured logger to the leaf packages
			fileutils.SetLogger(Log)
			report.SetLogger(Log)
		},
	}

	// SharedFlags are the common flags accessible to all commands
	SharedFlags = CommonFlags{}

	// AuditCSV is the optional audit trail export path for convert
	AuditCSV string
)

// GetConfig returns the loaded configuration, or defaults when no command
// has run yet.
func GetConfig() *config.Config {
	return Cfg
}

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input file (or directory for batch)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file (or directory for batch)")
	Cmd.PersistentFlags().BoolVarP(&SharedFlags.Validate, "validate", "v", false, "Validate file format before conversion")
}
