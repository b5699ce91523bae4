// Package convert handles single-filing conversion commands
package convert

import (
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"mcafin/xbrl-xlsx/cmd/root"
	"mcafin/xbrl-xlsx/internal/factory"
	"mcafin/xbrl-xlsx/internal/fileutils"
	"mcafin/xbrl-xlsx/internal/report"
)

// Cmd represents the convert command
var Cmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert an XBRL filing to an Excel report",
	Long: `Convert parses an AOC-4 XBRL instance document, validates the accounting
identities and writes a multi-sheet Excel workbook with the standardized
statements, an audit trail and any unmapped facts.

Example:
  xbrl-xlsx convert -i filing.xml -o report.xlsx --audit-csv audit.csv`,
	Run: convertFunc,
}

func init() {
	Cmd.Flags().StringVar(&root.AuditCSV, "audit-csv", "", "Also export the audit trail to this CSV file")
}

func convertFunc(cmd *cobra.Command, args []string) {
	input := root.SharedFlags.Input
	output := root.SharedFlags.Output

	if input == "" {
		root.Log.Fatal("Input file must be specified")
	}
	if !fileutils.FileExists(input) {
		root.Log.Fatalf("Input file does not exist: %s", input)
	}
	if output == "" {
		dir := ""
		if cfg := root.GetConfig(); cfg != nil {
			dir = cfg.Output.Directory
		}
		output = filepath.Join(dir, report.ExportFilename(time.Now().UTC()))
	}

	root.Log.Infof("Input XBRL file: %s", input)
	root.Log.Infof("Output Excel file: %s", output)

	conv, err := factory.NewConverter(root.GetConfig(), root.Log)
	if err != nil {
		root.Log.Fatalf("Error building conversion pipeline: %v", err)
	}

	if root.SharedFlags.Validate {
		parser, err := factory.NewParser(root.GetConfig(), root.Log)
		if err != nil {
			root.Log.Fatalf("Error building parser: %v", err)
		}
		valid, err := parser.ValidateFormat(input)
		if err != nil {
			root.Log.Fatalf("Error validating file: %v", err)
		}
		if !valid {
			root.Log.Fatal("The file is not a valid XBRL instance document")
		}
		root.Log.Info("Validation successful.")
	}

	result, messages, err := conv.Convert(input, output, root.AuditCSV)
	if err != nil {
		root.Log.Fatalf("Error converting filing: %v", err)
	}

	for _, msg := range messages {
		if !msg.Passed {
			root.Log.Warnf("Validation failed [%s/%s %s]: %s", msg.Statement, msg.Field, msg.Period, msg.Message)
		}
	}
	if result.Metadata.UnmappedCount > 0 {
		root.Log.Warnf("%d facts could not be mapped to known metrics", result.Metadata.UnmappedCount)
	}

	root.Log.Info("XBRL to Excel conversion completed successfully!")
}
