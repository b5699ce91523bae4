// Package batch handles batch processing of filings
package batch

import (
	"github.com/spf13/cobra"

	"mcafin/xbrl-xlsx/cmd/root"
	"mcafin/xbrl-xlsx/internal/factory"
	"mcafin/xbrl-xlsx/internal/fileutils"
)

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Batch process filings from a directory",
	Long: `Batch process all XBRL filings in an input directory and write one Excel
workbook per filing to another directory. Each file is validated and
converted independently; failures are reported and do not stop the run.

Example:
  xbrl-xlsx batch -i filings/ -o reports/`,
	Run: batchFunc,
}

func batchFunc(cmd *cobra.Command, args []string) {
	inputDir := root.SharedFlags.Input
	outputDir := root.SharedFlags.Output

	if inputDir == "" || outputDir == "" {
		root.Log.Fatal("Input and output directories must be specified")
	}
	if !fileutils.DirectoryExists(inputDir) {
		root.Log.Fatalf("Input directory does not exist: %s", inputDir)
	}

	root.Log.Infof("Input directory: %s", inputDir)
	root.Log.Infof("Output directory: %s", outputDir)

	conv, err := factory.NewConverter(root.GetConfig(), root.Log)
	if err != nil {
		root.Log.Fatalf("Error building conversion pipeline: %v", err)
	}

	count, err := conv.BatchConvert(inputDir, outputDir)
	if err != nil {
		root.Log.Errorf("Batch conversion finished with errors: %v", err)
	}
	root.Log.Infof("Batch processing completed. %d reports created.", count)
}
