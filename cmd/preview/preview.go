// Package preview handles the JSON preview command
package preview

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mcafin/xbrl-xlsx/cmd/root"
	"mcafin/xbrl-xlsx/internal/factory"
)

// Cmd represents the preview command
var Cmd = &cobra.Command{
	Use:   "preview",
	Short: "Preview a filing's extracted statements as JSON",
	Long: `Preview parses an XBRL filing without writing a report, runs the
balance-sheet checks on every reported period and prints the extracted
statements, check outcomes and metadata as JSON. The command
exits non-zero when any period is rejected.

Example:
  xbrl-xlsx preview -i filing.xml`,
	Run: previewFunc,
}

func previewFunc(cmd *cobra.Command, args []string) {
	input := root.SharedFlags.Input
	if input == "" {
		root.Log.Fatal("Input file must be specified")
	}

	conv, err := factory.NewConverter(root.GetConfig(), root.Log)
	if err != nil {
		root.Log.Fatalf("Error building conversion pipeline: %v", err)
	}

	preview, err := conv.PreviewFile(input)
	if err != nil {
		root.Log.Fatalf("Error previewing filing: %v", err)
	}

	encoded, err := json.MarshalIndent(preview, "", "  ")
	if err != nil {
		root.Log.Fatalf("Error encoding preview: %v", err)
	}
	fmt.Println(string(encoded))

	if !preview.Valid {
		root.Log.Error("Accounting validation failed")
		os.Exit(1)
	}
}
