// Package converter orchestrates the end-to-end pipeline: bounded file
// intake, XBRL parsing, accounting validation and Excel report generation.
package converter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"mcafin/xbrl-xlsx/internal/config"
	"mcafin/xbrl-xlsx/internal/fileutils"
	"mcafin/xbrl-xlsx/internal/logging"
	"mcafin/xbrl-xlsx/internal/models"
	"mcafin/xbrl-xlsx/internal/parsererror"
	"mcafin/xbrl-xlsx/internal/report"
	"mcafin/xbrl-xlsx/internal/validation"
	"mcafin/xbrl-xlsx/internal/xbrlparser"
)

// Converter wires the parser, validation engine and report generator into
// the user-facing convert, preview and batch operations.
type Converter struct {
	parser      *xbrlparser.Parser
	engine      *validation.Engine
	generator   *report.Generator
	logger      logging.Logger
	maxFileSize int64
	workerCount int
}

// NewConverter creates a Converter with the default payload cap and one
// worker per CPU.
func NewConverter(parser *xbrlparser.Parser, engine *validation.Engine, generator *report.Generator, logger logging.Logger) *Converter {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Converter{
		parser:      parser,
		engine:      engine,
		generator:   generator,
		logger:      logger,
		maxFileSize: config.DefaultMaxFileSizeMB * 1024 * 1024,
		workerCount: runtime.NumCPU(),
	}
}

// SetMaxFileSize overrides the payload cap in bytes. Values below one are
// ignored.
func (c *Converter) SetMaxFileSize(bytes int64) {
	if bytes > 0 {
		c.maxFileSize = bytes
	}
}

// SetWorkerCount overrides the batch worker count. Values below one are
// ignored.
func (c *Converter) SetWorkerCount(n int) {
	if n > 0 {
		c.workerCount = n
	}
}

// checkFileSize rejects payloads over the configured cap before any XML
// work starts.
func (c *Converter) checkFileSize(inputPath string) error {
	info, err := os.Stat(inputPath)
	if err != nil {
		return fmt.Errorf("cannot stat input file: %w", err)
	}
	if info.Size() > c.maxFileSize {
		return fmt.Errorf("input file %s is %d bytes, above the %d byte limit", inputPath, info.Size(), c.maxFileSize)
	}
	return nil
}

// Convert parses one filing, runs all accounting checks and writes the
// Excel report. Validation failures do not abort the conversion; they are
// reported in the workbook and returned to the caller. auditCSV optionally
// names a CSV file to receive the audit trail.
func (c *Converter) Convert(inputPath, outputPath, auditCSV string) (*models.ParseResult, []models.ValidationMessage, error) {
	started := time.Now()

	if err := c.checkFileSize(inputPath); err != nil {
		return nil, nil, err
	}

	result, err := c.parser.ParseFile(inputPath)
	if err != nil {
		return nil, nil, err
	}

	messages := c.engine.ValidateStatements(result.Statements)
	if err := c.generator.WriteFile(result, messages, outputPath); err != nil {
		return nil, nil, err
	}
	if auditCSV != "" {
		if err := report.WriteAuditTrailCSV(result.AuditTrail, auditCSV); err != nil {
			return nil, nil, err
		}
	}

	c.logger.Info("Conversion completed",
		logging.Field{Key: logging.FieldInputFile, Value: inputPath},
		logging.Field{Key: logging.FieldOutputFile, Value: outputPath},
		logging.Field{Key: logging.FieldCount, Value: len(result.AuditTrail)},
		logging.Field{Key: logging.FieldDuration, Value: time.Since(started).Milliseconds()})

	return result, messages, nil
}

// PreviewCheck is one validation outcome in a preview.
type PreviewCheck struct {
	Statement  string `json:"statement"`
	Field      string `json:"field"`
	Period     string `json:"period"`
	Status     string `json:"status"`
	Difference string `json:"difference"`
	Message    string `json:"message"`
}

// Preview is the JSON-ready summary of a filing: extracted statements,
// validation outcomes and metadata, without writing any report.
type Preview struct {
	Metadata   models.Metadata                         `json:"metadata"`
	Statements map[string]map[string]map[string]string `json:"statements"`
	Validation []PreviewCheck                          `json:"validation"`
	Valid      bool                                    `json:"valid"`
}

// balanceSheetRequiredFields must be present before the balance-sheet
// identity is worth checking in a preview.
var balanceSheetRequiredFields = []string{"total_assets"}

// PreviewFile parses a filing and runs the fail-fast balance-sheet checks
// on every reported period, without generating a report. Each rejection is
// surfaced as a FAIL outcome and flips Valid to false; the convert path
// keeps the collect-all policy instead.
func (c *Converter) PreviewFile(inputPath string) (*Preview, error) {
	if err := c.checkFileSize(inputPath); err != nil {
		return nil, err
	}

	result, err := c.parser.ParseFile(inputPath)
	if err != nil {
		return nil, err
	}

	statements := make(map[string]map[string]map[string]string)
	for _, statement := range models.AllStatements {
		section := make(map[string]map[string]string)
		for period, fields := range result.Statements.PeriodFields(statement) {
			row := make(map[string]string, len(fields))
			for field, value := range fields {
				row[field] = value.String()
			}
			section[period] = row
		}
		statements[string(statement)] = section
	}

	preview := &Preview{
		Metadata:   result.Metadata,
		Statements: statements,
		Valid:      true,
	}
	for _, period := range result.Statements.Periods(models.BalanceSheet) {
		fields := result.Statements.PeriodFields(models.BalanceSheet)[period]
		check := PreviewCheck{
			Statement: string(models.BalanceSheet),
			Field:     "total_assets",
			Period:    period,
		}

		res, err := c.engine.ValidateRequiredFields(fields, balanceSheetRequiredFields)
		if err == nil {
			res, err = c.engine.ValidateBalanceSheet(fields)
		}
		if err != nil {
			var accountingErr *parsererror.AccountingValidationError
			if !errors.As(err, &accountingErr) {
				return nil, err
			}
			check.Status = "FAIL"
			check.Difference = accountingErr.Difference.String()
			check.Message = accountingErr.Msg
			preview.Valid = false
		} else {
			check.Status = "PASS"
			check.Difference = res.Difference.String()
			check.Message = "Balance sheet balances within tolerance"
		}
		preview.Validation = append(preview.Validation, check)
	}

	c.logger.Info("Previewed filing",
		logging.Field{Key: logging.FieldInputFile, Value: inputPath},
		logging.Field{Key: logging.FieldStatus, Value: fmt.Sprintf("valid=%t", preview.Valid)})

	return preview, nil
}

// BatchResult is the outcome of one file inside a batch run.
type BatchResult struct {
	InputFile  string
	OutputFile string
	Err        error
}

// BatchConvert converts every XBRL file in inputDir, writing one workbook
// per filing into outputDir. Files that fail format validation or
// conversion are skipped; processing continues. It returns the number of
// successful conversions and an error summarizing any failures.
func (c *Converter) BatchConvert(inputDir, outputDir string) (int, error) {
	files, err := listXBRLFiles(inputDir)
	if err != nil {
		return 0, err
	}
	if len(files) == 0 {
		return 0, fmt.Errorf("no .xml or .xbrl files found in %s", inputDir)
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create output directory: %w", err)
	}

	c.logger.Info("Starting batch conversion",
		logging.Field{Key: "input_dir", Value: inputDir},
		logging.Field{Key: "output_dir", Value: outputDir},
		logging.Field{Key: logging.FieldCount, Value: len(files)},
		logging.Field{Key: "workers", Value: c.workerCount})

	results := c.runPool(files, outputDir)

	succeeded := 0
	var failures []string
	for _, res := range results {
		if res.Err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", filepath.Base(res.InputFile), res.Err))
			c.logger.WithError(res.Err).Error("Batch file failed",
				logging.Field{Key: logging.FieldInputFile, Value: res.InputFile})
			continue
		}
		succeeded++
	}

	if len(failures) > 0 {
		return succeeded, fmt.Errorf("%d of %d files failed: %s", len(failures), len(files), strings.Join(failures, "; "))
	}
	return succeeded, nil
}

// runPool fans the files out to a fixed worker pool and collects every
// per-file outcome.
func (c *Converter) runPool(files []string, outputDir string) []BatchResult {
	workers := c.workerCount
	if workers > len(files) {
		workers = len(files)
	}

	fileChan := make(chan string, workers)
	resultChan := make(chan BatchResult, len(files))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for inputFile := range fileChan {
				resultChan <- c.convertOne(inputFile, outputDir)
			}
		}()
	}

	go func() {
		defer close(fileChan)
		for _, file := range files {
			fileChan <- file
		}
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	results := make([]BatchResult, 0, len(files))
	for res := range resultChan {
		results = append(results, res)
	}
	return results
}

func (c *Converter) convertOne(inputFile, outputDir string) BatchResult {
	outputFile := filepath.Join(outputDir, workbookName(inputFile))
	res := BatchResult{InputFile: inputFile, OutputFile: outputFile}

	ok, err := c.parser.ValidateFormat(inputFile)
	if err != nil {
		res.Err = err
		return res
	}
	if !ok {
		res.Err = fmt.Errorf("not an XBRL instance document")
		return res
	}

	if _, _, err := c.Convert(inputFile, outputFile, ""); err != nil {
		res.Err = err
	}
	return res
}

// workbookName swaps a filing's extension for .xlsx.
func workbookName(inputFile string) string {
	base := filepath.Base(inputFile)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + ".xlsx"
}

// listXBRLFiles returns every supported filing in a directory, sorted.
func listXBRLFiles(inputDir string) ([]string, error) {
	extensions := make([]string, 0, len(xbrlparser.SupportedExtensions))
	for ext := range xbrlparser.SupportedExtensions {
		extensions = append(extensions, ext)
	}
	return fileutils.ListFilesWithExtension(inputDir, extensions...)
}
