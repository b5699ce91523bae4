// Package report renders parse results into a multi-sheet Excel workbook:
// one sheet per financial statement, an audit trail with validation
// outcomes and metadata, and a coverage sheet for unmapped facts.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"mcafin/xbrl-xlsx/internal/fileutils"
	"mcafin/xbrl-xlsx/internal/models"
)

// ContentType is the MIME type of the generated workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Sheet names used in the workbook.
const (
	SheetAuditTrail    = "Audit Trail"
	SheetUnmappedFacts = "Unmapped Facts"
)

var statementSheetNames = map[models.Statement]string{
	models.IncomeStatement: "Income Statement",
	models.BalanceSheet:    "Balance Sheet",
	models.CashFlow:        "Cash Flow",
}

// SheetName returns the workbook sheet name for a statement.
func SheetName(statement models.Statement) string {
	if name, ok := statementSheetNames[statement]; ok {
		return name
	}
	return string(statement)
}

// ExportFilename builds a timestamped default workbook name.
func ExportFilename(t time.Time) string {
	return "xbrl-export-" + t.Format("20060102-150405") + ".xlsx"
}

// Generator builds Excel workbooks from parse results.
type Generator struct {
	log *logrus.Logger
}

// NewGenerator creates a workbook generator.
func NewGenerator(logger *logrus.Logger) *Generator {
	if logger == nil {
		logger = logrus.New()
	}
	return &Generator{log: logger}
}

// SetLogger sets a custom logger for the generator.
func (g *Generator) SetLogger(logger *logrus.Logger) {
	if logger != nil {
		g.log = logger
	}
}

type styleSet struct {
	header     int
	title      int
	number     int
	numberFail int
	note       int
}

func newStyleSet(f *excelize.File) (*styleSet, error) {
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"D9D9D9"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	title, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create title style: %w", err)
	}
	amountFmt := "#,##0.00"
	number, err := f.NewStyle(&excelize.Style{CustomNumFmt: &amountFmt})
	if err != nil {
		return nil, fmt.Errorf("failed to create number style: %w", err)
	}
	numberFail, err := f.NewStyle(&excelize.Style{
		CustomNumFmt: &amountFmt,
		Font:         &excelize.Font{Color: "9C0006"},
		Fill:         excelize.Fill{Type: "pattern", Color: []string{"FFC7CE"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create failure style: %w", err)
	}
	note, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Italic: true},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create note style: %w", err)
	}
	return &styleSet{header: header, title: title, number: number, numberFail: numberFail, note: note}, nil
}

// Generate builds the complete workbook for a parse result. Validation
// messages mark failing statement cells and fill the audit sheet's
// validation block; pass nil when validation was skipped.
func (g *Generator) Generate(result *models.ParseResult, messages []models.ValidationMessage) (*excelize.File, error) {
	if result == nil || result.Statements == nil {
		return nil, fmt.Errorf("cannot generate a report from a nil parse result")
	}

	f := excelize.NewFile()
	styles, err := newStyleSet(f)
	if err != nil {
		return nil, err
	}

	failures := indexFailures(messages)
	for _, statement := range models.AllStatements {
		if err := g.writeStatementSheet(f, styles, statement, result.Statements, failures[statement]); err != nil {
			return nil, err
		}
	}
	if err := g.writeAuditSheet(f, styles, result, messages); err != nil {
		return nil, err
	}
	if err := g.writeUnmappedSheet(f, styles, result.UnmappedFacts); err != nil {
		return nil, err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}
	index, err := f.GetSheetIndex(SheetName(models.AllStatements[0]))
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)

	g.log.WithFields(logrus.Fields{
		"sheets": len(f.GetSheetList()),
		"facts":  len(result.AuditTrail),
	}).Info("Generated Excel workbook")

	return f, nil
}

// WriteFile generates the workbook and saves it to disk, creating parent
// directories as needed.
func (g *Generator) WriteFile(result *models.ParseResult, messages []models.ValidationMessage, outputPath string) error {
	f, err := g.Generate(result, messages)
	if err != nil {
		return err
	}
	defer func() {
		if err := f.Close(); err != nil {
			g.log.WithError(err).Warn("Failed to close workbook")
		}
	}()

	dir := dirOf(outputPath)
	if dir != "" {
		if err := fileutils.EnsureDirectoryExists(dir); err != nil {
			return err
		}
	}
	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	g.log.WithField("output_file", outputPath).Info("Wrote Excel report")
	return nil
}

func dirOf(path string) string {
	if idx := strings.LastIndexAny(path, "/\\"); idx > 0 {
		return path[:idx]
	}
	return ""
}

// indexFailures regroups failed checks as statement -> field -> period.
func indexFailures(messages []models.ValidationMessage) map[models.Statement]map[string]map[string]models.ValidationMessage {
	failures := make(map[models.Statement]map[string]map[string]models.ValidationMessage)
	for _, msg := range messages {
		if msg.Passed {
			continue
		}
		if failures[msg.Statement] == nil {
			failures[msg.Statement] = make(map[string]map[string]models.ValidationMessage)
		}
		if failures[msg.Statement][msg.Field] == nil {
			failures[msg.Statement][msg.Field] = make(map[string]models.ValidationMessage)
		}
		failures[msg.Statement][msg.Field][msg.Period] = msg
	}
	return failures
}

func (g *Generator) writeStatementSheet(f *excelize.File, styles *styleSet, statement models.Statement, matrix *models.StatementMatrix, failures map[string]map[string]models.ValidationMessage) error {
	sheet := SheetName(statement)
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	periods := matrix.Periods(statement)
	fields := matrix.Fields(statement)

	if err := f.SetCellValue(sheet, "A1", "Metric"); err != nil {
		return err
	}
	for i, period := range periods {
		cell, err := excelize.CoordinatesToCellName(i+2, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, period); err != nil {
			return err
		}
	}

	for r, field := range fields {
		row := r + 2
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, field); err != nil {
			return err
		}
		for c, period := range periods {
			value, ok := matrix.Value(statement, field, period)
			if !ok {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+2, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value.InexactFloat64()); err != nil {
				return err
			}
			style := styles.number
			if failure, failed := failures[field][period]; failed {
				style = styles.numberFail
				comment := excelize.Comment{
					Cell:      cell,
					Author:    "Validation",
					Paragraph: []excelize.RichTextRun{{Text: failure.Message}},
				}
				if err := f.AddComment(sheet, comment); err != nil {
					return fmt.Errorf("failed to annotate %s!%s: %w", sheet, cell, err)
				}
			}
			if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
				return err
			}
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(periods) + 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", styles.header); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", "A", 36); err != nil {
		return err
	}
	if len(periods) > 0 {
		firstCol, err := excelize.ColumnNumberToName(2)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, firstCol, lastCol, 22); err != nil {
			return err
		}
	}
	panes := &excelize.Panes{
		Freeze:      true,
		XSplit:      1,
		YSplit:      1,
		TopLeftCell: "B2",
		ActivePane:  "bottomRight",
	}
	if err := f.SetPanes(sheet, panes); err != nil {
		return err
	}
	filterRange := fmt.Sprintf("A1:%s%d", lastCol, len(fields)+1)
	if err := f.AutoFilter(sheet, filterRange, nil); err != nil {
		return fmt.Errorf("failed to set auto-filter on %s: %w", sheet, err)
	}
	return nil
}

func (g *Generator) writeAuditSheet(f *excelize.File, styles *styleSet, result *models.ParseResult, messages []models.ValidationMessage) error {
	sheet := SheetAuditTrail
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	header := []interface{}{"Concept", "Statement", "Field", "Period", "Value (INR)", "Unit", "Context Ref"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "G1", styles.header); err != nil {
		return err
	}

	row := 2
	for _, record := range result.AuditTrail {
		values := []interface{}{
			record.Concept,
			string(record.Statement),
			record.Field,
			record.Period,
			record.Value.InexactFloat64(),
			record.Unit,
			record.ContextRef,
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
		valueCell, err := excelize.CoordinatesToCellName(5, row)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, valueCell, valueCell, styles.number); err != nil {
			return err
		}
		row++
	}

	row++ // spacer
	if err := writeTitle(f, sheet, styles, row, "Validation Results"); err != nil {
		return err
	}
	row++
	if len(messages) == 0 {
		if err := setNoteCell(f, sheet, styles, row, "No validation checks were applicable."); err != nil {
			return err
		}
		row++
	} else {
		checkHeader := []interface{}{"Statement", "Field", "Period", "Status", "Difference", "Message"}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &checkHeader); err != nil {
			return err
		}
		lastCell, err := excelize.CoordinatesToCellName(len(checkHeader), row)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, lastCell, styles.header); err != nil {
			return err
		}
		row++
		for _, msg := range messages {
			status := "PASS"
			if !msg.Passed {
				status = "FAIL"
			}
			values := []interface{}{
				string(msg.Statement),
				msg.Field,
				msg.Period,
				status,
				msg.Difference.InexactFloat64(),
				msg.Message,
			}
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(sheet, cell, &values); err != nil {
				return err
			}
			row++
		}
	}

	row++ // spacer
	if err := writeTitle(f, sheet, styles, row, "Metadata"); err != nil {
		return err
	}
	row++

	meta := result.Metadata
	pairs := [][2]string{
		{"Report ID", uuid.NewString()},
		{"Generated At", time.Now().UTC().Format(time.RFC3339)},
		{"Source", meta.Source},
		{"Entities", strings.Join(meta.Entities, ", ")},
		{"Units", strings.Join(meta.Units, ", ")},
		{"Periods", fmt.Sprintf("%d", len(meta.Periods))},
		{"Unmapped Facts", fmt.Sprintf("%d", meta.UnmappedCount)},
	}
	for _, pair := range pairs {
		keyCell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		valueCell, err := excelize.CoordinatesToCellName(2, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, keyCell, pair[0]); err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, valueCell, pair[1]); err != nil {
			return err
		}
		if pair[0] == "Source" && meta.Source != "" {
			if err := f.SetCellHyperLink(sheet, valueCell, meta.Source, "External"); err != nil {
				g.log.WithError(err).WithField("source", meta.Source).Debug("Could not link source cell")
			}
		}
		row++
	}

	if err := f.SetColWidth(sheet, "A", "B", 28); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "C", "G", 22); err != nil {
		return err
	}
	return nil
}

func (g *Generator) writeUnmappedSheet(f *excelize.File, styles *styleSet, facts []models.UnmappedFact) error {
	sheet := SheetUnmappedFacts
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	header := []interface{}{"Concept", "Raw Tag", "Context", "Unit", "Raw Value"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "E1", styles.header); err != nil {
		return err
	}

	if len(facts) == 0 {
		return setNoteCell(f, sheet, styles, 2, "All facts were mapped to known metrics.")
	}

	sorted := make([]models.UnmappedFact, len(facts))
	copy(sorted, facts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Concept < sorted[j].Concept
	})

	for i, fact := range sorted {
		values := []interface{}{fact.Concept, fact.RawTag, fact.ContextRef, fact.Unit, fact.RawValue}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheet, "A", "E", 28)
}

func writeTitle(f *excelize.File, sheet string, styles *styleSet, row int, title string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, cell, title); err != nil {
		return err
	}
	return f.SetCellStyle(sheet, cell, cell, styles.title)
}

func setNoteCell(f *excelize.File, sheet string, styles *styleSet, row int, note string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, cell, note); err != nil {
		return err
	}
	return f.SetCellStyle(sheet, cell, cell, styles.note)
}
