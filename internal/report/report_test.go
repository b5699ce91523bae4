package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"mcafin/xbrl-xlsx/internal/models"
)

func sampleResult() *models.ParseResult {
	matrix := models.NewStatementMatrix()
	matrix.Set(models.IncomeStatement, "operating_revenue", "FY2023-24", decimal.NewFromInt(900000))
	matrix.Set(models.IncomeStatement, "other_income", "FY2023-24", decimal.NewFromInt(100000))
	matrix.Set(models.BalanceSheet, "total_assets", "As of 2024-03-31", decimal.NewFromInt(1000))
	matrix.Set(models.BalanceSheet, "total_liabilities", "As of 2024-03-31", decimal.NewFromInt(500))
	matrix.Set(models.BalanceSheet, "total_equity", "As of 2024-03-31", decimal.NewFromInt(400))

	return &models.ParseResult{
		Statements: matrix,
		AuditTrail: []models.AuditRecord{
			{
				Statement:  models.IncomeStatement,
				Field:      "operating_revenue",
				Concept:    "RevenueFromOperations",
				ContextRef: "FY24",
				Period:     "FY2023-24",
				Unit:       "iso4217:INR",
				Value:      decimal.NewFromInt(900000),
			},
		},
		Metadata: models.Metadata{
			Source:   "filings/sample.xml",
			Entities: []string{"L12345MH2001PLC123456"},
			Periods: map[string]models.PeriodInfo{
				"FY24": {Label: "FY2023-24"},
			},
			Units:         []string{"iso4217:INR"},
			UnmappedCount: 1,
		},
		UnmappedFacts: []models.UnmappedFact{
			{Concept: "SomeExoticMetric", RawTag: "{ns}SomeExoticMetric", ContextRef: "FY24", Unit: "INR", RawValue: "123"},
		},
	}
}

func failingMessage() models.ValidationMessage {
	return models.ValidationMessage{
		Statement:  models.BalanceSheet,
		Field:      "total_assets",
		Period:     "As of 2024-03-31",
		Passed:     false,
		Difference: decimal.NewFromInt(100),
		Message:    "Assets do not equal liabilities plus equity",
	}
}

func TestGenerateSheetLayout(t *testing.T) {
	generator := NewGenerator(nil)
	f, err := generator.Generate(sampleResult(), nil)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Equal(t, []string{"Income Statement", "Balance Sheet", "Cash Flow", "Audit Trail", "Unmapped Facts"}, sheets)

	raw := excelize.Options{RawCellValue: true}

	metric, err := f.GetCellValue("Income Statement", "A1", raw)
	require.NoError(t, err)
	assert.Equal(t, "Metric", metric)

	period, err := f.GetCellValue("Income Statement", "B1", raw)
	require.NoError(t, err)
	assert.Equal(t, "FY2023-24", period)

	// Fields are sorted alphabetically.
	first, err := f.GetCellValue("Income Statement", "A2", raw)
	require.NoError(t, err)
	assert.Equal(t, "operating_revenue", first)

	value, err := f.GetCellValue("Income Statement", "B2", raw)
	require.NoError(t, err)
	assert.Equal(t, "900000", value)
}

func TestGenerateMarksFailingCells(t *testing.T) {
	generator := NewGenerator(nil)
	f, err := generator.Generate(sampleResult(), []models.ValidationMessage{failingMessage()})
	require.NoError(t, err)
	defer f.Close()

	comments, err := f.GetComments("Balance Sheet")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	// total_assets sorts first among the three balance sheet fields.
	assert.Equal(t, "B2", comments[0].Cell)
	require.NotEmpty(t, comments[0].Paragraph)
	assert.Contains(t, comments[0].Paragraph[0].Text, "do not equal")
}

func TestGenerateAuditSheet(t *testing.T) {
	generator := NewGenerator(nil)
	f, err := generator.Generate(sampleResult(), []models.ValidationMessage{failingMessage()})
	require.NoError(t, err)
	defer f.Close()

	raw := excelize.Options{RawCellValue: true}

	// Columns run Concept, Statement, Field, Period, Value, Unit, Context Ref.
	concept, err := f.GetCellValue("Audit Trail", "A2", raw)
	require.NoError(t, err)
	assert.Equal(t, "RevenueFromOperations", concept)

	header, err := f.GetCellValue("Audit Trail", "E1", raw)
	require.NoError(t, err)
	assert.Equal(t, "Value (INR)", header)

	contextRef, err := f.GetCellValue("Audit Trail", "G2", raw)
	require.NoError(t, err)
	assert.Equal(t, "FY24", contextRef)

	rows, err := f.GetRows("Audit Trail")
	require.NoError(t, err)

	var flattened []string
	for _, row := range rows {
		flattened = append(flattened, strings.Join(row, "|"))
	}
	joined := strings.Join(flattened, "\n")
	assert.Contains(t, joined, "Validation Results")
	assert.Contains(t, joined, "FAIL")
	assert.Contains(t, joined, "Metadata")
	assert.Contains(t, joined, "filings/sample.xml")
	assert.Contains(t, joined, "Report ID")
}

func TestGenerateUnmappedSheet(t *testing.T) {
	generator := NewGenerator(nil)

	f, err := generator.Generate(sampleResult(), nil)
	require.NoError(t, err)
	defer f.Close()

	concept, err := f.GetCellValue("Unmapped Facts", "A2")
	require.NoError(t, err)
	assert.Equal(t, "SomeExoticMetric", concept)
}

func TestGenerateUnmappedSheetEmpty(t *testing.T) {
	generator := NewGenerator(nil)
	result := sampleResult()
	result.UnmappedFacts = nil

	f, err := generator.Generate(result, nil)
	require.NoError(t, err)
	defer f.Close()

	note, err := f.GetCellValue("Unmapped Facts", "A2")
	require.NoError(t, err)
	assert.Equal(t, "All facts were mapped to known metrics.", note)
}

func TestGenerateRejectsNilResult(t *testing.T) {
	generator := NewGenerator(nil)
	_, err := generator.Generate(nil, nil)
	assert.Error(t, err)
}

func TestWriteFile(t *testing.T) {
	generator := NewGenerator(nil)
	path := filepath.Join(t.TempDir(), "reports", "out.xlsx")

	require.NoError(t, generator.WriteFile(sampleResult(), nil, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Balance Sheet")
}

func TestExportFilename(t *testing.T) {
	ts := time.Date(2024, 3, 31, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "xbrl-export-20240331-150405.xlsx", ExportFilename(ts))
}

func TestWriteAuditTrailCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.csv")
	records := []models.AuditRecord{
		{
			Statement:  models.BalanceSheet,
			Field:      "total_assets",
			Concept:    "TotalAssets",
			ContextRef: "AsOf24",
			Period:     "As of 2024-03-31",
			Unit:       "INRinCrores",
			Value:      decimal.NewFromInt(50000000),
		},
	}

	require.NoError(t, WriteAuditTrailCSV(records, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "concept,statement,field,period,value_inr,unit,context_ref")
	assert.Contains(t, content, "TotalAssets,balance_sheet,total_assets,As of 2024-03-31,50000000.00,INRinCrores,AsOf24")
}

func TestWriteAuditTrailCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.csv")
	require.NoError(t, WriteAuditTrailCSV(nil, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "concept,statement")
}
