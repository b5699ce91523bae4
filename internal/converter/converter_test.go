package converter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"mcafin/xbrl-xlsx/internal/logging"
	"mcafin/xbrl-xlsx/internal/models"
	"mcafin/xbrl-xlsx/internal/report"
	"mcafin/xbrl-xlsx/internal/validation"
	"mcafin/xbrl-xlsx/internal/xbrlparser"
)

const balancedFiling = `<?xml version="1.0" encoding="UTF-8"?>
<xbrl xmlns:ind-as="http://www.mca.gov.in/in/ind-as">
  <context id="AsOf24">
    <entity><identifier>L12345MH2001PLC123456</identifier></entity>
    <period><instant>2024-03-31</instant></period>
  </context>
  <unit id="INR"><measure>iso4217:INR</measure></unit>
  <ind-as:TotalAssets contextRef="AsOf24" unitRef="INR">1000</ind-as:TotalAssets>
  <ind-as:TotalLiabilities contextRef="AsOf24" unitRef="INR">600</ind-as:TotalLiabilities>
  <ind-as:TotalEquity contextRef="AsOf24" unitRef="INR">400</ind-as:TotalEquity>
</xbrl>`

const unbalancedFiling = `<?xml version="1.0" encoding="UTF-8"?>
<xbrl xmlns:ind-as="http://www.mca.gov.in/in/ind-as">
  <context id="AsOf24">
    <entity><identifier>L12345MH2001PLC123456</identifier></entity>
    <period><instant>2024-03-31</instant></period>
  </context>
  <unit id="INR"><measure>iso4217:INR</measure></unit>
  <ind-as:TotalAssets contextRef="AsOf24" unitRef="INR">1000</ind-as:TotalAssets>
  <ind-as:TotalLiabilities contextRef="AsOf24" unitRef="INR">500</ind-as:TotalLiabilities>
  <ind-as:TotalEquity contextRef="AsOf24" unitRef="INR">400</ind-as:TotalEquity>
</xbrl>`

const assetsOnlyFiling = `<?xml version="1.0" encoding="UTF-8"?>
<xbrl xmlns:ind-as="http://www.mca.gov.in/in/ind-as">
  <context id="AsOf24">
    <entity><identifier>L12345MH2001PLC123456</identifier></entity>
    <period><instant>2024-03-31</instant></period>
  </context>
  <unit id="INR"><measure>iso4217:INR</measure></unit>
  <ind-as:TotalAssets contextRef="AsOf24" unitRef="INR">1000</ind-as:TotalAssets>
</xbrl>`

const liabilitiesOnlyFiling = `<?xml version="1.0" encoding="UTF-8"?>
<xbrl xmlns:ind-as="http://www.mca.gov.in/in/ind-as">
  <context id="AsOf24">
    <entity><identifier>L12345MH2001PLC123456</identifier></entity>
    <period><instant>2024-03-31</instant></period>
  </context>
  <unit id="INR"><measure>iso4217:INR</measure></unit>
  <ind-as:TotalLiabilities contextRef="AsOf24" unitRef="INR">600</ind-as:TotalLiabilities>
</xbrl>`

func newTestConverter(logger logging.Logger) *Converter {
	parser := xbrlparser.NewParser(nil, nil)
	engine := validation.NewDefaultEngine()
	generator := report.NewGenerator(nil)
	return NewConverter(parser, engine, generator, logger)
}

func writeFiling(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestConvertWritesWorkbookAndAuditCSV(t *testing.T) {
	dir := t.TempDir()
	input := writeFiling(t, dir, "filing.xml", balancedFiling)
	output := filepath.Join(dir, "filing.xlsx")
	auditCSV := filepath.Join(dir, "audit.csv")

	mock := &logging.MockLogger{}
	conv := newTestConverter(mock)

	result, messages, err := conv.Convert(input, output, auditCSV)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Len(t, result.AuditTrail, 3)

	require.Len(t, messages, 1)
	assert.True(t, messages[0].Passed)

	f, err := excelize.OpenFile(output)
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Balance Sheet")

	csvData, err := os.ReadFile(auditCSV)
	require.NoError(t, err)
	assert.Contains(t, string(csvData), "total_assets")

	assert.True(t, mock.HasEntry("INFO", "Conversion completed"))
}

func TestConvertReportsValidationFailuresWithoutAborting(t *testing.T) {
	dir := t.TempDir()
	input := writeFiling(t, dir, "filing.xml", unbalancedFiling)
	output := filepath.Join(dir, "filing.xlsx")

	conv := newTestConverter(nil)
	_, messages, err := conv.Convert(input, output, "")
	require.NoError(t, err)

	require.Len(t, messages, 1)
	assert.False(t, messages[0].Passed)
	assert.FileExists(t, output)
}

func TestConvertRejectsOversizedInput(t *testing.T) {
	dir := t.TempDir()
	input := writeFiling(t, dir, "filing.xml", balancedFiling)

	conv := newTestConverter(nil)
	conv.SetMaxFileSize(16)

	_, _, err := conv.Convert(input, filepath.Join(dir, "out.xlsx"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "byte limit")
}

func TestPreviewFile(t *testing.T) {
	dir := t.TempDir()
	input := writeFiling(t, dir, "filing.xml", balancedFiling)

	conv := newTestConverter(nil)
	preview, err := conv.PreviewFile(input)
	require.NoError(t, err)

	assert.True(t, preview.Valid)
	require.Len(t, preview.Validation, 1)
	assert.Equal(t, "PASS", preview.Validation[0].Status)

	section := preview.Statements[string(models.BalanceSheet)]
	require.Contains(t, section, "As of 2024-03-31")
	assert.Equal(t, "1000", section["As of 2024-03-31"]["total_assets"])
}

func TestPreviewFileFlagsViolations(t *testing.T) {
	dir := t.TempDir()
	input := writeFiling(t, dir, "filing.xml", unbalancedFiling)

	conv := newTestConverter(nil)
	preview, err := conv.PreviewFile(input)
	require.NoError(t, err)

	assert.False(t, preview.Valid)
	require.Len(t, preview.Validation, 1)
	assert.Equal(t, "FAIL", preview.Validation[0].Status)
	assert.Equal(t, "100", preview.Validation[0].Difference)
	assert.Contains(t, preview.Validation[0].Message, "does not balance")
}

func TestPreviewFileRejectsIncompleteBalanceSheet(t *testing.T) {
	dir := t.TempDir()
	input := writeFiling(t, dir, "filing.xml", assetsOnlyFiling)

	conv := newTestConverter(nil)
	preview, err := conv.PreviewFile(input)
	require.NoError(t, err)

	assert.False(t, preview.Valid)
	require.Len(t, preview.Validation, 1)
	assert.Equal(t, "FAIL", preview.Validation[0].Status)
	assert.Equal(t, "1000", preview.Validation[0].Difference)
}

func TestPreviewFileRejectsMissingRequiredFields(t *testing.T) {
	dir := t.TempDir()
	input := writeFiling(t, dir, "filing.xml", liabilitiesOnlyFiling)

	conv := newTestConverter(nil)
	preview, err := conv.PreviewFile(input)
	require.NoError(t, err)

	assert.False(t, preview.Valid)
	require.Len(t, preview.Validation, 1)
	assert.Equal(t, "FAIL", preview.Validation[0].Status)
	assert.Contains(t, preview.Validation[0].Message, "total_assets")
}

func TestBatchConvert(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := filepath.Join(t.TempDir(), "out")

	writeFiling(t, inputDir, "a.xml", balancedFiling)
	writeFiling(t, inputDir, "b.xbrl", unbalancedFiling)
	writeFiling(t, inputDir, "notes.txt", "not a filing")

	conv := newTestConverter(nil)
	count, err := conv.BatchConvert(inputDir, outputDir)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	assert.FileExists(t, filepath.Join(outputDir, "a.xlsx"))
	assert.FileExists(t, filepath.Join(outputDir, "b.xlsx"))
}

func TestBatchConvertReportsFailures(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := filepath.Join(t.TempDir(), "out")

	writeFiling(t, inputDir, "good.xml", balancedFiling)
	writeFiling(t, inputDir, "bad.xml", "<root>no contexts here</root>")

	conv := newTestConverter(nil)
	count, err := conv.BatchConvert(inputDir, outputDir)
	require.Error(t, err)
	assert.Equal(t, 1, count)
	assert.Contains(t, err.Error(), "bad.xml")
}

func TestBatchConvertEmptyDirectory(t *testing.T) {
	conv := newTestConverter(nil)
	_, err := conv.BatchConvert(t.TempDir(), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no .xml or .xbrl files")
}

func TestWorkbookName(t *testing.T) {
	assert.Equal(t, "filing.xlsx", workbookName("/data/filing.xml"))
	assert.Equal(t, "annual-2024.xlsx", workbookName("annual-2024.xbrl"))
}
