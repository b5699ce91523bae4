package report

import (
	"encoding/csv"
	"fmt"

	"github.com/gocarina/gocsv"
	"github.com/sirupsen/logrus"

	"mcafin/xbrl-xlsx/internal/fileutils"
	"mcafin/xbrl-xlsx/internal/models"
)

var log = logrus.New()

// SetLogger sets a custom logger for this package's file helpers.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// auditRow is the flat CSV projection of an audit record, in the same
// column order as the workbook's Audit Trail sheet.
type auditRow struct {
	Concept    string `csv:"concept"`
	Statement  string `csv:"statement"`
	Field      string `csv:"field"`
	Period     string `csv:"period"`
	Value      string `csv:"value_inr"`
	Unit       string `csv:"unit"`
	ContextRef string `csv:"context_ref"`
}

// WriteAuditTrailCSV exports the audit trail to a CSV file. An empty trail
// still produces a file with the header row.
func WriteAuditTrailCSV(records []models.AuditRecord, csvFile string) error {
	if records == nil {
		records = []models.AuditRecord{}
	}

	file, err := fileutils.CreateFile(csvFile)
	if err != nil {
		log.WithError(err).Error("Failed to create audit CSV file")
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	rows := make([]auditRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, auditRow{
			Concept:    record.Concept,
			Statement:  string(record.Statement),
			Field:      record.Field,
			Period:     record.Period,
			Value:      record.Value.StringFixed(2),
			Unit:       record.Unit,
			ContextRef: record.ContextRef,
		})
	}

	csvWriter := csv.NewWriter(file)
	if err := gocsv.MarshalCSV(&rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		log.WithError(err).Error("Failed to marshal audit trail to CSV")
		return fmt.Errorf("error writing CSV data: %w", err)
	}

	log.WithFields(logrus.Fields{
		"file":  csvFile,
		"count": len(rows),
	}).Info("Wrote audit trail CSV")

	return nil
}
