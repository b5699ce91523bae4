// Package models defines the core data types produced and consumed by the
// XBRL extraction pipeline.
package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"mcafin/xbrl-xlsx/internal/dateutils"
)

// Statement identifies one of the three standardized financial statements.
type Statement string

const (
	BalanceSheet    Statement = "balance_sheet"
	IncomeStatement Statement = "income_statement"
	CashFlow        Statement = "cash_flow"
)

// AllStatements lists the statements in report order.
var AllStatements = []Statement{IncomeStatement, BalanceSheet, CashFlow}

// ConceptMapping links a taxonomy concept to a canonical statement field.
type ConceptMapping struct {
	Statement   Statement `yaml:"statement"`
	Field       string    `yaml:"field"`
	Description string    `yaml:"description,omitempty"`
}

// ContextInfo is the normalized reporting context extracted from the
// document: the entity and either a duration (start+end) or an instant.
// Zero time values mean the component is absent.
type ContextInfo struct {
	ID        string
	Entity    string
	StartDate time.Time
	EndDate   time.Time
	Instant   time.Time
}

// Label renders the display period for the context. A duration renders as
// "FY2023-24 (2023-04-01 to 2024-03-31)", falling back to the bare date
// range when the fiscal year cannot be derived. An instant renders as
// "As of 2024-03-31". A context with neither falls back to its raw id.
func (c ContextInfo) Label() string {
	if !c.StartDate.IsZero() && !c.EndDate.IsZero() {
		start := dateutils.ToISODate(c.StartDate)
		end := dateutils.ToISODate(c.EndDate)
		if fy, err := dateutils.FinancialYearFor(c.EndDate); err == nil {
			return fmt.Sprintf("%s (%s to %s)", fy, start, end)
		}
		return fmt.Sprintf("%s to %s", start, end)
	}
	if !c.Instant.IsZero() {
		return "As of " + dateutils.ToISODate(c.Instant)
	}
	return c.ID
}

// FinancialYear returns the fiscal-year tag for the context, derived from
// the end date when present, else the instant, else empty.
func (c ContextInfo) FinancialYear() string {
	if !c.EndDate.IsZero() {
		if fy, err := dateutils.FinancialYearFor(c.EndDate); err == nil {
			return fy
		}
	}
	if !c.Instant.IsZero() {
		if fy, err := dateutils.FinancialYearFor(c.Instant); err == nil {
			return fy
		}
	}
	return ""
}

// Fact is a single tagged value read from the document. It is transient:
// facts exist only while the extractor walks the tree.
type Fact struct {
	ConceptName string
	RawTag      string
	ContextRef  string
	UnitRef     string
	RawValue    string
	Nil         bool
}

// AuditRecord traces one successfully resolved and normalized fact back to
// its source tag, context and unit. Records are immutable once created.
type AuditRecord struct {
	Statement  Statement
	Field      string
	Concept    string
	ContextRef string
	Period     string
	Unit       string
	Value      decimal.Decimal
}

// UnmappedFact records a fact whose concept is not covered by the mapping
// table, preserved for the report's coverage sheet.
type UnmappedFact struct {
	Concept    string
	RawTag     string
	ContextRef string
	Unit       string
	RawValue   string
}

// PeriodInfo is the per-context period block exposed through metadata.
type PeriodInfo struct {
	Label         string `json:"label"`
	StartDate     string `json:"start_date,omitempty"`
	EndDate       string `json:"end_date,omitempty"`
	Instant       string `json:"instant,omitempty"`
	FinancialYear string `json:"financial_year,omitempty"`
}

// Metadata summarises a parse: where the document came from, which entities
// and units it used, and how many facts could not be mapped.
type Metadata struct {
	Source        string                `json:"source"`
	Entities      []string              `json:"entities"`
	Periods       map[string]PeriodInfo `json:"periods"`
	Units         []string              `json:"units"`
	UnmappedCount int                   `json:"unmapped_count"`
}

// ParseResult is the complete output of one parse invocation. It is owned
// solely by the caller after return; the pipeline keeps no reference.
type ParseResult struct {
	Statements    *StatementMatrix
	AuditTrail    []AuditRecord
	Contexts      map[string]ContextInfo
	Metadata      Metadata
	UnmappedFacts []UnmappedFact
}

// ValidationResult is the outcome of a single fail-fast check.
type ValidationResult struct {
	IsValid    bool
	Difference decimal.Decimal
	Message    string
}

// ValidationMessage is one collect-all check outcome, pass or fail.
type ValidationMessage struct {
	Statement  Statement
	Field      string
	Period     string
	Passed     bool
	Difference decimal.Decimal
	Message    string
}
