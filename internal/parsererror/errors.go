// Package parsererror defines the typed errors shared across the parsing
// and validation pipeline.
package parsererror

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ParseError represents an error during parsing of a single value.
type ParseError struct {
	Parser string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// InvalidFormatError represents an error where the input file is not
// well-formed XBRL markup or carries an unsupported extension. It is fatal
// to the whole parse; no partial result is returned alongside it.
type InvalidFormatError struct {
	FilePath             string
	ExpectedFormat       string
	ActualContentSnippet string // Optional: a snippet of the actual content for debugging
	Msg                  string
}

func (e *InvalidFormatError) Error() string {
	if e.ActualContentSnippet != "" {
		return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s. Content snippet: '%s'",
			e.FilePath, e.Msg, e.ExpectedFormat, e.ActualContentSnippet)
	}
	return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}

// AccountingValidationError represents an accounting identity violated
// beyond tolerance in fail-fast validation. Difference carries the numeric
// imbalance for caller display; the already-computed statement data remains
// usable by a caller that recovers from this error.
type AccountingValidationError struct {
	Msg        string
	Difference decimal.Decimal
}

func (e *AccountingValidationError) Error() string {
	return e.Msg
}

// UnknownUnitError represents a currency scale identifier that is not in the
// supported multiplier table.
type UnknownUnitError struct {
	Unit string
}

func (e *UnknownUnitError) Error() string {
	return fmt.Sprintf("unknown unit '%s': supported units are INR, RUPEES, LAKHS, CRORES", e.Unit)
}
