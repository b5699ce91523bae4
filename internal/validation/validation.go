// Package validation checks accounting identities on extracted statements.
//
// Two policies are provided side by side: fail-fast methods return a typed
// error on the first violation (used by preview flows that want an early
// rejection), while ValidateStatements collects every outcome as a message
// and never fails (used by export flows that want a complete report).
package validation

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"mcafin/xbrl-xlsx/internal/models"
	"mcafin/xbrl-xlsx/internal/parsererror"
)

// Default tolerances: one rupee absolute, 1% relative. Filings report in
// lakhs or crores, so rounding drift of a few rupees is routine.
var (
	DefaultAbsoluteTolerance = decimal.NewFromInt(1)
	DefaultRelativeTolerance = decimal.RequireFromString("0.01")
)

// Engine applies tolerance-based identity checks. The effective threshold
// for a check is max(absolute, relative×|base amount|).
type Engine struct {
	absoluteTolerance decimal.Decimal
	relativeTolerance decimal.Decimal
}

// NewEngine creates an Engine with explicit tolerances. Negative inputs are
// clamped to zero.
func NewEngine(absoluteTolerance, relativeTolerance decimal.Decimal) *Engine {
	if absoluteTolerance.IsNegative() {
		absoluteTolerance = decimal.Zero
	}
	if relativeTolerance.IsNegative() {
		relativeTolerance = decimal.Zero
	}
	return &Engine{
		absoluteTolerance: absoluteTolerance,
		relativeTolerance: relativeTolerance,
	}
}

// NewDefaultEngine creates an Engine with the default tolerances.
func NewDefaultEngine() *Engine {
	return NewEngine(DefaultAbsoluteTolerance, DefaultRelativeTolerance)
}

func (e *Engine) withinTolerance(difference, baseAmount decimal.Decimal) bool {
	threshold := e.absoluteTolerance
	if !baseAmount.IsZero() {
		relative := baseAmount.Abs().Mul(e.relativeTolerance)
		if relative.GreaterThan(threshold) {
			threshold = relative
		}
	}
	return difference.Abs().LessThanOrEqual(threshold)
}

// balanceSheetDifference treats absent fields as zero, so a period that
// reports assets without liabilities or equity still yields its imbalance.
func balanceSheetDifference(fields map[string]decimal.Decimal) (difference, assets, liabilitiesPlusEquity decimal.Decimal) {
	assets = fields["total_assets"]
	liabilities := fields["total_liabilities"]
	equity, ok := fields["total_equity"]
	if !ok {
		equity = fields["shareholders_equity"]
	}
	liabilitiesPlusEquity = liabilities.Add(equity)
	return assets.Sub(liabilitiesPlusEquity), assets, liabilitiesPlusEquity
}

// ValidateBalanceSheet checks assets = liabilities + equity for a single
// period's balance-sheet fields. Equity is taken from total_equity, falling
// back to shareholders_equity. A violation beyond tolerance returns an
// *parsererror.AccountingValidationError carrying the difference.
func (e *Engine) ValidateBalanceSheet(fields map[string]decimal.Decimal) (models.ValidationResult, error) {
	difference, assets, liabilitiesPlusEquity := balanceSheetDifference(fields)
	if !e.withinTolerance(difference, assets) {
		return models.ValidationResult{}, &parsererror.AccountingValidationError{
			Msg: fmt.Sprintf("balance sheet does not balance: assets=%s, liabilities+equity=%s, diff=%s",
				assets, liabilitiesPlusEquity, difference),
			Difference: difference,
		}
	}
	return models.ValidationResult{IsValid: true, Difference: difference}, nil
}

// ValidateRequiredFields fails when any required field key is absent.
func (e *Engine) ValidateRequiredFields(fields map[string]decimal.Decimal, required []string) (models.ValidationResult, error) {
	var missing []string
	for _, field := range required {
		if _, ok := fields[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return models.ValidationResult{}, &parsererror.AccountingValidationError{
			Msg:        "missing required fields: " + strings.Join(missing, ", "),
			Difference: decimal.Zero,
		}
	}
	return models.ValidationResult{IsValid: true, Difference: decimal.Zero}, nil
}

// ValidateStatements runs every applicable identity check across the matrix
// and returns one message per check performed, pass or fail. It never
// returns an error. The balance-sheet identity is reported for every period
// present on that statement, with absent fields defaulting to zero; the
// income-statement checks are omitted when their inputs are partially absent.
func (e *Engine) ValidateStatements(matrix *models.StatementMatrix) []models.ValidationMessage {
	var messages []models.ValidationMessage
	if matrix == nil {
		return messages
	}

	for _, period := range matrix.Periods(models.BalanceSheet) {
		fields := matrix.PeriodFields(models.BalanceSheet)[period]
		difference, assets, _ := balanceSheetDifference(fields)
		passed := e.withinTolerance(difference, assets)
		message := "Assets equal liabilities plus equity"
		if !passed {
			message = "Assets do not equal liabilities plus equity"
		}
		messages = append(messages, models.ValidationMessage{
			Statement:  models.BalanceSheet,
			Field:      "total_assets",
			Period:     period,
			Passed:     passed,
			Difference: difference,
			Message:    message,
		})
	}

	for _, period := range matrix.Periods(models.IncomeStatement) {
		fields := matrix.PeriodFields(models.IncomeStatement)[period]
		messages = append(messages, e.validateIncomeStatementPeriod(fields, period)...)
	}

	return messages
}

func (e *Engine) validateIncomeStatementPeriod(fields map[string]decimal.Decimal, period string) []models.ValidationMessage {
	var messages []models.ValidationMessage

	operatingRevenue, hasOperating := fields["operating_revenue"]
	otherIncome, hasOther := fields["other_income"]
	totalRevenue, hasTotal := fields["total_revenue"]
	if !hasTotal {
		totalRevenue, hasTotal = fields["total_income"]
	}
	if hasOperating && hasOther && hasTotal {
		difference := totalRevenue.Sub(operatingRevenue.Add(otherIncome))
		passed := e.withinTolerance(difference, totalRevenue)
		message := "Total revenue reconciles with operating revenue + other income"
		if !passed {
			message = "Total revenue mismatch against operating revenue + other income"
		}
		messages = append(messages, models.ValidationMessage{
			Statement:  models.IncomeStatement,
			Field:      "total_revenue",
			Period:     period,
			Passed:     passed,
			Difference: difference,
			Message:    message,
		})
	}

	profitBeforeTax, hasPBT := fields["profit_before_tax"]
	taxExpense, hasTax := fields["tax_expense"]
	profitAfterTax, hasPAT := fields["profit_after_tax"]
	if hasPBT && hasTax && hasPAT {
		difference := profitAfterTax.Sub(profitBeforeTax.Sub(taxExpense))
		passed := e.withinTolerance(difference, profitAfterTax)
		message := "Profit after tax reconciles with profit before tax minus tax expense"
		if !passed {
			message = "Profit after tax mismatch against profit before tax minus tax expense"
		}
		messages = append(messages, models.ValidationMessage{
			Statement:  models.IncomeStatement,
			Field:      "profit_after_tax",
			Period:     period,
			Passed:     passed,
			Difference: difference,
			Message:    message,
		})
	}

	return messages
}
