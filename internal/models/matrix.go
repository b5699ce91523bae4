package models

import (
	"sort"

	"github.com/shopspring/decimal"
)

// StatementMatrix holds the extracted values keyed by statement, canonical
// field and period label. Field ordering is irrelevant, but the first-seen
// order of periods per statement is preserved because it drives the column
// layout of the report.
type StatementMatrix struct {
	values      map[Statement]map[string]map[string]decimal.Decimal
	periodOrder map[Statement][]string
}

// NewStatementMatrix returns an empty matrix covering all statements.
func NewStatementMatrix() *StatementMatrix {
	m := &StatementMatrix{
		values:      make(map[Statement]map[string]map[string]decimal.Decimal, len(AllStatements)),
		periodOrder: make(map[Statement][]string, len(AllStatements)),
	}
	for _, statement := range AllStatements {
		m.values[statement] = make(map[string]map[string]decimal.Decimal)
	}
	return m
}

// Set records a value. A duplicate (field, period) pair overwrites the
// earlier value: the later-parsed occurrence wins, no aggregation.
func (m *StatementMatrix) Set(statement Statement, field, period string, value decimal.Decimal) {
	fields, ok := m.values[statement]
	if !ok {
		fields = make(map[string]map[string]decimal.Decimal)
		m.values[statement] = fields
	}
	periods, ok := fields[field]
	if !ok {
		periods = make(map[string]decimal.Decimal)
		fields[field] = periods
	}
	if _, seen := periods[period]; !seen {
		m.recordPeriod(statement, period)
	}
	periods[period] = value
}

func (m *StatementMatrix) recordPeriod(statement Statement, period string) {
	for _, existing := range m.periodOrder[statement] {
		if existing == period {
			return
		}
	}
	m.periodOrder[statement] = append(m.periodOrder[statement], period)
}

// Value looks up a single cell.
func (m *StatementMatrix) Value(statement Statement, field, period string) (decimal.Decimal, bool) {
	periods, ok := m.values[statement][field]
	if !ok {
		return decimal.Decimal{}, false
	}
	value, ok := periods[period]
	return value, ok
}

// Fields returns the statement's field names sorted lexicographically.
func (m *StatementMatrix) Fields(statement Statement) []string {
	fields := make([]string, 0, len(m.values[statement]))
	for field := range m.values[statement] {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// Periods returns the statement's period labels in first-seen order.
func (m *StatementMatrix) Periods(statement Statement) []string {
	order := m.periodOrder[statement]
	periods := make([]string, len(order))
	copy(periods, order)
	return periods
}

// Section returns a copy of one statement's field→period→value mapping.
func (m *StatementMatrix) Section(statement Statement) map[string]map[string]decimal.Decimal {
	section := make(map[string]map[string]decimal.Decimal, len(m.values[statement]))
	for field, periods := range m.values[statement] {
		copied := make(map[string]decimal.Decimal, len(periods))
		for period, value := range periods {
			copied[period] = value
		}
		section[field] = copied
	}
	return section
}

// PeriodFields regroups one statement by period: period→field→value.
// The validation engine checks identities one period at a time.
func (m *StatementMatrix) PeriodFields(statement Statement) map[string]map[string]decimal.Decimal {
	grouped := make(map[string]map[string]decimal.Decimal)
	for field, periods := range m.values[statement] {
		for period, value := range periods {
			fields, ok := grouped[period]
			if !ok {
				fields = make(map[string]decimal.Decimal)
				grouped[period] = fields
			}
			fields[field] = value
		}
	}
	return grouped
}
