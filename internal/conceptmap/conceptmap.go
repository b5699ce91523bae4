// Package conceptmap resolves Ind AS taxonomy concept names to canonical
// statement fields. The mapping table is built once at construction and is
// read-only afterwards, so a single Mapper is safe to share across
// concurrent parses.
package conceptmap

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"mcafin/xbrl-xlsx/internal/models"
)

// Mapper performs case- and namespace-insensitive concept lookups.
type Mapper struct {
	mappings map[string]models.ConceptMapping
}

// New returns a Mapper backed by the built-in Ind AS concept table.
func New() *Mapper {
	mappings := make(map[string]models.ConceptMapping, 2*len(builtinConcepts))
	for name, mapping := range builtinConcepts {
		key := strings.ToLower(name)
		mappings[key] = mapping
		mappings["ind-as:"+key] = mapping
	}
	return &Mapper{mappings: mappings}
}

// NewWithOverrides builds the built-in table and then merges additional
// mappings from a YAML file. Overrides win over built-in entries, letting a
// deployment cover taxonomy revisions without a rebuild. The file maps
// concept names to {statement, field, description}.
func NewWithOverrides(path string) (*Mapper, error) {
	mapper := New()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read concept overrides: %w", err)
	}
	var overrides map[string]models.ConceptMapping
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse concept overrides: %w", err)
	}
	for name, mapping := range overrides {
		if err := validateMapping(name, mapping); err != nil {
			return nil, err
		}
		key := strings.ToLower(name)
		mapper.mappings[key] = mapping
		if !strings.Contains(key, ":") {
			mapper.mappings["ind-as:"+key] = mapping
		}
	}
	return mapper, nil
}

func validateMapping(name string, mapping models.ConceptMapping) error {
	switch mapping.Statement {
	case models.BalanceSheet, models.IncomeStatement, models.CashFlow:
	default:
		return fmt.Errorf("concept override '%s' has unknown statement '%s'", name, mapping.Statement)
	}
	if mapping.Field == "" {
		return fmt.Errorf("concept override '%s' has empty field", name)
	}
	return nil
}

// Resolve looks up a concept name. Lookup is case-insensitive; a Clark-style
// "{namespace}LocalName" falls back to the bare local name. A miss returns
// ok=false and is an expected outcome, since the table only covers a curated
// concept subset.
func (m *Mapper) Resolve(conceptName string) (models.ConceptMapping, bool) {
	if conceptName == "" {
		return models.ConceptMapping{}, false
	}
	key := strings.ToLower(conceptName)
	if mapping, ok := m.mappings[key]; ok {
		return mapping, true
	}
	if strings.HasPrefix(key, "{") {
		if idx := strings.Index(key, "}"); idx >= 0 {
			if mapping, ok := m.mappings[key[idx+1:]]; ok {
				return mapping, true
			}
		}
	}
	return models.ConceptMapping{}, false
}

// SupportedConcepts returns all lookup keys in sorted order, for
// diagnostics and coverage reporting.
func (m *Mapper) SupportedConcepts() []string {
	keys := make([]string, 0, len(m.mappings))
	for key := range m.mappings {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// builtinConcepts covers the Ind AS concepts most commonly present in MCA
// AOC-4 filings. The constructor registers each entry under both its bare
// and "ind-as:"-prefixed form.
var builtinConcepts = map[string]models.ConceptMapping{
	// Income statement
	"revenuefromoperations": {Statement: models.IncomeStatement, Field: "operating_revenue", Description: "Revenue from operations"},
	"otherincome":           {Statement: models.IncomeStatement, Field: "other_income", Description: "Other income"},
	"revenue":               {Statement: models.IncomeStatement, Field: "total_revenue", Description: "Total revenue"},
	"totalincome":           {Statement: models.IncomeStatement, Field: "total_income", Description: "Total income"},
	"profitbeforetax":       {Statement: models.IncomeStatement, Field: "profit_before_tax"},
	"taxexpense":            {Statement: models.IncomeStatement, Field: "tax_expense"},
	"profitaftertax":        {Statement: models.IncomeStatement, Field: "profit_after_tax"},
	"totalexpenses":         {Statement: models.IncomeStatement, Field: "total_expenses"},

	// Balance sheet
	"totalassets":        {Statement: models.BalanceSheet, Field: "total_assets"},
	"currentassets":      {Statement: models.BalanceSheet, Field: "current_assets"},
	"noncurrentassets":   {Statement: models.BalanceSheet, Field: "non_current_assets"},
	"totalliabilities":   {Statement: models.BalanceSheet, Field: "total_liabilities"},
	"currentliabilities": {Statement: models.BalanceSheet, Field: "current_liabilities"},
	"shareholdersequity": {Statement: models.BalanceSheet, Field: "shareholders_equity"},
	"totalequity":        {Statement: models.BalanceSheet, Field: "total_equity"},

	// Cash flow
	"netcashflowfromoperatingactivities": {Statement: models.CashFlow, Field: "net_cash_from_operations"},
	"netcashflowfrominvestingactivities": {Statement: models.CashFlow, Field: "net_cash_from_investing"},
	"netcashflowfromfinancingactivities": {Statement: models.CashFlow, Field: "net_cash_from_financing"},
	"cashandcashequivalents":             {Statement: models.CashFlow, Field: "cash_and_cash_equivalents"},
}
