// Package currencyutils provides Indian currency scale handling (rupees,
// lakhs, crores) and decimal amount parsing used throughout the pipeline.
package currencyutils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"mcafin/xbrl-xlsx/internal/parsererror"
)

// Scale identifiers recognised by the multiplier table.
const (
	ScaleINR    = "INR"
	ScaleRupees = "RUPEES"
	ScaleLakhs  = "LAKHS"
	ScaleCrores = "CRORES"
)

// unitMultipliers maps a scale identifier to its rupee multiplier.
var unitMultipliers = map[string]decimal.Decimal{
	ScaleINR:    decimal.NewFromInt(1),
	ScaleRupees: decimal.NewFromInt(1),
	ScaleLakhs:  decimal.NewFromInt(100_000),
	ScaleCrores: decimal.NewFromInt(10_000_000),
}

// unitAliases maps raw unit measures found in filings to scale identifiers.
// Keys are lower-case; lookups also retry with any namespace prefix
// (e.g. "iso4217:INR") stripped. The table deliberately covers the compound
// spellings MCA preparers use, like "INRinCrores".
var unitAliases = map[string]string{
	"inr":         ScaleINR,
	"iso4217:inr": ScaleINR,
	"rupees":      ScaleRupees,
	"inrincrores": ScaleCrores,
	"inrincrore":  ScaleCrores,
	"crore":       ScaleCrores,
	"crores":      ScaleCrores,
	"inrinlakhs":  ScaleLakhs,
	"inrlakhs":    ScaleLakhs,
	"lakh":        ScaleLakhs,
	"lakhs":       ScaleLakhs,
}

// NormalizeUnit maps a raw unit measure to a scale identifier. The second
// return value reports whether the measure was recognised; unrecognised
// measures are not an error, the caller treats the value as already being in
// absolute rupees.
func NormalizeUnit(measure string) (string, bool) {
	if measure == "" {
		return "", false
	}
	key := strings.ToLower(strings.TrimSpace(measure))
	if scale, ok := unitAliases[key]; ok {
		return scale, true
	}
	if idx := strings.LastIndex(key, ":"); idx >= 0 {
		if scale, ok := unitAliases[key[idx+1:]]; ok {
			return scale, true
		}
	}
	return "", false
}

// Multiplier returns the rupee multiplier for a scale identifier.
func Multiplier(scale string) (decimal.Decimal, error) {
	multiplier, ok := unitMultipliers[strings.ToUpper(scale)]
	if !ok {
		return decimal.Decimal{}, &parsererror.UnknownUnitError{Unit: scale}
	}
	return multiplier, nil
}

// ParseAmount parses the raw text of a fact into a decimal value. Comma
// thousands separators are stripped; anything else that does not parse is an
// error so the caller can skip the single fact.
func ParseAmount(raw string) (decimal.Decimal, error) {
	sanitized := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if sanitized == "" {
		return decimal.Decimal{}, fmt.Errorf("empty numeric value")
	}
	amount, err := decimal.NewFromString(sanitized)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to parse amount '%s': %w", raw, err)
	}
	return amount, nil
}

// ToAbsoluteRupees parses a raw value expressed at the given scale into
// absolute rupees. An empty scale means the value is already absolute.
// An unknown scale identifier is an error.
func ToAbsoluteRupees(raw string, scale string) (decimal.Decimal, error) {
	amount, err := ParseAmount(raw)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if scale == "" {
		return amount, nil
	}
	multiplier, err := Multiplier(scale)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return amount.Mul(multiplier), nil
}

// FormatInCrores renders an absolute rupee amount as crores, e.g. "12.50 Cr".
func FormatInCrores(amount decimal.Decimal) string {
	return amount.Div(unitMultipliers[ScaleCrores]).StringFixed(2) + " Cr"
}

// FormatInLakhs renders an absolute rupee amount as lakhs, e.g. "5.00 L".
func FormatInLakhs(amount decimal.Decimal) string {
	return amount.Div(unitMultipliers[ScaleLakhs]).StringFixed(2) + " L"
}
