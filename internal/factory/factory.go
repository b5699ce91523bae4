// Package factory assembles pipeline components from configuration. Each
// constructor is explicit so callers can build exactly the slice of the
// pipeline they need.
package factory

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"mcafin/xbrl-xlsx/internal/conceptmap"
	"mcafin/xbrl-xlsx/internal/config"
	"mcafin/xbrl-xlsx/internal/converter"
	"mcafin/xbrl-xlsx/internal/logging"
	"mcafin/xbrl-xlsx/internal/report"
	"mcafin/xbrl-xlsx/internal/validation"
	"mcafin/xbrl-xlsx/internal/xbrlparser"
)

// NewMapper builds the concept mapper, applying the configured overrides
// file when one is set.
func NewMapper(cfg *config.Config) (*conceptmap.Mapper, error) {
	if cfg != nil && cfg.Concepts.OverridesFile != "" {
		mapper, err := conceptmap.NewWithOverrides(cfg.Concepts.OverridesFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load concept overrides: %w", err)
		}
		return mapper, nil
	}
	return conceptmap.New(), nil
}

// NewEngine builds the validation engine from the configured tolerances.
func NewEngine(cfg *config.Config) *validation.Engine {
	if cfg == nil {
		return validation.NewDefaultEngine()
	}
	return validation.NewEngine(
		decimal.NewFromFloat(cfg.Validation.AbsoluteTolerance),
		decimal.NewFromFloat(cfg.Validation.RelativeTolerance),
	)
}

// NewParser builds the XBRL parser with the configured concept mapper.
func NewParser(cfg *config.Config, logger *logrus.Logger) (*xbrlparser.Parser, error) {
	mapper, err := NewMapper(cfg)
	if err != nil {
		return nil, err
	}
	return xbrlparser.NewParser(mapper, logger), nil
}

// NewGenerator builds the Excel report generator.
func NewGenerator(logger *logrus.Logger) *report.Generator {
	return report.NewGenerator(logger)
}

// NewConverter builds the fully wired conversion pipeline.
func NewConverter(cfg *config.Config, logger *logrus.Logger) (*converter.Converter, error) {
	parser, err := NewParser(cfg, logger)
	if err != nil {
		return nil, err
	}

	conv := converter.NewConverter(
		parser,
		NewEngine(cfg),
		NewGenerator(logger),
		logging.NewLogrusAdapterFromLogger(logger),
	)
	if cfg != nil {
		conv.SetMaxFileSize(cfg.MaxFileSizeBytes())
		conv.SetWorkerCount(cfg.Batch.Workers)
	}
	return conv, nil
}
