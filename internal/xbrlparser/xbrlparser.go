// Package xbrlparser parses MCA AOC-4 XBRL instance documents into
// normalized financial statements with a full audit trail.
package xbrlparser

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/xmlpath.v2"

	"mcafin/xbrl-xlsx/internal/conceptmap"
	"mcafin/xbrl-xlsx/internal/currencyutils"
	"mcafin/xbrl-xlsx/internal/fileutils"
	"mcafin/xbrl-xlsx/internal/models"
	"mcafin/xbrl-xlsx/internal/parsererror"
)

// SupportedExtensions lists the file extensions accepted by ParseFile.
var SupportedExtensions = map[string]bool{
	".xml":  true,
	".xbrl": true,
}

// Parser extracts standardized statements from XBRL instance documents.
// A Parser is stateless across invocations and safe for concurrent use:
// the concept mapper it holds is read-only.
type Parser struct {
	mapper *conceptmap.Mapper
	log    *logrus.Logger
}

// NewParser creates a Parser using the given concept mapper.
func NewParser(mapper *conceptmap.Mapper, logger *logrus.Logger) *Parser {
	if mapper == nil {
		mapper = conceptmap.New()
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Parser{mapper: mapper, log: logger}
}

// SetLogger sets a custom logger for the parser.
func (p *Parser) SetLogger(logger *logrus.Logger) {
	if logger != nil {
		p.log = logger
	}
}

// ParseFile parses an XBRL file from disk. The extension must be .xml or
// .xbrl; anything else fails with an *parsererror.InvalidFormatError before
// the file is read.
func (p *Parser) ParseFile(filePath string) (*models.ParseResult, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	if !SupportedExtensions[ext] {
		return nil, &parsererror.InvalidFormatError{
			FilePath:       filePath,
			ExpectedFormat: ".xml or .xbrl XBRL instance document",
			Msg:            "unsupported file extension '" + ext + "'",
		}
	}
	data, err := fileutils.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return p.Parse(data, filePath)
}

// Parse extracts a ParseResult from raw document bytes. source is recorded
// in metadata for traceability and error messages only.
//
// Structural errors (malformed markup) are fatal. Data-quality issues on
// individual facts never are: facts with unknown concepts land in the
// unmapped list, facts with unusable values are skipped, and parsing
// continues.
func (p *Parser) Parse(data []byte, source string) (*models.ParseResult, error) {
	p.log.WithField("source", source).Info("Parsing XBRL instance document")

	root, err := loadDocument(data, source)
	if err != nil {
		return nil, err
	}

	contexts := extractContexts(root)
	units := extractUnits(root)

	matrix := models.NewStatementMatrix()
	var auditTrail []models.AuditRecord
	var unmapped []models.UnmappedFact
	entities := make(map[string]bool)
	usedUnits := make(map[string]bool)

	root.walk(func(node *element) {
		contextRef := node.attr("contextRef")
		if contextRef == "" {
			return
		}
		fact := models.Fact{
			ConceptName: node.local,
			RawTag:      node.qualifiedName(),
			ContextRef:  contextRef,
			UnitRef:     node.attr("unitRef"),
			RawValue:    node.value(),
			Nil:         node.attr("nil") == "true",
		}

		mapping, resolved := p.mapper.Resolve(fact.ConceptName)
		if !resolved {
			mapping, resolved = p.mapper.Resolve(fact.RawTag)
		}

		context, contextKnown := contexts[fact.ContextRef]
		if !contextKnown || fact.RawValue == "" || fact.Nil {
			// An empty value for a known concept is not evidence of a
			// taxonomy gap; only record the fact when the concept itself
			// is unknown.
			if !resolved {
				unmapped = append(unmapped, newUnmappedFact(fact))
			}
			return
		}
		if !resolved {
			unmapped = append(unmapped, newUnmappedFact(fact))
			return
		}

		measure := ""
		if fact.UnitRef != "" {
			measure = units[fact.UnitRef]
		}
		scale, _ := currencyutils.NormalizeUnit(measure)
		value, err := currencyutils.ToAbsoluteRupees(fact.RawValue, scale)
		if err != nil {
			p.log.WithFields(logrus.Fields{
				"concept": fact.ConceptName,
				"value":   fact.RawValue,
			}).WithError(err).Debug("Skipping fact with unparseable value")
			return
		}

		period := context.Label()
		matrix.Set(mapping.Statement, mapping.Field, period, value)
		auditTrail = append(auditTrail, models.AuditRecord{
			Statement:  mapping.Statement,
			Field:      mapping.Field,
			Concept:    fact.ConceptName,
			ContextRef: fact.ContextRef,
			Period:     period,
			Unit:       measure,
			Value:      value,
		})
		if context.Entity != "" {
			entities[context.Entity] = true
		}
		if measure != "" {
			usedUnits[measure] = true
		}
	})

	result := &models.ParseResult{
		Statements:    matrix,
		AuditTrail:    auditTrail,
		Contexts:      contexts,
		Metadata:      buildMetadata(source, contexts, entities, usedUnits, len(unmapped)),
		UnmappedFacts: unmapped,
	}

	p.log.WithFields(logrus.Fields{
		"source":   source,
		"facts":    len(auditTrail),
		"unmapped": len(unmapped),
		"contexts": len(contexts),
	}).Info("Extracted statements from XBRL document")

	return result, nil
}

func newUnmappedFact(fact models.Fact) models.UnmappedFact {
	return models.UnmappedFact{
		Concept:    fact.ConceptName,
		RawTag:     fact.RawTag,
		ContextRef: fact.ContextRef,
		Unit:       fact.UnitRef,
		RawValue:   fact.RawValue,
	}
}

func buildMetadata(source string, contexts map[string]models.ContextInfo, entities, usedUnits map[string]bool, unmappedCount int) models.Metadata {
	periods := make(map[string]models.PeriodInfo, len(contexts))
	for id, context := range contexts {
		info := models.PeriodInfo{
			Label:         context.Label(),
			FinancialYear: context.FinancialYear(),
		}
		if !context.StartDate.IsZero() {
			info.StartDate = context.StartDate.Format("2006-01-02")
		}
		if !context.EndDate.IsZero() {
			info.EndDate = context.EndDate.Format("2006-01-02")
		}
		if !context.Instant.IsZero() {
			info.Instant = context.Instant.Format("2006-01-02")
		}
		periods[id] = info
	}
	return models.Metadata{
		Source:        source,
		Entities:      sortedKeys(entities),
		Periods:       periods,
		Units:         sortedKeys(usedUnits),
		UnmappedCount: unmappedCount,
	}
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// ValidateFormat checks whether a file looks like an XBRL instance
// document: well-formed XML declaring at least one reporting context. A
// file that is not valid XML reports false without an error.
func (p *Parser) ValidateFormat(filePath string) (bool, error) {
	p.log.WithField("file", filePath).Debug("Validating XBRL format")

	f, err := os.Open(filePath)
	if err != nil {
		return false, err
	}
	defer f.Close()

	root, err := xmlpath.Parse(f)
	if err != nil {
		p.log.WithField("file", filePath).Debug("File is not well-formed XML")
		return false, nil
	}

	path := xmlpath.MustCompile("//context")
	if iter := path.Iter(root); !iter.Next() {
		p.log.WithField("file", filePath).Debug("No context elements, not an XBRL instance document")
		return false, nil
	}
	return true, nil
}
