package xbrlparser

import (
	"time"

	"mcafin/xbrl-xlsx/internal/dateutils"
	"mcafin/xbrl-xlsx/internal/models"
)

// extractContexts collects every declared reporting context: its entity
// identifier and either a duration (startDate+endDate) or an instant.
// Contexts without an id are skipped; unparseable dates are left zero so
// the context still resolves with a fallback label.
func extractContexts(root *element) map[string]models.ContextInfo {
	contexts := make(map[string]models.ContextInfo)
	root.walk(func(node *element) {
		if node.local != "context" {
			return
		}
		id := node.attr("id")
		if id == "" {
			return
		}
		info := models.ContextInfo{
			ID:     id,
			Entity: node.childText("entity", "identifier"),
		}
		if period := node.firstChild("period"); period != nil {
			info.StartDate = parseContextDate(period.childText("startDate"))
			info.EndDate = parseContextDate(period.childText("endDate"))
			info.Instant = parseContextDate(period.childText("instant"))
		}
		contexts[id] = info
	})
	return contexts
}

func parseContextDate(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	parsed, err := dateutils.ParseISODate(raw)
	if err != nil {
		return time.Time{}
	}
	return parsed
}
