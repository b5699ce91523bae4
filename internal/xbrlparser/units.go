package xbrlparser

// extractUnits collects every declared unit's measure keyed by unit id.
// A unit declared as a divide (numerator/denominator) structure takes the
// first numerator measure as its effective value. Units without a measure
// map to the empty string, which downstream treats as "no scale".
func extractUnits(root *element) map[string]string {
	units := make(map[string]string)
	root.walk(func(node *element) {
		if node.local != "unit" {
			return
		}
		id := node.attr("id")
		if id == "" {
			return
		}
		measure := node.childText("measure")
		if measure == "" {
			measure = node.childText("divide", "unitNumerator", "measure")
		}
		units[id] = measure
	})
	return units
}
