// Package einvoice implements the validated field-mapping engine that turns
// a loosely-typed transaction record into the typed field set serialized as
// a ZATCA UBL 2.1 invoice. The engine is deliberately tolerant at the field
// level (soft errors accumulate) and strict at the document level (hard
// errors abort assembly).
package einvoice

// Record is a loosely-typed source record: the raw transaction data the
// accumulator pulls named fields from. Values are whatever the caller
// decoded (JSON numbers, strings, nested maps, decimals).
type Record map[string]any

// Has reports whether the field is present and non-empty. A nil value or
// an empty / whitespace-only string counts as absent.
func (r Record) Has(name string) bool {
	v, ok := r[name]
	if !ok || v == nil {
		return false
	}
	if s, isStr := v.(string); isStr && isBlank(s) {
		return false
	}
	return true
}

func isBlank(s string) bool {
	for _, c := range s {
		if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
			return false
		}
	}
	return true
}
