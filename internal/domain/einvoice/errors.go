package einvoice

import (
	"fmt"
	"sort"
)

// Errors maps a source field name to a human-readable violation message.
// A field is either written to the Result or present here, never both;
// optional absent fields appear in neither.
type Errors map[string]string

// Add records a violation for a field. The first message per field wins:
// later related checks must not mask the original cause.
func (e Errors) Add(field, format string, args ...any) {
	if _, exists := e[field]; exists {
		return
	}
	e[field] = fmt.Sprintf(format, args...)
}

// Empty reports whether assembly produced no field violations.
func (e Errors) Empty() bool { return len(e) == 0 }

// Fields returns the violated field names in stable order.
func (e Errors) Fields() []string {
	out := make([]string, 0, len(e))
	for k := range e {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
