package einvoice

import (
	"time"

	"github.com/shopspring/decimal"
)

// Accumulator extracts fields one at a time from a source Record and
// writes them, conditionally, into typed Result destinations or into the
// Errors map. Every call resolves to exactly one of three outcomes:
//
//   - value valid      → *dst set (shared, not defensively copied)
//   - value invalid or required-but-missing → one Errors entry
//   - value absent and optional             → nothing
//
// Conditional required-ness (e.g. "buyer_city only for Standard invoices")
// is evaluated by the caller and passed in as the required argument; the
// accumulator itself knows nothing about invoice subtypes.
type Accumulator struct {
	rec  Record
	errs Errors
}

// NewAccumulator builds an accumulator over one source record, recording
// violations into errs.
func NewAccumulator(rec Record, errs Errors) *Accumulator {
	return &Accumulator{rec: rec, errs: errs}
}

// TextOpts bounds for Text fields (0 = unbounded).
type TextOpts struct {
	MinLen int
	MaxLen int
}

// IntOpts bounds for Int fields (nil = unbounded).
type IntOpts struct {
	Min *int64
	Max *int64
}

// DecimalOpts bounds for Decimal fields (nil = unbounded). Bounds apply
// to the absolute value, after sign discard.
type DecimalOpts struct {
	Min *decimal.Decimal
	Max *decimal.Decimal
}

func (a *Accumulator) missing(name string, required bool) bool {
	if a.rec.Has(name) {
		return false
	}
	if required {
		a.errs.Add(name, "Missing field value: %s", name)
	}
	return true
}

// Text validates a string field and writes it to dst.
func (a *Accumulator) Text(name string, required bool, dst **string, opts TextOpts) bool {
	if a.missing(name, required) {
		return false
	}
	s, ok := a.rec[name].(string)
	if !ok {
		a.errs.Add(name, "Wrong type for field %s: expected string, got %T", name, a.rec[name])
		return false
	}
	n := len([]rune(s))
	if opts.MinLen > 0 && n < opts.MinLen {
		a.errs.Add(name, "Length of %s must be at least %d, got %d", name, opts.MinLen, n)
		return false
	}
	if opts.MaxLen > 0 && n > opts.MaxLen {
		a.errs.Add(name, "Length of %s must be at most %d, got %d", name, opts.MaxLen, n)
		return false
	}
	*dst = &s
	return true
}

// Bool validates a boolean field and writes it to dst.
func (a *Accumulator) Bool(name string, required bool, dst **bool) bool {
	if a.missing(name, required) {
		return false
	}
	b, ok := a.rec[name].(bool)
	if !ok {
		a.errs.Add(name, "Wrong type for field %s: expected bool, got %T", name, a.rec[name])
		return false
	}
	*dst = &b
	return true
}

// Int validates an integer field and writes it to dst. Floats are not
// coerced to integers.
func (a *Accumulator) Int(name string, required bool, dst **int64, opts IntOpts) bool {
	if a.missing(name, required) {
		return false
	}
	var v int64
	switch x := a.rec[name].(type) {
	case int:
		v = int64(x)
	case int32:
		v = int64(x)
	case int64:
		v = x
	default:
		a.errs.Add(name, "Wrong type for field %s: expected integer, got %T", name, a.rec[name])
		return false
	}
	if opts.Min != nil && v < *opts.Min {
		a.errs.Add(name, "Value of %s must be at least %d, got %d", name, *opts.Min, v)
		return false
	}
	if opts.Max != nil && v > *opts.Max {
		a.errs.Add(name, "Value of %s must be at most %d, got %d", name, *opts.Max, v)
		return false
	}
	*dst = &v
	return true
}

// Decimal validates a numeric field and writes its absolute value to dst.
// Integers coerce to decimal; the sign is discarded because ZATCA reports
// monetary fields as unsigned magnitudes regardless of the transaction's
// debit/credit orientation.
func (a *Accumulator) Decimal(name string, required bool, dst **decimal.Decimal, opts DecimalOpts) bool {
	if a.missing(name, required) {
		return false
	}
	var v decimal.Decimal
	switch x := a.rec[name].(type) {
	case decimal.Decimal:
		v = x
	case float64:
		v = decimal.NewFromFloat(x)
	case float32:
		v = decimal.NewFromFloat32(x)
	case int:
		v = decimal.NewFromInt(int64(x))
	case int64:
		v = decimal.NewFromInt(x)
	default:
		a.errs.Add(name, "Wrong type for field %s: expected number, got %T", name, a.rec[name])
		return false
	}
	v = v.Abs()
	if opts.Min != nil && v.LessThan(*opts.Min) {
		a.errs.Add(name, "Value of %s must be at least %s, got %s", name, opts.Min.String(), v.String())
		return false
	}
	if opts.Max != nil && v.GreaterThan(*opts.Max) {
		a.errs.Add(name, "Value of %s must be at most %s, got %s", name, opts.Max.String(), v.String())
		return false
	}
	*dst = &v
	return true
}

// Date validates a date field (time.Time or "YYYY-MM-DD" string) and
// writes the normalized YYYY-MM-DD string to dst.
func (a *Accumulator) Date(name string, required bool, dst **string) bool {
	return a.temporal(name, required, dst, "2006-01-02", "date (YYYY-MM-DD)")
}

// Time validates a time-of-day field (time.Time or "HH:MM:SS" string) and
// writes the normalized HH:MM:SS string to dst.
func (a *Accumulator) Time(name string, required bool, dst **string) bool {
	return a.temporal(name, required, dst, "15:04:05", "time (HH:MM:SS)")
}

func (a *Accumulator) temporal(name string, required bool, dst **string, layout, kind string) bool {
	if a.missing(name, required) {
		return false
	}
	switch x := a.rec[name].(type) {
	case time.Time:
		s := x.Format(layout)
		*dst = &s
		return true
	case string:
		t, err := time.Parse(layout, x)
		if err != nil {
			a.errs.Add(name, "Invalid %s for field %s: %q", kind, name, x)
			return false
		}
		s := t.Format(layout)
		*dst = &s
		return true
	default:
		a.errs.Add(name, "Wrong type for field %s: expected %s, got %T", name, kind, a.rec[name])
		return false
	}
}

// List validates a list-of-mappings field and writes it to dst. Elements
// that are not mappings fail the whole field.
func (a *Accumulator) List(name string, required bool, dst *[]Record) bool {
	if a.missing(name, required) {
		return false
	}
	raw, ok := a.rec[name].([]any)
	if !ok {
		if typed, isTyped := a.rec[name].([]Record); isTyped {
			*dst = typed
			return true
		}
		a.errs.Add(name, "Wrong type for field %s: expected list, got %T", name, a.rec[name])
		return false
	}
	out := make([]Record, 0, len(raw))
	for i, el := range raw {
		m, isMap := el.(map[string]any)
		if !isMap {
			if r, isRec := el.(Record); isRec {
				out = append(out, r)
				continue
			}
			a.errs.Add(name, "Wrong type for element %d of %s: expected mapping, got %T", i, name, el)
			return false
		}
		out = append(out, Record(m))
	}
	*dst = out
	return true
}

// Mapping validates a nested-mapping field and writes it to dst.
func (a *Accumulator) Mapping(name string, required bool, dst *Record) bool {
	if a.missing(name, required) {
		return false
	}
	switch x := a.rec[name].(type) {
	case Record:
		*dst = x
		return true
	case map[string]any:
		*dst = Record(x)
		return true
	default:
		a.errs.Add(name, "Wrong type for field %s: expected mapping, got %T", name, a.rec[name])
		return false
	}
}
