package einvoice

import "github.com/shopspring/decimal"

// Kind is the primitive kind a field rule validates.
type Kind uint8

const (
	KindText Kind = iota
	KindBool
	KindInt
	KindDecimal
	KindDate
	KindTime
	KindList
	KindMapping
)

// Requirement declares when a field is mandatory. Flag-driven conditions
// (allowance/charge indicators, buyer-VAT presence) are not encoded here;
// the assembler evaluates those and overrides per call.
type Requirement uint8

const (
	Optional Requirement = iota
	Always
	StandardOnly   // required on Standard (B2B), optional on Simplified
	SimplifiedOnly // required on Simplified (B2C), optional on Standard
)

// Rule declares the validation contract for one named source field.
// Immutable once declared; rule sets compose by explicit Merge.
type Rule struct {
	Name        string
	Kind        Kind
	Requirement Requirement
	MinLen      int
	MaxLen      int
	Min         *decimal.Decimal
	Max         *decimal.Decimal
	Out         string // output field name; empty = same as Name
}

// RequiredFor resolves the subtype-conditional requirement.
func (r Rule) RequiredFor(standard bool) bool {
	switch r.Requirement {
	case Always:
		return true
	case StandardOnly:
		return standard
	case SimplifiedOnly:
		return !standard
	default:
		return false
	}
}

// RuleSet is a flat, name-keyed collection of field rules.
type RuleSet map[string]Rule

// Get returns the rule for a field; a zero-valued optional Text rule if
// no rule was declared.
func (rs RuleSet) Get(name string) Rule {
	if r, ok := rs[name]; ok {
		return r
	}
	return Rule{Name: name, Kind: KindText, Requirement: Optional}
}

// NewRuleSet indexes rules by name. Duplicate names panic: rule sets are
// static declarations, and a silent overwrite would hide a typo.
func NewRuleSet(rules ...Rule) RuleSet {
	rs := make(RuleSet, len(rules))
	for _, r := range rules {
		if _, dup := rs[r.Name]; dup {
			panic("einvoice: duplicate field rule " + r.Name)
		}
		rs[r.Name] = r
	}
	return rs
}

// Merge composes rule sets: later overlays add new rules and explicitly
// override same-named ones. The inputs are not mutated. This replaces
// implicit schema inheritance with a visible, testable composition.
func Merge(base RuleSet, overlays ...RuleSet) RuleSet {
	out := make(RuleSet, len(base))
	for k, v := range base {
		out[k] = v
	}
	for _, o := range overlays {
		for k, v := range o {
			out[k] = v
		}
	}
	return out
}
