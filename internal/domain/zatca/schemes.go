package zatca

import (
	"fmt"
	"strings"

	"zatca-pro/internal/domain"
	"zatca-pro/internal/domain/entity"
)

// ResolveSchemeIDs validates a party's alternate identifiers against the
// canonical scheme order for its role and returns the entries with a
// non-blank value, in input order. Two rules apply:
//
//   - every scheme code must be a member of the canonical list, and
//   - codes must appear in non-decreasing canonical position (the
//     authority's priority ordering of alternate identifiers).
//
// Violations return domain.ErrConfiguration.
func ResolveSchemeIDs(ids []entity.PartyIdentifier, canonical []string) ([]entity.PartyIdentifier, error) {
	pos := make(map[string]int, len(canonical))
	for i, code := range canonical {
		pos[code] = i
	}

	out := make([]entity.PartyIdentifier, 0, len(ids))
	last := -1
	for _, id := range ids {
		p, ok := pos[id.Scheme]
		if !ok {
			return nil, fmt.Errorf("%w: unknown identifier scheme %q (expected one of %s)",
				domain.ErrConfiguration, id.Scheme, strings.Join(canonical, ", "))
		}
		if p < last {
			return nil, fmt.Errorf("%w: identifier scheme %q out of order; expected priority order %s",
				domain.ErrConfiguration, id.Scheme, strings.Join(canonical, ", "))
		}
		last = p
		if strings.TrimSpace(id.Value) == "" {
			continue
		}
		out = append(out, entity.PartyIdentifier{Scheme: id.Scheme, Value: id.Value})
	}
	return out, nil
}
