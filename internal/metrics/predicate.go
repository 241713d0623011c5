package metrics

import "strings"

// Predicate decides whether a record takes part in an aggregation.
type Predicate func(r NormalizedRecord) bool

// All combines predicates with AND. Nil predicates are skipped.
func All(preds ...Predicate) Predicate {
	return func(r NormalizedRecord) bool {
		for _, p := range preds {
			if p != nil && !p(r) {
				return false
			}
		}
		return true
	}
}

// DateRangePredicate tests the named timestamp field against rng (see InRange).
// An unknown field name behaves like a missing timestamp.
func DateRangePredicate(field string, rng *DateRange) Predicate {
	if rng == nil {
		return nil
	}
	return func(r NormalizedRecord) bool {
		ts, _ := r.Field(field)
		return InRange(ts, rng)
	}
}

// ExcludeRemarks drops records whose remarks match one of values, ignoring case.
func ExcludeRemarks(values ...string) Predicate {
	if len(values) == 0 {
		return nil
	}
	excluded := make(map[string]struct{}, len(values))
	for _, v := range values {
		excluded[normalizeTag(v)] = struct{}{}
	}
	return func(r NormalizedRecord) bool {
		_, drop := excluded[normalizeTag(r.Remarks)]
		return !drop
	}
}

// FieldEquals keeps records whose field matches value, ignoring case and surrounding space.
func FieldEquals(field, value string) Predicate {
	want := normalizeTag(value)
	return func(r NormalizedRecord) bool {
		v, ok := r.Field(field)
		return ok && normalizeTag(v) == want
	}
}

// SearchPredicate keeps records where term occurs (case-insensitive) in the
// company, agent or manager name, ticket reference, remarks or status.
func SearchPredicate(term string) Predicate {
	term = normalizeTag(term)
	if term == "" {
		return nil
	}
	return func(r NormalizedRecord) bool {
		for _, v := range []string{
			r.CompanyName,
			r.AgentName,
			r.ManagerName,
			r.TicketReferenceNumber,
			r.Remarks,
			r.Status,
		} {
			if strings.Contains(strings.ToLower(v), term) {
				return true
			}
		}
		return false
	}
}
