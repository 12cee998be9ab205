package cronspec

import (
	"strconv"
	"strings"
	"time"
)

// Field is a single cron field: either the wildcard `*` or a concrete
// integer value.
type Field struct {
	Wildcard bool
	Value    int
}

// matches reports whether the field accepts the given component value.
func (f Field) matches(component int) bool {
	return f.Wildcard || f.Value == component
}

// Spec is a parsed five-field cron expression
// (minute hour day-of-month month day-of-week).
//
// Day-of-week is parsed and stored but deliberately not consulted by
// Matches; only minute, hour, day-of-month and month gate firing.
type Spec struct {
	Minute     Field
	Hour       Field
	DayOfMonth Field
	Month      Field
	DayOfWeek  Field
}

// Parse parses a cron expression into a Spec. It fails closed: a
// malformed expression (field count other than five, or a field that
// is neither `*` nor an integer) returns ok=false and the zero Spec,
// which matches nothing. Parse never panics or returns an error.
func Parse(expr string) (Spec, bool) {
	parts := strings.Fields(expr)
	if len(parts) != 5 {
		return Spec{}, false
	}

	fields := make([]Field, 5)
	for i, part := range parts {
		if part == "*" {
			fields[i] = Field{Wildcard: true}
			continue
		}
		value, err := strconv.Atoi(part)
		if err != nil {
			return Spec{}, false
		}
		fields[i] = Field{Value: value}
	}

	return Spec{
		Minute:     fields[0],
		Hour:       fields[1],
		DayOfMonth: fields[2],
		Month:      fields[3],
		DayOfWeek:  fields[4],
	}, true
}

// Matches reports whether the spec fires at the given instant.
// Resolution is whole minutes: the spec matches for every evaluation
// within a matching minute, so a caller ticking faster than once per
// minute can observe duplicate firings. The spec has no memory of
// having fired; callers needing exactly-once-per-minute must keep
// their own dedupe key (e.g. last-fired minute).
func (s Spec) Matches(at time.Time) bool {
	if !s.Minute.matches(at.Minute()) {
		return false
	}
	if !s.Hour.matches(at.Hour()) {
		return false
	}
	if !s.DayOfMonth.matches(at.Day()) {
		return false
	}
	if !s.Month.matches(int(at.Month())) {
		return false
	}
	// Day-of-week is accepted but not enforced.
	return true
}

// Due is a convenience for the common parse-then-match call: it
// reports whether expr is well formed and fires at the given instant.
func Due(expr string, at time.Time) bool {
	spec, ok := Parse(expr)
	return ok && spec.Matches(at)
}
