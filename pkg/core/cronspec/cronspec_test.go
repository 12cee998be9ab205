package cronspec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func instant(hour, minute int) time.Time {
	return time.Date(2024, time.March, 15, hour, minute, 0, 0, time.UTC) // a Friday
}

func TestParse_ValidExpressions(t *testing.T) {
	spec, ok := Parse("30 9 * * *")
	require.True(t, ok)
	assert.Equal(t, Field{Value: 30}, spec.Minute)
	assert.Equal(t, Field{Value: 9}, spec.Hour)
	assert.True(t, spec.DayOfMonth.Wildcard)
	assert.True(t, spec.Month.Wildcard)
	assert.True(t, spec.DayOfWeek.Wildcard)
}

func TestParse_ExtraWhitespace(t *testing.T) {
	_, ok := Parse("  0   12  *  *  * ")
	assert.True(t, ok)
}

func TestParse_MalformedFailsClosed(t *testing.T) {
	malformed := []string{
		"",
		"* * * *",
		"* * * * * *",
		"a * * * *",
		"0 12 * * mon",
		"*/5 * * * *", // step values are out of scope
	}

	for _, expr := range malformed {
		spec, ok := Parse(expr)
		assert.False(t, ok, "expected %q to be rejected", expr)
		assert.False(t, spec.Matches(instant(12, 0)), "malformed %q must never match", expr)
		assert.False(t, Due(expr, instant(12, 0)))
	}
}

func TestMatches_WildcardMatchesEveryInstant(t *testing.T) {
	spec, ok := Parse("* * * * *")
	require.True(t, ok)

	for hour := 0; hour < 24; hour++ {
		for _, minute := range []int{0, 17, 59} {
			assert.True(t, spec.Matches(instant(hour, minute)))
		}
	}
}

func TestMatches_ConcreteFieldsGateFiring(t *testing.T) {
	spec, ok := Parse("30 9 15 3 *")
	require.True(t, ok)

	assert.True(t, spec.Matches(time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)))
	assert.False(t, spec.Matches(time.Date(2024, 3, 15, 9, 31, 0, 0, time.UTC)), "minute mismatch")
	assert.False(t, spec.Matches(time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)), "hour mismatch")
	assert.False(t, spec.Matches(time.Date(2024, 3, 16, 9, 30, 0, 0, time.UTC)), "day mismatch")
	assert.False(t, spec.Matches(time.Date(2024, 4, 15, 9, 30, 0, 0, time.UTC)), "month mismatch")
}

// Day-of-week is parsed but does not gate firing: two specs that
// differ only in their day-of-week field fire at exactly the same
// instants. This mirrors the portal's long-standing matching
// behavior and is covered here so any future change to it is a
// conscious one.
func TestMatches_DayOfWeekNotEnforced(t *testing.T) {
	// 2024-03-15 is a Friday (weekday 5).
	friday := time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)

	onSunday, ok := Parse("30 9 * * 0")
	require.True(t, ok)
	onFriday, ok := Parse("30 9 * * 5")
	require.True(t, ok)

	assert.True(t, onSunday.Matches(friday), "day-of-week 0 must not prevent a Friday firing")
	assert.True(t, onFriday.Matches(friday))
	assert.Equal(t, onSunday.Matches(friday), onFriday.Matches(friday))
}

func TestMatches_SecondsIgnored(t *testing.T) {
	spec, ok := Parse("30 9 * * *")
	require.True(t, ok)

	// Any second within the matching minute matches: the spec keeps no
	// memory of prior firings.
	withSeconds := time.Date(2024, 3, 15, 9, 30, 42, 0, time.UTC)
	assert.True(t, spec.Matches(withSeconds))
}

func TestMatches_OutOfRangeValueNeverFires(t *testing.T) {
	// 75 is a syntactically valid integer that no wall clock minute
	// ever equals, so the spec parses but never fires.
	spec, ok := Parse("75 * * * *")
	require.True(t, ok)

	for minute := 0; minute < 60; minute++ {
		assert.False(t, spec.Matches(instant(9, minute)))
	}
}
