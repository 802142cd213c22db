package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthGrid(t *testing.T) {
	// March 2025 starts on a Saturday; the grid opens on Sunday 2025-02-23.
	ref := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)

	cells := MonthGrid(ref, now, func(string) bool { return false })
	require.Len(t, cells, 42)

	assert.Equal(t, "2025-02-23", cells[0].Date)
	assert.Equal(t, time.Sunday, mustParseDay(t, cells[0].Date).Weekday())
	assert.False(t, cells[0].InMonth)

	// 2025-03-01 is cell index 6.
	assert.Equal(t, "2025-03-01", cells[6].Date)
	assert.True(t, cells[6].InMonth)
	assert.True(t, cells[6].Past)

	// Today: in month, flagged, not past.
	today := cells[6+11]
	assert.Equal(t, "2025-03-12", today.Date)
	assert.True(t, today.Today)
	assert.False(t, today.Past)

	// Tomorrow is neither today nor past.
	tomorrow := cells[6+12]
	assert.False(t, tomorrow.Today)
	assert.False(t, tomorrow.Past)
}

func TestMonthGridStartsOnSundayWhenFirstIsSunday(t *testing.T) {
	// June 2025 starts on a Sunday; the grid opens on the 1st itself.
	ref := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	cells := MonthGrid(ref, now, func(string) bool { return false })
	require.Len(t, cells, 42)
	assert.Equal(t, "2025-06-01", cells[0].Date)
	assert.True(t, cells[0].InMonth)
}

func TestMonthGridBlockedFlag(t *testing.T) {
	ref := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	cells := MonthGrid(ref, now, func(date string) bool { return date == "2025-03-10" })

	var blocked []string
	for _, c := range cells {
		if c.Blocked {
			blocked = append(blocked, c.Date)
		}
	}
	assert.Equal(t, []string{"2025-03-10"}, blocked)
}

func mustParseDay(t *testing.T, date string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", date)
	require.NoError(t, err)
	return parsed
}

func TestBuildSlots(t *testing.T) {
	slots, err := BuildSlots("09:00", "18:00", 30)
	require.NoError(t, err)
	require.Len(t, slots, 20)
	assert.Equal(t, "09:00", slots[0])
	assert.Equal(t, "09:30", slots[1])
	assert.Equal(t, "18:30", slots[19])
}

func TestBuildSlotsInvalidInput(t *testing.T) {
	_, err := BuildSlots("bogus", "18:00", 30)
	assert.Error(t, err)

	_, err = BuildSlots("09:00", "18:00", 0)
	assert.Error(t, err)

	_, err = BuildSlots("18:00", "09:00", 30)
	assert.Error(t, err)
}
