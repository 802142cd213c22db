package availability

import (
	"fmt"
	"time"
)

const slotLayout = "15:04"

// BuildSlots generates the selectable half-hour slots of a working day.
// dayEnd is the closing hour: its half-hours are still selectable, so the
// default 09:00-18:00 window with 30-minute steps yields 20 slots
// (09:00 .. 18:30), matching the dashboard's slot picker.
func BuildSlots(dayStart, dayEnd string, stepMinutes int) ([]string, error) {
	start, err := time.Parse(slotLayout, dayStart)
	if err != nil {
		return nil, fmt.Errorf("invalid day start %q: %w", dayStart, err)
	}
	end, err := time.Parse(slotLayout, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("invalid day end %q: %w", dayEnd, err)
	}
	if stepMinutes <= 0 {
		return nil, fmt.Errorf("invalid slot step: %d", stepMinutes)
	}
	if !start.Before(end) {
		return nil, fmt.Errorf("day start %q is not before day end %q", dayStart, dayEnd)
	}

	limit := end.Add(time.Hour)
	step := time.Duration(stepMinutes) * time.Minute

	var slots []string
	for t := start; t.Before(limit); t = t.Add(step) {
		slots = append(slots, t.Format(slotLayout))
	}
	return slots, nil
}
