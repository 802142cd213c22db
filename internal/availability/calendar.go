package availability

import "time"

const dateLayout = "2006-01-02"

// gridCells is the fixed 6-week month grid size.
const gridCells = 42

// Cell is one day of the month grid.
type Cell struct {
	Date    string `json:"date"`
	Day     int    `json:"day"`
	InMonth bool   `json:"in_month"`
	Today   bool   `json:"today"`
	Past    bool   `json:"past"`
	Blocked bool   `json:"blocked"`
}

// MonthGrid renders the 42-cell grid for the month containing ref, starting
// at the Sunday of the week containing the 1st. A cell is blocked when any
// entry exists for its date, full-day or slot-level alike, and disabled (Past)
// when it falls strictly before today.
func MonthGrid(ref, now time.Time, isBlocked func(date string) bool) []Cell {
	firstOfMonth := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	start := firstOfMonth.AddDate(0, 0, -int(firstOfMonth.Weekday()))
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	cells := make([]Cell, 0, gridCells)
	for i := 0; i < gridCells; i++ {
		day := start.AddDate(0, 0, i)
		date := day.Format(dateLayout)
		cells = append(cells, Cell{
			Date:    date,
			Day:     day.Day(),
			InMonth: day.Month() == ref.Month(),
			Today:   day.Equal(today),
			Past:    day.Before(today),
			Blocked: isBlocked(date),
		})
	}
	return cells
}
