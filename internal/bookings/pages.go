package bookings

import "braidzworld/internal/models"

// PageNumbers returns the page numbers the paginator shows: every page when
// there are at most five, otherwise a five-wide window anchored so the current
// page stays visible, clamped to [1, totalPages].
func PageNumbers(current, totalPages int) []int {
	if totalPages <= 0 {
		return nil
	}
	if current < 1 {
		current = 1
	}
	if current > totalPages {
		current = totalPages
	}

	window := models.PageWindow
	if totalPages <= window {
		pages := make([]int, 0, totalPages)
		for i := 1; i <= totalPages; i++ {
			pages = append(pages, i)
		}
		return pages
	}

	var start int
	switch {
	case current <= 3:
		start = 1
	case current >= totalPages-2:
		start = totalPages - (window - 1)
	default:
		start = current - 2
	}

	pages := make([]int, 0, window)
	for i := start; i < start+window; i++ {
		pages = append(pages, i)
	}
	return pages
}
