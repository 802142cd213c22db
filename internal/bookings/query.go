package bookings

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"braidzworld/internal/models"
)

const dateLayout = "2006-01-02"

// StatusFilter narrows the list to one booking status.
type StatusFilter int

const (
	StatusAll StatusFilter = iota
	StatusPending
	StatusConfirmed
	StatusCancelled
)

func ParseStatusFilter(s string) (StatusFilter, error) {
	switch s {
	case "", "all":
		return StatusAll, nil
	case models.StatusPending:
		return StatusPending, nil
	case models.StatusConfirmed:
		return StatusConfirmed, nil
	case models.StatusCancelled:
		return StatusCancelled, nil
	}
	return StatusAll, fmt.Errorf("unknown status filter: %q", s)
}

func (f StatusFilter) matches(status string) bool {
	switch f {
	case StatusAll:
		return true
	case StatusPending:
		return status == models.StatusPending
	case StatusConfirmed:
		return status == models.StatusConfirmed
	case StatusCancelled:
		return status == models.StatusCancelled
	}
	return true
}

// DateFilter narrows the list with a calendar-relative predicate evaluated
// against the current moment at query time.
type DateFilter int

const (
	DateAll DateFilter = iota
	DateToday
	DateThisWeek
	DateThisMonth
	DateUpcoming
)

func ParseDateFilter(s string) (DateFilter, error) {
	switch s {
	case "", "all":
		return DateAll, nil
	case "today":
		return DateToday, nil
	case "week":
		return DateThisWeek, nil
	case "month":
		return DateThisMonth, nil
	case "upcoming":
		return DateUpcoming, nil
	}
	return DateAll, fmt.Errorf("unknown date filter: %q", s)
}

func (f DateFilter) matches(now time.Time, rawDate string) bool {
	if f == DateAll {
		return true
	}
	date, err := time.ParseInLocation(dateLayout, rawDate, now.Location())
	if err != nil {
		return false
	}
	switch f {
	case DateToday:
		return sameDay(now, date)
	case DateThisWeek:
		start := startOfWeek(now)
		return !date.Before(start) && date.Before(start.AddDate(0, 0, 7))
	case DateThisMonth:
		return now.Year() == date.Year() && now.Month() == date.Month()
	case DateUpcoming:
		// strictly after the current moment
		return date.After(now)
	}
	return true
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// startOfWeek returns midnight of the Sunday beginning t's week.
func startOfWeek(t time.Time) time.Time {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return midnight.AddDate(0, 0, -int(midnight.Weekday()))
}

// SortField selects the sort key of the result set.
type SortField int

const (
	SortByDate SortField = iota
	SortByName
	SortByService
)

func ParseSortField(s string) (SortField, error) {
	switch s {
	case "", "date":
		return SortByDate, nil
	case "name":
		return SortByName, nil
	case "service":
		return SortByService, nil
	}
	return SortByDate, fmt.Errorf("unknown sort field: %q", s)
}

// SortOrder is ascending or descending.
type SortOrder int

const (
	Asc SortOrder = iota
	Desc
)

func ParseSortOrder(s string) (SortOrder, error) {
	switch s {
	case "", "asc":
		return Asc, nil
	case "desc":
		return Desc, nil
	}
	return Asc, fmt.Errorf("unknown sort order: %q", s)
}

// Query is the filter/sort/search/pagination state of the booking list.
type Query struct {
	Status   StatusFilter
	Date     DateFilter
	Search   string
	SortBy   SortField
	Order    SortOrder
	Page     int
	PageSize int
}

// Page is one visible slice of the filtered, sorted collection.
type Page struct {
	Bookings   []models.Booking `json:"bookings"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

// Apply runs the pipeline in its fixed order: status filter, date filter,
// search, sort, paginate. A non-empty search term replaces the status/date
// filters instead of composing with them - the reference dashboard treats
// search as a separate lookup path, and that behaviour is kept.
func (q Query) Apply(now time.Time, all []models.Booking) Page {
	term := strings.ToLower(strings.TrimSpace(q.Search))

	var result []models.Booking
	if term != "" {
		for _, b := range all {
			if matchesSearch(b, term) {
				result = append(result, b)
			}
		}
	} else {
		for _, b := range all {
			if !q.Status.matches(b.Status) {
				continue
			}
			if !q.Date.matches(now, b.Date) {
				continue
			}
			result = append(result, b)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		cmp := compare(result[i], result[j], q.SortBy)
		if q.Order == Desc {
			return cmp > 0
		}
		return cmp < 0
	})

	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = models.DefaultPageSize
	}
	page := q.Page
	if page < 1 {
		page = 1
	}

	total := len(result)
	totalPages := (total + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return Page{
		Bookings:   result[start:end],
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// matchesSearch reports whether any of the searchable fields contains term.
// term must already be lower-cased.
func matchesSearch(b models.Booking, term string) bool {
	return strings.Contains(strings.ToLower(b.UserName), term) ||
		strings.Contains(strings.ToLower(b.Service), term) ||
		strings.Contains(strings.ToLower(b.UserEmail), term) ||
		strings.Contains(strings.ToLower(b.Date), term) ||
		strings.Contains(strings.ToLower(b.Time), term) ||
		strings.Contains(strings.ToLower(b.Status), term)
}

func compare(a, b models.Booking, field SortField) int {
	switch field {
	case SortByName:
		return strings.Compare(strings.ToLower(a.UserName), strings.ToLower(b.UserName))
	case SortByService:
		return strings.Compare(strings.ToLower(a.Service), strings.ToLower(b.Service))
	default:
		if c := strings.Compare(a.Date, b.Date); c != 0 {
			return c
		}
		return strings.Compare(a.Time, b.Time)
	}
}
