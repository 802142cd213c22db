package bookings

import (
	"sync"

	"braidzworld/internal/models"
)

// Store owns the booking collection for the session. All mutation goes through
// its commands; readers get copies, never the backing slice.
//
// The store keeps insertion order so the sort pipeline stays stable across
// identical keys.
type Store struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]*models.Booking
}

func NewStore(bookings []models.Booking) *Store {
	s := &Store{byID: make(map[string]*models.Booking, len(bookings))}
	for i := range bookings {
		b := bookings[i]
		if _, exists := s.byID[b.ID]; exists {
			// ids are unique within the collection; drop duplicates on load
			continue
		}
		s.order = append(s.order, b.ID)
		s.byID[b.ID] = &b
	}
	return s
}

// Snapshot returns a copy of the collection in insertion order.
func (s *Store) Snapshot() []models.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Booking, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.byID[id])
	}
	return out
}

func (s *Store) Get(id string) (models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.byID[id]
	if !ok {
		return models.Booking{}, ErrNotFound
	}
	return *b, nil
}

// SetStatus updates the status of a booking. There is deliberately no guard
// against leaving a terminal status here: the action surface hides the buttons
// for non-pending bookings and the command stays permissive, matching the
// reference behaviour.
func (s *Store) SetStatus(id, status string) (models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.byID[id]
	if !ok {
		return models.Booking{}, ErrNotFound
	}
	b.Status = status
	return *b, nil
}

// Stats counts bookings by status.
func (s *Store) Stats() models.BookingStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := models.BookingStats{Total: len(s.order)}
	for _, b := range s.byID {
		switch b.Status {
		case models.StatusPending:
			stats.Pending++
		case models.StatusConfirmed:
			stats.Confirmed++
		case models.StatusCancelled:
			stats.Cancelled++
		}
	}
	return stats
}
