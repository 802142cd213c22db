package bookings

import (
	"context"
	"strings"
	"sync"
	"time"

	"braidzworld/internal/clock"
	"braidzworld/internal/events"
	"braidzworld/internal/metrics"
	"braidzworld/internal/models"

	"github.com/rs/zerolog"
)

// StatusUpdater is the external collaborator confirming a status change before
// the local collection is touched.
type StatusUpdater interface {
	UpdateStatus(ctx context.Context, bookingID, status string) error
}

// SimulatedUpdater stands in for the real backend: it always succeeds after a
// fixed artificial delay.
type SimulatedUpdater struct {
	clk   clock.Clock
	delay time.Duration
}

func NewSimulatedUpdater(clk clock.Clock, delay time.Duration) *SimulatedUpdater {
	return &SimulatedUpdater{clk: clk, delay: delay}
}

func (u *SimulatedUpdater) UpdateStatus(ctx context.Context, bookingID, status string) error {
	return u.clk.Sleep(ctx, u.delay)
}

// Service is the booking query engine: it derives pages from the store and
// executes status-change commands through the updater collaborator.
type Service struct {
	store    *Store
	updater  StatusUpdater
	bus      *events.EventBus
	clk      clock.Clock
	logger   *zerolog.Logger
	pageSize int

	searchMu   sync.RWMutex
	searchTerm string
	searcher   *Searcher
}

func NewService(store *Store, updater StatusUpdater, bus *events.EventBus, clk clock.Clock, logger *zerolog.Logger, pageSize int) *Service {
	if pageSize <= 0 {
		pageSize = models.DefaultPageSize
	}
	return &Service{
		store:    store,
		updater:  updater,
		bus:      bus,
		clk:      clk,
		logger:   logger,
		pageSize: pageSize,
	}
}

// EnableSearch attaches a debounced searcher so typed input settles for the
// quiet period and passes the simulated lookup before it replaces the active
// filters on listings.
func (s *Service) EnableSearch(quiet, latency time.Duration) {
	s.searcher = NewSearcher(s.clk, quiet, latency, func(term string) {
		s.searchMu.Lock()
		s.searchTerm = term
		s.searchMu.Unlock()
	})
}

// Search records typed input. Without an attached searcher the term applies
// immediately.
func (s *Service) Search(term string) {
	if s.searcher == nil {
		s.searchMu.Lock()
		s.searchTerm = strings.TrimSpace(term)
		s.searchMu.Unlock()
		return
	}
	s.searcher.Input(term)
}

// Searching reports whether a debounced lookup is in flight.
func (s *Service) Searching() bool {
	if s.searcher == nil {
		return false
	}
	return s.searcher.Searching()
}

// SearchTerm is the term currently applied to listings.
func (s *Service) SearchTerm() string {
	s.searchMu.RLock()
	defer s.searchMu.RUnlock()
	return s.searchTerm
}

// List derives the visible page for the query, evaluating calendar-relative
// date predicates against the current moment. An empty query term falls back
// to the term applied through Search.
func (s *Service) List(q Query) Page {
	if q.PageSize <= 0 {
		q.PageSize = s.pageSize
	}
	if q.Search == "" {
		q.Search = s.SearchTerm()
	}
	return q.Apply(s.clk.Now(), s.store.Snapshot())
}

// Filtered returns the whole filtered, sorted set without pagination, for the
// export surface.
func (s *Service) Filtered(q Query) []models.Booking {
	q.Page = 1
	q.PageSize = 1 << 30
	return q.Apply(s.clk.Now(), s.store.Snapshot()).Bookings
}

// SetStatus confirms or cancels a booking: the collaborator is asked first,
// and only after it resolves is the local update applied.
func (s *Service) SetStatus(ctx context.Context, bookingID, status string) (models.Booking, error) {
	if status != models.StatusConfirmed && status != models.StatusCancelled {
		return models.Booking{}, ErrInvalidStatus
	}

	if err := s.updater.UpdateStatus(ctx, bookingID, status); err != nil {
		return models.Booking{}, err
	}

	booking, err := s.store.SetStatus(bookingID, status)
	if err != nil {
		return models.Booking{}, err
	}

	metrics.IncStatusChange(status)

	eventType := events.EventBookingConfirmed
	if status == models.StatusCancelled {
		eventType = events.EventBookingCancelled
	}
	if err := s.bus.PublishJSON(eventType, events.BookingEventPayload{
		BookingID: booking.ID,
		UserName:  booking.UserName,
		UserEmail: booking.UserEmail,
		Service:   booking.Service,
		Date:      booking.Date,
		Time:      booking.Time,
		Status:    booking.Status,
	}); err != nil {
		s.logger.Error().Err(err).Str("booking_id", bookingID).Msg("publish event error")
	}

	s.logger.Info().Str("booking_id", bookingID).Str("status", status).Msg("booking status updated")
	return booking, nil
}

func (s *Service) Get(id string) (models.Booking, error) {
	return s.store.Get(id)
}

func (s *Service) Stats() models.BookingStats {
	return s.store.Stats()
}

// PageSize is the configured default page size.
func (s *Service) PageSize() int { return s.pageSize }
