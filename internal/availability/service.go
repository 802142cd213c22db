package availability

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"braidzworld/internal/clock"
	"braidzworld/internal/events"
	"braidzworld/internal/metrics"
	"braidzworld/internal/models"
	"braidzworld/internal/storage"

	"github.com/rs/zerolog"
)

// StorageKey is the fixed namespace the whole blocked-time collection is
// serialized under.
const StorageKey = "blocked_times"

// Options tunes the working window and the advisory-save latency.
type Options struct {
	DayStart    string
	DayEnd      string
	SlotMinutes int
	SaveDelay   time.Duration
}

// Service owns the blocked-time collection. Entries live in a map keyed by
// the (date, slot-or-full-day) tuple, which makes the overwrite semantics of
// repeated blocks explicit; the derived string id stays the external handle.
// Every mutation rewrites the collection to the KV store.
type Service struct {
	mu      sync.RWMutex
	entries map[models.BlockKey]models.BlockedTime

	kv        storage.KV
	clk       clock.Clock
	bus       *events.EventBus
	logger    *zerolog.Logger
	slots     []string
	slotSet   map[string]bool
	saveDelay time.Duration
}

// NewService builds the calendar service and loads the persisted collection.
// An absent key or a parse failure leaves the collection empty; the parse
// failure is logged, not fatal.
func NewService(ctx context.Context, kv storage.KV, clk clock.Clock, bus *events.EventBus, logger *zerolog.Logger, opts Options) (*Service, error) {
	if opts.DayStart == "" {
		opts.DayStart = models.DayStart
	}
	if opts.DayEnd == "" {
		opts.DayEnd = models.DayEnd
	}
	if opts.SlotMinutes == 0 {
		opts.SlotMinutes = models.SlotMinutes
	}

	slots, err := BuildSlots(opts.DayStart, opts.DayEnd, opts.SlotMinutes)
	if err != nil {
		return nil, err
	}
	slotSet := make(map[string]bool, len(slots))
	for _, s := range slots {
		slotSet[s] = true
	}

	s := &Service{
		entries:   make(map[models.BlockKey]models.BlockedTime),
		kv:        kv,
		clk:       clk,
		bus:       bus,
		logger:    logger,
		slots:     slots,
		slotSet:   slotSet,
		saveDelay: opts.SaveDelay,
	}
	s.load(ctx)
	metrics.SetBlockedTimes(len(s.entries))
	return s, nil
}

func (s *Service) load(ctx context.Context) {
	raw, err := s.kv.Get(ctx, StorageKey)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("read blocked times")
		return
	}

	var stored []models.BlockedTime
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		s.logger.Error().Err(err).Msg("parse saved blocked times")
		return
	}
	for _, entry := range stored {
		s.entries[entry.Key()] = entry
	}
}

// Slots returns the selectable time slots of a working day.
func (s *Service) Slots() []string {
	out := make([]string, len(s.slots))
	copy(out, s.slots)
	return out
}

// BlockRequest carries the scratch state of the block-entry flow.
type BlockRequest struct {
	IsFullDay bool
	Slot      string
	Reason    string
}

// Block adds a blocked time for the date. Past dates are rejected; a slot
// block requires a valid slot that is not already blocked for the date.
// Blocking the same (date, slot) twice overwrites the existing entry.
func (s *Service) Block(ctx context.Context, date string, req BlockRequest) (models.BlockedTime, error) {
	if err := s.checkDate(date); err != nil {
		return models.BlockedTime{}, err
	}

	if !req.IsFullDay {
		if req.Slot == "" {
			return models.BlockedTime{}, ErrSlotRequired
		}
		if !s.slotSet[req.Slot] {
			return models.BlockedTime{}, ErrInvalidSlot
		}
		if s.IsSlotBlocked(date, req.Slot) {
			return models.BlockedTime{}, ErrSlotTaken
		}
	}

	reason := req.Reason
	if reason == "" {
		reason = models.DefaultBlockReason
	}

	entry := models.BlockedTime{
		Date:      date,
		Time:      req.Slot,
		Reason:    reason,
		IsFullDay: req.IsFullDay,
	}
	if req.IsFullDay {
		entry.Time = models.FullDayLabel
	}
	entry.ID = models.BlockID(entry.Key())

	s.mu.Lock()
	s.entries[entry.Key()] = entry
	count := len(s.entries)
	s.mu.Unlock()

	if err := s.persist(ctx); err != nil {
		s.logger.Error().Err(err).Str("block_id", entry.ID).Msg("persist blocked times")
	}
	metrics.SetBlockedTimes(count)

	_ = s.bus.PublishJSON(events.EventTimeBlocked, events.BlockedTimeEventPayload{
		BlockID:   entry.ID,
		Date:      entry.Date,
		Time:      entry.Time,
		Reason:    entry.Reason,
		IsFullDay: entry.IsFullDay,
	})
	s.logger.Info().Str("block_id", entry.ID).Msg("time blocked")
	return entry, nil
}

// Unblock removes the entry with the given id.
func (s *Service) Unblock(ctx context.Context, id string) error {
	s.mu.Lock()
	var found *models.BlockedTime
	for key, entry := range s.entries {
		if entry.ID == id {
			e := entry
			found = &e
			delete(s.entries, key)
			break
		}
	}
	count := len(s.entries)
	s.mu.Unlock()

	if found == nil {
		return ErrNotFound
	}

	if err := s.persist(ctx); err != nil {
		s.logger.Error().Err(err).Str("block_id", id).Msg("persist blocked times")
	}
	metrics.SetBlockedTimes(count)

	_ = s.bus.PublishJSON(events.EventTimeUnblocked, events.BlockedTimeEventPayload{
		BlockID:   found.ID,
		Date:      found.Date,
		Time:      found.Time,
		IsFullDay: found.IsFullDay,
	})
	s.logger.Info().Str("block_id", id).Msg("time unblocked")
	return nil
}

// IsDateBlocked reports whether any entry exists for the date. A full-day
// entry subsumes slot entries, but any entry at all marks the day blocked at
// the day level.
func (s *Service) IsDateBlocked(date string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for key := range s.entries {
		if key.Date == date {
			return true
		}
	}
	return false
}

// IsSlotBlocked reports whether that exact slot is blocked for the date.
func (s *Service) IsSlotBlocked(date, slot string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[models.BlockKey{Date: date, Slot: slot}]
	return ok
}

// List returns the collection ordered by date, full-day entries first within
// a date, then by slot.
func (s *Service) List() []models.BlockedTime {
	s.mu.RLock()
	out := make([]models.BlockedTime, 0, len(s.entries))
	for _, entry := range s.entries {
		out = append(out, entry)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		if out[i].IsFullDay != out[j].IsFullDay {
			return out[i].IsFullDay
		}
		return out[i].Time < out[j].Time
	})
	return out
}

// Month renders the 42-cell grid for the month containing ref.
func (s *Service) Month(ref time.Time) []Cell {
	return MonthGrid(ref, s.clk.Now(), s.IsDateBlocked)
}

// CheckSelectable validates a date for the block-entry flow: it must parse
// and must not fall strictly before today.
func (s *Service) CheckSelectable(date string) error {
	return s.checkDate(date)
}

// Save is the explicit commit action. Persistence already happened on each
// mutation, so this is advisory: it simulates the round-trip delay and
// rewrites the collection once more.
func (s *Service) Save(ctx context.Context) error {
	if err := s.clk.Sleep(ctx, s.saveDelay); err != nil {
		return err
	}
	return s.persist(ctx)
}

func (s *Service) checkDate(date string) error {
	now := s.clk.Now()
	parsed, err := time.ParseInLocation(dateLayout, date, now.Location())
	if err != nil {
		return ErrInvalidDate
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if parsed.Before(today) {
		return ErrPastDate
	}
	return nil
}

func (s *Service) persist(ctx context.Context) error {
	data, err := json.Marshal(s.List())
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, StorageKey, string(data), 0)
}
