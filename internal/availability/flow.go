package availability

import (
	"context"
	"sync"

	"braidzworld/internal/models"
)

// FlowState names the steps of a single block-creation flow.
type FlowState int

const (
	FlowIdle FlowState = iota
	FlowDateSelected
	FlowFullDay
	FlowSlotSelected
)

// Flow drives one block-creation dialog:
// Idle -> DateSelected -> (FullDay | SlotSelected) -> saved or cancelled -> Idle.
// Cancelling at any point discards the scratch state without touching the
// collection.
type Flow struct {
	mu  sync.Mutex
	svc *Service

	state  FlowState
	date   string
	slot   string
	reason string
}

func NewFlow(svc *Service) *Flow {
	return &Flow{svc: svc}
}

func (f *Flow) State() FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// SelectDate opens the flow for a date. Dates strictly before today are not
// selectable.
func (f *Flow) SelectDate(date string) error {
	if err := f.svc.CheckSelectable(date); err != nil {
		return err
	}
	f.mu.Lock()
	f.date = date
	f.slot = ""
	f.reason = ""
	f.state = FlowDateSelected
	f.mu.Unlock()
	return nil
}

// ChooseFullDay marks the whole day for blocking.
func (f *Flow) ChooseFullDay() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == FlowIdle {
		return ErrInvalidDate
	}
	f.slot = ""
	f.state = FlowFullDay
	return nil
}

// ChooseSlot picks a specific slot; slots already blocked for the selected
// date cannot be chosen.
func (f *Flow) ChooseSlot(slot string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == FlowIdle {
		return ErrSlotRequired
	}
	if !f.svc.slotSet[slot] {
		return ErrInvalidSlot
	}
	if f.svc.IsSlotBlocked(f.date, slot) {
		return ErrSlotTaken
	}
	f.slot = slot
	f.state = FlowSlotSelected
	return nil
}

// SetReason records the optional reason text.
func (f *Flow) SetReason(reason string) {
	f.mu.Lock()
	f.reason = reason
	f.mu.Unlock()
}

// Confirm commits the scratch state through the service and returns the flow
// to idle. The state requirements mirror the dialog: a full-day choice or a
// chosen slot.
func (f *Flow) Confirm(ctx context.Context) (models.BlockedTime, error) {
	f.mu.Lock()
	state, date, slot, reason := f.state, f.date, f.slot, f.reason
	f.mu.Unlock()

	switch state {
	case FlowFullDay, FlowSlotSelected:
	case FlowDateSelected:
		return models.BlockedTime{}, ErrSlotRequired
	default:
		return models.BlockedTime{}, ErrInvalidDate
	}

	entry, err := f.svc.Block(ctx, date, BlockRequest{
		IsFullDay: state == FlowFullDay,
		Slot:      slot,
		Reason:    reason,
	})
	if err != nil {
		return models.BlockedTime{}, err
	}

	f.Cancel()
	return entry, nil
}

// Cancel discards the scratch state and returns to idle.
func (f *Flow) Cancel() {
	f.mu.Lock()
	f.state = FlowIdle
	f.date = ""
	f.slot = ""
	f.reason = ""
	f.mu.Unlock()
}
