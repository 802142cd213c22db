package models

import "fmt"

// FullDayMarker is the slot sentinel meaning the whole day is blocked.
const FullDayMarker = "full-day"

// FullDayLabel is the display value stored in the Time field for full-day blocks.
const FullDayLabel = "Full Day"

// DefaultBlockReason is used when the admin leaves the reason empty.
const DefaultBlockReason = "No reason provided"

// BlockedTime is an interval (a half-hour slot or a whole day) during which
// no bookings may be taken.
type BlockedTime struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Time      string `json:"time"` // HH:MM slot or FullDayLabel
	Reason    string `json:"reason"`
	IsFullDay bool   `json:"isFullDay"`
}

// BlockKey is the composite key a blocked time is stored under. Slot is either
// a HH:MM value or FullDayMarker, so blocking the same date/slot twice hits the
// same map entry.
type BlockKey struct {
	Date string
	Slot string
}

// Key returns the composite key for the entry.
func (b BlockedTime) Key() BlockKey {
	slot := b.Time
	if b.IsFullDay {
		slot = FullDayMarker
	}
	return BlockKey{Date: b.Date, Slot: slot}
}

// BlockID derives the external identifier for a (date, slot) pair.
func BlockID(key BlockKey) string {
	return fmt.Sprintf("%s-%s", key.Date, key.Slot)
}
