package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMockAdvanceFiresTimersInOrder(t *testing.T) {
	start := time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)
	mock := NewMock(start)

	var fired []string
	mock.AfterFunc(200*time.Millisecond, func() { fired = append(fired, "second") })
	mock.AfterFunc(100*time.Millisecond, func() { fired = append(fired, "first") })

	mock.Advance(50 * time.Millisecond)
	assert.Empty(t, fired)

	mock.Advance(200 * time.Millisecond)
	assert.Equal(t, []string{"first", "second"}, fired)
	assert.Equal(t, start.Add(250*time.Millisecond), mock.Now())
}

func TestMockTimerStop(t *testing.T) {
	mock := NewMock(time.Now())

	var fired bool
	timer := mock.AfterFunc(100*time.Millisecond, func() { fired = true })
	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())

	mock.Advance(time.Second)
	assert.False(t, fired)
}

func TestMockTimerReset(t *testing.T) {
	mock := NewMock(time.Now())

	var fired int
	timer := mock.AfterFunc(100*time.Millisecond, func() { fired++ })

	mock.Advance(50 * time.Millisecond)
	timer.Reset(100 * time.Millisecond)

	mock.Advance(99 * time.Millisecond)
	assert.Equal(t, 0, fired)

	mock.Advance(time.Millisecond)
	assert.Equal(t, 1, fired)
}

func TestMockChainedTimers(t *testing.T) {
	mock := NewMock(time.Now())

	var fired []string
	mock.AfterFunc(100*time.Millisecond, func() {
		fired = append(fired, "outer")
		mock.AfterFunc(100*time.Millisecond, func() { fired = append(fired, "inner") })
	})

	// A timer scheduled by a firing callback fires too when it falls inside
	// the advanced window.
	mock.Advance(200 * time.Millisecond)
	assert.Equal(t, []string{"outer", "inner"}, fired)
}
