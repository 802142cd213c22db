package news

import (
	"testing"
	"time"

	"braidzworld/internal/clock"
	"braidzworld/internal/events"
	"braidzworld/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNews(t *testing.T, bus *events.EventBus) (*Service, *clock.Mock) {
	t.Helper()
	mock := clock.NewMock(time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC))
	return NewService(mock, bus, nil), mock
}

func TestCreatePrependsNewest(t *testing.T) {
	svc, mock := newTestNews(t, events.NewEventBus())

	first := svc.Create("Opening hours", "We open at nine.", false)
	mock.Set(mock.Now().Add(time.Hour))
	second := svc.Create("Spring offer", "Discounts all month.", true)

	list := svc.List()
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
	assert.True(t, list[0].CreatedAt.After(list[1].CreatedAt))
	assert.True(t, list[0].Highlight)
}

func TestCreatePublishesEvent(t *testing.T) {
	bus := events.NewEventBus()
	svc, _ := newTestNews(t, bus)

	var published int
	bus.Subscribe(events.EventNewsPublished, func(_ *events.Event) error {
		published++
		return nil
	})

	svc.Create("Title", "Content", false)
	assert.Equal(t, 1, published)
}

func TestUpdatePatchesNamedFields(t *testing.T) {
	svc, _ := newTestNews(t, events.NewEventBus())
	post := svc.Create("Old title", "Old content", false)

	newTitle := "New title"
	highlight := true
	updated, err := svc.Update(post.ID, &newTitle, nil, &highlight)
	require.NoError(t, err)
	assert.Equal(t, "New title", updated.Title)
	assert.Equal(t, "Old content", updated.Content)
	assert.True(t, updated.Highlight)

	_, err = svc.Update("missing", &newTitle, nil, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	svc, _ := newTestNews(t, events.NewEventBus())
	post := svc.Create("Title", "Content", false)

	require.NoError(t, svc.Delete(post.ID))
	assert.Empty(t, svc.List())
	assert.ErrorIs(t, svc.Delete(post.ID), ErrNotFound)
}

func TestListReturnsCopy(t *testing.T) {
	svc, _ := newTestNews(t, events.NewEventBus())
	svc.Create("Title", "Content", false)

	list := svc.List()
	list[0] = models.NewsItem{ID: "mangled"}
	assert.NotEqual(t, "mangled", svc.List()[0].ID)
}
