package news

import (
	"errors"
	"sync"

	"braidzworld/internal/clock"
	"braidzworld/internal/events"
	"braidzworld/internal/models"

	"github.com/google/uuid"
)

// ErrNotFound is returned for updates or deletes on an unknown post id.
var ErrNotFound = errors.New("news not found")

// Service manages the news posts shown on the public site. The collection is
// session-scoped, newest first.
type Service struct {
	mu    sync.RWMutex
	posts []models.NewsItem
	clk   clock.Clock
	bus   *events.EventBus
}

func NewService(clk clock.Clock, bus *events.EventBus, seed []models.NewsItem) *Service {
	return &Service{posts: append([]models.NewsItem(nil), seed...), clk: clk, bus: bus}
}

func (s *Service) List() []models.NewsItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.NewsItem(nil), s.posts...)
}

// Create prepends a new post.
func (s *Service) Create(title, content string, highlight bool) models.NewsItem {
	post := models.NewsItem{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		Highlight: highlight,
		CreatedAt: s.clk.Now(),
	}

	s.mu.Lock()
	s.posts = append([]models.NewsItem{post}, s.posts...)
	s.mu.Unlock()

	_ = s.bus.PublishJSON(events.EventNewsPublished, post)
	return post
}

// Update patches the named fields of a post.
func (s *Service) Update(id string, title, content *string, highlight *bool) (models.NewsItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.posts {
		if s.posts[i].ID != id {
			continue
		}
		if title != nil {
			s.posts[i].Title = *title
		}
		if content != nil {
			s.posts[i].Content = *content
		}
		if highlight != nil {
			s.posts[i].Highlight = *highlight
		}
		return s.posts[i], nil
	}
	return models.NewsItem{}, ErrNotFound
}

func (s *Service) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.posts {
		if s.posts[i].ID == id {
			s.posts = append(s.posts[:i], s.posts[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
