package gallery

import (
	"context"
	"errors"
	"sync"
	"time"

	"braidzworld/internal/clock"
	"braidzworld/internal/models"

	"github.com/google/uuid"
)

// ErrNotFound is returned when removing an unknown image id.
var ErrNotFound = errors.New("gallery image not found")

// Service manages the salon gallery. Uploads are simulated: no file leaves
// the process, only the entry is recorded after an artificial delay.
type Service struct {
	mu          sync.RWMutex
	images      []models.GalleryImage
	clk         clock.Clock
	uploadDelay time.Duration
}

func NewService(clk clock.Clock, uploadDelay time.Duration, seed []models.GalleryImage) *Service {
	images := make([]models.GalleryImage, 0, len(seed))
	for _, img := range seed {
		if img.ID == "" {
			img.ID = uuid.NewString()
		}
		images = append(images, img)
	}
	return &Service{images: images, clk: clk, uploadDelay: uploadDelay}
}

func (s *Service) List() []models.GalleryImage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.GalleryImage(nil), s.images...)
}

// Upload records a new image entry after the simulated transfer delay.
func (s *Service) Upload(ctx context.Context, url, caption string) (models.GalleryImage, error) {
	if err := s.clk.Sleep(ctx, s.uploadDelay); err != nil {
		return models.GalleryImage{}, err
	}

	img := models.GalleryImage{ID: uuid.NewString(), URL: url, Caption: caption}
	s.mu.Lock()
	s.images = append(s.images, img)
	s.mu.Unlock()
	return img, nil
}

func (s *Service) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.images {
		if s.images[i].ID == id {
			s.images = append(s.images[:i], s.images[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// DefaultImages is the seeded salon gallery.
func DefaultImages() []models.GalleryImage {
	captions := []struct{ url, caption string }{
		{"/img/gal1.jpg", "Elegant Updo"},
		{"/img/gal2.jpg", "Natural Hair Styling"},
		{"/img/gal3.jpg", "Color Transformation"},
		{"/img/gal4.jpg", "Bridal Hairstyle"},
		{"/img/gal5.jpg", "Curly Hair Treatment"},
		{"/img/gal6.jpg", "Haircut and Styling"},
		{"/img/gal7.jpg", "Hair Coloring"},
		{"/img/twists.png", "Twists Hairstyle"},
		{"/img/short-knotless-braids.png", "Short Knotless Braids"},
		{"/img/sen-twists.png", "Senegalese Twists"},
		{"/img/knotless-braids.png", "Knotless Braids"},
		{"/img/invicible-locs.png", "Invisible Locs"},
		{"/img/fulani-braids.png", "Fulani Braids"},
		{"/img/fake-locs.png", "Fake Locs"},
		{"/img/cornrows.png", "Cornrows"},
	}
	out := make([]models.GalleryImage, 0, len(captions))
	for _, c := range captions {
		out = append(out, models.GalleryImage{URL: c.url, Caption: c.caption})
	}
	return out
}
