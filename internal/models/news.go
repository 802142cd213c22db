package models

import "time"

// NewsItem is a post shown on the public site, managed from the dashboard.
type NewsItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Highlight bool      `json:"highlight"`
	CreatedAt time.Time `json:"created_at"`
}

// GalleryImage is an entry of the salon gallery.
type GalleryImage struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	Caption string `json:"caption"`
}
