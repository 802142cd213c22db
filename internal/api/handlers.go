package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"braidzworld/internal/auth"
	"braidzworld/internal/availability"
	"braidzworld/internal/bookings"
	"braidzworld/internal/export"
	"braidzworld/internal/gallery"
	"braidzworld/internal/models"
	"braidzworld/internal/news"
)

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	session, err := s.auth.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token": session.Token,
		"user":  session.User,
	})
}

func (s *HTTPServer) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := s.auth.Logout(r.Context(), bearerToken(r)); err != nil {
		writeError(w, http.StatusInternalServerError, "logout failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	user, ok := r.Context().Value(userContextKey{}).(models.User)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authorization required")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *HTTPServer) handleBookings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q, err := parseBookingQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	page := s.bookings.List(q)
	writeJSON(w, http.StatusOK, map[string]any{
		"bookings":    page.Bookings,
		"total":       page.Total,
		"page":        page.Page,
		"page_size":   page.PageSize,
		"total_pages": page.TotalPages,
		"pages":       bookings.PageNumbers(page.Page, page.TotalPages),
		"searching":   s.bookings.Searching(),
	})
}

// handleBookingSearch feeds typed input into the debounced search. The term
// replaces the listing filters once it has settled.
func (s *HTTPServer) handleBookingSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body struct {
		Term string `json:"term"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.bookings.Search(body.Term)
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"searching": s.bookings.Searching(),
	})
}

func parseBookingQuery(r *http.Request) (bookings.Query, error) {
	var q bookings.Query
	var err error

	params := r.URL.Query()
	if q.Status, err = bookings.ParseStatusFilter(params.Get("status")); err != nil {
		return q, err
	}
	if q.Date, err = bookings.ParseDateFilter(params.Get("date")); err != nil {
		return q, err
	}
	if q.SortBy, err = bookings.ParseSortField(params.Get("sort_by")); err != nil {
		return q, err
	}
	if q.Order, err = bookings.ParseSortOrder(params.Get("sort_order")); err != nil {
		return q, err
	}
	q.Search = params.Get("search")
	if raw := params.Get("page"); raw != "" {
		q.Page, err = strconv.Atoi(raw)
		if err != nil || q.Page < 1 {
			return q, errors.New("page must be a positive integer")
		}
	}
	return q, nil
}

func (s *HTTPServer) handleBookingStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, s.bookings.Stats())
}

func (s *HTTPServer) handleBookingExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q, err := parseBookingQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows := s.bookings.Filtered(q)
	filePath, err := export.Excel(rows, s.cfg.Exports.Path, s.clock.Now())
	if err != nil {
		s.logger.Error().Err(err).Msg("export error")
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"file": filePath, "count": len(rows)})
}

// handleBookingStatus serves POST /api/v1/bookings/{id}/status.
func (s *HTTPServer) handleBookingStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/bookings/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] != "status" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	bookingID := parts[0]

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	booking, err := s.bookings.SetStatus(r.Context(), bookingID, body.Status)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidStatus):
			writeError(w, http.StatusBadRequest, "status must be confirmed or cancelled")
		case errors.Is(err, bookings.ErrNotFound):
			writeError(w, http.StatusNotFound, "booking not found")
		default:
			writeError(w, http.StatusInternalServerError, "status update failed")
		}
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleCalendar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	monthStr := strings.TrimSpace(r.URL.Query().Get("month"))
	ref := s.clock.Now()
	if monthStr != "" {
		parsed, err := time.Parse("2006-01", monthStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid month format; expected YYYY-MM")
			return
		}
		ref = parsed
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"month": ref.Format("2006-01"),
		"cells": s.availability.Month(ref),
	})
}

func (s *HTTPServer) handleSlots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"slots": s.availability.Slots()})
}

func (s *HTTPServer) handleBlocked(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"blocked_times": s.availability.List()})
	case http.MethodPost:
		var body struct {
			Date      string `json:"date"`
			IsFullDay bool   `json:"isFullDay"`
			Time      string `json:"time"`
			Reason    string `json:"reason"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		entry, err := s.availability.Block(r.Context(), body.Date, availability.BlockRequest{
			IsFullDay: body.IsFullDay,
			Slot:      body.Time,
			Reason:    body.Reason,
		})
		if err != nil {
			writeError(w, blockErrorStatus(err), err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, entry)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func blockErrorStatus(err error) int {
	switch {
	case errors.Is(err, availability.ErrSlotTaken):
		return http.StatusConflict
	case errors.Is(err, availability.ErrInvalidDate),
		errors.Is(err, availability.ErrPastDate),
		errors.Is(err, availability.ErrSlotRequired),
		errors.Is(err, availability.ErrInvalidSlot):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// handleUnblock serves DELETE /api/v1/availability/blocked/{id}.
func (s *HTTPServer) handleUnblock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/v1/availability/blocked/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "block id is required")
		return
	}

	if err := s.availability.Unblock(r.Context(), id); err != nil {
		if errors.Is(err, availability.ErrNotFound) {
			writeError(w, http.StatusNotFound, "blocked time not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "unblock failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) handleSave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := s.availability.Save(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "save failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (s *HTTPServer) handleNews(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"news": s.news.List()})
	case http.MethodPost:
		var body struct {
			Title     string `json:"title"`
			Content   string `json:"content"`
			Highlight bool   `json:"highlight"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if strings.TrimSpace(body.Title) == "" {
			writeError(w, http.StatusBadRequest, "title is required")
			return
		}
		item := s.news.Create(body.Title, body.Content, body.Highlight)
		writeJSON(w, http.StatusCreated, item)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleNewsItem serves PATCH and DELETE on /api/v1/news/{id}.
func (s *HTTPServer) handleNewsItem(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/news/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "news id is required")
		return
	}

	switch r.Method {
	case http.MethodPatch, http.MethodPut:
		var body struct {
			Title     *string `json:"title"`
			Content   *string `json:"content"`
			Highlight *bool   `json:"highlight"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		item, err := s.news.Update(id, body.Title, body.Content, body.Highlight)
		if err != nil {
			if errors.Is(err, news.ErrNotFound) {
				writeError(w, http.StatusNotFound, "news item not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "update failed")
			return
		}
		writeJSON(w, http.StatusOK, item)
	case http.MethodDelete:
		if err := s.news.Delete(id); err != nil {
			if errors.Is(err, news.ErrNotFound) {
				writeError(w, http.StatusNotFound, "news item not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "delete failed")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleGallery(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"images": s.gallery.List()})
	case http.MethodPost:
		var body struct {
			URL     string `json:"url"`
			Caption string `json:"caption"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if strings.TrimSpace(body.URL) == "" {
			writeError(w, http.StatusBadRequest, "url is required")
			return
		}
		image, err := s.gallery.Upload(r.Context(), body.URL, body.Caption)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "upload failed")
			return
		}
		writeJSON(w, http.StatusCreated, image)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleGalleryItem serves DELETE /api/v1/gallery/{id}.
func (s *HTTPServer) handleGalleryItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/v1/gallery/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "image id is required")
		return
	}

	if err := s.gallery.Remove(id); err != nil {
		if errors.Is(err, gallery.ErrNotFound) {
			writeError(w, http.StatusNotFound, "image not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "delete failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
