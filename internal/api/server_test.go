package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"braidzworld/internal/auth"
	"braidzworld/internal/availability"
	"braidzworld/internal/bookings"
	"braidzworld/internal/clock"
	"braidzworld/internal/config"
	"braidzworld/internal/events"
	"braidzworld/internal/gallery"
	"braidzworld/internal/models"
	"braidzworld/internal/news"
	"braidzworld/internal/storage"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAdminEmail    = "admin@example.com"
	testAdminPassword = "secret123"
)

var testServerNow = time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) *HTTPServer {
	t.Helper()
	srv, _ := newTestServerWithClock(t)
	return srv
}

func newTestServerWithClock(t *testing.T) (*HTTPServer, *clock.Mock) {
	t.Helper()

	logger := zerolog.New(io.Discard)
	mock := clock.NewMock(testServerNow)
	kv := storage.NewMemoryKV()
	bus := events.NewEventBus()

	cfg := &config.Config{}
	cfg.Server.Port = 0
	cfg.Exports.Path = t.TempDir()

	store := bookings.NewStore([]models.Booking{
		{ID: "booking-1", Date: "2025-03-12", Time: "09:00", Service: "Haircut", Status: models.StatusPending, UserName: "John Smith", UserEmail: "john.smith@example.com"},
		{ID: "booking-2", Date: "2025-03-14", Time: "10:30", Service: "Coloring", Status: models.StatusConfirmed, UserName: "Emma Johnson", UserEmail: "emma.j@example.com"},
		{ID: "booking-3", Date: "2025-03-20", Time: "14:00", Service: "Massage", Status: models.StatusCancelled, UserName: "Michael Brown", UserEmail: "michael.b@example.com"},
	})
	updater := bookings.NewSimulatedUpdater(mock, 500*time.Millisecond)
	bookingSvc := bookings.NewService(store, updater, bus, mock, &logger, models.DefaultPageSize)
	bookingSvc.EnableSearch(500*time.Millisecond, 300*time.Millisecond)

	availabilitySvc, err := availability.NewService(context.Background(), kv, mock, bus, &logger, availability.Options{})
	require.NoError(t, err)

	authSvc := auth.NewService(kv, mock, &logger, testAdminEmail, testAdminPassword, 24*time.Hour, time.Second)

	srv := NewHTTPServer(cfg, &logger, Services{
		Auth:         authSvc,
		Bookings:     bookingSvc,
		Availability: availabilitySvc,
		News:         news.NewService(mock, bus, nil),
		Gallery:      gallery.NewService(mock, 500*time.Millisecond, gallery.DefaultImages()),
		Clock:        mock,
	})
	return srv, mock
}

func doRequest(t *testing.T, srv *HTTPServer, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, srv *HTTPServer) string {
	t.Helper()
	rec := doRequest(t, srv, http.MethodPost, "/api/v1/auth/login", "",
		`{"email":"`+testAdminEmail+`","password":"`+testAdminPassword+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, "admin-1", resp.User.ID)
	return resp.Token
}

func TestLoginAndMe(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/auth/me", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var user models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "admin", user.Role)
}

func TestLoginRejected(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/auth/login", "",
		`{"email":"admin@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRoutesRequireSession(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/bookings", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/bookings", "bogus-token", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutInvalidatesSession(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/auth/logout", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/bookings", token, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListBookings(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/bookings?status=pending", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Bookings []models.Booking `json:"bookings"`
		Total    int              `json:"total"`
		Pages    []int            `json:"pages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, []int{1}, resp.Pages)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, "booking-1", resp.Bookings[0].ID)
}

func TestListBookingsSearchOverridesFilters(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)

	rec := doRequest(t, srv, http.MethodGet,
		"/api/v1/bookings?status=pending&date=today&search=michael", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Bookings []models.Booking `json:"bookings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, "booking-3", resp.Bookings[0].ID)
}

func TestBookingSearchFlow(t *testing.T) {
	srv, mock := newTestServerWithClock(t)
	token := login(t, srv)

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/bookings/search", token, `{"term":"emma"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	type listResp struct {
		Bookings  []models.Booking `json:"bookings"`
		Total     int              `json:"total"`
		Searching bool             `json:"searching"`
	}

	// Quiet period elapses; the lookup is in flight and the listing still
	// shows the unfiltered collection.
	mock.Advance(500 * time.Millisecond)
	rec = doRequest(t, srv, http.MethodGet, "/api/v1/bookings", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp listResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Searching)
	assert.Equal(t, 3, resp.Total)

	// Lookup resolves and the term takes over the listing.
	mock.Advance(300 * time.Millisecond)
	rec = doRequest(t, srv, http.MethodGet, "/api/v1/bookings", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp = listResp{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Searching)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, "booking-2", resp.Bookings[0].ID)

	// Clearing the input restores the full listing.
	rec = doRequest(t, srv, http.MethodPost, "/api/v1/bookings/search", token, `{"term":""}`)
	require.Equal(t, http.StatusOK, rec.Code)
	mock.Advance(500 * time.Millisecond)
	rec = doRequest(t, srv, http.MethodGet, "/api/v1/bookings", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp = listResp{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Searching)
	assert.Equal(t, 3, resp.Total)
}

func TestListBookingsRejectsBadParams(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/bookings?status=bogus", token, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/bookings?page=0", token, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetBookingStatus(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/bookings/booking-1/status", token,
		`{"status":"confirmed"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var booking models.Booking
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &booking))
	assert.Equal(t, models.StatusConfirmed, booking.Status)

	rec = doRequest(t, srv, http.MethodPost, "/api/v1/bookings/booking-1/status", token,
		`{"status":"pending"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, srv, http.MethodPost, "/api/v1/bookings/missing/status", token,
		`{"status":"confirmed"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBookingStats(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/bookings/stats", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats models.BookingStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Pending)
}

func TestCalendar(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/availability/calendar?month=2025-03", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Month string              `json:"month"`
		Cells []availability.Cell `json:"cells"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2025-03", resp.Month)
	assert.Len(t, resp.Cells, 42)

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/availability/calendar?month=March", token, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCalendarDefaultsToCurrentMonth(t *testing.T) {
	srv, _ := newTestServerWithClock(t)
	token := login(t, srv)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/availability/calendar", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Month string `json:"month"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, testServerNow.Format("2006-01"), resp.Month)
}

func TestBlockedTimesLifecycle(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/availability/blocked", token,
		`{"date":"2025-03-20","time":"14:00","reason":"Staff meeting"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var entry models.BlockedTime
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entry))
	assert.Equal(t, "2025-03-20-14:00", entry.ID)

	// Same slot again conflicts.
	rec = doRequest(t, srv, http.MethodPost, "/api/v1/availability/blocked", token,
		`{"date":"2025-03-20","time":"14:00"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Past dates are rejected.
	rec = doRequest(t, srv, http.MethodPost, "/api/v1/availability/blocked", token,
		`{"date":"2025-03-01","isFullDay":true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/availability/blocked", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		BlockedTimes []models.BlockedTime `json:"blocked_times"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list.BlockedTimes, 1)

	rec = doRequest(t, srv, http.MethodDelete, "/api/v1/availability/blocked/"+entry.ID, token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, srv, http.MethodDelete, "/api/v1/availability/blocked/"+entry.ID, token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSaveBlockedTimes(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/availability/save", token, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewsCRUD(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/news", token,
		`{"title":"Spring offer","content":"Discounts all month.","highlight":true}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var post models.NewsItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &post))

	rec = doRequest(t, srv, http.MethodPatch, "/api/v1/news/"+post.ID, token,
		`{"title":"Updated offer"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var updated models.NewsItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "Updated offer", updated.Title)
	assert.Equal(t, "Discounts all month.", updated.Content)

	rec = doRequest(t, srv, http.MethodDelete, "/api/v1/news/"+post.ID, token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, srv, http.MethodDelete, "/api/v1/news/"+post.ID, token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNewsRequiresTitle(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/news", token, `{"content":"no title"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGallery(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/gallery", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var list struct {
		Images []models.GalleryImage `json:"images"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Images, 15)

	rec = doRequest(t, srv, http.MethodPost, "/api/v1/gallery", token,
		`{"url":"/img/new.jpg","caption":"New style"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var img models.GalleryImage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &img))

	rec = doRequest(t, srv, http.MethodDelete, "/api/v1/gallery/"+img.ID, token, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)

	rec := doRequest(t, srv, http.MethodDelete, "/api/v1/bookings", token, "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/auth/login", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
