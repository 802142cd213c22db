package models

// Booking is a scheduled service appointment with a client.
// Date is an ISO date string (YYYY-MM-DD), Time a 24-hour HH:MM string.
type Booking struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Service   string `json:"service"`
	Duration  int    `json:"duration"` // hours, informational only
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
	Status    string `json:"status"` // pending, confirmed, cancelled
}

// BookingStats holds counts by status for the dashboard header.
type BookingStats struct {
	Total     int `json:"total_bookings"`
	Pending   int `json:"pending_bookings"`
	Confirmed int `json:"confirmed_bookings"`
	Cancelled int `json:"cancelled_bookings"`
}
