// Package storage defines the persistence contract shared by the postgres
// implementation and the HTTP handlers: sentinel errors and query result
// types. Handlers match on the sentinels with errors.Is to pick a status code.
package storage

import (
	"errors"

	"evently/internal/models"
)

var (
	ErrEventNotFound   = errors.New("event not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrRequestNotFound = errors.New("organizer request not found")
	ErrHypeNotFound    = errors.New("hype not found")
	ErrWatchNotFound   = errors.New("watchlist entry not found")

	// ErrAlreadyExists covers every duplicate (user, event) relation and is
	// raised off the unique-index violation, so a racing double submit still
	// fails distinguishably.
	ErrAlreadyExists = errors.New("already exists")

	ErrEventFull         = errors.New("event is sold out")
	ErrEventNotFull      = errors.New("event is not sold out")
	ErrEventNotPublished = errors.New("event is not published")
	ErrNotOwner          = errors.New("not the owner")
)

// DayCount is one bucket of a per-day aggregate.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Stats is the admin dashboard aggregate.
type Stats struct {
	TotalUsers            int                 `json:"total_users"`
	TotalEvents           int                 `json:"total_events"`
	TotalBookings         int                 `json:"total_bookings"`
	TotalRevenue          float64             `json:"total_revenue"`
	UserSignupsLast30Days []DayCount          `json:"user_signups_last_30_days"`
	BookingsLast30Days    []DayCount          `json:"bookings_last_30_days"`
	PopularEvents         []models.Event      `json:"popular_events"`
	UserRoleDistribution  map[models.Role]int `json:"user_role_distribution"`
}

// EventAnalytics is the per-event admin view.
type EventAnalytics struct {
	TotalBookings int `json:"total_bookings"`
	TotalWaitlist int `json:"total_waitlist"`
	HypeCount     int `json:"hype_count"`
}

// OrganizationEvents is the public organization page payload.
type OrganizationEvents struct {
	OrganizationName string         `json:"organization_name"`
	UpcomingEvents   []models.Event `json:"upcoming_events"`
	PastEvents       []models.Event `json:"past_events"`
}
