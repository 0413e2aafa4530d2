package models

import "time"

type Booking struct {
	ID        int       `json:"id"`
	UserID    string    `json:"user_id"`
	EventID   int       `json:"event_id"`
	CreatedAt time.Time `json:"created_at"`

	// Event is populated by queries that join the event row.
	Event *Event `json:"event,omitempty"`
}

type WaitlistEntry struct {
	ID        int       `json:"id"`
	UserID    string    `json:"user_id"`
	EventID   int       `json:"event_id"`
	CreatedAt time.Time `json:"created_at"`
}
