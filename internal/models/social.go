package models

import "time"

// Hype is a per-user like relation; the event keeps a denormalized count.
type Hype struct {
	UserID    string    `json:"user_id"`
	EventID   int       `json:"event_id"`
	CreatedAt time.Time `json:"created_at"`

	Event *Event `json:"event,omitempty"`
}

// WatchlistItem is a plain save-for-later relation with no counter.
type WatchlistItem struct {
	UserID    string    `json:"user_id"`
	EventID   int       `json:"event_id"`
	CreatedAt time.Time `json:"created_at"`
}
