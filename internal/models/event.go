package models

import (
	"fmt"
	"strings"
	"time"
)

// EventStatus is the closed set of lifecycle states an event moves through.
type EventStatus string

const (
	StatusDraft           EventStatus = "DRAFT"
	StatusPendingApproval EventStatus = "PENDING_APPROVAL"
	StatusPublished       EventStatus = "PUBLISHED"
	StatusRejected        EventStatus = "REJECTED"
)

// ParseEventStatus validates a raw status string against the closed set.
func ParseEventStatus(s string) (EventStatus, error) {
	switch EventStatus(s) {
	case StatusDraft, StatusPendingApproval, StatusPublished, StatusRejected:
		return EventStatus(s), nil
	}
	return "", fmt.Errorf("unknown event status %q", s)
}

// OrganizerEditable reports whether an organizer may still modify the event.
// Once submitted or published only admins can touch it.
func (s EventStatus) OrganizerEditable() bool {
	return s == StatusDraft || s == StatusRejected
}

type Event struct {
	ID            int         `json:"id"`
	Name          string      `json:"name"`
	Date          time.Time   `json:"date"`
	Location      string      `json:"location"`
	Price         float64     `json:"price"`
	Description   string      `json:"description"`
	OrganizerName string      `json:"organizer_name"`
	OrganizerID   *string     `json:"organizer_id,omitempty"`
	ImageURL      string      `json:"image_url,omitempty"`
	Tags          string      `json:"tags,omitempty"`
	Capacity      int         `json:"capacity"`
	TicketsSold   int         `json:"tickets_sold"`
	HypeCount     int         `json:"hype_count"`
	Status        EventStatus `json:"status"`
	IsFeatured    bool        `json:"is_featured"`
	IsAllDay      bool        `json:"is_all_day"`
	StartTime     *time.Time  `json:"start_time,omitempty"`
	EndTime       *time.Time  `json:"end_time,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
}

// IsFull reports whether every seat is sold.
func (e *Event) IsFull() bool {
	return e.TicketsSold >= e.Capacity
}

// SoldRatio is the fill rate used by the best-selling ranking.
func (e *Event) SoldRatio() float64 {
	if e.Capacity <= 0 {
		return 0
	}
	return float64(e.TicketsSold) / float64(e.Capacity)
}

// TagList splits the comma-joined tags column into trimmed labels.
func (e *Event) TagList() []string {
	if e.Tags == "" {
		return nil
	}
	parts := strings.Split(e.Tags, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
