package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"evently/internal/models"
	"evently/internal/storage"
)

const eventColumns = `id, name, date, location, price, description, organizer_name, organizer_id,
	image_url, tags, capacity, tickets_sold, hype_count, status, is_featured,
	is_all_day, start_time, end_time, created_at`

func scanEvent(row interface{ Scan(...any) error }) (*models.Event, error) {
	var e models.Event
	err := row.Scan(
		&e.ID, &e.Name, &e.Date, &e.Location, &e.Price, &e.Description,
		&e.OrganizerName, &e.OrganizerID, &e.ImageURL, &e.Tags, &e.Capacity,
		&e.TicketsSold, &e.HypeCount, &e.Status, &e.IsFeatured,
		&e.IsAllDay, &e.StartTime, &e.EndTime, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Storage) queryEvents(ctx context.Context, query string, args ...any) ([]models.Event, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, *e)
	}

	return events, rows.Err()
}

// CreateEvent inserts a new event. The caller decides the initial status:
// organizers start in DRAFT, admins go straight to PUBLISHED.
func (s *Storage) CreateEvent(ctx context.Context, e *models.Event) (int, error) {
	query := `
		INSERT INTO events (name, date, location, price, description, organizer_name,
			organizer_id, image_url, tags, capacity, status, is_featured,
			is_all_day, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at`

	err := s.DB.QueryRowContext(ctx, query,
		e.Name, e.Date, e.Location, e.Price, e.Description, e.OrganizerName,
		e.OrganizerID, e.ImageURL, e.Tags, e.Capacity, e.Status, e.IsFeatured,
		e.IsAllDay, e.StartTime, e.EndTime,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to create event: %w", err)
	}

	return e.ID, nil
}

// UpdateEvent replaces every mutable field of an event, including status.
// Lifecycle guards belong to the caller: organizers are checked before this
// is reached, admins bypass them.
func (s *Storage) UpdateEvent(ctx context.Context, e *models.Event) error {
	query := `
		UPDATE events
		SET name = $2, date = $3, location = $4, price = $5, description = $6,
			organizer_name = $7, image_url = $8, tags = $9, capacity = $10,
			status = $11, is_featured = $12, is_all_day = $13, start_time = $14,
			end_time = $15
		WHERE id = $1`

	res, err := s.DB.ExecContext(ctx, query,
		e.ID, e.Name, e.Date, e.Location, e.Price, e.Description,
		e.OrganizerName, e.ImageURL, e.Tags, e.Capacity,
		e.Status, e.IsFeatured, e.IsAllDay, e.StartTime, e.EndTime,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrEventNotFound
	}

	return nil
}

// UpdateEventStatus sets the lifecycle status unconditionally. Used by
// submit, approve and reject.
func (s *Storage) UpdateEventStatus(ctx context.Context, id int, status models.EventStatus) (*models.Event, error) {
	query := `UPDATE events SET status = $2 WHERE id = $1 RETURNING ` + eventColumns

	e, err := scanEvent(s.DB.QueryRowContext(ctx, query, id, status))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to update event status: %w", err)
	}

	return e, nil
}

// GetEvent returns an event regardless of status (organizer/admin reads).
func (s *Storage) GetEvent(ctx context.Context, id int) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	e, err := scanEvent(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return e, nil
}

// GetPublishedEvent returns an event only if it is PUBLISHED (public reads).
func (s *Storage) GetPublishedEvent(ctx context.Context, id int) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 AND status = $2`

	e, err := scanEvent(s.DB.QueryRowContext(ctx, query, id, models.StatusPublished))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return e, nil
}

// UpcomingEvents lists published future events, featured ones first.
func (s *Storage) UpcomingEvents(ctx context.Context, limit int) ([]models.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE date >= NOW() AND status = $1
		ORDER BY is_featured DESC, date ASC
		LIMIT $2`

	return s.queryEvents(ctx, query, models.StatusPublished, limit)
}

func (s *Storage) PastEvents(ctx context.Context) ([]models.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE date < NOW() AND status = $1
		ORDER BY date DESC`

	return s.queryEvents(ctx, query, models.StatusPublished)
}

// TrendingEvents ranks published future events by hype count.
func (s *Storage) TrendingEvents(ctx context.Context, limit int) ([]models.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE date >= NOW() AND status = $1
		ORDER BY hype_count DESC
		LIMIT $2`

	return s.queryEvents(ctx, query, models.StatusPublished, limit)
}

// SellableEvents fetches published future events with a positive capacity,
// in date order. The best-selling ranking by sold ratio happens in the
// handler so ties keep this stable fetch order.
func (s *Storage) SellableEvents(ctx context.Context) ([]models.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE date >= NOW() AND status = $1 AND capacity > 0
		ORDER BY date ASC`

	return s.queryEvents(ctx, query, models.StatusPublished)
}

// SearchEvents does a case-insensitive substring match over name,
// description, location and tags of published events.
func (s *Storage) SearchEvents(ctx context.Context, q string, limit int) ([]models.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE status = $1 AND (
			name ILIKE '%' || $2 || '%' OR
			description ILIKE '%' || $2 || '%' OR
			location ILIKE '%' || $2 || '%' OR
			tags ILIKE '%' || $2 || '%'
		)
		LIMIT $3`

	return s.queryEvents(ctx, query, models.StatusPublished, q, limit)
}

func (s *Storage) EventsByTag(ctx context.Context, tag string, limit int) ([]models.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE status = $1 AND tags ILIKE '%' || $2 || '%'
		ORDER BY date ASC
		LIMIT $3`

	return s.queryEvents(ctx, query, models.StatusPublished, tag, limit)
}

// TagCounts counts published events per tag label. Tags are stored as a
// comma-joined string, so the split happens here rather than in SQL.
func (s *Storage) TagCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT tags FROM events WHERE status = $1`, models.StatusPublished)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var tags string
		if err := rows.Scan(&tags); err != nil {
			return nil, fmt.Errorf("failed to scan tags: %w", err)
		}
		for _, t := range strings.Split(tags, ",") {
			if t = strings.TrimSpace(t); t != "" {
				counts[t]++
			}
		}
	}

	return counts, rows.Err()
}

// OrganizationEvents returns the published upcoming and past events of one
// organization, for the public organization page.
func (s *Storage) OrganizationEvents(ctx context.Context, organizationName string) (*storage.OrganizationEvents, error) {
	upcoming, err := s.queryEvents(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE organizer_name = $1 AND status = $2 AND date >= NOW()
		ORDER BY date ASC`, organizationName, models.StatusPublished)
	if err != nil {
		return nil, err
	}

	past, err := s.queryEvents(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE organizer_name = $1 AND status = $2 AND date < NOW()
		ORDER BY date DESC`, organizationName, models.StatusPublished)
	if err != nil {
		return nil, err
	}

	return &storage.OrganizationEvents{
		OrganizationName: organizationName,
		UpcomingEvents:   upcoming,
		PastEvents:       past,
	}, nil
}

// EventsByOrganizer lists all events owned by one organizer, any status.
func (s *Storage) EventsByOrganizer(ctx context.Context, organizerID string) ([]models.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE organizer_id = $1
		ORDER BY created_at DESC`

	return s.queryEvents(ctx, query, organizerID)
}

// AllEvents lists every event regardless of status (admin only).
func (s *Storage) AllEvents(ctx context.Context) ([]models.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		ORDER BY created_at DESC`

	return s.queryEvents(ctx, query)
}

// PendingApprovalEvents lists events waiting for an admin decision.
func (s *Storage) PendingApprovalEvents(ctx context.Context) ([]models.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE status = $1
		ORDER BY created_at ASC`

	return s.queryEvents(ctx, query, models.StatusPendingApproval)
}

// EventsBookedByUser lists the events behind a user's bookings, for the
// calendar view of regular users.
func (s *Storage) EventsBookedByUser(ctx context.Context, userID string) ([]models.Event, error) {
	query := `
		SELECT ` + prefixedEventColumns("e") + `
		FROM events e
		JOIN bookings b ON b.event_id = e.id
		WHERE b.user_id = $1
		ORDER BY e.date ASC`

	return s.queryEvents(ctx, query, userID)
}

// DeleteEvent removes an event and every dependent relation in one
// transaction: bookings, waitlist entries, change requests, hypes,
// watchlist rows, then the event itself.
func (s *Storage) DeleteEvent(ctx context.Context, id int) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, q := range []string{
		`DELETE FROM bookings WHERE event_id = $1`,
		`DELETE FROM waitlist_entries WHERE event_id = $1`,
		`DELETE FROM event_change_requests WHERE event_id = $1`,
		`DELETE FROM user_hypes WHERE event_id = $1`,
		`DELETE FROM watchlist_items WHERE event_id = $1`,
	} {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return fmt.Errorf("failed to delete event relations: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrEventNotFound
	}

	return tx.Commit()
}

func prefixedEventColumns(alias string) string {
	cols := strings.Split(eventColumns, ",")
	for i, c := range cols {
		cols[i] = alias + "." + strings.TrimSpace(c)
	}
	return strings.Join(cols, ", ")
}
