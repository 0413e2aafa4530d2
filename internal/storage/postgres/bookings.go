package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"evently/internal/models"
	"evently/internal/storage"
)

// CreateBooking books one seat. The event row is locked with
// SELECT ... FOR UPDATE for the whole check-then-write, so two bookings
// racing for the last seat serialize: exactly one commits, the other sees
// the incremented counter and fails with ErrEventFull. The unique index on
// (user_id, event_id) backstops duplicate submissions inside the same
// window.
func (s *Storage) CreateBooking(ctx context.Context, userID string, eventID int) (*models.Booking, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var status models.EventStatus
	var capacity, sold int
	err = tx.QueryRowContext(ctx, `
		SELECT status, capacity, tickets_sold
		FROM events
		WHERE id = $1
		FOR UPDATE`, eventID,
	).Scan(&status, &capacity, &sold)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to lock event row: %w", err)
	}

	if status != models.StatusPublished {
		return nil, storage.ErrEventNotPublished
	}
	if sold >= capacity {
		return nil, storage.ErrEventFull
	}

	booking := &models.Booking{UserID: userID, EventID: eventID}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO bookings (user_id, event_id)
		VALUES ($1, $2)
		RETURNING id, created_at`, userID, eventID,
	).Scan(&booking.ID, &booking.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, storage.ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE events SET tickets_sold = tickets_sold + 1 WHERE id = $1`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to increment tickets_sold: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return booking, nil
}

// CancelBooking deletes a booking and decrements the sold counter in one
// transaction. Only the booking owner may cancel. Returns the event id so
// the caller can run its seat-freed policy after commit.
func (s *Storage) CancelBooking(ctx context.Context, userID string, bookingID int) (int, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var ownerID string
	var eventID int
	err = tx.QueryRowContext(ctx, `
		SELECT user_id, event_id
		FROM bookings
		WHERE id = $1
		FOR UPDATE`, bookingID,
	).Scan(&ownerID, &eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, storage.ErrBookingNotFound
		}
		return 0, fmt.Errorf("failed to lock booking row: %w", err)
	}

	if ownerID != userID {
		return 0, storage.ErrNotOwner
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, bookingID); err != nil {
		return 0, fmt.Errorf("failed to delete booking: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE events SET tickets_sold = tickets_sold - 1 WHERE id = $1`, eventID)
	if err != nil {
		return 0, fmt.Errorf("failed to decrement tickets_sold: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return eventID, nil
}

// BookingsByUser lists a user's bookings with their events, soonest first.
func (s *Storage) BookingsByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	query := `
		SELECT b.id, b.user_id, b.event_id, b.created_at, ` + prefixedEventColumns("e") + `
		FROM bookings b
		JOIN events e ON e.id = b.event_id
		WHERE b.user_id = $1
		ORDER BY e.date ASC`

	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		var b models.Booking
		var e models.Event
		err := rows.Scan(
			&b.ID, &b.UserID, &b.EventID, &b.CreatedAt,
			&e.ID, &e.Name, &e.Date, &e.Location, &e.Price, &e.Description,
			&e.OrganizerName, &e.OrganizerID, &e.ImageURL, &e.Tags, &e.Capacity,
			&e.TicketsSold, &e.HypeCount, &e.Status, &e.IsFeatured,
			&e.IsAllDay, &e.StartTime, &e.EndTime, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		b.Event = &e
		bookings = append(bookings, b)
	}

	return bookings, rows.Err()
}

// JoinWaitlist admits a user to the waitlist of a sold-out event. The event
// row is locked so the fullness check cannot race a concurrent cancel.
func (s *Storage) JoinWaitlist(ctx context.Context, userID string, eventID int) (*models.WaitlistEntry, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var capacity, sold int
	err = tx.QueryRowContext(ctx, `
		SELECT capacity, tickets_sold
		FROM events
		WHERE id = $1
		FOR UPDATE`, eventID,
	).Scan(&capacity, &sold)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to lock event row: %w", err)
	}

	if sold < capacity {
		return nil, storage.ErrEventNotFull
	}

	entry := &models.WaitlistEntry{UserID: userID, EventID: eventID}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO waitlist_entries (user_id, event_id)
		VALUES ($1, $2)
		RETURNING id, created_at`, userID, eventID,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, storage.ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to create waitlist entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return entry, nil
}

func (s *Storage) WaitlistByUser(ctx context.Context, userID string) ([]models.WaitlistEntry, error) {
	query := `
		SELECT id, user_id, event_id, created_at
		FROM waitlist_entries
		WHERE user_id = $1
		ORDER BY created_at ASC`

	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list waitlist entries: %w", err)
	}
	defer rows.Close()

	var entries []models.WaitlistEntry
	for rows.Next() {
		var w models.WaitlistEntry
		if err := rows.Scan(&w.ID, &w.UserID, &w.EventID, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan waitlist entry: %w", err)
		}
		entries = append(entries, w)
	}

	return entries, rows.Err()
}
