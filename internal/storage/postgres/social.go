package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"evently/internal/models"
	"evently/internal/storage"
)

// AddHype records a user's hype and bumps the event's denormalized counter
// in the same transaction. The counter is a cache over user_hypes rows; the
// two writes are never separately observable.
func (s *Storage) AddHype(ctx context.Context, userID string, eventID int) (*models.Event, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO user_hypes (user_id, event_id) VALUES ($1, $2)`, userID, eventID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, storage.ErrAlreadyExists
		}
		if isForeignKeyViolation(err) {
			return nil, storage.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to create hype: %w", err)
	}

	e, err := scanEvent(tx.QueryRowContext(ctx,
		`UPDATE events SET hype_count = hype_count + 1 WHERE id = $1 RETURNING `+eventColumns,
		eventID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to increment hype_count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return e, nil
}

// RemoveHype deletes the relation and decrements the counter atomically.
func (s *Storage) RemoveHype(ctx context.Context, userID string, eventID int) (*models.Event, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM user_hypes WHERE user_id = $1 AND event_id = $2`, userID, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete hype: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, storage.ErrHypeNotFound
	}

	e, err := scanEvent(tx.QueryRowContext(ctx,
		`UPDATE events SET hype_count = hype_count - 1 WHERE id = $1 RETURNING `+eventColumns,
		eventID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to decrement hype_count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return e, nil
}

func (s *Storage) HypesByUser(ctx context.Context, userID string) ([]models.Hype, error) {
	query := `
		SELECT user_id, event_id, created_at
		FROM user_hypes
		WHERE user_id = $1
		ORDER BY created_at ASC`

	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list hypes: %w", err)
	}
	defer rows.Close()

	var hypes []models.Hype
	for rows.Next() {
		var h models.Hype
		if err := rows.Scan(&h.UserID, &h.EventID, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan hype: %w", err)
		}
		hypes = append(hypes, h)
	}

	return hypes, rows.Err()
}

// AddWatchlistItem saves an event for later. No counter side effect.
func (s *Storage) AddWatchlistItem(ctx context.Context, userID string, eventID int) (*models.WatchlistItem, error) {
	item := &models.WatchlistItem{UserID: userID, EventID: eventID}
	err := s.DB.QueryRowContext(ctx, `
		INSERT INTO watchlist_items (user_id, event_id)
		VALUES ($1, $2)
		RETURNING created_at`, userID, eventID,
	).Scan(&item.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, storage.ErrAlreadyExists
		}
		if isForeignKeyViolation(err) {
			return nil, storage.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to create watchlist item: %w", err)
	}

	return item, nil
}

func (s *Storage) RemoveWatchlistItem(ctx context.Context, userID string, eventID int) error {
	res, err := s.DB.ExecContext(ctx,
		`DELETE FROM watchlist_items WHERE user_id = $1 AND event_id = $2`, userID, eventID)
	if err != nil {
		return fmt.Errorf("failed to delete watchlist item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrWatchNotFound
	}

	return nil
}

func (s *Storage) WatchlistByUser(ctx context.Context, userID string) ([]models.WatchlistItem, error) {
	query := `
		SELECT user_id, event_id, created_at
		FROM watchlist_items
		WHERE user_id = $1
		ORDER BY created_at ASC`

	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list watchlist: %w", err)
	}
	defer rows.Close()

	var items []models.WatchlistItem
	for rows.Next() {
		var w models.WatchlistItem
		if err := rows.Scan(&w.UserID, &w.EventID, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan watchlist item: %w", err)
		}
		items = append(items, w)
	}

	return items, rows.Err()
}

// RecommendedEvents suggests published future events sharing a tag with
// anything the user booked or hyped, excluding those events themselves.
func (s *Storage) RecommendedEvents(ctx context.Context, userID string, limit int) ([]models.Event, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT e.id, e.tags FROM events e JOIN bookings b ON b.event_id = e.id WHERE b.user_id = $1
		UNION
		SELECT e.id, e.tags FROM events e JOIN user_hypes h ON h.event_id = e.id WHERE h.user_id = $1`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tag profile: %w", err)
	}
	defer rows.Close()

	seen := make(map[int]struct{})
	tagSet := make(map[string]struct{})
	for rows.Next() {
		var id int
		var tags string
		if err := rows.Scan(&id, &tags); err != nil {
			return nil, fmt.Errorf("failed to scan tag profile: %w", err)
		}
		seen[id] = struct{}{}
		e := models.Event{Tags: tags}
		for _, t := range e.TagList() {
			tagSet[t] = struct{}{}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(tagSet) == 0 {
		return nil, nil
	}

	candidates, err := s.queryEvents(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE status = $1 AND date >= NOW()
		ORDER BY date ASC`, models.StatusPublished)
	if err != nil {
		return nil, err
	}

	var recs []models.Event
	for _, e := range candidates {
		if _, booked := seen[e.ID]; booked {
			continue
		}
		for _, t := range e.TagList() {
			if _, ok := tagSet[t]; ok {
				recs = append(recs, e)
				break
			}
		}
		if len(recs) == limit {
			break
		}
	}

	return recs, nil
}
