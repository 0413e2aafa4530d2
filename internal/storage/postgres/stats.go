package postgres

import (
	"context"
	"fmt"

	"evently/internal/models"
	"evently/internal/storage"
)

// Stats assembles the admin dashboard aggregate. Reads are not transactional
// with writes; slightly stale numbers are acceptable here.
func (s *Storage) Stats(ctx context.Context) (*storage.Stats, error) {
	stats := &storage.Stats{
		UserRoleDistribution: make(map[models.Role]int),
	}

	counts := []struct {
		query string
		dst   *int
	}{
		{`SELECT COUNT(*) FROM users`, &stats.TotalUsers},
		{`SELECT COUNT(*) FROM events`, &stats.TotalEvents},
		{`SELECT COUNT(*) FROM bookings`, &stats.TotalBookings},
	}
	for _, c := range counts {
		if err := s.DB.QueryRowContext(ctx, c.query).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("failed to count: %w", err)
		}
	}

	err := s.DB.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(price * tickets_sold), 0) FROM events WHERE price > 0`,
	).Scan(&stats.TotalRevenue)
	if err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}

	stats.UserSignupsLast30Days, err = s.dayCounts(ctx, "users")
	if err != nil {
		return nil, err
	}
	stats.BookingsLast30Days, err = s.dayCounts(ctx, "bookings")
	if err != nil {
		return nil, err
	}

	stats.PopularEvents, err = s.queryEvents(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE status = $1
		ORDER BY tickets_sold DESC
		LIMIT 5`, models.StatusPublished)
	if err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT role, COUNT(*) FROM users GROUP BY role`)
	if err != nil {
		return nil, fmt.Errorf("failed to query role distribution: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var role models.Role
		var count int
		if err := rows.Scan(&role, &count); err != nil {
			return nil, fmt.Errorf("failed to scan role distribution: %w", err)
		}
		stats.UserRoleDistribution[role] = count
	}

	return stats, rows.Err()
}

// dayCounts buckets rows of table by creation day over the last 30 days.
// table is one of the two fixed names above, never caller input.
func (s *Storage) dayCounts(ctx context.Context, table string) ([]storage.DayCount, error) {
	query := fmt.Sprintf(`
		SELECT to_char(created_at::date, 'YYYY-MM-DD') AS day, COUNT(*)
		FROM %s
		WHERE created_at >= NOW() - INTERVAL '30 days'
		GROUP BY day
		ORDER BY day ASC`, table)

	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query day counts: %w", err)
	}
	defer rows.Close()

	var counts []storage.DayCount
	for rows.Next() {
		var dc storage.DayCount
		if err := rows.Scan(&dc.Date, &dc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan day count: %w", err)
		}
		counts = append(counts, dc)
	}

	return counts, rows.Err()
}

// EventAnalytics reports booking, waitlist and hype counts for one event.
// A missing event yields zeroes, matching the admin dashboard contract.
func (s *Storage) EventAnalytics(ctx context.Context, eventID int) (*storage.EventAnalytics, error) {
	var a storage.EventAnalytics

	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE event_id = $1`, eventID,
	).Scan(&a.TotalBookings)
	if err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}

	err = s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM waitlist_entries WHERE event_id = $1`, eventID,
	).Scan(&a.TotalWaitlist)
	if err != nil {
		return nil, fmt.Errorf("failed to count waitlist entries: %w", err)
	}

	err = s.DB.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(hype_count), 0) FROM events WHERE id = $1`, eventID,
	).Scan(&a.HypeCount)
	if err != nil {
		return nil, fmt.Errorf("failed to get hype count: %w", err)
	}

	return &a, nil
}
