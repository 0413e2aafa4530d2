package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"evently/internal/models"
	"evently/internal/storage"

	"github.com/google/uuid"
)

// UpsertOrganizerRequest files or refreshes a user's application for
// organizer privileges. Re-applying overwrites the requested name and
// resets the status to PENDING.
func (s *Storage) UpsertOrganizerRequest(ctx context.Context, userID, requestedOrgName string) (*models.OrganizerRequest, error) {
	query := `
		INSERT INTO organizer_requests (id, user_id, requested_org_name, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
			SET requested_org_name = EXCLUDED.requested_org_name, status = $4
		RETURNING id, user_id, requested_org_name, status, created_at`

	var req models.OrganizerRequest
	err := s.DB.QueryRowContext(ctx, query,
		uuid.New().String(), userID, requestedOrgName, models.RequestPending,
	).Scan(&req.ID, &req.UserID, &req.RequestedOrgName, &req.Status, &req.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert organizer request: %w", err)
	}

	return &req, nil
}

// OrganizerRequestStatus returns the status of a user's request, or nil if
// the user never applied.
func (s *Storage) OrganizerRequestStatus(ctx context.Context, userID string) (*models.RequestStatus, error) {
	var status models.RequestStatus
	err := s.DB.QueryRowContext(ctx,
		`SELECT status FROM organizer_requests WHERE user_id = $1`, userID,
	).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get organizer request status: %w", err)
	}

	return &status, nil
}

// PendingOrganizerRequests lists open applications with the applicant's
// email, oldest first.
func (s *Storage) PendingOrganizerRequests(ctx context.Context) ([]models.OrganizerRequest, error) {
	query := `
		SELECT r.id, r.user_id, r.requested_org_name, r.status, r.created_at, u.email
		FROM organizer_requests r
		JOIN users u ON u.id = r.user_id
		WHERE r.status = $1
		ORDER BY r.created_at ASC`

	rows, err := s.DB.QueryContext(ctx, query, models.RequestPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizer requests: %w", err)
	}
	defer rows.Close()

	var requests []models.OrganizerRequest
	for rows.Next() {
		var r models.OrganizerRequest
		err := rows.Scan(&r.ID, &r.UserID, &r.RequestedOrgName, &r.Status, &r.CreatedAt, &r.UserEmail)
		if err != nil {
			return nil, fmt.Errorf("failed to scan organizer request: %w", err)
		}
		requests = append(requests, r)
	}

	return requests, rows.Err()
}

// ApproveOrganizerRequest promotes the applicant to ORGANIZER, sets their
// organization name and marks the request APPROVED, all in one transaction
// so no partial state is ever observable.
func (s *Storage) ApproveOrganizerRequest(ctx context.Context, requestID string) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var userID, orgName string
	err = tx.QueryRowContext(ctx, `
		SELECT user_id, requested_org_name
		FROM organizer_requests
		WHERE id = $1
		FOR UPDATE`, requestID,
	).Scan(&userID, &orgName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrRequestNotFound
		}
		return fmt.Errorf("failed to lock organizer request: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE users SET role = $2, organization_name = $3 WHERE id = $1`,
		userID, models.RoleOrganizer, orgName)
	if err != nil {
		return fmt.Errorf("failed to promote user: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE organizer_requests SET status = $2 WHERE id = $1`,
		requestID, models.RequestApproved)
	if err != nil {
		return fmt.Errorf("failed to update request status: %w", err)
	}

	return tx.Commit()
}

// RejectOrganizerRequest only flips the request status; the user row is
// untouched.
func (s *Storage) RejectOrganizerRequest(ctx context.Context, requestID string) error {
	res, err := s.DB.ExecContext(ctx,
		`UPDATE organizer_requests SET status = $2 WHERE id = $1`,
		requestID, models.RequestRejected)
	if err != nil {
		return fmt.Errorf("failed to reject organizer request: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrRequestNotFound
	}

	return nil
}
