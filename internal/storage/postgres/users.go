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

const userColumns = `id, subject_id, email, role, organization_name, created_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.SubjectID, &u.Email, &u.Role, &u.OrganizationName, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpsertUser creates the directory record on first authentication, or binds
// the subject identifier to a pre-seeded record with the same email.
func (s *Storage) UpsertUser(ctx context.Context, email, subjectID string) (*models.User, error) {
	query := `
		INSERT INTO users (id, subject_id, email)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET subject_id = EXCLUDED.subject_id
		RETURNING ` + userColumns

	u, err := scanUser(s.DB.QueryRowContext(ctx, query, uuid.New().String(), subjectID, email))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	return u, nil
}

// UserBySubject resolves the external subject identifier to a directory
// record. Every authenticated request goes through this.
func (s *Storage) UserBySubject(ctx context.Context, subjectID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE subject_id = $1`

	u, err := scanUser(s.DB.QueryRowContext(ctx, query, subjectID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return u, nil
}

func (s *Storage) GetUser(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return u, nil
}

func (s *Storage) ListUsers(ctx context.Context) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`

	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *u)
	}

	return users, rows.Err()
}

// UpdateUserRole changes a user's role. The no-self-escalation guard lives
// in the handler, which knows who the caller is.
func (s *Storage) UpdateUserRole(ctx context.Context, id string, role models.Role) (*models.User, error) {
	query := `UPDATE users SET role = $2 WHERE id = $1 RETURNING ` + userColumns

	u, err := scanUser(s.DB.QueryRowContext(ctx, query, id, role))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user role: %w", err)
	}

	return u, nil
}
