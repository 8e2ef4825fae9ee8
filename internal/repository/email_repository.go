package repository

import (
	"context"
	"database/sql"
	"fmt"

	"maildesk/internal/models"
)

// EmailRepository stores a user's drafted emails. All reads are scoped to the
// owning user; a row belonging to someone else reports ErrNotFound.
type EmailRepository interface {
	Create(ctx context.Context, email *models.Email) error
	GetByID(ctx context.Context, id string, userID string) (*models.Email, error)
	ListByUser(ctx context.Context, userID string, limit int, offset int) ([]models.Email, error)
	Update(ctx context.Context, id string, userID string, req *models.UpdateEmailRequest) (*models.Email, error)
	Delete(ctx context.Context, id string, userID string) error
}

type emailRepository struct {
	db *sql.DB
}

func NewEmailRepository(db *sql.DB) EmailRepository {
	return &emailRepository{db: db}
}

func (r *emailRepository) Create(ctx context.Context, email *models.Email) error {
	query := `
		INSERT INTO emails (id, subject, body, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	return r.db.QueryRowContext(ctx, query,
		email.ID, email.Subject, email.Body, email.UserID, email.CreatedAt,
	).Scan(&email.CreatedAt)
}

func (r *emailRepository) GetByID(ctx context.Context, id string, userID string) (*models.Email, error) {
	query := `
		SELECT id, subject, body, user_id, created_at
		FROM emails
		WHERE id = $1 AND user_id = $2
	`

	var e models.Email
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(&e.ID, &e.Subject, &e.Body, &e.UserID, &e.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *emailRepository) ListByUser(ctx context.Context, userID string, limit int, offset int) ([]models.Email, error) {
	query := `
		SELECT id, subject, body, user_id, created_at
		FROM emails
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	args := []any{userID}
	argPos := 2
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argPos)
		args = append(args, limit)
		argPos++
	}
	if offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argPos)
		args = append(args, offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var emails []models.Email
	for rows.Next() {
		var e models.Email
		if err := rows.Scan(&e.ID, &e.Subject, &e.Body, &e.UserID, &e.CreatedAt); err != nil {
			return nil, err
		}
		emails = append(emails, e)
	}

	return emails, rows.Err()
}

func (r *emailRepository) Update(ctx context.Context, id string, userID string, req *models.UpdateEmailRequest) (*models.Email, error) {
	query := `
		UPDATE emails
		SET subject = COALESCE($1, subject),
			body = COALESCE($2, body)
		WHERE id = $3 AND user_id = $4
		RETURNING id, subject, body, user_id, created_at
	`

	var e models.Email
	err := r.db.QueryRowContext(ctx, query, req.Subject, req.Body, id, userID).
		Scan(&e.ID, &e.Subject, &e.Body, &e.UserID, &e.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *emailRepository) Delete(ctx context.Context, id string, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM emails WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
