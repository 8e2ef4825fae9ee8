package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"maildesk/internal/models"
)

type LoginHistoryRepository interface {
	RecordLogin(ctx context.Context, userID string) error
	ListByUser(ctx context.Context, userID string, limit int, offset int) ([]models.LoginHistory, error)
}

type loginHistoryRepository struct {
	db *sql.DB
}

func NewLoginHistoryRepository(db *sql.DB) LoginHistoryRepository {
	return &loginHistoryRepository{db: db}
}

func (r *loginHistoryRepository) RecordLogin(ctx context.Context, userID string) error {
	query := `
		INSERT INTO login_history (id, user_id, login_at)
		VALUES ($1, $2, $3)
	`

	_, err := r.db.ExecContext(ctx, query, uuid.NewString(), userID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("record login: %w", err)
	}
	return nil
}

func (r *loginHistoryRepository) ListByUser(ctx context.Context, userID string, limit int, offset int) ([]models.LoginHistory, error) {
	query := `
		SELECT id, user_id, login_at
		FROM login_history
		WHERE user_id = $1
		ORDER BY login_at DESC
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

	var history []models.LoginHistory
	for rows.Next() {
		var h models.LoginHistory
		if err := rows.Scan(&h.ID, &h.UserID, &h.LoginAt); err != nil {
			return nil, err
		}
		history = append(history, h)
	}

	return history, rows.Err()
}
