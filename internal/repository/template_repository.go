package repository

import (
	"context"
	"database/sql"
	"fmt"

	"maildesk/internal/models"
)

type TemplateRepository interface {
	Create(ctx context.Context, template *models.Template) error
	GetByID(ctx context.Context, id string) (*models.Template, error)
	List(ctx context.Context, limit int, offset int) ([]models.Template, error)
	Update(ctx context.Context, id string, req *models.UpdateTemplateRequest) (*models.Template, error)
	Delete(ctx context.Context, id string) error
}

type templateRepository struct {
	db *sql.DB
}

func NewTemplateRepository(db *sql.DB) TemplateRepository {
	return &templateRepository{db: db}
}

func (r *templateRepository) Create(ctx context.Context, template *models.Template) error {
	query := `
		INSERT INTO templates (id, name, subject, body, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	return r.db.QueryRowContext(ctx, query,
		template.ID, template.Name, template.Subject, template.Body, template.CreatedAt,
	).Scan(&template.CreatedAt)
}

func (r *templateRepository) GetByID(ctx context.Context, id string) (*models.Template, error) {
	query := `
		SELECT id, name, subject, body, created_at
		FROM templates
		WHERE id = $1
	`

	var t models.Template
	err := r.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Name, &t.Subject, &t.Body, &t.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *templateRepository) List(ctx context.Context, limit int, offset int) ([]models.Template, error) {
	query := `
		SELECT id, name, subject, body, created_at
		FROM templates
		ORDER BY created_at DESC
	`

	args := make([]any, 0, 2)
	argPos := 1
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

	var templates []models.Template
	for rows.Next() {
		var t models.Template
		if err := rows.Scan(&t.ID, &t.Name, &t.Subject, &t.Body, &t.CreatedAt); err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}

	return templates, rows.Err()
}

func (r *templateRepository) Update(ctx context.Context, id string, req *models.UpdateTemplateRequest) (*models.Template, error) {
	query := `
		UPDATE templates
		SET name = COALESCE($1, name),
			subject = COALESCE($2, subject),
			body = COALESCE($3, body)
		WHERE id = $4
		RETURNING id, name, subject, body, created_at
	`

	var t models.Template
	err := r.db.QueryRowContext(ctx, query, req.Name, req.Subject, req.Body, id).
		Scan(&t.ID, &t.Name, &t.Subject, &t.Body, &t.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *templateRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM templates WHERE id = $1`, id)
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
