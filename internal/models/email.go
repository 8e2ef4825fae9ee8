package models

import "time"

type Email struct {
	ID        string    `json:"id"`
	Subject   string    `json:"subject" validate:"required"`
	Body      string    `json:"body" validate:"required"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateEmailRequest struct {
	Subject string `json:"subject" validate:"required,max=255"`
	Body    string `json:"body" validate:"required"`
}

type UpdateEmailRequest struct {
	Subject *string `json:"subject,omitempty" validate:"omitempty,max=255"`
	Body    *string `json:"body,omitempty"`
}
