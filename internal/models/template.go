package models

import "time"

type Template struct {
	ID        string    `json:"id"`
	Name      string    `json:"name" validate:"required"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body" validate:"required"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateTemplateRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	Subject string `json:"subject" validate:"max=255"`
	Body    string `json:"body" validate:"required"`
}

type UpdateTemplateRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,max=255"`
	Subject *string `json:"subject,omitempty" validate:"omitempty,max=255"`
	Body    *string `json:"body,omitempty"`
}
