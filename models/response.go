package models

import (
	"time"

	"github.com/google/uuid"
)

type RegisterResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email" example:"ana@example.com"`
	CreatedAt time.Time `json:"created_at"`
}

type LoginResponse struct {
	Token string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

type ImportResponse struct {
	Created int `json:"created" example:"2"`
}

type ErrorResponse struct {
	Error string `json:"error" example:"error"`
}
