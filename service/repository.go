package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/nemopss/fin-records/models"
)

// Repository is the persistence the services need. Lookups return (nil, nil)
// when nothing matches. Every transaction query is scoped by owner.
type Repository interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// ListTransactions returns the owner's records newest first, restricted to
	// the inclusive window when one is given.
	ListTransactions(ctx context.Context, owner uuid.UUID, window *models.DateRange) ([]models.Transaction, error)
	GetTransaction(ctx context.Context, id, owner uuid.UUID) (*models.Transaction, error)
	CreateTransaction(ctx context.Context, t *models.Transaction) error
	// CreateTransactions stores all rows with a single insert and returns how
	// many were written.
	CreateTransactions(ctx context.Context, ts []models.Transaction) (int, error)
	UpdateTransaction(ctx context.Context, t *models.Transaction) error
	DeleteTransaction(ctx context.Context, id, owner uuid.UUID) error
}
