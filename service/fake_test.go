package service

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/nemopss/fin-records/apperr"
	"github.com/nemopss/fin-records/models"
)

// fakeRepo is an in-memory Repository for service tests.
type fakeRepo struct {
	users        map[string]models.User
	transactions map[uuid.UUID]models.Transaction

	bulkCalls int
	failBulk  error
	failList  error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:        map[string]models.User{},
		transactions: map[uuid.UUID]models.Transaction{},
	}
}

func (f *fakeRepo) CreateUser(_ context.Context, u *models.User) error {
	if _, ok := f.users[u.Email]; ok {
		return apperr.Conflictf("email already registered")
	}
	f.users[u.Email] = *u
	return nil
}

func (f *fakeRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := f.users[email]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (f *fakeRepo) ListTransactions(_ context.Context, owner uuid.UUID, window *models.DateRange) ([]models.Transaction, error) {
	if f.failList != nil {
		return nil, f.failList
	}
	out := []models.Transaction{}
	for _, t := range f.transactions {
		if t.OwnerID != owner {
			continue
		}
		if window != nil && !window.Contains(t.Date) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (f *fakeRepo) GetTransaction(_ context.Context, id, owner uuid.UUID) (*models.Transaction, error) {
	t, ok := f.transactions[id]
	if !ok || t.OwnerID != owner {
		return nil, nil
	}
	return &t, nil
}

func (f *fakeRepo) CreateTransaction(_ context.Context, t *models.Transaction) error {
	f.transactions[t.ID] = *t
	return nil
}

func (f *fakeRepo) CreateTransactions(_ context.Context, ts []models.Transaction) (int, error) {
	f.bulkCalls++
	if f.failBulk != nil {
		return 0, f.failBulk
	}
	for _, t := range ts {
		f.transactions[t.ID] = t
	}
	return len(ts), nil
}

func (f *fakeRepo) UpdateTransaction(_ context.Context, t *models.Transaction) error {
	cur, ok := f.transactions[t.ID]
	if !ok || cur.OwnerID != t.OwnerID {
		return apperr.NotFoundf("transaction not found")
	}
	f.transactions[t.ID] = *t
	return nil
}

func (f *fakeRepo) DeleteTransaction(_ context.Context, id, owner uuid.UUID) error {
	cur, ok := f.transactions[id]
	if !ok || cur.OwnerID != owner {
		return apperr.NotFoundf("transaction not found")
	}
	delete(f.transactions, id)
	return nil
}

var errStorage = errors.New("storage down")

type fakeIssuer struct{}

func (fakeIssuer) Issue(owner uuid.UUID) (string, error) { return "token-" + owner.String(), nil }
