package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nemopss/fin-records/apperr"
	"github.com/nemopss/fin-records/models"
	"github.com/nemopss/fin-records/service"
	"github.com/shopspring/decimal"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func newUser(t *testing.T, store service.Repository, email string) *models.User {
	t.Helper()
	u := &models.User{ID: uuid.New(), Email: email, PasswordHash: "hash", CreatedAt: time.Now().UTC()}
	if err := store.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return u
}

func newTransaction(owner uuid.UUID, title, amount, date string) models.Transaction {
	return models.Transaction{
		ID:        uuid.New(),
		OwnerID:   owner,
		Title:     title,
		Amount:    decimal.RequireFromString(amount),
		Type:      models.TypeExpense,
		Category:  "Outros",
		Date:      day(date),
		CreatedAt: time.Now().UTC(),
	}
}

// runRepositorySuite checks the behaviour every storage backend must share.
func runRepositorySuite(t *testing.T, open func(t *testing.T) service.Repository) {
	t.Run("users", func(t *testing.T) {
		store := open(t)
		ctx := context.Background()

		u := newUser(t, store, "ana@example.com")

		fetched, err := store.GetUserByEmail(ctx, "ana@example.com")
		if err != nil {
			t.Fatalf("Failed to get user: %v", err)
		}
		if fetched == nil || fetched.ID != u.ID || fetched.PasswordHash != "hash" {
			t.Errorf("Expected user %s, got %+v", u.ID, fetched)
		}

		missing, err := store.GetUserByEmail(ctx, "nobody@example.com")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if missing != nil {
			t.Errorf("Expected nil user, got %+v", missing)
		}

		dup := &models.User{ID: uuid.New(), Email: "ana@example.com", PasswordHash: "x", CreatedAt: time.Now().UTC()}
		if err := store.CreateUser(ctx, dup); !errors.Is(err, apperr.ErrConflict) {
			t.Errorf("Expected conflict for duplicate email, got %v", err)
		}
	})

	t.Run("create and get", func(t *testing.T) {
		store := open(t)
		ctx := context.Background()
		u := newUser(t, store, "ana@example.com")
		other := newUser(t, store, "bob@example.com")

		tx := newTransaction(u.ID, "Ifood Delivery", "45.90", "2025-09-05")
		if err := store.CreateTransaction(ctx, &tx); err != nil {
			t.Fatalf("Failed to create transaction: %v", err)
		}

		got, err := store.GetTransaction(ctx, tx.ID, u.ID)
		if err != nil {
			t.Fatalf("Failed to get transaction: %v", err)
		}
		if got == nil {
			t.Fatal("Expected transaction, got nil")
		}
		if got.Title != "Ifood Delivery" || !got.Amount.Equal(decimal.RequireFromString("45.90")) || got.Type != models.TypeExpense {
			t.Errorf("Unexpected transaction %+v", got)
		}
		if !got.Date.Equal(day("2025-09-05")) {
			t.Errorf("Expected date 2025-09-05, got %v", got.Date)
		}

		foreign, err := store.GetTransaction(ctx, tx.ID, other.ID)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if foreign != nil {
			t.Errorf("Expected nil for foreign owner, got %+v", foreign)
		}
	})

	t.Run("list with window", func(t *testing.T) {
		store := open(t)
		ctx := context.Background()
		u := newUser(t, store, "ana@example.com")
		other := newUser(t, store, "bob@example.com")

		batch := []models.Transaction{
			newTransaction(u.ID, "agosto", "1", "2025-08-31"),
			newTransaction(u.ID, "inicio", "2", "2025-09-05"),
			newTransaction(u.ID, "fim", "3", "2025-09-30"),
			newTransaction(u.ID, "outubro", "4", "2025-10-01"),
			newTransaction(other.ID, "alheio", "5", "2025-09-10"),
		}
		n, err := store.CreateTransactions(ctx, batch)
		if err != nil {
			t.Fatalf("Failed to bulk insert: %v", err)
		}
		if n != len(batch) {
			t.Errorf("Expected %d rows, got %d", len(batch), n)
		}

		window := models.MonthRange(2025, time.September)
		got, err := store.ListTransactions(ctx, u.ID, &window)
		if err != nil {
			t.Fatalf("Failed to list: %v", err)
		}
		if len(got) != 2 || got[0].Title != "fim" || got[1].Title != "inicio" {
			t.Errorf("Expected [fim inicio], got %+v", got)
		}

		all, err := store.ListTransactions(ctx, u.ID, nil)
		if err != nil {
			t.Fatalf("Failed to list: %v", err)
		}
		if len(all) != 4 {
			t.Errorf("Expected 4 transactions, got %d", len(all))
		}
		for i := 1; i < len(all); i++ {
			if all[i].Date.After(all[i-1].Date) {
				t.Errorf("Expected date desc, got %v before %v", all[i-1].Date, all[i].Date)
			}
		}

		empty, err := store.ListTransactions(ctx, uuid.New(), nil)
		if err != nil {
			t.Fatalf("Failed to list: %v", err)
		}
		if empty == nil || len(empty) != 0 {
			t.Errorf("Expected empty non-nil slice, got %#v", empty)
		}
	})

	t.Run("update and delete are owner scoped", func(t *testing.T) {
		store := open(t)
		ctx := context.Background()
		u := newUser(t, store, "ana@example.com")
		other := newUser(t, store, "bob@example.com")

		tx := newTransaction(u.ID, "Aluguel", "1500.00", "2025-09-01")
		if err := store.CreateTransaction(ctx, &tx); err != nil {
			t.Fatalf("Failed to create transaction: %v", err)
		}

		hijack := tx
		hijack.OwnerID = other.ID
		hijack.Title = "hacked"
		if err := store.UpdateTransaction(ctx, &hijack); !errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("Expected not found for foreign update, got %v", err)
		}
		if err := store.DeleteTransaction(ctx, tx.ID, other.ID); !errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("Expected not found for foreign delete, got %v", err)
		}

		tx.Title = "Aluguel setembro"
		tx.Amount = decimal.RequireFromString("1550.25")
		tx.Type = models.TypeIncome
		tx.Date = day("2025-09-02")
		if err := store.UpdateTransaction(ctx, &tx); err != nil {
			t.Fatalf("Failed to update: %v", err)
		}
		got, _ := store.GetTransaction(ctx, tx.ID, u.ID)
		if got.Title != "Aluguel setembro" || !got.Amount.Equal(decimal.RequireFromString("1550.25")) ||
			got.Type != models.TypeIncome || !got.Date.Equal(day("2025-09-02")) {
			t.Errorf("Unexpected updated transaction %+v", got)
		}

		if err := store.DeleteTransaction(ctx, tx.ID, u.ID); err != nil {
			t.Fatalf("Failed to delete: %v", err)
		}
		got, _ = store.GetTransaction(ctx, tx.ID, u.ID)
		if got != nil {
			t.Errorf("Expected transaction to be gone, got %+v", got)
		}
	})

	t.Run("bulk insert empty", func(t *testing.T) {
		store := open(t)
		n, err := store.CreateTransactions(context.Background(), nil)
		if err != nil || n != 0 {
			t.Errorf("Expected (0, nil), got (%d, %v)", n, err)
		}
	})
}
