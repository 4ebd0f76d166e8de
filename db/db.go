package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/nemopss/fin-records/apperr"
	"github.com/nemopss/fin-records/models"
)

const (
	uniqueViolation = "23505"

	transactionColumns = "id, user_id, title, amount, type, category, date, created_at"
	// PostgreSQL accepts at most 65535 bind parameters per statement.
	maxRowsPerInsert = 65535 / 8
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS transactions (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	title TEXT NOT NULL,
	amount NUMERIC NOT NULL,
	type TEXT NOT NULL CHECK (type IN ('INCOME', 'EXPENSE')),
	category TEXT NOT NULL,
	date TIMESTAMPTZ NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS transactions_user_date_idx ON transactions (user_id, date DESC);
`

// Storage is the PostgreSQL implementation of the service repository.
type Storage struct {
	DB *sql.DB
}

func NewStorage(connStr string) (*Storage, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Storage{DB: db}, nil
}

func (s *Storage) Close() error {
	return s.DB.Close()
}

func (s *Storage) CreateUser(ctx context.Context, u *models.User) error {
	_, err := s.DB.ExecContext(ctx,
		"INSERT INTO users (id, email, password_hash, created_at) VALUES ($1, $2, $3, $4)",
		u.ID, u.Email, u.PasswordHash, u.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return apperr.Conflictf("email already registered")
		}
		return err
	}
	return nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.DB.QueryRowContext(ctx,
		"SELECT id, email, password_hash, created_at FROM users WHERE email = $1", email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}

func (s *Storage) ListTransactions(ctx context.Context, owner uuid.UUID, window *models.DateRange) ([]models.Transaction, error) {
	query := "SELECT " + transactionColumns + " FROM transactions WHERE user_id = $1"
	args := []any{owner}
	if window != nil {
		query += " AND date >= $2 AND date <= $3"
		args = append(args, window.From, window.To)
	}
	query += " ORDER BY date DESC, created_at DESC"

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *t)
	}
	return transactions, rows.Err()
}

func (s *Storage) GetTransaction(ctx context.Context, id, owner uuid.UUID) (*models.Transaction, error) {
	row := s.DB.QueryRowContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE id = $1 AND user_id = $2", id, owner)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return t, err
}

func (s *Storage) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	_, err := s.DB.ExecContext(ctx,
		"INSERT INTO transactions ("+transactionColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8)",
		transactionArgs(t)...)
	return err
}

// CreateTransactions writes ts with one multi-row INSERT. Batches larger than
// the bind parameter limit are split, inside a single database transaction.
func (s *Storage) CreateTransactions(ctx context.Context, ts []models.Transaction) (int, error) {
	if len(ts) == 0 {
		return 0, nil
	}
	if len(ts) <= maxRowsPerInsert {
		return insertTransactions(ctx, s.DB, ts)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	total := 0
	for start := 0; start < len(ts); start += maxRowsPerInsert {
		end := min(start+maxRowsPerInsert, len(ts))
		n, err := insertTransactions(ctx, tx, ts[start:end])
		if err != nil {
			return 0, err
		}
		total += n
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Storage) UpdateTransaction(ctx context.Context, t *models.Transaction) error {
	res, err := s.DB.ExecContext(ctx,
		`UPDATE transactions SET title = $1, amount = $2, type = $3, category = $4, date = $5
		WHERE id = $6 AND user_id = $7`,
		t.Title, t.Amount, string(t.Type), t.Category, t.Date, t.ID, t.OwnerID)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (s *Storage) DeleteTransaction(ctx context.Context, id, owner uuid.UUID) error {
	res, err := s.DB.ExecContext(ctx, "DELETE FROM transactions WHERE id = $1 AND user_id = $2", id, owner)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertTransactions(ctx context.Context, db execer, ts []models.Transaction) (int, error) {
	var sb strings.Builder
	sb.WriteString("INSERT INTO transactions (" + transactionColumns + ") VALUES ")
	args := make([]any, 0, len(ts)*8)
	for i := range ts {
		if i > 0 {
			sb.WriteString(", ")
		}
		n := i * 8
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4, n+5, n+6, n+7, n+8)
		args = append(args, transactionArgs(&ts[i])...)
	}

	res, err := db.ExecContext(ctx, sb.String(), args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func transactionArgs(t *models.Transaction) []any {
	return []any{t.ID, t.OwnerID, t.Title, t.Amount, string(t.Type), t.Category, t.Date, t.CreatedAt}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner) (*models.Transaction, error) {
	var t models.Transaction
	var typ string
	if err := row.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Amount, &typ, &t.Category, &t.Date, &t.CreatedAt); err != nil {
		return nil, err
	}
	t.Type = models.TransactionType(typ)
	t.Date = t.Date.UTC()
	t.CreatedAt = t.CreatedAt.UTC()
	return &t, nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFoundf("transaction not found")
	}
	return nil
}
