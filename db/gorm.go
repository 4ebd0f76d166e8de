package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nemopss/fin-records/apperr"
	"github.com/nemopss/fin-records/models"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const insertBatchSize = 500

type userRow struct {
	ID           uuid.UUID `gorm:"type:text;primaryKey"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	CreatedAt    time.Time
}

func (userRow) TableName() string { return "users" }

type transactionRow struct {
	ID     uuid.UUID `gorm:"type:text;primaryKey"`
	UserID uuid.UUID `gorm:"type:text;not null;index:idx_transactions_user_date,priority:1"`
	Title  string    `gorm:"not null"`
	// Stored as text so amounts round-trip exactly.
	Amount    decimal.Decimal `gorm:"type:text;not null"`
	Type      string          `gorm:"not null"`
	Category  string          `gorm:"not null"`
	Date      time.Time       `gorm:"not null;index:idx_transactions_user_date,priority:2"`
	CreatedAt time.Time
}

func (transactionRow) TableName() string { return "transactions" }

// GormStorage is the SQLite implementation of the service repository, for
// local use without a PostgreSQL server.
type GormStorage struct {
	db *gorm.DB
}

func NewGormStorage(path string) (*GormStorage, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&userRow{}, &transactionRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return &GormStorage{db: db}, nil
}

func (s *GormStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *GormStorage) CreateUser(ctx context.Context, u *models.User) error {
	row := userRow{ID: u.ID, Email: u.Email, PasswordHash: u.PasswordHash, CreatedAt: u.CreatedAt}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return apperr.Conflictf("email already registered")
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (s *GormStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var rows []userRow
	if err := s.db.WithContext(ctx).Where("email = ?", email).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	r := rows[0]
	return &models.User{ID: r.ID, Email: r.Email, PasswordHash: r.PasswordHash, CreatedAt: r.CreatedAt.UTC()}, nil
}

func (s *GormStorage) ListTransactions(ctx context.Context, owner uuid.UUID, window *models.DateRange) ([]models.Transaction, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", owner)
	if window != nil {
		q = q.Where("date >= ? AND date <= ?", window.From, window.To)
	}

	var rows []transactionRow
	if err := q.Order("date DESC, created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	transactions := make([]models.Transaction, 0, len(rows))
	for _, r := range rows {
		transactions = append(transactions, r.toModel())
	}
	return transactions, nil
}

func (s *GormStorage) GetTransaction(ctx context.Context, id, owner uuid.UUID) (*models.Transaction, error) {
	var rows []transactionRow
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, owner).Limit(1).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	t := rows[0].toModel()
	return &t, nil
}

func (s *GormStorage) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	row := newTransactionRow(t)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}
	return nil
}

// CreateTransactions inserts all rows in one call; gorm runs the batches in a
// single transaction.
func (s *GormStorage) CreateTransactions(ctx context.Context, ts []models.Transaction) (int, error) {
	if len(ts) == 0 {
		return 0, nil
	}
	rows := make([]transactionRow, 0, len(ts))
	for i := range ts {
		rows = append(rows, newTransactionRow(&ts[i]))
	}
	res := s.db.WithContext(ctx).CreateInBatches(rows, insertBatchSize)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to save transactions: %w", res.Error)
	}
	return int(res.RowsAffected), nil
}

func (s *GormStorage) UpdateTransaction(ctx context.Context, t *models.Transaction) error {
	res := s.db.WithContext(ctx).Model(&transactionRow{}).
		Where("id = ? AND user_id = ?", t.ID, t.OwnerID).
		Updates(map[string]any{
			"title":    t.Title,
			"amount":   t.Amount,
			"type":     string(t.Type),
			"category": t.Category,
			"date":     t.Date,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update transaction: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFoundf("transaction not found")
	}
	return nil
}

func (s *GormStorage) DeleteTransaction(ctx context.Context, id, owner uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, owner).Delete(&transactionRow{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete transaction: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFoundf("transaction not found")
	}
	return nil
}

func newTransactionRow(t *models.Transaction) transactionRow {
	return transactionRow{
		ID:        t.ID,
		UserID:    t.OwnerID,
		Title:     t.Title,
		Amount:    t.Amount,
		Type:      string(t.Type),
		Category:  t.Category,
		Date:      t.Date.UTC(),
		CreatedAt: t.CreatedAt.UTC(),
	}
}

func (r transactionRow) toModel() models.Transaction {
	return models.Transaction{
		ID:        r.ID,
		OwnerID:   r.UserID,
		Title:     r.Title,
		Amount:    r.Amount,
		Type:      models.TransactionType(r.Type),
		Category:  r.Category,
		Date:      r.Date.UTC(),
		CreatedAt: r.CreatedAt.UTC(),
	}
}
