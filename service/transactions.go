package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nemopss/fin-records/apperr"
	"github.com/nemopss/fin-records/categorizer"
	"github.com/nemopss/fin-records/importer"
	"github.com/nemopss/fin-records/logger"
	"github.com/nemopss/fin-records/models"
)

type TransactionService struct {
	repo        Repository
	categorizer *categorizer.Categorizer
	now         func() time.Time
}

func NewTransactionService(repo Repository, c *categorizer.Categorizer) *TransactionService {
	if c == nil {
		c = categorizer.Default()
	}
	return &TransactionService{repo: repo, categorizer: c, now: time.Now}
}

// List returns the owner's transactions, newest first. When both year and
// month are given only that calendar month is returned.
func (s *TransactionService) List(ctx context.Context, owner uuid.UUID, year, month *int) ([]models.Transaction, error) {
	var window *models.DateRange
	if year != nil && month != nil {
		if *month < 1 || *month > 12 {
			return nil, apperr.Validationf("month must be between 1 and 12")
		}
		if *year < 1 || *year > 9999 {
			return nil, apperr.Validationf("year must be between 1 and 9999")
		}
		r := models.MonthRange(*year, time.Month(*month))
		window = &r
	}

	ts, err := s.repo.ListTransactions(ctx, owner, window)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return ts, nil
}

func (s *TransactionService) Create(ctx context.Context, owner uuid.UUID, in models.CreateTransaction) (*models.Transaction, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperr.Validationf("title is required")
	}
	if in.Amount == nil {
		return nil, apperr.Validationf("amount is required")
	}
	if in.Type == "" {
		return nil, apperr.Validationf("type is required")
	}
	typ, err := parseType(in.Type)
	if err != nil {
		return nil, err
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		return nil, apperr.Validationf("category is required")
	}
	if strings.TrimSpace(in.Date) == "" {
		return nil, apperr.Validationf("date is required")
	}
	date, err := parseDate(in.Date)
	if err != nil {
		return nil, err
	}

	t := &models.Transaction{
		ID:        uuid.New(),
		OwnerID:   owner,
		Title:     title,
		Amount:    *in.Amount,
		Type:      typ,
		Category:  category,
		Date:      date,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.CreateTransaction(ctx, t); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	return t, nil
}

// Update changes only the supplied fields. A record owned by someone else is
// reported exactly like a missing one.
func (s *TransactionService) Update(ctx context.Context, owner, id uuid.UUID, in models.UpdateTransaction) (*models.Transaction, error) {
	t, err := s.owned(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, apperr.Validationf("title must not be empty")
		}
		t.Title = title
	}
	if in.Amount != nil {
		t.Amount = *in.Amount
	}
	if in.Type != nil {
		typ, err := parseType(*in.Type)
		if err != nil {
			return nil, err
		}
		t.Type = typ
	}
	if in.Category != nil {
		category := strings.TrimSpace(*in.Category)
		if category == "" {
			return nil, apperr.Validationf("category must not be empty")
		}
		t.Category = category
	}
	if in.Date != nil {
		date, err := parseDate(*in.Date)
		if err != nil {
			return nil, err
		}
		t.Date = date
	}

	if err := s.repo.UpdateTransaction(ctx, t); err != nil {
		return nil, fmt.Errorf("update transaction: %w", err)
	}
	return t, nil
}

// Get returns one of the owner's transactions.
func (s *TransactionService) Get(ctx context.Context, owner, id uuid.UUID) (*models.Transaction, error) {
	return s.owned(ctx, owner, id)
}

func (s *TransactionService) Delete(ctx context.Context, owner, id uuid.UUID) error {
	if _, err := s.owned(ctx, owner, id); err != nil {
		return err
	}
	if err := s.repo.DeleteTransaction(ctx, id, owner); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

// Import parses statement text and stores every recognized line as an
// expense in one bulk insert. Lines that do not parse are skipped without
// being reported; the result is the number of records created.
func (s *TransactionService) Import(ctx context.Context, owner uuid.UUID, text string) (int, error) {
	if strings.TrimSpace(text) == "" {
		return 0, apperr.Validationf("text is required")
	}

	log := logger.FromContext(ctx)
	createdAt := s.now().UTC()

	var batch []models.Transaction
	for e := range importer.Parse(text) {
		batch = append(batch, models.Transaction{
			ID:        uuid.New(),
			OwnerID:   owner,
			Title:     e.Description,
			Amount:    e.Amount,
			Type:      models.TypeExpense,
			Category:  s.categorizer.Categorize(e.Description),
			Date:      e.Date,
			CreatedAt: createdAt,
		})
	}
	if len(batch) == 0 {
		log.Debug().Str("owner_id", owner.String()).Msg("import found no parsable lines")
		return 0, nil
	}

	n, err := s.repo.CreateTransactions(ctx, batch)
	if err != nil {
		return 0, fmt.Errorf("import transactions: %w", err)
	}
	log.Info().Str("owner_id", owner.String()).Int("created", n).Msg("transactions imported")
	return n, nil
}

func (s *TransactionService) owned(ctx context.Context, owner, id uuid.UUID) (*models.Transaction, error) {
	t, err := s.repo.GetTransaction(ctx, id, owner)
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	if t == nil || t.OwnerID != owner {
		return nil, apperr.NotFoundf("transaction not found")
	}
	return t, nil
}

func parseType(t models.TransactionType) (models.TransactionType, error) {
	typ := models.TransactionType(strings.ToUpper(strings.TrimSpace(string(t))))
	if !typ.Valid() {
		return "", apperr.Validationf("type must be '%s' or '%s'", models.TypeIncome, models.TypeExpense)
	}
	return typ, nil
}

func parseDate(s string) (time.Time, error) {
	d, err := models.ParseDate(s)
	if err != nil {
		return time.Time{}, apperr.Validationf("date must be YYYY-MM-DD, DD/MM/YYYY or RFC 3339")
	}
	return d, nil
}
