package usecases

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"finance-server/entities"
	"finance-server/repositories"

	"github.com/shopspring/decimal"
)

// EventPublisher receives ledger events after the change is committed.
type EventPublisher interface {
	Publish(event entities.LedgerEvent) error
}

// SummaryCache holds computed monthly summaries per user.
type SummaryCache interface {
	SummaryInvalidator
	Get(userID uint) ([]entities.MonthSummary, bool)
	Generation(userID uint) uint64
	Set(userID uint, gen uint64, months []entities.MonthSummary)
}

type LedgerUseCase struct {
	repo      repositories.TransactionRepository
	publisher EventPublisher
	cache     SummaryCache
	now       func() time.Time
}

func NewLedgerUseCase(repo repositories.TransactionRepository, publisher EventPublisher, cache SummaryCache) *LedgerUseCase {
	return &LedgerUseCase{repo: repo, publisher: publisher, cache: cache, now: time.Now}
}

// AddInput carries the fields of a new transaction; nil means omitted.
type AddInput struct {
	Amount   *float64
	Type     string
	Category *string
	Date     *string
	Month    *string
}

// UpdateInput carries a partial update; only non-nil fields are applied.
type UpdateInput struct {
	Amount   *float64
	Type     *string
	Category *string
	Date     *string
	Month    *string
}

// Add records a transaction for userID. A missing date means today and a
// missing month is derived from the resolved date.
func (uc *LedgerUseCase) Add(ctx context.Context, userID uint, in AddInput) (*entities.Transaction, error) {
	if in.Amount == nil {
		return nil, fmt.Errorf("%w: amount is required", ErrValidation)
	}
	txType := entities.TransactionExpenses
	if t := strings.TrimSpace(in.Type); t != "" {
		txType = entities.TransactionType(t)
	}
	if !txType.Valid() {
		return nil, fmt.Errorf("%w: type must be income or expenses", ErrValidation)
	}

	var date time.Time
	if in.Date != nil && strings.TrimSpace(*in.Date) != "" {
		d, err := ParseDate(*in.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", ErrValidation, *in.Date)
		}
		date = d
	} else {
		date = today(uc.now())
	}

	month := entities.MonthLabel(date)
	if in.Month != nil && strings.TrimSpace(*in.Month) != "" {
		month = strings.TrimSpace(*in.Month)
	}

	tx := &entities.Transaction{
		UserID:   userID,
		Amount:   *in.Amount,
		Type:     txType,
		Category: categoryOrDefault(in.Category),
		Date:     &date,
		Month:    &month,
	}
	if err := uc.repo.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	uc.changed(entities.TransactionCreated, tx)
	return tx, nil
}

// List returns userID's transactions, newest date first, undated last.
func (uc *LedgerUseCase) List(ctx context.Context, userID uint) ([]entities.Transaction, error) {
	txs, err := uc.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

// Update applies the supplied fields. An unparseable date is ignored and
// the previous date kept.
func (uc *LedgerUseCase) Update(ctx context.Context, userID, txID uint, in UpdateInput) (*entities.Transaction, error) {
	tx, err := uc.owned(ctx, userID, txID)
	if err != nil {
		return nil, err
	}

	if in.Amount != nil {
		tx.Amount = *in.Amount
	}
	if in.Type != nil {
		t := entities.TransactionType(strings.TrimSpace(*in.Type))
		if !t.Valid() {
			return nil, fmt.Errorf("%w: type must be income or expenses", ErrValidation)
		}
		tx.Type = t
	}
	if in.Category != nil {
		tx.Category = categoryOrDefault(in.Category)
	}
	if in.Month != nil {
		m := strings.TrimSpace(*in.Month)
		tx.Month = &m
	}
	if in.Date != nil {
		if d, err := ParseDate(*in.Date); err == nil {
			tx.Date = &d
		}
	}

	if err := uc.repo.Update(ctx, tx); err != nil {
		return nil, fmt.Errorf("update transaction: %w", err)
	}
	uc.changed(entities.TransactionUpdated, tx)
	return tx, nil
}

// Delete permanently removes a transaction owned by userID.
func (uc *LedgerUseCase) Delete(ctx context.Context, userID, txID uint) error {
	tx, err := uc.owned(ctx, userID, txID)
	if err != nil {
		return err
	}
	ok, err := uc.repo.DeleteForUser(ctx, txID, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: transaction not found", ErrNotFound)
	}
	uc.changed(entities.TransactionDeleted, tx)
	return nil
}

// Summary totals income and expenses per month label, oldest month first.
func (uc *LedgerUseCase) Summary(ctx context.Context, userID uint) ([]entities.MonthSummary, error) {
	var gen uint64
	if uc.cache != nil {
		if months, ok := uc.cache.Get(userID); ok {
			return months, nil
		}
		gen = uc.cache.Generation(userID)
	}
	txs, err := uc.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	months := summarize(txs)
	if uc.cache != nil {
		uc.cache.Set(userID, gen, months)
	}
	return months, nil
}

func (uc *LedgerUseCase) owned(ctx context.Context, userID, txID uint) (*entities.Transaction, error) {
	tx, err := uc.repo.GetByIDForUser(ctx, txID, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: transaction not found", ErrNotFound)
		}
		return nil, fmt.Errorf("find transaction: %w", err)
	}
	return tx, nil
}

func (uc *LedgerUseCase) changed(kind entities.LedgerEventType, tx *entities.Transaction) {
	if uc.cache != nil {
		uc.cache.Invalidate(tx.UserID)
	}
	if uc.publisher == nil {
		return
	}
	event := entities.LedgerEvent{Type: kind, UserID: tx.UserID, Transaction: tx.View(), At: uc.now().UTC()}
	if err := uc.publisher.Publish(event); err != nil {
		log.Printf("failed to publish %s for transaction %d: %v", kind, tx.ID, err)
	}
}

type monthTotals struct {
	label    string
	sortKey  time.Time
	parsed   bool
	income   decimal.Decimal
	expenses decimal.Decimal
}

func summarize(txs []entities.Transaction) []entities.MonthSummary {
	byLabel := make(map[string]*monthTotals)
	for _, tx := range txs {
		label := ""
		if tx.Month != nil {
			label = *tx.Month
		}
		mt, ok := byLabel[label]
		if !ok {
			mt = &monthTotals{label: label}
			if t, err := time.Parse(entities.MonthLayout, label); err == nil {
				mt.sortKey, mt.parsed = t, true
			}
			byLabel[label] = mt
		}
		amount := decimal.NewFromFloat(tx.Amount)
		if tx.Type == entities.TransactionIncome {
			mt.income = mt.income.Add(amount)
		} else {
			mt.expenses = mt.expenses.Add(amount)
		}
	}

	ordered := make([]*monthTotals, 0, len(byLabel))
	for _, mt := range byLabel {
		ordered = append(ordered, mt)
	}
	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.parsed != b.parsed {
			return a.parsed
		}
		if a.parsed && !a.sortKey.Equal(b.sortKey) {
			return a.sortKey.Before(b.sortKey)
		}
		return a.label < b.label
	})

	out := make([]entities.MonthSummary, 0, len(ordered))
	for _, mt := range ordered {
		out = append(out, entities.MonthSummary{
			Month:    mt.label,
			Income:   mt.income.InexactFloat64(),
			Expenses: mt.expenses.InexactFloat64(),
			Balance:  mt.income.Sub(mt.expenses).InexactFloat64(),
		})
	}
	return out
}

// ParseDate accepts YYYY-MM-DD or an ISO timestamp and returns the calendar
// day at midnight UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{entities.DateLayout, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

func today(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func categoryOrDefault(c *string) string {
	if c == nil || strings.TrimSpace(*c) == "" {
		return entities.DefaultCategory
	}
	return strings.TrimSpace(*c)
}
