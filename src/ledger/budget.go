package ledger

import (
	"context"
	"errors"
	"time"

	"wealth-server/src/models"
	"wealth-server/src/util"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// GetCurrentBudget returns the owner's budget (nil when none is set) and the total of
// EXPENSE transactions dated in the current calendar month.
func (s *Service) GetCurrentBudget(ctx context.Context, ownerID string) (*models.BudgetSummary, error) {
	user, err := s.owner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	budget, err := s.store.GetBudget(ctx, user.ID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return nil, storeFailure(err)
		}
		budget = nil
	}

	from, to := monthBounds(s.now())
	expenses, err := s.store.SumAmounts(ctx, user.ID, models.TransactionTypeExpense, from, to)
	if err != nil {
		return nil, storeFailure(err)
	}

	summary := &models.BudgetSummary{Budget: budget, CurrentExpenses: expenses}
	if budget != nil && budget.Amount.IsPositive() {
		summary.PercentUsed = expenses.Div(budget.Amount).Mul(hundred).Round(2).InexactFloat64()
	}
	return summary, nil
}

// UpdateBudget sets the owner's monthly budget, creating it on first use.
func (s *Service) UpdateBudget(ctx context.Context, ownerID string, amount decimal.Decimal) (*models.Budget, error) {
	if ownerID == "" {
		return nil, ErrUnauthorized
	}
	if !util.ValidateAmount(amount) {
		return nil, invalid("amount must be greater than zero with at most two decimal places")
	}
	user, err := s.owner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	budget, err := s.store.UpsertBudget(ctx, &models.Budget{
		ID:        s.newID(),
		UserID:    user.ID,
		Amount:    amount,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, storeFailure(err)
	}
	return budget, nil
}

// monthBounds returns [first of month, first of next month) in t's location.
func monthBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 1, 0)
}
