package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"wealth-server/src/ledger"
	"wealth-server/src/models"

	"github.com/shopspring/decimal"
)

func seed(t *testing.T, s *Store) {
	t.Helper()
	err := s.WithinTx(context.Background(), func(tx ledger.Tx) error {
		return tx.InsertAccount(context.Background(), &models.Account{
			ID:      "acc_1",
			UserID:  "user_1",
			Name:    "Checking",
			Type:    models.AccountTypeCurrent,
			Balance: decimal.NewFromInt(100),
		})
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	s := NewStore()
	seed(t, s)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithinTx(ctx, func(tx ledger.Tx) error {
		if err := tx.InsertTransaction(ctx, &models.Transaction{ID: "txn_1", UserID: "user_1", AccountID: "acc_1"}); err != nil {
			return err
		}
		if _, err := tx.AdjustBalance(ctx, "acc_1", decimal.NewFromInt(-40)); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}

	acc, err := s.GetAccount(ctx, "user_1", "acc_1")
	if err != nil {
		t.Fatalf("GetAccount: %v", err)
	}
	if !acc.Balance.Equal(decimal.NewFromInt(100)) {
		t.Errorf("balance = %s, want 100", acc.Balance)
	}
	if _, err := s.GetTransaction(ctx, "user_1", "txn_1"); !errors.Is(err, ledger.ErrNotFound) {
		t.Errorf("expected transaction to be discarded, got %v", err)
	}
}

func TestGetAccount_ScopedToOwner(t *testing.T) {
	s := NewStore()
	seed(t, s)

	if _, err := s.GetAccount(context.Background(), "user_2", "acc_1"); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSumAmounts_HalfOpenRange(t *testing.T) {
	s := NewStore()
	seed(t, s)
	ctx := context.Background()
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	rows := []models.Transaction{
		{ID: "a", Date: from, Amount: decimal.NewFromInt(10)},
		{ID: "b", Date: to.Add(-time.Second), Amount: decimal.NewFromInt(5)},
		{ID: "c", Date: to, Amount: decimal.NewFromInt(1000)},
		{ID: "d", Date: from.Add(-time.Second), Amount: decimal.NewFromInt(1000)},
	}
	err := s.WithinTx(ctx, func(tx ledger.Tx) error {
		for i := range rows {
			rows[i].UserID = "user_1"
			rows[i].AccountID = "acc_1"
			rows[i].Type = models.TransactionTypeExpense
			if err := tx.InsertTransaction(ctx, &rows[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	sum, err := s.SumAmounts(ctx, "user_1", models.TransactionTypeExpense, from, to)
	if err != nil {
		t.Fatalf("SumAmounts: %v", err)
	}
	if !sum.Equal(decimal.NewFromInt(15)) {
		t.Errorf("sum = %s, want 15", sum)
	}
}

func TestUpsertBudget_OnePerUser(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	first, _ := s.UpsertBudget(ctx, &models.Budget{ID: "b1", UserID: "user_1", Amount: decimal.NewFromInt(500)})
	second, _ := s.UpsertBudget(ctx, &models.Budget{ID: "b2", UserID: "user_1", Amount: decimal.NewFromInt(750)})

	if second.ID != first.ID {
		t.Errorf("budget id changed from %s to %s", first.ID, second.ID)
	}
	if !second.Amount.Equal(decimal.NewFromInt(750)) {
		t.Errorf("amount = %s, want 750", second.Amount)
	}
}
