package db

import (
	"testing"
	"time"

	"wealth-server/src/models"

	"github.com/shopspring/decimal"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := NewCache(100)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

var may = time.Date(2024, 5, 31, 23, 0, 0, 0, time.UTC)

func TestCache_AccountsRoundTrip(t *testing.T) {
	c := newTestCache(t)
	accounts := []models.Account{{ID: "acc_1", Name: "Checking", Balance: decimal.NewFromInt(10)}}

	c.SetAccounts("owner_1", c.Generation("owner_1"), accounts)
	c.Wait()

	got, ok := c.GetAccounts("owner_1")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if len(got) != 1 || got[0].ID != "acc_1" {
		t.Errorf("got %+v", got)
	}
	if _, ok := c.GetAccounts("owner_2"); ok {
		t.Error("expected miss for another owner")
	}
}

func TestCache_InvalidateOwner(t *testing.T) {
	c := newTestCache(t)
	c.SetAccounts("owner_1", c.Generation("owner_1"), []models.Account{{ID: "acc_1"}})
	c.SetBudget("owner_1", c.Generation("owner_1"), may, &models.BudgetSummary{CurrentExpenses: decimal.NewFromInt(5)})
	c.SetAccounts("owner_2", c.Generation("owner_2"), []models.Account{{ID: "acc_2"}})
	c.Wait()

	c.InvalidateOwner("owner_1")

	if _, ok := c.GetAccounts("owner_1"); ok {
		t.Error("accounts still cached after invalidation")
	}
	if _, ok := c.GetBudget("owner_1", may); ok {
		t.Error("budget still cached after invalidation")
	}
	if _, ok := c.GetAccounts("owner_2"); !ok {
		t.Error("invalidation dropped another owner's entry")
	}
}

func TestCache_SetAfterInvalidateIsDropped(t *testing.T) {
	c := newTestCache(t)
	gen := c.Generation("owner_1")

	// a mutation commits while the read is still in flight
	c.InvalidateOwner("owner_1")
	c.SetAccounts("owner_1", gen, []models.Account{{ID: "acc_1", Balance: decimal.NewFromInt(100)}})
	c.SetBudget("owner_1", gen, may, &models.BudgetSummary{CurrentExpenses: decimal.NewFromInt(100)})
	c.Wait()

	if _, ok := c.GetAccounts("owner_1"); ok {
		t.Error("accounts read before the invalidation were cached")
	}
	if _, ok := c.GetBudget("owner_1", may); ok {
		t.Error("budget read before the invalidation was cached")
	}

	c.SetAccounts("owner_1", c.Generation("owner_1"), []models.Account{{ID: "acc_1"}})
	c.Wait()
	if _, ok := c.GetAccounts("owner_1"); !ok {
		t.Error("expected hit for a read under the current generation")
	}
}

func TestCache_SetAfterClearIsDropped(t *testing.T) {
	c := newTestCache(t)
	gen := c.Generation("owner_1")

	c.Clear()
	c.SetAccounts("owner_1", gen, []models.Account{{ID: "acc_1"}})
	c.Wait()

	if _, ok := c.GetAccounts("owner_1"); ok {
		t.Error("accounts read before Clear were cached")
	}
}

func TestCache_BudgetScopedToMonth(t *testing.T) {
	c := newTestCache(t)
	c.SetBudget("owner_1", c.Generation("owner_1"), may, &models.BudgetSummary{CurrentExpenses: decimal.NewFromInt(80)})
	c.Wait()

	if _, ok := c.GetBudget("owner_1", may.Add(-time.Hour)); !ok {
		t.Error("expected hit within the same month")
	}
	if _, ok := c.GetBudget("owner_1", may.Add(2*time.Hour)); ok {
		t.Error("May summary served in June")
	}
}
