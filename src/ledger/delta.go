package ledger

import (
	"wealth-server/src/models"

	"github.com/shopspring/decimal"
)

// Delta is the signed change a transaction applies to its account balance.
func Delta(t models.TransactionType, amount decimal.Decimal) decimal.Decimal {
	if t == models.TransactionTypeIncome {
		return amount
	}
	return amount.Neg()
}

// BalanceChange is the increment applied to one account by a write.
type BalanceChange struct {
	AccountID string
	Delta     decimal.Decimal
}

// EditChanges returns the balance increments for replacing orig with updated. Editing in
// place yields one net change; moving accounts reverses the old delta on the origin and applies
// the new delta on the destination.
func EditChanges(orig, updated *models.Transaction) []BalanceChange {
	oldDelta := Delta(orig.Type, orig.Amount)
	newDelta := Delta(updated.Type, updated.Amount)

	if updated.AccountID == orig.AccountID {
		return []BalanceChange{{AccountID: orig.AccountID, Delta: newDelta.Sub(oldDelta)}}
	}
	return []BalanceChange{
		{AccountID: orig.AccountID, Delta: oldDelta.Neg()},
		{AccountID: updated.AccountID, Delta: newDelta},
	}
}
