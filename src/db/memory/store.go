package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"wealth-server/src/ledger"
	"wealth-server/src/models"

	"github.com/shopspring/decimal"
)

type state struct {
	users        map[string]models.User
	accounts     map[string]models.Account
	transactions map[string]models.Transaction
	budgets      map[string]models.Budget // keyed by user id
}

func newState() state {
	return state{
		users:        make(map[string]models.User),
		accounts:     make(map[string]models.Account),
		transactions: make(map[string]models.Transaction),
		budgets:      make(map[string]models.Budget),
	}
}

func (s state) clone() state {
	c := newState()
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.transactions {
		c.transactions[k] = v
	}
	for k, v := range s.budgets {
		c.budgets[k] = v
	}
	return c
}

// Store keeps everything in process. A single mutex serializes transactions, and a
// transaction works on a copy that replaces the live state only on success.
type Store struct {
	mu    sync.Mutex
	state state
}

func NewStore() *Store {
	return &Store{state: newState()}
}

func (s *Store) WithinTx(ctx context.Context, fn func(tx ledger.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.state.clone()
	if err := fn(&tx{state: work}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.state = work
	return nil
}

func (s *Store) UpsertUser(ctx context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, u := range s.state.users {
		if u.ExternalID == user.ExternalID {
			u.Email = user.Email
			u.Name = user.Name
			u.UpdatedAt = user.UpdatedAt
			s.state.users[id] = u
			return &u, nil
		}
	}
	u := *user
	s.state.users[u.ID] = u
	return &u, nil
}

func (s *Store) GetUserByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.state.users {
		if u.ExternalID == externalID {
			return &u, nil
		}
	}
	return nil, ledger.ErrNotFound
}

func (s *Store) GetAccount(ctx context.Context, userID, accountID string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.account(userID, accountID)
}

func (s *Store) ListAccounts(ctx context.Context, userID string) ([]models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var accounts []models.Account
	for _, a := range s.state.accounts {
		if a.UserID == userID {
			accounts = append(accounts, a)
		}
	}
	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].CreatedAt.Equal(accounts[j].CreatedAt) {
			return accounts[i].ID < accounts[j].ID
		}
		return accounts[i].CreatedAt.Before(accounts[j].CreatedAt)
	})
	return accounts, nil
}

func (s *Store) GetTransaction(ctx context.Context, userID, transactionID string) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.transaction(userID, transactionID)
}

func (s *Store) ListTransactions(ctx context.Context, userID, accountID string) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var txns []models.Transaction
	for _, t := range s.state.transactions {
		if t.UserID == userID && t.AccountID == accountID {
			txns = append(txns, t)
		}
	}
	sort.Slice(txns, func(i, j int) bool {
		if txns[i].Date.Equal(txns[j].Date) {
			return txns[i].ID < txns[j].ID
		}
		return txns[i].Date.After(txns[j].Date)
	})
	return txns, nil
}

func (s *Store) SumSignedAmounts(ctx context.Context, accountID string) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := decimal.Zero
	for _, t := range s.state.transactions {
		if t.AccountID == accountID {
			sum = sum.Add(ledger.Delta(t.Type, t.Amount))
		}
	}
	return sum, nil
}

func (s *Store) SumAmounts(ctx context.Context, userID string, t models.TransactionType, from, to time.Time) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := decimal.Zero
	for _, txn := range s.state.transactions {
		if txn.UserID != userID || txn.Type != t {
			continue
		}
		if txn.Date.Before(from) || !txn.Date.Before(to) {
			continue
		}
		sum = sum.Add(txn.Amount)
	}
	return sum, nil
}

func (s *Store) GetBudget(ctx context.Context, userID string) (*models.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.state.budgets[userID]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	return &b, nil
}

func (s *Store) UpsertBudget(ctx context.Context, budget *models.Budget) (*models.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b, ok := s.state.budgets[budget.UserID]; ok {
		b.Amount = budget.Amount
		b.UpdatedAt = budget.UpdatedAt
		s.state.budgets[b.UserID] = b
		return &b, nil
	}
	b := *budget
	s.state.budgets[b.UserID] = b
	return &b, nil
}

func (s state) account(userID, accountID string) (*models.Account, error) {
	a, ok := s.accounts[accountID]
	if !ok || a.UserID != userID {
		return nil, ledger.ErrNotFound
	}
	return &a, nil
}

func (s state) transaction(userID, transactionID string) (*models.Transaction, error) {
	t, ok := s.transactions[transactionID]
	if !ok || t.UserID != userID {
		return nil, ledger.ErrNotFound
	}
	return &t, nil
}

// tx mutates the working copy owned by one WithinTx call.
type tx struct {
	state state
}

func (t *tx) LockAccount(ctx context.Context, userID, accountID string) (*models.Account, error) {
	return t.state.account(userID, accountID)
}

func (t *tx) LockTransaction(ctx context.Context, userID, transactionID string) (*models.Transaction, error) {
	return t.state.transaction(userID, transactionID)
}

func (t *tx) InsertAccount(ctx context.Context, account *models.Account) error {
	t.state.accounts[account.ID] = *account
	return nil
}

func (t *tx) ClearDefaultAccount(ctx context.Context, userID string) error {
	for id, a := range t.state.accounts {
		if a.UserID == userID && a.IsDefault {
			a.IsDefault = false
			t.state.accounts[id] = a
		}
	}
	return nil
}

func (t *tx) InsertTransaction(ctx context.Context, txn *models.Transaction) error {
	t.state.transactions[txn.ID] = *txn
	return nil
}

func (t *tx) UpdateTransaction(ctx context.Context, txn *models.Transaction) error {
	if _, ok := t.state.transactions[txn.ID]; !ok {
		return ledger.ErrNotFound
	}
	t.state.transactions[txn.ID] = *txn
	return nil
}

func (t *tx) AdjustBalance(ctx context.Context, accountID string, delta decimal.Decimal) (decimal.Decimal, error) {
	a, ok := t.state.accounts[accountID]
	if !ok {
		return decimal.Zero, ledger.ErrNotFound
	}
	a.Balance = a.Balance.Add(delta)
	t.state.accounts[accountID] = a
	return a.Balance, nil
}

var _ ledger.Store = (*Store)(nil)
