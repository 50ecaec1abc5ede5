package ledger

import (
	"context"
	"strings"

	"wealth-server/src/models"
	"wealth-server/src/util"

	"github.com/shopspring/decimal"
)

// RegisterOwner creates or refreshes the user row for an identity provider subject.
func (s *Service) RegisterOwner(ctx context.Context, ownerID, email, name string) (*models.User, error) {
	if ownerID == "" {
		return nil, ErrUnauthorized
	}
	email = strings.TrimSpace(email)
	if email != "" && !util.ValidateEmail(email) {
		return nil, invalid("invalid email format")
	}
	now := s.now()
	user, err := s.store.UpsertUser(ctx, &models.User{
		ID:         s.newID(),
		ExternalID: ownerID,
		Email:      email,
		Name:       strings.TrimSpace(name),
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return nil, storeFailure(err)
	}
	return user, nil
}

// CreateAccount opens an account with a zero balance. The owner's first account is always
// the default one.
func (s *Service) CreateAccount(ctx context.Context, ownerID string, req models.AccountRequest) (*models.Account, error) {
	if ownerID == "" {
		return nil, ErrUnauthorized
	}
	if !util.ValidateAccountName(req.Name) {
		return nil, invalid("account name must be between 1 and 64 characters")
	}
	if !req.Type.Valid() {
		return nil, invalid("unknown account type %q", req.Type)
	}
	user, err := s.owner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	existing, err := s.store.ListAccounts(ctx, user.ID)
	if err != nil {
		return nil, storeFailure(err)
	}

	now := s.now()
	account := &models.Account{
		ID:        s.newID(),
		UserID:    user.ID,
		Name:      strings.TrimSpace(req.Name),
		Type:      req.Type,
		Balance:   decimal.Zero,
		IsDefault: req.IsDefault || len(existing) == 0,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = s.store.WithinTx(ctx, func(tx Tx) error {
		if account.IsDefault {
			if err := tx.ClearDefaultAccount(ctx, user.ID); err != nil {
				return err
			}
		}
		return tx.InsertAccount(ctx, account)
	})
	if err != nil {
		return nil, storeFailure(err)
	}
	return account, nil
}

func (s *Service) ListAccounts(ctx context.Context, ownerID string) ([]models.Account, error) {
	user, err := s.owner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	accounts, err := s.store.ListAccounts(ctx, user.ID)
	if err != nil {
		return nil, storeFailure(err)
	}
	return accounts, nil
}

func (s *Service) GetAccount(ctx context.Context, ownerID, accountID string) (*models.Account, error) {
	user, err := s.owner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	account, err := s.store.GetAccount(ctx, user.ID, accountID)
	if err != nil {
		return nil, lookup(err, "account")
	}
	return account, nil
}

// VerifyAccountBalance rebuilds the balance from the account's transactions and compares it
// with the stored one.
func (s *Service) VerifyAccountBalance(ctx context.Context, ownerID, accountID string) (*models.BalanceCheck, error) {
	account, err := s.GetAccount(ctx, ownerID, accountID)
	if err != nil {
		return nil, err
	}
	sum, err := s.store.SumSignedAmounts(ctx, account.ID)
	if err != nil {
		return nil, storeFailure(err)
	}
	return &models.BalanceCheck{
		AccountID:     account.ID,
		Stored:        account.Balance,
		Reconstructed: sum,
		Consistent:    account.Balance.Equal(sum),
	}, nil
}
