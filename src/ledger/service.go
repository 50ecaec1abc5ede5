package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"wealth-server/src/logger"
	"wealth-server/src/models"
	"wealth-server/src/ratelimit"
	"wealth-server/src/util"

	"github.com/google/uuid"
)

// Limiter decides whether an owner may create another transaction.
type Limiter interface {
	Protect(ctx context.Context, ownerID string, requested int) ratelimit.Decision
}

// Service owns every mutation of account balances. Each method takes the authenticated
// owner id explicitly; an empty id is ErrUnauthorized.
type Service struct {
	store   Store
	limiter Limiter
	now     func() time.Time
	newID   func() string
}

// NewService builds a Service. limiter may be nil to disable rate limiting.
func NewService(store Store, limiter Limiter) *Service {
	return &Service{
		store:   store,
		limiter: limiter,
		now:     time.Now,
		newID:   func() string { return uuid.NewString() },
	}
}

func (s *Service) CreateTransaction(ctx context.Context, ownerID string, req models.TransactionRequest) (*models.Transaction, error) {
	if ownerID == "" {
		return nil, ErrUnauthorized
	}
	if err := validateTransaction(&req); err != nil {
		return nil, err
	}
	if err := s.protect(ctx, ownerID); err != nil {
		return nil, err
	}
	user, err := s.owner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	txn := &models.Transaction{
		ID:                s.newID(),
		UserID:            user.ID,
		AccountID:         req.AccountID,
		Type:              req.Type,
		Amount:            req.Amount,
		Description:       req.Description,
		Category:          req.Category,
		Date:              req.Date,
		IsRecurring:       req.IsRecurring,
		RecurringInterval: req.RecurringInterval,
		NextRecurringDate: NextRecurringDate(req.Date, req.IsRecurring, req.RecurringInterval),
		Status:            models.TransactionStatusCompleted,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	err = s.store.WithinTx(ctx, func(tx Tx) error {
		if _, err := tx.LockAccount(ctx, user.ID, txn.AccountID); err != nil {
			return lookup(err, "account")
		}
		if err := tx.InsertTransaction(ctx, txn); err != nil {
			return err
		}
		_, err := tx.AdjustBalance(ctx, txn.AccountID, Delta(txn.Type, txn.Amount))
		return err
	})
	if err != nil {
		return nil, storeFailure(err)
	}
	return txn, nil
}

func (s *Service) UpdateTransaction(ctx context.Context, ownerID, transactionID string, req models.TransactionRequest) (*models.Transaction, error) {
	if ownerID == "" {
		return nil, ErrUnauthorized
	}
	if err := validateTransaction(&req); err != nil {
		return nil, err
	}
	user, err := s.owner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	var updated *models.Transaction
	err = s.store.WithinTx(ctx, func(tx Tx) error {
		orig, err := tx.LockTransaction(ctx, user.ID, transactionID)
		if err != nil {
			return lookup(err, "transaction")
		}
		for _, id := range lockOrder(orig.AccountID, req.AccountID) {
			if _, err := tx.LockAccount(ctx, user.ID, id); err != nil {
				return lookup(err, "account")
			}
		}

		updated = &models.Transaction{
			ID:                orig.ID,
			UserID:            orig.UserID,
			AccountID:         req.AccountID,
			Type:              req.Type,
			Amount:            req.Amount,
			Description:       req.Description,
			Category:          req.Category,
			Date:              req.Date,
			IsRecurring:       req.IsRecurring,
			RecurringInterval: req.RecurringInterval,
			Status:            orig.Status,
			CreatedAt:         orig.CreatedAt,
			UpdatedAt:         s.now(),
		}
		updated.NextRecurringDate = nextOnEdit(orig, updated)

		if err := tx.UpdateTransaction(ctx, updated); err != nil {
			return err
		}
		for _, change := range EditChanges(orig, updated) {
			if _, err := tx.AdjustBalance(ctx, change.AccountID, change.Delta); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, storeFailure(err)
	}
	return updated, nil
}

func (s *Service) GetTransaction(ctx context.Context, ownerID, transactionID string) (*models.Transaction, error) {
	user, err := s.owner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	txn, err := s.store.GetTransaction(ctx, user.ID, transactionID)
	if err != nil {
		return nil, lookup(err, "transaction")
	}
	return txn, nil
}

func (s *Service) ListAccountTransactions(ctx context.Context, ownerID, accountID string) ([]models.Transaction, error) {
	user, err := s.owner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetAccount(ctx, user.ID, accountID); err != nil {
		return nil, lookup(err, "account")
	}
	txns, err := s.store.ListTransactions(ctx, user.ID, accountID)
	if err != nil {
		return nil, storeFailure(err)
	}
	return txns, nil
}

// owner resolves the identity provider subject to a stored user.
func (s *Service) owner(ctx context.Context, ownerID string) (*models.User, error) {
	if ownerID == "" {
		return nil, ErrUnauthorized
	}
	user, err := s.store.GetUserByExternalID(ctx, ownerID)
	if err != nil {
		return nil, lookup(err, "user")
	}
	return user, nil
}

func (s *Service) protect(ctx context.Context, ownerID string) error {
	if s.limiter == nil {
		return nil
	}
	decision := s.limiter.Protect(ctx, ownerID, 1)
	if !decision.IsDenied() {
		return nil
	}
	if decision.Reason == ratelimit.ReasonRateLimit {
		log := logger.FromContext(ctx)
		log.Warn().
			Str("code", "RATE_LIMIT_EXCEEDED").
			Str("owner", ownerID).
			Int("remaining", decision.Remaining).
			Float64("reset_seconds", decision.Reset.Seconds()).
			Msg("Transaction rate limit exceeded")
		return ErrRateLimited
	}
	return ErrBlocked
}

func validateTransaction(req *models.TransactionRequest) error {
	if req.AccountID == "" {
		return invalid("account_id is required")
	}
	if !req.Type.Valid() {
		return invalid("unknown transaction type %q", req.Type)
	}
	if !util.ValidateAmount(req.Amount) {
		return invalid("amount must be greater than zero with at most two decimal places")
	}
	if req.Date.IsZero() {
		return invalid("date is required")
	}
	if req.RecurringInterval != "" && !req.RecurringInterval.Valid() {
		return invalid("unknown recurring interval %q", req.RecurringInterval)
	}
	if !req.IsRecurring {
		req.RecurringInterval = ""
	}
	return nil
}

// nextOnEdit keeps the stored next occurrence unless the edit touched the date or recurrence.
func nextOnEdit(orig, updated *models.Transaction) *time.Time {
	if orig.Date.Equal(updated.Date) &&
		orig.IsRecurring == updated.IsRecurring &&
		orig.RecurringInterval == updated.RecurringInterval {
		return orig.NextRecurringDate
	}
	return NextRecurringDate(updated.Date, updated.IsRecurring, updated.RecurringInterval)
}

// lockOrder returns the distinct account ids in ascending order so concurrent edits touching
// the same pair of accounts lock them in the same order.
func lockOrder(ids ...string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func lookup(err error, what string) error {
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%s %w", what, ErrNotFound)
	}
	return storeFailure(err)
}
