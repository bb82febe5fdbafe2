package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/memledger/internal/domain"
)

// AccountStore implements usecase.AccountStore and usecase.LedgerRepository
// over a process-local map. Records are handed out as copies; the map only
// changes through Create and Commit.
type AccountStore struct {
	mu       sync.RWMutex
	accounts map[string]domain.Account
	funded   decimal.Decimal
	now      func() time.Time
}

// NewAccountStore creates a new AccountStore.
func NewAccountStore() *AccountStore {
	return &AccountStore{
		accounts: make(map[string]domain.Account),
		funded:   decimal.Zero,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create inserts the account if its id is free.
func (s *AccountStore) Create(ctx context.Context, account *domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[account.ID]; exists {
		return &domain.DuplicateAccountIDError{ID: account.ID}
	}

	if account.Balance.IsNegative() {
		return domain.ErrNegativeBalance
	}

	s.accounts[account.ID] = *account
	s.funded = s.funded.Add(account.Balance)

	return nil
}

// Lookup returns a copy of the stored account.
func (s *AccountStore) Lookup(ctx context.Context, id string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	return &account, nil
}

// Commit replaces the stored records. Every record must exist, carry the
// version it was read at and hold a non-negative balance; otherwise nothing
// is written.
func (s *AccountStore) Commit(ctx context.Context, accounts ...*domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, account := range accounts {
		stored, ok := s.accounts[account.ID]
		if !ok {
			return fmt.Errorf("commit %s: %w", account.ID, domain.ErrAccountNotFound)
		}

		if stored.Version != account.Version {
			return fmt.Errorf("commit %s: %w", account.ID, domain.ErrVersionConflict)
		}

		if account.Balance.IsNegative() {
			return fmt.Errorf("commit %s: %w", account.ID, domain.ErrNegativeBalance)
		}
	}

	now := s.now()
	for _, account := range accounts {
		account.Version++
		account.UpdatedAt = now
		s.accounts[account.ID] = *account
	}

	return nil
}

// List returns accounts ordered by id.
func (s *AccountStore) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	s.mu.RLock()
	ids := make([]string, 0, len(s.accounts))
	for id := range s.accounts {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	sort.Strings(ids)

	if offset >= len(ids) {
		return []*domain.Account{}, nil
	}

	end := len(ids)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	result := make([]*domain.Account, 0, end-offset)
	for _, id := range ids[offset:end] {
		account, err := s.Lookup(ctx, id)
		if err != nil {
			continue
		}
		result = append(result, account)
	}

	return result, nil
}

// CheckConsistency returns the sum of all balances, the sum of opening
// balances and the number of overdrawn accounts, read atomically.
func (s *AccountStore) CheckConsistency(ctx context.Context) (decimal.Decimal, decimal.Decimal, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := decimal.Zero
	negative := 0
	for _, account := range s.accounts {
		total = total.Add(account.Balance)
		if account.Balance.IsNegative() {
			negative++
		}
	}

	return total, s.funded, negative, nil
}

// Len returns the number of stored accounts.
func (s *AccountStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.accounts)
}
