package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/memledger/internal/domain"
)

// AccountUseCase handles account business logic.
type AccountUseCase struct {
	accountStore AccountStore
	metrics      MetricsRecorder
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(accountStore AccountStore, metrics MetricsRecorder) *AccountUseCase {
	if metrics == nil {
		metrics = nopMetrics{}
	}

	return &AccountUseCase{
		accountStore: accountStore,
		metrics:      metrics,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	ID      string
	Balance decimal.Decimal
}

// CreateAccount creates a new account with an opening balance.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if err := domain.ValidateAccountID(input.ID); err != nil {
		return nil, err
	}

	if err := domain.ValidateOpeningBalance(input.Balance); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	account := &domain.Account{
		ID:        input.ID,
		Balance:   input.Balance,
		Version:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.accountStore.Create(ctx, account); err != nil {
		return nil, err
	}

	uc.metrics.RecordAccountCreated()

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountStore.Lookup(ctx, id)
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	Limit  int
	Offset int
}

// ListAccounts lists accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.accountStore.List(ctx, limit, offset)
}
