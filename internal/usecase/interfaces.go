package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/memledger/internal/domain"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

// AccountStore defines data access for accounts.
type AccountStore interface {
	// Create inserts the account unless its id is already taken.
	Create(ctx context.Context, account *domain.Account) error
	// Lookup returns a snapshot of the stored account.
	Lookup(ctx context.Context, id string) (*domain.Account, error)
	// Commit replaces the stored records. Either all of them are applied or none.
	Commit(ctx context.Context, accounts ...*domain.Account) error
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

// LedgerRepository defines data access for ledger-wide operations.
type LedgerRepository interface {
	CheckConsistency(ctx context.Context) (totalBalance, totalFunded decimal.Decimal, negativeAccounts int, err error)
}

// LockRegistry hands out one exclusive lock per account id.
type LockRegistry interface {
	LockFor(id string) sync.Locker
}

// NotificationDispatcher delivers post-commit messages without blocking the caller.
type NotificationDispatcher interface {
	Dispatch(transferID string, sender, receiver domain.Account, amount decimal.Decimal)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// MetricsRecorder receives business metrics.
type MetricsRecorder interface {
	RecordTransfer(outcome string, duration time.Duration, amount decimal.Decimal)
	RecordAccountCreated()
}

// IdempotencyStore records the outcome of requests carrying an idempotency key.
type IdempotencyStore interface {
	// Reserve claims key for a new request. When the key is already taken it
	// returns claimed=false with the stored record, or a nil record while the
	// first request is still in progress.
	Reserve(ctx context.Context, key string, ttl time.Duration) (claimed bool, record []byte, err error)
	// Complete stores the final record for a reserved key.
	Complete(ctx context.Context, key string, record []byte, ttl time.Duration) error
	// Release frees a reserved key so the request can be retried.
	Release(ctx context.Context, key string) error
}

type nopMetrics struct{}

func (nopMetrics) RecordTransfer(string, time.Duration, decimal.Decimal) {}
func (nopMetrics) RecordAccountCreated()                                 {}
