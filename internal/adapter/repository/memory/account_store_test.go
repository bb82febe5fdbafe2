package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/memledger/internal/domain"
)

func seed(t *testing.T, s *AccountStore, id string, balance int64) {
	t.Helper()
	require.NoError(t, s.Create(context.Background(), &domain.Account{ID: id, Balance: decimal.NewFromInt(balance)}))
}

func TestAccountStore_CreateAndLookup(t *testing.T) {
	s := NewAccountStore()
	ctx := context.Background()

	seed(t, s, "Id-123", 1000)

	account, err := s.Lookup(ctx, "Id-123")
	require.NoError(t, err)
	assert.Equal(t, "Id-123", account.ID)
	assert.True(t, account.Balance.Equal(decimal.NewFromInt(1000)))
}

func TestAccountStore_CreateDuplicate(t *testing.T) {
	s := NewAccountStore()
	seed(t, s, "Id-123", 10)

	err := s.Create(context.Background(), &domain.Account{ID: "Id-123", Balance: decimal.NewFromInt(99)})

	require.ErrorIs(t, err, domain.ErrDuplicateAccountID)
	assert.Equal(t, "Account id Id-123 already exists!", err.Error())

	account, _ := s.Lookup(context.Background(), "Id-123")
	assert.True(t, account.Balance.Equal(decimal.NewFromInt(10)), "duplicate must not overwrite")
}

func TestAccountStore_CreateRejectsNegativeBalance(t *testing.T) {
	s := NewAccountStore()

	err := s.Create(context.Background(), &domain.Account{ID: "a", Balance: decimal.NewFromInt(-1)})

	require.ErrorIs(t, err, domain.ErrNegativeBalance)
	assert.Equal(t, 0, s.Len())
}

func TestAccountStore_LookupMissing(t *testing.T) {
	s := NewAccountStore()

	_, err := s.Lookup(context.Background(), "nope")

	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestAccountStore_LookupReturnsCopy(t *testing.T) {
	s := NewAccountStore()
	seed(t, s, "a", 100)

	account, err := s.Lookup(context.Background(), "a")
	require.NoError(t, err)
	account.Balance = decimal.NewFromInt(1)

	again, err := s.Lookup(context.Background(), "a")
	require.NoError(t, err)
	assert.True(t, again.Balance.Equal(decimal.NewFromInt(100)), "mutating a snapshot must not reach the store")
}

func TestAccountStore_CommitAppliesAllAndBumpsVersion(t *testing.T) {
	s := NewAccountStore()
	ctx := context.Background()
	seed(t, s, "a", 100)
	seed(t, s, "b", 50)

	a, _ := s.Lookup(ctx, "a")
	b, _ := s.Lookup(ctx, "b")
	a.Balance = decimal.NewFromInt(70)
	b.Balance = decimal.NewFromInt(80)

	require.NoError(t, s.Commit(ctx, a, b))
	assert.Equal(t, int64(1), a.Version)
	assert.Equal(t, int64(1), b.Version)

	storedA, _ := s.Lookup(ctx, "a")
	storedB, _ := s.Lookup(ctx, "b")
	assert.True(t, storedA.Balance.Equal(decimal.NewFromInt(70)))
	assert.True(t, storedB.Balance.Equal(decimal.NewFromInt(80)))
	assert.Equal(t, int64(1), storedA.Version)
}

func TestAccountStore_CommitIsAllOrNothing(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(a, b *domain.Account)
		wantErr error
	}{
		{
			name: "second record unknown",
			mutate: func(a, b *domain.Account) {
				a.Balance = decimal.NewFromInt(70)
				b.ID = "ghost"
			},
			wantErr: domain.ErrAccountNotFound,
		},
		{
			name: "stale version",
			mutate: func(a, b *domain.Account) {
				a.Balance = decimal.NewFromInt(70)
				b.Version = 42
			},
			wantErr: domain.ErrVersionConflict,
		},
		{
			name: "negative balance",
			mutate: func(a, b *domain.Account) {
				a.Balance = decimal.NewFromInt(-1)
				b.Balance = decimal.NewFromInt(151)
			},
			wantErr: domain.ErrNegativeBalance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewAccountStore()
			ctx := context.Background()
			seed(t, s, "a", 100)
			seed(t, s, "b", 50)

			a, _ := s.Lookup(ctx, "a")
			b, _ := s.Lookup(ctx, "b")
			tt.mutate(a, b)

			err := s.Commit(ctx, a, b)
			require.ErrorIs(t, err, tt.wantErr)

			storedA, _ := s.Lookup(ctx, "a")
			storedB, _ := s.Lookup(ctx, "b")
			assert.True(t, storedA.Balance.Equal(decimal.NewFromInt(100)))
			assert.True(t, storedB.Balance.Equal(decimal.NewFromInt(50)))
			assert.Equal(t, int64(0), storedA.Version)
		})
	}
}

func TestAccountStore_List(t *testing.T) {
	s := NewAccountStore()
	ctx := context.Background()
	for _, id := range []string{"c", "a", "b", "d"} {
		seed(t, s, id, 1)
	}

	page, err := s.List(ctx, 2, 1)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "b", page[0].ID)
	assert.Equal(t, "c", page[1].ID)

	empty, err := s.List(ctx, 10, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestAccountStore_CheckConsistency(t *testing.T) {
	s := NewAccountStore()
	ctx := context.Background()
	seed(t, s, "a", 100)
	seed(t, s, "b", 50)

	a, _ := s.Lookup(ctx, "a")
	b, _ := s.Lookup(ctx, "b")
	a.Balance = a.ApplyDebit(decimal.NewFromInt(30))
	b.Balance = b.ApplyCredit(decimal.NewFromInt(30))
	require.NoError(t, s.Commit(ctx, a, b))

	total, funded, negative, err := s.CheckConsistency(ctx)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(150)))
	assert.True(t, funded.Equal(decimal.NewFromInt(150)))
	assert.Zero(t, negative)
}

func TestAccountStore_ConcurrentCreate(t *testing.T) {
	s := NewAccountStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	duplicates := 0

	for i := range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Create(ctx, &domain.Account{ID: fmt.Sprintf("acc-%d", i%10), Balance: decimal.NewFromInt(1)})
			if err != nil {
				mu.Lock()
				duplicates++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, s.Len())
	assert.Equal(t, 90, duplicates)

	_, funded, _, _ := s.CheckConsistency(ctx)
	assert.True(t, funded.Equal(decimal.NewFromInt(10)))
}
