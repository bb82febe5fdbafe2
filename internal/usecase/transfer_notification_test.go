package usecase_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/memledger/internal/adapter/repository/memory"
	"github.com/iho/memledger/internal/domain"
	"github.com/iho/memledger/internal/infrastructure/notification"
	"github.com/iho/memledger/internal/usecase"
)

type brokenNotifier struct {
	attempts atomic.Int32
	panics   bool
}

func (n *brokenNotifier) Notify(ctx context.Context, _ domain.Notification) error {
	n.attempts.Add(1)
	if n.panics {
		panic("notifier exploded")
	}
	return errors.New("recipient unreachable")
}

func TestTransferUseCase_Transfer_NotificationFailureDoesNotAffectOutcome(t *testing.T) {
	tests := []struct {
		name   string
		panics bool
	}{
		{name: "notifier returns errors", panics: false},
		{name: "notifier panics", panics: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewAccountStore()
			for id, balance := range map[string]int64{"123": 1000, "456": 500} {
				if err := store.Create(context.Background(), &domain.Account{ID: id, Balance: decimal.NewFromInt(balance)}); err != nil {
					t.Fatalf("seed %s: %v", id, err)
				}
			}

			notifier := &brokenNotifier{panics: tt.panics}
			dispatcher := notification.NewDispatcher(notification.Config{
				Notifier:      notifier,
				Logger:        zerolog.Nop(),
				Workers:       2,
				MaxRetries:    2,
				RetryInterval: time.Millisecond,
				Timeout:       time.Second,
			})

			uc := usecase.NewTransferUseCase(store, memory.NewLockRegistry(), dispatcher, memory.NewULIDGenerator(), nil, zerolog.Nop())

			result, err := uc.Transfer(context.Background(), usecase.TransferInput{
				SenderAccountID:   "123",
				ReceiverAccountID: "456",
				Amount:            decimal.NewFromInt(200),
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Status != domain.TransferStatusTransferred {
				t.Fatalf("expected transferred, got %s", result.Status)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := dispatcher.Close(ctx); err != nil {
				t.Fatalf("close dispatcher: %v", err)
			}

			if notifier.attempts.Load() == 0 {
				t.Fatalf("expected the notifier to be called")
			}
			if got := balanceOf(t, store, "123"); !got.Equal(decimal.NewFromInt(800)) {
				t.Fatalf("expected sender balance 800, got %s", got)
			}
			if got := balanceOf(t, store, "456"); !got.Equal(decimal.NewFromInt(700)) {
				t.Fatalf("expected receiver balance 700, got %s", got)
			}
		})
	}
}
