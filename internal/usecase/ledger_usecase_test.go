package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestLedgerUseCase_CheckConsistency(t *testing.T) {
	tests := []struct {
		name        string
		repo        *fakeLedgerRepository
		want        bool
		expectedErr error
	}{
		{
			name: "empty ledger",
			repo: &fakeLedgerRepository{
				totalBalance: decimal.Zero,
				totalFunded:  decimal.Zero,
			},
			want: true,
		},
		{
			name: "balanced ledger",
			repo: &fakeLedgerRepository{
				totalBalance: decimal.NewFromInt(1500),
				totalFunded:  decimal.NewFromInt(1500),
			},
			want: true,
		},
		{
			name: "repo error surfaces",
			repo: &fakeLedgerRepository{
				err: errors.New("store down"),
			},
			expectedErr: errors.New("store down"),
		},
		{
			name: "money created",
			repo: &fakeLedgerRepository{
				totalBalance: decimal.NewFromInt(1501),
				totalFunded:  decimal.NewFromInt(1500),
			},
			expectedErr: ErrInconsistentLedger,
		},
		{
			name: "money lost",
			repo: &fakeLedgerRepository{
				totalBalance: decimal.NewFromInt(1499),
				totalFunded:  decimal.NewFromInt(1500),
			},
			expectedErr: ErrInconsistentLedger,
		},
		{
			name: "negative account",
			repo: &fakeLedgerRepository{
				totalBalance: decimal.NewFromInt(100),
				totalFunded:  decimal.NewFromInt(100),
				negative:     1,
			},
			expectedErr: ErrInconsistentLedger,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewLedgerUseCase(tt.repo)
			report, err := uc.CheckConsistency(context.Background())

			if tt.expectedErr != nil {
				if err == nil || err.Error() != tt.expectedErr.Error() {
					t.Fatalf("expected error %v, got %v", tt.expectedErr, err)
				}
				if errors.Is(tt.expectedErr, ErrInconsistentLedger) && (report == nil || report.Consistent) {
					t.Fatalf("expected an inconsistent report, got %+v", report)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if report.Consistent != tt.want {
				t.Fatalf("expected consistent=%v, got %v", tt.want, report.Consistent)
			}
			if !report.TotalBalance.Equal(tt.repo.totalBalance) {
				t.Errorf("expected total %s, got %s", tt.repo.totalBalance, report.TotalBalance)
			}
		})
	}
}

func TestLedgerUseCase_RepositoryInvoked(t *testing.T) {
	repo := &fakeLedgerRepository{
		totalBalance: decimal.Zero,
		totalFunded:  decimal.Zero,
	}

	uc := NewLedgerUseCase(repo)
	if _, err := uc.CheckConsistency(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if repo.calls != 1 {
		t.Fatalf("expected repository to be called once, got %d", repo.calls)
	}
}

type fakeLedgerRepository struct {
	totalBalance decimal.Decimal
	totalFunded  decimal.Decimal
	negative     int
	err          error
	calls        int
}

func (f *fakeLedgerRepository) CheckConsistency(ctx context.Context) (decimal.Decimal, decimal.Decimal, int, error) {
	f.calls++
	return f.totalBalance, f.totalFunded, f.negative, f.err
}
