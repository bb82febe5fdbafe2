package usecase

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrInconsistentLedger is returned when the ledger is not balanced.
	ErrInconsistentLedger = errors.New("ledger is inconsistent: balances do not match funded total")
)

// LedgerUseCase handles ledger-wide operations.
type LedgerUseCase struct {
	ledgerRepo LedgerRepository
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(ledgerRepo LedgerRepository) *LedgerUseCase {
	return &LedgerUseCase{
		ledgerRepo: ledgerRepo,
	}
}

// ConsistencyReport summarizes a ledger check.
type ConsistencyReport struct {
	Consistent       bool
	TotalBalance     decimal.Decimal
	TotalFunded      decimal.Decimal
	NegativeAccounts int
}

// CheckConsistency verifies that transfers conserved money and nobody is overdrawn.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (*ConsistencyReport, error) {
	totalBalance, totalFunded, negative, err := uc.ledgerRepo.CheckConsistency(ctx)
	if err != nil {
		return nil, err
	}

	report := &ConsistencyReport{
		TotalBalance:     totalBalance,
		TotalFunded:      totalFunded,
		NegativeAccounts: negative,
	}

	// Money only enters the ledger through opening balances.
	if !totalBalance.Equal(totalFunded) {
		return report, ErrInconsistentLedger
	}

	if negative > 0 {
		return report, ErrInconsistentLedger
	}

	report.Consistent = true

	return report, nil
}
