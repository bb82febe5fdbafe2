package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a ledger account that holds a non-negative balance.
type Account struct {
	ID        string
	Balance   decimal.Decimal
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanCover reports whether the account can fund a transfer of amount.
// A transfer that would drain the account to exactly zero is not allowed.
func (a *Account) CanCover(amount decimal.Decimal) bool {
	return a.Balance.GreaterThan(amount)
}

// ApplyDebit returns new balance after debit.
func (a *Account) ApplyDebit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Sub(amount)
}

// ApplyCredit returns new balance after credit.
func (a *Account) ApplyCredit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Add(amount)
}
