package domain

import (
	"errors"
	"fmt"
)

var (
	// Account errors
	ErrAccountNotFound    = errors.New("account not found")
	ErrDuplicateAccountID = errors.New("account id already exists")
	ErrInvalidAccountID   = errors.New("invalid account id")
	ErrNegativeBalance    = errors.New("balance cannot be negative")
	ErrVersionConflict    = errors.New("account was modified concurrently")

	// Transfer errors
	ErrInsufficientBalance = errors.New("insufficient balance to perform the transaction")
	ErrSameAccount         = errors.New("cannot transfer to same account")
	ErrInvalidAmount       = errors.New("amount must be positive")
)

// Side identifies which party of a transfer an error refers to.
type Side string

const (
	SideSender   Side = "sender"
	SideReceiver Side = "receiver"
)

// AccountNotFoundError reports a missing sender or receiver account.
type AccountNotFoundError struct {
	Side      Side
	AccountID string
}

func (e *AccountNotFoundError) Error() string {
	return fmt.Sprintf("%s account not found", e.Side)
}

// Is makes errors.Is(err, ErrAccountNotFound) hold.
func (e *AccountNotFoundError) Is(target error) bool {
	return target == ErrAccountNotFound
}

// DuplicateAccountIDError is returned when an account id is already taken.
type DuplicateAccountIDError struct {
	ID string
}

func (e *DuplicateAccountIDError) Error() string {
	return fmt.Sprintf("Account id %s already exists!", e.ID)
}

// Is makes errors.Is(err, ErrDuplicateAccountID) hold.
func (e *DuplicateAccountIDError) Is(target error) bool {
	return target == ErrDuplicateAccountID
}
