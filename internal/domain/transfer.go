package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferStatus is the outcome of a transfer that reached the commit step.
type TransferStatus string

const (
	TransferStatusTransferred TransferStatus = "transferred"
	TransferStatusFailed      TransferStatus = "failed"
)

// Transfer represents a money movement request between two accounts.
type Transfer struct {
	SenderAccountID   string
	ReceiverAccountID string
	Amount            decimal.Decimal
}

// Validate validates transfer request.
func (t *Transfer) Validate() error {
	if err := ValidateAccountID(t.SenderAccountID); err != nil {
		return err
	}

	if err := ValidateAccountID(t.ReceiverAccountID); err != nil {
		return err
	}

	if t.SenderAccountID == t.ReceiverAccountID {
		return ErrSameAccount
	}

	return ValidateAmount(t.Amount)
}

// TransferResult is returned by the transfer engine once locks were taken.
type TransferResult struct {
	ID                string
	SenderAccountID   string
	ReceiverAccountID string
	Amount            decimal.Decimal
	Status            TransferStatus
	CreatedAt         time.Time
}

// Succeeded reports whether both balances were committed.
func (r *TransferResult) Succeeded() bool {
	return r.Status == TransferStatusTransferred
}

// Message returns the human readable outcome.
func (r *TransferResult) Message() string {
	if r.Succeeded() {
		return "transferred"
	}
	return "transfer failed"
}
