package dto

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/memledger/internal/domain"
	"github.com/iho/memledger/internal/usecase"
)

var maxTransferAmount = decimal.RequireFromString(domain.MaxTransferAmount)

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	AccountID string           `json:"accountId" validate:"required,max=255"`
	Balance   *decimal.Decimal `json:"balance"`
}

// Validate checks the request shape.
func (r *CreateAccountRequest) Validate() error {
	if err := validateStruct(r); err != nil {
		return err
	}
	if r.Balance == nil {
		return fieldError("balance", "is required")
	}
	return nil
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	input := usecase.CreateAccountInput{ID: r.AccountID}
	if r.Balance != nil {
		input.Balance = *r.Balance
	}
	return input
}

// CreateTransferRequest represents a request to move money between two accounts.
type CreateTransferRequest struct {
	SenderAccountID   string           `json:"senderAccountId"   validate:"required,max=255"`
	ReceiverAccountID string           `json:"receiverAccountId" validate:"required,max=255,nefield=SenderAccountID"`
	TransferAmount    *decimal.Decimal `json:"transferAmount"`
}

// Validate checks the request shape.
func (r *CreateTransferRequest) Validate() error {
	if err := validateStruct(r); err != nil {
		return err
	}
	if r.TransferAmount == nil {
		return fieldError("transferAmount", "is required")
	}
	if !r.TransferAmount.IsPositive() {
		return fieldError("transferAmount", "must be greater than zero")
	}
	if !r.TransferAmount.Equal(r.TransferAmount.Round(domain.MoneyScale)) {
		return fieldError("transferAmount", fmt.Sprintf("must have at most %d decimal places", domain.MoneyScale))
	}
	if r.TransferAmount.GreaterThan(maxTransferAmount) {
		return fieldError("transferAmount", "must be at most "+domain.MaxTransferAmount)
	}
	return nil
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransferRequest) ToUseCaseInput() usecase.TransferInput {
	input := usecase.TransferInput{
		SenderAccountID:   r.SenderAccountID,
		ReceiverAccountID: r.ReceiverAccountID,
	}
	if r.TransferAmount != nil {
		input.Amount = *r.TransferAmount
	}
	return input
}
